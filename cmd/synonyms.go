package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentic-research/solradmin/solr"
)

var synonymGroup string

func init() {
	synonymsAppendCmd.Flags().StringVarP(&synonymGroup, "group", "g", "", "Comma-separated group of mutually equivalent terms")

	synonymsCmd.AddCommand(synonymsShowCmd, synonymsAppendCmd, synonymsDeleteCmd, synonymsInitArgsCmd)
	rootCmd.AddCommand(synonymsCmd)
}

var synonymsCmd = &cobra.Command{
	Use:   "synonyms",
	Short: "Manage managed synonym maps of the selected core",
}

// existingSynonyms returns the synonym map name without provisioning it.
func existingSynonyms(cmd *cobra.Command, name string) (*solr.SynonymMap, error) {
	core, err := selectedCore(cmd)
	if err != nil {
		return nil, err
	}
	if !core.Resources().ResourceExists("synonyms", name) {
		return nil, fmt.Errorf("no synonym resource %q in %s", name, core.Name())
	}
	return core.Synonyms(name), nil
}

var synonymsShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a synonym map",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sm, err := existingSynonyms(cmd, args[0])
		if err != nil {
			return err
		}
		m := sm.Map()
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(cmd.OutOrStdout(), "%s => %s\n", k, strings.Join(m[k], ", "))
		}
		return nil
	},
}

var synonymsAppendCmd = &cobra.Command{
	Use:   "append <name> [term=syn1,syn2 ...]",
	Short: "Merge synonyms into a map, creating the map if needed",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m := make(map[string][]string)
		for _, arg := range args[1:] {
			term, list, ok := strings.Cut(arg, "=")
			if !ok || term == "" || list == "" {
				return fmt.Errorf("invalid mapping %q, want term=syn1,syn2", arg)
			}
			m[term] = append(m[term], splitList(list)...)
		}
		if synonymGroup != "" {
			for k, words := range solr.NormalizeGroup(splitList(synonymGroup)) {
				m[k] = append(m[k], words...)
			}
		}
		if len(m) == 0 {
			return fmt.Errorf("nothing to append: give term=syn mappings or --group")
		}

		core, err := selectedCore(cmd)
		if err != nil {
			return err
		}
		outcome := core.Synonyms(args[0]).AppendSynonyms(m)
		if err := checkOutcome("append "+args[0], outcome); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], outcome)
		return nil
	},
}

var synonymsDeleteCmd = &cobra.Command{
	Use:   "delete <name> <term>",
	Short: "Remove a term from a synonym map",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sm, err := existingSynonyms(cmd, args[0])
		if err != nil {
			return err
		}
		if err := checkOutcome("delete "+args[1], sm.DeleteSynonym(args[1])); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: deleted %s\n", args[0], args[1])
		return nil
	},
}

var synonymsInitArgsCmd = &cobra.Command{
	Use:   "init-args <name> [json|@file]",
	Short: "Print or replace the init arguments of a synonym map",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sm, err := existingSynonyms(cmd, args[0])
		if err != nil {
			return err
		}
		if len(args) == 1 {
			return printJSON(cmd.OutOrStdout(), sm.InitArgs())
		}
		initArgs, err := readJSONObject(args[1])
		if err != nil {
			return err
		}
		if sm.InitArgsEqual(initArgs) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], solr.Unchanged)
			return nil
		}
		outcome := sm.SetInitArgs(initArgs)
		if err := checkOutcome("init-args "+args[0], outcome); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], outcome)
		return nil
	},
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
