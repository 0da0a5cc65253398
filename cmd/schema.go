package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"

	"github.com/agentic-research/solradmin/api"
	"github.com/agentic-research/solradmin/internal/query"
)

var searchAll bool

func init() {
	schemaSearchCmd.Flags().BoolVarP(&searchAll, "all", "a", false, "Print every match instead of the first")

	schemaCmd.AddCommand(schemaShowCmd, schemaSearchCmd, schemaGetCmd, schemaUpsertCmd, schemaDeleteCmd, schemaXMLCmd)
	rootCmd.AddCommand(schemaCmd)
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Inspect and modify the schema of the selected core",
}

var schemaShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the schema document",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		core, err := selectedCore(cmd)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), core.Schema().Document())
	},
}

var schemaSearchCmd = &cobra.Command{
	Use:   "search <jsonpath>",
	Short: "Evaluate a JSONPath expression over the schema document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		core, err := selectedCore(cmd)
		if err != nil {
			return err
		}
		if searchAll {
			return printJSON(cmd.OutOrStdout(), query.All(core.Schema().Document(), args[0]))
		}
		return printJSON(cmd.OutOrStdout(), core.Schema().Search(args[0]))
	},
}

var schemaGetCmd = &cobra.Command{
	Use:   "get <type> <name>",
	Short: "Print one schema element",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		core, err := selectedCore(cmd)
		if err != nil {
			return err
		}
		el := core.Schema().GetElement(args[0], api.ByName(args[1]))
		if el == nil {
			return fmt.Errorf("no %s named %q", args[0], args[1])
		}
		return printJSON(cmd.OutOrStdout(), map[string]any(el))
	},
}

var schemaUpsertCmd = &cobra.Command{
	Use:   "upsert <type> <json|@file>",
	Short: "Add an element, or replace the element of the same name",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		core, err := selectedCore(cmd)
		if err != nil {
			return err
		}
		body, err := readJSONObject(args[1])
		if err != nil {
			return err
		}
		el, outcome := core.Schema().ModifyElement(args[0], api.Element(body))
		if err := checkOutcome("upsert "+args[0], outcome); err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), map[string]any(el))
	},
}

var schemaDeleteCmd = &cobra.Command{
	Use:   "delete <type> <name>",
	Short: "Delete a schema element",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		core, err := selectedCore(cmd)
		if err != nil {
			return err
		}
		outcome := core.Schema().DeleteElement(args[0], api.ByName(args[1]))
		if err := checkOutcome("delete "+args[0]+" "+args[1], outcome); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s: deleted\n", args[0], args[1])
		return nil
	},
}

var schemaXMLCmd = &cobra.Command{
	Use:   "xml",
	Short: "Print the schema serialized as schema.xml",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		core, err := selectedCore(cmd)
		if err != nil {
			return err
		}
		data := core.Schema().XML()
		if data == nil {
			return fmt.Errorf("schema.xml unavailable for %s", core.Name())
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

// readJSONObject parses arg as a JSON object, or the file it names when it
// starts with '@'.
func readJSONObject(arg string) (map[string]any, error) {
	data := []byte(arg)
	if name, ok := strings.CutPrefix(arg, "@"); ok {
		var err error
		if data, err = os.ReadFile(name); err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
	}
	v, err := oj.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected a JSON object")
	}
	return m, nil
}
