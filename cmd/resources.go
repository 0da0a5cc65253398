package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	resourcesCmd.AddCommand(resourcesListCmd, resourcesCreateCmd, resourcesDeleteCmd)
	rootCmd.AddCommand(resourcesCmd)
}

var resourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "Manage the managed resources (stopwords, synonyms) of the selected core",
}

var resourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List managed resources",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		core, err := selectedCore(cmd)
		if err != nil {
			return err
		}
		for _, r := range core.Resources().Resources() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", r.ID(), r.Class())
		}
		return nil
	},
}

var resourcesCreateCmd = &cobra.Command{
	Use:   "create <type> <name>",
	Short: "Create a managed resource unless it exists",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		core, err := selectedCore(cmd)
		if err != nil {
			return err
		}
		r, outcome := core.Resources().CreateResource(args[0], args[1])
		if err := checkOutcome("create "+args[0]+" "+args[1], outcome); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", r.ID(), outcome)
		return nil
	},
}

var resourcesDeleteCmd = &cobra.Command{
	Use:   "delete <type> <name>",
	Short: "Delete a managed resource",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		core, err := selectedCore(cmd)
		if err != nil {
			return err
		}
		r, outcome := core.Resources().DeleteResource(args[0], args[1])
		if err := checkOutcome("delete "+args[0]+" "+args[1], outcome); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: deleted\n", r.ID())
		return nil
	},
}
