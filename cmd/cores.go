package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentic-research/solradmin/solr"
)

var (
	createConfigFile string
	createSchemaFile string
)

func init() {
	createCmd.Flags().StringVar(&createConfigFile, "config-file", "", "Config file name for the new core (server default if empty)")
	createCmd.Flags().StringVar(&createSchemaFile, "schema-file", "", "Schema file name for the new core (server default if empty)")

	rootCmd.AddCommand(infoCmd, statusCmd, createCmd, reloadCmd, unloadCmd)
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show Solr system information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cluster, _, err := newCluster(cmd)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"solr_home": cluster.Home(),
			"mode":      cluster.Mode(),
			"lucene":    cluster.Lucene(),
			"jvm":       cluster.JVM(),
			"system":    cluster.OS(),
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status [core]",
	Short: "List cores, or show the status of one core",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cluster, _, err := newCluster(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			for _, name := range cluster.CoreNames() {
				st, _ := cluster.Status(name)
				fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", st.Name, st.InstanceDir, st.Config, st.Schema)
			}
			return nil
		}
		st, ok := cluster.Status(args[0])
		if !ok {
			return fmt.Errorf("core %q does not exist", args[0])
		}
		return printJSON(out, map[string]any{
			"name":        st.Name,
			"instanceDir": st.InstanceDir,
			"config":      st.Config,
			"schema":      st.Schema,
		})
	},
}

var createCmd = &cobra.Command{
	Use:   "create <core>",
	Short: "Create a core unless it already exists",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cluster, _, err := newCluster(cmd)
		if err != nil {
			return err
		}
		core := cluster.Core(args[0])
		if createConfigFile != "" {
			core.SetConfigName(createConfigFile)
		}
		if createSchemaFile != "" {
			core.SetSchemaName(createSchemaFile)
		}
		outcome := core.Create()
		if outcome == solr.Applied && !core.Exists() {
			return fmt.Errorf("core %q was not created", core.Name())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", core.Name(), outcome)
		return nil
	},
}

var reloadCmd = &cobra.Command{
	Use:   "reload <core>",
	Short: "Reload a core",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cluster, _, err := newCluster(cmd)
		if err != nil {
			return err
		}
		_, outcome := cluster.Core(args[0]).Reload()
		if err := checkOutcome("reload "+args[0], outcome); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: reloaded\n", args[0])
		return nil
	},
}

var unloadCmd = &cobra.Command{
	Use:   "unload <core>",
	Short: "Unload a core",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cluster, _, err := newCluster(cmd)
		if err != nil {
			return err
		}
		if _, err := existingCore(cluster, args[0]); err != nil {
			return err
		}
		cluster.UnloadCore(args[0])
		fmt.Fprintf(cmd.OutOrStdout(), "%s: unloaded\n", args[0])
		return nil
	},
}
