package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentic-research/solradmin/internal/snapshot"
	"github.com/agentic-research/solradmin/solr"
)

var snapshotAll bool

func init() {
	snapshotCmd.Flags().BoolVar(&snapshotAll, "all", false, "Capture every core instead of the selected one")
	rootCmd.AddCommand(snapshotCmd)
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <output.db>",
	Short: "Record core state (status, schema, resources, synonyms, config files) into SQLite",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cluster, cfg, err := newCluster(cmd)
		if err != nil {
			return err
		}

		var cores []*solr.Core
		switch {
		case snapshotAll:
			for _, name := range cluster.CoreNames() {
				cores = append(cores, cluster.Core(name))
			}
		case cfg.Core != "":
			cores = append(cores, cluster.Core(cfg.Core))
		default:
			return fmt.Errorf("no core selected: use --core or --all")
		}

		w, err := snapshot.NewWriter(args[0])
		if err != nil {
			return err
		}
		defer func() { _ = w.Close() }()

		start := time.Now()
		for _, core := range cores {
			n, err := w.Capture(core)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d files\n", core.Name(), n)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Done in %v.\n", time.Since(start).Round(time.Millisecond))
		return nil
	},
}
