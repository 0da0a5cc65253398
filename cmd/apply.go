package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentic-research/solradmin/internal/manifest"
)

var applyVerbose bool

func init() {
	applyCmd.Flags().BoolVarP(&applyVerbose, "verbose", "v", false, "Also print unchanged steps")
	rootCmd.AddCommand(applyCmd)
}

var applyCmd = &cobra.Command{
	Use:   "apply <manifest.yaml>",
	Short: "Reconcile cores against a declarative manifest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := manifest.LoadFile(args[0])
		if err != nil {
			return err
		}
		cluster, _, err := newCluster(cmd)
		if err != nil {
			return err
		}

		report, applyErr := manifest.Apply(cluster, m)
		out := cmd.OutOrStdout()
		changes := report.Applied()
		if applyVerbose {
			changes = report.Changes
		}
		for _, c := range changes {
			fmt.Fprintln(out, c)
		}
		if applyErr != nil {
			return applyErr
		}
		fmt.Fprintf(out, "%d changes applied\n", len(report.Applied()))
		return nil
	},
}
