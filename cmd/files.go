package cmd

import (
	"fmt"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/agentic-research/solradmin/internal/corefs"
	"github.com/agentic-research/solradmin/solr"
)

func init() {
	filesCmd.AddCommand(filesLsCmd, filesCatCmd, filesExportCmd)
	rootCmd.AddCommand(filesCmd)
}

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "Browse the config files of the selected core",
}

var filesLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List every config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		core, err := selectedCore(cmd)
		if err != nil {
			return err
		}
		for _, p := range core.Files().Paths() {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		return nil
	},
}

var filesCatCmd = &cobra.Command{
	Use:   "cat <path>",
	Short: "Print a config file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		core, err := selectedCore(cmd)
		if err != nil {
			return err
		}
		data := core.Files().FileContent(args[0])
		if data == nil {
			return fmt.Errorf("no file %s in %s", solr.CleanPath(args[0]), core.Name())
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var filesExportCmd = &cobra.Command{
	Use:   "export <dir>",
	Short: "Copy every config file into a local directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		core, err := selectedCore(cmd)
		if err != nil {
			return err
		}
		n, err := corefs.Export(corefs.New(core.Files()), osfs.New(args[0]))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "exported %d files to %s\n", n, args[0])
		return nil
	},
}
