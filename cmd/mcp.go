package cmd

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/agentic-research/solradmin/internal/mcptools"
)

func init() {
	rootCmd.AddCommand(mcpCmd)
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the admin tools to agents over MCP (stdio)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cluster, _, err := newCluster(cmd)
		if err != nil {
			return err
		}
		return server.ServeStdio(mcptools.NewServer(cluster))
	},
}
