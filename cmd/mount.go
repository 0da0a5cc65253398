package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/agentic-research/solradmin/internal/corefs"
	"github.com/agentic-research/solradmin/internal/nfsmount"
)

var (
	nfsAddr   string
	serveOnly bool
)

func init() {
	mountCmd.Flags().StringVar(&nfsAddr, "addr", "127.0.0.1:0", "NFS listen address")
	mountCmd.Flags().BoolVar(&serveOnly, "serve-only", false, "Run the NFS server without calling mount")
	rootCmd.AddCommand(mountCmd)
}

var mountCmd = &cobra.Command{
	Use:   "mount <mountpoint>",
	Short: "Mount the selected core's config files read-only over NFS",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mountPoint := args[0]
		core, err := selectedCore(cmd)
		if err != nil {
			return err
		}

		srv, err := nfsmount.NewServer(corefs.New(core.Files()), nfsAddr)
		if err != nil {
			return err
		}
		defer func() { _ = srv.Close() }()

		out := cmd.OutOrStdout()
		if serveOnly {
			fmt.Fprintf(out, "Serving %s over NFS on port %d\n", core.Name(), srv.Port())
		} else {
			if err := os.MkdirAll(mountPoint, 0o755); err != nil {
				return fmt.Errorf("create mountpoint: %w", err)
			}
			fmt.Fprintf(out, "Mounting %s at %s (NFS port %d)...\n", core.Name(), mountPoint, srv.Port())
			if err := nfsmount.Mount(srv.Port(), mountPoint); err != nil {
				return err
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		<-ctx.Done()

		if !serveOnly {
			fmt.Fprintf(out, "Unmounting %s\n", mountPoint)
			if err := nfsmount.Unmount(mountPoint); err != nil {
				return err
			}
		}
		return nil
	},
}
