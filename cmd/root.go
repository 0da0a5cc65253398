package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"

	"github.com/agentic-research/solradmin/internal/config"
	"github.com/agentic-research/solradmin/internal/transport"
	"github.com/agentic-research/solradmin/solr"
)

var (
	configPath string
	baseURL    string
	coreName   string
	timeout    time.Duration
)

// newTransport builds the transport for a resolved config. Tests swap it for
// an in-memory server.
var newTransport = func(cfg *config.Config) transport.Transport {
	return transport.NewHTTP(cfg.BaseURL, cfg.Timeout)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default $HOME/.config/solradmin/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "", "Solr base URL, e.g. http://localhost:8983/solr")
	rootCmd.PersistentFlags().StringVarP(&coreName, "core", "c", "", "Core to operate on")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "HTTP timeout")
}

var rootCmd = &cobra.Command{
	Use:           "solradmin",
	Short:         "Inspect and manage Solr cores, schemas, managed resources and config files",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves the config file, then the environment, then flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("url") {
		cfg.BaseURL = baseURL
	}
	if flags.Changed("core") {
		cfg.Core = coreName
	}
	if flags.Changed("timeout") {
		cfg.Timeout = timeout
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newCluster(cmd *cobra.Command) (*solr.Cluster, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	return solr.NewCluster(newTransport(cfg)), cfg, nil
}

// selectedCore returns a handle on the --core (or configured) core. The core
// must exist.
func selectedCore(cmd *cobra.Command) (*solr.Core, error) {
	cluster, cfg, err := newCluster(cmd)
	if err != nil {
		return nil, err
	}
	if cfg.Core == "" {
		return nil, fmt.Errorf("no core selected: use --core or set core in the config")
	}
	return existingCore(cluster, cfg.Core)
}

func existingCore(cluster *solr.Cluster, name string) (*solr.Core, error) {
	core := cluster.Core(name)
	if !core.Exists() {
		return nil, fmt.Errorf("core %q does not exist", name)
	}
	return core, nil
}

// checkOutcome turns the outcomes that mean "nothing was done because the
// input was wrong" into errors.
func checkOutcome(what string, o solr.Outcome) error {
	switch o {
	case solr.Applied, solr.Unchanged:
		return nil
	default:
		return fmt.Errorf("%s: %s", what, o)
	}
}

func printJSON(w io.Writer, v any) error {
	_, err := fmt.Fprintln(w, oj.JSON(v, 2))
	return err
}
