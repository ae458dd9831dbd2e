package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Mastel22/boondocks-bn-backend/internal/client"
)

var (
	verbose    bool
	configPath string

	clog = log.NewWithOptions(os.Stderr, log.Options{Prefix: "nomadctl"})
)

var rootCmd = &cobra.Command{
	Use:           "nomadctl",
	Short:         "Barefoot Nomad command line",
	Long:          "nomadctl runs maintenance tasks against the Barefoot Nomad database and calls its API.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			clog.SetLevel(log.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Client config file (default ~/.config/barefoot/config.toml)")

	rootCmd.AddCommand(migrateCmd, seedCmd, roleCmd)
	rootCmd.AddCommand(signinCmd, signoutCmd, whoamiCmd, bookingsCmd, twofaCmd)
}

// apiClient loads the client config and returns a client carrying the saved token
func apiClient() (*client.Client, *client.Config, error) {
	cfg, err := client.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	c := client.New(cfg.BaseURL(), cfg.Timeout(), clog)
	c.SetToken(cfg.Token())
	clog.Debug("Using API", "url", cfg.BaseURL(), "config", cfg.Path())
	return c, cfg, nil
}
