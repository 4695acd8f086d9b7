package main

import (
	"os"

	"github.com/VitaminP8/blogql/internal/config"
	"github.com/spf13/cobra"
)

func main() {
	config.LoadEnv()

	if err := newRootCmd(config.Load()).Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd returns the blogql command. Flags default to the values already
// loaded from the environment and override them when given.
func newRootCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blogql",
		Short: "Serve the users, posts and comments GraphQL API",
		Long: `Start an HTTP server with the blog GraphQL API.

The server exposes:
  - GraphQL endpoint at /query (GET, POST and websocket subscriptions)
  - GraphQL Playground at /

Examples:
  # Start with the in-memory store and demo data
  blogql

  # Use the SQLite backend without demo data
  blogql --storage sqlite --seed=false`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	flags.StringVar(&cfg.Storage, "storage", cfg.Storage, "storage type: memory or sqlite")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	flags.BoolVar(&cfg.Seed, "seed", cfg.Seed, "load demo data on start")
	flags.StringVar(&cfg.SeedFile, "seed-file", cfg.SeedFile, "YAML fixture to seed from instead of the built-in demo data")

	return cmd
}
