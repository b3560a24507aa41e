package app

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the task-manager CLI. Running it without a
// subcommand starts the server.
func NewRootCommand() *cobra.Command {
	var configPath string

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := MustLoadConfig(configPath)

			store := MustConnectStore(cfg.Database)
			defer DisconnectStore(store, cfg.Database)
			MustMigrateStore(store, cfg.Database)

			MustListenAndServeHTTP(cfg, store)
			return nil
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the database indexes and tables, then exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := MustLoadConfig(configPath)

			store := MustConnectStore(cfg.Database)
			defer DisconnectStore(store, cfg.Database)

			MustMigrateStore(store, cfg.Database)
			return nil
		},
	}

	rootCmd := &cobra.Command{
		Use:           serviceName,
		Short:         "Task management REST API",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serveCmd.RunE,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"path to a .env file with the configuration (default: process environment)")
	rootCmd.AddCommand(serveCmd, migrateCmd)
	return rootCmd
}
