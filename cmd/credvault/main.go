package main

import (
	"fmt"
	"os"

	"github.com/aussiebroadwan/credvault/internal/vault/app"
	"github.com/awnumar/memguard"
	"github.com/spf13/cobra"
)

func main() {
	err := run(os.Args[1:])

	// Wipe guarded key material before leaving.
	memguard.Purge()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	rootCmd := newRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func newRootCommand() *cobra.Command {
	serve := newServeCommand()

	rootCmd := &cobra.Command{
		Use:   "credvault",
		Short: "Credential vault for administrators",
		Long: `credvault stores application credentials for registered administrators.

Configuration is read from the environment (VAULT_*, PORT, LOG_LEVEL, ...).
Running without a subcommand starts the HTTP server.`,
		Version:       app.BuildVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}

	rootCmd.AddCommand(
		serve,
		newMigrateCommand(),
		newVersionCommand(),
	)

	return rootCmd
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := app.New(app.LoadConfig())
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			return application.Run()
		},
	}
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.LoadConfig()
			if err := cfg.Validate(); err != nil {
				return err
			}
			return app.Migrate(cmd.Context(), cfg, app.NewLogger(cfg))
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), app.BuildVersion)
		},
	}
}
