// cmd/server/main.go
package main

import (
	"log/slog"
	"os"

	"agririsk-back/internal/config"
	"agririsk-back/internal/database"
	"agririsk-back/internal/logging"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// rootCommand creates the agririsk CLI. Running it without a subcommand
// starts the server.
func rootCommand() *cobra.Command {
	var envFile string

	rootCmd := &cobra.Command{
		Use:          "agririsk",
		Short:        "Crop risk prediction API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), envFile)
		},
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "path to a .env file loaded before the environment")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run database migrations and start the HTTP server",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runServer(cmd.Context(), envFile)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the database schema and exit",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runMigrate(envFile)
			},
		},
	)

	return rootCmd
}

// bootstrap loads configuration, builds the logger and opens the database.
func bootstrap(envFile string) (*config.Config, *slog.Logger, *gorm.DB, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, nil, nil, err
	}

	logger := logging.NewLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	db, err := database.InitDB(cfg, logger)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		return nil, nil, nil, err
	}

	return cfg, logger, db, nil
}

func runMigrate(envFile string) error {
	_, logger, db, err := bootstrap(envFile)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.MigrateDB(db); err != nil {
		logger.Error("Failed to migrate database", "error", err)
		return err
	}

	logger.Info("Database schema is up to date")
	return nil
}
