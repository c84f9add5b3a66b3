package main

import (
	"context"

	"github.com/deppfellow/conference-central/internal/config"
	"github.com/deppfellow/conference-central/internal/database"
	"github.com/deppfellow/conference-central/internal/logger"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd.Context())
		},
	})
}

func runMigrate(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	log := logger.NewLogger(cfg.Observability)
	if err := database.Migrate(ctx, &log, cfg); err != nil {
		log.Error().Err(err).Msg("migration failed")
		return err
	}

	log.Info().Msg("database is up to date")
	return nil
}
