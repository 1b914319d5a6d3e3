package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"finance-tracker-backend/internal/config"
	"finance-tracker-backend/internal/storage/postgres"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create tables and seed the category catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.DataBackend != config.BackendPostgres {
				return fmt.Errorf("migrate requires DATA_BACKEND=%s", config.BackendPostgres)
			}
			if err := postgres.Migrate(cmd.Context(), dbOptions(), logger); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			logger.Info("Migration completed successfully")
			return nil
		},
	}
}

func seedDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-demo",
		Short: "Seed demo transactions and budgets (idempotent)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.DataBackend != config.BackendPostgres {
				return fmt.Errorf("seed-demo requires DATA_BACKEND=%s", config.BackendPostgres)
			}
			store, err := postgres.Open(cmd.Context(), dbOptions(), logger)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer store.Close()

			return seedDemo(cmd.Context(), store)
		},
	}
}
