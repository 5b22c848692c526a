package main

import (
	"github.com/spf13/cobra"

	"github.com/noah-isme/lingua-go-api/internal/config"
	"github.com/noah-isme/lingua-go-api/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger := newLogger(cfg.AppEnv)

		db, err := database.ConnectPostgres(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}

		if err := database.Migrate(db); err != nil {
			return err
		}
		logger.Info().Msg("schema migrated")
		return nil
	},
}
