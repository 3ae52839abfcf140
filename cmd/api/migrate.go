package main

import (
	"errors"

	"github.com/spf13/cobra"

	"traintrace/internal/config"
	"traintrace/internal/logger"
	"traintrace/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if cfg.DatabaseURL == "" {
			return errors.New("DATABASE_URL is empty")
		}
		lg := logger.New(cfg.LogLevel)
		defer lg.Sync()

		db, err := store.Open(cfg.DatabaseURL, lg)
		if err != nil {
			return err
		}
		if err := store.Migrate(cmd.Context(), db); err != nil {
			return err
		}
		lg.Infow("migrations applied")
		return nil
	},
}
