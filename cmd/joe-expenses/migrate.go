package main

import (
	"github.com/spf13/cobra"

	"github.com/joestump/joe-expenses/internal/config"
	"github.com/joestump/joe-expenses/internal/db"
	"github.com/joestump/joe-expenses/internal/log"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			if err := db.Migrate(database, cfg.DB.Driver); err != nil {
				return err
			}

			logger.Info("migrations complete", "driver", cfg.DB.Driver)
			return nil
		},
	}
}

func newLogger(cfg *config.Config) *log.Logger {
	lc := log.DefaultConfig()
	lc.Level = log.ParseLevel(cfg.LogLevel)
	l := log.New(lc)
	log.SetDefault(l)
	return l
}
