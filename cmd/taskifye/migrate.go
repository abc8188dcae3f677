package main

import (
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/taskifye/integration-hub/internal/infrastructure/config"
	"github.com/taskifye/integration-hub/internal/infrastructure/db/mongo"
	"github.com/taskifye/integration-hub/internal/infrastructure/db/postgres"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update relational tables and SMS log indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			db, err := openPostgres(cmd, cfg)
			if err != nil {
				return err
			}
			defer postgres.Close(db)

			if err := postgres.AutoMigrate(ctx, db); err != nil {
				return err
			}
			log.Info().Msg("relational schema migrated")

			mc, mdb, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
			if err != nil {
				return err
			}
			defer func() { _ = mongo.Close(mc, 5*time.Second) }()

			if err := mongo.NewSmsRepository(mdb).EnsureIndexes(ctx); err != nil {
				return err
			}
			log.Info().Msg("sms indexes ensured")
			return nil
		},
	}
}

func openPostgres(cmd *cobra.Command, cfg *config.Config) (*gorm.DB, error) {
	dsn, err := cfg.DatabaseDSN()
	if err != nil {
		return nil, err
	}
	return postgres.Connect(cmd.Context(), postgres.Config{
		DSN:             dsn,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	})
}
