package main

import (
	"context"

	"github.com/brandworks/asset-qc/internal/config"
	"github.com/brandworks/asset-qc/internal/store"
	"github.com/brandworks/asset-qc/pkg/migrations"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the db",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, done := setup()
		defer done()

		zap.S().Info("Starting migration...")
		defer zap.S().Info("Db migrated")

		db, err := store.InitDB(cfg)
		if err != nil {
			zap.S().Fatalw("initializing data store", "error", err)
		}

		s := store.NewStore(db, store.WithLogger(zap.S().Named("store")))
		defer s.Close()

		return migrate(cmd.Context(), cfg, db, s)
	},
}

// migrate runs the goose migrations on PostgreSQL. sqlite databases are used for
// development and get the gorm schema instead.
func migrate(ctx context.Context, cfg *config.Config, db *gorm.DB, s store.Store) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Database.Type == "sqlite" {
		return s.InitialMigration(ctx)
	}
	return migrations.MigrateStore(db, cfg.Service.MigrationFolder)
}
