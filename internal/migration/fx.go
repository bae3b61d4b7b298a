package migration

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gstbilling/internal/config"
	"github.com/smallbiznis/gstbilling/internal/seed"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, node *snowflake.Node, log *zap.Logger) error {
		if !cfg.DBMigrate {
			log.Info("schema migration disabled")
			return nil
		}
		if err := Migrate(conn); err != nil {
			return err
		}
		log.Info("schema migrated", zap.String("type", cfg.DBType))

		ctx := context.Background()
		if err := seed.EnsureCounters(ctx, conn); err != nil {
			return err
		}
		if cfg.SeedDemoData {
			if err := seed.EnsureDemoData(ctx, conn, node); err != nil {
				return err
			}
			log.Info("demo data seeded")
		}
		return nil
	}),
)
