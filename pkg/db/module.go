package db

import (
	"context"

	"github.com/smallbiznis/gstbilling/internal/config"
	obslogger "github.com/smallbiznis/gstbilling/internal/observability/logger"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormprometheus "gorm.io/plugin/prometheus"
)

var Module = fx.Module("db",
	fx.Provide(New),
)

// New opens the configured database with structured query logging,
// tracing and pool metrics.
func New(lc fx.Lifecycle, cfg config.Config, gormCfg obslogger.GormLoggerConfig, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := Dialect(cfg)
	if err != nil {
		return nil, err
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger:         obslogger.NewGormLogger(gormCfg),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if err := conn.Use(otelgorm.NewPlugin(otelgorm.WithDBName(cfg.DBName))); err != nil {
		return nil, err
	}
	if err := conn.Use(gormprometheus.New(gormprometheus.Config{
		DBName:          cfg.DBName,
		RefreshInterval: 15,
		StartServer:     false,
	})); err != nil {
		return nil, err
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	pool := PoolConfigFrom(cfg)
	if conn.Dialector.Name() == DialectSQLite {
		// SQLite serialises writers; one connection avoids SQLITE_BUSY.
		pool.MaxOpenConn = 1
		pool.MaxIdleConn = 1
	}
	sqlDB.SetMaxIdleConns(pool.MaxIdleConn)
	sqlDB.SetMaxOpenConns(pool.MaxOpenConn)
	sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(pool.ConnMaxIdleTime)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return sqlDB.PingContext(ctx)
		},
		OnStop: func(ctx context.Context) error {
			log.Info("closing database connections")
			return sqlDB.Close()
		},
	})

	log.Info("database connected", zap.String("type", cfg.DBType), zap.String("name", cfg.DBName))
	return conn, nil
}
