package sequence

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/smallbiznis/gstbilling/internal/config"
	"github.com/smallbiznis/gstbilling/internal/sequence/domain"
	"github.com/smallbiznis/gstbilling/internal/sequence/repository"
	"github.com/smallbiznis/gstbilling/internal/sequence/service"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("sequence.service",
	fx.Provide(NewStore),
	fx.Provide(service.New),
)

// NewStore selects the counter backend named by SEQUENCE_BACKEND.
func NewStore(lc fx.Lifecycle, cfg config.Config, db *gorm.DB, log *zap.Logger) domain.Store {
	if cfg.SequenceBackend != config.SequenceBackendRedis {
		return repository.NewSQLStore(db)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	log.Info("sequence counters stored in redis", zap.String("addr", cfg.RedisAddr))
	return repository.NewRedisStore(client)
}
