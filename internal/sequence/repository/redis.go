package repository

import (
	"context"
	"errors"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/smallbiznis/gstbilling/internal/sequence/domain"
)

const redisKeyPrefix = "gstbilling:seq:"

type redisStore struct {
	client redis.UniversalClient
}

// NewRedisStore keeps counters as redis integers updated with INCR.
func NewRedisStore(client redis.UniversalClient) domain.Store {
	return &redisStore{client: client}
}

func (s *redisStore) Increment(ctx context.Context, counterID string) (int64, error) {
	return s.client.Incr(ctx, redisKeyPrefix+counterID).Result()
}

func (s *redisStore) Current(ctx context.Context, counterID string) (int64, error) {
	raw, err := s.client.Get(ctx, redisKeyPrefix+counterID).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(raw, 10, 64)
}
