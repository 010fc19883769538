package idempotency

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-alert-bridge/internal/config"
)

const reservationKeyPrefix = "triggered:"

// RedisStore reserves ticket ids with SETNX. Opt-in backend: unlike
// MemoryStore it survives restarts, which widens duplicate suppression to
// the key TTL (or forever with a zero TTL).
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisStore connects to Redis using the provided configuration.
func NewRedisStore(cfg config.RedisConfig, ttl time.Duration, logger *zap.Logger) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &RedisStore{client: client, ttl: ttl, logger: logger}
}

// CheckAndReserve reserves the id with a single SETNX round trip.
func (s *RedisStore) CheckAndReserve(ctx context.Context, ticketID string) (bool, error) {
	fresh, err := s.client.SetNX(ctx, reservationKeyPrefix+ticketID, 1, s.ttl).Result()
	if err != nil {
		return false, err
	}
	return fresh, nil
}

// Ping verifies Redis connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the client.
func (s *RedisStore) Close() {
	if s != nil && s.client != nil {
		_ = s.client.Close()
	}
}
