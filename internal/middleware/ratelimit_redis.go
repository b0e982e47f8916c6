// Package middleware provides HTTP middleware components for the API server.
package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisKeyPrefix namespaces rate limit keys so they can coexist with
// other users of the same Redis instance.
const redisKeyPrefix = "ratelimit:"

// RedisRateLimitStore implements RateLimitStore backed by Redis, so the
// limit is shared across API replicas. It uses a fixed window counter:
// INCR on the window key, EXPIRE on first increment.
//
// The store fails open: if Redis is unreachable the request is allowed
// and the error counter is incremented, so a Redis outage degrades rate
// limiting rather than taking down the API.
type RedisRateLimitStore struct {
	client  *redis.Client
	metrics *Metrics
	logger  *slog.Logger
}

// NewRedisRateLimitStore creates a Redis-backed rate limit store.
// metrics may be nil to disable fail-open counting.
func NewRedisRateLimitStore(client *redis.Client, metrics *Metrics, logger *slog.Logger) *RedisRateLimitStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisRateLimitStore{
		client:  client,
		metrics: metrics,
		logger:  logger,
	}
}

// Allow checks if a request from the given key should be allowed.
// Implements the RateLimitStore interface.
func (s *RedisRateLimitStore) Allow(ctx context.Context, key string, config RateLimitConfig) (bool, int) {
	redisKey := redisKeyPrefix + key

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	// Set the expiry only when the key is fresh; NX keeps an existing
	// window's deadline intact.
	pipe.ExpireNX(ctx, redisKey, config.WindowDuration)

	if _, err := pipe.Exec(ctx); err != nil {
		s.failOpen(ctx, err)
		return true, 0
	}

	count := incr.Val()
	if count <= int64(config.RequestsPerWindow) {
		return true, 0
	}

	ttl, err := s.client.TTL(ctx, redisKey).Result()
	if err != nil {
		// The deny decision is already made; a failed TTL lookup only
		// costs us the precise retry delay.
		if s.metrics != nil {
			s.metrics.IncRateLimitRedisErrors()
		}
		s.logger.WarnContext(ctx, "redis ttl lookup failed, using minimum retry delay",
			slog.String("error", err.Error()))
		return false, 1
	}
	if ttl <= 0 {
		return false, 1
	}
	retryAfter := int(ttl / time.Second)
	if retryAfter <= 0 {
		retryAfter = 1
	}
	return false, retryAfter
}

func (s *RedisRateLimitStore) failOpen(ctx context.Context, err error) {
	if s.metrics != nil {
		s.metrics.IncRateLimitRedisErrors()
	}
	s.logger.WarnContext(ctx, "redis rate limit check failed, allowing request",
		slog.String("error", err.Error()))
}
