package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cloudcar/shopcache/internal/infrastructure/metrics"
)

// RedisKV implements KeyValue using Redis as the backing store.
// Every call runs under a bounded timeout so a slow Redis node cannot
// block a request indefinitely.
type RedisKV struct {
	client    *redis.Client
	opTimeout time.Duration
}

// NewRedisKV creates a new Redis-backed key-value store.
func NewRedisKV(client *redis.Client, opTimeout time.Duration) *RedisKV {
	return &RedisKV{
		client:    client,
		opTimeout: opTimeout,
	}
}

// Get retrieves a value by key. Returns ok=false on cache miss.
func (s *RedisKV) Get(ctx context.Context, key string) (string, bool, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	value, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusMiss, metrics.CacheTypeRedis).Inc()
			return "", false, nil
		}
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusError, metrics.CacheTypeRedis).Inc()
		return "", false, fmt.Errorf("redis get: %w", err)
	}

	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusHit, metrics.CacheTypeRedis).Inc()
	return value, true, nil
}

// Set stores a value under key. A zero TTL stores the entry without expiry.
func (s *RedisKV) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusError, metrics.CacheTypeRedis).Inc()
		return fmt.Errorf("redis set: %w", err)
	}

	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusSuccess, metrics.CacheTypeRedis).Inc()
	return nil
}

// Delete removes the given keys.
func (s *RedisKV) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpDelete, metrics.CacheStatusError, metrics.CacheTypeRedis).Inc()
		return fmt.Errorf("redis del: %w", err)
	}

	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpDelete, metrics.CacheStatusSuccess, metrics.CacheTypeRedis).Inc()
	return nil
}

// DeleteByPrefix scans for keys with the given prefix and removes them in
// batches. SCAN is used instead of KEYS to avoid blocking the server.
func (s *RedisKV) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var deleted int64
	iter := s.client.Scan(ctx, 0, prefix+"*", 100).Iterator()

	batch := make([]string, 0, 100)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			n, err := s.client.Del(ctx, batch...).Result()
			if err != nil {
				return deleted, fmt.Errorf("redis del batch: %w", err)
			}
			deleted += n
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("redis scan: %w", err)
	}

	if len(batch) > 0 {
		n, err := s.client.Del(ctx, batch...).Result()
		if err != nil {
			return deleted, fmt.Errorf("redis del batch: %w", err)
		}
		deleted += n
	}

	return deleted, nil
}

// Ping verifies the Redis connection is alive.
func (s *RedisKV) Ping(ctx context.Context) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (s *RedisKV) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.opTimeout)
}
