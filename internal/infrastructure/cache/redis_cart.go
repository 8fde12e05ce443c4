package cache

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cloudcar/shopcache/internal/domain/model"
)

const cartKeyPrefix = "cart_items:"

// RedisCartStore implements CartStore on a Redis hash per session.
// Cart records carry no TTL: carts persist until explicitly cleared.
type RedisCartStore struct {
	client    *redis.Client
	opTimeout time.Duration
}

// NewRedisCartStore creates a new Redis-backed cart store.
func NewRedisCartStore(client *redis.Client, opTimeout time.Duration) *RedisCartStore {
	return &RedisCartStore{
		client:    client,
		opTimeout: opTimeout,
	}
}

// Items returns every product line in the session's cart, sorted by product
// ID for stable output. Fields holding malformed quantities are skipped.
func (s *RedisCartStore) Items(ctx context.Context, sessionID string) ([]model.CartItem, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	fields, err := s.client.HGetAll(ctx, s.buildKey(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall: %w", err)
	}

	items := make([]model.CartItem, 0, len(fields))
	for field, value := range fields {
		productID, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			continue
		}
		qty, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			continue
		}
		items = append(items, model.CartItem{ProductID: productID, Quantity: qty})
	}

	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })
	return items, nil
}

// Quantity returns the current quantity of a product, ok=false when absent.
func (s *RedisCartStore) Quantity(ctx context.Context, sessionID, productID string) (int64, bool, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	value, err := s.client.HGet(ctx, s.buildKey(sessionID), productID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("redis hget: %w", err)
	}

	qty, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("parse cart quantity %q: %w", value, err)
	}
	return qty, true, nil
}

// Increment atomically adjusts a product's quantity and returns the result.
func (s *RedisCartStore) Increment(ctx context.Context, sessionID, productID string, delta int64) (int64, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	qty, err := s.client.HIncrBy(ctx, s.buildKey(sessionID), productID, delta).Result()
	if err != nil {
		return 0, fmt.Errorf("redis hincrby: %w", err)
	}
	return qty, nil
}

// Remove deletes a product's field from the cart.
func (s *RedisCartStore) Remove(ctx context.Context, sessionID, productID string) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if err := s.client.HDel(ctx, s.buildKey(sessionID), productID).Err(); err != nil {
		return fmt.Errorf("redis hdel: %w", err)
	}
	return nil
}

func (s *RedisCartStore) buildKey(sessionID string) string {
	return cartKeyPrefix + sessionID
}

func (s *RedisCartStore) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.opTimeout)
}
