// Package cache provides Redis-backed key-value and cart storage.
package cache

import (
	"context"
	"time"
)

// KeyValue defines the interface for flat string-valued cache entries.
// Implementations should handle per-entry expiration transparently.
type KeyValue interface {
	// Get retrieves a value by key.
	// Returns ok=false if the key is absent or expired (cache miss).
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores a value under key. A zero TTL means the entry never expires.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes the given keys. Absent keys are not an error.
	Delete(ctx context.Context, keys ...string) error

	// DeleteByPrefix removes every key starting with prefix and returns the
	// number of keys deleted.
	DeleteByPrefix(ctx context.Context, prefix string) (int64, error)
}
