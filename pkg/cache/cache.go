// Package cache stores serialized analysis results keyed by a hash of the
// request that produced them.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry. A zero ttl never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// New returns a Redis cache for url, or a NullCache when url is empty.
func New(url string) (Cache, error) {
	if url == "" {
		return NewNullCache(), nil
	}
	return NewRedisCache(url)
}
