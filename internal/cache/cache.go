// Package cache is the read-through cache for backend list responses
// (products, categories, orders, stats), keyed per restaurant.
package cache

import (
	"context"
	"errors"
)

var ErrCacheMiss = errors.New("cache miss")

// Cache stores serialized backend responses. Implementations apply their own
// TTL; callers treat entries as best-effort and fall back to the backend.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	DeletePrefix(ctx context.Context, prefix string) error
	Flush(ctx context.Context) error
}
