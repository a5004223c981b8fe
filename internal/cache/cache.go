// Package cache provides the byte-oriented key/value stores behind visitor
// sessions and the charity list cache.
package cache

import (
	"context"
	"time"
)

// RawCache stores opaque values with an optional TTL. A zero TTL means the
// entry does not expire.
type RawCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
