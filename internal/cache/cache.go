// Package cache stores small derived values, such as the featured speaker of
// a conference and the current announcement, outside the database.
//
// Values are JSON encoded. A zero TTL stores the entry without expiry.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/deppfellow/conference-central/internal/config"
	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by Get when the key holds no value.
var ErrMiss = errors.New("cache miss")

type Cache interface {
	// Get decodes the value stored at key into dst.
	Get(ctx context.Context, key string, dst any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Swap decodes the value at key into cur, then stores whatever next
	// returns when its second result is true. found is false on a miss.
	// No other Swap or Set on key lands between the read and the write.
	Swap(ctx context.Context, key string, cur any, ttl time.Duration, next func(found bool) (any, bool)) error
}

// New returns the cache selected by cfg.Driver. The redis driver needs a
// client; the memory driver ignores it.
func New(cfg config.CacheConfig, client *redis.Client) (Cache, error) {
	switch cfg.Driver {
	case "", "redis":
		if client == nil {
			return nil, fmt.Errorf("redis cache requires a redis client")
		}
		return NewRedis(client, cfg.KeyPrefix), nil
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
}
