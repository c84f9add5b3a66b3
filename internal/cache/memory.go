package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// Memory keeps entries in process. Values are stored encoded so callers
// never share mutable state with the cache.
type Memory struct {
	// mu serializes writers so Swap sees no interleaved Set.
	mu    sync.Mutex
	items *ttlcache.Cache[string, []byte]
}

func NewMemory() *Memory {
	items := ttlcache.New(
		ttlcache.WithTTL[string, []byte](ttlcache.NoTTL),
		ttlcache.WithDisableTouchOnHit[string, []byte](),
	)
	go items.Start()

	return &Memory{items: items}
}

func (m *Memory) Get(_ context.Context, key string, dst any) error {
	item := m.items.Get(key)
	if item == nil {
		return ErrMiss
	}

	if err := json.Unmarshal(item.Value(), dst); err != nil {
		return fmt.Errorf("failed to decode cache key %s: %w", key, err)
	}
	return nil
}

func (m *Memory) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache key %s: %w", key, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.set(key, raw, ttl)
	return nil
}

func (m *Memory) set(key string, raw []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = ttlcache.NoTTL
	}
	m.items.Set(key, raw, ttl)
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items.Delete(key)
	return nil
}

func (m *Memory) Swap(_ context.Context, key string, cur any, ttl time.Duration, next func(found bool) (any, bool)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item := m.items.Get(key)
	if item != nil {
		if err := json.Unmarshal(item.Value(), cur); err != nil {
			return fmt.Errorf("failed to decode cache key %s: %w", key, err)
		}
	}

	value, ok := next(item != nil)
	if !ok {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache key %s: %w", key, err)
	}
	m.set(key, raw, ttl)
	return nil
}

// Close stops the expiry loop.
func (m *Memory) Close() {
	m.items.Stop()
}
