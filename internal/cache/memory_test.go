package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/deppfellow/conference-central/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Speaker string   `json:"speaker"`
	Keys    []string `json:"keys"`
}

func TestMemoryRoundTrip(t *testing.T) {
	m := NewMemory()
	defer m.Close()
	ctx := context.Background()

	var got entry
	assert.ErrorIs(t, m.Get(ctx, "missing", &got), ErrMiss)

	in := entry{Speaker: "Ada", Keys: []string{"a", "b"}}
	require.NoError(t, m.Set(ctx, "featured", in, 0))
	require.NoError(t, m.Get(ctx, "featured", &got))
	assert.Equal(t, in, got)

	// Mutating the caller's copy must not leak into the cache.
	in.Keys[0] = "z"
	require.NoError(t, m.Get(ctx, "featured", &got))
	assert.Equal(t, "a", got.Keys[0])

	require.NoError(t, m.Delete(ctx, "featured"))
	assert.ErrorIs(t, m.Get(ctx, "featured", &got), ErrMiss)
	assert.NoError(t, m.Delete(ctx, "featured"))
}

func TestMemoryExpiry(t *testing.T) {
	m := NewMemory()
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "announcement", "soon gone", 20*time.Millisecond))

	var got string
	require.NoError(t, m.Get(ctx, "announcement", &got))
	assert.Equal(t, "soon gone", got)

	assert.Eventually(t, func() bool {
		return m.Get(ctx, "announcement", &got) == ErrMiss
	}, time.Second, 10*time.Millisecond)
}

// keepLargest stores n unless the cache already holds a larger slice.
func keepLargest(ctx context.Context, c Cache, n int) error {
	var cur entry
	return c.Swap(ctx, "featured", &cur, 0, func(found bool) (any, bool) {
		if found && n <= len(cur.Keys) {
			return nil, false
		}
		return entry{Keys: make([]string, n)}, true
	})
}

func TestMemorySwapKeepsLargestUnderContention(t *testing.T) {
	m := NewMemory()
	defer m.Close()
	ctx := context.Background()

	var wg sync.WaitGroup
	for n := 1; n <= 50; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, keepLargest(ctx, m, n))
		}()
	}
	wg.Wait()

	var got entry
	require.NoError(t, m.Get(ctx, "featured", &got))
	assert.Len(t, got.Keys, 50)

	require.NoError(t, keepLargest(ctx, m, 3))
	require.NoError(t, m.Get(ctx, "featured", &got))
	assert.Len(t, got.Keys, 50)
}

func TestNewSelectsDriver(t *testing.T) {
	c, err := New(config.CacheConfig{Driver: "memory"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, c)
	c.(*Memory).Close()

	_, err = New(config.CacheConfig{Driver: "redis"}, nil)
	assert.Error(t, err)

	_, err = New(config.CacheConfig{Driver: "memcache"}, nil)
	assert.Error(t, err)
}
