package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	_, ok := c.Get(ctx, "missing")
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", []byte("plan"), time.Minute))
	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("plan"), got)
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	c := NewMemoryCache()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "short", []byte("a"), 5*time.Minute))
	require.NoError(t, c.Set(ctx, "forever", []byte("b"), 0))

	now = now.Add(4 * time.Minute)
	_, ok := c.Get(ctx, "short")
	assert.True(t, ok)

	now = now.Add(time.Minute)
	_, ok = c.Get(ctx, "short")
	assert.False(t, ok, "expired at exactly ttl")
	assert.Equal(t, 1, c.Len(), "expired entry is evicted on read")

	now = now.Add(24 * time.Hour)
	_, ok = c.Get(ctx, "forever")
	assert.True(t, ok)
}

func TestMemoryCache_CopiesValues(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	value := []byte("abc")
	require.NoError(t, c.Set(ctx, "k", value, 0))
	value[0] = 'x'

	got, _ := c.Get(ctx, "k")
	assert.Equal(t, []byte("abc"), got)

	got[1] = 'y'
	again, _ := c.Get(ctx, "k")
	assert.Equal(t, []byte("abc"), again)
}

func TestMemoryCache_Concurrent(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.Set(ctx, "k", []byte("v"), time.Minute)
			c.Get(ctx, "k")
		}()
	}
	wg.Wait()

	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)
}
