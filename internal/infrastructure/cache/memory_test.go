package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricio/backend/internal/domain"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestCache(t *testing.T) (*MemoryCache, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	c := NewMemoryCache(time.Hour)
	c.now = clock.Now
	t.Cleanup(c.Close)
	return c, clock
}

func TestMemoryCache_SetAndGet(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		value interface{}
	}{
		{name: "string", value: "Молоко Простоквашино"},
		{name: "struct keeps its type", value: domain.ProductAttributes{ProductType: "молоко", Brand: "Простоквашино"}},
		{name: "slice", value: []domain.Product{{ID: "p1"}, {ID: "p2"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestCache(t)

			require.NoError(t, c.Set(ctx, "key", tt.value, time.Minute))

			got, err := c.Get(ctx, "key")
			require.NoError(t, err)
			assert.Equal(t, tt.value, got)
		})
	}
}

func TestMemoryCache_Expiration(t *testing.T) {
	ctx := context.Background()
	c, clock := newTestCache(t)

	require.NoError(t, c.Set(ctx, "short", "value", time.Minute))

	clock.Advance(30 * time.Second)
	_, err := c.Get(ctx, "short")
	assert.NoError(t, err)

	clock.Advance(time.Minute)
	_, err = c.Get(ctx, "short")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)

	exists, err := c.Exists(ctx, "short")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemoryCache_GetMiss(t *testing.T) {
	c, _ := newTestCache(t)

	_, err := c.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestMemoryCache_Delete(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	require.NoError(t, c.Delete(ctx, "k"))

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestMemoryCache_Exists(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	exists, err := c.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, c.Set(ctx, "k", 1, time.Minute))

	exists, err = c.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMemoryCache_RemoveExpired(t *testing.T) {
	ctx := context.Background()
	c, clock := newTestCache(t)

	require.NoError(t, c.Set(ctx, "old", 1, time.Minute))
	require.NoError(t, c.Set(ctx, "fresh", 2, time.Hour))
	assert.Equal(t, 2, c.Size())

	clock.Advance(2 * time.Minute)
	c.removeExpired()

	assert.Equal(t, 1, c.Size())
	got, err := c.Get(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, 2, got)
}

func TestMemoryCache_Clear(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, c.Set(ctx, fmt.Sprintf("k%d", i), i, time.Minute))
	}
	require.Equal(t, 5, c.Size())

	c.Clear()

	assert.Equal(t, 0, c.Size())
	_, err := c.Get(ctx, "k0")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestMemoryCache_CloseTwice(t *testing.T) {
	c := NewMemoryCache(0)
	assert.NotPanics(t, func() {
		c.Close()
		c.Close()
	})
}

func TestMemoryCache_Concurrent(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", id)
			assert.NoError(t, c.Set(ctx, key, id, time.Minute))
			_, err := c.Get(ctx, key)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, c.Size())
}
