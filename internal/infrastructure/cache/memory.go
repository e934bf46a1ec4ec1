package cache

import (
	"context"
	"sync"
	"time"

	"github.com/pricio/backend/internal/domain"
)

// DefaultCleanupInterval is how often expired entries are swept
const DefaultCleanupInterval = 10 * time.Minute

type entry struct {
	value     interface{}
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// MemoryCache is a thread-safe in-process cache with per-entry TTL.
// Values are stored as given, so callers get back the same Go types they put in.
// Stored slices and pointers are shared and must be treated as read-only.
type MemoryCache struct {
	data  map[string]entry
	mutex sync.RWMutex

	stop     chan struct{}
	stopOnce sync.Once
	now      func() time.Time
}

// NewMemoryCache creates a cache and starts the background sweeper.
// A non-positive interval uses DefaultCleanupInterval.
func NewMemoryCache(cleanupInterval time.Duration) *MemoryCache {
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}

	c := &MemoryCache{
		data: make(map[string]entry),
		stop: make(chan struct{}),
		now:  time.Now,
	}
	go c.sweep(cleanupInterval)

	return c
}

// Get returns a live value or domain.ErrCacheMiss
func (c *MemoryCache) Get(ctx context.Context, key string) (interface{}, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	e, ok := c.data[key]
	if !ok || e.expired(c.now()) {
		return nil, domain.ErrCacheMiss
	}
	return e.value, nil
}

// Set stores a value for ttl
func (c *MemoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[key] = entry{value: value, expiresAt: c.now().Add(ttl)}
	return nil
}

// Delete removes a key
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
	return nil
}

// Exists reports whether a live value is stored under key
func (c *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	e, ok := c.data[key]
	return ok && !e.expired(c.now()), nil
}

// Size returns the number of stored entries, expired ones included until swept
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Clear drops every entry
func (c *MemoryCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[string]entry)
}

// Close stops the background sweeper. It is safe to call more than once.
func (c *MemoryCache) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *MemoryCache) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stop:
			return
		}
	}
}

func (c *MemoryCache) removeExpired() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	for key, e := range c.data {
		if e.expired(now) {
			delete(c.data, key)
		}
	}
}
