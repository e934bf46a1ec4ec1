package usecase

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/pricio/backend/internal/domain"
)

// AttributeCache memoizes parsed product attributes.
// Keys include a hash of the name, so a renamed product is parsed again.
type AttributeCache struct {
	cache domain.CacheRepository
	ttl   time.Duration
}

// NewAttributeCache creates an attribute cache on top of a cache repository
func NewAttributeCache(cache domain.CacheRepository, ttl time.Duration) *AttributeCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AttributeCache{cache: cache, ttl: ttl}
}

// Attributes returns cached attributes or parses and stores them
func (c *AttributeCache) Attributes(ctx context.Context, productID, name string) domain.ProductAttributes {
	key := attributeCacheKey(productID, name)

	if value, err := c.cache.Get(ctx, key); err == nil {
		if attrs, ok := value.(domain.ProductAttributes); ok {
			return attrs
		}
	}

	attrs := ParseProductAttributes(name)
	// A failed write only costs a re-parse next time
	_ = c.cache.Set(ctx, key, attrs, c.ttl)
	return attrs
}

// attributeCacheKey formats "attrs:{product_id}:{fnv64a(name)}"
func attributeCacheKey(productID, name string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return fmt.Sprintf("attrs:%s:%x", productID, h.Sum64())
}
