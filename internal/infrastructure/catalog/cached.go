package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pricio/backend/internal/domain"
)

// DefaultCatalogTTL is how long a store catalog listing stays cached
const DefaultCatalogTTL = 5 * time.Minute

// CachedCatalog serves product listings from a cache in front of a catalog repository.
// Single product lookups always go to the repository.
type CachedCatalog struct {
	next   domain.CatalogRepository
	cache  domain.CacheRepository
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCachedCatalog wraps a catalog repository with a listing cache
func NewCachedCatalog(next domain.CatalogRepository, cache domain.CacheRepository, ttl time.Duration, logger zerolog.Logger) *CachedCatalog {
	if ttl <= 0 {
		ttl = DefaultCatalogTTL
	}
	return &CachedCatalog{next: next, cache: cache, ttl: ttl, logger: logger}
}

// ListProducts returns the cached listing or loads and caches it
func (c *CachedCatalog) ListProducts(ctx context.Context, storeID, category string) ([]domain.Product, error) {
	key := listingKey(storeID, category)

	if value, err := c.cache.Get(ctx, key); err == nil {
		if products, ok := value.([]domain.Product); ok {
			c.logger.Debug().Str("key", key).Int("products", len(products)).Msg("catalog cache hit")
			return products, nil
		}
	}

	products, err := c.next.ListProducts(ctx, storeID, category)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, products, c.ttl); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("failed to cache catalog")
	}
	return products, nil
}

// GetProduct reads through to the repository
func (c *CachedCatalog) GetProduct(ctx context.Context, storeID, productID string) (*domain.Product, error) {
	return c.next.GetProduct(ctx, storeID, productID)
}

type productWriter interface {
	UpsertProducts(ctx context.Context, products []domain.Product) (int, error)
}

// UpsertProducts saves products through the wrapped repository and drops the
// cached listings of every store and category it touched.
func (c *CachedCatalog) UpsertProducts(ctx context.Context, products []domain.Product) (int, error) {
	writer, ok := c.next.(productWriter)
	if !ok {
		return 0, errors.New("catalog repository is read-only")
	}

	saved, err := writer.UpsertProducts(ctx, products)
	if err != nil {
		return 0, err
	}

	touched := make(map[string]map[string]bool)
	for _, p := range products {
		if touched[p.StoreID] == nil {
			touched[p.StoreID] = make(map[string]bool)
		}
		touched[p.StoreID][p.CategoryName] = true
	}
	// A product moved out of a category leaves that listing until its TTL runs out
	for storeID, set := range touched {
		categories := make([]string, 0, len(set))
		for category := range set {
			categories = append(categories, category)
		}
		c.Invalidate(ctx, storeID, categories...)
	}
	return saved, nil
}

// Invalidate drops the cached listings of a store for the given categories
// and for the whole store.
func (c *CachedCatalog) Invalidate(ctx context.Context, storeID string, categories ...string) {
	keys := []string{listingKey(storeID, "")}
	for _, category := range categories {
		if category != "" {
			keys = append(keys, listingKey(storeID, category))
		}
	}
	for _, key := range keys {
		if err := c.cache.Delete(ctx, key); err != nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("failed to invalidate catalog cache")
		}
	}
}

// listingKey formats "catalog:{store_id}:{category}"
func listingKey(storeID, category string) string {
	return fmt.Sprintf("catalog:%s:%s", storeID, category)
}
