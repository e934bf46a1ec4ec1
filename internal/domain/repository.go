package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// CatalogRepository is the read side of the product catalog.
// An empty category means no category filter.
type CatalogRepository interface {
	ListProducts(ctx context.Context, storeID, category string) ([]Product, error)
	GetProduct(ctx context.Context, storeID, productID string) (*Product, error)
}

// AlertRepository persists price alerts
type AlertRepository interface {
	CreateAlert(ctx context.Context, alert *PriceAlert) error
	ListActiveAlerts(ctx context.Context) ([]PriceAlert, error)
	UpdateAlert(ctx context.Context, alert *PriceAlert) error
}

// Notifier delivers price-drop notifications
type Notifier interface {
	NotifyPriceDrop(ctx context.Context, drop PriceDrop) error
}
