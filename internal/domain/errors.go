package domain

import "errors"

var (
	// ErrProductNotFound is returned when a product does not exist in the store catalog
	ErrProductNotFound = errors.New("product not found in catalog")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrUnknownStore is returned when a store identifier is not configured
	ErrUnknownStore = errors.New("unknown store")

	// ErrNoCounterpartStore is returned when no other store is available for cross-store comparison
	ErrNoCounterpartStore = errors.New("no counterpart store configured")

	// ErrCatalogUnavailable is returned when the catalog backend fails
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrAlertNotFound is returned when a price alert does not exist
	ErrAlertNotFound = errors.New("price alert not found")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrNotifierFailure is returned when a price-drop notification cannot be delivered
	ErrNotifierFailure = errors.New("notification delivery failed")
)
