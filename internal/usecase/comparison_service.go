package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pricio/backend/internal/domain"
)

// Default result sizes of the product page
const (
	DefaultSimilarLimit    = 6
	DefaultCrossStoreLimit = 5
)

// ComparisonServiceConfig holds configuration for the comparison service
type ComparisonServiceConfig struct {
	Stores          []domain.Store
	Match           MatchConfig
	SearchLimit     int
	SimilarLimit    int
	CrossStoreLimit int
	AttributesTTL   time.Duration
}

// ComparisonService answers search and price comparison requests against
// store catalogs. It holds no mutable state and is safe for concurrent use.
type ComparisonService struct {
	catalog         domain.CatalogRepository
	finder          *MatchFinder
	stores          []domain.Store
	searchLimit     int
	similarLimit    int
	crossStoreLimit int
	logger          zerolog.Logger
}

// NewComparisonService creates a comparison service. When cache is nil,
// attributes are parsed on every comparison.
func NewComparisonService(
	catalog domain.CatalogRepository,
	cache domain.CacheRepository,
	config ComparisonServiceConfig,
	logger zerolog.Logger,
) *ComparisonService {
	var source AttributeSource
	if cache != nil {
		source = NewAttributeCache(cache, config.AttributesTTL)
	}

	searchLimit := config.SearchLimit
	if searchLimit <= 0 {
		searchLimit = DefaultSearchLimit
	}

	similarLimit := config.SimilarLimit
	if similarLimit <= 0 {
		similarLimit = DefaultSimilarLimit
	}

	crossStoreLimit := config.CrossStoreLimit
	if crossStoreLimit <= 0 {
		crossStoreLimit = DefaultCrossStoreLimit
	}

	return &ComparisonService{
		catalog:         catalog,
		finder:          NewMatchFinder(config.Match, source, logger),
		stores:          config.Stores,
		searchLimit:     searchLimit,
		similarLimit:    similarLimit,
		crossStoreLimit: crossStoreLimit,
		logger:          logger,
	}
}

// Stores returns the configured stores
func (s *ComparisonService) Stores() []domain.Store {
	return s.stores
}

// Search ranks the products of a store against a free-text query.
// An empty category searches the whole store.
func (s *ComparisonService) Search(
	ctx context.Context,
	storeID, query, category string,
	limit int,
) ([]domain.SearchResult, error) {
	if _, err := s.store(storeID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > s.searchLimit {
		limit = s.searchLimit
	}

	products, err := s.listProducts(ctx, storeID, category)
	if err != nil {
		return nil, err
	}

	results := RankProducts(products, query, limit)
	s.logger.Debug().
		Str("store", storeID).
		Str("query", query).
		Int("catalog", len(products)).
		Int("results", len(results)).
		Msg("search")
	return results, nil
}

// SimilarInStore finds products in the same store that are comparable to the source product
func (s *ComparisonService) SimilarInStore(
	ctx context.Context,
	storeID string,
	source domain.SourceProduct,
	category string,
	limit int,
) ([]domain.ScoredCandidate, error) {
	if strings.TrimSpace(source.Name) == "" {
		return nil, domain.ErrInvalidRequest
	}
	if _, err := s.store(storeID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.similarLimit
	}

	products, err := s.listProducts(ctx, storeID, category)
	if err != nil {
		return nil, err
	}
	return s.finder.FindSimilar(ctx, products, source, limit), nil
}

// BestCrossStoreMatch returns the product in the counterpart store that is
// confidently the same item, or nil when no candidate is good enough.
func (s *ComparisonService) BestCrossStoreMatch(
	ctx context.Context,
	sourceStoreID string,
	source domain.SourceProduct,
) (*domain.ScoredCandidate, error) {
	products, err := s.counterpartProducts(ctx, sourceStoreID, source)
	if err != nil {
		return nil, err
	}
	return s.finder.BestMatch(ctx, products, source), nil
}

// CrossStoreCandidates lists comparable products in the counterpart store
func (s *ComparisonService) CrossStoreCandidates(
	ctx context.Context,
	sourceStoreID string,
	source domain.SourceProduct,
	limit int,
) ([]domain.ScoredCandidate, error) {
	products, err := s.counterpartProducts(ctx, sourceStoreID, source)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.crossStoreLimit
	}
	return s.finder.FindSimilar(ctx, products, source, limit), nil
}

// PricePerUnit returns the per-liter or per-kilogram price of a product
func (s *ComparisonService) PricePerUnit(name string, price float64) *domain.UnitPrice {
	return PricePerUnit(name, price)
}

// CompareProduct builds the comparison bundle for a catalog product: similar
// products in its category, candidates in the counterpart store and its unit price.
func (s *ComparisonService) CompareProduct(
	ctx context.Context,
	storeID, productID string,
) (*domain.ProductComparison, error) {
	if _, err := s.store(storeID); err != nil {
		return nil, err
	}

	product, err := s.catalog.GetProduct(ctx, storeID, productID)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	source := domain.SourceProduct{
		ID:           product.ID,
		Name:         product.Name,
		CurrentPrice: product.CurrentPrice,
	}

	similar, err := s.SimilarInStore(ctx, storeID, source, product.CategoryName, s.similarLimit)
	if err != nil {
		return nil, err
	}

	comparison := &domain.ProductComparison{
		Product:      *product,
		PricePerUnit: PricePerUnit(product.Name, product.CurrentPrice),
		Similar:      similar,
	}

	target, err := s.CounterpartStore(storeID)
	if errors.Is(err, domain.ErrNoCounterpartStore) {
		return comparison, nil
	}
	if err != nil {
		return nil, err
	}
	comparison.TargetStore = &target

	targetProducts, err := s.listProducts(ctx, target.ID, "")
	if err != nil {
		return nil, err
	}
	comparison.CrossStore = s.finder.FindSimilar(ctx, targetProducts, source, s.crossStoreLimit)
	if len(comparison.CrossStore) > 0 && comparison.CrossStore[0].SimilarityScore >= s.finder.crossStoreMinScore {
		best := comparison.CrossStore[0]
		comparison.BestCrossStore = &best
	}

	return comparison, nil
}

// CounterpartStore returns the store that cross-store comparisons target:
// the first configured store other than the source.
func (s *ComparisonService) CounterpartStore(storeID string) (domain.Store, error) {
	if _, err := s.store(storeID); err != nil {
		return domain.Store{}, err
	}
	for _, st := range s.stores {
		if st.ID != storeID {
			return st, nil
		}
	}
	return domain.Store{}, domain.ErrNoCounterpartStore
}

func (s *ComparisonService) store(storeID string) (domain.Store, error) {
	for _, st := range s.stores {
		if st.ID == storeID {
			return st, nil
		}
	}
	return domain.Store{}, fmt.Errorf("%w: %q", domain.ErrUnknownStore, storeID)
}

func (s *ComparisonService) counterpartProducts(
	ctx context.Context,
	sourceStoreID string,
	source domain.SourceProduct,
) ([]domain.Product, error) {
	if strings.TrimSpace(source.Name) == "" {
		return nil, domain.ErrInvalidRequest
	}
	target, err := s.CounterpartStore(sourceStoreID)
	if err != nil {
		return nil, err
	}
	return s.listProducts(ctx, target.ID, "")
}

func (s *ComparisonService) listProducts(ctx context.Context, storeID, category string) ([]domain.Product, error) {
	products, err := s.catalog.ListProducts(ctx, storeID, category)
	if err != nil {
		s.logger.Error().Err(err).Str("store", storeID).Msg("catalog fetch failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	return products, nil
}
