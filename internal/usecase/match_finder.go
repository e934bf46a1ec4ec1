package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/pricio/backend/internal/domain"
)

// Default thresholds for similarity matching
const (
	DefaultMinSimilarityScore = 20
	DefaultExactMatchScore    = 70
	DefaultCrossStoreMinScore = 60

	cheaperEpsilon = 0.01
	minSearchTerm  = 3
)

// Unit symbols for normalized prices
const (
	unitLiter    = "л"
	unitKilogram = "кг"
	currencySign = "₽"
)

// AttributeSource returns parsed attributes for a catalog product
type AttributeSource interface {
	Attributes(ctx context.Context, productID, name string) domain.ProductAttributes
}

// parsingSource parses attributes on every call
type parsingSource struct{}

func (parsingSource) Attributes(_ context.Context, _ string, name string) domain.ProductAttributes {
	return ParseProductAttributes(name)
}

// MatchConfig holds thresholds for the match finder
type MatchConfig struct {
	MinSimilarityScore int
	ExactMatchScore    int
	CrossStoreMinScore int
	EnableDebugLogging bool
}

// MatchFinder finds comparable products for a source product in a catalog slice
type MatchFinder struct {
	minSimilarityScore int
	exactMatchScore    int
	crossStoreMinScore int
	enableDebugLogging bool
	attributes         AttributeSource
	logger             zerolog.Logger
}

// NewMatchFinder creates a match finder. A nil source parses attributes on every call.
func NewMatchFinder(config MatchConfig, source AttributeSource, logger zerolog.Logger) *MatchFinder {
	minScore := config.MinSimilarityScore
	if minScore <= 0 {
		minScore = DefaultMinSimilarityScore
	}

	exact := config.ExactMatchScore
	if exact <= 0 {
		exact = DefaultExactMatchScore
	}

	crossStore := config.CrossStoreMinScore
	if crossStore <= 0 {
		crossStore = DefaultCrossStoreMinScore
	}

	if source == nil {
		source = parsingSource{}
	}

	return &MatchFinder{
		minSimilarityScore: minScore,
		exactMatchScore:    exact,
		crossStoreMinScore: crossStore,
		enableDebugLogging: config.EnableDebugLogging,
		attributes:         source,
		logger:             logger,
	}
}

// FindSimilar returns the candidates most similar to the source product,
// ordered by similarity and then by price. The source product itself and
// repeated identifiers are skipped; candidates at or below the relevance
// floor are dropped.
func (f *MatchFinder) FindSimilar(
	ctx context.Context,
	candidates []domain.Product,
	source domain.SourceProduct,
	limit int,
) []domain.ScoredCandidate {
	sourceAttrs := ParseProductAttributes(source.Name)
	terms := searchTerms(source.Name, sourceAttrs)
	if len(terms) == 0 {
		return nil
	}

	seen := map[string]bool{source.ID: true}
	var scored []domain.ScoredCandidate

	for _, candidate := range candidates {
		if seen[candidate.ID] {
			continue
		}
		name := NormalizeText(candidate.Name)
		if !containsAny(name, terms) {
			continue
		}
		seen[candidate.ID] = true

		attrs := f.attributes.Attributes(ctx, candidate.ID, candidate.Name)
		score := SimilarityScore(sourceAttrs, attrs, source.Name, candidate.Name)

		if f.enableDebugLogging {
			f.logger.Debug().
				Str("source", source.Name).
				Str("candidate", candidate.Name).
				Int("score", score).
				Msg("similarity")
		}

		if score <= f.minSimilarityScore {
			continue
		}

		priceDiff := 0.0
		if source.CurrentPrice != 0 {
			priceDiff = candidate.CurrentPrice - source.CurrentPrice
		}

		scored = append(scored, domain.ScoredCandidate{
			Product:         candidate,
			SimilarityScore: score,
			PriceDiff:       priceDiff,
			IsCheaper:       priceDiff < -cheaperEpsilon,
			IsExactMatch:    score >= f.exactMatchScore,
			PricePerUnit:    unitPriceFor(attrs, candidate.CurrentPrice),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].SimilarityScore != scored[j].SimilarityScore {
			return scored[i].SimilarityScore > scored[j].SimilarityScore
		}
		return scored[i].Product.CurrentPrice < scored[j].Product.CurrentPrice
	})

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// BestMatch returns the single most similar candidate when it is confident
// enough to claim it is the same product, or nil.
func (f *MatchFinder) BestMatch(
	ctx context.Context,
	candidates []domain.Product,
	source domain.SourceProduct,
) *domain.ScoredCandidate {
	similar := f.FindSimilar(ctx, candidates, source, 1)
	if len(similar) == 0 || similar[0].SimilarityScore < f.crossStoreMinScore {
		return nil
	}
	best := similar[0]
	return &best
}

// searchTerms builds the coarse filter used to pick candidates: name tokens and
// their stems, the product type and its stem, and the brand.
func searchTerms(name string, attrs domain.ProductAttributes) []string {
	set := make(map[string]bool)
	var terms []string
	add := func(term string) {
		if term != "" && !set[term] {
			set[term] = true
			terms = append(terms, term)
		}
	}

	for _, token := range TokenizeQuery(name) {
		if utf8.RuneCountInString(token) < minSearchTerm {
			continue
		}
		add(token)
		if stem := StemRussian(token); utf8.RuneCountInString(stem) >= minSearchTerm {
			add(stem)
		}
	}

	if attrs.ProductType != "" {
		productType := strings.ToLower(attrs.ProductType)
		add(productType)
		if stem := StemRussian(productType); utf8.RuneCountInString(stem) >= minSearchTerm {
			add(stem)
		}
	}

	if attrs.Brand != "" {
		add(NormalizeText(attrs.Brand))
	}

	if len(terms) == 0 {
		if head := firstWord(NormalizeText(name)); utf8.RuneCountInString(head) >= minSearchTerm {
			add(head)
		}
	}
	return terms
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

// PricePerUnit normalizes a price to one liter when the volume is known, or
// to one kilogram when the weight is known. It returns nil for a zero price
// or when neither size is printed in the name.
func PricePerUnit(name string, price float64) *domain.UnitPrice {
	return unitPriceFor(ParseProductAttributes(name), price)
}

func unitPriceFor(attrs domain.ProductAttributes, price float64) *domain.UnitPrice {
	if price == 0 {
		return nil
	}
	if positive(attrs.VolumeML) {
		perLiter := price / *attrs.VolumeML * 1000
		return newUnitPrice(perLiter, unitLiter)
	}
	if positive(attrs.WeightG) {
		perKilogram := price / *attrs.WeightG * 1000
		return newUnitPrice(perKilogram, unitKilogram)
	}
	return nil
}

func newUnitPrice(value float64, unit string) *domain.UnitPrice {
	return &domain.UnitPrice{
		Value:   value,
		Unit:    unit,
		Display: fmt.Sprintf("%.2f %s/%s", value, currencySign, unit),
	}
}
