package usecase

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/pricio/backend/internal/domain"
)

// Search relevance bonuses. Relevance has no upper bound.
const (
	phraseMatchBonus   = 100
	phrasePrefixBonus  = 20
	tokenMatchBonus    = 30
	stemMatchBonus     = 20
	allTokensBonus     = 25
	categoryMatchBonus = 15

	minQueryLength   = 2
	minStemmedLength = 3

	// DefaultSearchLimit caps result lists when the caller passes no limit
	DefaultSearchLimit = 500
)

// RankProducts scores every product against a free-text query and returns the
// matches ordered by relevance, then by name. Queries shorter than two
// characters return no results.
func RankProducts(products []domain.Product, query string, limit int) []domain.SearchResult {
	if utf8.RuneCountInString(query) < minQueryLength {
		return nil
	}

	normalizedQuery := NormalizeText(query)
	tokens := TokenizeQuery(query)
	if len(tokens) == 0 {
		// The query is all stop words: search with them anyway
		for _, t := range strings.Fields(normalizedQuery) {
			if utf8.RuneCountInString(t) >= minTokenLength {
				tokens = append(tokens, t)
			}
		}
		if len(tokens) == 0 {
			return nil
		}
	}

	stems := make([]string, len(tokens))
	for i, t := range tokens {
		stems[i] = StemRussian(t)
	}

	var results []domain.SearchResult
	for _, product := range products {
		score := relevance(product, normalizedQuery, tokens, stems)
		if score > 0 {
			results = append(results, domain.SearchResult{Product: product, Score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].Product.Name != results[j].Product.Name {
			return results[i].Product.Name < results[j].Product.Name
		}
		return results[i].Product.ID < results[j].Product.ID
	})

	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

func relevance(product domain.Product, query string, tokens, stems []string) int {
	name := NormalizeText(product.Name)
	score := 0

	if strings.Contains(name, query) {
		score += phraseMatchBonus
		if strings.HasPrefix(name, query) {
			score += phrasePrefixBonus
		}
	}

	matched := 0
	for i, token := range tokens {
		switch {
		case strings.Contains(name, token):
			score += tokenMatchBonus
			matched++
		case utf8.RuneCountInString(stems[i]) >= minStemmedLength && strings.Contains(name, stems[i]):
			score += stemMatchBonus
			matched++
		}
	}
	if matched == len(tokens) && len(tokens) > 1 {
		score += allTokensBonus
	}

	if product.CategoryName != "" && strings.Contains(NormalizeText(product.CategoryName), query) {
		score += categoryMatchBonus
	}

	return score
}
