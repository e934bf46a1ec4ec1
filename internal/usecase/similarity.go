package usecase

import (
	"math"
	"strings"

	"github.com/pricio/backend/internal/domain"
)

// Head word / product type gate
const (
	headExactBonus     = 35
	headStemBonus      = 30
	headSubstringBonus = 25
	typeExactBonus     = 30
	typeStemBonus      = 25
	sharedWordsBonus   = 20
	minSharedWords     = 2
)

// Brand
const (
	brandSameBonus      = 35
	brandDifferentBonus = 5
	brandOneSidedBonus  = 3
	brandNoneBonus      = 10
)

// Size, fat and word overlap
const (
	sizeNearBonus   = 12 // ratio > 0.95
	sizeCloseBonus  = 8  // ratio > 0.8
	sizeRoughBonus  = 4  // ratio > 0.5
	fatNearBonus    = 8  // diff < 0.5
	fatCloseBonus   = 4  // diff < 1.5
	jaccardMaxBonus = 15
	maxSimilarity   = 100
)

// SimilarityScore rates how comparable two products are, from 0 to 100.
//
// Products whose head words and product types are unrelated, and which share
// fewer than two name words, score exactly 0: cross-type matches are never
// useful for price comparison. Otherwise the score accumulates:
//   - head word or product type agreement (gate)
//   - brand agreement
//   - volume closeness, or weight closeness when volume is not known for both
//   - fat percentage closeness
//   - Jaccard overlap of name words scaled to 15
//
// All rules are symmetric, so SimilarityScore(a, b) == SimilarityScore(b, a).
func SimilarityScore(a, b domain.ProductAttributes, nameA, nameB string) int {
	normA := NormalizeText(nameA)
	normB := NormalizeText(nameB)
	wordsA := nameWords(normA)
	wordsB := nameWords(normB)

	score, passed := headWordScore(firstWord(normA), firstWord(normB))
	if !passed {
		score, passed = productTypeScore(a.ProductType, b.ProductType)
	}
	if !passed {
		if countCommon(wordsA, wordsB) < minSharedWords {
			return 0
		}
		score = sharedWordsBonus
	}

	score += brandScore(a.Brand, b.Brand)

	switch {
	case positive(a.VolumeML) && positive(b.VolumeML):
		score += sizeScore(*a.VolumeML, *b.VolumeML)
	case positive(a.WeightG) && positive(b.WeightG):
		score += sizeScore(*a.WeightG, *b.WeightG)
	}

	if a.FatPercent != nil && b.FatPercent != nil {
		score += fatScore(*a.FatPercent, *b.FatPercent)
	}

	if len(wordsA) > 0 && len(wordsB) > 0 {
		common := countCommon(wordsA, wordsB)
		union := len(wordsA) + len(wordsB) - common
		score += int(float64(common) / float64(union) * jaccardMaxBonus)
	}

	if score > maxSimilarity {
		score = maxSimilarity
	}
	return score
}

func headWordScore(headA, headB string) (int, bool) {
	if headA == "" || headB == "" {
		return 0, false
	}
	switch {
	case headA == headB:
		return headExactBonus, true
	case StemRussian(headA) == StemRussian(headB):
		return headStemBonus, true
	case strings.Contains(headA, headB) || strings.Contains(headB, headA):
		return headSubstringBonus, true
	}
	return 0, false
}

func productTypeScore(typeA, typeB string) (int, bool) {
	if typeA == "" || typeB == "" {
		return 0, false
	}
	switch {
	case typeA == typeB:
		return typeExactBonus, true
	case StemRussian(typeA) == StemRussian(typeB):
		return typeStemBonus, true
	}
	return 0, false
}

func brandScore(brandA, brandB string) int {
	switch {
	case brandA != "" && brandB != "":
		if strings.ToLower(brandA) == strings.ToLower(brandB) {
			return brandSameBonus
		}
		return brandDifferentBonus
	case brandA != "" || brandB != "":
		return brandOneSidedBonus
	default:
		return brandNoneBonus
	}
}

func sizeScore(x, y float64) int {
	ratio := math.Min(x, y) / math.Max(x, y)
	switch {
	case ratio > 0.95:
		return sizeNearBonus
	case ratio > 0.8:
		return sizeCloseBonus
	case ratio > 0.5:
		return sizeRoughBonus
	}
	return 0
}

func fatScore(x, y float64) int {
	diff := math.Abs(x - y)
	switch {
	case diff < 0.5:
		return fatNearBonus
	case diff < 1.5:
		return fatCloseBonus
	}
	return 0
}

func countCommon(a, b map[string]bool) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for w := range a {
		if b[w] {
			n++
		}
	}
	return n
}

func positive(v *float64) bool {
	return v != nil && *v > 0
}
