package usecase

import (
	"context"
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/pricio/backend/internal/domain"
)

func TestNewMatchFinder(t *testing.T) {
	t.Run("uses provided thresholds", func(t *testing.T) {
		f := NewMatchFinder(MatchConfig{MinSimilarityScore: 30, ExactMatchScore: 80, CrossStoreMinScore: 50}, nil, zerolog.Nop())
		if f.minSimilarityScore != 30 || f.exactMatchScore != 80 || f.crossStoreMinScore != 50 {
			t.Errorf("thresholds = %d/%d/%d, want 30/80/50", f.minSimilarityScore, f.exactMatchScore, f.crossStoreMinScore)
		}
	})

	t.Run("uses defaults when zero or negative", func(t *testing.T) {
		f := NewMatchFinder(MatchConfig{MinSimilarityScore: -1}, nil, zerolog.Nop())
		if f.minSimilarityScore != DefaultMinSimilarityScore {
			t.Errorf("minSimilarityScore = %d, want %d", f.minSimilarityScore, DefaultMinSimilarityScore)
		}
		if f.exactMatchScore != DefaultExactMatchScore {
			t.Errorf("exactMatchScore = %d, want %d", f.exactMatchScore, DefaultExactMatchScore)
		}
		if f.crossStoreMinScore != DefaultCrossStoreMinScore {
			t.Errorf("crossStoreMinScore = %d, want %d", f.crossStoreMinScore, DefaultCrossStoreMinScore)
		}
	})
}

func milkCandidates() []domain.Product {
	return []domain.Product{
		{ID: "1", Name: "Молоко Простоквашино 3.2% 930мл", CurrentPrice: 89.99},
		{ID: "2", Name: "Молоко Домик в деревне 3.2% 930мл", CurrentPrice: 99.90},
		{ID: "3", Name: "Колбаса Докторская 400г", CurrentPrice: 249.00},
		{ID: "4", Name: "Молоко Простоквашино 3.2% 930мл", CurrentPrice: 79.90},
		{ID: "4", Name: "Молоко Простоквашино 3.2% 930мл", CurrentPrice: 79.90},
	}
}

func TestFindSimilar(t *testing.T) {
	f := NewMatchFinder(MatchConfig{}, nil, zerolog.Nop())
	ctx := context.Background()
	source := domain.SourceProduct{ID: "1", Name: "Молоко Простоквашино 3.2% 930мл", CurrentPrice: 89.99}

	t.Run("excludes source, duplicates and unrelated products", func(t *testing.T) {
		got := f.FindSimilar(ctx, milkCandidates(), source, 0)
		if len(got) != 2 {
			t.Fatalf("len(results) = %d, want 2", len(got))
		}
		if got[0].Product.ID != "4" || got[1].Product.ID != "2" {
			t.Errorf("order = [%s %s], want [4 2]", got[0].Product.ID, got[1].Product.ID)
		}
	})

	t.Run("scores and flags candidates", func(t *testing.T) {
		got := f.FindSimilar(ctx, milkCandidates(), source, 0)

		exact := got[0]
		if exact.SimilarityScore != 100 || !exact.IsExactMatch {
			t.Errorf("exact match = %d/%v, want 100/true", exact.SimilarityScore, exact.IsExactMatch)
		}
		if !exact.IsCheaper {
			t.Error("IsCheaper = false, want true")
		}
		if math.Abs(exact.PriceDiff-(-10.09)) > 1e-6 {
			t.Errorf("PriceDiff = %v, want -10.09", exact.PriceDiff)
		}
		if exact.PricePerUnit == nil || exact.PricePerUnit.Display != "85.91 ₽/л" {
			t.Errorf("PricePerUnit = %+v, want 85.91 ₽/л", exact.PricePerUnit)
		}

		other := got[1]
		if other.SimilarityScore != 63 || other.IsExactMatch || other.IsCheaper {
			t.Errorf("other = %d/%v/%v, want 63/false/false", other.SimilarityScore, other.IsExactMatch, other.IsCheaper)
		}
	})

	t.Run("limit truncates", func(t *testing.T) {
		got := f.FindSimilar(ctx, milkCandidates(), source, 1)
		if len(got) != 1 || got[0].Product.ID != "4" {
			t.Errorf("results = %+v, want only product 4", got)
		}
	})

	t.Run("equal scores ordered by price", func(t *testing.T) {
		candidates := append(milkCandidates(), domain.Product{ID: "5", Name: "Молоко Простоквашино 3.2% 930мл", CurrentPrice: 69.90})
		got := f.FindSimilar(ctx, candidates, source, 0)
		if got[0].Product.ID != "5" || got[1].Product.ID != "4" {
			t.Errorf("order = [%s %s ...], want [5 4 ...]", got[0].Product.ID, got[1].Product.ID)
		}
	})

	t.Run("zero source price gives zero diff", func(t *testing.T) {
		free := source
		free.CurrentPrice = 0
		for _, c := range f.FindSimilar(ctx, milkCandidates(), free, 0) {
			if c.PriceDiff != 0 || c.IsCheaper {
				t.Errorf("candidate %s: PriceDiff = %v, IsCheaper = %v, want 0/false", c.Product.ID, c.PriceDiff, c.IsCheaper)
			}
		}
	})

	t.Run("scores at the floor are dropped", func(t *testing.T) {
		strict := NewMatchFinder(MatchConfig{MinSimilarityScore: 63}, nil, zerolog.Nop())
		got := strict.FindSimilar(ctx, milkCandidates(), source, 0)
		if len(got) != 1 || got[0].Product.ID != "4" {
			t.Errorf("results = %d, want only product 4", len(got))
		}
	})

	t.Run("empty catalog", func(t *testing.T) {
		if got := f.FindSimilar(ctx, nil, source, 0); len(got) != 0 {
			t.Errorf("len(results) = %d, want 0", len(got))
		}
	})
}

func TestBestMatch(t *testing.T) {
	f := NewMatchFinder(MatchConfig{}, nil, zerolog.Nop())
	ctx := context.Background()
	source := domain.SourceProduct{ID: "x", Name: "Молоко Простоквашино 3.2% 930мл", CurrentPrice: 89.99}

	t.Run("returns top candidate", func(t *testing.T) {
		best := f.BestMatch(ctx, milkCandidates(), source)
		if best == nil {
			t.Fatal("BestMatch() = nil, want a candidate")
		}
		if best.SimilarityScore != 100 {
			t.Errorf("SimilarityScore = %d, want 100", best.SimilarityScore)
		}
	})

	t.Run("accepts score at the threshold band", func(t *testing.T) {
		candidates := []domain.Product{{ID: "2", Name: "Молоко Домик в деревне 3.2% 930мл", CurrentPrice: 99.90}}
		best := f.BestMatch(ctx, candidates, source)
		if best == nil || best.Product.ID != "2" {
			t.Errorf("BestMatch() = %+v, want product 2", best)
		}
	})

	t.Run("returns nil below cross-store threshold", func(t *testing.T) {
		kefir := domain.SourceProduct{ID: "k", Name: "Кефир Простоквашино 1%"}
		candidates := []domain.Product{{ID: "b", Name: "Био кефир 1% 900мл", CurrentPrice: 70}}
		if best := f.BestMatch(ctx, candidates, kefir); best != nil {
			t.Errorf("BestMatch() = %+v, want nil", best)
		}
	})

	t.Run("returns nil when nothing matches", func(t *testing.T) {
		candidates := []domain.Product{{ID: "3", Name: "Колбаса Докторская 400г"}}
		if best := f.BestMatch(ctx, candidates, source); best != nil {
			t.Errorf("BestMatch() = %+v, want nil", best)
		}
	})
}

func TestPricePerUnit(t *testing.T) {
	tests := []struct {
		name        string
		productName string
		price       float64
		wantValue   float64
		wantUnit    string
		wantDisplay string
		wantNil     bool
	}{
		{name: "per liter", productName: "Сок Добрый 1л", price: 120, wantValue: 120, wantUnit: "л", wantDisplay: "120.00 ₽/л"},
		{name: "per kilogram", productName: "Колбаса Докторская 400г", price: 200, wantValue: 500, wantUnit: "кг", wantDisplay: "500.00 ₽/кг"},
		{name: "volume preferred over weight", productName: "Набор 500мл 300г", price: 100, wantValue: 200, wantUnit: "л", wantDisplay: "200.00 ₽/л"},
		{name: "zero price", productName: "Молоко 930мл", price: 0, wantNil: true},
		{name: "no size", productName: "Хлеб Бородинский", price: 50, wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PricePerUnit(tt.productName, tt.price)
			if tt.wantNil {
				if got != nil {
					t.Errorf("PricePerUnit() = %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("PricePerUnit() = nil")
			}
			if math.Abs(got.Value-tt.wantValue) > 1e-9 {
				t.Errorf("Value = %v, want %v", got.Value, tt.wantValue)
			}
			if got.Unit != tt.wantUnit {
				t.Errorf("Unit = %q, want %q", got.Unit, tt.wantUnit)
			}
			if got.Display != tt.wantDisplay {
				t.Errorf("Display = %q, want %q", got.Display, tt.wantDisplay)
			}
		})
	}
}
