package usecase

import (
	"testing"

	"github.com/pricio/backend/internal/domain"
)

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }

func equalFloat(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	diff := *a - *b
	return diff < 1e-9 && diff > -1e-9
}

func equalInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func TestParseProductAttributes(t *testing.T) {
	tests := []struct {
		name string
		want domain.ProductAttributes
	}{
		{
			name: "Молоко Простоквашино 3.2% 930мл",
			want: domain.ProductAttributes{
				ProductType: "молоко",
				Brand:       "Простоквашино",
				VolumeML:    floatPtr(930),
				FatPercent:  floatPtr(3.2),
			},
		},
		{
			name: "Сок Добрый яблочный 1 л",
			want: domain.ProductAttributes{
				ProductType: "сок",
				Brand:       "Добрый",
				VolumeML:    floatPtr(1000),
			},
		},
		{
			name: "Вода Aqua Minerale 0,5 л",
			want: domain.ProductAttributes{
				ProductType: "вода",
				Brand:       "Aqua Minerale",
				VolumeML:    floatPtr(500),
			},
		},
		{
			name: "Колбаса Докторская 400г",
			want: domain.ProductAttributes{
				ProductType: "колбаса",
				WeightG:     floatPtr(400),
			},
		},
		{
			name: "Сок Добрый яблочный 1.5л",
			want: domain.ProductAttributes{
				ProductType: "сок",
				Brand:       "Добрый",
				VolumeML:    floatPtr(1500),
			},
		},
		{
			name: "Сыр Российский 200г",
			want: domain.ProductAttributes{
				ProductType: "сыр",
				WeightG:     floatPtr(200),
			},
		},
		{
			name: "Чипсы Mucho Masвкус 100г",
			want: domain.ProductAttributes{
				ProductType: "чипсы",
				Brand:       "Mucho",
				WeightG:     floatPtr(100),
			},
		},
		{
			name: "Сахар 1кг",
			want: domain.ProductAttributes{
				WeightG: floatPtr(1000),
			},
		},
		{
			name: "Гречка ядрица 900 гр",
			want: domain.ProductAttributes{
				ProductType: "гречка",
				WeightG:     floatPtr(900),
			},
		},
		{
			name: "Масло сливочное 82,5% 180г",
			want: domain.ProductAttributes{
				ProductType: "масло",
				WeightG:     floatPtr(180),
				FatPercent:  floatPtr(82.5),
			},
		},
		{
			name: "Чипсы Lay's 150 г",
			want: domain.ProductAttributes{
				ProductType: "чипсы",
				Brand:       "Lay's",
				WeightG:     floatPtr(150),
			},
		},
		{
			name: "Сырки глазированные 5 шт",
			want: domain.ProductAttributes{
				ProductType: "сыр",
				Quantity:    intPtr(5),
			},
		},
		{
			name: "Молоко 0% 1л",
			want: domain.ProductAttributes{
				ProductType: "молоко",
				VolumeML:    floatPtr(1000),
				FatPercent:  floatPtr(0),
			},
		},
		{
			name: "",
			want: domain.ProductAttributes{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseProductAttributes(tt.name)

			if got.ProductType != tt.want.ProductType {
				t.Errorf("ProductType = %q, want %q", got.ProductType, tt.want.ProductType)
			}
			if got.Brand != tt.want.Brand {
				t.Errorf("Brand = %q, want %q", got.Brand, tt.want.Brand)
			}
			if !equalFloat(got.VolumeML, tt.want.VolumeML) {
				t.Errorf("VolumeML = %v, want %v", deref(got.VolumeML), deref(tt.want.VolumeML))
			}
			if !equalFloat(got.WeightG, tt.want.WeightG) {
				t.Errorf("WeightG = %v, want %v", deref(got.WeightG), deref(tt.want.WeightG))
			}
			if !equalFloat(got.FatPercent, tt.want.FatPercent) {
				t.Errorf("FatPercent = %v, want %v", deref(got.FatPercent), deref(tt.want.FatPercent))
			}
			if !equalInt(got.Quantity, tt.want.Quantity) {
				t.Errorf("Quantity = %v, want %v", got.Quantity, tt.want.Quantity)
			}
		})
	}
}

func TestParseProductAttributesUnitBoundaries(t *testing.T) {
	t.Run("unit letter inside a word is not a unit", func(t *testing.T) {
		got := ParseProductAttributes("Конфеты 2 лимонные")
		if got.VolumeML != nil {
			t.Errorf("VolumeML = %v, want nil", *got.VolumeML)
		}
	})

	t.Run("milliliters win over liters", func(t *testing.T) {
		got := ParseProductAttributes("Кефир 500 мл")
		if !equalFloat(got.VolumeML, floatPtr(500)) {
			t.Errorf("VolumeML = %v, want 500", deref(got.VolumeML))
		}
	})

	t.Run("latin unit", func(t *testing.T) {
		got := ParseProductAttributes("Cola 330ml")
		if !equalFloat(got.VolumeML, floatPtr(330)) {
			t.Errorf("VolumeML = %v, want 330", deref(got.VolumeML))
		}
	})
}

func TestParseProductAttributesBrandPriority(t *testing.T) {
	t.Run("latin brand wins over dictionary", func(t *testing.T) {
		got := ParseProductAttributes("Кофе Jacobs Monarch молотый Простоквашино")
		if got.Brand != "Jacobs Monarch" {
			t.Errorf("Brand = %q, want %q", got.Brand, "Jacobs Monarch")
		}
	})

	t.Run("dictionary brand is title cased", func(t *testing.T) {
		got := ParseProductAttributes("молоко домик в деревне 2,5% 1,4 л")
		if got.Brand != "Домик В Деревне" {
			t.Errorf("Brand = %q, want %q", got.Brand, "Домик В Деревне")
		}
		if !equalFloat(got.VolumeML, floatPtr(1400)) {
			t.Errorf("VolumeML = %v, want 1400", deref(got.VolumeML))
		}
	})
}

func deref(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
