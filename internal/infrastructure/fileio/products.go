package fileio

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pricio/backend/internal/domain"
	"github.com/pricio/backend/internal/usecase"
)

// Header aliases, compared case-insensitively
var (
	idColumns       = []string{"id", "product_id", "sku", "артикул", "код"}
	nameColumns     = []string{"name", "product_name", "название", "наименование", "товар"}
	categoryColumns = []string{"category", "category_name", "категория"}
	priceColumns    = []string{"price", "current_price", "цена"}
	brandColumns    = []string{"brand", "бренд", "производитель"}
	imageColumns    = []string{"image_url", "image", "изображение", "картинка"}
	urlColumns      = []string{"url", "link", "ссылка"}
)

var priceJunk = regexp.MustCompile(`[^\d.\-]`)

// ProductsFromRows maps imported rows to catalog products of a store.
// Size, fat, quantity and brand are extracted from the name unless a brand
// column is present. Rows without an id or name are skipped and counted.
func ProductsFromRows(rows []map[string]string, storeID string) ([]domain.Product, int) {
	var products []domain.Product
	skipped := 0

	for _, row := range rows {
		lookup := lowerKeys(row)

		id := field(lookup, idColumns)
		name := field(lookup, nameColumns)
		if id == "" || name == "" {
			skipped++
			continue
		}

		price, _ := ParsePriceRU(field(lookup, priceColumns))
		attrs := usecase.ParseProductAttributes(name)

		brand := field(lookup, brandColumns)
		if brand == "" {
			brand = attrs.Brand
		}

		products = append(products, domain.Product{
			ID:           id,
			StoreID:      storeID,
			Name:         name,
			CategoryName: field(lookup, categoryColumns),
			CurrentPrice: price,
			Brand:        brand,
			VolumeML:     attrs.VolumeML,
			WeightG:      attrs.WeightG,
			FatPercent:   attrs.FatPercent,
			Quantity:     attrs.Quantity,
			ImageURL:     field(lookup, imageColumns),
			URL:          field(lookup, urlColumns),
		})
	}
	return products, skipped
}

// ParsePriceRU parses prices like "1 234,50", "89.99 ₽" or "197 ,00"
func ParsePriceRU(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "", "\t", "", ",", ".").Replace(s)
	s = priceJunk.ReplaceAllString(s, "")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}

func lowerKeys(row map[string]string) map[string]string {
	out := make(map[string]string, len(row))
	for k, v := range row {
		out[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return out
}

func field(row map[string]string, aliases []string) string {
	for _, alias := range aliases {
		if v := strings.TrimSpace(row[alias]); v != "" {
			return v
		}
	}
	return ""
}
