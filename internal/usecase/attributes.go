package usecase

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pricio/backend/internal/domain"
)

// RE2 has no Unicode \b, so units are terminated by an explicit non-word rune or end of text.
const unitEnd = `(?:[^\p{L}\p{N}_]|$)`

// Compiled attribute patterns. All run against the normalized (lowercase) name.
var (
	volumeMLPattern    = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*(?:мл|ml)` + unitEnd)
	volumeLiterPattern = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*(?:литр|л` + unitEnd + `|l` + unitEnd + `)`)
	weightGramPattern  = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*(?:грамм|гр|г|g)` + unitEnd)
	weightKgPattern    = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*(?:кг|kg)` + unitEnd)
	fatPattern         = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*%`)
	quantityPattern    = regexp.MustCompile(`(\d+)\s*(?:штук|шт)|[x×х](\d+)`)

	// latinBrandPattern runs against the original-case name
	latinBrandPattern = regexp.MustCompile(`[A-Z][a-zA-Z']+(?:\s+[A-Z][a-zA-Z']+)?`)
	latinBrandShape   = regexp.MustCompile(`^[A-Z][a-zA-Z']+(?:\s+[A-Z][a-zA-Z']+)?$`)
)

// productType maps a canonical type to the keyword variants that identify it
type productType struct {
	name     string
	keywords []string
}

// productTypes is scanned in declaration order; the first type with a keyword
// contained in the name wins.
var productTypes = []productType{
	{"молоко", []string{"молоко", "молочко"}},
	{"кефир", []string{"кефир"}},
	{"йогурт", []string{"йогурт"}},
	{"творог", []string{"творог", "творожок", "творожный", "творожная", "творожное"}},
	{"сметана", []string{"сметана"}},
	{"сливки", []string{"сливки"}},
	{"сыр", []string{"сыр", "сырок", "сырный", "сырная"}},
	{"масло", []string{"масло"}},
	{"колбаса", []string{"колбаса", "колбасный", "колбасная", "колбаски"}},
	{"сосиски", []string{"сосиски", "сосиска", "сардельки", "сарделька"}},
	{"ветчина", []string{"ветчина"}},
	{"бекон", []string{"бекон"}},
	{"курица", []string{"курица", "куриный", "куриная", "куриное", "цыпленок"}},
	{"индейка", []string{"индейка", "индюшиный", "индюшиная"}},
	{"свинина", []string{"свинина", "свиной", "свиная", "свиное"}},
	{"говядина", []string{"говядина", "говяжий", "говяжья", "говяжье"}},
	{"фарш", []string{"фарш"}},
	{"рыба", []string{"рыба", "рыбный", "рыбная", "рыбное"}},
	{"лосось", []string{"лосось", "семга", "форель"}},
	{"креветки", []string{"креветки", "креветка"}},
	{"хлеб", []string{"хлеб", "хлебец", "хлебцы"}},
	{"батон", []string{"батон", "багет"}},
	{"булка", []string{"булка", "булочка", "булочки"}},
	{"вино", []string{"вино"}},
	{"пиво", []string{"пиво"}},
	{"водка", []string{"водка"}},
	{"виски", []string{"виски"}},
	{"коньяк", []string{"коньяк"}},
	{"сок", []string{"сок", "нектар"}},
	{"вода", []string{"вода", "минералка", "минеральная"}},
	{"лимонад", []string{"лимонад", "газировка"}},
	{"чай", []string{"чай"}},
	{"кофе", []string{"кофе"}},
	{"шоколад", []string{"шоколад", "шоколадка", "шоколадный", "шоколадная"}},
	{"конфеты", []string{"конфеты", "конфета"}},
	{"печенье", []string{"печенье"}},
	{"торт", []string{"торт"}},
	{"мороженое", []string{"мороженое", "пломбир", "эскимо"}},
	{"чипсы", []string{"чипсы"}},
	{"яблоко", []string{"яблоко", "яблоки", "яблочный", "яблочная"}},
	{"банан", []string{"банан", "бананы"}},
	{"апельсин", []string{"апельсин", "апельсины", "апельсиновый"}},
	{"лимон", []string{"лимон", "лимоны"}},
	{"помидор", []string{"помидор", "помидоры", "томат", "томаты"}},
	{"огурец", []string{"огурец", "огурцы"}},
	{"картофель", []string{"картофель", "картошка"}},
	{"морковь", []string{"морковь", "морковка"}},
	{"лук", []string{"лук", "луковый"}},
	{"капуста", []string{"капуста"}},
	{"рис", []string{"рис", "рисовый", "рисовая"}},
	{"гречка", []string{"гречка", "гречневый", "гречневая", "греча"}},
	{"макароны", []string{"макароны", "паста", "спагетти", "пенне", "фузилли"}},
	{"курага", []string{"курага"}},
	{"изюм", []string{"изюм"}},
	{"чернослив", []string{"чернослив"}},
	{"орехи", []string{"орехи", "орех", "миндаль", "фундук", "грецкий", "кешью"}},
}

// knownBrands are matched as substrings of the normalized name.
// Declaration order is the match priority.
var knownBrands = []string{
	"простоквашино", "домик в деревне", "вкуснотеево", "савушкин", "брест-литовск",
	"черкизово", "мираторг", "останкино", "велком", "папа может",
	"фруктовый сад", "моя семья", "добрый", "любимый", "j7", "rich",
	"макфа", "барилла", "щебекинские",
	"lay's", "lays", "pringles", "cheetos",
	"аленка", "бабаевский", "красный октябрь", "коркунов", "merci",
	"bonduelle", "heinz", "calve", "mixbar", "greenfield", "ahmad",
	"lipton", "nescafe", "jacobs", "jardin", "tchibo",
}

// ParseProductAttributes extracts type, brand, volume, weight, fat and pack
// quantity from a product name. Every attribute is optional and parsing
// never fails: malformed numbers leave the attribute empty.
func ParseProductAttributes(name string) domain.ProductAttributes {
	normalized := NormalizeText(name)
	var attrs domain.ProductAttributes

	if v, ok := matchNumber(volumeMLPattern, normalized); ok {
		attrs.VolumeML = &v
	} else if v, ok := matchNumber(volumeLiterPattern, normalized); ok {
		v *= 1000
		attrs.VolumeML = &v
	}

	if v, ok := matchNumber(weightGramPattern, normalized); ok {
		attrs.WeightG = &v
	} else if v, ok := matchNumber(weightKgPattern, normalized); ok {
		v *= 1000
		attrs.WeightG = &v
	}

	if v, ok := matchNumber(fatPattern, normalized); ok {
		attrs.FatPercent = &v
	}

	if m := quantityPattern.FindStringSubmatch(normalized); m != nil {
		digits := m[1]
		if digits == "" {
			digits = m[2]
		}
		if q, err := strconv.Atoi(digits); err == nil {
			attrs.Quantity = &q
		}
	}

	attrs.Brand = latinBrand(name)
	if attrs.Brand == "" {
		attrs.Brand = dictionaryBrand(normalized)
	}

	attrs.ProductType = detectProductType(normalized)

	return attrs
}

// matchNumber returns the first non-empty capture group of the pattern parsed as a decimal
func matchNumber(pattern *regexp.Regexp, s string) (float64, bool) {
	m := pattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	for _, group := range m[1:] {
		if group != "" {
			return parseDecimal(group)
		}
	}
	return 0, false
}

// parseDecimal accepts both comma and period as the decimal separator
func parseDecimal(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// latinBrand returns the longest capitalized Latin word sequence that stands
// as a whole word in the original name.
func latinBrand(name string) string {
	best := ""
	for _, loc := range latinBrandPattern.FindAllStringIndex(name, -1) {
		start := loc[0]
		if start > 0 {
			if r, _ := utf8.DecodeLastRuneInString(name[:start]); isWordRune(r) {
				continue
			}
		}
		if candidate := boundedPrefix(name, start, loc[1]); len(candidate) > len(best) {
			best = candidate
		}
	}
	return best
}

// boundedPrefix returns the longest prefix of the match name[start:end] that
// still has the brand shape and ends on a word boundary, so "Mucho Masвкус"
// gives "Mucho".
func boundedPrefix(name string, start, end int) string {
	for e := end; e > start; e-- {
		// the match is ASCII, so byte e-1 is a whole rune
		before := isWordRune(rune(name[e-1]))
		after := false
		if e < len(name) {
			r, _ := utf8.DecodeRuneInString(name[e:])
			after = isWordRune(r)
		}
		if before == after {
			continue
		}
		if candidate := name[start:e]; latinBrandShape.MatchString(candidate) {
			return candidate
		}
	}
	return ""
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// dictionaryBrand scans the known brand list and returns the match in title case
func dictionaryBrand(normalized string) string {
	for _, brand := range knownBrands {
		if strings.Contains(normalized, brand) {
			// Casers keep state, so one is created per call
			return cases.Title(language.Russian).String(brand)
		}
	}
	return ""
}

// detectProductType returns the first canonical product type whose keyword occurs in the name
func detectProductType(normalized string) string {
	for _, pt := range productTypes {
		for _, keyword := range pt.keywords {
			if strings.Contains(normalized, keyword) {
				return pt.name
			}
		}
	}
	return ""
}
