package usecase

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Package-level compiled regex patterns for performance
var (
	tokenSplitRegex = regexp.MustCompile(`[\s,.\-_/\\()]+`)
	nameWordRegex   = regexp.MustCompile(`[а-яёa-z]{3,}`)
)

// stopWords are ignored by the tokenizer and by name word sets: function words,
// store names, marketing adjectives and unit abbreviations.
var stopWords = map[string]bool{
	// Store names
	"магнит": true, "пятёрочка": true, "пятерочка": true,
	// Function words
	"для": true, "без": true, "или": true, "the": true,
	"с": true, "и": true, "в": true, "на": true, "из": true, "по": true,
	"со": true, "к": true, "у": true, "о": true, "от": true,
	"and": true, "for": true, "with": true,
	// Units and packaging
	"штук": true, "шт": true, "упаковка": true, "пакет": true, "уп": true, "упак": true,
	"бзмж": true,
	// Marketing and generic terms
	"premium": true, "extra": true, "new": true, "global": true, "village": true,
	"напиток": true, "продукт": true, "изделие": true, "товар": true, "набор": true,
	"ассорти": true, "микс": true, "добавлением": true,
	"натуральный": true, "свежий": true, "вкусный": true, "домашний": true, "классический": true,
	"молочный": true, "молочная": true, "молочное": true,
	"детский": true, "детская": true, "взрослый": true,
	"гавайский": true, "тропический": true, "летняя": true, "летний": true,
	"садовая": true, "садовый": true, "лесная": true, "лесной": true,
	"красное": true, "красный": true, "белое": true, "белый": true, "зеленый": true, "зелёный": true,
	"фасованное": true, "фасованный": true, "отборные": true, "отборный": true,
	"сокосодержащий": true, "восстановленный": true,
	"протеиновый": true, "протеиновое": true, "высокобелковый": true, "энергетический": true,
	"газированный": true, "негазированный": true, "безалкогольный": true,
}

// russianEndings are tried in order; case/number endings come before single letters.
var russianEndings = []string{
	"ами", "ями",
	"ах", "ях", "ов", "ев", "ей", "ий", "ый", "ая", "яя", "ое", "ее",
	"ы", "и", "а", "я", "у", "ю", "е", "о",
}

const (
	minStemLength    = 4
	minStemRemainder = 3
	minTokenLength   = 2
)

// NormalizeText lowercases text, folds ё to е and collapses whitespace.
// It is idempotent.
func NormalizeText(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ToLower(text)
	text = strings.ReplaceAll(text, "ё", "е")
	return strings.Join(strings.Fields(text), " ")
}

// TokenizeQuery splits a query into normalized tokens, dropping
// one-character tokens and stop words.
func TokenizeQuery(query string) []string {
	normalized := NormalizeText(query)
	if normalized == "" {
		return nil
	}

	var tokens []string
	for _, t := range tokenSplitRegex.Split(normalized, -1) {
		if utf8.RuneCountInString(t) < minTokenLength {
			continue
		}
		if stopWords[t] {
			continue
		}
		tokens = append(tokens, t)
	}
	return tokens
}

// StemRussian strips one known ending from a word to approximate its root.
// Words shorter than four letters are returned unchanged.
func StemRussian(word string) string {
	length := utf8.RuneCountInString(word)
	if length < minStemLength {
		return word
	}
	for _, ending := range russianEndings {
		if strings.HasSuffix(word, ending) && length-utf8.RuneCountInString(ending) >= minStemRemainder {
			return strings.TrimSuffix(word, ending)
		}
	}
	return word
}

// nameWords returns the set of 3+ letter words of an already normalized name, minus stop words
func nameWords(normalized string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range nameWordRegex.FindAllString(normalized, -1) {
		if !stopWords[w] {
			words[w] = true
		}
	}
	return words
}

// firstWord returns the head word of a normalized name
func firstWord(normalized string) string {
	if idx := strings.IndexByte(normalized, ' '); idx >= 0 {
		return normalized[:idx]
	}
	return normalized
}
