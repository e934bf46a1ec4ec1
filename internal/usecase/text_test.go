package usecase

import (
	"reflect"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "Молоко ПРОСТОКВАШИНО", "молоко простоквашино"},
		{"folds yo", "Пятёрочка Ёжик", "пятерочка ежик"},
		{"collapses whitespace", "  сок \t добрый\n1 л  ", "сок добрый 1 л"},
		{"empty", "", ""},
		{"only spaces", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeText(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if again := NormalizeText(got); again != got {
				t.Errorf("NormalizeText is not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestNormalizeTextIdempotentOnRandomInput(t *testing.T) {
	faker := gofakeit.New(7)
	for i := 0; i < 200; i++ {
		input := faker.Sentence(6) + " \t Ёлка " + faker.Word() + "  " + faker.Regex(`[А-ЯЁа-яё ]{0,12}`)
		once := NormalizeText(input)
		if twice := NormalizeText(once); twice != once {
			t.Fatalf("NormalizeText(%q) = %q, again %q", input, once, twice)
		}
	}
}

func TestTokenizeQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"drops stop words", "Молоко для детей, 1л", []string{"молоко", "детей", "1л"}},
		{"splits on punctuation", "сок/нектар(яблоко)", []string{"сок", "нектар", "яблоко"}},
		{"drops single characters", "к чаю с лимоном", []string{"чаю", "лимоном"}},
		{"drops store names", "Пятёрочка кефир", []string{"кефир"}},
		{"only stop words", "и в для", nil},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TokenizeQuery(tt.query)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("TokenizeQuery(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestStemRussian(t *testing.T) {
	tests := []struct {
		word string
		want string
	}{
		{"молоко", "молок"},
		{"молочный", "молочн"},
		{"яблоки", "яблок"},
		{"сыры", "сыр"},
		{"вода", "вод"},
		{"сок", "сок"},
		{"чай", "чай"},
		{"кефир", "кефир"},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			if got := StemRussian(tt.word); got != tt.want {
				t.Errorf("StemRussian(%q) = %q, want %q", tt.word, got, tt.want)
			}
		})
	}
}

func TestNameWords(t *testing.T) {
	got := nameWords("молоко простоквашино для детей 930мл")
	want := map[string]bool{"молоко": true, "простоквашино": true, "детей": true}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("nameWords() = %v, want %v", got, want)
	}
}
