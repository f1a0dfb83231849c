package textscan

import "testing"

func TestFold(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"MonoBank", "monobank"},
		{"Моно Банк!", "монобанк"},
		{"Ёлки-Палки", "елкипалки"},
		{"Crédit Agricole", "creditagricole"},
		{"  PrivatBank 24  ", "privatbank24"},
		{"", ""},
	}

	for _, tc := range tests {
		got := Fold(tc.input)
		if got != tc.expected {
			t.Errorf("Fold(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}

func TestTransliterate(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"монобанк", "monobank"},
		{"приват", "privat"},
		{"тинькофф", "tinkoff"},
		{"cash", "cash"},
	}

	for _, tc := range tests {
		got := Transliterate(Fold(tc.input))
		if got != tc.expected {
			t.Errorf("Transliterate(Fold(%q)) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}

func TestFuzzyEqual(t *testing.T) {
	tests := []struct {
		a, b    string
		maxDist int
		want    bool
	}{
		{"monobank", "monobank", 2, true},
		{"monobank", "monoban", 2, true},
		{"monobank", "monobnak", 2, true},
		{"monobank", "mono", 2, false},
		{"revolut", "revlut", 2, true},
		{"cash", "card", 2, false}, // short name, tolerance tightened
		{"", "monobank", 2, false},
	}

	for _, tc := range tests {
		got := FuzzyEqual(tc.a, tc.b, tc.maxDist)
		if got != tc.want {
			t.Errorf("FuzzyEqual(%q, %q, %d) = %v, want %v", tc.a, tc.b, tc.maxDist, got, tc.want)
		}
	}
}

func TestHasCyrillic(t *testing.T) {
	if !HasCyrillic("приват") {
		t.Error("expected Cyrillic detection for приват")
	}
	if HasCyrillic("privat") {
		t.Error("unexpected Cyrillic detection for privat")
	}
}
