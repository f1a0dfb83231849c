// Package textscan contains the pure text heuristics the pipeline mines
// free-form utterances with: name folding, transliteration, fuzzy distance,
// amount+currency extraction, exchange intent, fee and date detection.
// Every function here is deterministic and side-effect free so the
// heuristics can be tuned against literal fixtures.
package textscan

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold normalizes a name for matching: lower-case, strip diacritics,
// collapse ё to е, drop everything that is not a letter or digit.
func Fold(s string) string {
	folded, _, err := transform.String(deaccent, s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range strings.ToLower(folded) {
		switch {
		case r == 'ё':
			b.WriteRune('е')
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		}
	}
	return b.String()
}

var translit = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ж': "zh",
	'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m", 'н': "n",
	'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u", 'ф': "f",
	'х': "h", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "sch", 'ъ': "",
	'ы': "y", 'ь': "", 'э': "e", 'ю': "yu", 'я': "ya",
}

// Transliterate converts folded Cyrillic text to its Latin spelling so
// "монобанк" can be compared against "monobank". Non-Cyrillic runes pass
// through unchanged. Call after Fold (ё is already е).
func Transliterate(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if lat, ok := translit[r]; ok {
			b.WriteString(lat)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// HasCyrillic reports whether the string contains at least one Cyrillic rune.
func HasCyrillic(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Cyrillic, r) {
			return true
		}
	}
	return false
}

// Distance is the edit distance between two already-folded strings.
func Distance(a, b string) int {
	return levenshtein.ComputeDistance(a, b)
}

// FuzzyEqual reports whether two folded names are within maxDist edits.
// Short names get no slack: a two-edit tolerance on a three-letter name
// matches almost anything.
func FuzzyEqual(a, b string, maxDist int) bool {
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	shortest := len([]rune(a))
	if l := len([]rune(b)); l < shortest {
		shortest = l
	}
	if shortest <= 4 && maxDist > 1 {
		maxDist = 1
	}
	return Distance(a, b) <= maxDist
}
