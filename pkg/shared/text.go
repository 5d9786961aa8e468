package shared

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lowercases s, strips diacritics and collapses runs of whitespace, so
// "  Câmbio " and "cambio" compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}

// ContainsAny reports whether the folded haystack contains any folded needle.
func ContainsAny(haystack string, needles ...string) bool {
	h := Fold(haystack)
	for _, n := range needles {
		if n = Fold(n); n != "" && strings.Contains(h, n) {
			return true
		}
	}
	return false
}
