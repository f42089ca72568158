// Package matching implements the name-normalization step used for
// cross-store product identity. Identity is a case-insensitive exact match;
// near-duplicate names (extra whitespace inside, diacritics) deliberately do
// not fuzzy-match.
package matching

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldCaser = cases.Fold()

// NormalizeName returns the identity key for a product name: surrounding
// whitespace trimmed, Unicode case folded. Two products are "the same good"
// across stores exactly when their keys are equal.
func NormalizeName(name string) string {
	return foldCaser.String(strings.TrimSpace(name))
}

// SameName reports whether two product names identify the same good.
func SameName(a, b string) bool {
	return NormalizeName(a) == NormalizeName(b)
}

// NormalizeStoreName canonicalizes a store name parsed from a filename:
// first letter upper-cased, rest lowered ("lidl" and "LIDL" both map to
// "Lidl").
func NormalizeStoreName(store string) string {
	s := strings.TrimSpace(store)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// RemoveDiacritics strips combining marks after NFD decomposition, with
// explicit mappings for the Romanian letters whose comma-below marks
// sometimes survive decomposition in source data. Used for diagnostics and
// filter display, never for identity.
func RemoveDiacritics(s string) string {
	replacer := strings.NewReplacer(
		"ș", "s", "Ș", "S",
		"ş", "s", "Ş", "S",
		"ț", "t", "Ț", "T",
		"ţ", "t", "Ţ", "T",
	)
	s = replacer.Replace(s)

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}
