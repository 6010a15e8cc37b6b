// Package dataset builds the unified per-player season dataset from the two
// provider tables and computes position-peer baselines over it.
package dataset

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldMarks decomposes accented letters and strips the combining marks, so
// "Jokić" folds to "Jokic" before the ASCII filter runs. Keeps join keys
// stable between tables and lets users type names without diacritics.
var foldMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeName produces the canonical identity key for a player name:
// diacritics folded, then every character that is not an ASCII letter
// dropped, lowercased. Pure and idempotent.
//
// Distinct players can collapse to one key (suffixes, apostrophes); the
// join and lookup then pick the first row. That ambiguity is accepted, not
// an error.
func NormalizeName(name string) string {
	folded, _, err := transform.String(foldMarks, name)
	if err != nil {
		folded = name
	}
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		}
	}
	return b.String()
}
