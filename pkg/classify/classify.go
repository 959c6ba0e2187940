// Package classify turns node names into CSS class slugs.
package classify

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var lower = cases.Lower(language.Und)

// Classify returns a CSS-safe slug for name: diacritics are folded, letters
// lowercased, and every run of characters outside [a-z0-9_-] becomes a single
// hyphen. Leading and trailing hyphens are trimmed.
//
//	Classify("router1")        // "router1"
//	Classify("Core Router/1")  // "core-router-1"
//	Classify("Zürich-GW")      // "zurich-gw"
func Classify(name string) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, name)
	if err != nil {
		folded = name
	}
	folded = lower.String(folded)

	var b strings.Builder
	b.Grow(len(folded))
	hyphen := false
	for _, r := range folded {
		if isSlugRune(r) {
			b.WriteRune(r)
			hyphen = r == '-'
			continue
		}
		if !hyphen {
			b.WriteByte('-')
			hyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}

func isSlugRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-'
}
