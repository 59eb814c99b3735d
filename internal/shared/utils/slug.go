package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	nonSlugChars    = regexp.MustCompile(`[^a-z0-9-]+`)
	repeatedHyphens = regexp.MustCompile(`-+`)
	aliasDelimiters = regexp.MustCompile(`[,;\s]+`)
)

// NormalizeSlug folds an arbitrary slug-ish string into canonical form:
// NFKD decompose, strip combining marks (diacritics), lowercase, map
// whitespace to hyphens, collapse everything else to [a-z0-9-].
//
//	"Núñez, María " → "nunez-maria"
//	"OLD-Slug"      → "old-slug"
func NormalizeSlug(input string) string {
	folded := RemoveDiacritics(strings.TrimSpace(input))

	lower := strings.ToLower(folded)
	hyphenated := strings.Join(strings.Fields(lower), "-")

	cleaned := nonSlugChars.ReplaceAllString(hyphenated, "")
	collapsed := repeatedHyphens.ReplaceAllString(cleaned, "-")

	return strings.Trim(collapsed, "-")
}

// Slugify builds a canonical slug from a display name.
// Same folding as NormalizeSlug; kept separate so call sites read clearly.
func Slugify(name string) string {
	return NormalizeSlug(name)
}

// RemoveDiacritics strips combining marks after NFKD decomposition.
// "Ánh" → "Anh", "Núñez" → "Nunez".
func RemoveDiacritics(input string) string {
	decomposed := norm.NFKD.String(input)

	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SplitAliases splits a previous-slugs cell on commas, semicolons and
// whitespace, normalizing each entry and dropping empties.
func SplitAliases(raw string) []string {
	parts := aliasDelimiters.Split(raw, -1)

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := NormalizeSlug(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// IsValidSlug reports whether s is already in canonical form.
func IsValidSlug(s string) bool {
	return s != "" && s == NormalizeSlug(s)
}
