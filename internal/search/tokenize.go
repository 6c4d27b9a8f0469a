package search

import (
	"strings"
	"unicode"
)

// Normalize lowercases a query term and strips surrounding whitespace.
// An empty result means "match everything".
func Normalize(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// Tokenize lowercases text, treats every non-alphanumeric run as a
// separator, and returns the remaining tokens. Both indexed text and
// incoming queries go through this.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// matchesWords reports whether the lowercased text contains every query
// word as a substring.
func matchesWords(text string, words []string) bool {
	lower := strings.ToLower(text)
	for _, w := range words {
		if !strings.Contains(lower, w) {
			return false
		}
	}
	return true
}
