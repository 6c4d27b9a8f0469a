package search

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/listline/engine/domain"
)

// Relevance weights. An exact match always beats a prefix match, which
// beats a word-boundary occurrence.
const (
	scoreExact        = 1000
	scorePrefix       = 500
	scoreWordBoundary = 200
	coverageWeight    = 100
)

// Rank orders results by relevance to the normalized term. It is a
// presentation hint layered on top of filtering: the input set is
// returned unchanged in membership, stably reordered by score.
func Rank(norm string, results []*domain.Task) []*domain.Task {
	ranked := make([]*domain.Task, len(results))
	copy(ranked, results)
	scores := make(map[string]int, len(ranked))
	for _, t := range ranked {
		scores[t.ID] = score(norm, t.Text)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return scores[ranked[i].ID] > scores[ranked[j].ID]
	})
	return ranked
}

func score(norm, text string) int {
	lower := strings.ToLower(text)

	s := 0
	switch {
	case lower == norm:
		s += scoreExact
	case strings.HasPrefix(lower, norm):
		s += scorePrefix
	default:
		if atWordBoundary(lower, norm) {
			s += scoreWordBoundary
		}
	}

	// Shorter texts rank higher; fuller coverage of the text by the
	// query ranks higher.
	s -= len(text) / 100
	if len(lower) > 0 {
		s += coverageWeight * len(norm) / len(lower)
	}
	return s
}

// atWordBoundary reports whether the term occurs in the text right
// after a word boundary.
func atWordBoundary(lower, norm string) bool {
	for offset := 0; ; {
		i := strings.Index(lower[offset:], norm)
		if i < 0 {
			return false
		}
		at := offset + i
		if at == 0 {
			return true
		}
		prev, _ := utf8.DecodeLastRuneInString(lower[:at])
		if !unicode.IsLetter(prev) && !unicode.IsDigit(prev) {
			return true
		}
		offset = at + 1
	}
}
