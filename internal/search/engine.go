// Package search filters the task collection by query terms. Small
// collections are scanned linearly; past a size threshold the engine
// keeps a word-level inverted index and an LRU cache of recent results.
// Both paths return the same result set.
package search

import (
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/listline/engine/domain"
)

const (
	// DefaultIndexThreshold is the collection size at which the
	// inverted index replaces the linear scan.
	DefaultIndexThreshold = 50
	// DefaultCacheSize bounds the LRU result cache.
	DefaultCacheSize = 100
)

// Options tunes an Engine. Zero values fall back to the defaults.
type Options struct {
	IndexThreshold int
	CacheSize      int
	// Ranked enables relevance ordering of results. Off by default so
	// Search preserves display order.
	Ranked bool
}

// Engine owns the inverted index and the result cache. It never retains
// task pointers across calls; callers pass the current collection on
// every search.
type Engine struct {
	opts  Options
	cache *lru.Cache[string, []string]
	index map[string]map[string]struct{}
	dirty bool
}

// New creates an Engine with the provided options.
func New(opts Options) *Engine {
	if opts.IndexThreshold <= 0 {
		opts.IndexThreshold = DefaultIndexThreshold
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	cache, _ := lru.New[string, []string](opts.CacheSize)
	return &Engine{
		opts:  opts,
		cache: cache,
		dirty: true,
	}
}

// Invalidate drops cached results and marks the index stale. The model
// calls this after every mutation.
func (e *Engine) Invalidate() {
	e.cache.Purge()
	e.dirty = true
}

// Search returns the tasks from the candidate scope whose text contains
// every word of the term. An empty or whitespace term matches the whole
// scope. Results preserve display order unless ranking is enabled.
func (e *Engine) Search(tasks []*domain.Task, term string, includeArchived bool) []*domain.Task {
	candidates := scope(tasks, includeArchived)

	norm := Normalize(term)
	if norm == "" {
		return candidates
	}

	key := norm + "\x00" + strconv.FormatBool(includeArchived)
	if ids, ok := e.cache.Get(key); ok {
		return materialize(candidates, ids)
	}

	words := strings.Fields(norm)

	var results []*domain.Task
	if len(tasks) >= e.opts.IndexThreshold {
		e.ensureIndex(tasks)
		results = e.indexedSearch(candidates, norm, words)
	} else {
		// Below the threshold the index is dead weight; drop it and scan.
		e.index = nil
		e.dirty = true
		results = linearSearch(candidates, words)
	}

	if e.opts.Ranked && len(results) > 1 {
		results = Rank(norm, results)
	}

	ids := make([]string, len(results))
	for i, t := range results {
		ids[i] = t.ID
	}
	e.cache.Add(key, ids)

	return results
}

// linearSearch keeps candidates whose text contains every query word.
func linearSearch(candidates []*domain.Task, words []string) []*domain.Task {
	results := make([]*domain.Task, 0)
	for _, t := range candidates {
		if matchesWords(t.Text, words) {
			results = append(results, t)
		}
	}
	return results
}

// indexedSearch narrows candidates through the inverted index, then
// re-verifies every survivor with the substring rule so the result set
// is identical to the linear path.
func (e *Engine) indexedSearch(candidates []*domain.Task, norm string, words []string) []*domain.Task {
	tokens := Tokenize(norm)
	if len(tokens) == 0 {
		return linearSearch(candidates, words)
	}

	// For each query token, collect ids whose indexed words contain it.
	// A query word can substring-match inside an indexed word, so exact
	// key lookup alone would under-select.
	var narrowed map[string]struct{}
	for _, token := range tokens {
		ids := make(map[string]struct{})
		for word, holders := range e.index {
			if !strings.Contains(word, token) {
				continue
			}
			for id := range holders {
				ids[id] = struct{}{}
			}
		}
		if narrowed == nil {
			narrowed = ids
			continue
		}
		for id := range narrowed {
			if _, ok := ids[id]; !ok {
				delete(narrowed, id)
			}
		}
		if len(narrowed) == 0 {
			return []*domain.Task{}
		}
	}

	results := make([]*domain.Task, 0, len(narrowed))
	for _, t := range candidates {
		if _, ok := narrowed[t.ID]; !ok {
			continue
		}
		if matchesWords(t.Text, words) {
			results = append(results, t)
		}
	}
	return results
}

// ensureIndex rebuilds the inverted index if a mutation marked it stale.
func (e *Engine) ensureIndex(tasks []*domain.Task) {
	if !e.dirty && e.index != nil {
		return
	}
	index := make(map[string]map[string]struct{})
	for _, t := range tasks {
		for _, word := range Tokenize(t.Text) {
			holders, ok := index[word]
			if !ok {
				holders = make(map[string]struct{})
				index[word] = holders
			}
			holders[t.ID] = struct{}{}
		}
	}
	e.index = index
	e.dirty = false
}

// scope selects the candidate set for the archived flag, preserving
// display order.
func scope(tasks []*domain.Task, includeArchived bool) []*domain.Task {
	candidates := make([]*domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if includeArchived || t.IsActive() {
			candidates = append(candidates, t)
		}
	}
	return candidates
}

// materialize rebuilds a cached result in its stored order from the
// current candidate set. Ids that no longer resolve are skipped.
func materialize(candidates []*domain.Task, ids []string) []*domain.Task {
	byID := make(map[string]*domain.Task, len(candidates))
	for _, t := range candidates {
		byID[t.ID] = t
	}
	results := make([]*domain.Task, 0, len(ids))
	for _, id := range ids {
		if t, ok := byID[id]; ok {
			results = append(results, t)
		}
	}
	return results
}
