package search

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listline/engine/domain"
)

func makeTasks(texts ...string) []*domain.Task {
	tasks := make([]*domain.Task, len(texts))
	for i, text := range texts {
		tasks[i] = &domain.Task{ID: fmt.Sprintf("id-%d", i), Text: text}
	}
	return tasks
}

func ids(tasks []*domain.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestSearchMultiWordSubstring(t *testing.T) {
	engine := New(Options{})
	tasks := makeTasks(
		"Buy coffee beans today",
		"Schedule coffee meeting",
		"Buy milk for coffee",
		"Walk the dog",
	)

	results := engine.Search(tasks, "coffee buy", true)
	assert.Equal(t, []string{"id-0", "id-2"}, ids(results))

	// Word order in the query does not matter.
	results = engine.Search(tasks, "buy COFFEE", true)
	assert.Equal(t, []string{"id-0", "id-2"}, ids(results))

	// Substring containment, not whole words.
	results = engine.Search(tasks, "off", true)
	assert.Equal(t, []string{"id-0", "id-1", "id-2"}, ids(results))
}

func TestSearchEmptyTermMatchesScope(t *testing.T) {
	engine := New(Options{})
	tasks := makeTasks("a", "b", "c")
	tasks[1].Archived = true

	assert.Len(t, engine.Search(tasks, "", true), 3)
	assert.Len(t, engine.Search(tasks, "   ", true), 3)
	assert.Equal(t, []string{"id-0", "id-2"}, ids(engine.Search(tasks, "", false)))
}

func TestSearchArchivedScope(t *testing.T) {
	engine := New(Options{})
	tasks := makeTasks("coffee one", "coffee two", "coffee three")
	tasks[0].Archived = true
	tasks[2].Archived = true

	assert.Equal(t, []string{"id-1"}, ids(engine.Search(tasks, "coffee", false)))
	assert.Equal(t, []string{"id-0", "id-1", "id-2"}, ids(engine.Search(tasks, "coffee", true)))
}

func TestIndexedAndLinearPathsAgree(t *testing.T) {
	// Identical collections, one engine forced onto each path.
	linear := New(Options{IndexThreshold: 10_000})
	indexed := New(Options{IndexThreshold: 1})

	var tasks []*domain.Task
	for i := 0; i < 120; i++ {
		text := fmt.Sprintf("task number %d", i)
		switch i % 4 {
		case 0:
			text = fmt.Sprintf("buy coffee beans batch %d", i)
		case 1:
			text = fmt.Sprintf("schedule meeting %d with team", i)
		case 2:
			text = fmt.Sprintf("review e-mail thread %d", i)
		}
		task := &domain.Task{ID: fmt.Sprintf("id-%d", i), Text: text}
		task.Archived = i%5 == 0
		tasks = append(tasks, task)
	}

	terms := []string{
		"coffee", "COFFEE beans", "meeting team", "mail", "e-mail",
		"task", "batch 4", "number", "off", "xyzzy", "",
	}
	for _, term := range terms {
		for _, includeArchived := range []bool{true, false} {
			want := ids(linear.Search(tasks, term, includeArchived))
			got := ids(indexed.Search(tasks, term, includeArchived))
			assert.Equal(t, want, got, "term %q includeArchived %v", term, includeArchived)
		}
	}
}

func TestCachedResultsAndInvalidate(t *testing.T) {
	engine := New(Options{})
	tasks := makeTasks("alpha", "beta", "alphabet")

	first := engine.Search(tasks, "alpha", true)
	require.Equal(t, []string{"id-0", "id-2"}, ids(first))

	// Without invalidation the cached id set is reused; a task that
	// disappeared from the collection drops out of the materialized
	// result instead of going stale.
	shrunk := tasks[1:]
	cached := engine.Search(shrunk, "alpha", true)
	assert.Equal(t, []string{"id-2"}, ids(cached))

	// After invalidation the query is re-evaluated against the new
	// collection.
	grown := append(tasks, &domain.Task{ID: "id-3", Text: "alpha again"})
	engine.Invalidate()
	fresh := engine.Search(grown, "alpha", true)
	assert.Equal(t, []string{"id-0", "id-2", "id-3"}, ids(fresh))
}

func TestIndexRebuiltAfterInvalidate(t *testing.T) {
	engine := New(Options{IndexThreshold: 2})
	tasks := makeTasks("red apple", "green pear", "yellow banana")

	assert.Equal(t, []string{"id-0"}, ids(engine.Search(tasks, "apple", true)))

	tasks[0].Text = "red grape"
	engine.Invalidate()
	assert.Empty(t, engine.Search(tasks, "apple", true))
	assert.Equal(t, []string{"id-0"}, ids(engine.Search(tasks, "grape", true)))
}

func TestPunctuationOnlyTermFallsBackToLinear(t *testing.T) {
	engine := New(Options{IndexThreshold: 1})
	tasks := makeTasks("watch c++ talk", "plain text")

	assert.Equal(t, []string{"id-0"}, ids(engine.Search(tasks, "++", true)))
	assert.Empty(t, engine.Search(tasks, "???", true))
}

func TestTokenize(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"Buy coffee, beans!", []string{"buy", "coffee", "beans"}},
		{"e-mail  THREAD", []string{"e", "mail", "thread"}},
		{"学习 Go 语言", []string{"学习", "go", "语言"}},
		{"...", nil},
		{"", nil},
		{"a1-b2", []string{"a1", "b2"}},
	}
	for _, tc := range cases {
		got := Tokenize(tc.in)
		if tc.want == nil {
			assert.Empty(t, got, "input %q", tc.in)
			continue
		}
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "buy coffee", Normalize("  Buy Coffee  "))
	assert.Equal(t, "", Normalize("   "))
}

func TestRankOrdersByRelevance(t *testing.T) {
	tasks := makeTasks(
		"errands and then buy milk later today", // plain occurrence
		"buy milk",                              // exact
		"buy milk and eggs",                     // prefix
		"must buy milk",                         // word boundary
	)

	ranked := Rank("buy milk", tasks)
	require.Len(t, ranked, 4)
	assert.Equal(t, "id-1", ranked[0].ID)
	assert.Equal(t, "id-2", ranked[1].ID)
	assert.Equal(t, "id-3", ranked[2].ID)
	assert.Equal(t, "id-0", ranked[3].ID)
}

func TestRankedEngineKeepsMembership(t *testing.T) {
	plain := New(Options{})
	ranked := New(Options{Ranked: true})
	tasks := makeTasks("buy milk", "must buy milk", "buy milk and eggs", "nothing here")

	want := ids(plain.Search(tasks, "buy milk", true))
	got := ids(ranked.Search(tasks, "buy milk", true))
	assert.ElementsMatch(t, want, got)
}
