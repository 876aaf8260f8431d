package search

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/harbour/internal/domain"
)

type staticTasks []domain.Task

func (s staticTasks) Tasks() []domain.Task { return s }

func fixture() staticTasks {
	return staticTasks{
		{Key: "k1", ID: "T1", Title: "Setup database"},
		{Key: "k2", ID: "T2", Title: "Create user model", Dependencies: "T1"},
		{Key: "k3", ID: "T3", Title: "Database backups", Dependencies: "T1,T2"},
		{Key: "k4", ID: "T4", Title: "Old database audit", Completed: true},
	}
}

func TestTaskSearch_Keyword(t *testing.T) {
	results := NewTaskSearch(fixture()).Search("database", Options{})

	require.Len(t, results, 2)
	// prefix match ranks above a plain substring match
	assert.Equal(t, "T3", results[0].Task.ID)
	assert.Equal(t, "**Database** backups", results[0].Snippet)
	assert.Equal(t, "T1", results[1].Task.ID)
	assert.Equal(t, "Setup **database**", results[1].Snippet)
	assert.Equal(t, MatchKeyword, results[1].MatchType)
}

func TestTaskSearch_IDAndDependents(t *testing.T) {
	results := NewTaskSearch(fixture()).Search("t1", Options{})

	require.Len(t, results, 3)
	assert.Equal(t, "T1", results[0].Task.ID)
	assert.Equal(t, MatchID, results[0].MatchType)

	assert.ElementsMatch(t, []string{"T2", "T3"}, []string{results[1].Task.ID, results[2].Task.ID})
	assert.Equal(t, MatchDependency, results[1].MatchType)
	assert.Equal(t, "Depends on **T1**", results[1].Snippet)
}

func TestTaskSearch_Completed(t *testing.T) {
	ts := NewTaskSearch(fixture())

	assert.Len(t, ts.Search("audit", Options{}), 0)
	assert.Len(t, ts.Search("audit", Options{IncludeCompleted: true}), 1)
}

func TestTaskSearch_Pagination(t *testing.T) {
	ts := NewTaskSearch(fixture())

	page := ts.Search("database", Options{Limit: 1, Offset: 1})
	require.Len(t, page, 1)
	assert.Equal(t, "T1", page[0].Task.ID)

	assert.Empty(t, ts.Search("database", Options{Limit: 1, Offset: 5}))
	assert.Empty(t, ts.Search("   ", Options{}))
}

func TestTaskSearch_MergesMatchesPerTask(t *testing.T) {
	tasks := staticTasks{
		{Key: "a", ID: "T1", Title: "T1 follow-up"},
	}
	results := NewTaskSearch(tasks).Search("T1", Options{})

	require.Len(t, results, 1)
	assert.Equal(t, 15.0+12.0, results[0].Score)
	assert.Equal(t, MatchID, results[0].MatchType)
}

func TestTaskSearch_CaseChangesByteLength(t *testing.T) {
	// Ⱥ lowercases to a longer encoding and İ to a shorter one.
	tasks := staticTasks{
		{Key: "a", ID: "T1", Title: "Ⱥa"},
		{Key: "b", ID: "T2", Title: "İa"},
		{Key: "c", ID: "T3", Title: "Über Straße"},
	}
	ts := NewTaskSearch(tasks)

	results := ts.Search("a", Options{})
	snippets := map[string]string{}
	for _, r := range results {
		assert.True(t, utf8.ValidString(r.Snippet), r.Snippet)
		snippets[r.Task.ID] = r.Snippet
	}
	assert.Equal(t, "Ⱥ**a**", snippets["T1"])
	assert.Equal(t, "İ**a**", snippets["T2"])
	assert.Equal(t, "Über Str**a**ße", snippets["T3"])

	results = ts.Search("über", Options{})
	require.Len(t, results, 1)
	assert.Equal(t, "**Über** Straße", results[0].Snippet)
	assert.Equal(t, 12.0, results[0].Score)

	results = ts.Search("ⱥa", Options{})
	require.Len(t, results, 1)
	assert.Equal(t, "**Ⱥa**", results[0].Snippet)
	assert.Equal(t, 15.0, results[0].Score)
}

func TestTaskSearch_OffsetWithoutLimit(t *testing.T) {
	ts := NewTaskSearch(fixture())

	all := ts.Search("database", Options{})
	require.Len(t, all, 2)

	rest := ts.Search("database", Options{Offset: 1})
	require.Len(t, rest, 1)
	assert.Equal(t, all[1].Task.ID, rest[0].Task.ID)

	assert.Empty(t, ts.Search("database", Options{Offset: 2}))
}

func TestIndexFold(t *testing.T) {
	tests := []struct {
		text, query string
		start, end  int
	}{
		{"Setup database", "DATA", 6, 10},
		{"Ⱥa", "a", 2, 3},
		{"İa", "a", 2, 3},
		{"abc", "", -1, -1},
		{"abc", "abcd", -1, -1},
		{"abc", "x", -1, -1},
	}
	for _, tt := range tests {
		start, end := indexFold(tt.text, tt.query)
		assert.Equal(t, tt.start, start, "%q in %q", tt.query, tt.text)
		assert.Equal(t, tt.end, end, "%q in %q", tt.query, tt.text)
	}
}
