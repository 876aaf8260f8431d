package search

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/rcliao/harbour/internal/domain"
)

type TaskLister interface {
	Tasks() []domain.Task
}

type Options struct {
	Limit            int
	Offset           int
	IncludeCompleted bool
}

type MatchType string

const (
	MatchID         MatchType = "id"
	MatchKeyword    MatchType = "keyword"
	MatchDependency MatchType = "dependency"
)

type Result struct {
	Task      domain.Task `json:"task"`
	Score     float64     `json:"score"`
	MatchType MatchType   `json:"match_type"`
	Snippet   string      `json:"snippet"`
}

// TaskSearch ranks tasks against a free text query by title, by id, and by
// the ids they depend on.
type TaskSearch struct {
	tasks TaskLister
}

func NewTaskSearch(tasks TaskLister) *TaskSearch {
	return &TaskSearch{tasks: tasks}
}

func (ts *TaskSearch) Search(query string, opts Options) []Result {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Result{}
	}

	var results []Result
	for _, task := range ts.tasks.Tasks() {
		if task.Completed && !opts.IncludeCompleted {
			continue
		}

		if strings.EqualFold(task.ID, query) {
			results = append(results, Result{Task: task, Score: 15.0, MatchType: MatchID, Snippet: task.Title})
		}

		if score := keywordScore(task, query); score > 0 {
			results = append(results, Result{
				Task:      task,
				Score:     score,
				MatchType: MatchKeyword,
				Snippet:   highlightText(task.Title, query),
			})
		}

		// Tasks waiting on the queried id
		for _, dep := range task.DependencyList() {
			if strings.EqualFold(dep, query) {
				results = append(results, Result{
					Task:      task,
					Score:     6.0,
					MatchType: MatchDependency,
					Snippet:   "Depends on " + highlightText(dep, query),
				})
				break
			}
		}
	}

	merged := mergeAndRank(results)

	return page(merged, opts.Offset, opts.Limit)
}

// page applies offset then limit; a limit of 0 keeps everything after the
// offset.
func page(results []Result, offset, limit int) []Result {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(results) {
		return []Result{}
	}
	results = results[offset:]
	if limit > 0 && limit < len(results) {
		results = results[:limit]
	}
	return results
}

func keywordScore(task domain.Task, query string) float64 {
	start, _ := indexFold(task.Title, query)
	if start < 0 {
		return 0
	}
	score := 10.0
	if strings.EqualFold(task.Title, query) {
		score += 5.0
	} else if start == 0 {
		score += 2.0
	}
	return score
}

func highlightText(text, query string) string {
	start, end := indexFold(text, query)
	if start < 0 {
		return text
	}

	before := text[:start]
	match := text[start:end]
	after := text[end:]

	return before + "**" + match + "**" + after
}

// indexFold finds the first case-insensitive occurrence of query in text and
// returns its byte bounds within text, or -1, -1. Matching is rune by rune
// under Unicode simple folding, so the bounds always fall on rune
// boundaries of text even when case changes a rune's encoded length.
func indexFold(text, query string) (start, end int) {
	n := utf8.RuneCountInString(query)
	if n == 0 {
		return -1, -1
	}

	for i := 0; i < len(text); {
		j := i
		for k := 0; k < n && j < len(text); k++ {
			_, size := utf8.DecodeRuneInString(text[j:])
			j += size
		}
		if strings.EqualFold(text[i:j], query) {
			return i, j
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	return -1, -1
}

// mergeAndRank sums scores per task, keeping the snippet of the strongest
// single match, and orders by score then id.
func mergeAndRank(results []Result) []Result {
	byKey := make(map[string]*Result)
	best := make(map[string]float64)
	order := make([]string, 0)

	for _, r := range results {
		existing, ok := byKey[r.Task.Key]
		if !ok {
			cp := r
			byKey[r.Task.Key] = &cp
			best[r.Task.Key] = r.Score
			order = append(order, r.Task.Key)
			continue
		}
		existing.Score += r.Score
		if r.Score > best[r.Task.Key] {
			best[r.Task.Key] = r.Score
			existing.MatchType = r.MatchType
			existing.Snippet = r.Snippet
		}
	}

	merged := make([]Result, 0, len(order))
	for _, key := range order {
		merged = append(merged, *byKey[key])
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})

	return merged
}
