package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Task is a committed task as held by the store and written to local storage.
type Task struct {
	Key            string  `json:"uid"`
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Importance     int     `json:"importance"`
	EstimatedHours float64 `json:"estimated_hours"`
	DueDate        string  `json:"due_date"`
	Dependencies   string  `json:"dependencies"`
	Completed      bool    `json:"completed"`
}

// Draft is the editable text form of a task. Nothing in a Draft is trusted
// until it passes Validate.
type Draft struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Importance     string `json:"importance"`
	EstimatedHours string `json:"estimated_hours"`
	DueDate        string `json:"due_date"`
	Dependencies   string `json:"dependencies"`
}

// NewKey returns a fresh internal key for list-rendering identity.
func NewKey() string {
	return uuid.New().String()
}

// BlankDraft returns an empty form seeded with the given id number.
func BlankDraft(n int) Draft {
	return Draft{ID: FormatID(n)}
}

// Commit validates d and converts it into a Task carrying the given key and id.
// The due date and dependency text are normalized on the way in.
func (d Draft) Commit(key, id string) (Task, error) {
	if err := Validate(d); err != nil {
		return Task{}, err
	}

	importance, _ := parseNumber(d.Importance)
	hours, _ := parseNumber(d.EstimatedHours)

	return Task{
		Key:            key,
		ID:             id,
		Title:          strings.TrimSpace(d.Title),
		Importance:     int(importance),
		EstimatedHours: hours,
		DueDate:        NormalizeDate(strings.TrimSpace(d.DueDate)),
		Dependencies:   strings.Join(SplitDependencies(d.Dependencies), ","),
	}, nil
}

// Draft returns the editable form of t.
func (t Task) Draft() Draft {
	return Draft{
		ID:             t.ID,
		Title:          t.Title,
		Importance:     formatNumber(float64(t.Importance)),
		EstimatedHours: formatNumber(t.EstimatedHours),
		DueDate:        t.DueDate,
		Dependencies:   t.Dependencies,
	}
}

// DependencyList returns the trimmed, de-duplicated dependency ids.
func (t Task) DependencyList() []string {
	return SplitDependencies(t.Dependencies)
}

// SplitDependencies splits comma separated ids, dropping blanks and repeats.
func SplitDependencies(text string) []string {
	deps := make([]string, 0)
	seen := make(map[string]bool)
	for _, part := range strings.Split(text, ",") {
		dep := strings.TrimSpace(part)
		if dep == "" || seen[dep] {
			continue
		}
		seen[dep] = true
		deps = append(deps, dep)
	}
	return deps
}

// UnmarshalJSON accepts importance and estimated_hours written either as
// numbers or as numeric strings, which older clients stored while editing.
func (t *Task) UnmarshalJSON(data []byte) error {
	type plain Task
	var raw struct {
		plain
		Importance     any `json:"importance"`
		EstimatedHours any `json:"estimated_hours"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*t = Task(raw.plain)
	if n, ok := parseNumber(TextOf(raw.Importance)); ok {
		t.Importance = int(n)
	}
	if n, ok := parseNumber(TextOf(raw.EstimatedHours)); ok {
		t.EstimatedHours = n
	}
	return nil
}

// TextOf renders a decoded JSON scalar as the text a form field would hold.
// Missing values and non-scalars become the empty string.
func TextOf(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return formatNumber(val)
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

func parseNumber(text string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
