package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKey(t *testing.T) {
	a, b := NewKey(), NewKey()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestBlankDraft(t *testing.T) {
	d := BlankDraft(4)
	assert.Equal(t, Draft{ID: "T4"}, d)
}

func TestTaskUnmarshal_AcceptsStringNumbers(t *testing.T) {
	raw := `{"uid":"k","id":"T1","title":"Old","importance":"7","estimated_hours":"2.5","due_date":"2025-01-01","dependencies":"","completed":true}`

	var task Task
	require.NoError(t, json.Unmarshal([]byte(raw), &task))

	assert.Equal(t, "k", task.Key)
	assert.Equal(t, "T1", task.ID)
	assert.Equal(t, 7, task.Importance)
	assert.Equal(t, 2.5, task.EstimatedHours)
	assert.True(t, task.Completed)
}

func TestTaskUnmarshal_Numbers(t *testing.T) {
	raw := `{"uid":"k","id":"T2","title":"New","importance":3,"estimated_hours":1,"due_date":"","dependencies":"T1","completed":false}`

	var task Task
	require.NoError(t, json.Unmarshal([]byte(raw), &task))

	assert.Equal(t, 3, task.Importance)
	assert.Equal(t, 1.0, task.EstimatedHours)
	assert.Equal(t, []string{"T1"}, task.DependencyList())
}

func TestTaskDraftRoundTrip(t *testing.T) {
	task := Task{ID: "T1", Title: "A", Importance: 5, EstimatedHours: 1.5, DueDate: "2025-01-01", Dependencies: "T2"}
	d := task.Draft()

	assert.Equal(t, "5", d.Importance)
	assert.Equal(t, "1.5", d.EstimatedHours)
	assert.NoError(t, Validate(d))
}

func TestReconcile(t *testing.T) {
	tasks := []Task{{ID: "T1", Completed: true, DueDate: "2025-06-01"}}

	merged := Reconcile(AnalysisEntry{ID: "T1", FinalScore: 8}, tasks)
	assert.True(t, merged.Completed)
	assert.Equal(t, "2025-06-01", merged.DueDate)
	assert.Equal(t, 8.0, merged.FinalScore)

	gone := Reconcile(AnalysisEntry{ID: "T9", Completed: true, DueDate: "2030-01-01"}, tasks)
	assert.False(t, gone.Completed)
	assert.Empty(t, gone.DueDate)
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("high_impact")
	require.NoError(t, err)
	assert.Equal(t, StrategyHighImpact, s)

	_, err = ParseStrategy("random")
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}
