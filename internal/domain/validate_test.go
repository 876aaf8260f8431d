package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() Draft {
	return Draft{
		Title:          "Write report",
		Importance:     "5",
		EstimatedHours: "2",
		DueDate:        "2025-12-07",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(d *Draft)
		wantField string
	}{
		{name: "valid", mutate: func(d *Draft) {}},
		{name: "blank title", mutate: func(d *Draft) { d.Title = "   " }, wantField: "title"},
		{name: "importance 0", mutate: func(d *Draft) { d.Importance = "0" }, wantField: "importance"},
		{name: "importance 11", mutate: func(d *Draft) { d.Importance = "11" }, wantField: "importance"},
		{name: "importance 1", mutate: func(d *Draft) { d.Importance = "1" }},
		{name: "importance 10", mutate: func(d *Draft) { d.Importance = "10" }},
		{name: "importance fractional", mutate: func(d *Draft) { d.Importance = "5.5" }, wantField: "importance"},
		{name: "importance text", mutate: func(d *Draft) { d.Importance = "high" }, wantField: "importance"},
		{name: "importance missing", mutate: func(d *Draft) { d.Importance = "" }, wantField: "importance"},
		{name: "hours 0", mutate: func(d *Draft) { d.EstimatedHours = "0" }, wantField: "estimated_hours"},
		{name: "hours 1", mutate: func(d *Draft) { d.EstimatedHours = "1" }},
		{name: "hours fractional", mutate: func(d *Draft) { d.EstimatedHours = "1.5" }},
		{name: "hours NaN", mutate: func(d *Draft) { d.EstimatedHours = "NaN" }, wantField: "estimated_hours"},
		{name: "due date missing", mutate: func(d *Draft) { d.DueDate = " " }, wantField: "due_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(&d)

			err := Validate(d)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.wantField, verr.Field)
			assert.Zero(t, verr.Record)
		})
	}
}

func TestValidate_DoesNotMutate(t *testing.T) {
	d := validDraft()
	d.Title = "  padded  "
	d.DueDate = "07/12/2025"
	before := d

	require.NoError(t, Validate(d))
	assert.Equal(t, before, d)
}

func TestDraftCommit(t *testing.T) {
	d := validDraft()
	d.Title = "  Write report "
	d.DueDate = "07/12/2025"
	d.Dependencies = " T1, ,T2,T1 "

	task, err := d.Commit("key-1", "T3")
	require.NoError(t, err)

	assert.Equal(t, "key-1", task.Key)
	assert.Equal(t, "T3", task.ID)
	assert.Equal(t, "Write report", task.Title)
	assert.Equal(t, 5, task.Importance)
	assert.Equal(t, 2.0, task.EstimatedHours)
	assert.Equal(t, "2025-12-07", task.DueDate)
	assert.Equal(t, "T1,T2", task.Dependencies)
	assert.False(t, task.Completed)

	_, err = Draft{Title: "x"}.Commit("k", "T1")
	assert.Error(t, err)
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Record: 2, Field: "title", Message: "cannot be empty"}
	assert.Equal(t, "task 2: title cannot be empty", err.Error())

	err = &ValidationError{Field: "importance", Message: "is required"}
	assert.Equal(t, "importance is required", err.Error())
}
