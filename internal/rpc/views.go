package rpc

import (
	"encoding/json"
	"time"

	"github.com/rcliao/harbour/internal/domain"
)

// TaskView is a task plus its deadline as a client would display it.
// Derived fields are computed per request and never stored.
type TaskView struct {
	domain.Task
	DaysRemaining *int   `json:"days_remaining"`
	DeadlineLabel string `json:"deadline_label"`
}

// UnmarshalJSON decodes the task and its derived fields. Without it the
// embedded Task's decoder would be promoted and drop days_remaining and
// deadline_label.
func (v *TaskView) UnmarshalJSON(data []byte) error {
	var task domain.Task
	if err := json.Unmarshal(data, &task); err != nil {
		return err
	}
	var derived struct {
		DaysRemaining *int   `json:"days_remaining"`
		DeadlineLabel string `json:"deadline_label"`
	}
	if err := json.Unmarshal(data, &derived); err != nil {
		return err
	}
	*v = TaskView{Task: task, DaysRemaining: derived.DaysRemaining, DeadlineLabel: derived.DeadlineLabel}
	return nil
}

func NewTaskView(t domain.Task, now time.Time) TaskView {
	v := TaskView{Task: t, DeadlineLabel: domain.DeadlineLabel(t.DueDate, now)}
	if days, ok := domain.DaysRemaining(t.DueDate, now); ok {
		v.DaysRemaining = &days
	}
	return v
}

func NewTaskViews(tasks []domain.Task, now time.Time) []TaskView {
	views := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, NewTaskView(t, now))
	}
	return views
}

// EntryView is an analysis entry or suggestion with its priority tier and
// deadline label.
type EntryView struct {
	domain.AnalysisEntry
	Tier          domain.Tier `json:"tier"`
	DeadlineLabel string      `json:"deadline_label"`
}

func NewEntryView(e domain.AnalysisEntry, now time.Time) EntryView {
	return EntryView{
		AnalysisEntry: e,
		Tier:          domain.PriorityTier(e.FinalScore),
		DeadlineLabel: domain.DeadlineLabel(e.DueDate, now),
	}
}

func NewEntryViews(entries []domain.AnalysisEntry, now time.Time) []EntryView {
	views := make([]EntryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, NewEntryView(e, now))
	}
	return views
}
