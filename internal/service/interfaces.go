package service

import (
	"github.com/rcliao/harbour/internal/domain"
)

// TaskStorage persists the full task list under a single key.
type TaskStorage interface {
	LoadTasks() ([]domain.Task, error)
	SaveTasks(tasks []domain.Task) error
	ClearTasks() error
}

// FormState is the add/edit form: the draft being typed and, in edit mode,
// the id of the task it will replace.
type FormState struct {
	Draft   domain.Draft `json:"draft"`
	Editing string       `json:"editing,omitempty"`
}
