package domain

import (
	"errors"
	"fmt"
)

var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrNoValidTasks       = errors.New("no valid tasks")
	ErrEmptyImport        = errors.New("import input is empty")
	ErrBackendUnavailable = errors.New("backend not running")
	ErrStaleResponse      = errors.New("response superseded by a newer request")
	ErrRateLimited        = errors.New("too many backend requests")
	ErrUnknownStrategy    = errors.New("unknown strategy")
)

// ValidationError reports the first field of a draft that failed validation.
// Record is the 1-based position within a bulk import, or 0 for a single draft.
type ValidationError struct {
	Record  int
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Record > 0 {
		return fmt.Sprintf("task %d: %s %s", e.Record, e.Field, e.Message)
	}
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// ParseError means bulk import input was not valid JSON.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid JSON format: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ShapeError means bulk import input parsed but was not a JSON array.
type ShapeError struct {
	Got string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("JSON must be an array of task objects, got %s", e.Got)
}
