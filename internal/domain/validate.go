package domain

import (
	"math"
	"strings"
)

const (
	MinImportance     = 1
	MaxImportance     = 10
	MinEstimatedHours = 1
)

// Validate checks d against the field constraints a task must satisfy before
// it is admitted to the store. It reports the first failing field in the
// order title, importance, estimated_hours, due_date.
func Validate(d Draft) error {
	if strings.TrimSpace(d.Title) == "" {
		return fieldError("title", "cannot be empty")
	}

	if strings.TrimSpace(d.Importance) == "" {
		return fieldError("importance", "is required")
	}
	imp, ok := parseNumber(d.Importance)
	if !ok || imp != math.Trunc(imp) || imp < MinImportance || imp > MaxImportance {
		return fieldError("importance", "must be a whole number between 1 and 10")
	}

	if strings.TrimSpace(d.EstimatedHours) == "" {
		return fieldError("estimated_hours", "is required")
	}
	hours, ok := parseNumber(d.EstimatedHours)
	if !ok || hours < MinEstimatedHours {
		return fieldError("estimated_hours", "must be a number of at least 1")
	}

	if strings.TrimSpace(d.DueDate) == "" {
		return fieldError("due_date", "is required")
	}

	return nil
}

func fieldError(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}
