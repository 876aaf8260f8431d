package cli

import (
	"errors"
	"fmt"

	"github.com/rcliao/harbour/internal/domain"
)

// Process exit codes.
const (
	ExitFailure = 1
	ExitInput   = 2
	ExitBackend = 3
)

// CLIError wraps domain errors with user-facing messages and actionable hints.
type CLIError struct {
	Message  string
	Hint     string
	Err      error
	ExitCode int
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a CLIError with a default exit code of 1.
func NewCLIError(msg, hint string, err error) *CLIError {
	return &CLIError{
		Message:  msg,
		Hint:     hint,
		Err:      err,
		ExitCode: ExitFailure,
	}
}

func inputError(msg, hint string, err error) *CLIError {
	e := NewCLIError(msg, hint, err)
	e.ExitCode = ExitInput
	return e
}

func backendError(msg, hint string, err error) *CLIError {
	e := NewCLIError(msg, hint, err)
	e.ExitCode = ExitBackend
	return e
}

// ExitCode picks the process exit status for err: 0 for nil, the CLIError's
// code when there is one, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) && cliErr.ExitCode > 0 {
		return cliErr.ExitCode
	}
	return ExitFailure
}

// MapError converts known domain errors into CLIErrors with actionable hints.
// Unmapped errors are returned as-is.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		hint := fmt.Sprintf("Fix the %s field and try again", verr.Field)
		if verr.Record > 0 {
			hint = fmt.Sprintf("Fix %s in task %d of the import; nothing was imported", verr.Field, verr.Record)
		}
		return inputError("invalid task", hint, err)
	}

	var perr *domain.ParseError
	if errors.As(err, &perr) {
		return inputError("import failed", "The input must be valid JSON", err)
	}

	var serr *domain.ShapeError
	if errors.As(err, &serr) {
		return inputError("import failed", `Wrap the tasks in a JSON array: [{"title": ...}, ...]`, err)
	}

	switch {
	case errors.Is(err, domain.ErrTaskNotFound):
		return inputError("task not found", "Run 'harbour ls' to list task ids", err)
	case errors.Is(err, domain.ErrEmptyImport):
		return inputError("nothing to import", "Pass a JSON file or pipe one into 'harbour import -'", err)
	case errors.Is(err, domain.ErrNoValidTasks):
		return NewCLIError("no valid tasks to score", "Every task needs a title, importance, estimated hours and a due date", err)
	case errors.Is(err, domain.ErrRateLimited):
		return backendError("too many requests", "Wait a moment before asking the scoring service again", err)
	case errors.Is(err, domain.ErrBackendUnavailable):
		return backendError("backend not running", "Start the scoring service or point --backend at it", err)
	case errors.Is(err, domain.ErrUnknownStrategy):
		return inputError("unknown strategy", "Use one of fastest_wins, high_impact, deadline_driven, smart_balance", err)
	case errors.Is(err, domain.ErrStaleResponse):
		return backendError("result discarded", "A newer request replaced this one", err)
	}

	return err
}
