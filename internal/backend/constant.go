package backend

import "time"

const (
	// DefaultBaseURL is where the scoring service listens in development.
	DefaultBaseURL = "http://127.0.0.1:8000"

	// DefaultTimeout bounds a single analyze or suggest call.
	DefaultTimeout = 10 * time.Second

	AnalyzePath = "/api/tasks/analyze/"
	SuggestPath = "/api/tasks/suggest/"

	maxResponseBytes = 8 << 20
)
