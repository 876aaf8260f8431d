package backend

import (
	"context"

	"github.com/rcliao/harbour/internal/domain"
)

// Client talks to the external scoring service. Implementations are safe
// for concurrent use. Every failure to get a usable answer is reported as
// domain.ErrBackendUnavailable; nothing is retried.
type Client interface {
	// Analyze scores every task and returns them in the service's order.
	Analyze(ctx context.Context, req Request) ([]domain.AnalysisEntry, error)

	// Suggest returns the single task to work on next, or nil when the
	// service has no recommendation.
	Suggest(ctx context.Context, req Request) (*domain.SuggestedTask, error)
}

// New creates a scoring service client with the given configuration.
func New(cfg Config) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newHTTPClient(cfg), nil
}
