package service

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/rcliao/harbour/internal/backend"
	"github.com/rcliao/harbour/internal/domain"
	"github.com/rcliao/harbour/internal/log"
)

// SyncService sends the valid part of the task list to the scoring service
// and folds the answers back into the store.
type SyncService struct {
	store  *TaskStore
	client backend.Client
	logger log.Logger

	// latest ticket issued per operation
	analyzeSeq atomic.Uint64
	suggestSeq atomic.Uint64
}

func NewSyncService(store *TaskStore, client backend.Client, logger log.Logger) *SyncService {
	if logger == nil {
		logger = log.NewNop()
	}
	return &SyncService{
		store:  store,
		client: client,
		logger: logger,
	}
}

// Analyze scores every valid task. The store lock is not held while the
// request is in flight; completed and due_date come from the list as it is
// when the answer arrives.
func (s *SyncService) Analyze(ctx context.Context, strategy domain.Strategy) ([]domain.AnalysisEntry, error) {
	req, err := s.request(strategy)
	if err != nil {
		return nil, err
	}

	ticket := s.analyzeSeq.Add(1)
	s.logger.Debugf(ctx, "analyze #%d: %d tasks, strategy %s", ticket, len(req.Tasks), strategy)

	entries, err := s.client.Analyze(ctx, req)
	if err != nil {
		s.logger.Warnf(ctx, "analyze #%d failed: %v", ticket, err)
		return nil, err
	}

	out, err := s.store.commitAnalysis(entries, func() bool { return s.analyzeSeq.Load() == ticket })
	if errors.Is(err, domain.ErrStaleResponse) {
		s.logger.Debugf(ctx, "analyze #%d superseded, dropping response", ticket)
	}
	return out, err
}

// Suggest asks for the single next task. A nil result with a nil error means
// the service had no recommendation.
func (s *SyncService) Suggest(ctx context.Context, strategy domain.Strategy) (*domain.SuggestedTask, error) {
	req, err := s.request(strategy)
	if err != nil {
		return nil, err
	}

	ticket := s.suggestSeq.Add(1)
	s.logger.Debugf(ctx, "suggest #%d: %d tasks, strategy %s", ticket, len(req.Tasks), strategy)

	suggested, err := s.client.Suggest(ctx, req)
	if err != nil {
		s.logger.Warnf(ctx, "suggest #%d failed: %v", ticket, err)
		return nil, err
	}

	out, err := s.store.commitSuggestion(suggested, func() bool { return s.suggestSeq.Load() == ticket })
	if errors.Is(err, domain.ErrStaleResponse) {
		s.logger.Debugf(ctx, "suggest #%d superseded, dropping response", ticket)
	}
	return out, err
}

// request snapshots the store, keeping only tasks that would pass the form
// validator.
func (s *SyncService) request(strategy domain.Strategy) (backend.Request, error) {
	tasks := s.store.Tasks()
	payload := make([]backend.TaskPayload, 0, len(tasks))
	for _, t := range tasks {
		if domain.Validate(t.Draft()) != nil {
			continue
		}
		payload = append(payload, backend.NewTaskPayload(t))
	}
	if len(payload) == 0 {
		return backend.Request{}, domain.ErrNoValidTasks
	}
	return backend.Request{Strategy: string(strategy), Tasks: payload}, nil
}
