package service

import (
	"context"
	"errors"
	"sync"

	"github.com/rcliao/harbour/internal/backend"
	"github.com/rcliao/harbour/internal/domain"
	"github.com/rcliao/harbour/internal/storage"
)

var errDiskFull = errors.New("disk full")

// failingStorage wraps MemoryStorage and fails saves once armed.
type failingStorage struct {
	*storage.MemoryStorage
	fail bool
}

func (fs *failingStorage) SaveTasks(tasks []domain.Task) error {
	if fs.fail {
		return errDiskFull
	}
	return fs.MemoryStorage.SaveTasks(tasks)
}

type fakeClient struct {
	mu       sync.Mutex
	requests []backend.Request

	analyze func(ctx context.Context, req backend.Request) ([]domain.AnalysisEntry, error)
	suggest func(ctx context.Context, req backend.Request) (*domain.SuggestedTask, error)
}

func (c *fakeClient) Analyze(ctx context.Context, req backend.Request) ([]domain.AnalysisEntry, error) {
	c.record(req)
	if c.analyze == nil {
		return nil, domain.ErrBackendUnavailable
	}
	return c.analyze(ctx, req)
}

func (c *fakeClient) Suggest(ctx context.Context, req backend.Request) (*domain.SuggestedTask, error) {
	c.record(req)
	if c.suggest == nil {
		return nil, domain.ErrBackendUnavailable
	}
	return c.suggest(ctx, req)
}

func (c *fakeClient) record(req backend.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = append(c.requests, req)
}

func (c *fakeClient) calls() []backend.Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]backend.Request(nil), c.requests...)
}

// scoreAll answers analyze with one entry per submitted task.
func scoreAll(ctx context.Context, req backend.Request) ([]domain.AnalysisEntry, error) {
	out := make([]domain.AnalysisEntry, 0, len(req.Tasks))
	for i, t := range req.Tasks {
		out = append(out, domain.AnalysisEntry{
			ID:           t.ID,
			Title:        t.Title,
			FinalScore:   float64(10 - i),
			Strategy:     req.Strategy,
			Explanations: []string{"scored"},
		})
	}
	return out, nil
}

// suggestFirst recommends the first open task.
func suggestFirst(ctx context.Context, req backend.Request) (*domain.SuggestedTask, error) {
	for _, t := range req.Tasks {
		if !t.Completed {
			return &domain.SuggestedTask{ID: t.ID, Title: t.Title, FinalScore: 8, Strategy: req.Strategy}, nil
		}
	}
	return nil, nil
}

func draft(title string) domain.Draft {
	return domain.Draft{
		Title:          title,
		Importance:     "5",
		EstimatedHours: "2",
		DueDate:        "2025-12-07",
	}
}

func task(id, title string) domain.Task {
	return domain.Task{
		Key:            domain.NewKey(),
		ID:             id,
		Title:          title,
		Importance:     5,
		EstimatedHours: 2,
		DueDate:        "2025-12-07",
	}
}

func storageWith(initial ...domain.Task) *storage.MemoryStorage {
	return storage.NewMemoryStorage(initial...)
}
