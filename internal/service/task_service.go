package service

import (
	"context"
	"sync"

	"github.com/rcliao/harbour/internal/backend"
	"github.com/rcliao/harbour/internal/domain"
	"github.com/rcliao/harbour/internal/log"
)

// TaskService is what the front ends talk to. It owns the store, the
// importer and the sync adapter, and remembers the selected strategy.
type TaskService struct {
	store    *TaskStore
	importer *Importer
	syncer   *SyncService
	logger   log.Logger

	mu       sync.RWMutex
	strategy domain.Strategy
}

// ToggleResult is the outcome of ToggleCompleted. When the toggle completed
// the task a suggestion is requested; its result or failure is reported here
// since the toggle itself has already been saved.
type ToggleResult struct {
	Task       domain.Task           `json:"task"`
	Suggestion *domain.SuggestedTask `json:"suggestion,omitempty"`
	SuggestErr error                 `json:"-"`
}

func NewTaskService(storage TaskStorage, client backend.Client, logger log.Logger) *TaskService {
	if logger == nil {
		logger = log.NewNop()
	}
	store := NewTaskStore(storage, logger)
	return &TaskService{
		store:    store,
		importer: NewImporter(store),
		syncer:   NewSyncService(store, client, logger),
		logger:   logger,
		strategy: domain.DefaultStrategy,
	}
}

func (s *TaskService) Load(ctx context.Context) error {
	return s.store.Load(ctx)
}

func (s *TaskService) Add(ctx context.Context, d domain.Draft) (domain.Task, error) {
	return s.store.Add(ctx, d)
}

func (s *TaskService) Update(ctx context.Context, id string, d domain.Draft) (domain.Task, error) {
	return s.store.Update(ctx, id, d)
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// ToggleCompleted flips the task and, when it became completed, asks the
// scoring service what to do next.
func (s *TaskService) ToggleCompleted(ctx context.Context, id string) (ToggleResult, error) {
	task, err := s.store.ToggleCompleted(ctx, id)
	if err != nil {
		return ToggleResult{}, err
	}

	res := ToggleResult{Task: task}
	if task.Completed {
		res.Suggestion, res.SuggestErr = s.Suggest(ctx)
	}
	return res, nil
}

func (s *TaskService) Clear(ctx context.Context) error {
	return s.store.Clear(ctx)
}

func (s *TaskService) Import(ctx context.Context, raw string) ([]domain.Task, error) {
	return s.importer.Import(ctx, raw)
}

func (s *TaskService) Analyze(ctx context.Context) ([]domain.AnalysisEntry, error) {
	return s.syncer.Analyze(ctx, s.Strategy())
}

func (s *TaskService) Suggest(ctx context.Context) (*domain.SuggestedTask, error) {
	return s.syncer.Suggest(ctx, s.Strategy())
}

func (s *TaskService) Strategy() domain.Strategy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.strategy
}

// SetStrategy selects the scoring strategy for later analyze and suggest
// calls. Unknown names are rejected.
func (s *TaskService) SetStrategy(name string) (domain.Strategy, error) {
	strategy, err := domain.ParseStrategy(name)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.strategy = strategy
	return strategy, nil
}

func (s *TaskService) Tasks() []domain.Task { return s.store.Tasks() }
func (s *TaskService) Get(id string) (domain.Task, error) { return s.store.Get(id) }
func (s *TaskService) NextID() string { return s.store.NextID() }
func (s *TaskService) Form() FormState { return s.store.Form() }
func (s *TaskService) CancelEdit() { s.store.CancelEdit() }
func (s *TaskService) Analysis() []domain.AnalysisEntry { return s.store.Analysis() }
func (s *TaskService) Suggestion() *domain.SuggestedTask { return s.store.Suggestion() }
func (s *TaskService) Flow() []domain.FlowStep { return s.store.Flow() }

func (s *TaskService) BeginEdit(id string) (domain.Draft, error) {
	return s.store.BeginEdit(id)
}
