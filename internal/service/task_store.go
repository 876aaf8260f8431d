package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rcliao/harbour/internal/domain"
	"github.com/rcliao/harbour/internal/log"
)

// TaskStore is the single source of truth for the task list and for the
// session state derived from it. Every method is atomic with respect to the
// others.
type TaskStore struct {
	mu      sync.Mutex
	storage TaskStorage
	logger  log.Logger

	tasks   []domain.Task
	nextID  int
	form    domain.Draft
	editing string

	// session only, never persisted
	analysis   []domain.AnalysisEntry
	suggestion *domain.SuggestedTask
	flow       []domain.FlowStep
}

func NewTaskStore(storage TaskStorage, logger log.Logger) *TaskStore {
	if logger == nil {
		logger = log.NewNop()
	}
	return &TaskStore{
		storage: storage,
		logger:  logger,
		tasks:   make([]domain.Task, 0),
		nextID:  1,
		form:    domain.BlankDraft(1),
	}
}

// Load replaces the in-memory list with whatever storage holds. No stored
// list means an empty store.
func (s *TaskStore) Load(ctx context.Context) error {
	tasks, err := s.storage.LoadTasks()
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Key == "" {
			t.Key = domain.NewKey()
		}
		s.tasks = append(s.tasks, t)
	}
	s.nextID = domain.NextAvailableID(s.tasks)
	s.resetForm()

	s.logger.Debugf(ctx, "loaded %d tasks, next id %s", len(s.tasks), domain.FormatID(s.nextID))
	return nil
}

// Add validates d and appends it as a new task under the next available id.
func (s *TaskStore) Add(ctx context.Context, d domain.Draft) (domain.Task, error) {
	if err := domain.Validate(d); err != nil {
		return domain.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := d.Commit(domain.NewKey(), domain.FormatID(domain.NextAvailableID(s.tasks)))
	if err != nil {
		return domain.Task{}, err
	}

	prev := s.snapshot()
	s.tasks = append(s.tasks, task)
	if err := s.persist(prev); err != nil {
		return domain.Task{}, err
	}
	s.resetForm()

	s.logger.Infof(ctx, "added task %s", task.ID)
	return task, nil
}

// Update replaces the task with the given id, keeping its key, id and
// completion state.
func (s *TaskStore) Update(ctx context.Context, id string, d domain.Draft) (domain.Task, error) {
	if err := domain.Validate(d); err != nil {
		return domain.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Task{}, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
	}

	old := s.tasks[i]
	task, err := d.Commit(old.Key, old.ID)
	if err != nil {
		return domain.Task{}, err
	}
	task.Completed = old.Completed

	prev := s.snapshot()
	s.tasks[i] = task
	if err := s.persist(prev); err != nil {
		return domain.Task{}, err
	}
	s.resetForm()

	s.logger.Infof(ctx, "updated task %s", task.ID)
	return task, nil
}

// Delete removes the task. Other tasks may still list it as a dependency.
func (s *TaskStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
	}

	prev := s.snapshot()
	s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
	if err := s.persist(prev); err != nil {
		return err
	}
	s.resetForm()

	s.logger.Infof(ctx, "deleted task %s", id)
	return nil
}

// ToggleCompleted flips the completed flag. Completing a task records a
// completed step in the flow history.
func (s *TaskStore) ToggleCompleted(ctx context.Context, id string) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Task{}, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
	}

	prev := s.snapshot()
	s.tasks[i].Completed = !s.tasks[i].Completed
	if err := s.persist(prev); err != nil {
		return domain.Task{}, err
	}

	task := s.tasks[i]
	if task.Completed {
		s.flow = append(s.flow, domain.FlowStep{Kind: domain.FlowCompleted, ID: task.ID, Title: task.Title})
	}

	s.logger.Infof(ctx, "task %s completed=%t", task.ID, task.Completed)
	return task, nil
}

// Clear empties the store, removes the stored list and drops all session
// state.
func (s *TaskStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.ClearTasks(); err != nil {
		return fmt.Errorf("failed to clear tasks: %w", err)
	}

	s.tasks = make([]domain.Task, 0)
	s.nextID = 1
	s.editing = ""
	s.form = domain.BlankDraft(1)
	s.analysis = nil
	s.suggestion = nil
	s.flow = nil

	s.logger.Info(ctx, "cleared all tasks")
	return nil
}

func (s *TaskStore) Tasks() []domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *TaskStore) Get(id string) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Task{}, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
	}
	return s.tasks[i], nil
}

// NextID is the id the next added task will receive.
func (s *TaskStore) NextID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.FormatID(s.nextID)
}

func (s *TaskStore) Form() FormState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return FormState{Draft: s.form, Editing: s.editing}
}

// BeginEdit loads the task into the form in edit mode.
func (s *TaskStore) BeginEdit(id string) (domain.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Draft{}, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
	}
	s.form = s.tasks[i].Draft()
	s.editing = id
	return s.form, nil
}

// CancelEdit leaves edit mode and blanks the form.
func (s *TaskStore) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetForm()
}

func (s *TaskStore) Analysis() []domain.AnalysisEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.AnalysisEntry(nil), s.analysis...)
}

func (s *TaskStore) Suggestion() *domain.SuggestedTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.suggestion == nil {
		return nil
	}
	cp := *s.suggestion
	return &cp
}

func (s *TaskStore) Flow() []domain.FlowStep {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.FlowStep(nil), s.flow...)
}

// appendDrafts commits an already validated batch in one write. Ids are
// allocated against the list as it grows, so they never collide with
// existing tasks or with each other.
func (s *TaskStore) appendDrafts(ctx context.Context, drafts []domain.Draft) ([]domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.snapshot()
	added := make([]domain.Task, 0, len(drafts))
	for i, d := range drafts {
		task, err := d.Commit(domain.NewKey(), domain.FormatID(domain.NextAvailableID(s.tasks)))
		if err != nil {
			s.tasks = prev
			var verr *domain.ValidationError
			if errors.As(err, &verr) {
				verr.Record = i + 1
			}
			return nil, err
		}
		s.tasks = append(s.tasks, task)
		added = append(added, task)
	}

	if err := s.persist(prev); err != nil {
		return nil, err
	}
	if s.editing == "" {
		s.form.ID = domain.FormatID(s.nextID)
	}

	s.logger.Infof(ctx, "imported %d tasks", len(added))
	return added, nil
}

// commitAnalysis stores entries as the current analysis, reconciled against
// the list as it is now. current is checked under the lock so a response
// that has been superseded never lands.
func (s *TaskStore) commitAnalysis(entries []domain.AnalysisEntry, current func() bool) ([]domain.AnalysisEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !current() {
		return nil, domain.ErrStaleResponse
	}

	reconciled := make([]domain.AnalysisEntry, 0, len(entries))
	for _, e := range entries {
		reconciled = append(reconciled, domain.Reconcile(e, s.tasks))
	}
	s.analysis = reconciled
	return append([]domain.AnalysisEntry(nil), reconciled...), nil
}

// commitSuggestion stores a recommendation and records it in the flow
// history. A nil recommendation leaves everything as it was.
func (s *TaskStore) commitSuggestion(suggested *domain.SuggestedTask, current func() bool) (*domain.SuggestedTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !current() {
		return nil, domain.ErrStaleResponse
	}
	if suggested == nil {
		return nil, nil
	}

	entry := domain.Reconcile(*suggested, s.tasks)
	s.suggestion = &entry
	s.flow = append(s.flow, domain.FlowStep{Kind: domain.FlowSuggested, ID: entry.ID, Title: entry.Title})

	cp := entry
	return &cp, nil
}

// persist writes the list and recomputes the next id. On failure the list is
// restored to prev. Callers hold s.mu.
func (s *TaskStore) persist(prev []domain.Task) error {
	if err := s.storage.SaveTasks(s.snapshot()); err != nil {
		s.tasks = prev
		return fmt.Errorf("failed to save tasks: %w", err)
	}
	s.nextID = domain.NextAvailableID(s.tasks)
	return nil
}

func (s *TaskStore) resetForm() {
	s.editing = ""
	s.form = domain.BlankDraft(s.nextID)
}

func (s *TaskStore) snapshot() []domain.Task {
	return append(make([]domain.Task, 0, len(s.tasks)), s.tasks...)
}

func (s *TaskStore) indexOf(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
