package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rcliao/harbour/internal/log"
	"github.com/rcliao/harbour/internal/search"
	"github.com/rcliao/harbour/internal/service"
)

var ErrMethodNotFound = errors.New("unknown method")

// ParamsError means a request's params could not be decoded.
type ParamsError struct {
	Err error
}

func (e *ParamsError) Error() string {
	return fmt.Sprintf("invalid parameters: %v", e.Err)
}

func (e *ParamsError) Unwrap() error {
	return e.Err
}

// Methods lists every method HandleCommand understands.
var Methods = []string{
	"harbour.task.add",
	"harbour.task.update",
	"harbour.task.delete",
	"harbour.task.toggle",
	"harbour.task.list",
	"harbour.task.get",
	"harbour.task.form",
	"harbour.task.edit",
	"harbour.task.search",
	"harbour.import",
	"harbour.analyze",
	"harbour.suggest",
	"harbour.flow",
	"harbour.strategy.get",
	"harbour.strategy.set",
	"harbour.clear",
}

// Async reports whether method waits on the scoring service and should not
// hold up the requests behind it.
func Async(method string) bool {
	return method == "harbour.analyze" || method == "harbour.suggest"
}

// Server dispatches named commands to the task service. It is shared by the
// stdio transport and the interactive shell.
type Server struct {
	svc    *service.TaskService
	finder *search.TaskSearch
	logger log.Logger
	now    func() time.Time
}

func NewServer(svc *service.TaskService, logger log.Logger) *Server {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Server{
		svc:    svc,
		finder: search.NewTaskSearch(svc),
		logger: logger,
		now:    time.Now,
	}
}

func (s *Server) HandleCommand(ctx context.Context, method string, params json.RawMessage) (any, error) {
	s.logger.Debugf(ctx, "handling command %s", method)

	switch method {
	// Task commands
	case "harbour.task.add":
		return s.handleTaskAdd(ctx, params)
	case "harbour.task.update":
		return s.handleTaskUpdate(ctx, params)
	case "harbour.task.delete":
		return s.handleTaskDelete(ctx, params)
	case "harbour.task.toggle":
		return s.handleTaskToggle(ctx, params)
	case "harbour.task.list":
		return s.handleTaskList()
	case "harbour.task.get":
		return s.handleTaskGet(params)
	case "harbour.task.form":
		return s.handleTaskForm(), nil
	case "harbour.task.edit":
		return s.handleTaskEdit(params)
	case "harbour.task.search":
		return s.handleTaskSearch(params)
	case "harbour.import":
		return s.handleImport(ctx, params)

	// Scoring
	case "harbour.analyze":
		return s.handleAnalyze(ctx)
	case "harbour.suggest":
		return s.handleSuggest(ctx)
	case "harbour.flow":
		return s.svc.Flow(), nil
	case "harbour.strategy.get":
		return StrategyResult{Strategy: string(s.svc.Strategy())}, nil
	case "harbour.strategy.set":
		return s.handleStrategySet(params)

	case "harbour.clear":
		if err := s.svc.Clear(ctx); err != nil {
			return nil, err
		}
		return statusOK, nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrMethodNotFound, method)
	}
}

var statusOK = map[string]string{"status": "success"}

type IDParams struct {
	ID string `json:"id"`
}

// draftParams decodes a task object the way bulk import does, so numbers and
// numeric strings are both accepted.
func draftParams(params json.RawMessage) (map[string]any, error) {
	var obj map[string]any
	if err := decode(params, &obj); err != nil {
		return nil, err
	}
	if obj == nil {
		obj = map[string]any{}
	}
	return obj, nil
}

func (s *Server) handleTaskAdd(ctx context.Context, params json.RawMessage) (any, error) {
	obj, err := draftParams(params)
	if err != nil {
		return nil, err
	}
	d, err := service.DraftFromRecord(obj)
	if err != nil {
		return nil, err
	}
	return s.svc.Add(ctx, d)
}

func (s *Server) handleTaskUpdate(ctx context.Context, params json.RawMessage) (any, error) {
	obj, err := draftParams(params)
	if err != nil {
		return nil, err
	}
	id, _ := obj["id"].(string)
	if id == "" {
		return nil, &ParamsError{Err: errors.New("id is required")}
	}
	d, err := service.DraftFromRecord(obj)
	if err != nil {
		return nil, err
	}
	return s.svc.Update(ctx, id, d)
}

func (s *Server) handleTaskDelete(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := idParams(params)
	if err != nil {
		return nil, err
	}
	if err := s.svc.Delete(ctx, p.ID); err != nil {
		return nil, err
	}
	return statusOK, nil
}

// ToggleResult reports the toggled task and, when it was completed, the
// follow-up suggestion or why there is none.
type ToggleResult struct {
	Task         TaskView   `json:"task"`
	Suggestion   *EntryView `json:"suggestion,omitempty"`
	SuggestError string     `json:"suggest_error,omitempty"`
}

func (s *Server) handleTaskToggle(ctx context.Context, params json.RawMessage) (any, error) {
	p, err := idParams(params)
	if err != nil {
		return nil, err
	}
	res, err := s.svc.ToggleCompleted(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := ToggleResult{Task: NewTaskView(res.Task, now)}
	if res.Suggestion != nil {
		v := NewEntryView(*res.Suggestion, now)
		out.Suggestion = &v
	}
	if res.SuggestErr != nil {
		s.logger.Warnf(ctx, "suggestion after completing %s failed: %v", p.ID, res.SuggestErr)
		out.SuggestError = res.SuggestErr.Error()
	}
	return out, nil
}

func (s *Server) handleTaskList() (any, error) {
	return NewTaskViews(s.svc.Tasks(), s.now()), nil
}

func (s *Server) handleTaskGet(params json.RawMessage) (any, error) {
	p, err := idParams(params)
	if err != nil {
		return nil, err
	}
	task, err := s.svc.Get(p.ID)
	if err != nil {
		return nil, err
	}
	return NewTaskView(task, s.now()), nil
}

// FormResult is the current form together with the id a new task would get.
type FormResult struct {
	service.FormState
	NextID string `json:"next_id"`
}

func (s *Server) handleTaskForm() FormResult {
	return FormResult{FormState: s.svc.Form(), NextID: s.svc.NextID()}
}

// handleTaskEdit puts the form in edit mode for id, or leaves edit mode when
// id is empty.
func (s *Server) handleTaskEdit(params json.RawMessage) (any, error) {
	var p IDParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	if p.ID == "" {
		s.svc.CancelEdit()
	} else if _, err := s.svc.BeginEdit(p.ID); err != nil {
		return nil, err
	}
	return s.handleTaskForm(), nil
}

type SearchParams struct {
	Query            string `json:"query"`
	Limit            int    `json:"limit,omitempty"`
	Offset           int    `json:"offset,omitempty"`
	IncludeCompleted bool   `json:"include_completed,omitempty"`
}

func (s *Server) handleTaskSearch(params json.RawMessage) (any, error) {
	var p SearchParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	if p.Query == "" {
		return nil, &ParamsError{Err: errors.New("query is required")}
	}
	return s.finder.Search(p.Query, search.Options{
		Limit:            p.Limit,
		Offset:           p.Offset,
		IncludeCompleted: p.IncludeCompleted,
	}), nil
}

type ImportParams struct {
	Text string `json:"text"`
}

type ImportResult struct {
	Imported int        `json:"imported"`
	Tasks    []TaskView `json:"tasks"`
}

func (s *Server) handleImport(ctx context.Context, params json.RawMessage) (any, error) {
	var p ImportParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	added, err := s.svc.Import(ctx, p.Text)
	if err != nil {
		return nil, err
	}
	return ImportResult{Imported: len(added), Tasks: NewTaskViews(added, s.now())}, nil
}

func (s *Server) handleAnalyze(ctx context.Context) (any, error) {
	entries, err := s.svc.Analyze(ctx)
	if err != nil {
		return nil, err
	}
	return NewEntryViews(entries, s.now()), nil
}

// SuggestResult wraps the recommendation so "none" is an explicit null.
type SuggestResult struct {
	RecommendedTask *EntryView `json:"recommended_task"`
}

func (s *Server) handleSuggest(ctx context.Context) (any, error) {
	suggested, err := s.svc.Suggest(ctx)
	if err != nil {
		return nil, err
	}
	var out SuggestResult
	if suggested != nil {
		v := NewEntryView(*suggested, s.now())
		out.RecommendedTask = &v
	}
	return out, nil
}

type StrategyParams struct {
	Strategy string `json:"strategy"`
}

type StrategyResult struct {
	Strategy string `json:"strategy"`
}

func (s *Server) handleStrategySet(params json.RawMessage) (any, error) {
	var p StrategyParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	strategy, err := s.svc.SetStrategy(p.Strategy)
	if err != nil {
		return nil, err
	}
	return StrategyResult{Strategy: string(strategy)}, nil
}

func idParams(params json.RawMessage) (IDParams, error) {
	var p IDParams
	if err := decode(params, &p); err != nil {
		return p, err
	}
	if p.ID == "" {
		return p, &ParamsError{Err: errors.New("id is required")}
	}
	return p, nil
}

// decode tolerates absent params; a method with required fields checks them
// itself.
func decode(params json.RawMessage, v any) error {
	if len(params) == 0 || string(params) == "null" {
		return nil
	}
	if err := json.Unmarshal(params, v); err != nil {
		return &ParamsError{Err: err}
	}
	return nil
}
