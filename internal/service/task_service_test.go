package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/harbour/internal/domain"
)

func newTestService(t *testing.T, client *fakeClient, initial ...domain.Task) *TaskService {
	t.Helper()
	svc := NewTaskService(storageWith(initial...), client, nil)
	require.NoError(t, svc.Load(context.Background()))
	return svc
}

func TestTaskService_CompleteTriggersSuggestion(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{suggest: suggestFirst}
	svc := newTestService(t, client, task("T1", "Design"), task("T2", "Build"))

	res, err := svc.ToggleCompleted(ctx, "T1")
	require.NoError(t, err)
	assert.True(t, res.Task.Completed)
	require.NoError(t, res.SuggestErr)
	require.NotNil(t, res.Suggestion)
	assert.Equal(t, "T2", res.Suggestion.ID)

	assert.Equal(t, []domain.FlowStep{
		{Kind: domain.FlowCompleted, ID: "T1", Title: "Design"},
		{Kind: domain.FlowSuggested, ID: "T2", Title: "Build"},
	}, svc.Flow())

	// the completed task is sent along, flagged
	calls := client.calls()
	require.Len(t, calls, 1)
	assert.True(t, calls[0].Tasks[0].Completed)
}

func TestTaskService_ReopenDoesNotSuggest(t *testing.T) {
	ctx := context.Background()
	done := task("T1", "Design")
	done.Completed = true
	client := &fakeClient{suggest: suggestFirst}
	svc := newTestService(t, client, done)

	res, err := svc.ToggleCompleted(ctx, "T1")
	require.NoError(t, err)
	assert.False(t, res.Task.Completed)
	assert.Nil(t, res.Suggestion)
	assert.Empty(t, client.calls())
	assert.Empty(t, svc.Flow())
}

func TestTaskService_SuggestionFailureAfterToggle(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, &fakeClient{}, task("T1", "Design"))

	res, err := svc.ToggleCompleted(ctx, "T1")
	require.NoError(t, err)
	assert.ErrorIs(t, res.SuggestErr, domain.ErrBackendUnavailable)

	got, err := svc.Get("T1")
	require.NoError(t, err)
	assert.True(t, got.Completed)
	assert.Len(t, svc.Flow(), 1)
}

func TestTaskService_Strategy(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{analyze: scoreAll}
	svc := newTestService(t, client, task("T1", "A"))

	assert.Equal(t, domain.StrategySmartBalance, svc.Strategy())

	_, err := svc.SetStrategy("random_pick")
	assert.ErrorIs(t, err, domain.ErrUnknownStrategy)
	assert.Equal(t, domain.StrategySmartBalance, svc.Strategy())

	s, err := svc.SetStrategy("deadline_driven")
	require.NoError(t, err)
	assert.Equal(t, domain.StrategyDeadlineDriven, s)

	entries, err := svc.Analyze(ctx)
	require.NoError(t, err)
	assert.Equal(t, "deadline_driven", entries[0].Strategy)
	assert.Equal(t, "deadline_driven", client.calls()[0].Strategy)
}

func TestTaskService_ImportThenAnalyze(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{analyze: scoreAll}
	svc := newTestService(t, client)

	_, err := svc.Import(ctx, `[{"title": "a", "importance": 3, "estimated_hours": 1, "due_date": "01/02/2026"}]`)
	require.NoError(t, err)

	entries, err := svc.Analyze(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "2026-02-01", entries[0].DueDate)
	assert.Equal(t, entries, svc.Analysis())
}
