package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/harbour/internal/domain"
)

func TestFileStorage_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".harbour")
	storage, err := NewFileStorage(dir, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "user_tasks.json"), storage.Path())

	// Missing file means an empty list
	tasks, err := storage.LoadTasks()
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)

	saved := []domain.Task{
		{Key: "k1", ID: "T1", Title: "Study", Importance: 8, EstimatedHours: 2, DueDate: "2025-12-07"},
		{Key: "k2", ID: "T2", Title: "Gym", Importance: 5, EstimatedHours: 1, DueDate: "2025-12-10", Dependencies: "T1", Completed: true},
	}
	require.NoError(t, storage.SaveTasks(saved))

	// A second instance sees the same state, as a fresh process would
	reopened, err := NewFileStorage(dir, "")
	require.NoError(t, err)
	tasks, err = reopened.LoadTasks()
	require.NoError(t, err)
	assert.Equal(t, saved, tasks)

	// No temp file is left behind
	_, err = os.Stat(storage.Path() + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestFileStorage_Clear(t *testing.T) {
	storage, err := NewFileStorage(t.TempDir(), "user_tasks")
	require.NoError(t, err)

	require.NoError(t, storage.SaveTasks([]domain.Task{{ID: "T1", Title: "x"}}))
	require.NoError(t, storage.ClearTasks())

	_, err = os.Stat(storage.Path())
	assert.True(t, os.IsNotExist(err))

	// Clearing twice is fine
	assert.NoError(t, storage.ClearTasks())

	tasks, err := storage.LoadTasks()
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestFileStorage_LegacyStringNumbers(t *testing.T) {
	storage, err := NewFileStorage(t.TempDir(), "")
	require.NoError(t, err)

	legacy := `[{"uid":"u","id":"T1","title":"Old","importance":"4","estimated_hours":"3","due_date":"2025-01-01","dependencies":"","completed":false}]`
	require.NoError(t, os.WriteFile(storage.Path(), []byte(legacy), 0644))

	tasks, err := storage.LoadTasks()
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, 4, tasks[0].Importance)
	assert.Equal(t, 3.0, tasks[0].EstimatedHours)
}

func TestFileStorage_CorruptDocument(t *testing.T) {
	storage, err := NewFileStorage(t.TempDir(), "")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(storage.Path(), []byte("{not json"), 0644))

	_, err = storage.LoadTasks()
	assert.Error(t, err)
}
