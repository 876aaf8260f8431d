package storage

import (
	"sync"

	"github.com/rcliao/harbour/internal/domain"
)

// MemoryStorage is an in-process TaskStorage, used by tests and by callers
// that do not want anything written to disk.
type MemoryStorage struct {
	mu      sync.RWMutex
	tasks   []domain.Task
	present bool
	saves   int
}

func NewMemoryStorage(initial ...domain.Task) *MemoryStorage {
	ms := &MemoryStorage{}
	if len(initial) > 0 {
		ms.tasks = append([]domain.Task(nil), initial...)
		ms.present = true
	}
	return ms
}

func (ms *MemoryStorage) LoadTasks() ([]domain.Task, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	return append(make([]domain.Task, 0, len(ms.tasks)), ms.tasks...), nil
}

func (ms *MemoryStorage) SaveTasks(tasks []domain.Task) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.tasks = append(make([]domain.Task, 0, len(tasks)), tasks...)
	ms.present = true
	ms.saves++
	return nil
}

func (ms *MemoryStorage) ClearTasks() error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.tasks = nil
	ms.present = false
	return nil
}

// Present reports whether a task list is currently stored.
func (ms *MemoryStorage) Present() bool {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return ms.present
}

// Saves counts SaveTasks calls.
func (ms *MemoryStorage) Saves() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return ms.saves
}
