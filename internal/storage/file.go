package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/felixgeelhaar/fortify/retry"

	"github.com/rcliao/harbour/internal/domain"
)

// DefaultKey is the storage key the task list is kept under.
const DefaultKey = "user_tasks"

// FileStorage keeps the full task list as one JSON document per key inside
// a directory. Every save replaces the whole document.
type FileStorage struct {
	basePath    string
	key         string
	mu          sync.RWMutex
	retryConfig retry.Config
}

func NewFileStorage(basePath, key string) (*FileStorage, error) {
	if key == "" {
		key = DefaultKey
	}
	fs := &FileStorage{
		basePath: basePath,
		key:      key,
		retryConfig: retry.Config{
			MaxAttempts:   3,
			InitialDelay:  10 * time.Millisecond,
			BackoffPolicy: retry.BackoffExponential,
		},
	}

	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	return fs, nil
}

// Path is the file holding the task list.
func (fs *FileStorage) Path() string {
	return filepath.Join(fs.basePath, fs.key+".json")
}

func (fs *FileStorage) saveJSON(path string, data interface{}) error {
	tempPath := path + ".tmp"

	file, err := os.Create(tempPath)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		file.Close()
		os.Remove(tempPath)
		return err
	}
	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return err
	}

	return os.Rename(tempPath, path)
}

func (fs *FileStorage) loadJSON(path string, target interface{}) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return json.NewDecoder(file).Decode(target)
}

// LoadTasks reads the persisted list. A missing document is an empty list.
func (fs *FileStorage) LoadTasks() ([]domain.Task, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	path := fs.Path()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return make([]domain.Task, 0), nil
	}

	retryer := retry.New[[]domain.Task](fs.retryConfig)
	tasks, err := retryer.Do(context.Background(), func(ctx context.Context) ([]domain.Task, error) {
		var tasks []domain.Task
		if err := fs.loadJSON(path, &tasks); err != nil {
			return nil, err
		}
		return tasks, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", fs.key, err)
	}
	if tasks == nil {
		tasks = make([]domain.Task, 0)
	}

	return tasks, nil
}

// SaveTasks replaces the persisted list with tasks.
func (fs *FileStorage) SaveTasks(tasks []domain.Task) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if tasks == nil {
		tasks = make([]domain.Task, 0)
	}
	if err := fs.saveJSON(fs.Path(), tasks); err != nil {
		return fmt.Errorf("failed to save %s: %w", fs.key, err)
	}
	return nil
}

// ClearTasks removes the persisted list entirely.
func (fs *FileStorage) ClearTasks() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	err := os.Remove(fs.Path())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to clear %s: %w", fs.key, err)
	}
	return nil
}
