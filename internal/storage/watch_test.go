package storage

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/harbour/internal/domain"
)

func TestWatcher_SeesSave(t *testing.T) {
	storage, err := NewFileStorage(t.TempDir(), "")
	require.NoError(t, err)

	var changes atomic.Int32
	w, err := NewWatcher(storage.Path(), 30*time.Millisecond, func() {
		changes.Add(1)
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = w.Run(ctx)
	}()
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, storage.SaveTasks([]domain.Task{{ID: "T1", Title: "x"}}))

	assert.Eventually(t, func() bool { return changes.Load() > 0 }, 2*time.Second, 20*time.Millisecond)
}

func TestDebouncer_CoalescesRapidTriggers(t *testing.T) {
	var count atomic.Int32
	d := newDebouncer(50*time.Millisecond, func() {
		count.Add(1)
	})
	defer d.Stop()

	for i := 0; i < 10; i++ {
		d.Trigger()
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), count.Load())
}

func TestDebouncer_Stop(t *testing.T) {
	var count atomic.Int32
	d := newDebouncer(50*time.Millisecond, func() {
		count.Add(1)
	})

	d.Trigger()
	d.Stop()

	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, count.Load())
}
