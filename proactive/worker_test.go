package proactive

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorker_DrainsTasksInOrder(t *testing.T) {
	worker := NewWorker()
	worker.Start(context.Background())
	defer worker.Stop()

	var order []int
	done := make(chan struct{})

	for i := 1; i <= 3; i++ {
		i := i
		require.NoError(t, worker.Enqueue(func(ctx context.Context) error {
			order = append(order, i)
			if i == 3 {
				close(done)
			}
			return nil
		}))
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("tasks did not drain")
	}
	// Single consumer: order is append order, no synchronization needed
	// beyond the done signal.
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestWorker_ContinuesAfterFailure(t *testing.T) {
	worker := NewWorker()
	worker.Start(context.Background())
	defer worker.Stop()

	done := make(chan struct{})
	require.NoError(t, worker.Enqueue(func(ctx context.Context) error {
		return errors.New("delivery failed")
	}))
	require.NoError(t, worker.Enqueue(func(ctx context.Context) error {
		close(done)
		return nil
	}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not survive the failing task")
	}
	assert.Equal(t, int64(1), worker.FailureCount())
}

func TestWorker_ContinuesAfterPanic(t *testing.T) {
	worker := NewWorker()
	worker.Start(context.Background())
	defer worker.Stop()

	done := make(chan struct{})
	require.NoError(t, worker.Enqueue(func(ctx context.Context) error {
		panic("boom")
	}))
	require.NoError(t, worker.Enqueue(func(ctx context.Context) error {
		close(done)
		return nil
	}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not survive the panicking task")
	}
	assert.Equal(t, int64(1), worker.FailureCount())
}

func TestWorker_StopWaitsForRunningTask(t *testing.T) {
	worker := NewWorker()
	worker.Start(context.Background())

	started := make(chan struct{})
	var finished atomic.Bool
	require.NoError(t, worker.Enqueue(func(ctx context.Context) error {
		close(started)
		time.Sleep(50 * time.Millisecond)
		finished.Store(true)
		return nil
	}))

	<-started
	worker.Stop()

	assert.True(t, finished.Load(), "in-flight task must run to completion")
}

func TestWorker_EnqueueAfterStop(t *testing.T) {
	worker := NewWorker()
	worker.Start(context.Background())
	worker.Stop()

	err := worker.Enqueue(func(ctx context.Context) error { return nil })
	assert.Error(t, err)
}
