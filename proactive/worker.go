package proactive

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/skillhost/core"
	"github.com/hupe1980/skillhost/logging"
)

// Task is one unit of proactive work, typically a message delivery outside
// any live turn. It receives the worker's context for cancellation.
type Task func(ctx context.Context) error

// WorkerOptions configures a Worker.
type WorkerOptions struct {
	// QueueSize bounds the task queue; Enqueue blocks when full, giving
	// producers backpressure instead of unbounded memory growth.
	QueueSize int
	// Logger defaults to NoOpLogger if nil.
	Logger logging.Logger
	// Telemetry defaults to NoOpTelemetry if nil.
	Telemetry core.Telemetry
}

// Worker is the single-consumer loop draining the proactive task queue.
//
// Failure policy, stated as a contract rather than an accident: a failing or
// panicking task is logged and reported to telemetry, and the loop keeps
// running. Tasks are not retried; proactive pushes are fire-and-forget and
// the producer can resubmit if it cares. FailureCount exposes the running
// total so operators can alert on it.
type Worker struct {
	tasks     chan Task
	logger    logging.Logger
	telemetry core.Telemetry

	cancel   context.CancelFunc
	done     chan struct{}
	startMu  sync.Mutex
	started  bool
	failures atomic.Int64
}

// NewWorker creates a worker with optional overrides. Call Start to begin
// draining.
func NewWorker(optFns ...func(o *WorkerOptions)) *Worker {
	opts := WorkerOptions{
		QueueSize: 64,
		Logger:    logging.NoOpLogger{},
		Telemetry: core.NoOpTelemetry{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.Telemetry == nil {
		opts.Telemetry = core.NoOpTelemetry{}
	}

	return &Worker{
		tasks:     make(chan Task, opts.QueueSize),
		logger:    opts.Logger,
		telemetry: opts.Telemetry,
		done:      make(chan struct{}),
	}
}

// Start launches the consumer goroutine. Subsequent calls are no-ops.
func (w *Worker) Start(ctx context.Context) {
	w.startMu.Lock()
	defer w.startMu.Unlock()
	if w.started {
		return
	}
	w.started = true

	ctx, w.cancel = context.WithCancel(ctx)
	go w.run(ctx)
}

// Enqueue submits a task. It blocks while the queue is full and fails only
// when the worker has been stopped.
func (w *Worker) Enqueue(task Task) error {
	select {
	case <-w.done:
		return fmt.Errorf("proactive worker stopped")
	case w.tasks <- task:
		return nil
	}
}

// Stop cancels the loop. A task already executing runs to completion; the
// loop exits before picking up the next one. Stop blocks until the loop has
// exited.
func (w *Worker) Stop() {
	w.startMu.Lock()
	defer w.startMu.Unlock()
	if !w.started {
		return
	}
	w.cancel()
	<-w.done
}

// FailureCount returns the number of tasks that have failed so far.
func (w *Worker) FailureCount() int64 { return w.failures.Load() }

func (w *Worker) run(ctx context.Context) {
	defer close(w.done)

	for {
		select {
		case <-ctx.Done():
			return
		case task := <-w.tasks:
			w.execute(ctx, task)
		}
	}
}

func (w *Worker) execute(ctx context.Context, task Task) {
	defer func() {
		if r := recover(); r != nil {
			w.failures.Add(1)
			err := fmt.Errorf("proactive task panic: %v", r)
			w.telemetry.TrackException(err, nil)
			w.logger.Error("proactive task panicked", "panic", r)
		}
	}()

	if err := task(ctx); err != nil {
		w.failures.Add(1)
		w.telemetry.TrackException(err, nil)
		w.logger.Error("proactive task failed", "error", err)
	}
}
