package proactive

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/hupe1980/skillhost/core"
	"github.com/hupe1980/skillhost/logging"
)

// Notifier delivers a continuation activity to its conversation endpoint.
// The host wires this to its outbound channel client.
type Notifier interface {
	Notify(ctx context.Context, activity *core.Activity) error
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, activity *core.Activity) error

// Notify implements Notifier.
func (f NotifierFunc) Notify(ctx context.Context, activity *core.Activity) error {
	return f(ctx, activity)
}

// Scheduler enqueues recurring proactive pushes on cron expressions. Each
// firing resolves the user's current address-book entry at execution time,
// so a user who moved channels between firings is reached at their latest
// endpoint.
type Scheduler struct {
	cron     *cron.Cron
	book     *AddressBook
	worker   *Worker
	notifier Notifier
	logger   logging.Logger
}

// SchedulerOptions configures a Scheduler.
type SchedulerOptions struct {
	// Logger defaults to NoOpLogger if nil.
	Logger logging.Logger
}

// NewScheduler creates a scheduler pushing through the given worker.
func NewScheduler(book *AddressBook, worker *Worker, notifier Notifier, optFns ...func(o *SchedulerOptions)) *Scheduler {
	opts := SchedulerOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Scheduler{
		cron:     cron.New(),
		book:     book,
		worker:   worker,
		notifier: notifier,
		logger:   opts.Logger,
	}
}

// Schedule registers a recurring push to the given user. The returned ID can
// be passed to Unschedule.
func (s *Scheduler) Schedule(spec, rawUserID, text string) (cron.EntryID, error) {
	id, err := s.cron.AddFunc(spec, func() {
		if err := s.worker.Enqueue(s.pushTask(rawUserID, text)); err != nil {
			s.logger.Warn("dropping scheduled push, worker unavailable", "error", err)
		}
	})
	if err != nil {
		return 0, fmt.Errorf("schedule %q: %w", spec, err)
	}
	return id, nil
}

// Unschedule removes a previously scheduled push.
func (s *Scheduler) Unschedule(id cron.EntryID) { s.cron.Remove(id) }

// Start begins firing schedules.
func (s *Scheduler) Start() { s.cron.Start() }

// Stop stops firing; a push already enqueued still runs on the worker.
func (s *Scheduler) Stop() { s.cron.Stop() }

func (s *Scheduler) pushTask(rawUserID, text string) Task {
	return func(ctx context.Context) error {
		record, err := s.book.Resolve(ctx, rawUserID)
		if err != nil {
			return fmt.Errorf("resolve proactive route: %w", err)
		}
		activity := record.Reference.NewContinuationActivity(text)
		return s.notifier.Notify(ctx, activity)
	}
}
