// Package telemetry provides sinks for the core.Telemetry interface: a
// logger-backed sink for development and a recording sink for tests.
package telemetry

import (
	"sync"

	"github.com/hupe1980/skillhost/core"
	"github.com/hupe1980/skillhost/logging"
)

// LoggerSink forwards telemetry to a structured logger. Events log at info,
// exceptions at error. It is the default sink for deployments without a
// dedicated telemetry backend.
type LoggerSink struct {
	logger logging.Logger
}

var _ core.Telemetry = (*LoggerSink)(nil)

// NewLoggerSink creates a sink over the given logger.
func NewLoggerSink(logger logging.Logger) *LoggerSink {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &LoggerSink{logger: logger}
}

// TrackEvent logs the event with its properties as attributes.
func (s *LoggerSink) TrackEvent(name string, props map[string]string) {
	s.logger.Info("telemetry event", propArgs("event", name, props)...)
}

// TrackException logs the exception with its properties as attributes.
func (s *LoggerSink) TrackException(err error, props map[string]string) {
	s.logger.Error("telemetry exception", propArgs("error", err, props)...)
}

func propArgs(key string, value any, props map[string]string) []any {
	args := make([]any, 0, 2+2*len(props))
	args = append(args, key, value)
	for k, v := range props {
		args = append(args, k, v)
	}
	return args
}

// Event is one recorded telemetry entry.
type Event struct {
	Name  string
	Err   error
	Props map[string]string
}

// Recorder captures telemetry in memory for assertions in tests.
type Recorder struct {
	mu         sync.Mutex
	events     []Event
	exceptions []Event
}

var _ core.Telemetry = (*Recorder)(nil)

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// TrackEvent records the event.
func (r *Recorder) TrackEvent(name string, props map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Name: name, Props: copyProps(props)})
}

// TrackException records the exception.
func (r *Recorder) TrackException(err error, props map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exceptions = append(r.exceptions, Event{Err: err, Props: copyProps(props)})
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Exceptions returns a copy of the recorded exceptions.
func (r *Recorder) Exceptions() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.exceptions...)
}

func copyProps(props map[string]string) map[string]string {
	if props == nil {
		return nil
	}
	cp := make(map[string]string, len(props))
	for k, v := range props {
		cp[k] = v
	}
	return cp
}
