// Package skillhost provides a high-level façade over the dispatch, connector
// and proactive layers enabling rapid construction of a skill-hosting
// assistant. Most applications interact with this package by:
//  1. Creating a Host via New() (optionally overriding default in-memory services)
//  2. Registering skill manifests through a manifest.Registry
//  3. Feeding inbound activities to HandleTurn and delivering the replies
//
// The façade delegates routing to dispatch.Dispatcher and remote execution to
// connector.Connector while keeping setup and usage ergonomics concise. All
// defaults are safe for local development and testing; production deployments
// typically supply durable storage, a real recognizer and a structured logger.
package skillhost

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/skillhost/connector"
	"github.com/hupe1980/skillhost/core"
	"github.com/hupe1980/skillhost/dispatch"
	"github.com/hupe1980/skillhost/history"
	"github.com/hupe1980/skillhost/internal/util"
	"github.com/hupe1980/skillhost/logging"
	"github.com/hupe1980/skillhost/manifest"
	"github.com/hupe1980/skillhost/proactive"
	"github.com/hupe1980/skillhost/recognizer"
	"github.com/hupe1980/skillhost/storage"
	"github.com/hupe1980/skillhost/transport"
)

// DefaultFallbackText is the local reply used when no skill can take the turn
// and no custom local handler is configured.
const DefaultFallbackText = "Sorry, I didn't understand that. Could you rephrase?"

// LocalHandler produces the host's own reply for turns that are not forwarded
// to any skill. The recognition result is passed so handlers can vary the
// answer by intent even below the forwarding threshold.
type LocalHandler func(ctx context.Context, activity *core.Activity, recognition core.DispatchResult) (*core.Activity, error)

// Options configures the Host instance.
type Options struct {
	// Recognizer scores user utterances. Defaults to an empty keyword
	// recognizer, which routes everything to local fallback.
	Recognizer core.Recognizer

	// Registry holds the known skill manifests. Defaults to an empty
	// registry.
	Registry *manifest.Registry

	// Transport dials skill endpoints. Defaults to the websocket transport.
	Transport core.Transport

	// Credentials presented to skills during the relay handshake.
	Credentials core.Credentials

	// TurnTimeout bounds one forwarded turn including its single retry.
	TurnTimeout time.Duration

	// ApologyText overrides the generic user-facing failure reply.
	ApologyText string

	// History is the bounded per-user utterance cache. Defaults to an
	// in-memory cache with the default bound and FIFO replacement.
	History *history.Cache

	// AddressBook stores proactive conversation routes. Defaults to an
	// in-memory store.
	AddressBook *proactive.AddressBook

	// Worker drains proactive deliveries. Defaults to a new worker; the
	// host starts and stops it.
	Worker *proactive.Worker

	// Notifier delivers proactive messages to their channel. Required only
	// when PushMessage is used.
	Notifier proactive.Notifier

	// LocalHandler handles non-forwarded turns. Defaults to a static
	// fallback reply.
	LocalHandler LocalHandler

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger

	// Telemetry (defaults to NoOp telemetry if nil)
	Telemetry core.Telemetry
}

// TurnResult is the outcome of one handled turn.
type TurnResult struct {
	// Replies holds the user-visible activities in delivery order. It is
	// never empty: failed skill turns carry the apology reply and local
	// turns carry the fallback.
	Replies []*core.Activity
	// Recognition is the scored intent for the turn.
	Recognition core.DispatchResult
	// Decision is the routing outcome.
	Decision dispatch.Decision
}

// Host is the high-level façade aggregating recognition, dispatch, skill
// connectors and the proactive subsystem. Turns within one conversation are
// serialized; different conversations proceed concurrently.
type Host struct {
	opts       Options
	dispatcher *dispatch.Dispatcher
	hist       *history.Cache
	book       *proactive.AddressBook
	worker     *proactive.Worker
	logger     logging.Logger
	telemetry  core.Telemetry

	turnLocks *util.KeyMutex

	connMu     sync.Mutex
	connectors map[string]*connector.Connector

	startOnce sync.Once
	stopOnce  sync.Once
}

// New creates a new Host with optional overrides. Any unset service is
// initialized with an in-memory implementation.
func New(optFns ...func(o *Options)) *Host {
	opts := Options{
		Recognizer:  recognizer.NewKeyword(),
		Transport:   transport.NewWebSocket(),
		TurnTimeout: connector.DefaultTurnTimeout,
		ApologyText: connector.DefaultApologyText,
		Logger:      logging.NoOpLogger{},
		Telemetry:   core.NoOpTelemetry{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Registry == nil {
		opts.Registry, _ = manifest.NewRegistry()
	}
	if opts.History == nil {
		opts.History = history.NewCache()
	}
	if opts.AddressBook == nil {
		opts.AddressBook = proactive.NewAddressBook(storage.NewInMemoryStore())
	}
	if opts.Worker == nil {
		opts.Worker = proactive.NewWorker(func(o *proactive.WorkerOptions) {
			o.Logger = opts.Logger
			o.Telemetry = opts.Telemetry
		})
	}
	if opts.LocalHandler == nil {
		opts.LocalHandler = func(_ context.Context, activity *core.Activity, _ core.DispatchResult) (*core.Activity, error) {
			return activity.CreateReply(DefaultFallbackText), nil
		}
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.Telemetry == nil {
		opts.Telemetry = core.NoOpTelemetry{}
	}

	return &Host{
		opts:       opts,
		dispatcher: dispatch.NewDispatcher(opts.Registry),
		hist:       opts.History,
		book:       opts.AddressBook,
		worker:     opts.Worker,
		logger:     opts.Logger,
		telemetry:  opts.Telemetry,
		turnLocks:  util.NewKeyMutex(),
		connectors: map[string]*connector.Connector{},
	}
}

// Start launches the proactive worker. Subsequent calls are no-ops.
func (h *Host) Start(ctx context.Context) {
	h.startOnce.Do(func() { h.worker.Start(ctx) })
}

// Stop drains and stops the proactive worker.
func (h *Host) Stop() {
	h.stopOnce.Do(func() { h.worker.Stop() })
}

// History returns the host's utterance cache.
func (h *Host) History() *history.Cache { return h.hist }

// AddressBook returns the host's proactive address book.
func (h *Host) AddressBook() *proactive.AddressBook { return h.book }

// HandleTurn processes one inbound activity end to end: identity backfill,
// route capture, history append, recognition, dispatch and either skill
// forwarding or local fallback. Turns sharing a conversation ID run one at a
// time in arrival order.
//
// A non-nil error reports that a forwarded skill turn failed; the returned
// TurnResult still carries the apology reply so the caller always has
// something to deliver.
func (h *Host) HandleTurn(ctx context.Context, activity *core.Activity) (*TurnResult, error) {
	if activity == nil {
		return nil, fmt.Errorf("nil activity")
	}
	activity.EnsureIdentity()

	h.turnLocks.Lock(activity.ConversationID)
	defer h.turnLocks.Unlock(activity.ConversationID)

	if err := h.book.RecordActivity(ctx, activity); err != nil {
		// Losing a proactive route must not fail the live turn.
		h.logger.Warn("recording proactive route failed", "conversation_id", activity.ConversationID, "error", err)
		h.telemetry.TrackException(err, map[string]string{"conversation_id": activity.ConversationID})
	}

	recognition, err := h.opts.Recognizer.Recognize(ctx, activity.Text)
	if err != nil {
		// A broken recognizer degrades to "did not understand"; the host
		// still answers.
		h.logger.Error("recognition failed, falling back to local handling", "error", err)
		h.telemetry.TrackException(err, map[string]string{"conversation_id": activity.ConversationID})
		recognition = core.DispatchResult{}
	}

	if activity.Type == core.ActivityMessage && activity.From.ID != "" {
		h.hist.Append(activity.From.ID, history.Entry{
			Utterance: activity.Text,
			Intent:    recognition.Intent,
			Timestamp: time.Now(),
		})
	}

	decision := h.dispatcher.Decide(recognition)
	h.logDispatch(activity, recognition, decision)

	if decision.Kind == dispatch.Forward {
		return h.forward(ctx, activity, recognition, decision)
	}
	return h.handleLocal(ctx, activity, recognition, decision)
}

// PushMessage enqueues a proactive delivery to the user's most recent
// conversation. The route is resolved when the worker executes the task, not
// when the push is enqueued, so the message follows the user to their latest
// endpoint. Requires a configured Notifier.
func (h *Host) PushMessage(rawUserID, text string) error {
	if h.opts.Notifier == nil {
		return fmt.Errorf("no notifier configured")
	}
	return h.worker.Enqueue(func(ctx context.Context) error {
		record, err := h.book.Resolve(ctx, rawUserID)
		if err != nil {
			return fmt.Errorf("resolve proactive route: %w", err)
		}
		return h.opts.Notifier.Notify(ctx, record.Reference.NewContinuationActivity(text))
	})
}

// dispatchLogger is the optional richer logging surface; *logging.HostLogger
// implements it. Plain Logger implementations get a standard info line.
type dispatchLogger interface {
	LogDispatch(intent string, confidence float64, skillID string, forwarded bool)
}

func (h *Host) logDispatch(activity *core.Activity, recognition core.DispatchResult, decision dispatch.Decision) {
	if dl, ok := h.logger.(dispatchLogger); ok {
		dl.LogDispatch(recognition.Intent, recognition.Confidence, decision.SkillID, decision.Kind == dispatch.Forward)
		return
	}
	h.logger.Info("turn routed",
		"conversation_id", activity.ConversationID,
		"intent", recognition.Intent,
		"confidence", recognition.Confidence,
		"route", decision.Kind.String(),
		"skill_id", decision.SkillID,
	)
}

func (h *Host) forward(ctx context.Context, activity *core.Activity, recognition core.DispatchResult, decision dispatch.Decision) (*TurnResult, error) {
	conn, err := h.connector(decision.SkillID)
	if err != nil {
		return nil, err
	}

	result, err := conn.Forward(ctx, activity)
	return &TurnResult{Replies: result.Replies, Recognition: recognition, Decision: decision}, err
}

func (h *Host) handleLocal(ctx context.Context, activity *core.Activity, recognition core.DispatchResult, decision dispatch.Decision) (*TurnResult, error) {
	reply, err := h.opts.LocalHandler(ctx, activity, recognition)
	if err != nil {
		return nil, fmt.Errorf("local handler: %w", err)
	}
	return &TurnResult{Replies: []*core.Activity{reply}, Recognition: recognition, Decision: decision}, nil
}

// connector returns the lazily created connector for a skill. Connectors are
// stateless per turn and shared across conversations.
func (h *Host) connector(skillID string) (*connector.Connector, error) {
	h.connMu.Lock()
	defer h.connMu.Unlock()

	if conn, ok := h.connectors[skillID]; ok {
		return conn, nil
	}

	skill, err := h.opts.Registry.Get(skillID)
	if err != nil {
		return nil, err
	}

	conn := connector.New(skill, h.opts.Transport, func(o *connector.Options) {
		o.Credentials = h.opts.Credentials
		o.TurnTimeout = h.opts.TurnTimeout
		o.ApologyText = h.opts.ApologyText
		o.Logger = h.logger
		o.Telemetry = h.telemetry
	})
	h.connectors[skillID] = conn
	return conn, nil
}
