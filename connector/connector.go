// Package connector orchestrates a single forwarded turn across the relay
// transport: open (or reuse) a session to the skill, send the user's
// activity, consume the response stream until the skill signals end of
// conversation, and translate every failure mode into the typed error
// taxonomy the host reports through.
package connector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/skillhost/core"
	"github.com/hupe1980/skillhost/logging"
	"github.com/hupe1980/skillhost/manifest"
)

// Status tracks the lifecycle of one forwarded turn.
type Status int

const (
	// StatusIdle means no turn is in flight.
	StatusIdle Status = iota
	// StatusConnecting means the relay session is being established.
	StatusConnecting
	// StatusForwarding means the activity is being transmitted.
	StatusForwarding
	// StatusAwaitingResponse means the response stream is being consumed.
	StatusAwaitingResponse
	// StatusCompleted means the skill finished the turn cleanly.
	StatusCompleted
	// StatusFailed means the turn ended with a skill or transport failure.
	StatusFailed
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusConnecting:
		return "connecting"
	case StatusForwarding:
		return "forwarding"
	case StatusAwaitingResponse:
		return "awaitingResponse"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// DefaultTurnTimeout bounds a full forwarded turn including retry.
const DefaultTurnTimeout = 30 * time.Second

// DefaultApologyText is the generic reply surfaced to the user when a skill
// fails. The skill's raw error text is never shown.
const DefaultApologyText = "Sorry, I wasn't able to complete that for you right now. Please try again in a moment."

// Options configures a Connector.
type Options struct {
	// Credentials presented during the relay handshake.
	Credentials core.Credentials
	// TurnTimeout bounds a forwarded turn. A timeout is a transport
	// failure, never a silent success.
	TurnTimeout time.Duration
	// ApologyText overrides the generic user-facing failure reply.
	ApologyText string
	// Logger defaults to NoOpLogger if nil.
	Logger logging.Logger
	// Telemetry defaults to NoOpTelemetry if nil.
	Telemetry core.Telemetry
}

// Result is the outcome of one forwarded turn. Replies holds the
// user-visible activities in arrival order; on failure it carries the
// generic apology so the host always has something to show the user, and
// Trace carries the diagnostic activity for emulator-style clients.
type Result struct {
	Replies []*core.Activity
	Trace   *core.Activity
	Status  Status
}

// Final returns the last user-visible reply of the turn, if any.
func (r *Result) Final() *core.Activity {
	if len(r.Replies) == 0 {
		return nil
	}
	return r.Replies[len(r.Replies)-1]
}

// Connector forwards turns to one skill. A single parameterized connector
// serves any skill manifest; there are no per-skill subtypes. Safe for
// concurrent turns across different conversations; the host serializes turns
// within a conversation.
type Connector struct {
	skill     *manifest.Manifest
	transport core.Transport
	opts      Options
	logger    logging.Logger
	telemetry core.Telemetry
}

// New creates a connector for the given skill over the given transport.
func New(skill *manifest.Manifest, transport core.Transport, optFns ...func(o *Options)) *Connector {
	opts := Options{
		TurnTimeout: DefaultTurnTimeout,
		ApologyText: DefaultApologyText,
		Logger:      logging.NoOpLogger{},
		Telemetry:   core.NoOpTelemetry{},
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

	return &Connector{
		skill:     skill,
		transport: transport,
		opts:      opts,
		logger:    opts.Logger,
		telemetry: opts.Telemetry,
	}
}

// Forward relays one activity to the skill and consumes the response stream
// until end of conversation. Transport failures are retried exactly once
// with a fresh session, re-sending the same activity ID so an upheld
// transport contract cannot double-apply the turn. Auth rejections are fatal
// immediately. Any terminal failure returns a *core.SkillError together with
// a Result carrying the generic apology reply.
func (c *Connector) Forward(ctx context.Context, activity *core.Activity) (*Result, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, c.opts.TurnTimeout)
	defer cancel()

	replies, err := c.attempt(ctx, activity)
	if err != nil {
		var transportErr *core.TransportError
		if errors.As(err, &transportErr) {
			c.logger.Warn("forward attempt failed, retrying with fresh session",
				"skill", c.skill.ID, "activity_id", activity.ID, "error", err)
			replies, err = c.attempt(ctx, activity)
		}
	}
	if err != nil {
		result, failErr := c.fail(activity, err)
		c.logSkillCall(0, time.Since(start), failErr)
		return result, failErr
	}

	c.logSkillCall(len(replies), time.Since(start), nil)
	c.logger.Debug("turn completed", "skill", c.skill.ID, "replies", len(replies))
	return &Result{Replies: replies, Status: StatusCompleted}, nil
}

// skillCallLogger is the optional richer logging surface; *logging.HostLogger
// implements it. Plain Logger implementations skip the per-call record.
type skillCallLogger interface {
	LogSkillCall(skillID string, replies int, dur time.Duration, success bool, err error)
}

func (c *Connector) logSkillCall(replies int, dur time.Duration, err error) {
	if scl, ok := c.logger.(skillCallLogger); ok {
		scl.LogSkillCall(c.skill.ID, replies, dur, err == nil, err)
	}
}

// attempt runs one full connect/send/await cycle.
func (c *Connector) attempt(ctx context.Context, activity *core.Activity) ([]*core.Activity, error) {
	c.logger.Debug("turn state", "skill", c.skill.ID, "status", StatusConnecting.String())
	session, err := c.transport.Connect(ctx, c.skill.Endpoint, c.opts.Credentials)
	if err != nil {
		var authErr *core.AuthError
		if errors.As(err, &authErr) {
			// Fatal for the session; retrying with the same credential
			// cannot succeed.
			return nil, &core.SkillError{SkillID: c.skill.ID, Err: err}
		}
		return nil, err
	}
	defer session.Close()

	c.logger.Debug("turn state", "skill", c.skill.ID, "status", StatusForwarding.String())
	if err := session.Send(ctx, activity); err != nil {
		return nil, err
	}

	c.logger.Debug("turn state", "skill", c.skill.ID, "status", StatusAwaitingResponse.String())
	return c.await(ctx, session)
}

// await consumes the response stream until the skill signals completion, the
// connection drops or the turn deadline expires.
func (c *Connector) await(ctx context.Context, session core.Session) ([]*core.Activity, error) {
	var replies []*core.Activity

	for {
		select {
		case <-ctx.Done():
			return nil, &core.TransportError{Endpoint: c.skill.Endpoint, Op: "await", Err: ctx.Err()}

		case frame, ok := <-session.Receive():
			if !ok {
				if err := session.Err(); err != nil {
					return nil, err
				}
				// Stream ended without an end-of-conversation signal.
				return nil, &core.TransportError{
					Endpoint: c.skill.Endpoint,
					Op:       "await",
					Err:      errors.New("stream closed before end of conversation"),
				}
			}

			code, done := c.completion(frame)
			if done {
				if code != "" {
					return nil, &core.SkillError{SkillID: c.skill.ID, Code: code}
				}
				return replies, nil
			}

			if frame.Activity != nil && frame.Activity.IsUserVisible() {
				replies = append(replies, frame.Activity)
			}
		}
	}
}

// completion inspects a frame for the end-of-conversation signal, which may
// arrive either as a control frame or as an endOfConversation activity.
func (c *Connector) completion(frame core.Frame) (code string, done bool) {
	if frame.Type == core.FrameControl && frame.Control == core.ControlEndOfConversation {
		return frame.Code, true
	}
	if frame.Type == core.FrameActivity && frame.Activity != nil && frame.Activity.IsEndOfConversation() {
		return frame.Activity.Code, true
	}
	return "", false
}

// fail records full detail at telemetry level and builds the apology result.
func (c *Connector) fail(activity *core.Activity, err error) (*Result, error) {
	var skillErr *core.SkillError
	if !errors.As(err, &skillErr) {
		skillErr = &core.SkillError{SkillID: c.skill.ID, Err: err}
	}

	c.telemetry.TrackException(skillErr, map[string]string{
		"skill":           c.skill.ID,
		"activity_id":     activity.ID,
		"conversation_id": activity.ConversationID,
	})
	c.logger.Error("forwarded turn failed", "skill", c.skill.ID, "error", skillErr)

	apology := activity.CreateReply(c.opts.ApologyText)
	trace := core.NewTraceActivity(activity.ConversationID, fmt.Sprintf("skill %s failed: %v", c.skill.ID, skillErr))

	return &Result{Replies: []*core.Activity{apology}, Trace: trace, Status: StatusFailed}, skillErr
}
