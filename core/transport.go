package core

import "context"

// FrameType distinguishes conversational payloads from control signals on
// the relay channel.
type FrameType string

const (
	// FrameActivity carries an activity envelope.
	FrameActivity FrameType = "activity"
	// FrameControl carries a session-level control signal.
	FrameControl FrameType = "control"
)

// ControlSignal is a session-level signal sent outside the activity stream.
type ControlSignal string

const (
	// ControlEndOfConversation terminates the receive stream for the
	// current forwarded turn.
	ControlEndOfConversation ControlSignal = "endOfConversation"
	// ControlAck acknowledges receipt of an activity frame.
	ControlAck ControlSignal = "ack"
)

// Frame is one unit received from a skill session: either an activity or a
// control signal, never both.
type Frame struct {
	Type     FrameType     `json:"type"`
	Activity *Activity     `json:"activity,omitempty"`
	Control  ControlSignal `json:"control,omitempty"`
	// Code qualifies a control signal (end-of-conversation reason).
	Code string `json:"code,omitempty"`
}

// Credentials is the bearer credential presented during the transport
// handshake. The skill side validates token, issuer and audience before the
// session is considered open.
type Credentials struct {
	Token    string
	Issuer   string
	Audience string
}

// Session is an open, authenticated, ordered duplex channel to one skill
// endpoint for one conversation.
//
// Send preserves per-session ordering. Receive returns the session's inbound
// frame channel; it is closed when the skill signals end of conversation or
// the connection drops. Close is idempotent and releases all resources.
type Session interface {
	Send(ctx context.Context, activity *Activity) error
	Receive() <-chan Frame
	Close() error
	// Err reports the terminal error of the receive stream, if any, once
	// the Receive channel has been closed.
	Err() error
}

// Transport establishes authenticated sessions to skill endpoints. A single
// Transport instance is shared across skills and parameterized per call by
// manifest data; there are no per-skill transport subtypes.
type Transport interface {
	Connect(ctx context.Context, endpoint string, creds Credentials) (Session, error)
}
