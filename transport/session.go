package transport

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hupe1980/skillhost/core"
	"github.com/hupe1980/skillhost/logging"
)

// session is one open relay channel to a skill endpoint. Writes are
// serialized through writeMu so activities from this side are delivered in
// send order; a dedicated read loop feeds the frames channel until the skill
// signals end of conversation or the connection drops.
type session struct {
	endpoint     string
	conn         *websocket.Conn
	writeTimeout time.Duration
	logger       logging.Logger

	writeMu sync.Mutex
	frames  chan core.Frame
	done    chan struct{}

	closeOnce sync.Once

	errMu sync.Mutex
	err   error
}

func newSession(conn *websocket.Conn, endpoint string, writeTimeout time.Duration, buffer int, logger logging.Logger) *session {
	return &session{
		endpoint:     endpoint,
		conn:         conn,
		writeTimeout: writeTimeout,
		logger:       logger,
		frames:       make(chan core.Frame, buffer),
		done:         make(chan struct{}),
	}
}

// Send frames and transmits one activity. Concurrent callers are serialized,
// preserving per-session send order. Context cancellation and write timeouts
// both surface as *core.TransportError.
func (s *session) Send(ctx context.Context, activity *core.Activity) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	deadline := time.Now().Add(s.writeTimeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := s.conn.SetWriteDeadline(deadline); err != nil {
		return &core.TransportError{Endpoint: s.endpoint, Op: "send", Err: err}
	}

	frame := core.Frame{Type: core.FrameActivity, Activity: activity}
	if err := s.conn.WriteJSON(frame); err != nil {
		return &core.TransportError{Endpoint: s.endpoint, Op: "send", Err: err}
	}
	return nil
}

// Receive returns the inbound frame stream. The channel is closed when the
// skill ends the conversation or the connection drops; Err distinguishes the
// two afterwards.
func (s *session) Receive() <-chan core.Frame { return s.frames }

// Err reports the terminal receive error, if any, once the frame channel has
// been closed. A clean end of conversation leaves it nil.
func (s *session) Err() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.err
}

// Close releases the session. It is idempotent and safe to call after the
// peer already closed the connection.
func (s *session) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		s.writeMu.Lock()
		_ = s.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		s.writeMu.Unlock()
		_ = s.conn.Close()
	})
	return nil
}

func (s *session) setErr(err error) {
	s.errMu.Lock()
	s.err = err
	s.errMu.Unlock()
}

// readLoop drains inbound frames until end of conversation or read failure.
func (s *session) readLoop() {
	defer close(s.frames)

	for {
		var frame core.Frame
		if err := s.conn.ReadJSON(&frame); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return
			}
			s.setErr(&core.TransportError{Endpoint: s.endpoint, Op: "receive", Err: err})
			return
		}

		switch frame.Type {
		case core.FrameActivity, core.FrameControl:
			// The consumer may have abandoned the session (turn timeout);
			// Close must still be able to end this loop.
			select {
			case s.frames <- frame:
			case <-s.done:
				return
			}
		default:
			s.logger.Warn("dropping malformed frame", "endpoint", s.endpoint, "type", frame.Type)
			continue
		}

		if frame.Type == core.FrameControl && frame.Control == core.ControlEndOfConversation {
			return
		}
		if frame.Type == core.FrameActivity && frame.Activity != nil && frame.Activity.IsEndOfConversation() {
			return
		}
	}
}
