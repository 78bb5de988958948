package transport

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hupe1980/skillhost/core"
	"github.com/hupe1980/skillhost/logging"
)

// Handler processes activities forwarded to a skill over one relay
// connection. Frames for a connection are delivered sequentially, in the
// order the host sent them.
type Handler interface {
	HandleActivity(ctx context.Context, conn *Conn, activity *core.Activity) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, conn *Conn, activity *core.Activity) error

// HandleActivity implements Handler.
func (f HandlerFunc) HandleActivity(ctx context.Context, conn *Conn, activity *core.Activity) error {
	return f(ctx, conn, activity)
}

// ValidateFunc checks the credential triple presented during the handshake.
// A non-nil return rejects the connection with 401 before upgrade.
type ValidateFunc func(token, issuer, audience string) error

// ListenerOptions configures a skill-side relay listener.
type ListenerOptions struct {
	// Credentials is the expected bearer token / issuer / audience triple.
	// Ignored when Validate is set.
	Credentials core.Credentials
	// Validate overrides the default constant-time comparison against
	// Credentials.
	Validate ValidateFunc
	// CheckOrigin restricts browser origins; nil allows all (skills talk
	// service-to-service, not to browsers).
	CheckOrigin func(r *http.Request) bool
	// Logger defaults to NoOpLogger if nil.
	Logger logging.Logger
}

// Listener accepts relay connections from a host on the skill side. It
// validates the bearer credential against the expected issuer/audience pair
// before upgrading; only then is the session open for activity frames.
type Listener struct {
	handler  Handler
	validate ValidateFunc
	upgrader websocket.Upgrader
	logger   logging.Logger
}

// NewListener creates a listener dispatching inbound activities to handler.
func NewListener(handler Handler, optFns ...func(o *ListenerOptions)) *Listener {
	opts := ListenerOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	validate := opts.Validate
	if validate == nil {
		expected := opts.Credentials
		validate = func(token, issuer, audience string) error {
			if subtle.ConstantTimeCompare([]byte(token), []byte(expected.Token)) != 1 {
				return &core.AuthError{Reason: "invalid token"}
			}
			if issuer != expected.Issuer || audience != expected.Audience {
				return &core.AuthError{Reason: "issuer/audience mismatch"}
			}
			return nil
		}
	}

	return &Listener{
		handler:  handler,
		validate: validate,
		upgrader: websocket.Upgrader{CheckOrigin: opts.CheckOrigin},
		logger:   opts.Logger,
	}
}

// ServeHTTP implements http.Handler: credential check, upgrade, then a
// sequential frame loop until the host closes or a handler fails the
// conversation.
func (l *Listener) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if err := l.validate(token, r.Header.Get(HeaderIssuer), r.Header.Get(HeaderAudience)); err != nil {
		l.logger.Warn("relay handshake rejected", "remote", r.RemoteAddr, "error", err)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ws, err := l.upgrader.Upgrade(w, r, nil)
	if err != nil {
		l.logger.Error("relay upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	conn := &Conn{conn: ws}
	defer conn.Close()

	for {
		var frame core.Frame
		if err := ws.ReadJSON(&frame); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				l.logger.Debug("relay connection dropped", "remote", r.RemoteAddr, "error", err)
			}
			return
		}
		if frame.Type != core.FrameActivity || frame.Activity == nil {
			continue
		}

		if err := l.handler.HandleActivity(r.Context(), conn, frame.Activity); err != nil {
			// The failure reason goes back as an end-of-conversation code;
			// the host translates it into telemetry plus a user apology.
			_ = conn.EndConversation(frame.Activity.ConversationID, err.Error())
			return
		}
	}
}

// Conn is the skill's side of one relay connection. Writes are serialized so
// replies keep their send order.
type Conn struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
	once    sync.Once
}

// Send transmits an activity back to the host.
func (c *Conn) Send(activity *core.Activity) error {
	return c.writeFrame(core.Frame{Type: core.FrameActivity, Activity: activity})
}

// EndConversation signals turn completion. code is empty for a clean
// completion; a non-empty code marks the turn as failed.
func (c *Conn) EndConversation(conversationID, code string) error {
	activity := core.NewEndOfConversationActivity(conversationID, code)
	return c.writeFrame(core.Frame{Type: core.FrameActivity, Activity: activity})
}

// Close tears the connection down; safe to call more than once.
func (c *Conn) Close() error {
	c.once.Do(func() {
		_ = c.conn.Close()
	})
	return nil
}

func (c *Conn) writeFrame(frame core.Frame) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
		return err
	}
	return c.conn.WriteJSON(frame)
}
