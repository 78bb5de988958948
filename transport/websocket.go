package transport

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hupe1980/skillhost/core"
	"github.com/hupe1980/skillhost/logging"
)

// Header names used by the connect handshake. The bearer token travels in
// the standard Authorization header; issuer and audience accompany it so the
// skill side can check the expected pair before the session opens.
const (
	HeaderIssuer   = "X-Relay-Issuer"
	HeaderAudience = "X-Relay-Audience"
)

// Options configures the websocket transport.
type Options struct {
	// DialTimeout bounds the connect handshake.
	DialTimeout time.Duration
	// WriteTimeout bounds a single frame write on an open session.
	WriteTimeout time.Duration
	// ReceiveBuffer is the channel buffer for inbound frames.
	ReceiveBuffer int
	// Logger defaults to NoOpLogger if nil.
	Logger logging.Logger
}

// WebSocket implements core.Transport over gorilla/websocket.
type WebSocket struct {
	opts   Options
	logger logging.Logger
}

// NewWebSocket creates a websocket transport with optional overrides.
func NewWebSocket(optFns ...func(o *Options)) *WebSocket {
	opts := Options{
		DialTimeout:   10 * time.Second,
		WriteTimeout:  10 * time.Second,
		ReceiveBuffer: 16,
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &WebSocket{opts: opts, logger: opts.Logger}
}

// Connect dials the skill endpoint and performs the credential handshake.
// A 401/403 from the endpoint is an *core.AuthError; every other failure is
// a *core.TransportError. No activity frame is accepted before the handshake
// succeeds.
func (t *WebSocket) Connect(ctx context.Context, endpoint string, creds core.Credentials) (core.Session, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+creds.Token)
	if creds.Issuer != "" {
		header.Set(HeaderIssuer, creds.Issuer)
	}
	if creds.Audience != "" {
		header.Set(HeaderAudience, creds.Audience)
	}

	dialer := websocket.Dialer{HandshakeTimeout: t.opts.DialTimeout}

	conn, resp, err := dialer.DialContext(ctx, endpoint, header)
	if err != nil {
		if resp != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			return nil, &core.AuthError{Endpoint: endpoint, Reason: resp.Status}
		}
		return nil, &core.TransportError{Endpoint: endpoint, Op: "connect", Err: err}
	}

	t.logger.Debug("relay session opened", "endpoint", endpoint)

	s := newSession(conn, endpoint, t.opts.WriteTimeout, t.opts.ReceiveBuffer, t.logger)
	go s.readLoop()
	return s, nil
}
