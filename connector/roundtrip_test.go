package connector

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/skillhost/core"
	"github.com/hupe1980/skillhost/manifest"
	"github.com/hupe1980/skillhost/transport"
)

// Full round trip over the real websocket relay: forward one activity to a
// skill that replies once and completes cleanly.
func TestForward_WebSocketRoundTrip(t *testing.T) {
	creds := core.Credentials{Token: "secret", Issuer: "host.example", Audience: "cal.example"}

	skill := transport.NewListener(
		transport.HandlerFunc(func(ctx context.Context, conn *transport.Conn, activity *core.Activity) error {
			if err := conn.Send(activity.CreateReply("Meeting scheduled.")); err != nil {
				return err
			}
			return conn.EndConversation(activity.ConversationID, "")
		}),
		func(o *transport.ListenerOptions) { o.Credentials = creds },
	)

	srv := httptest.NewServer(skill)
	defer srv.Close()

	m := &manifest.Manifest{
		ID:       "cal",
		Endpoint: "ws" + strings.TrimPrefix(srv.URL, "http"),
		Actions:  []manifest.Action{{ID: "create", TriggerIntents: []string{"ScheduleMeeting"}}},
	}

	c := New(m, transport.NewWebSocket(), func(o *Options) { o.Credentials = creds })

	in := core.NewUserMessageActivity("conv-1", "user-1", "schedule a meeting tomorrow")
	result, err := c.Forward(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, result.Status)
	require.Len(t, result.Replies, 1)
	assert.Equal(t, "Meeting scheduled.", result.Final().Text)
	assert.Equal(t, "conv-1", result.Final().ConversationID)
}
