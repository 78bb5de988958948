package core

import (
	"time"

	"github.com/google/uuid"
)

// ActivityType enumerates the wire-level activity kinds exchanged between
// the host and a skill.
type ActivityType string

const (
	// ActivityMessage is a user-visible conversational message.
	ActivityMessage ActivityType = "message"
	// ActivityEvent carries a named, non-visible signal (e.g. a skill
	// invocation start).
	ActivityEvent ActivityType = "event"
	// ActivityTrace is diagnostic-only and never shown to end users.
	ActivityTrace ActivityType = "trace"
	// ActivityTyping is a typing indicator relayed while a skill works.
	ActivityTyping ActivityType = "typing"
	// ActivityEndOfConversation signals that the skill has finished the
	// forwarded turn. A non-empty Code marks a failed completion.
	ActivityEndOfConversation ActivityType = "endOfConversation"
)

// Channel account roles.
const (
	RoleUser = "user"
	RoleBot  = "bot"
)

// ChannelAccount identifies one party of a conversation.
type ChannelAccount struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	Role string `json:"role,omitempty"`
}

// Activity is the envelope for every message relayed between the host, the
// user channel and remote skills. After creation an activity is treated as
// immutable; the single exception is the host backfilling a missing ID or
// ConversationID on first receipt (see EnsureIdentity).
type Activity struct {
	ID             string            `json:"id"`
	Type           ActivityType      `json:"type"`
	Text           string            `json:"text,omitempty"`
	Name           string            `json:"name,omitempty"`
	ConversationID string            `json:"conversation_id"`
	ServiceURL     string            `json:"service_url,omitempty"`
	ChannelID      string            `json:"channel_id,omitempty"`
	From           ChannelAccount    `json:"from"`
	Recipient      ChannelAccount    `json:"recipient"`
	ReplyToID      string            `json:"reply_to_id,omitempty"`
	// Code carries the end-of-conversation reason when Type is
	// ActivityEndOfConversation. Empty means a clean completion.
	Code       string            `json:"code,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// NewID generates a new unique identifier for activities and turns.
func NewID() string { return uuid.NewString() }

// NewActivity creates a bare activity of the given type with a fresh ID and
// UTC timestamp.
func NewActivity(activityType ActivityType) *Activity {
	return &Activity{
		ID:        NewID(),
		Type:      activityType,
		Timestamp: time.Now().UTC(),
	}
}

// NewMessageActivity creates a user-visible message within a conversation.
func NewMessageActivity(conversationID, text string) *Activity {
	a := NewActivity(ActivityMessage)
	a.ConversationID = conversationID
	a.Text = text
	return a
}

// NewUserMessageActivity creates an inbound message authored by a user.
func NewUserMessageActivity(conversationID, userID, text string) *Activity {
	a := NewMessageActivity(conversationID, text)
	a.From = ChannelAccount{ID: userID, Role: RoleUser}
	return a
}

// NewEndOfConversationActivity creates the completion signal for a
// conversation. code is empty for a clean completion.
func NewEndOfConversationActivity(conversationID, code string) *Activity {
	a := NewActivity(ActivityEndOfConversation)
	a.ConversationID = conversationID
	a.Code = code
	return a
}

// NewTraceActivity creates a diagnostic activity. Trace activities are kept
// out of the user-visible reply stream.
func NewTraceActivity(conversationID, text string) *Activity {
	a := NewActivity(ActivityTrace)
	a.ConversationID = conversationID
	a.Text = text
	return a
}

// CreateReply builds a message activity addressed back to the sender of the
// receiver, preserving conversation routing fields.
func (a *Activity) CreateReply(text string) *Activity {
	reply := NewMessageActivity(a.ConversationID, text)
	reply.ServiceURL = a.ServiceURL
	reply.ChannelID = a.ChannelID
	reply.From = a.Recipient
	reply.Recipient = a.From
	reply.ReplyToID = a.ID
	return reply
}

// EnsureIdentity backfills a missing ID and/or ConversationID. It is the
// host's responsibility to call this once on first receipt; skills never
// rewrite identity fields.
func (a *Activity) EnsureIdentity() {
	if a.ID == "" {
		a.ID = NewID()
	}
	if a.ConversationID == "" {
		a.ConversationID = NewID()
	}
}

// IsEndOfConversation reports whether the activity terminates a forwarded
// turn.
func (a *Activity) IsEndOfConversation() bool {
	return a.Type == ActivityEndOfConversation
}

// IsUserVisible reports whether the activity should be surfaced to the end
// user (messages and typing indicators; traces and control signals are not).
func (a *Activity) IsUserVisible() bool {
	return a.Type == ActivityMessage || a.Type == ActivityTyping
}

// Reference extracts the conversation reference needed to reach the sending
// user again outside this turn.
func (a *Activity) Reference() ConversationReference {
	return ConversationReference{
		ConversationID: a.ConversationID,
		ServiceURL:     a.ServiceURL,
		ChannelID:      a.ChannelID,
		User:           a.From,
		Bot:            a.Recipient,
	}
}

// ConversationReference captures the minimal addressing information required
// to push a message into an existing conversation without a live inbound
// activity.
type ConversationReference struct {
	ConversationID string         `json:"conversation_id"`
	ServiceURL     string         `json:"service_url,omitempty"`
	ChannelID      string         `json:"channel_id,omitempty"`
	User           ChannelAccount `json:"user"`
	Bot            ChannelAccount `json:"bot"`
}

// NewContinuationActivity creates an outbound message addressed via a stored
// conversation reference, used for proactive (bot-initiated) delivery.
func (r ConversationReference) NewContinuationActivity(text string) *Activity {
	a := NewMessageActivity(r.ConversationID, text)
	a.ServiceURL = r.ServiceURL
	a.ChannelID = r.ChannelID
	a.From = r.Bot
	a.Recipient = r.User
	return a
}
