package testutil

import (
	"github.com/hupe1980/skillhost/core"
)

// ActivityBuilder provides a fluent helper for constructing activities in tests.
// Example:
//
//	a := NewActivityBuilder().Conversation("conv-1").UserText("u-1", "hello").Build()
//
// Chain only the parts you need; sensible defaults are applied.
type ActivityBuilder struct {
	activityType   core.ActivityType
	id             string
	conversationID string
	serviceURL     string
	channelID      string
	from           core.ChannelAccount
	recipient      core.ChannelAccount
	text           string
	code           string
}

// NewActivityBuilder creates a builder with default type message.
func NewActivityBuilder() *ActivityBuilder {
	return &ActivityBuilder{activityType: core.ActivityMessage}
}

// Type overrides the activity type (chainable).
func (b *ActivityBuilder) Type(t core.ActivityType) *ActivityBuilder { b.activityType = t; return b }

// ID overrides the auto-generated activity ID (chainable). Use mainly in tests where determinism matters.
func (b *ActivityBuilder) ID(id string) *ActivityBuilder { b.id = id; return b }

// Conversation sets the conversation ID (chainable).
func (b *ActivityBuilder) Conversation(id string) *ActivityBuilder { b.conversationID = id; return b }

// ServiceURL sets the channel callback endpoint (chainable).
func (b *ActivityBuilder) ServiceURL(url string) *ActivityBuilder { b.serviceURL = url; return b }

// Channel sets the channel ID the activity arrived on (chainable).
func (b *ActivityBuilder) Channel(id string) *ActivityBuilder { b.channelID = id; return b }

// UserText sets the text and marks the sender as a user (chainable).
func (b *ActivityBuilder) UserText(userID, text string) *ActivityBuilder {
	b.from = core.ChannelAccount{ID: userID, Role: core.RoleUser}
	b.text = text
	return b
}

// BotText sets the text and marks the sender as a bot (chainable).
func (b *ActivityBuilder) BotText(botID, text string) *ActivityBuilder {
	b.from = core.ChannelAccount{ID: botID, Role: core.RoleBot}
	b.text = text
	return b
}

// Recipient sets the receiving account (chainable).
func (b *ActivityBuilder) Recipient(account core.ChannelAccount) *ActivityBuilder {
	b.recipient = account
	return b
}

// EndOfConversation switches the activity to the completion signal with the
// given code; empty means clean completion (chainable).
func (b *ActivityBuilder) EndOfConversation(code string) *ActivityBuilder {
	b.activityType = core.ActivityEndOfConversation
	b.code = code
	return b
}

// Build assembles the activity.
func (b *ActivityBuilder) Build() *core.Activity {
	a := core.NewActivity(b.activityType)
	if b.id != "" {
		a.ID = b.id
	}
	a.ConversationID = b.conversationID
	a.ServiceURL = b.serviceURL
	a.ChannelID = b.channelID
	a.From = b.from
	a.Recipient = b.recipient
	a.Text = b.text
	a.Code = b.code
	return a
}
