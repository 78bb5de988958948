package proactive

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/skillhost/core"
	"github.com/hupe1980/skillhost/storage"
)

func testReference(conversationID string) core.ConversationReference {
	return core.ConversationReference{
		ConversationID: conversationID,
		ServiceURL:     "https://channel.example",
		User:           core.ChannelAccount{ID: "user-1", Role: core.RoleUser},
		Bot:            core.ChannelAccount{ID: "bot-1", Role: core.RoleBot},
	}
}

func TestHash_DeterministicAndOpaque(t *testing.T) {
	h := Hash("user-1")
	assert.Equal(t, h, Hash("user-1"))
	assert.NotEqual(t, "user-1", h, "raw identity must never be the stored key")
	assert.Len(t, h, 64, "fixed-length digest")
	assert.NotEqual(t, h, Hash("user-2"))
}

func TestAddressBook_RecordThenResolve(t *testing.T) {
	ctx := context.Background()
	book := NewAddressBook(storage.NewInMemoryStore())

	require.NoError(t, book.Record(ctx, "user-1", testReference("conv-1")))

	record, err := book.Resolve(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "conv-1", record.Reference.ConversationID)
	assert.Equal(t, Hash("user-1"), record.HashedUserID)
	assert.False(t, record.LastUpdated.IsZero())
}

func TestAddressBook_OverwritesWithLatestRoute(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1000, 0)
	book := NewAddressBook(storage.NewInMemoryStore(), func(o *AddressBookOptions) {
		o.Now = func() time.Time { return now }
	})

	require.NoError(t, book.Record(ctx, "user-1", testReference("conv-old")))
	now = time.Unix(2000, 0)
	require.NoError(t, book.Record(ctx, "user-1", testReference("conv-new")))

	record, err := book.Resolve(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "conv-new", record.Reference.ConversationID)
	assert.Equal(t, time.Unix(2000, 0).UTC(), record.LastUpdated)
}

func TestAddressBook_RecordActivitySkipsBots(t *testing.T) {
	ctx := context.Background()
	book := NewAddressBook(storage.NewInMemoryStore())

	user := core.NewUserMessageActivity("conv-1", "user-1", "hi")
	user.ServiceURL = "https://channel.example"
	require.NoError(t, book.RecordActivity(ctx, user))

	// A bot reply in the same conversation must not overwrite the route.
	bot := user.CreateReply("hello")
	bot.ConversationID = "conv-bot"
	require.NoError(t, book.RecordActivity(ctx, bot))

	record, err := book.Resolve(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "conv-1", record.Reference.ConversationID)
}

func TestAddressBook_ResolveUnknownUser(t *testing.T) {
	book := NewAddressBook(storage.NewInMemoryStore())

	_, err := book.Resolve(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddressBook_Forget(t *testing.T) {
	ctx := context.Background()
	book := NewAddressBook(storage.NewInMemoryStore())

	require.NoError(t, book.Record(ctx, "user-1", testReference("conv-1")))
	require.NoError(t, book.Forget(ctx, "user-1"))

	_, err := book.Resolve(ctx, "user-1")
	assert.ErrorIs(t, err, ErrNotFound)
}
