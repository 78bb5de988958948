package proactive

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/skillhost/core"
)

// ErrNotFound is returned when no record exists for the user.
var ErrNotFound = errors.New("proactive record not found")

// Hash computes the one-way, deterministic, fixed-length digest under which
// user identities are stored. It is a pure function and safe for concurrent
// callers.
func Hash(rawUserID string) string {
	sum := sha256.Sum256([]byte(rawUserID))
	return hex.EncodeToString(sum[:])
}

// Record is the stored address-book entry for one hashed user identity. A
// record is always written whole; partial updates do not exist.
type Record struct {
	HashedUserID string                     `json:"hashed_user_id"`
	Reference    core.ConversationReference `json:"conversation_reference"`
	LastUpdated  time.Time                  `json:"last_updated"`
}

// AddressBook persists the latest reachable conversation endpoint per user.
// Writes are last-writer-wins: every Record call replaces the whole entry,
// so racing turns for the same user resolve to one self-consistent record.
type AddressBook struct {
	storage core.Storage
	prefix  string
	now     func() time.Time
}

// AddressBookOptions configures an AddressBook.
type AddressBookOptions struct {
	// KeyPrefix namespaces address-book keys within the shared storage.
	KeyPrefix string
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// NewAddressBook creates an address book over the given storage.
func NewAddressBook(storage core.Storage, optFns ...func(o *AddressBookOptions)) *AddressBook {
	opts := AddressBookOptions{
		KeyPrefix: "proactive:",
		Now:       time.Now,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &AddressBook{storage: storage, prefix: opts.KeyPrefix, now: opts.Now}
}

// RecordActivity captures the sender's conversation reference from an
// inbound activity. Only activities authored by a user are recorded; bot
// traffic must not overwrite a real user's route.
func (b *AddressBook) RecordActivity(ctx context.Context, activity *core.Activity) error {
	if activity.From.Role != core.RoleUser {
		return nil
	}
	return b.Record(ctx, activity.From.ID, activity.Reference())
}

// Record unconditionally overwrites the entry for the raw user identity with
// the given reference and a fresh timestamp. The identity is stored only as
// its digest.
func (b *AddressBook) Record(ctx context.Context, rawUserID string, ref core.ConversationReference) error {
	hashed := Hash(rawUserID)
	record := Record{
		HashedUserID: hashed,
		Reference:    ref,
		LastUpdated:  b.now().UTC(),
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode proactive record: %w", err)
	}
	return b.storage.Set(ctx, b.prefix+hashed, data)
}

// Resolve returns the stored record for a raw user identity.
func (b *AddressBook) Resolve(ctx context.Context, rawUserID string) (*Record, error) {
	return b.ResolveHashed(ctx, Hash(rawUserID))
}

// ResolveHashed returns the stored record for an already-hashed identity,
// for callers that only ever held the digest.
func (b *AddressBook) ResolveHashed(ctx context.Context, hashedUserID string) (*Record, error) {
	data, ok, err := b.storage.Get(ctx, b.prefix+hashedUserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, hashedUserID)
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decode proactive record: %w", err)
	}
	return &record, nil
}

// Forget removes the entry for a raw user identity, for data-deletion
// requests.
func (b *AddressBook) Forget(ctx context.Context, rawUserID string) error {
	return b.storage.Delete(ctx, b.prefix+Hash(rawUserID))
}
