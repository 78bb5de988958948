package history

import (
	"sync"

	"github.com/hupe1980/skillhost/internal/util"
)

// DefaultBound is the per-user entry limit applied when none is configured.
const DefaultBound = 10

// Options configures a Cache.
type Options struct {
	// Bound is the maximum number of entries retained per user.
	Bound int
	// Policy selects the entry to evict when a user is at the bound.
	Policy ReplacementPolicy
}

// Cache is a bounded, per-user ordered collection of recent turns. Mutations
// for the same user are serialized through a per-key lock, so retried turns
// arriving out of order cannot interleave an evict with an append. Distinct
// users do not contend beyond the short map access. Reads copy out of the
// locked region; callers never observe a torn slice.
type Cache struct {
	bound  int
	policy ReplacementPolicy

	userLocks *util.KeyMutex

	mu      sync.RWMutex
	entries map[string][]Entry
}

// NewCache creates a cache with the given options. Unset fields fall back to
// DefaultBound and the FIFO policy.
func NewCache(optFns ...func(o *Options)) *Cache {
	opts := Options{
		Bound:  DefaultBound,
		Policy: FIFO{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Cache{
		bound:     opts.Bound,
		policy:    opts.Policy,
		userLocks: util.NewKeyMutex(),
		entries:   make(map[string][]Entry),
	}
}

// Append records a turn for the user. If the user is at the bound the
// configured policy chooses one entry to remove first; the collection never
// exceeds the bound after any call.
func (c *Cache) Append(userID string, entry Entry) {
	c.userLocks.Lock(userID)
	defer c.userLocks.Unlock(userID)

	entries := c.snapshot(userID)
	if len(entries) >= c.bound {
		idx := c.policy.Evict(entries)
		entries = append(entries[:idx], entries[idx+1:]...)
	}
	entries = append(entries, entry)

	c.mu.Lock()
	c.entries[userID] = entries
	c.mu.Unlock()
}

// Recent returns the last min(n, len) entries for the user in insertion
// order. n at or below zero yields an empty slice. The returned slice is a
// copy; it is safe to retain and iterate while other turns append.
func (c *Cache) Recent(userID string, n int) []Entry {
	entries := c.snapshot(userID)
	if n < 0 {
		n = 0
	}
	if n > len(entries) {
		n = len(entries)
	}
	return entries[len(entries)-n:]
}

// Len returns the number of entries currently held for the user.
func (c *Cache) Len(userID string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries[userID])
}

// Clear drops all history for the user, used on explicit session reset.
func (c *Cache) Clear(userID string) {
	c.userLocks.Lock(userID)
	defer c.userLocks.Unlock(userID)

	c.mu.Lock()
	delete(c.entries, userID)
	c.mu.Unlock()
}

// snapshot returns a defensive copy of the user's entries.
func (c *Cache) snapshot(userID string) []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entries := make([]Entry, len(c.entries[userID]))
	copy(entries, c.entries[userID])
	return entries
}
