package history

import (
	"math/rand"
	"sync"
	"time"
)

// Entry is one recorded conversation turn for a user. Entries are immutable
// once appended.
type Entry struct {
	Utterance string    `json:"utterance"`
	Intent    string    `json:"intent"`
	Timestamp time.Time `json:"timestamp"`
}

// ReplacementPolicy selects which entry to evict when a user's history is at
// its bound. Implementations must not mutate entries and must return an
// index in [0, len(entries)). Policies are parameterized by the entry's
// timestamp directly; no runtime type inspection is involved.
type ReplacementPolicy interface {
	Evict(entries []Entry) int
}

// FIFO evicts the oldest entry by insertion order.
type FIFO struct{}

// Evict always selects index 0: entries are stored in insertion order.
func (FIFO) Evict(entries []Entry) int { return 0 }

// LRU evicts the entry with the smallest timestamp. Ties are broken by
// insertion order, so the scan keeps the first minimum it sees.
type LRU struct{}

// Evict returns the index of the least recently used entry.
func (LRU) Evict(entries []Entry) int {
	idx := 0
	for i := 1; i < len(entries); i++ {
		if entries[i].Timestamp.Before(entries[idx].Timestamp) {
			idx = i
		}
	}
	return idx
}

// Random evicts a uniformly random entry. Safe for concurrent use.
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom creates a Random policy seeded from the current time.
func NewRandom() *Random {
	return &Random{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewRandomWithSeed creates a Random policy with a fixed seed, for tests.
func NewRandomWithSeed(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

// Evict returns a uniformly random index.
func (r *Random) Evict(entries []Entry) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(len(entries))
}
