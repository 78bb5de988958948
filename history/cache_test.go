package history

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func utterances(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Utterance
	}
	return out
}

func TestCache_FIFOEvictionAtBound(t *testing.T) {
	c := NewCache(func(o *Options) {
		o.Bound = 3
		o.Policy = FIFO{}
	})

	for i, utterance := range []string{"A", "B", "C", "D"} {
		c.Append("user-1", Entry{Utterance: utterance, Timestamp: time.Unix(int64(i), 0)})
		assert.LessOrEqual(t, c.Len("user-1"), 3, "bound must hold after every append")
	}

	assert.Equal(t, []string{"B", "C", "D"}, utterances(c.Recent("user-1", 3)))
}

func TestCache_LRUEvictsSmallestTimestamp(t *testing.T) {
	c := NewCache(func(o *Options) {
		o.Bound = 3
		o.Policy = LRU{}
	})

	c.Append("user-1", Entry{Utterance: "A", Timestamp: time.Unix(1, 0)})
	c.Append("user-1", Entry{Utterance: "B", Timestamp: time.Unix(3, 0)})
	c.Append("user-1", Entry{Utterance: "C", Timestamp: time.Unix(2, 0)})
	c.Append("user-1", Entry{Utterance: "D", Timestamp: time.Unix(4, 0)})

	// A carries the smallest timestamp so it is the one replaced.
	assert.Equal(t, []string{"B", "C", "D"}, utterances(c.Recent("user-1", 3)))
}

func TestCache_RecentClampsAndCopies(t *testing.T) {
	c := NewCache(func(o *Options) { o.Bound = 5 })
	c.Append("user-1", Entry{Utterance: "A"})
	c.Append("user-1", Entry{Utterance: "B"})

	assert.Equal(t, []string{"A", "B"}, utterances(c.Recent("user-1", 10)))
	assert.Equal(t, []string{"B"}, utterances(c.Recent("user-1", 1)))
	assert.Empty(t, c.Recent("user-1", 0))
	assert.Empty(t, c.Recent("user-1", -3))
	assert.Empty(t, c.Recent("unknown", 3))

	got := c.Recent("user-1", 2)
	got[0].Utterance = "mutated"
	assert.Equal(t, "A", c.Recent("user-1", 2)[0].Utterance, "Recent must return a copy")
}

func TestCache_Clear(t *testing.T) {
	c := NewCache()
	c.Append("user-1", Entry{Utterance: "A"})
	c.Clear("user-1")
	assert.Zero(t, c.Len("user-1"))
}

func TestCache_UsersAreIndependent(t *testing.T) {
	c := NewCache(func(o *Options) { o.Bound = 2 })
	c.Append("u1", Entry{Utterance: "A"})
	c.Append("u2", Entry{Utterance: "X"})
	c.Append("u1", Entry{Utterance: "B"})
	c.Append("u1", Entry{Utterance: "C"})

	assert.Equal(t, []string{"B", "C"}, utterances(c.Recent("u1", 2)))
	assert.Equal(t, []string{"X"}, utterances(c.Recent("u2", 2)))
}

func TestCache_ConcurrentAppendsHoldBound(t *testing.T) {
	const bound = 8
	c := NewCache(func(o *Options) {
		o.Bound = bound
		o.Policy = LRU{}
	})

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				c.Append("user-1", Entry{
					Utterance: fmt.Sprintf("g%d-%d", g, i),
					Timestamp: time.Now(),
				})
				_ = c.Recent("user-1", 3)
			}
		}(g)
	}
	wg.Wait()

	assert.Equal(t, bound, c.Len("user-1"))
}
