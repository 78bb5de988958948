package history

import (
	"testing"
	"time"
)

func entriesAt(times ...int64) []Entry {
	out := make([]Entry, len(times))
	for i, ts := range times {
		out[i] = Entry{Utterance: string(rune('A' + i)), Timestamp: time.Unix(ts, 0)}
	}
	return out
}

func TestFIFO_AlwaysEvictsOldestInsertion(t *testing.T) {
	entries := entriesAt(5, 1, 3)
	if got := (FIFO{}).Evict(entries); got != 0 {
		t.Fatalf("FIFO must evict index 0, got %d", got)
	}
}

func TestLRU_EvictsSmallestTimestamp(t *testing.T) {
	entries := entriesAt(1, 3, 2)
	if got := (LRU{}).Evict(entries); got != 0 {
		t.Fatalf("expected index 0 (t=1), got %d", got)
	}

	entries = entriesAt(4, 2, 9)
	if got := (LRU{}).Evict(entries); got != 1 {
		t.Fatalf("expected index 1 (t=2), got %d", got)
	}
}

func TestLRU_TiesBreakByInsertionOrder(t *testing.T) {
	entries := entriesAt(2, 2, 2)
	if got := (LRU{}).Evict(entries); got != 0 {
		t.Fatalf("ties must keep the first minimum, got %d", got)
	}
}

func TestRandom_StaysInRange(t *testing.T) {
	policy := NewRandomWithSeed(42)
	entries := entriesAt(1, 2, 3, 4, 5)
	for i := 0; i < 100; i++ {
		idx := policy.Evict(entries)
		if idx < 0 || idx >= len(entries) {
			t.Fatalf("index out of range: %d", idx)
		}
	}
}

func TestPolicies_DoNotMutateEntries(t *testing.T) {
	entries := entriesAt(3, 1, 2)
	want := make([]Entry, len(entries))
	copy(want, entries)

	_ = (FIFO{}).Evict(entries)
	_ = (LRU{}).Evict(entries)
	_ = NewRandomWithSeed(1).Evict(entries)

	for i := range want {
		if entries[i] != want[i] {
			t.Fatalf("entry %d mutated: %+v != %+v", i, entries[i], want[i])
		}
	}
}
