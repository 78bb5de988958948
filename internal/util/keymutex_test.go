package util

import (
	"sync"
	"testing"
)

func TestKeyMutex_SerializesSameKey(t *testing.T) {
	km := NewKeyMutex()

	var active, maxActive int
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			km.Lock("conv-1")
			defer km.Unlock("conv-1")
			mu.Lock()
			active++
			if active > maxActive {
				maxActive = active
			}
			mu.Unlock()
			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()

	if maxActive != 1 {
		t.Fatalf("expected exclusive access per key, saw %d concurrent holders", maxActive)
	}
}

func TestKeyMutex_DropsIdleKeys(t *testing.T) {
	km := NewKeyMutex()
	km.Lock("a")
	km.Unlock("a")
	km.mu.Lock()
	defer km.mu.Unlock()
	if len(km.locks) != 0 {
		t.Fatalf("idle keys should be released, have %d", len(km.locks))
	}
}
