package coverage

import (
	"sync"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"
)

func TestLocks_SerializeSameKey(t *testing.T) {
	locks := NewLocks()

	var (
		mu      sync.Mutex
		inside  int
		maxSeen int
	)

	var g errgroup.Group
	for i := 0; i < 20; i++ {
		g.Go(func() error {
			unlock := locks.Lock(42)
			defer unlock()

			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	if maxSeen != 1 {
		t.Errorf("expected at most 1 holder at a time, saw %d", maxSeen)
	}
	if locks.Len() != 0 {
		t.Errorf("expected lock table to be empty, has %d entries", locks.Len())
	}
}

func TestLocks_DifferentKeysDoNotBlock(t *testing.T) {
	locks := NewLocks()

	unlockA := locks.Lock(1)
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := locks.Lock(2)
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on a different policy blocked")
	}

	if locks.Len() != 1 {
		t.Errorf("expected 1 entry while policy 1 is held, got %d", locks.Len())
	}
}
