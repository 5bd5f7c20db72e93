package lock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/codr1/Matchpoint/internal/apperr"
)

func TestLocalLocker_MutualExclusion(t *testing.T) {
	locker := NewLocalLocker(Options{WaitTimeout: 5 * time.Second})
	ctx := context.Background()

	var (
		wg       sync.WaitGroup
		inside   int
		maxSeen  int
		counter  int
		counterM sync.Mutex
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Acquire(ctx, MatchKey("m1"))
			if err != nil {
				t.Errorf("acquire: %v", err)
				return
			}
			defer unlock()

			counterM.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			counterM.Unlock()

			time.Sleep(time.Millisecond)
			counter++

			counterM.Lock()
			inside--
			counterM.Unlock()
		}()
	}
	wg.Wait()

	if maxSeen != 1 {
		t.Fatalf("expected at most one holder, saw %d", maxSeen)
	}
	if counter != 20 {
		t.Fatalf("expected 20 increments, got %d", counter)
	}
	if len(locker.entries) != 0 {
		t.Fatalf("expected entries to be released, have %d", len(locker.entries))
	}
}

func TestLocalLocker_TimeoutIsUnavailable(t *testing.T) {
	locker := NewLocalLocker(Options{WaitTimeout: 20 * time.Millisecond})
	ctx := context.Background()

	unlock, err := locker.Acquire(ctx, "k")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer unlock()

	_, err = locker.Acquire(ctx, "k")
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected unavailable kind, got %v", apperr.KindOf(err))
	}
}

func TestLocalLocker_IndependentKeys(t *testing.T) {
	locker := NewLocalLocker(Options{WaitTimeout: 20 * time.Millisecond})
	ctx := context.Background()

	unlockA, err := locker.Acquire(ctx, "a")
	if err != nil {
		t.Fatalf("acquire a: %v", err)
	}
	defer unlockA()

	unlockB, err := locker.Acquire(ctx, "b")
	if err != nil {
		t.Fatalf("acquire b while a is held: %v", err)
	}
	unlockB()
}

func TestLocalLocker_CanceledContext(t *testing.T) {
	locker := NewLocalLocker(Options{WaitTimeout: time.Second})

	unlock, err := locker.Acquire(context.Background(), "k")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer unlock()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := locker.Acquire(ctx, "k"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLocalLocker_UnlockIsIdempotent(t *testing.T) {
	locker := NewLocalLocker(Options{WaitTimeout: 20 * time.Millisecond})
	ctx := context.Background()

	unlock, err := locker.Acquire(ctx, "k")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	unlock()
	unlock()

	again, err := locker.Acquire(ctx, "k")
	if err != nil {
		t.Fatalf("reacquire: %v", err)
	}
	again()
}
