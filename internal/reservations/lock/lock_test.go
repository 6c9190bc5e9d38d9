package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"marquee/pkg/kv"
	"marquee/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: logger.LevelError})
}

func TestAcquireIsExclusive(t *testing.T) {
	ctx := context.Background()
	mgr := NewManager(kv.NewMemoryStore(), time.Minute, testLogger())

	acquired, err := mgr.Acquire(ctx, "A1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !acquired {
		t.Fatal("first acquire should succeed")
	}

	acquired, err = mgr.Acquire(ctx, "A1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if acquired {
		t.Fatal("second acquire on a held lock should fail")
	}

	// A different seat is unaffected.
	acquired, err = mgr.Acquire(ctx, "A2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !acquired {
		t.Fatal("acquire on a different seat should succeed")
	}
}

func TestConcurrentAcquireSingleWinner(t *testing.T) {
	ctx := context.Background()
	mgr := NewManager(kv.NewMemoryStore(), time.Minute, testLogger())

	const n = 50
	var wg sync.WaitGroup
	results := make(chan bool, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			acquired, err := mgr.Acquire(ctx, "A1")
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			results <- acquired
		}()
	}
	wg.Wait()
	close(results)

	winners := 0
	for acquired := range results {
		if acquired {
			winners++
		}
	}
	if winners != 1 {
		t.Errorf("expected exactly 1 winner out of %d concurrent acquires, got %d", n, winners)
	}
}

func TestLeaseExpiryFreesTheLock(t *testing.T) {
	ctx := context.Background()
	mgr := NewManager(kv.NewMemoryStore(), 30*time.Millisecond, testLogger())

	if acquired, _ := mgr.Acquire(ctx, "A1"); !acquired {
		t.Fatal("first acquire should succeed")
	}
	if acquired, _ := mgr.Acquire(ctx, "A1"); acquired {
		t.Fatal("acquire before expiry should fail")
	}

	time.Sleep(50 * time.Millisecond)

	acquired, err := mgr.Acquire(ctx, "A1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !acquired {
		t.Fatal("acquire after lease expiry should succeed without any release")
	}
}

func TestHeldTracksLease(t *testing.T) {
	ctx := context.Background()
	mgr := NewManager(kv.NewMemoryStore(), 30*time.Millisecond, testLogger())

	if held, _ := mgr.Held(ctx, "A1"); held {
		t.Fatal("unlocked seat should not report held")
	}

	if acquired, _ := mgr.Acquire(ctx, "A1"); !acquired {
		t.Fatal("acquire should succeed")
	}
	if held, _ := mgr.Held(ctx, "A1"); !held {
		t.Fatal("locked seat should report held")
	}

	time.Sleep(50 * time.Millisecond)
	if held, _ := mgr.Held(ctx, "A1"); held {
		t.Fatal("expired lease should not report held")
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	ctx := context.Background()
	mgr := NewManager(kv.NewMemoryStore(), time.Minute, testLogger())

	if err := mgr.Release(ctx, "never-locked"); err != nil {
		t.Fatalf("releasing a missing lock should be a no-op, got %v", err)
	}

	if acquired, _ := mgr.Acquire(ctx, "A1"); !acquired {
		t.Fatal("acquire should succeed")
	}
	if err := mgr.Release(ctx, "A1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mgr.Release(ctx, "A1"); err != nil {
		t.Fatalf("double release should be a no-op, got %v", err)
	}

	if acquired, _ := mgr.Acquire(ctx, "A1"); !acquired {
		t.Fatal("acquire after release should succeed")
	}
}
