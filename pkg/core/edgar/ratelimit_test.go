package edgar

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestRateLimiterCapsConcurrency(t *testing.T) {
	const limit = 3
	limiter := NewRateLimiter(limit)

	var inFlight, maxSeen atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := limiter.Acquire(context.Background()); err != nil {
				t.Errorf("Acquire: %v", err)
				return
			}
			defer limiter.Release()

			n := inFlight.Add(1)
			for {
				m := maxSeen.Load()
				if n <= m || maxSeen.CompareAndSwap(m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			inFlight.Add(-1)
		}()
	}
	wg.Wait()

	if maxSeen.Load() > limit {
		t.Errorf("observed %d in flight, cap is %d", maxSeen.Load(), limit)
	}
}

func TestRateLimiterCancelledWaiter(t *testing.T) {
	limiter := NewRateLimiter(1)
	if err := limiter.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- limiter.Acquire(ctx)
	}()

	cancel()
	select {
	case err := <-done:
		if err == nil {
			t.Fatal("cancelled Acquire returned nil")
		}
	case <-time.After(time.Second):
		t.Fatal("cancelled waiter did not return")
	}

	// The cancelled waiter must not have consumed the permit.
	limiter.Release()
	if err := limiter.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
	limiter.Release()
}
