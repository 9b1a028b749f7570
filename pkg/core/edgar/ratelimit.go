package edgar

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// DefaultMaxInFlight is the process-wide cap on concurrent requests
// to the SEC archive. SEC asks automated clients to stay well under
// 10 requests per second.
const DefaultMaxInFlight = 10

// RateLimiter caps the number of in-flight archive requests. It does
// not pace time; it only bounds concurrency. Waiters wake in FIFO
// order. Every Acquire must be paired with a Release once the
// response body has been fully consumed.
type RateLimiter struct {
	sem *semaphore.Weighted
}

// NewRateLimiter creates a limiter allowing maxInFlight concurrent
// requests.
func NewRateLimiter(maxInFlight int64) *RateLimiter {
	return &RateLimiter{sem: semaphore.NewWeighted(maxInFlight)}
}

// Acquire blocks until a permit is available or ctx is cancelled.
// A cancelled waiter gives up its slot without consuming a permit.
func (r *RateLimiter) Acquire(ctx context.Context) error {
	return r.sem.Acquire(ctx, 1)
}

// Release returns a permit to the limiter.
func (r *RateLimiter) Release() {
	r.sem.Release(1)
}

var (
	globalLimiter     *RateLimiter
	globalLimiterOnce sync.Once
	globalMaxInFlight int64 = DefaultMaxInFlight
)

// SetGlobalMaxInFlight overrides the global limiter's cap. Must be
// called before the first archive request; later calls have no
// effect.
func SetGlobalMaxInFlight(n int64) {
	if n > 0 {
		globalMaxInFlight = n
	}
}

// GlobalRateLimiter returns the process-wide limiter shared by every
// outbound archive request.
func GlobalRateLimiter() *RateLimiter {
	globalLimiterOnce.Do(func() {
		globalLimiter = NewRateLimiter(globalMaxInFlight)
	})
	return globalLimiter
}
