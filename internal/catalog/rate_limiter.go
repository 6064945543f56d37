package catalog

import (
	"sync"
	"time"
)

// rateLimiter implements a simple sliding window rate limiter. TMDB allows
// roughly 50 requests per second; we stay well under it.
type rateLimiter struct {
	mu          sync.Mutex
	requests    []time.Time
	maxRequests int
	window      time.Duration
}

func newRateLimiter(maxRequests int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		maxRequests: maxRequests,
		window:      window,
		requests:    make([]time.Time, 0, maxRequests),
	}
}

// wait blocks until a request fits inside the window.
func (r *rateLimiter) wait() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	r.prune(now)

	if len(r.requests) < r.maxRequests {
		r.requests = append(r.requests, now)
		return
	}

	oldest := r.requests[0]
	waitTime := r.window - now.Sub(oldest) + 10*time.Millisecond

	r.mu.Unlock()
	time.Sleep(waitTime)
	r.mu.Lock()

	now = time.Now()
	r.prune(now)
	r.requests = append(r.requests, now)
}

// prune drops requests that fell out of the window. Caller holds the lock.
func (r *rateLimiter) prune(now time.Time) {
	cutoff := now.Add(-r.window)
	valid := make([]time.Time, 0, r.maxRequests)
	for _, req := range r.requests {
		if req.After(cutoff) {
			valid = append(valid, req)
		}
	}
	r.requests = valid
}
