package providers

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a token bucket sized to one second of requests.
// A 429 with Retry-After pauses all callers until the window passes.
type RateLimiter struct {
	mu sync.Mutex

	rps   float64
	burst float64

	tokens     float64
	lastUpdate time.Time
	pauseUntil time.Time

	totalConsumed int64
	totalWaited   time.Duration
	last429Time   time.Time
}

// RateLimiterStatus reports current limiter state.
type RateLimiterStatus struct {
	RequestsPerSecond float64       `json:"requests_per_second"`
	TokensAvailable   int           `json:"tokens_available"`
	TotalConsumed     int64         `json:"total_consumed"`
	TotalWaited       time.Duration `json:"total_waited"`
	PausedFor         time.Duration `json:"paused_for,omitempty"`
	Last429Time       time.Time     `json:"last_429_time,omitempty"`
}

// NewRateLimiter creates a limiter allowing rps requests per second.
func NewRateLimiter(rps float64) *RateLimiter {
	if rps <= 0 {
		rps = 1
	}
	burst := rps
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		rps:        rps,
		burst:      burst,
		tokens:     burst,
		lastUpdate: time.Now(),
	}
}

// Wait blocks until a token is available or ctx is cancelled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		r.mu.Lock()
		now := time.Now()
		r.refill(now)

		var wait time.Duration
		switch {
		case now.Before(r.pauseUntil):
			wait = r.pauseUntil.Sub(now)
		case r.tokens >= 1:
			r.tokens--
			r.totalConsumed++
			r.mu.Unlock()
			return nil
		default:
			wait = time.Duration((1 - r.tokens) / r.rps * float64(time.Second))
		}
		r.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			r.mu.Lock()
			r.totalWaited += wait
			r.mu.Unlock()
		}
	}
}

// TryConsume takes a token without blocking.
func (r *RateLimiter) TryConsume() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	r.refill(now)
	if now.Before(r.pauseUntil) || r.tokens < 1 {
		return false
	}
	r.tokens--
	r.totalConsumed++
	return true
}

// Record429 drains the bucket and, when retryAfter is set, pauses until it elapses.
func (r *RateLimiter) Record429(retryAfter time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	r.last429Time = now
	r.tokens = 0
	if retryAfter > 0 {
		if until := now.Add(retryAfter); until.After(r.pauseUntil) {
			r.pauseUntil = until
		}
	}
}

// Status returns current limiter status.
func (r *RateLimiter) Status() RateLimiterStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	r.refill(now)

	var paused time.Duration
	if now.Before(r.pauseUntil) {
		paused = r.pauseUntil.Sub(now)
	}
	return RateLimiterStatus{
		RequestsPerSecond: r.rps,
		TokensAvailable:   int(r.tokens),
		TotalConsumed:     r.totalConsumed,
		TotalWaited:       r.totalWaited,
		PausedFor:         paused,
		Last429Time:       r.last429Time,
	}
}

// refill must be called with the lock held.
func (r *RateLimiter) refill(now time.Time) {
	elapsed := now.Sub(r.lastUpdate).Seconds()
	r.lastUpdate = now
	r.tokens += elapsed * r.rps
	if r.tokens > r.burst {
		r.tokens = r.burst
	}
}
