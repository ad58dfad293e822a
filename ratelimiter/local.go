package ratelimiter

import (
	"context"
	"fmt"
	"math"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter is an in-memory Limiter with separate budgets for tokens and
// requests, both replenished continuously over a minute.
type RateLimiter struct {
	tokens   *rate.Limiter
	requests *rate.Limiter
}

// Ensure RateLimiter implements Limiter.
var _ Limiter = (*RateLimiter)(nil)

// RateLimits mirrors the refgen.RateLimits type to avoid circular imports.
type RateLimits struct {
	TokensPerMinute   int
	RequestsPerMinute int
	TokensPerDay      int
}

// New creates a RateLimiter. A zero or negative value disables that budget.
func New(tokensPerMinute, requestsPerMinute int) *RateLimiter {
	return &RateLimiter{
		tokens:   perMinute(tokensPerMinute),
		requests: perMinute(requestsPerMinute),
	}
}

// NewFromLimits creates a RateLimiter from a RateLimits configuration.
// TokensPerDay is not enforced.
func NewFromLimits(limits *RateLimits) *RateLimiter {
	return New(limits.TokensPerMinute, limits.RequestsPerMinute)
}

func perMinute(n int) *rate.Limiter {
	if n <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(float64(n)/60.0), n)
}

// TryConsume atomically checks capacity and consumes tokens if available.
// One request is consumed along with the tokens.
func (rl *RateLimiter) TryConsume(numTokens int) bool {
	now := time.Now()

	tr := rl.tokens.ReserveN(now, numTokens)
	if !tr.OK() {
		return false
	}
	if tr.DelayFrom(now) > 0 {
		tr.CancelAt(now)
		return false
	}

	rr := rl.requests.ReserveN(now, 1)
	if !rr.OK() || rr.DelayFrom(now) > 0 {
		rr.CancelAt(now)
		tr.CancelAt(now)
		return false
	}
	return true
}

// TimeUntilAvailable returns how long until the specified tokens (and one
// request) would be available. It does not modify state.
// A request larger than the per-minute budget can never be served and
// returns rate.InfDuration.
func (rl *RateLimiter) TimeUntilAvailable(tokens int) time.Duration {
	now := time.Now()
	return max(waitFor(rl.tokens, now, tokens), waitFor(rl.requests, now, 1))
}

func waitFor(l *rate.Limiter, now time.Time, n int) time.Duration {
	if l.Limit() == rate.Inf {
		return 0
	}
	if n > l.Burst() {
		return rate.InfDuration
	}
	missing := float64(n) - l.TokensAt(now)
	if missing <= 0 {
		return 0
	}
	seconds := missing / float64(l.Limit())
	return time.Duration(math.Ceil(seconds * float64(time.Second)))
}

// WaitAndConsume waits until tokens are available (up to maxWait), then consumes them.
// If maxWait is 0, there is no limit on how long to wait.
// Returns an error if the context is cancelled or maxWait is exceeded.
func (rl *RateLimiter) WaitAndConsume(ctx context.Context, tokens int, maxWait time.Duration) error {
	now := time.Now()

	tr := rl.tokens.ReserveN(now, tokens)
	if !tr.OK() {
		return fmt.Errorf("request of %d tokens exceeds the per-minute budget of %d", tokens, rl.tokens.Burst())
	}
	rr := rl.requests.ReserveN(now, 1)
	if !rr.OK() {
		tr.CancelAt(now)
		return fmt.Errorf("request budget is zero")
	}

	waitDuration := max(tr.DelayFrom(now), rr.DelayFrom(now))
	if waitDuration == 0 {
		return nil
	}

	if maxWait > 0 && waitDuration > maxWait {
		tr.CancelAt(now)
		rr.CancelAt(now)
		return fmt.Errorf("rate limit wait time %v exceeds max wait %v", waitDuration, maxWait)
	}

	timer := time.NewTimer(waitDuration)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		tr.Cancel()
		rr.Cancel()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
