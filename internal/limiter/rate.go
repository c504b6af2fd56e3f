package limiter

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter lets through at most maxRequests per second, bursting up to maxRequests.
type RateLimiter struct {
	limiter *rate.Limiter
}

func NewRateLimiter(maxRequests int) *RateLimiter {
	if maxRequests < 1 {
		maxRequests = 1
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Every(time.Second/time.Duration(maxRequests)), maxRequests),
	}
}

// Allow takes a token if one is available.
func (r *RateLimiter) Allow() bool {
	return r.limiter.Allow()
}

// Wait blocks until a token is available or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}
