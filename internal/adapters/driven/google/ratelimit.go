package google

import (
	"context"

	"golang.org/x/time/rate"
)

// Conservative limits for Google APIs. The service handles one utterance at a
// time, so the bucket exists to protect quotas against a misbehaving caller,
// not to maximise throughput.
const (
	requestsPerSecond = 5.0
	burstSize         = 10
)

// RateLimiter is a token-bucket limiter shared by the Google API adapters.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a rate limiter with the default Google limits.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burstSize),
	}
}

// Wait blocks until a request can be made without exceeding the limit.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}
