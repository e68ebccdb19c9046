package worker

import (
	"context"

	"golang.org/x/time/rate"
)

// Throttle paces job submission with a token bucket. Closure solving is
// CPU-bound cubic work, so batch runs on shared hosts can cap how fast
// computations start; a zero rate means unthrottled.
type Throttle struct {
	limiter *rate.Limiter
}

// NewThrottle creates a submission throttle. jobsPerSecond <= 0 disables
// throttling.
func NewThrottle(jobsPerSecond float64, burst int) *Throttle {
	if jobsPerSecond <= 0 {
		return &Throttle{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	if burst <= 0 {
		burst = 1
	}
	return &Throttle{limiter: rate.NewLimiter(rate.Limit(jobsPerSecond), burst)}
}

// Wait blocks until the next job may be submitted
func (t *Throttle) Wait(ctx context.Context) error {
	return t.limiter.Wait(ctx)
}

// Allow checks if a job may be submitted without waiting
func (t *Throttle) Allow() bool {
	return t.limiter.Allow()
}
