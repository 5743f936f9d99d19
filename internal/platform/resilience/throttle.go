package resilience

import (
	"context"

	"golang.org/x/time/rate"
)

// Throttle paces outbound requests to a provider quota expressed in
// requests per minute. A nil Throttle never waits.
type Throttle struct {
	limiter *rate.Limiter
}

// NewThrottle returns nil when requestsPerMinute is not positive.
func NewThrottle(requestsPerMinute int) *Throttle {
	if requestsPerMinute <= 0 {
		return nil
	}
	return &Throttle{
		limiter: rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), 1),
	}
}

func (t *Throttle) Wait(ctx context.Context) error {
	if t == nil {
		return nil
	}
	return t.limiter.Wait(ctx)
}
