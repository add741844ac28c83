package api

import (
	"math"

	"golang.org/x/time/rate"
)

// newLimiter returns a token bucket allowing rps requests per second, or nil
// when rps is not positive. A non-positive burst is derived from rps.
func newLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = int(math.Max(1, math.Ceil(rps)))
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}
