package weather

import (
	"math/rand/v2"
	"time"
)

// RetryConfig controls the client's in-request retry behavior for transient
// failures. Exponential backoff with optional full jitter keeps concurrent
// workers from retrying in lockstep.
type RetryConfig struct {
	MaxAttempts     int           // total attempts including the first (0 = default)
	InitialInterval time.Duration // starting backoff duration
	MaxInterval     time.Duration // backoff cap
	Multiplier      float64       // exponential growth factor
	UseJitter       bool          // full jitter randomization
}

// withDefaults fills unset fields with conservative defaults.
func (r RetryConfig) withDefaults() RetryConfig {
	if r.MaxAttempts <= 0 {
		r.MaxAttempts = 3
	}
	if r.InitialInterval <= 0 {
		r.InitialInterval = 500 * time.Millisecond
	}
	if r.MaxInterval <= 0 {
		r.MaxInterval = 10 * time.Second
	}
	if r.Multiplier < 1.0 {
		r.Multiplier = 2.0
	}
	return r
}

// backoffFor computes the delay before the given attempt (attempt >= 2).
// With jitter enabled the delay is drawn uniformly from [0, backoff].
func (r RetryConfig) backoffFor(attempt int) time.Duration {
	backoff := r.InitialInterval
	for i := 2; i < attempt; i++ {
		backoff = time.Duration(float64(backoff) * r.Multiplier)
		if backoff > r.MaxInterval {
			backoff = r.MaxInterval
			break
		}
	}

	if r.UseJitter {
		jitterMs := rand.Int64N(backoff.Milliseconds() + 1) // #nosec G404 -- non-cryptographic jitter
		return time.Duration(jitterMs) * time.Millisecond
	}
	return backoff
}
