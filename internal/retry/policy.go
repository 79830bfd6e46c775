package retry

import (
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/h0rv/linbridge/internal/apperr"
)

const (
	// DefaultMaxRetries is the number of retries after the first attempt.
	DefaultMaxRetries = 3
	// DefaultMinDelay is the floor of the exponential backoff.
	DefaultMinDelay = time.Second
	// DefaultMaxDelay is the ceiling of the exponential backoff.
	DefaultMaxDelay = 10 * time.Second
)

// Policy describes the retry budget and the wait between attempts.
type Policy struct {
	MaxRetries int
	MinDelay   time.Duration
	MaxDelay   time.Duration
	// Multiplier grows the delay between consecutive attempts.
	Multiplier float64
	// Jitter is the randomization factor applied to each computed delay (0 disables it).
	Jitter float64
}

// DefaultPolicy returns 3 retries with jittered exponential backoff between 1s and 10s.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries: DefaultMaxRetries,
		MinDelay:   DefaultMinDelay,
		MaxDelay:   DefaultMaxDelay,
		Multiplier: 2,
		Jitter:     0.5,
	}
}

// Attempts returns the total number of attempts, first one included.
func (p Policy) Attempts() int {
	if p.MaxRetries < 0 {
		return 1
	}
	return p.MaxRetries + 1
}

// newBackOff builds a fresh exponential schedule for one execution.
func (p Policy) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.MinDelay
	b.MaxInterval = p.MaxDelay
	b.Multiplier = p.Multiplier
	b.RandomizationFactor = p.Jitter
	// The attempt budget bounds the schedule, not elapsed time
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// clamp keeps a jittered delay inside [MinDelay, MaxDelay].
func (p Policy) clamp(d time.Duration) time.Duration {
	if d < p.MinDelay {
		return p.MinDelay
	}
	if p.MaxDelay > 0 && d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

// Delay returns how long to wait before the next attempt after err.
// A server-provided retry-after hint replaces the computed backoff.
func (p Policy) Delay(err error, computed time.Duration) time.Duration {
	if wait, ok := apperr.RetryAfterHint(err); ok {
		return wait
	}
	return p.clamp(computed)
}
