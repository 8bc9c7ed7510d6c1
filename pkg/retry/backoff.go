package retry

import (
	"math/rand"
	"time"
)

// staleRetryDelay is the fixed fast-path wait after a stale-element
// failure. Staleness typically self-resolves right after the DOM swap, so
// full backoff would only slow the run down.
const staleRetryDelay = 100 * time.Millisecond

// jitterFraction bounds the random addition to a computed delay.
const jitterFraction = 0.2

// BackoffPolicy computes the wait before the next attempt. One policy is
// built per RetryAction call from the call's options; it is not safe for
// concurrent use, matching the engine's strictly sequential attempts.
type BackoffPolicy struct {
	base        time.Duration
	exponential bool
	jitter      bool
	maxAttempts int
	rng         *rand.Rand
}

// NewBackoffPolicy builds a policy from the call options. rng supplies the
// jitter randomness; the engine passes its own seeded source so tests can
// pin it.
func NewBackoffPolicy(opts Options, rng *rand.Rand) *BackoffPolicy {
	return &BackoffPolicy{
		base:        opts.baseDelay,
		exponential: opts.exponential,
		jitter:      opts.jitter,
		maxAttempts: opts.maxAttempts,
		rng:         rng,
	}
}

// Delay returns the wait to apply after the given attempt number (1-based).
// Fixed mode always returns the base delay; exponential mode returns
// base * 2^(attempt-1), so the first retry waits exactly the base. Jitter
// adds a uniformly random extra of up to 20% of the computed delay.
func (p *BackoffPolicy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	d := p.base
	if p.exponential {
		d = p.base << uint(attempt-1)
	}

	if p.jitter {
		d += time.Duration(p.rng.Float64() * jitterFraction * float64(d))
	}
	return d
}

// StaleDelay returns the fixed fast-path wait applied after a stale
// failure, independent of the backoff mode.
func (p *BackoffPolicy) StaleDelay() time.Duration {
	return staleRetryDelay
}

// MaxAttempts returns the attempt ceiling the policy enforces.
func (p *BackoffPolicy) MaxAttempts() int {
	return p.maxAttempts
}
