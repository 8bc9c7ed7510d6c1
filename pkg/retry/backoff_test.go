package retry

import (
	"math/rand"
	"testing"
	"time"
)

func TestBackoffExponentialWithoutJitter(t *testing.T) {
	opts := NewOptionsBuilder().
		BaseDelay(500 * time.Millisecond).
		Jitter(false).
		Build()
	policy := NewBackoffPolicy(opts, rand.New(rand.NewSource(1)))

	want := []time.Duration{
		500 * time.Millisecond,
		1000 * time.Millisecond,
		2000 * time.Millisecond,
		4000 * time.Millisecond,
		8000 * time.Millisecond,
	}
	for attempt := 1; attempt <= len(want); attempt++ {
		if got := policy.Delay(attempt); got != want[attempt-1] {
			t.Errorf("Delay(%d) = %v, want %v", attempt, got, want[attempt-1])
		}
	}
}

func TestBackoffFixedMode(t *testing.T) {
	opts := NewOptionsBuilder().
		BaseDelay(250 * time.Millisecond).
		ExponentialBackoff(false).
		Jitter(false).
		Build()
	policy := NewBackoffPolicy(opts, rand.New(rand.NewSource(1)))

	for attempt := 1; attempt <= 5; attempt++ {
		if got := policy.Delay(attempt); got != 250*time.Millisecond {
			t.Errorf("Delay(%d) = %v, want 250ms", attempt, got)
		}
	}
}

func TestBackoffJitterStaysWithinBound(t *testing.T) {
	base := 500 * time.Millisecond
	opts := NewOptionsBuilder().BaseDelay(base).Build()
	policy := NewBackoffPolicy(opts, rand.New(rand.NewSource(42)))

	for attempt := 1; attempt <= 6; attempt++ {
		lo := base << uint(attempt-1)
		hi := lo + time.Duration(jitterFraction*float64(lo))

		// Jitter is uniform; sample repeatedly to exercise the range.
		for i := 0; i < 100; i++ {
			got := policy.Delay(attempt)
			if got < lo || got > hi {
				t.Fatalf("Delay(%d) = %v outside [%v, %v]", attempt, got, lo, hi)
			}
		}
	}
}

func TestBackoffFirstExponentialDelayEqualsBase(t *testing.T) {
	opts := NewOptionsBuilder().
		BaseDelay(300 * time.Millisecond).
		Jitter(false).
		Build()
	policy := NewBackoffPolicy(opts, rand.New(rand.NewSource(1)))

	if got := policy.Delay(1); got != 300*time.Millisecond {
		t.Errorf("Delay(1) = %v, want the base delay", got)
	}
}

func TestBackoffStaleDelayIgnoresMode(t *testing.T) {
	for _, exponential := range []bool{true, false} {
		opts := NewOptionsBuilder().
			BaseDelay(2 * time.Second).
			ExponentialBackoff(exponential).
			Build()
		policy := NewBackoffPolicy(opts, rand.New(rand.NewSource(1)))

		if got := policy.StaleDelay(); got != staleRetryDelay {
			t.Errorf("StaleDelay() = %v with exponential=%v, want %v", got, exponential, staleRetryDelay)
		}
	}
}

func TestBackoffMaxAttemptsDefault(t *testing.T) {
	policy := NewBackoffPolicy(NoOptions(), rand.New(rand.NewSource(1)))
	if got := policy.MaxAttempts(); got != DefaultMaxAttempts {
		t.Errorf("MaxAttempts() = %d, want %d", got, DefaultMaxAttempts)
	}
}
