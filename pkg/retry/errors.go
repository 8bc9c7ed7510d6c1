package retry

import (
	"errors"
	"fmt"
)

// FailureKind classifies why an attempt (or the whole call) failed. Only
// the first three kinds are retryable; FailureUnexpected aborts the call
// immediately because it indicates a programming or environment error, not
// transient UI state.
type FailureKind int

const (
	// FailureNotInteractable means the element exists but refused the
	// interaction (covered by another node, disabled mid-flight, off
	// screen). Retried, with a fallback attempt for click and input kinds.
	FailureNotInteractable FailureKind = iota

	// FailureStale means a previously resolved node was replaced in the
	// DOM. Retried on a short fixed delay since staleness self-resolves
	// quickly after replacement.
	FailureStale

	// FailureTimedOut means the readiness condition or a validation did
	// not hold within the wait budget. Retried with full backoff.
	FailureTimedOut

	// FailureUnexpected covers everything else. Fatal, never retried.
	FailureUnexpected
)

// String returns the kind's name for log events and error messages.
func (k FailureKind) String() string {
	switch k {
	case FailureNotInteractable:
		return "not-interactable"
	case FailureStale:
		return "stale"
	case FailureTimedOut:
		return "timed-out"
	}
	return "unexpected"
}

// Sentinel error classes. Driver implementations wrap these around the
// underlying driver error so the engine can classify with errors.Is while
// the root cause stays available through Unwrap.
var (
	// ErrNotInteractable marks element-not-interactable driver failures.
	ErrNotInteractable = errors.New("element not interactable")

	// ErrStale marks stale-element driver failures.
	ErrStale = errors.New("stale element reference")

	// ErrTimedOut marks an exhausted wait budget.
	ErrTimedOut = errors.New("timed out waiting for condition")

	// errFallbackInapplicable signals that no fallback exists for the
	// action kind. It is a control-flow marker, not a caller-visible error.
	errFallbackInapplicable = errors.New("fallback not applicable")
)

// Classify maps an error to its failure kind.
func Classify(err error) FailureKind {
	switch {
	case errors.Is(err, ErrNotInteractable):
		return FailureNotInteractable
	case errors.Is(err, ErrStale):
		return FailureStale
	case errors.Is(err, ErrTimedOut):
		return FailureTimedOut
	}
	return FailureUnexpected
}

// ActionError is the single failure type surfaced to callers. It carries
// everything needed to diagnose the call: what was attempted, on which
// element, how often, and the last underlying error.
type ActionError struct {
	Kind     FailureKind
	Action   ActionKind
	Locator  string
	Attempts int
	Cause    error
}

// Error implements the error interface.
func (e *ActionError) Error() string {
	return fmt.Sprintf("%s on %s failed (%s) after %d attempt(s): %v",
		e.Action, e.Locator, e.Kind, e.Attempts, e.Cause)
}

// Unwrap exposes the root cause for errors.Is / errors.As chains.
func (e *ActionError) Unwrap() error {
	return e.Cause
}
