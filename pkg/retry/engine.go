package retry

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// defaultPollInterval is the pause between readiness checks inside one
// attempt's wait budget.
const defaultPollInterval = 100 * time.Millisecond

// defaultValueAttribute is the attribute input validation inspects when the
// options name none.
const defaultValueAttribute = "value"

// Logger receives one event per attempt. pkg/logging satisfies it; the
// zero engine logs nowhere.
type Logger interface {
	Infof(format string, v ...interface{})
	Warnf(format string, v ...interface{})
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{}) {}
func (nopLogger) Warnf(string, ...interface{}) {}

// Engine drives the retry state machine for one browser session. All calls
// on one engine are strictly sequential and blocking: polls, actions,
// validations and backoff sleeps suspend the calling worker only. An engine
// holds no per-call state, so a scenario worker constructs one and reuses
// it for every step.
type Engine struct {
	session Session
	wait    time.Duration
	poll    time.Duration
	log     Logger
	rng     *rand.Rand

	// Seams for deterministic tests.
	sleep func(time.Duration)
	now   func() time.Time
}

// EngineOption customizes an Engine at construction.
type EngineOption func(*Engine)

// WithLogger installs the attempt-event sink.
func WithLogger(l Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithPollInterval overrides the pause between readiness checks.
func WithPollInterval(d time.Duration) EngineOption {
	return func(e *Engine) {
		if d > 0 {
			e.poll = d
		}
	}
}

// NewEngine builds an engine over the given session. waitBudget is the
// explicit wait: the maximum polling duration for any single attempt,
// supplied by caller-owned configuration.
func NewEngine(session Session, waitBudget time.Duration, opts ...EngineOption) *Engine {
	e := &Engine{
		session: session,
		wait:    waitBudget,
		poll:    defaultPollInterval,
		log:     nopLogger{},
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep:   time.Sleep,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RetryAction is the engine's sole entry point. It polls until the kind's
// readiness condition holds, performs the action, validates, and classifies
// any failure:
//
//   - not-interactable: one fallback attempt for click and input kinds; a
//     successful fallback exits immediately without consuming a backoff
//     wait, otherwise the attempt retries after full backoff
//   - stale: fast-path retry on a short fixed delay
//   - timed-out (including failed validations): retry with full backoff
//   - anything else: aborted immediately, never retried
//
// The returned Outcome is terminal: either the element the action ran
// against, or a single ActionError carrying the failure kind, the locator
// description, the exhausted attempt count and the last underlying error.
func (e *Engine) RetryAction(loc Locator, action Action, kind ActionKind, opts Options) Outcome {
	policy := NewBackoffPolicy(opts, e.rng)
	cond := conditionFor(e.session, kind, loc, opts)

	maxAttempts := policy.MaxAttempts()
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		el, err := e.attemptOnce(cond, action, kind, loc, opts)
		if err == nil {
			e.log.Infof("%s succeeded on attempt %d/%d for %s", kind, attempt, maxAttempts, loc.Description())
			return success(el, attempt)
		}
		lastErr = err

		switch Classify(err) {
		case FailureNotInteractable:
			e.log.Warnf("%s not interactable on %s, attempt %d/%d", kind, loc.Description(), attempt, maxAttempts)
			if fbEl, fbErr := e.runFallback(kind, loc, opts); fbErr == nil {
				e.log.Infof("%s fallback succeeded on attempt %d for %s", kind, attempt, loc.Description())
				return success(fbEl, attempt)
			} else if !errors.Is(fbErr, errFallbackInapplicable) {
				e.log.Warnf("%s fallback failed on %s: %v", kind, loc.Description(), fbErr)
			}
			if attempt < maxAttempts {
				e.sleep(policy.Delay(attempt))
			}

		case FailureStale:
			e.log.Warnf("stale element on %s during %s, attempt %d/%d", loc.Description(), kind, attempt, maxAttempts)
			if attempt < maxAttempts {
				e.sleep(policy.StaleDelay())
			}

		case FailureTimedOut:
			e.log.Warnf("%s timed out on %s, attempt %d/%d", kind, loc.Description(), attempt, maxAttempts)
			if attempt < maxAttempts {
				e.sleep(policy.Delay(attempt))
			}

		default:
			e.log.Warnf("%s aborted on %s after attempt %d: %v", kind, loc.Description(), attempt, err)
			return failure(kind, loc, attempt, err)
		}
	}

	return failure(kind, loc, maxAttempts, lastErr)
}

// attemptOnce runs a single attempt: poll, act, validate.
func (e *Engine) attemptOnce(cond condition, action Action, kind ActionKind, loc Locator, opts Options) (Element, error) {
	el, err := e.pollFor(cond, loc)
	if err != nil {
		return nil, err
	}

	if err := action(el); err != nil {
		return nil, err
	}

	// Input handlers may apply the typed value asynchronously; re-poll the
	// target attribute until the UI state actually reflects the action.
	if kind == ActionInput && opts.expectedValue != "" {
		if err := e.validateInput(loc, opts); err != nil {
			return nil, err
		}
	}

	if opts.postValidation != nil && !opts.postValidation(e.session) {
		return nil, fmt.Errorf("post-validation rejected session state for %s: %w", loc.Description(), ErrTimedOut)
	}
	return el, nil
}

// pollFor blocks until the condition yields an element or the wait budget
// elapses. The condition is always checked at least once.
func (e *Engine) pollFor(cond condition, loc Locator) (Element, error) {
	deadline := e.now().Add(e.wait)
	for {
		if el, ok := cond(); ok {
			return el, nil
		}
		if !e.now().Before(deadline) {
			return nil, fmt.Errorf("condition for %s not met within %s: %w", loc.Description(), e.wait, ErrTimedOut)
		}
		e.sleep(e.poll)
	}
}

// validateInput re-polls the target attribute until it equals the expected
// literal value, closing the gap between "action performed" and "UI state
// changed".
func (e *Engine) validateInput(loc Locator, opts Options) error {
	attribute := opts.attributeName
	if attribute == "" {
		attribute = defaultValueAttribute
	}

	deadline := e.now().Add(e.wait)
	for {
		if el, err := e.session.Resolve(loc); err == nil {
			if value, err := el.Attribute(attribute); err == nil && value == opts.expectedValue {
				e.log.Infof("attribute %q matched %q on %s", attribute, opts.expectedValue, loc.Description())
				return nil
			}
		}
		if !e.now().Before(deadline) {
			return fmt.Errorf("attribute %q on %s did not become %q within %s: %w",
				attribute, loc.Description(), opts.expectedValue, e.wait, ErrTimedOut)
		}
		e.sleep(e.poll)
	}
}
