package retry

import "time"

// Defaults applied when the caller does not override them.
const (
	// DefaultMaxAttempts bounds the retry loop.
	DefaultMaxAttempts = 3

	// DefaultBaseDelay is the backoff base for the first retry wait.
	DefaultBaseDelay = 500 * time.Millisecond
)

// Options configures a single RetryAction call. Zero configuration is not
// valid; build through the named constructors or OptionsBuilder, which apply
// the defaults. Options are immutable once built and discarded after the
// call.
type Options struct {
	expectedValue  string
	attributeName  string
	maxAttempts    int
	baseDelay      time.Duration
	exponential    bool
	jitter         bool
	postValidation func(Session) bool
}

// NoOptions returns the default configuration: three attempts, 500ms base
// delay, exponential backoff with jitter, no expectations.
func NoOptions() Options {
	return defaults()
}

// ByExpectedText returns options carrying an expected value, used by the
// text and attribute matching kinds and by input validation.
func ByExpectedText(expected string) Options {
	o := defaults()
	o.expectedValue = expected
	return o
}

// ByAttribute returns options naming the attribute the condition inspects.
func ByAttribute(name string) Options {
	o := defaults()
	o.attributeName = name
	return o
}

// ByAttributeMatch returns options pairing an expected value with the
// attribute it is matched against.
func ByAttributeMatch(expected, attribute string) Options {
	o := defaults()
	o.expectedValue = expected
	o.attributeName = attribute
	return o
}

func defaults() Options {
	return Options{
		maxAttempts: DefaultMaxAttempts,
		baseDelay:   DefaultBaseDelay,
		exponential: true,
		jitter:      true,
	}
}

// ExpectedValue returns the configured expected value, possibly carrying a
// match-mode prefix.
func (o Options) ExpectedValue() string { return o.expectedValue }

// AttributeName returns the configured attribute name, empty when unset.
func (o Options) AttributeName() string { return o.attributeName }

// MaxAttempts returns the attempt ceiling.
func (o Options) MaxAttempts() int { return o.maxAttempts }

// OptionsBuilder assembles Options beyond what the named constructors
// cover. Setters return the builder for chaining; Build produces the
// immutable value.
type OptionsBuilder struct {
	opts Options
}

// NewOptionsBuilder returns a builder seeded with the defaults.
func NewOptionsBuilder() *OptionsBuilder {
	return &OptionsBuilder{opts: defaults()}
}

// ExpectedValue sets the expected value (literal or prefixed match mode).
func (b *OptionsBuilder) ExpectedValue(v string) *OptionsBuilder {
	b.opts.expectedValue = v
	return b
}

// AttributeName sets the attribute inspected by attribute conditions and
// input validation.
func (b *OptionsBuilder) AttributeName(name string) *OptionsBuilder {
	b.opts.attributeName = name
	return b
}

// MaxAttempts overrides the attempt ceiling. Values below one are ignored.
func (b *OptionsBuilder) MaxAttempts(n int) *OptionsBuilder {
	if n >= 1 {
		b.opts.maxAttempts = n
	}
	return b
}

// BaseDelay overrides the backoff base delay. Non-positive values are
// ignored.
func (b *OptionsBuilder) BaseDelay(d time.Duration) *OptionsBuilder {
	if d > 0 {
		b.opts.baseDelay = d
	}
	return b
}

// ExponentialBackoff toggles exponential growth of the retry delay. When
// disabled every wait equals the base delay.
func (b *OptionsBuilder) ExponentialBackoff(enabled bool) *OptionsBuilder {
	b.opts.exponential = enabled
	return b
}

// Jitter toggles the random 0-20% addition to each computed delay, which
// desynchronizes parallel sessions retrying against the same UI.
func (b *OptionsBuilder) Jitter(enabled bool) *OptionsBuilder {
	b.opts.jitter = enabled
	return b
}

// PostValidation installs a predicate run against the whole session after
// the element action succeeds. A false result counts as a timed-out attempt
// and is retried.
func (b *OptionsBuilder) PostValidation(fn func(Session) bool) *OptionsBuilder {
	b.opts.postValidation = fn
	return b
}

// Build returns the assembled Options.
func (b *OptionsBuilder) Build() Options {
	return b.opts
}
