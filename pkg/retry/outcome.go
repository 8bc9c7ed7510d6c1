package retry

// Outcome is the terminal result of a RetryAction call: either a resolved
// element with no error, or a typed failure. Never both. Attempts counts
// how many cycles the engine consumed, bounded by the options' MaxAttempts.
type Outcome struct {
	// Element is the element the action was performed against. Nil on
	// failure.
	Element Element

	// Attempts is the number of attempts consumed, starting at 1.
	Attempts int

	// Err is the typed failure, nil on success.
	Err *ActionError
}

// OK reports whether the action completed successfully.
func (o Outcome) OK() bool {
	return o.Err == nil
}

func success(el Element, attempts int) Outcome {
	return Outcome{Element: el, Attempts: attempts}
}

func failure(kind ActionKind, loc Locator, attempts int, cause error) Outcome {
	return Outcome{
		Attempts: attempts,
		Err: &ActionError{
			Kind:     Classify(cause),
			Action:   kind,
			Locator:  loc.Description(),
			Attempts: attempts,
			Cause:    cause,
		},
	}
}
