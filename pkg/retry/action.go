package retry

// ActionKind identifies the logical interaction being retried. The set is
// closed: the condition evaluator and fallback strategy both dispatch on it
// with exhaustive switches, so adding a kind is a compile-checked change.
type ActionKind int

const (
	// ActionClick clicks an element once it is present, visible and enabled.
	ActionClick ActionKind = iota

	// ActionInput types into an element once it passes the geometry and
	// style visibility probe in addition to being present and enabled.
	ActionInput

	// ActionProgrammaticClick clicks through the script path, requiring
	// only presence and visibility.
	ActionProgrammaticClick

	// ActionRead reads from an element that merely has to be present.
	ActionRead

	// ActionTextMatch waits until the element text satisfies the expected
	// value's match mode.
	ActionTextMatch

	// ActionAttributeMatch waits until the named attribute satisfies the
	// expected value's match mode.
	ActionAttributeMatch

	// ActionAttributeNonEmpty waits until the named attribute is non-blank.
	ActionAttributeNonEmpty

	// ActionTextNonEmpty waits until the element text is non-blank.
	ActionTextNonEmpty
)

// String returns the kind's name for log events and error messages.
func (k ActionKind) String() string {
	switch k {
	case ActionClick:
		return "click"
	case ActionInput:
		return "input"
	case ActionProgrammaticClick:
		return "programmatic-click"
	case ActionRead:
		return "read"
	case ActionTextMatch:
		return "text-match"
	case ActionAttributeMatch:
		return "attribute-match"
	case ActionAttributeNonEmpty:
		return "attribute-non-empty"
	case ActionTextNonEmpty:
		return "text-non-empty"
	}
	return "unknown"
}
