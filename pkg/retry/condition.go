package retry

import "strings"

// condition is a readiness predicate. Each call re-resolves the locator,
// never caching the element across polls, because the underlying node may
// have been replaced since the last check. A condition reports "not yet"
// instead of erroring; the polling layer turns persistent not-yet into a
// timed-out attempt.
type condition func() (Element, bool)

// conditionFor maps an action kind to its readiness condition. The switch
// is exhaustive over ActionKind.
func conditionFor(s Session, kind ActionKind, loc Locator, opts Options) condition {
	switch kind {
	case ActionClick:
		return clickableCondition(s, loc)
	case ActionInput:
		return inputCondition(s, loc)
	case ActionProgrammaticClick:
		return displayedCondition(s, loc)
	case ActionRead:
		return presentCondition(s, loc)
	case ActionTextMatch:
		return textMatchCondition(s, loc, opts.expectedValue)
	case ActionAttributeMatch:
		return attributeMatchCondition(s, loc, opts.attributeName, opts.expectedValue)
	case ActionAttributeNonEmpty:
		return attributeNonEmptyCondition(s, loc, opts.attributeName)
	case ActionTextNonEmpty:
		return textNonEmptyCondition(s, loc)
	}
	return presentCondition(s, loc)
}

// presentCondition is satisfied as soon as the locator resolves.
func presentCondition(s Session, loc Locator) condition {
	return func() (Element, bool) {
		el, err := s.Resolve(loc)
		if err != nil {
			return nil, false
		}
		return el, true
	}
}

// displayedCondition requires presence and a visible node.
func displayedCondition(s Session, loc Locator) condition {
	return func() (Element, bool) {
		el, err := s.Resolve(loc)
		if err != nil {
			return nil, false
		}
		shown, err := el.Displayed()
		if err != nil || !shown {
			return nil, false
		}
		return el, true
	}
}

// clickableCondition requires presence, visibility and an enabled element,
// the hit-testable state a pointer click needs.
func clickableCondition(s Session, loc Locator) condition {
	return func() (Element, bool) {
		el, err := s.Resolve(loc)
		if err != nil {
			return nil, false
		}
		shown, err := el.Displayed()
		if err != nil || !shown {
			return nil, false
		}
		enabled, err := el.Enabled()
		if err != nil || !enabled {
			return nil, false
		}
		return el, true
	}
}

// inputCondition is the strictest readiness check. Presence and the
// displayed flag under-detect transitioning or animated elements, so it
// additionally verifies geometry and computed style: a non-zero bounding
// box, visibility "visible" and display other than "none". The element is
// nudged into the viewport first so the geometry reflects its settled
// position.
func inputCondition(s Session, loc Locator) condition {
	return func() (Element, bool) {
		el, err := s.Resolve(loc)
		if err != nil {
			return nil, false
		}

		// Best effort; a failed scroll does not make the element unready.
		_ = el.ScrollIntoView()

		w, h, err := el.BoundingBox()
		if err != nil || w <= 0 || h <= 0 {
			return nil, false
		}
		if visibility, err := el.CSSValue("visibility"); err != nil || visibility != "visible" {
			return nil, false
		}
		if display, err := el.CSSValue("display"); err != nil || display == "none" {
			return nil, false
		}

		shown, err := el.Displayed()
		if err != nil || !shown {
			return nil, false
		}
		enabled, err := el.Enabled()
		if err != nil || !enabled {
			return nil, false
		}
		return el, true
	}
}

// textMatchCondition requires presence and element text satisfying the
// expected value's match mode.
func textMatchCondition(s Session, loc Locator, expected string) condition {
	return func() (Element, bool) {
		el, err := s.Resolve(loc)
		if err != nil {
			return nil, false
		}
		text, err := el.Text()
		if err != nil || !MatchesExpected(text, expected) {
			return nil, false
		}
		return el, true
	}
}

// attributeMatchCondition requires presence and the named attribute
// satisfying the expected value's match mode.
func attributeMatchCondition(s Session, loc Locator, attribute, expected string) condition {
	return func() (Element, bool) {
		el, err := s.Resolve(loc)
		if err != nil {
			return nil, false
		}
		value, err := el.Attribute(attribute)
		if err != nil || !MatchesExpected(value, expected) {
			return nil, false
		}
		return el, true
	}
}

// attributeNonEmptyCondition requires presence and a non-blank attribute
// value after trimming.
func attributeNonEmptyCondition(s Session, loc Locator, attribute string) condition {
	return func() (Element, bool) {
		el, err := s.Resolve(loc)
		if err != nil {
			return nil, false
		}
		value, err := el.Attribute(attribute)
		if err != nil || strings.TrimSpace(value) == "" {
			return nil, false
		}
		return el, true
	}
}

// textNonEmptyCondition requires presence and non-blank text after
// trimming.
func textNonEmptyCondition(s Session, loc Locator) condition {
	return func() (Element, bool) {
		el, err := s.Resolve(loc)
		if err != nil {
			return nil, false
		}
		text, err := el.Text()
		if err != nil || strings.TrimSpace(text) == "" {
			return nil, false
		}
		return el, true
	}
}
