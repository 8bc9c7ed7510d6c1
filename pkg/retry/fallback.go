package retry

import "fmt"

// runFallback retries the logical action through the programmatic path
// after the primary interaction failed as not-interactable. The element is
// scrolled to the viewport center first so any hit-testing done by the page
// itself sees it on screen.
//
// Only the click kinds and input have a fallback; for every other kind the
// strategy signals inapplicable, which is not an error, and the engine
// proceeds to a normal retry cycle.
func (e *Engine) runFallback(kind ActionKind, loc Locator, opts Options) (Element, error) {
	switch kind {
	case ActionClick, ActionProgrammaticClick:
		el, err := e.session.Resolve(loc)
		if err != nil {
			return nil, fmt.Errorf("fallback resolve for %s: %w", loc.Description(), err)
		}
		if err := el.ScrollIntoViewCenter(); err != nil {
			return nil, fmt.Errorf("fallback scroll for %s: %w", loc.Description(), err)
		}
		if err := el.ClickScripted(); err != nil {
			return nil, fmt.Errorf("fallback click for %s: %w", loc.Description(), err)
		}
		return el, nil

	case ActionInput:
		// Without a target value there is nothing the scripted path could
		// set consistently with the caller's action.
		if opts.expectedValue == "" {
			return nil, errFallbackInapplicable
		}
		el, err := e.session.Resolve(loc)
		if err != nil {
			return nil, fmt.Errorf("fallback resolve for %s: %w", loc.Description(), err)
		}
		if err := el.ScrollIntoViewCenter(); err != nil {
			return nil, fmt.Errorf("fallback scroll for %s: %w", loc.Description(), err)
		}
		if err := el.SetValueScripted(opts.expectedValue); err != nil {
			return nil, fmt.Errorf("fallback value set for %s: %w", loc.Description(), err)
		}
		return el, nil
	}

	return nil, errFallbackInapplicable
}
