package browser

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/anvil/pkg/retry"
)

// loadPollInterval paces the document-readiness polls in WaitForLoad and
// the overlay/replacement waits.
const loadPollInterval = 100 * time.Millisecond

// Session is one scenario's isolated browser: its own engine instance,
// context and page. It implements retry.Session so the retry engine can
// poll it, and adds the page-level operations page objects need.
type Session struct {
	// Name is the owning scenario's name.
	Name string

	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
}

func (s *Session) close() {
	_ = s.page.Close()
	_ = s.context.Close()
	_ = s.browser.Close()
}

// Page exposes the underlying Playwright page for operations the session
// does not wrap.
func (s *Session) Page() playwright.Page {
	return s.page
}

// Resolve implements retry.Session. It queries the live DOM for the first
// element matching the locator; a missing element is an error so the
// condition layer reports not-ready.
func (s *Session) Resolve(loc retry.Locator) (retry.Element, error) {
	bloc, ok := loc.(Locator)
	if !ok {
		return nil, fmt.Errorf("session cannot resolve locator type %T", loc)
	}

	handle, err := s.page.QuerySelector(bloc.Selector())
	if err != nil {
		return nil, mapDriverError("resolve "+bloc.Description(), err)
	}
	if handle == nil {
		return nil, fmt.Errorf("no element matches %s", bloc.Description())
	}
	return &Element{handle: handle, desc: bloc.Description()}, nil
}

// Navigate loads the given URL and waits for the load event.
func (s *Session) Navigate(url string) error {
	if _, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
	}); err != nil {
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	return nil
}

// URL returns the page's current URL.
func (s *Session) URL() string {
	return s.page.URL()
}

// Eval executes a script against the page and returns its result.
func (s *Session) Eval(script string, args ...interface{}) (interface{}, error) {
	result, err := s.page.Evaluate(script, args...)
	if err != nil {
		return nil, fmt.Errorf("script evaluation failed: %w", err)
	}
	return result, nil
}

// WaitForLoad blocks until document.readyState reports complete, then
// gives any jQuery on the page a short window to finish in-flight requests.
// pageName only decorates the error.
func (s *Session) WaitForLoad(pageName string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		state, err := s.page.Evaluate("() => document.readyState")
		if err == nil && state == "complete" {
			break
		}
		if !time.Now().Before(deadline) {
			return fmt.Errorf("page %q failed to load within %s", pageName, timeout)
		}
		time.Sleep(loadPollInterval)
	}

	s.waitForJQueryIdle(5 * time.Second)
	return nil
}

// waitForJQueryIdle waits until jQuery.active reaches zero. Pages without
// jQuery pass immediately; an expired budget is acceptable and ignored.
func (s *Session) waitForJQueryIdle(budget time.Duration) {
	deadline := time.Now().Add(budget)
	for time.Now().Before(deadline) {
		active, err := s.page.Evaluate("() => window.jQuery ? jQuery.active : 0")
		if err != nil {
			return
		}
		if n, ok := active.(int); ok && n == 0 {
			return
		}
		if f, ok := active.(float64); ok && f == 0 {
			return
		}
		time.Sleep(loadPollInterval)
	}
}

// Screenshot captures a full-page PNG.
func (s *Session) Screenshot() ([]byte, error) {
	shot, err := s.page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return shot, nil
}

// OuterHTML captures the serialized markup of the first element matching
// the locator, for report attachments.
func (s *Session) OuterHTML(loc Locator) (string, error) {
	handle, err := s.page.QuerySelector(loc.Selector())
	if err != nil {
		return "", mapDriverError("resolve "+loc.Description(), err)
	}
	if handle == nil {
		return "", fmt.Errorf("no element matches %s", loc.Description())
	}
	raw, err := handle.Evaluate("el => el.outerHTML")
	if err != nil {
		return "", fmt.Errorf("outerHTML capture failed: %w", err)
	}
	html, _ := raw.(string)
	return html, nil
}

// WaitForOverlayGone handles blocking overlays (spinners, modals). If the
// overlay appears within a short grace period it must then disappear within
// the wait budget; an overlay that never appears is not an error.
func (s *Session) WaitForOverlayGone(overlay Locator, timeout time.Duration) error {
	appeared := false
	grace := time.Now().Add(3 * time.Second)
	for time.Now().Before(grace) {
		handle, err := s.page.QuerySelector(overlay.Selector())
		if err == nil && handle != nil {
			appeared = true
			break
		}
		time.Sleep(loadPollInterval)
	}
	if !appeared {
		return nil
	}

	deadline := time.Now().Add(timeout)
	for {
		handle, err := s.page.QuerySelector(overlay.Selector())
		if err != nil || handle == nil {
			return nil
		}
		if visible, err := handle.IsVisible(); err == nil && !visible {
			return nil
		}
		if !time.Now().Before(deadline) {
			return fmt.Errorf("overlay %s did not disappear within %s", overlay.Description(), timeout)
		}
		time.Sleep(loadPollInterval)
	}
}

// WaitForReplacement waits for a DOM swap: the old element detaching (when
// present at all) followed by the new element becoming visible.
func (s *Session) WaitForReplacement(old, replacement Locator, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)

	for {
		handle, err := s.page.QuerySelector(old.Selector())
		if err != nil || handle == nil {
			break
		}
		if !time.Now().Before(deadline) {
			return fmt.Errorf("element %s never detached within %s", old.Description(), timeout)
		}
		time.Sleep(loadPollInterval)
	}

	for {
		handle, err := s.page.QuerySelector(replacement.Selector())
		if err == nil && handle != nil {
			if visible, err := handle.IsVisible(); err == nil && visible {
				return nil
			}
		}
		if !time.Now().Before(deadline) {
			return fmt.Errorf("replacement %s not visible within %s", replacement.Description(), timeout)
		}
		time.Sleep(loadPollInterval)
	}
}
