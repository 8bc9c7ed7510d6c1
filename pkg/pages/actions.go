// Package pages holds the page objects and the Actions helper they drive
// the browser through. Every element interaction goes through the retry
// engine; page objects only pick locators and expectations.
package pages

import (
	"github.com/entrhq/anvil/pkg/browser"
	"github.com/entrhq/anvil/pkg/retry"
)

// Actions wraps the retry engine with the interaction vocabulary page
// objects speak: click, type, read, wait-for.
type Actions struct {
	engine *retry.Engine
}

// NewActions builds the helper over a scenario's engine.
func NewActions(engine *retry.Engine) *Actions {
	return &Actions{engine: engine}
}

func outcomeErr(o retry.Outcome) error {
	if o.Err != nil {
		return o.Err
	}
	return nil
}

// Click clicks the element once it is clickable, with the default retry
// policy.
func (a *Actions) Click(loc browser.Locator) error {
	return a.ClickWith(loc, retry.NoOptions())
}

// ClickWith clicks with caller-supplied retry options.
func (a *Actions) ClickWith(loc browser.Locator, opts retry.Options) error {
	o := a.engine.RetryAction(loc, func(el retry.Element) error {
		return el.Click()
	}, retry.ActionClick, opts)
	return outcomeErr(o)
}

// ClickScripted clicks through script dispatch, for elements a trusted
// click cannot reach.
func (a *Actions) ClickScripted(loc browser.Locator) error {
	o := a.engine.RetryAction(loc, func(el retry.Element) error {
		return el.ClickScripted()
	}, retry.ActionProgrammaticClick, retry.NoOptions())
	return outcomeErr(o)
}

// Input clears the field and types the value. The typed value doubles as
// the expectation, so the engine re-polls the field until the UI actually
// holds it.
func (a *Actions) Input(loc browser.Locator, value string) error {
	return a.InputWith(loc, value, retry.ByExpectedText(value))
}

// InputWith types with caller-supplied retry options. Options carrying no
// expected value skip input validation.
func (a *Actions) InputWith(loc browser.Locator, value string, opts retry.Options) error {
	o := a.engine.RetryAction(loc, func(el retry.Element) error {
		if err := el.Clear(); err != nil {
			return err
		}
		return el.Fill(value)
	}, retry.ActionInput, opts)
	return outcomeErr(o)
}

// PressEnter sends the Enter key to the element.
func (a *Actions) PressEnter(loc browser.Locator) error {
	o := a.engine.RetryAction(loc, func(el retry.Element) error {
		return el.Press("Enter")
	}, retry.ActionClick, retry.NoOptions())
	return outcomeErr(o)
}

// ReadText returns the element's text once the element is present.
func (a *Actions) ReadText(loc browser.Locator) (string, error) {
	var text string
	o := a.engine.RetryAction(loc, func(el retry.Element) error {
		t, err := el.Text()
		if err != nil {
			return err
		}
		text = t
		return nil
	}, retry.ActionRead, retry.NoOptions())
	return text, outcomeErr(o)
}

// ReadAttribute returns an attribute value once the element is present.
func (a *Actions) ReadAttribute(loc browser.Locator, attribute string) (string, error) {
	var value string
	o := a.engine.RetryAction(loc, func(el retry.Element) error {
		v, err := el.Attribute(attribute)
		if err != nil {
			return err
		}
		value = v
		return nil
	}, retry.ActionRead, retry.ByAttribute(attribute))
	return value, outcomeErr(o)
}

// WaitForText blocks until the element's text satisfies the expectation,
// which may carry a regex:/equals:/icontains: match-mode prefix.
func (a *Actions) WaitForText(loc browser.Locator, expected string) error {
	o := a.engine.RetryAction(loc, func(retry.Element) error {
		return nil
	}, retry.ActionTextMatch, retry.ByExpectedText(expected))
	return outcomeErr(o)
}

// WaitForAttribute blocks until the named attribute satisfies the
// expectation.
func (a *Actions) WaitForAttribute(loc browser.Locator, attribute, expected string) error {
	o := a.engine.RetryAction(loc, func(retry.Element) error {
		return nil
	}, retry.ActionAttributeMatch, retry.ByAttributeMatch(expected, attribute))
	return outcomeErr(o)
}

// WaitForPopulated blocks until the element's text is non-blank.
func (a *Actions) WaitForPopulated(loc browser.Locator) error {
	o := a.engine.RetryAction(loc, func(retry.Element) error {
		return nil
	}, retry.ActionTextNonEmpty, retry.NoOptions())
	return outcomeErr(o)
}

// WaitForAttributePopulated blocks until the named attribute is non-blank.
func (a *Actions) WaitForAttributePopulated(loc browser.Locator, attribute string) error {
	o := a.engine.RetryAction(loc, func(retry.Element) error {
		return nil
	}, retry.ActionAttributeNonEmpty, retry.ByAttribute(attribute))
	return outcomeErr(o)
}
