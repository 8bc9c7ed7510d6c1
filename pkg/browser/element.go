package browser

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// actionTimeoutMS caps element-level primitive actions. The retry engine
// has already established readiness before acting, so if Playwright's own
// actionability checks still hold the action up this long, the element is
// refusing interaction and the engine should see not-interactable promptly
// instead of burning the whole wait budget inside the driver.
const actionTimeoutMS = 2000.0

// Element wraps a resolved Playwright element handle. It implements
// retry.Element; every driver error is mapped to the retry sentinel
// matching its failure class.
type Element struct {
	handle playwright.ElementHandle
	desc   string
}

// Handle exposes the underlying Playwright handle.
func (e *Element) Handle() playwright.ElementHandle {
	return e.handle
}

// Displayed reports whether the element is visible.
func (e *Element) Displayed() (bool, error) {
	visible, err := e.handle.IsVisible()
	if err != nil {
		return false, mapDriverError("visibility query on "+e.desc, err)
	}
	return visible, nil
}

// Enabled reports whether the element accepts input.
func (e *Element) Enabled() (bool, error) {
	enabled, err := e.handle.IsEnabled()
	if err != nil {
		return false, mapDriverError("enabled query on "+e.desc, err)
	}
	return enabled, nil
}

// Text returns the element's text content.
func (e *Element) Text() (string, error) {
	text, err := e.handle.TextContent()
	if err != nil {
		return "", mapDriverError("text query on "+e.desc, err)
	}
	return text, nil
}

// Attribute returns the named attribute's value, empty when absent. Form
// controls report their live value property for "value", matching what a
// user sees rather than the initial markup.
func (e *Element) Attribute(name string) (string, error) {
	if name == "value" {
		raw, err := e.handle.Evaluate("el => 'value' in el ? String(el.value) : (el.getAttribute('value') ?? '')")
		if err != nil {
			return "", mapDriverError("value query on "+e.desc, err)
		}
		value, _ := raw.(string)
		return value, nil
	}

	value, err := e.handle.GetAttribute(name)
	if err != nil {
		return "", mapDriverError(fmt.Sprintf("attribute %q query on %s", name, e.desc), err)
	}
	return value, nil
}

// CSSValue returns the computed style for the given property.
func (e *Element) CSSValue(property string) (string, error) {
	raw, err := e.handle.Evaluate("(el, prop) => window.getComputedStyle(el)[prop]", property)
	if err != nil {
		return "", mapDriverError(fmt.Sprintf("computed style %q on %s", property, e.desc), err)
	}
	value, _ := raw.(string)
	return value, nil
}

// BoundingBox returns the element's rendered width and height. A detached
// or unrendered element reports a zero box.
func (e *Element) BoundingBox() (float64, float64, error) {
	box, err := e.handle.BoundingBox()
	if err != nil {
		return 0, 0, mapDriverError("bounding box on "+e.desc, err)
	}
	if box == nil {
		return 0, 0, nil
	}
	return box.Width, box.Height, nil
}

// Click performs a pointer click.
func (e *Element) Click() error {
	err := e.handle.Click(playwright.ElementHandleClickOptions{
		Timeout: playwright.Float(actionTimeoutMS),
	})
	return mapDriverError("click on "+e.desc, err)
}

// Fill clears the element and types the value.
func (e *Element) Fill(value string) error {
	err := e.handle.Fill(value, playwright.ElementHandleFillOptions{
		Timeout: playwright.Float(actionTimeoutMS),
	})
	return mapDriverError("fill on "+e.desc, err)
}

// Clear empties the element's value.
func (e *Element) Clear() error {
	return e.Fill("")
}

// Press sends a single key (e.g. "Enter", "Tab") to the element.
func (e *Element) Press(key string) error {
	err := e.handle.Press(key, playwright.ElementHandlePressOptions{
		Timeout: playwright.Float(actionTimeoutMS),
	})
	return mapDriverError(fmt.Sprintf("press %q on %s", key, e.desc), err)
}

// ScrollIntoView scrolls the element into the viewport if needed.
func (e *Element) ScrollIntoView() error {
	err := e.handle.ScrollIntoViewIfNeeded()
	return mapDriverError("scroll to "+e.desc, err)
}

// ScrollIntoViewCenter centers the element in the viewport, the position
// the fallback strategy needs before its programmatic action.
func (e *Element) ScrollIntoViewCenter() error {
	_, err := e.handle.Evaluate("el => el.scrollIntoView({block: 'center', inline: 'center'})")
	return mapDriverError("center scroll to "+e.desc, err)
}

// ClickScripted clicks through the DOM click() method, bypassing
// hit-testing entirely.
func (e *Element) ClickScripted() error {
	_, err := e.handle.Evaluate("el => el.click()")
	return mapDriverError("scripted click on "+e.desc, err)
}

// SetValueScripted assigns the value property directly and dispatches
// synthetic input and change events, so validation and listeners update
// consistently with a real keystroke.
func (e *Element) SetValueScripted(value string) error {
	_, err := e.handle.Evaluate(`(el, value) => {
		el.value = value;
		el.dispatchEvent(new Event('input', { bubbles: true }));
		el.dispatchEvent(new Event('change', { bubbles: true }));
	}`, value)
	return mapDriverError("scripted value set on "+e.desc, err)
}
