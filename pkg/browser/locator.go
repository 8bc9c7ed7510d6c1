package browser

import "fmt"

// Strategy selects the selector engine a locator resolves through.
type Strategy string

const (
	// ByCSS resolves through the CSS selector engine.
	ByCSS Strategy = "css"

	// ByXPath resolves through the XPath engine.
	ByXPath Strategy = "xpath"

	// ByText resolves by visible text content.
	ByText Strategy = "text"
)

// Locator identifies zero or more elements on the page. It is a value: two
// locators never need to compare equal, they only need to resolve. The
// session re-resolves a locator on every poll because the matching node may
// have been replaced since the last resolution.
type Locator struct {
	strategy Strategy
	value    string
	name     string
}

// CSS builds a CSS locator. name is the human-readable form used in logs
// and failures; when empty the selector itself is used.
func CSS(selector, name string) Locator {
	return Locator{strategy: ByCSS, value: selector, name: name}
}

// XPath builds an XPath locator.
func XPath(expression, name string) Locator {
	return Locator{strategy: ByXPath, value: expression, name: name}
}

// Text builds a visible-text locator.
func Text(text, name string) Locator {
	return Locator{strategy: ByText, value: text, name: name}
}

// Selector renders the locator as a Playwright selector string, prefixed
// with its engine.
func (l Locator) Selector() string {
	return fmt.Sprintf("%s=%s", l.strategy, l.value)
}

// Description implements retry.Locator.
func (l Locator) Description() string {
	if l.name != "" {
		return l.name
	}
	return l.Selector()
}
