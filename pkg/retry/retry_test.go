package retry

import (
	"math/rand"
	"time"
)

// Shared test doubles for the retry package. The fakes implement the
// Session and Element interfaces over plain fields so tests can script
// exact sequences of UI states.

type fakeLocator string

func (l fakeLocator) Description() string { return string(l) }

type fakeElement struct {
	displayed bool
	enabled   bool
	text      string
	attrs     map[string]string
	css       map[string]string
	width     float64
	height    float64

	clickErr error
	fillErr  error

	clicks         int
	fills          []string
	scriptedClicks int
	scriptedValues []string
	scrollCalls    int
	centerScrolls  int

	scriptedClickErr error
	scriptedValueErr error
}

func newFakeElement() *fakeElement {
	return &fakeElement{
		displayed: true,
		enabled:   true,
		attrs:     map[string]string{},
		css:       map[string]string{"visibility": "visible", "display": "block"},
		width:     100,
		height:    20,
	}
}

func (e *fakeElement) Displayed() (bool, error)        { return e.displayed, nil }
func (e *fakeElement) Enabled() (bool, error)          { return e.enabled, nil }
func (e *fakeElement) Text() (string, error)           { return e.text, nil }
func (e *fakeElement) CSSValue(p string) (string, error) { return e.css[p], nil }

func (e *fakeElement) Attribute(name string) (string, error) {
	return e.attrs[name], nil
}

func (e *fakeElement) BoundingBox() (float64, float64, error) {
	return e.width, e.height, nil
}

func (e *fakeElement) Click() error {
	e.clicks++
	return e.clickErr
}

func (e *fakeElement) Fill(value string) error {
	e.fills = append(e.fills, value)
	return e.fillErr
}

func (e *fakeElement) Clear() error          { return nil }
func (e *fakeElement) Press(string) error    { return nil }
func (e *fakeElement) ScrollIntoView() error { e.scrollCalls++; return nil }

func (e *fakeElement) ScrollIntoViewCenter() error {
	e.centerScrolls++
	return nil
}

func (e *fakeElement) ClickScripted() error {
	e.scriptedClicks++
	return e.scriptedClickErr
}

func (e *fakeElement) SetValueScripted(value string) error {
	e.scriptedValues = append(e.scriptedValues, value)
	return e.scriptedValueErr
}

type fakeSession struct {
	resolve      func() (Element, error)
	resolveCalls int
}

func (s *fakeSession) Resolve(Locator) (Element, error) {
	s.resolveCalls++
	return s.resolve()
}

func staticSession(el Element) *fakeSession {
	return &fakeSession{resolve: func() (Element, error) { return el, nil }}
}

// newTestEngine wires an engine to a fake clock. Sleeps advance the clock
// instead of blocking, and every sleep is recorded so tests can assert the
// exact backoff sequence. A zero wait budget means each attempt checks its
// condition exactly once before timing out.
func newTestEngine(s Session, wait time.Duration) (*Engine, *[]time.Duration) {
	e := NewEngine(s, wait)

	clock := time.Unix(0, 0)
	sleeps := &[]time.Duration{}
	e.now = func() time.Time { return clock }
	e.sleep = func(d time.Duration) {
		*sleeps = append(*sleeps, d)
		clock = clock.Add(d)
	}
	e.rng = rand.New(rand.NewSource(1))
	return e, sleeps
}
