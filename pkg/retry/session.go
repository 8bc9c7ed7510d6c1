package retry

// Locator is an opaque handle describing zero or more UI elements. The
// engine never inspects it beyond its description; the session resolves it
// anew on every poll because the underlying node may have been replaced.
type Locator interface {
	// Description returns a human-readable form for logs and errors.
	Description() string
}

// Session is the driver handle the engine polls against. Implementations
// wrap a live browser page (see pkg/browser); tests supply fakes.
type Session interface {
	// Resolve looks up the first element matching the locator. It returns
	// an error when no element is currently attached.
	Resolve(loc Locator) (Element, error)
}

// Element is a resolved UI element. State queries report the live node;
// action methods perform the primitive interactions the engine composes.
// Methods return ErrStale (wrapped) once the node has been replaced and
// ErrNotInteractable (wrapped) when the element refuses pointer input.
type Element interface {
	// State queries.
	Displayed() (bool, error)
	Enabled() (bool, error)
	Text() (string, error)
	Attribute(name string) (string, error)
	CSSValue(property string) (string, error)
	BoundingBox() (width, height float64, err error)

	// Primitive actions.
	Click() error
	Fill(value string) error
	Clear() error
	Press(key string) error

	// Scrolling.
	ScrollIntoView() error
	ScrollIntoViewCenter() error

	// Programmatic paths used by the fallback strategy. They bypass
	// hit-testing entirely; SetValueScripted additionally dispatches
	// synthetic input and change events so dependent listeners fire as
	// they would for a real keystroke.
	ClickScripted() error
	SetValueScripted(value string) error
}

// Action is the caller-supplied interaction performed once the readiness
// condition holds. Side effects are the caller's concern.
type Action func(el Element) error
