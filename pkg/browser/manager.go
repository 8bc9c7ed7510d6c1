package browser

import (
	"fmt"
	"io"
	"sync"

	"github.com/playwright-community/playwright-go"
)

// DefaultMaxSessions bounds how many scenario sessions may run at once.
const DefaultMaxSessions = 8

// Manager owns the Playwright runtime and the per-scenario browser
// sessions. One manager serves the whole run; each scenario worker gets its
// own session (browser context plus page) so no mutable browser state ever
// crosses worker boundaries.
type Manager struct {
	mu          sync.Mutex
	pw          *playwright.Playwright
	sessions    map[string]*Session
	maxSessions int
	initialized bool
}

// NewManager creates an uninitialized manager.
func NewManager() *Manager {
	return &Manager{
		sessions:    make(map[string]*Session),
		maxSessions: DefaultMaxSessions,
	}
}

// Initialize installs and starts the Playwright runtime. Must be called
// once before any session is started. Driver output is discarded so it does
// not interleave with the run summary.
func (m *Manager) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	opts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}
	if err := playwright.Install(opts); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(opts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	m.pw = pw
	m.initialized = true
	return nil
}

// SessionOptions configures a new scenario session.
type SessionOptions struct {
	// Browser selects the engine: "chromium" (default), "firefox" or
	// "webkit".
	Browser string

	// Headless controls whether the browser runs without a window.
	Headless bool

	// ViewportWidth and ViewportHeight set the initial viewport. Zero
	// values fall back to 1280x720.
	ViewportWidth  int
	ViewportHeight int

	// DefaultTimeoutMS is the driver-level default timeout for primitive
	// operations, in milliseconds. Zero falls back to 30000.
	DefaultTimeoutMS float64
}

// StartSession launches an isolated browser session for one scenario. The
// name must be unique across live sessions.
func (m *Manager) StartSession(name string, opts SessionOptions) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return nil, fmt.Errorf("browser manager not initialized")
	}
	if _, exists := m.sessions[name]; exists {
		return nil, fmt.Errorf("session %q already exists", name)
	}
	if len(m.sessions) >= m.maxSessions {
		return nil, fmt.Errorf("maximum number of sessions (%d) reached", m.maxSessions)
	}

	if opts.ViewportWidth == 0 {
		opts.ViewportWidth = 1280
	}
	if opts.ViewportHeight == 0 {
		opts.ViewportHeight = 720
	}
	if opts.DefaultTimeoutMS == 0 {
		opts.DefaultTimeoutMS = 30000
	}

	browserType, err := m.browserType(opts.Browser)
	if err != nil {
		return nil, err
	}

	browser, err := browserType.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to launch %s: %w", opts.Browser, err)
	}

	context, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  opts.ViewportWidth,
			Height: opts.ViewportHeight,
		},
	})
	if err != nil {
		browser.Close()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := context.NewPage()
	if err != nil {
		context.Close()
		browser.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	page.SetDefaultTimeout(opts.DefaultTimeoutMS)

	session := &Session{
		Name:    name,
		browser: browser,
		context: context,
		page:    page,
	}
	m.sessions[name] = session
	return session, nil
}

func (m *Manager) browserType(name string) (playwright.BrowserType, error) {
	switch name {
	case "", "chromium":
		return m.pw.Chromium, nil
	case "firefox":
		return m.pw.Firefox, nil
	case "webkit":
		return m.pw.WebKit, nil
	}
	return nil, fmt.Errorf("unsupported browser: %s", name)
}

// CloseSession closes one scenario session and releases its resources.
func (m *Manager) CloseSession(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[name]
	if !exists {
		return fmt.Errorf("session %q not found", name)
	}

	session.close()
	delete(m.sessions, name)
	return nil
}

// Shutdown closes every live session and stops the Playwright runtime.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for name, session := range m.sessions {
		session.close()
		delete(m.sessions, name)
	}

	if m.initialized && m.pw != nil {
		if err := m.pw.Stop(); err != nil {
			return fmt.Errorf("failed to stop playwright: %w", err)
		}
		m.initialized = false
	}
	return nil
}

// SetMaxSessions adjusts the concurrent session ceiling.
func (m *Manager) SetMaxSessions(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n > 0 {
		m.maxSessions = n
	}
}
