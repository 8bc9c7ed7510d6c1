package pages

import (
	"fmt"

	"github.com/entrhq/anvil/pkg/browser"
	"github.com/entrhq/anvil/pkg/harness"
)

// LoginPage models the application's login form.
type LoginPage struct {
	sctx *harness.Context
	act  *Actions

	usernameField browser.Locator
	passwordField browser.Locator
	loginButton   browser.Locator
	errorBanner   browser.Locator
}

// NewLoginPage builds the page object over a scenario context.
func NewLoginPage(sctx *harness.Context) *LoginPage {
	return &LoginPage{
		sctx: sctx,
		act:  NewActions(sctx.Engine),

		usernameField: browser.CSS("#user-name", "username field"),
		passwordField: browser.CSS("#password", "password field"),
		loginButton:   browser.CSS("#login-button", "login button"),
		errorBanner:   browser.CSS(`[data-test="error"]`, "login error banner"),
	}
}

// Open navigates to the application URL and waits for the login form.
func (p *LoginPage) Open() error {
	if err := p.sctx.Session.Navigate(p.sctx.Config.AppURL); err != nil {
		return fmt.Errorf("failed to open login page: %w", err)
	}
	if err := p.sctx.Session.WaitForLoad("login", p.sctx.Config.PageLoadTimeout()); err != nil {
		return fmt.Errorf("login page never settled: %w", err)
	}
	p.sctx.Report.Step("opened %s", p.sctx.Config.AppURL)
	return nil
}

// Login enters the credentials and submits the form.
func (p *LoginPage) Login(username, password string) error {
	if err := p.act.Input(p.usernameField, username); err != nil {
		return fmt.Errorf("failed to enter username: %w", err)
	}
	if err := p.act.Input(p.passwordField, password); err != nil {
		return fmt.Errorf("failed to enter password: %w", err)
	}
	if err := p.act.Click(p.loginButton); err != nil {
		return fmt.Errorf("failed to click login: %w", err)
	}
	p.sctx.Report.Step("logged in as %s", username)
	return nil
}

// SubmitWithEnter submits the form from the password field.
func (p *LoginPage) SubmitWithEnter() error {
	return p.act.PressEnter(p.passwordField)
}

// AwaitReplaced waits for the post-login DOM swap: the login button
// detaching, then the given element of the next page becoming visible.
func (p *LoginPage) AwaitReplaced(next browser.Locator) error {
	if err := p.sctx.Session.WaitForReplacement(p.loginButton, next, p.sctx.Config.PageLoadTimeout()); err != nil {
		return fmt.Errorf("login form was never replaced: %w", err)
	}
	p.sctx.Report.Step("login form replaced by %s", next.Description())
	return nil
}

// ErrorMessage waits for the error banner to populate and returns its text.
func (p *LoginPage) ErrorMessage() (string, error) {
	if err := p.act.WaitForPopulated(p.errorBanner); err != nil {
		return "", fmt.Errorf("error banner never appeared: %w", err)
	}
	return p.act.ReadText(p.errorBanner)
}

// ExpectError waits until the error banner text satisfies the expectation
// (match-mode prefixes apply).
func (p *LoginPage) ExpectError(expected string) error {
	if err := p.act.WaitForText(p.errorBanner, expected); err != nil {
		p.sctx.AttachSnippet(p.errorBanner, "error banner markup at failure")
		return fmt.Errorf("expected login error %q: %w", expected, err)
	}
	p.sctx.Report.Step("saw expected login error")
	return nil
}
