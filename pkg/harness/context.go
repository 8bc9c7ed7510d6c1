// Package harness wires a run together: it builds one isolated Context per
// scenario (browser session, retry engine, test data row, report sink,
// logger) and drives registered scenarios concurrently through the Runner.
// All per-scenario state travels inside the Context; nothing is process
// global.
package harness

import (
	"fmt"

	"github.com/entrhq/anvil/pkg/browser"
	"github.com/entrhq/anvil/pkg/config"
	"github.com/entrhq/anvil/pkg/logging"
	"github.com/entrhq/anvil/pkg/report"
	"github.com/entrhq/anvil/pkg/retry"
	"github.com/entrhq/anvil/pkg/testdata"
)

// Context carries everything one scenario needs. It is built by the runner
// before the scenario function runs and torn down after it returns; scenario
// code never constructs or shares one.
type Context struct {
	Scenario string
	Config   *config.Config

	Session *browser.Session
	Engine  *retry.Engine

	// Data is the scenario's workbook row, nil when the sheet has no row
	// for this scenario name.
	Data  *testdata.Row
	Store *testdata.Store

	Report *report.Scenario
	Log    *logging.Logger
}

// RequireData returns the scenario's workbook row, or an error when the
// sheet has none for this scenario.
func (c *Context) RequireData() (*testdata.Row, error) {
	if c.Data == nil {
		return nil, fmt.Errorf("scenario %q has no test data row", c.Scenario)
	}
	return c.Data, nil
}

// AttachSnippet captures the element's markup, cleans it and attaches it
// to the scenario report. Best effort: a broken session or unparseable
// fragment is logged, not returned.
func (c *Context) AttachSnippet(loc browser.Locator, message string) {
	if c.Session == nil {
		return
	}
	raw, err := c.Session.OuterHTML(loc)
	if err != nil {
		c.Log.Warnf("snippet capture for %s failed: %v", loc.Description(), err)
		return
	}
	snippet, err := browser.CleanSnippet(raw, 2000)
	if err != nil {
		c.Log.Warnf("snippet cleanup for %s failed: %v", loc.Description(), err)
		return
	}
	c.Report.AttachSnippet(message, *snippet)
}

// Options returns a builder seeded with the run configuration's retry
// defaults, so call sites only state what differs from config.
func (c *Context) Options() *retry.OptionsBuilder {
	return retry.NewOptionsBuilder().
		MaxAttempts(c.Config.Retry.MaxAttempts).
		BaseDelay(c.Config.RetryBaseDelay()).
		ExponentialBackoff(c.Config.Retry.ExponentialBackoff).
		Jitter(c.Config.Retry.Jitter)
}
