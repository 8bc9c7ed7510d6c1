package harness

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/gobwas/glob"

	"github.com/entrhq/anvil/pkg/browser"
	"github.com/entrhq/anvil/pkg/config"
	"github.com/entrhq/anvil/pkg/logging"
	"github.com/entrhq/anvil/pkg/report"
	"github.com/entrhq/anvil/pkg/retry"
	"github.com/entrhq/anvil/pkg/testdata"
)

// ScenarioFunc is one registered scenario.
type ScenarioFunc func(*Context) error

type scenarioEntry struct {
	name string
	fn   ScenarioFunc
}

// Result aggregates a run's scenario outcomes.
type Result struct {
	Passed   int
	Failed   int
	Skipped  int
	Failures []string
}

// OK reports whether every selected scenario passed.
func (r *Result) OK() bool { return r.Failed == 0 }

// Runner executes registered scenarios, each on its own goroutine with its
// own browser session. Concurrency is capped by the worker limit; scenarios
// never share mutable state, so there is no cross-scenario ordering.
type Runner struct {
	cfg     *config.Config
	manager *browser.Manager
	run     *report.Run
	log     *logging.Logger
	workers int

	scenarios []scenarioEntry

	// setup builds the scenario context; replaced in tests to run scenarios
	// without a browser.
	setup func(name string, slog *logging.Logger, sink *report.Scenario) (*Context, func(), error)
}

// NewRunner builds a runner over an initialized browser manager.
func NewRunner(cfg *config.Config, manager *browser.Manager, run *report.Run, log *logging.Logger) *Runner {
	r := &Runner{
		cfg:     cfg,
		manager: manager,
		run:     run,
		log:     log,
		workers: cfg.MaxSessions,
	}
	r.setup = r.defaultSetup
	return r
}

// Register adds a scenario under a unique name. Registration order does not
// affect execution order.
func (r *Runner) Register(name string, fn ScenarioFunc) {
	r.scenarios = append(r.scenarios, scenarioEntry{name: name, fn: fn})
}

// SetWorkers caps how many scenarios run concurrently.
func (r *Runner) SetWorkers(n int) {
	if n > 0 {
		r.workers = n
	}
}

// Run executes every registered scenario whose name matches the glob
// pattern (empty matches all). Cancellation is honored between scenario
// launches: in-flight scenarios run to completion, unlaunched ones are
// counted as skipped.
func (r *Runner) Run(ctx context.Context, pattern string) (*Result, error) {
	if pattern == "" {
		pattern = "*"
	}
	matcher, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid scenario pattern %q: %w", pattern, err)
	}

	selected := make([]scenarioEntry, 0, len(r.scenarios))
	for _, entry := range r.scenarios {
		if matcher.Match(entry.name) {
			selected = append(selected, entry)
		}
	}
	sort.Slice(selected, func(i, j int) bool { return selected[i].name < selected[j].name })

	result := &Result{}
	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, r.workers)
	)

launch:
	for i, entry := range selected {
		if ctx.Err() != nil {
			result.Skipped = len(selected) - i
			r.log.Warnf("run cancelled, skipping %d remaining scenarios", result.Skipped)
			break
		}
		select {
		case <-ctx.Done():
			result.Skipped = len(selected) - i
			r.log.Warnf("run cancelled, skipping %d remaining scenarios", result.Skipped)
			break launch
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(entry scenarioEntry) {
			defer wg.Done()
			defer func() { <-sem }()

			err := r.runScenario(entry)
			mu.Lock()
			if err != nil {
				result.Failed++
				result.Failures = append(result.Failures, fmt.Sprintf("%s: %v", entry.name, err))
			} else {
				result.Passed++
			}
			mu.Unlock()
		}(entry)
	}

	wg.Wait()
	sort.Strings(result.Failures)
	return result, nil
}

// runScenario runs one scenario with its before/after hooks. Any error,
// including a panic in the scenario function, becomes a recorded failure.
func (r *Runner) runScenario(entry scenarioEntry) (err error) {
	slog := r.log.ForScenario(entry.name)
	sink := r.run.Scenario(entry.name)

	sctx, teardown, err := r.setup(entry.name, slog, sink)
	if err != nil {
		slog.Errorf("setup failed: %v", err)
		sink.Fail(fmt.Errorf("setup: %w", err), nil)
		return fmt.Errorf("setup: %w", err)
	}
	defer teardown()

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
		if err != nil {
			slog.Errorf("scenario failed: %v", err)
			sink.Fail(err, r.captureFailure(sctx))
			return
		}
		slog.Infof("scenario passed")
		sink.Pass()
	}()

	slog.Infof("scenario started")
	return entry.fn(sctx)
}

// captureFailure grabs a screenshot for the report; best effort, a broken
// session just means no capture.
func (r *Runner) captureFailure(sctx *Context) []byte {
	if sctx == nil || sctx.Session == nil {
		return nil
	}
	png, err := sctx.Session.Screenshot()
	if err != nil {
		return nil
	}
	return png
}

// defaultSetup opens the scenario's workbook, starts its browser session
// and builds the retry engine. The returned teardown saves the workbook and
// releases both handles.
func (r *Runner) defaultSetup(name string, slog *logging.Logger, sink *report.Scenario) (*Context, func(), error) {
	store, err := testdata.Open(r.cfg.TestData.File, r.cfg.TestData.Sheet, r.cfg.TestData.CredentialsSheet)
	if err != nil {
		return nil, nil, err
	}

	row, err := store.Row(name)
	if err != nil {
		// Not every scenario carries workbook data.
		slog.Warnf("no test data row: %v", err)
		row = nil
	}

	session, err := r.manager.StartSession(name, browser.SessionOptions{
		Browser:          r.cfg.Browser,
		Headless:         r.cfg.Headless,
		ViewportWidth:    r.cfg.Viewport.Width,
		ViewportHeight:   r.cfg.Viewport.Height,
		DefaultTimeoutMS: float64(r.cfg.PageLoadTimeout().Milliseconds()),
	})
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	sctx := &Context{
		Scenario: name,
		Config:   r.cfg,
		Session:  session,
		Engine:   retry.NewEngine(session, r.cfg.ExplicitWait(), retry.WithLogger(slog)),
		Data:     row,
		Store:    store,
		Report:   sink,
		Log:      slog,
	}

	teardown := func() {
		if err := r.manager.CloseSession(name); err != nil {
			slog.Warnf("failed to close session: %v", err)
		}
		if err := store.Save(); err != nil {
			slog.Warnf("failed to save workbook: %v", err)
		}
		if err := store.Close(); err != nil {
			slog.Warnf("failed to close workbook: %v", err)
		}
	}
	return sctx, teardown, nil
}
