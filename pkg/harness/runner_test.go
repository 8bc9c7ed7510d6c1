package harness

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/anvil/pkg/config"
	"github.com/entrhq/anvil/pkg/logging"
	"github.com/entrhq/anvil/pkg/report"
)

func newTestRunner(t *testing.T) *Runner {
	t.Helper()

	run, err := report.NewRun(t.TempDir())
	require.NoError(t, err)

	// A fallback logger is fine here; the runner only needs the interface.
	log, _ := logging.NewLogger("harness-test")
	t.Cleanup(func() { log.Close() })

	r := NewRunner(config.Default(), nil, run, log)
	r.setup = func(name string, slog *logging.Logger, sink *report.Scenario) (*Context, func(), error) {
		return &Context{
			Scenario: name,
			Config:   config.Default(),
			Report:   sink,
			Log:      slog,
		}, func() {}, nil
	}
	return r
}

func TestRunExecutesAllScenarios(t *testing.T) {
	r := newTestRunner(t)

	var mu sync.Mutex
	seen := map[string]bool{}
	record := func(sctx *Context) error {
		mu.Lock()
		seen[sctx.Scenario] = true
		mu.Unlock()
		return nil
	}
	r.Register("login-valid", record)
	r.Register("login-locked", record)
	r.Register("checkout", record)

	result, err := r.Run(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, 3, result.Passed)
	assert.Equal(t, 0, result.Failed)
	assert.True(t, result.OK())
	assert.Len(t, seen, 3)
}

func TestRunFiltersByGlob(t *testing.T) {
	r := newTestRunner(t)

	var ran int32
	r.Register("login-valid", func(*Context) error { atomic.AddInt32(&ran, 1); return nil })
	r.Register("login-locked", func(*Context) error { atomic.AddInt32(&ran, 1); return nil })
	r.Register("checkout", func(*Context) error { atomic.AddInt32(&ran, 1); return nil })

	result, err := r.Run(context.Background(), "login-*")
	require.NoError(t, err)

	assert.Equal(t, 2, result.Passed)
	assert.Equal(t, int32(2), atomic.LoadInt32(&ran))
}

func TestRunRecordsFailures(t *testing.T) {
	r := newTestRunner(t)

	r.Register("good", func(*Context) error { return nil })
	r.Register("bad", func(*Context) error { return errors.New("banner never appeared") })

	result, err := r.Run(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Passed)
	assert.Equal(t, 1, result.Failed)
	assert.False(t, result.OK())
	require.Len(t, result.Failures, 1)
	assert.Contains(t, result.Failures[0], "bad: banner never appeared")
}

func TestRunRecoversScenarioPanic(t *testing.T) {
	r := newTestRunner(t)

	r.Register("panicky", func(*Context) error { panic("nil page") })

	result, err := r.Run(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Failures, 1)
	assert.Contains(t, result.Failures[0], "panic: nil page")
}

func TestRunHonorsWorkerCap(t *testing.T) {
	r := newTestRunner(t)
	r.SetWorkers(1)

	var active, peak int32
	body := func(*Context) error {
		cur := atomic.AddInt32(&active, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if cur <= p || atomic.CompareAndSwapInt32(&peak, p, cur) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&active, -1)
		return nil
	}
	for _, name := range []string{"a", "b", "c", "d"} {
		r.Register(name, body)
	}

	result, err := r.Run(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, 4, result.Passed)
	assert.Equal(t, int32(1), atomic.LoadInt32(&peak))
}

func TestRunSkipsAfterCancellation(t *testing.T) {
	r := newTestRunner(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r.Register("never-a", func(*Context) error { t.Error("should not run"); return nil })
	r.Register("never-b", func(*Context) error { t.Error("should not run"); return nil })

	result, err := r.Run(ctx, "")
	require.NoError(t, err)

	assert.Equal(t, 0, result.Passed)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, 2, result.Skipped)
}

func TestRunRejectsInvalidPattern(t *testing.T) {
	r := newTestRunner(t)
	r.Register("anything", func(*Context) error { return nil })

	_, err := r.Run(context.Background(), "[")
	assert.Error(t, err)
}

func TestSetupFailureCountsAsScenarioFailure(t *testing.T) {
	r := newTestRunner(t)
	r.setup = func(string, *logging.Logger, *report.Scenario) (*Context, func(), error) {
		return nil, nil, errors.New("workbook locked")
	}
	r.Register("needs-data", func(*Context) error { return nil })

	result, err := r.Run(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Failed)
	assert.Contains(t, result.Failures[0], "setup: workbook locked")
}

func TestContextOptionsSeededFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Retry.MaxAttempts = 7
	sctx := &Context{Config: cfg}

	opts := sctx.Options().Build()
	assert.Equal(t, 7, opts.MaxAttempts())
}
