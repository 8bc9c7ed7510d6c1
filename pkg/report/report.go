// Package report collects per-scenario step records and renders them as an
// HTML report per run, plus a styled terminal summary. Each scenario worker
// owns its own Scenario sink; the Run aggregates them only at Flush, after
// the workers have joined.
package report

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/entrhq/anvil/pkg/browser"
)

// Status is a scenario's terminal state.
type Status string

const (
	StatusPassed Status = "passed"
	StatusFailed Status = "failed"
)

// Step is one recorded harness action within a scenario.
type Step struct {
	Time       time.Time
	Message    string
	Screenshot string // file name relative to the run directory, empty if none
	Snippet    template.HTML
	Failed     bool
}

// Scenario is the sink one scenario worker records into.
type Scenario struct {
	Name     string
	Status   Status
	Err      string
	Started  time.Time
	Finished time.Time
	Steps    []Step

	run *Run
}

// Run owns the report directory for one harness invocation.
type Run struct {
	id      string
	dir     string
	started time.Time

	mu        sync.Mutex
	scenarios []*Scenario
}

// NewRun creates the run's report directory under baseDir, named by a fresh
// run id.
func NewRun(baseDir string) (*Run, error) {
	id := uuid.New().String()
	dir := filepath.Join(baseDir, id)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}
	return &Run{id: id, dir: dir, started: time.Now()}, nil
}

// ID returns the run identifier.
func (r *Run) ID() string { return r.id }

// Dir returns the run's report directory.
func (r *Run) Dir() string { return r.dir }

// Scenario creates the sink for one scenario worker. Safe for concurrent
// callers; the returned sink itself is worker-confined.
func (r *Run) Scenario(name string) *Scenario {
	s := &Scenario{
		Name:    name,
		Status:  StatusPassed,
		Started: time.Now(),
		run:     r,
	}
	r.mu.Lock()
	r.scenarios = append(r.scenarios, s)
	r.mu.Unlock()
	return s
}

// Step records a plain step.
func (s *Scenario) Step(format string, v ...interface{}) {
	s.Steps = append(s.Steps, Step{
		Time:    time.Now(),
		Message: fmt.Sprintf(format, v...),
	})
}

// StepWithScreenshot records a step together with a PNG capture, written
// into the run directory.
func (s *Scenario) StepWithScreenshot(message string, png []byte) error {
	name, err := s.writeScreenshot(png)
	if err != nil {
		return err
	}
	s.Steps = append(s.Steps, Step{
		Time:       time.Now(),
		Message:    message,
		Screenshot: name,
	})
	return nil
}

// AttachSnippet records a step carrying a cleaned HTML fragment of the
// element under test, usually alongside a failure.
func (s *Scenario) AttachSnippet(message string, snippet browser.Snippet) {
	html := snippet.HTML
	if snippet.Truncated {
		html += " …"
	}
	s.Steps = append(s.Steps, Step{
		Time:    time.Now(),
		Message: message,
		// Escaped before embedding: the fragment is page content, not markup
		// we want rendered.
		Snippet: template.HTML(template.HTMLEscapeString(html)),
	})
}

// Fail marks the scenario failed with its terminal error. A screenshot is
// attached when one could be captured.
func (s *Scenario) Fail(err error, png []byte) {
	s.Status = StatusFailed
	s.Err = err.Error()
	step := Step{
		Time:    time.Now(),
		Message: fmt.Sprintf("failed: %v", err),
		Failed:  true,
	}
	if len(png) > 0 {
		if name, werr := s.writeScreenshot(png); werr == nil {
			step.Screenshot = name
		}
	}
	s.Steps = append(s.Steps, step)
	s.Finished = time.Now()
}

// Pass marks the scenario passed.
func (s *Scenario) Pass() {
	s.Status = StatusPassed
	s.Finished = time.Now()
}

// Duration returns the scenario's wall time.
func (s *Scenario) Duration() time.Duration {
	end := s.Finished
	if end.IsZero() {
		end = time.Now()
	}
	return end.Sub(s.Started)
}

func (s *Scenario) writeScreenshot(png []byte) (string, error) {
	name := fmt.Sprintf("%s-%d.png", sanitizeName(s.Name), len(s.Steps)+1)
	if err := os.WriteFile(filepath.Join(s.run.dir, name), png, 0640); err != nil {
		return "", fmt.Errorf("failed to write screenshot: %w", err)
	}
	return name, nil
}

func sanitizeName(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}

// Flush renders the HTML report into the run directory and returns its
// path. Call after all scenario workers have joined.
func (r *Run) Flush(teamName string) (string, error) {
	r.mu.Lock()
	scenarios := make([]*Scenario, len(r.scenarios))
	copy(scenarios, r.scenarios)
	r.mu.Unlock()

	sort.Slice(scenarios, func(i, j int) bool {
		return scenarios[i].Name < scenarios[j].Name
	})

	passed, failed := 0, 0
	for _, s := range scenarios {
		if s.Status == StatusPassed {
			passed++
		} else {
			failed++
		}
	}

	data := struct {
		RunID     string
		TeamName  string
		Started   time.Time
		Duration  time.Duration
		Passed    int
		Failed    int
		Scenarios []*Scenario
	}{
		RunID:     r.id,
		TeamName:  teamName,
		Started:   r.started,
		Duration:  time.Since(r.started).Round(time.Millisecond),
		Passed:    passed,
		Failed:    failed,
		Scenarios: scenarios,
	}

	path := filepath.Join(r.dir, "report.html")
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	if err := reportTemplate.Execute(file, data); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return path, nil
}

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"fmtTime": func(t time.Time) string { return t.Format("15:04:05.000") },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.TeamName}} run {{.RunID}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
h1 { font-size: 1.3em; }
.summary { margin-bottom: 1.5em; }
.passed { color: #2e7d32; }
.failed { color: #c62828; }
.scenario { border: 1px solid #ddd; border-radius: 4px; margin-bottom: 1em; padding: 0.8em; }
.scenario h2 { font-size: 1.05em; margin: 0 0 0.5em 0; }
.step { margin: 0.2em 0; font-size: 0.9em; }
.step.fail { color: #c62828; }
.step time { color: #888; margin-right: 0.6em; }
.snippet { background: #f5f5f5; padding: 0.4em; font-family: monospace; font-size: 0.85em; display: block; white-space: pre-wrap; }
img { max-width: 480px; display: block; margin: 0.4em 0; border: 1px solid #ccc; }
</style>
</head>
<body>
<h1>{{.TeamName}} &mdash; run {{.RunID}}</h1>
<div class="summary">
Started {{.Started.Format "2006-01-02 15:04:05"}}, took {{.Duration}}.
<span class="passed">{{.Passed}} passed</span>,
<span class="failed">{{.Failed}} failed</span>.
</div>
{{range .Scenarios}}
<div class="scenario">
<h2 class="{{.Status}}">{{.Name}} &mdash; {{.Status}} ({{.Duration.Round 1000000}})</h2>
{{if .Err}}<div class="step fail">{{.Err}}</div>{{end}}
{{range .Steps}}
<div class="step{{if .Failed}} fail{{end}}"><time>{{fmtTime .Time}}</time>{{.Message}}
{{if .Snippet}}<code class="snippet">{{.Snippet}}</code>{{end}}
{{if .Screenshot}}<img src="{{.Screenshot}}" alt="screenshot">{{end}}
</div>
{{end}}
</div>
{{end}}
</body>
</html>
`))
