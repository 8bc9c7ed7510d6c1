package logging

import (
	"os"
	"strings"
	"testing"
)

func TestRunIDIsStable(t *testing.T) {
	first := RunID()
	if first == "" {
		t.Fatal("RunID() returned empty")
	}
	if second := RunID(); second != first {
		t.Errorf("RunID() changed between calls: %q then %q", first, second)
	}
}

func TestLoggerWritesStructuredEntries(t *testing.T) {
	logger, err := NewLogger("engine")
	if err != nil {
		t.Skipf("file logging unavailable in this environment: %v", err)
	}
	defer logger.Close()

	logger.Infof("click succeeded on attempt %d", 2)
	logger.Warnf("stale element on %s", "#login")

	data, err := os.ReadFile(logger.LogPath())
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)

	if !strings.Contains(content, "[engine] [INFO] click succeeded on attempt 2") {
		t.Errorf("missing info entry in:\n%s", content)
	}
	if !strings.Contains(content, "[engine] [WARN] stale element on #login") {
		t.Errorf("missing warn entry in:\n%s", content)
	}
}

func TestForScenarioTagsComponent(t *testing.T) {
	logger, err := NewLogger("harness")
	if err != nil {
		t.Skipf("file logging unavailable in this environment: %v", err)
	}
	defer logger.Close()

	scoped := logger.ForScenario("valid-login")
	scoped.Infof("scenario started")

	data, err := os.ReadFile(logger.LogPath())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[harness/valid-login]") {
		t.Error("scenario logger entries must carry the scenario tag")
	}
}
