// Package config loads the harness configuration from a YAML file and
// applies defaults for anything the file leaves out. The configuration is
// read once at startup and shared read-only; per-scenario state lives in
// the scenario context, never here.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Viewport is the initial browser viewport size.
type Viewport struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Retry holds the engine defaults applied when a call site does not
// override them through its options.
type Retry struct {
	MaxAttempts        int  `yaml:"max_attempts"`
	BaseDelayMS        int  `yaml:"base_delay_ms"`
	ExponentialBackoff bool `yaml:"exponential_backoff"`
	Jitter             bool `yaml:"jitter"`
}

// TestData points the harness at the workbook backing the scenarios.
type TestData struct {
	File             string `yaml:"file"`
	Sheet            string `yaml:"sheet"`
	CredentialsSheet string `yaml:"credentials_sheet"`
}

// Config is the whole harness configuration.
type Config struct {
	AppURL   string   `yaml:"app_url"`
	Browser  string   `yaml:"browser"`
	Headless bool     `yaml:"headless"`
	Viewport Viewport `yaml:"viewport"`
	TeamName string   `yaml:"team_name"`

	ExplicitWaitSeconds    int `yaml:"explicit_wait_seconds"`
	PageLoadTimeoutSeconds int `yaml:"page_load_timeout_seconds"`
	MaxSessions            int `yaml:"max_sessions"`

	Retry    Retry    `yaml:"retry"`
	TestData TestData `yaml:"test_data"`

	ReportDir string `yaml:"report_dir"`
}

// Default returns the configuration used when no file overrides it.
func Default() *Config {
	return &Config{
		AppURL:                 "http://localhost",
		Browser:                "chromium",
		Headless:               true,
		Viewport:               Viewport{Width: 1280, Height: 720},
		TeamName:               "QA",
		ExplicitWaitSeconds:    20,
		PageLoadTimeoutSeconds: 30,
		MaxSessions:            8,
		Retry: Retry{
			MaxAttempts:        3,
			BaseDelayMS:        500,
			ExponentialBackoff: true,
			Jitter:             true,
		},
		TestData: TestData{
			File:             "testdata.xlsx",
			Sheet:            "Sheet1",
			CredentialsSheet: "Credentials",
		},
		ReportDir: "reports",
	}
}

// Load reads the YAML file at path over the defaults. A missing file is
// not an error; the defaults stand.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the fields that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	switch c.Browser {
	case "chromium", "firefox", "webkit":
	default:
		return fmt.Errorf("unsupported browser: %s", c.Browser)
	}
	if c.AppURL == "" {
		return fmt.Errorf("app_url must not be empty")
	}
	if c.ExplicitWaitSeconds <= 0 {
		return fmt.Errorf("explicit_wait_seconds must be positive, got %d", c.ExplicitWaitSeconds)
	}
	if c.PageLoadTimeoutSeconds <= 0 {
		return fmt.Errorf("page_load_timeout_seconds must be positive, got %d", c.PageLoadTimeoutSeconds)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	if c.Retry.BaseDelayMS <= 0 {
		return fmt.Errorf("retry.base_delay_ms must be positive, got %d", c.Retry.BaseDelayMS)
	}
	if c.MaxSessions < 1 {
		return fmt.Errorf("max_sessions must be at least 1, got %d", c.MaxSessions)
	}
	return nil
}

// ExplicitWait returns the per-attempt polling budget as a duration.
func (c *Config) ExplicitWait() time.Duration {
	return time.Duration(c.ExplicitWaitSeconds) * time.Second
}

// PageLoadTimeout returns the page-load budget as a duration.
func (c *Config) PageLoadTimeout() time.Duration {
	return time.Duration(c.PageLoadTimeoutSeconds) * time.Second
}

// RetryBaseDelay returns the backoff base as a duration.
func (c *Config) RetryBaseDelay() time.Duration {
	return time.Duration(c.Retry.BaseDelayMS) * time.Millisecond
}
