// Package main provides the anvil command, the entry point of the browser
// test harness. It loads the configuration, starts the browser runtime,
// registers the scenario suite and runs the scenarios matching the
// requested pattern, each in its own isolated session.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/entrhq/anvil/pkg/browser"
	"github.com/entrhq/anvil/pkg/config"
	"github.com/entrhq/anvil/pkg/harness"
	"github.com/entrhq/anvil/pkg/logging"
	"github.com/entrhq/anvil/pkg/pages"
	"github.com/entrhq/anvil/pkg/report"
)

const version = "0.1.0"

// Flags holds the command line configuration.
type Flags struct {
	ConfigPath  string
	Pattern     string
	Workers     int
	Headless    bool
	HeadlessSet bool
	ShowVersion bool
}

func main() {
	flags := parseFlags()

	if flags.ShowVersion {
		fmt.Printf("anvil v%s\n", version)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nCancelling run, letting in-flight scenarios finish...")
		cancel()
	}()

	failed, err := run(ctx, flags)
	cancel()
	if err != nil {
		log.Fatalf("Run error: %v", err)
	}
	if failed {
		os.Exit(1)
	}
}

func parseFlags() *Flags {
	flags := &Flags{}

	flag.StringVar(&flags.ConfigPath, "config", "anvil.yaml", "Path to the YAML configuration file")
	flag.StringVar(&flags.Pattern, "run", "", "Glob pattern selecting scenarios to run (default: all)")
	flag.IntVar(&flags.Workers, "workers", 0, "Concurrent scenario limit (default: max_sessions from config)")
	flag.BoolVar(&flags.Headless, "headless", true, "Run browsers headless")
	flag.BoolVar(&flags.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "anvil - browser test harness\n\n")
		fmt.Fprintf(os.Stderr, "Usage: anvil [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  anvil                          # run every scenario\n")
		fmt.Fprintf(os.Stderr, "  anvil -run 'login-*'           # run the login scenarios\n")
		fmt.Fprintf(os.Stderr, "  anvil -workers 2 -headless=false\n")
	}

	flag.Parse()
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "headless" {
			flags.HeadlessSet = true
		}
	})
	return flags
}

func run(ctx context.Context, flags *Flags) (failed bool, err error) {
	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		return false, err
	}
	if flags.HeadlessSet {
		cfg.Headless = flags.Headless
	}

	logger, logErr := logging.NewLogger("anvil")
	if logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", logErr)
	}
	defer logger.Close()
	logger.Infof("anvil v%s starting, config %s", version, flags.ConfigPath)

	reportRun, err := report.NewRun(cfg.ReportDir)
	if err != nil {
		return false, err
	}

	manager := browser.NewManager()
	manager.SetMaxSessions(cfg.MaxSessions)
	if err := manager.Initialize(); err != nil {
		return false, fmt.Errorf("failed to initialize browser runtime: %w", err)
	}
	defer func() {
		if serr := manager.Shutdown(); serr != nil {
			logger.Errorf("browser shutdown: %v", serr)
		}
	}()

	runner := harness.NewRunner(cfg, manager, reportRun, logger)
	if flags.Workers > 0 {
		runner.SetWorkers(flags.Workers)
	}
	registerScenarios(runner)

	result, err := runner.Run(ctx, flags.Pattern)
	if err != nil {
		return false, err
	}

	reportPath, err := reportRun.Flush(cfg.TeamName)
	if err != nil {
		logger.Errorf("failed to write report: %v", err)
	} else {
		logger.Infof("report written to %s", reportPath)
	}

	fmt.Print(reportRun.Summary())
	if reportPath != "" {
		fmt.Printf("report: %s\n", reportPath)
	}
	if result.Skipped > 0 {
		fmt.Printf("%d scenarios skipped after cancellation\n", result.Skipped)
	}

	return !result.OK(), nil
}

// registerScenarios declares the scenario suite. Scenario names double as
// workbook row keys and report headings.
func registerScenarios(runner *harness.Runner) {
	runner.Register("login-valid", func(sctx *harness.Context) error {
		data, err := sctx.RequireData()
		if err != nil {
			return err
		}

		login := pages.NewLoginPage(sctx)
		if err := login.Open(); err != nil {
			return err
		}
		if err := login.Login(data.Username, data.Password); err != nil {
			return err
		}

		inventory := pages.NewInventoryPage(sctx)
		if err := login.AwaitReplaced(inventory.Root()); err != nil {
			return err
		}
		if err := inventory.AwaitLoaded(); err != nil {
			return err
		}
		if data.ExpectedTitle != "" {
			return inventory.ExpectTitle(data.ExpectedTitle)
		}
		return nil
	})

	runner.Register("login-locked-out", func(sctx *harness.Context) error {
		data, err := sctx.RequireData()
		if err != nil {
			return err
		}

		login := pages.NewLoginPage(sctx)
		if err := login.Open(); err != nil {
			return err
		}
		if err := login.Login(data.Username, data.Password); err != nil {
			return err
		}
		return login.ExpectError(data.ExpectedError)
	})

	runner.Register("add-to-cart", func(sctx *harness.Context) error {
		data, err := sctx.RequireData()
		if err != nil {
			return err
		}

		login := pages.NewLoginPage(sctx)
		if err := login.Open(); err != nil {
			return err
		}
		if err := login.Login(data.Username, data.Password); err != nil {
			return err
		}

		inventory := pages.NewInventoryPage(sctx)
		if err := inventory.AwaitLoaded(); err != nil {
			return err
		}
		if err := inventory.LoadAllItems(); err != nil {
			return err
		}
		if err := inventory.AddToCart(data.ProductName); err != nil {
			return err
		}

		count, err := inventory.CartCount()
		if err != nil {
			return err
		}
		return sctx.Store.WriteBack(sctx.Scenario, "order_number", count)
	})
}
