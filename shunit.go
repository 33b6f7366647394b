package shunit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/ethereum-optimism/infra/shunit/exitcodes"
	"github.com/ethereum-optimism/infra/shunit/registry"
	"github.com/ethereum-optimism/infra/shunit/reporting"
	"github.com/ethereum-optimism/infra/shunit/runner"
	"github.com/ethereum-optimism/infra/shunit/types"
	"github.com/ethereum-optimism/optimism/op-service/cliapp"
)

// shunit implements the cliapp.Lifecycle interface.
var _ cliapp.Lifecycle = &shunit{}

// shunit runs shell scripts as test cases and reports the results.
type shunit struct {
	ctx       context.Context
	config    *Config
	version   string
	registry  *registry.Registry
	runner    runner.SuiteRunner
	scheduler RunScheduler
	formatter ResultFormatter
	reporter  ReportWriter
	suite     *types.TestSuite

	shutdownCallback func(error) // Callback to signal application shutdown
}

func New(ctx context.Context, config *Config, version string, shutdownCallback func(error)) (*shunit, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}

	config.Log.Debug("Creating shunit with config",
		"scripts", len(config.Scripts),
		"manifest", config.Manifest,
		"output", config.Output,
		"runInterval", config.RunInterval,
		"runOnce", config.RunOnce,
		"concurrency", config.Concurrency)

	reg, err := registry.NewRegistry(registry.Config{
		Log:          config.Log,
		ManifestPath: config.Manifest,
		Args:         config.Scripts,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create registry: %w", err)
	}

	// The console shares stdout with the report unless the report goes to a file
	var console io.Writer = os.Stdout
	if config.Output == "" {
		console = os.Stderr
	}

	var executor runner.ScriptExecutor
	if config.LiveOutput {
		executor = runner.NewScriptExecutor(runner.NewConsoleEcho(console))
	}

	// Create runner with registry
	suiteRunner, err := runner.NewSuiteRunner(runner.Config{
		Registry:      reg,
		SuiteName:     resolveSuiteName(config, reg),
		Concurrency:   config.Concurrency,
		EnvProperties: config.EnvProperties,
		Executor:      executor,
		Log:           config.Log,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create suite runner: %w", err)
	}
	config.Log.Info("shunit.New: created registry and suite runner")

	return &shunit{
		ctx:              ctx,
		config:           config,
		version:          version,
		registry:         reg,
		runner:           suiteRunner,
		scheduler:        NewDefaultRunScheduler(config.RunInterval, config.RunOnce, config.Log),
		formatter:        NewConsoleResultFormatter(config.Log, console),
		reporter:         NewJUnitReportWriter(config.Log, reporting.NewJUnitSerializer(config.TimestampPrecision), reporting.NewSink(config.Output)),
		shutdownCallback: shutdownCallback,
	}, nil
}

// resolveSuiteName picks the report suite name. An explicit flag wins over
// the manifest, which wins over the working directory.
func resolveSuiteName(config *Config, reg *registry.Registry) string {
	if config.SuiteName != "" {
		return config.SuiteName
	}
	if name := reg.SuiteName(); name != "" {
		return name
	}
	if wd, err := os.Getwd(); err == nil && wd != "" {
		return wd
	}
	return "Unknown"
}

// Start runs the scripts, periodically when an interval is configured.
// Start implements the cliapp.Lifecycle interface.
func (s *shunit) Start(ctx context.Context) error {
	// Set up panic recovery to ensure we exit with code 2 for runtime errors
	defer func() {
		if r := recover(); r != nil {
			s.config.Log.Error("Runtime error occurred", "error", r)
			os.Exit(exitcodes.RuntimeErr)
		}
	}()

	s.ctx = ctx

	if len(s.registry.GetScripts()) == 0 {
		// Nothing to run means nothing to report and a clean exit
		s.config.Log.Warn("No scripts to run, exiting")
		go func() {
			s.shutdownCallback(nil)
		}()
		return nil
	}

	if s.config.RunOnce {
		s.config.Log.Info("Starting shunit in run-once mode")
	} else {
		s.config.Log.Info("Starting shunit in continuous mode", "interval", s.config.RunInterval)
	}

	// Run scripts immediately on startup
	s.scheduler.RegisterCallback(s.runScripts)
	if err := s.scheduler.Start(ctx); err != nil {
		// For runtime errors (like configuration issues), return exit code 2
		s.config.Log.Error("Runtime error running scripts", "error", err)
		return cli.Exit(err.Error(), 2)
	}

	// If in run-once mode, trigger shutdown and return
	if s.config.RunOnce {
		s.config.Log.Info("Run completed, exiting (run-once mode)")

		// Check if any scripts failed and return appropriate exit code
		if s.suite != nil && !s.suite.Passed() {
			s.config.Log.Warn("Run-once completed with failures, returning exit code 1")
			// Return exit code 1 for script failures
			return NewTestFailureError(s.suite.String())
		}

		// Only need to call this when we're in run-once mode and all scripts passed
		go func() {
			s.shutdownCallback(nil)
		}()
		return nil // Success (exit code 0)
	}

	s.config.Log.Debug("shunit started successfully")
	return nil
}

// runScripts runs all scripts once and processes the results
func (s *shunit) runScripts() error {
	s.config.Log.Info("Running all scripts...")
	suite, err := s.runner.RunAll(s.ctx)
	if err != nil {
		// This is a runtime error (not a script failure)
		s.config.Log.Error("Runtime error running scripts", "error", err)
		return NewRuntimeError(err)
	}
	s.suite = suite

	if err := s.reporter.WriteReport(suite); err != nil {
		s.config.Log.Error("Error writing report", "error", err)
		return NewRuntimeError(err)
	}

	if err := s.formatter.FormatResults(suite); err != nil {
		s.config.Log.Error("Error printing results", "error", err)
	}

	s.config.Log.Info("Script run completed", "run_id", suite.RunID, "status", suite.Status)
	return nil
}

// Stop stops the shunit service.
// Stop implements the cliapp.Lifecycle interface.
func (s *shunit) Stop(ctx context.Context) error {
	s.config.Log.Info("Stopping shunit")

	// Check if we're already stopped
	if s.scheduler.Stopped() {
		s.config.Log.Debug("Service already stopped, nothing to do")
		return nil
	}

	if err := s.scheduler.Stop(); err != nil {
		return err
	}

	s.config.Log.Info("shunit stopped successfully")
	return nil
}

// Stopped returns true if the shunit service is stopped.
// Stopped implements the cliapp.Lifecycle interface.
func (s *shunit) Stopped() bool {
	return s.scheduler.Stopped()
}

// WaitForShutdown blocks until all background goroutines have terminated.
func (s *shunit) WaitForShutdown(ctx context.Context) error {
	return s.scheduler.WaitForShutdown(ctx)
}
