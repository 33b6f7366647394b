package runner

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ethereum-optimism/infra/shunit/metrics"
	"github.com/ethereum-optimism/infra/shunit/registry"
	"github.com/ethereum-optimism/infra/shunit/types"
	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// SuiteRunner defines the interface for running a suite of scripts
type SuiteRunner interface {
	// RunAll executes every registered script and assembles the results
	// into a suite. Cases land in input order regardless of completion
	// order, and one script failing or hanging never aborts the others.
	RunAll(ctx context.Context) (*types.TestSuite, error)
}

// runner implements SuiteRunner
type runner struct {
	scripts       []types.ScriptSpec
	suiteName     string
	concurrency   int  // Maximum scripts in flight; 0 means no cap
	envProperties bool // Record the process environment as suite properties
	executor      ScriptExecutor
	log           log.Logger
	tracer        trace.Tracer
}

// Config holds configuration for creating a new runner
type Config struct {
	Registry      *registry.Registry
	SuiteName     string
	Concurrency   int  // Maximum scripts in flight; 0 means no cap
	EnvProperties bool // Record the process environment as suite properties
	Executor      ScriptExecutor
	Log           log.Logger
}

// NewSuiteRunner creates a new suite runner instance
func NewSuiteRunner(cfg Config) (SuiteRunner, error) {
	if cfg.Registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if cfg.Concurrency < 0 {
		return nil, fmt.Errorf("concurrency cannot be negative, got %d", cfg.Concurrency)
	}
	if cfg.Log == nil {
		cfg.Log = log.New()
		cfg.Log.Error("No logger provided, using default")
	}
	if cfg.Executor == nil {
		cfg.Executor = NewScriptExecutor(nil)
	}

	cfg.Log.Debug("NewSuiteRunner()", "suiteName", cfg.SuiteName,
		"concurrency", cfg.Concurrency, "envProperties", cfg.EnvProperties,
		"len(scripts)", len(cfg.Registry.GetScripts()))

	return &runner{
		scripts:       cfg.Registry.GetScripts(),
		suiteName:     cfg.SuiteName,
		concurrency:   cfg.Concurrency,
		envProperties: cfg.EnvProperties,
		executor:      cfg.Executor,
		log:           cfg.Log,
		tracer:        otel.Tracer("suite runner"),
	}, nil
}

// RunAll implements the SuiteRunner interface
func (r *runner) RunAll(ctx context.Context) (*types.TestSuite, error) {
	runID := uuid.New().String()

	ctx, span := r.tracer.Start(ctx, "run suite")
	defer span.End()

	r.log.Info("Running suite", "suite", r.suiteName, "runID", runID, "scripts", len(r.scripts))

	start := time.Now()
	cases := make([]types.TestCase, len(r.scripts))

	p := pool.New()
	if r.concurrency > 0 {
		p = p.WithMaxGoroutines(r.concurrency)
	}
	for i, spec := range r.scripts {
		p.Go(func() {
			ctx, span := r.tracer.Start(ctx, spec.Name)
			defer span.End()

			// Each task writes only its own input slot, so the assembled
			// suite keeps report order no matter when scripts finish.
			cases[i] = r.executor.Execute(ctx, spec)
			metrics.RecordScriptResult(r.suiteName, runID, spec.Name, cases[i].Status)
		})
	}
	p.Wait()

	suite := types.NewTestSuite(r.suiteName, cases)
	suite.Duration = time.Since(start)
	suite.Timestamp = time.Now().UTC()
	suite.RunID = runID
	if hostname, err := os.Hostname(); err == nil {
		suite.Hostname = hostname
	}
	if r.envProperties {
		suite.Properties = envProperties(os.Environ())
	}

	metrics.RecordRun(r.suiteName, runID, string(suite.Status), suite.Stats, suite.Duration)

	r.log.Info("Suite complete", "suite", r.suiteName, "runID", runID,
		"status", suite.Status, "duration", suite.Duration)

	return suite, nil
}

// envProperties converts the process environment into suite properties
func envProperties(environ []string) map[string]string {
	props := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		props[k] = v
	}
	return props
}
