package runner

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/ethereum-optimism/infra/shunit/registry"
	"github.com/ethereum-optimism/infra/shunit/types"
	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T, paths []string) *registry.Registry {
	t.Helper()
	reg, err := registry.NewRegistry(registry.Config{
		Log:  log.New(),
		Args: paths,
	})
	require.NoError(t, err)
	return reg
}

func newTestRunner(t *testing.T, cfg Config) SuiteRunner {
	t.Helper()
	if cfg.Log == nil {
		cfg.Log = log.New()
	}
	if cfg.SuiteName == "" {
		cfg.SuiteName = "checks"
	}
	r, err := NewSuiteRunner(cfg)
	require.NoError(t, err)
	return r
}

func TestNewSuiteRunnerValidation(t *testing.T) {
	_, err := NewSuiteRunner(Config{})
	require.Error(t, err)

	reg := newTestRegistry(t, nil)
	_, err = NewSuiteRunner(Config{Registry: reg, Concurrency: -1})
	require.Error(t, err)
}

func TestRunAllPreservesInputOrder(t *testing.T) {
	stub := &stubExecutor{delays: map[string]time.Duration{
		"a.sh": 150 * time.Millisecond,
		"b.sh": 80 * time.Millisecond,
		"c.sh": 10 * time.Millisecond,
	}}

	r := newTestRunner(t, Config{
		Registry: newTestRegistry(t, []string{"a.sh", "b.sh", "c.sh"}),
		Executor: stub,
	})

	suite, err := r.RunAll(context.Background())
	require.NoError(t, err)

	require.Len(t, suite.Cases, 3)
	assert.Equal(t, "a.sh", suite.Cases[0].Name)
	assert.Equal(t, "b.sh", suite.Cases[1].Name)
	assert.Equal(t, "c.sh", suite.Cases[2].Name)

	// The scripts finished in reverse order; the report must not care
	assert.Equal(t, []string{"c.sh", "b.sh", "a.sh"}, stub.completionOrder())
}

func TestRunAllIsolatesFailures(t *testing.T) {
	pass := writeScript(t, "pass.sh", "#!/bin/sh\nexit 0\n")
	fail := writeScript(t, "fail.sh", "#!/bin/sh\nexit 7\n")
	missing := "/nonexistent/shunit-test/gone.sh"

	r := newTestRunner(t, Config{
		Registry: newTestRegistry(t, []string{fail, missing, pass}),
	})

	suite, err := r.RunAll(context.Background())
	require.NoError(t, err)

	require.Len(t, suite.Cases, 3)
	assert.Equal(t, types.TestStatusFail, suite.Cases[0].Status)
	assert.Equal(t, "Non-zero exit-code: 7", suite.Cases[0].FailureMessage)
	assert.Equal(t, types.TestStatusError, suite.Cases[1].Status)
	assert.Equal(t, types.TestStatusPass, suite.Cases[2].Status)

	assert.Equal(t, types.TestStatusFail, suite.Status)
	assert.Equal(t, types.SuiteStats{Total: 3, Passed: 1, Failed: 1, Errored: 1}, suite.Stats)
}

func TestRunAllEmptySuitePasses(t *testing.T) {
	r := newTestRunner(t, Config{Registry: newTestRegistry(t, nil)})

	suite, err := r.RunAll(context.Background())
	require.NoError(t, err)

	assert.Empty(t, suite.Cases)
	assert.Equal(t, types.TestStatusPass, suite.Status)
	assert.True(t, suite.Passed())
}

func TestRunAllDurationIsWallClock(t *testing.T) {
	sleeper := "#!/bin/sh\nsleep 0.3\n"
	a := writeScript(t, "sleep-a.sh", sleeper)
	b := writeScript(t, "sleep-b.sh", sleeper)

	r := newTestRunner(t, Config{Registry: newTestRegistry(t, []string{a, b})})

	suite, err := r.RunAll(context.Background())
	require.NoError(t, err)

	// Concurrent runs span the longest script, not the sum
	assert.GreaterOrEqual(t, suite.Duration, 300*time.Millisecond)
	assert.Less(t, suite.Duration, 600*time.Millisecond)
}

func TestRunAllHonorsConcurrencyCap(t *testing.T) {
	sleeper := "#!/bin/sh\nsleep 0.2\n"
	a := writeScript(t, "sleep-a.sh", sleeper)
	b := writeScript(t, "sleep-b.sh", sleeper)

	r := newTestRunner(t, Config{
		Registry:    newTestRegistry(t, []string{a, b}),
		Concurrency: 1,
	})

	suite, err := r.RunAll(context.Background())
	require.NoError(t, err)

	assert.GreaterOrEqual(t, suite.Duration, 400*time.Millisecond)
}

func TestRunAllRecordsRunMetadata(t *testing.T) {
	r := newTestRunner(t, Config{Registry: newTestRegistry(t, nil)})

	suite, err := r.RunAll(context.Background())
	require.NoError(t, err)

	_, err = uuid.Parse(suite.RunID)
	assert.NoError(t, err)
	assert.False(t, suite.Timestamp.IsZero())
	assert.Equal(t, time.UTC, suite.Timestamp.Location())

	hostname, err := os.Hostname()
	require.NoError(t, err)
	assert.Equal(t, hostname, suite.Hostname)

	// Properties only appear on request
	assert.Nil(t, suite.Properties)
}

func TestRunAllEnvProperties(t *testing.T) {
	t.Setenv("SHUNIT_TEST_PROPERTY", "42")

	r := newTestRunner(t, Config{
		Registry:      newTestRegistry(t, nil),
		EnvProperties: true,
	})

	suite, err := r.RunAll(context.Background())
	require.NoError(t, err)

	require.NotNil(t, suite.Properties)
	assert.Equal(t, "42", suite.Properties["SHUNIT_TEST_PROPERTY"])
}

func TestEnvProperties(t *testing.T) {
	props := envProperties([]string{"A=1", "B=x=y", "MALFORMED", "=empty"})

	assert.Equal(t, "1", props["A"])
	assert.Equal(t, "x=y", props["B"], "values keep embedded separators")
	assert.NotContains(t, props, "MALFORMED")
	assert.NotContains(t, props, "")
}

// stubExecutor returns canned passing cases after a per-script delay and
// records completion order.
type stubExecutor struct {
	delays    map[string]time.Duration
	mu        sync.Mutex
	completed []string
}

func (s *stubExecutor) Execute(ctx context.Context, spec types.ScriptSpec) types.TestCase {
	if d := s.delays[spec.Name]; d > 0 {
		time.Sleep(d)
	}
	s.mu.Lock()
	s.completed = append(s.completed, spec.Name)
	s.mu.Unlock()
	return types.TestCase{Name: spec.Name, Classname: spec.Classname, Status: types.TestStatusPass}
}

func (s *stubExecutor) completionOrder() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.completed...)
}
