package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/ethereum-optimism/infra/shunit/types"
	"github.com/ethereum/go-ethereum/log"
)

var _ ScriptExecutor = (*scriptExecutor)(nil)

// Failure classification labels rendered as the report's type attribute
const (
	FailureTypeAssertion = "Assertion failed"
	FailureTypeIO        = "IO error"
	FailureTypeSignal    = "Abnormal termination"
)

// ScriptExecutor handles individual script execution and process management.
// Execute never fails: a script that cannot even be spawned still comes back
// as an errored case, so one bad entry never takes down the run.
type ScriptExecutor interface {
	// Execute spawns the script at spec.Path as a child process, waits for it
	// to terminate, and classifies the outcome.
	Execute(ctx context.Context, spec types.ScriptSpec) types.TestCase
}

// scriptExecutor implements ScriptExecutor
type scriptExecutor struct {
	cmdBuilder func(ctx context.Context, name string, arg ...string) *exec.Cmd
	echo       *ConsoleEcho // nil disables live output
}

// NewScriptExecutor creates an executor that runs scripts directly as child
// processes, no shell in between. Shebang line and executable bit are the
// script's responsibility. Pass a non-nil echo to stream child output to the
// console while scripts run.
func NewScriptExecutor(echo *ConsoleEcho) ScriptExecutor {
	return &scriptExecutor{
		cmdBuilder: exec.CommandContext,
		echo:       echo,
	}
}

// Execute runs a single script
func (e *scriptExecutor) Execute(ctx context.Context, spec types.ScriptSpec) types.TestCase {
	log.Info("Running script", "script", spec.Name, "path", spec.Path)

	tc := types.TestCase{
		Name:      spec.Name,
		Classname: spec.Classname,
	}

	cmd := e.cmdBuilder(ctx, spec.Path)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	var echoOut, echoErr io.WriteCloser
	if e.echo != nil {
		echoOut = e.echo.Writer(spec.Name)
		echoErr = e.echo.Writer(spec.Name)
		cmd.Stdout = io.MultiWriter(&stdoutBuf, echoOut)
		cmd.Stderr = io.MultiWriter(&stderrBuf, echoErr)
	}

	// Run copies both streams to completion before reporting termination, so
	// a chatty script cannot deadlock against a full pipe buffer and no
	// output is lost.
	startTime := time.Now()
	runErr := cmd.Run()
	tc.Duration = time.Since(startTime)

	if echoOut != nil {
		_ = echoOut.Close()
		_ = echoErr.Close()
	}

	tc.Stdout = stdoutBuf.String()
	tc.Stderr = stderrBuf.String()

	if runErr == nil {
		tc.Status = types.TestStatusPass
		return tc
	}

	exitErr := &exec.ExitError{}
	if !errors.As(runErr, &exitErr) {
		// The process never started: missing file, permission denied, etc.
		tc.Status = types.TestStatusError
		tc.FailureMessage = runErr.Error()
		tc.FailureType = FailureTypeIO
		log.Warn("Script could not be spawned", "script", spec.Name, "err", runErr)
		return tc
	}

	if code := exitErr.ExitCode(); code >= 0 {
		tc.Status = types.TestStatusFail
		tc.FailureMessage = fmt.Sprintf("Non-zero exit-code: %d", code)
		tc.FailureType = FailureTypeAssertion
		log.Warn("Script failed", "script", spec.Name, "exitCode", code)
		return tc
	}

	// ExitCode is -1 once the process has exited only when a signal killed it
	tc.Status = types.TestStatusError
	tc.FailureMessage = exitErr.ProcessState.String()
	tc.FailureType = FailureTypeSignal
	log.Warn("Script terminated by signal", "script", spec.Name, "state", exitErr.ProcessState.String())
	return tc
}
