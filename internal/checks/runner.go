package checks

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/lucasnoah/refinery/internal/sandbox"
)

// Invocation holds the structured outcome of one subprocess call.
// Executed is true iff the process ran to completion, including runs where
// the tool itself exited non-zero: the tool's verdict lives in RawOutput and
// ExitCode, not in ExecutionError. ExecutionError is set only when the runner
// could not run the tool at all (violation, missing target, missing binary,
// timeout).
type Invocation struct {
	Executed       bool   `json:"executed"`
	ExitCode       int    `json:"exit_code"`
	Stdout         string `json:"stdout,omitempty"`
	Stderr         string `json:"stderr,omitempty"`
	RawOutput      string `json:"raw_output"`
	ExecutionError string `json:"execution_error,omitempty"`
	DurationMs     int    `json:"duration_ms"`
}

// CommandRunner abstracts command execution for testability.
type CommandRunner interface {
	Run(ctx context.Context, name string, args []string) (stdout string, stderr string, exitCode int, err error)
}

// ExecRunner implements CommandRunner by spawning the process directly.
type ExecRunner struct{}

func (e *ExecRunner) Run(ctx context.Context, name string, args []string) (string, string, int, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdoutBuf, stderrBuf strings.Builder
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && ctx.Err() == nil {
			exitCode = exitErr.ExitCode()
			err = nil
		}
	}
	return stdoutBuf.String(), stderrBuf.String(), exitCode, err
}

// Runner executes checker tools against files confined by a sandbox guard.
type Runner struct {
	guard *sandbox.Guard
	cmd   CommandRunner
}

// NewRunner creates a Runner with the given guard and command runner.
func NewRunner(guard *sandbox.Guard, cmd CommandRunner) *Runner {
	return &Runner{guard: guard, cmd: cmd}
}

// Run executes a checker tool against target with a timeout. command holds
// the executable and its leading arguments; target is appended as the final
// argument after sandbox validation. Run never returns an error: every
// execution-level fault is carried in the Invocation.
func (r *Runner) Run(ctx context.Context, command []string, target string, timeout time.Duration) Invocation {
	if len(command) == 0 {
		return Invocation{ExecutionError: "empty command"}
	}

	safe, err := r.guard.Validate(target)
	if err != nil {
		return Invocation{ExecutionError: err.Error()}
	}
	if _, err := os.Stat(safe); err != nil {
		return Invocation{ExecutionError: fmt.Sprintf("target not found: %s", target)}
	}

	if timeout <= 0 {
		timeout = time.Minute
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := append(append([]string{}, command[1:]...), safe)

	start := time.Now()
	stdout, stderr, exitCode, err := r.cmd.Run(runCtx, command[0], args)
	durationMs := int(time.Since(start).Milliseconds())

	inv := Invocation{
		ExitCode:   exitCode,
		Stdout:     stdout,
		Stderr:     stderr,
		RawOutput:  stdout + stderr,
		DurationMs: durationMs,
	}

	if err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			inv.RawOutput += "\nTimeout reached."
			inv.ExecutionError = fmt.Sprintf("timed out after %s", timeout)
			return inv
		}
		inv.ExecutionError = err.Error()
		return inv
	}

	inv.Executed = true
	return inv
}
