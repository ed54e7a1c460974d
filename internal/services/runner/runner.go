// Package runner spawns the external media tools and drives the retry and
// fallback cascade around them.
package runner

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"time"

	"github.com/denisAlshanov/mediagrab/internal/utils"
)

// Command is one external invocation.
type Command struct {
	Name    string
	Args    []string
	Env     []string
	Dir     string
	Timeout time.Duration
}

// Result holds the outcome of a process that was started. A non-zero exit is
// not an error at this level.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	TimedOut bool
}

// Diagnostic is the text inspected for failure signatures.
func (r *Result) Diagnostic() string {
	if r.Stderr != "" {
		return r.Stderr
	}
	return r.Stdout
}

// Runner runs a command to completion. The error is reserved for launch
// failures such as a missing executable.
type Runner interface {
	Run(ctx context.Context, cmd Command) (*Result, error)
}

// ExecRunner is the os/exec backed Runner. On timeout the child receives a
// graceful signal and is killed if it is still alive after GracePeriod.
type ExecRunner struct {
	GracePeriod time.Duration
}

func NewExecRunner(gracePeriod time.Duration) *ExecRunner {
	return &ExecRunner{GracePeriod: gracePeriod}
}

func (r *ExecRunner) Run(ctx context.Context, c Command) (*Result, error) {
	runCtx := ctx
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	cmd.Cancel = func() error {
		return interrupt(cmd.Process)
	}
	cmd.WaitDelay = r.GracePeriod

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	utils.LogDebug(ctx, "Starting external process", utils.Fields{
		"command": c.Name,
		"args":    c.Args,
		"timeout": c.Timeout.String(),
	})

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	waitErr := cmd.Wait()
	result := &Result{
		ExitCode: cmd.ProcessState.ExitCode(),
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		result.TimedOut = true
		return result, nil
	}
	if ctx.Err() != nil {
		return result, ctx.Err()
	}

	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) && !errors.Is(waitErr, exec.ErrWaitDelay) {
		return result, waitErr
	}
	if result.ExitCode < 0 {
		// Killed by a signal we did not send.
		result.ExitCode = 1
	}

	return result, nil
}
