//go:build !windows

package runner

import (
	"context"
	"testing"
	"time"
)

func TestExecRunnerKillsProcessIgnoringTerm(t *testing.T) {
	r := NewExecRunner(300 * time.Millisecond)

	start := time.Now()
	res, err := r.Run(context.Background(), Command{
		Name:    "sh",
		Args:    []string{"-c", `trap "" TERM; sleep 10`},
		Timeout: 200 * time.Millisecond,
	})
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !res.TimedOut {
		t.Error("TimedOut = false, want true")
	}
	if elapsed < 450*time.Millisecond {
		t.Errorf("returned after %s, before the grace period ran out", elapsed)
	}
	if elapsed > 5*time.Second {
		t.Errorf("returned after %s, process was not killed", elapsed)
	}
}

func TestExecRunnerTermEndsProcessWithinGrace(t *testing.T) {
	r := NewExecRunner(5 * time.Second)

	start := time.Now()
	res, err := r.Run(context.Background(), Command{
		Name:    "sh",
		Args:    []string{"-c", "exec sleep 10"},
		Timeout: 200 * time.Millisecond,
	})
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !res.TimedOut {
		t.Error("TimedOut = false, want true")
	}
	if elapsed > 3*time.Second {
		t.Errorf("returned after %s, want the graceful signal to end it", elapsed)
	}
}

func TestExecRunnerCapturesOutput(t *testing.T) {
	res, err := NewExecRunner(time.Second).Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "echo out; echo err >&2; exit 3"},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.ExitCode != 3 || res.TimedOut {
		t.Errorf("ExitCode = %d, TimedOut = %v; want 3, false", res.ExitCode, res.TimedOut)
	}
	if res.Stdout != "out\n" || res.Stderr != "err\n" {
		t.Errorf("Stdout = %q, Stderr = %q", res.Stdout, res.Stderr)
	}
}
