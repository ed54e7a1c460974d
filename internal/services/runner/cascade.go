package runner

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/denisAlshanov/mediagrab/internal/utils"
)

// MaxDiagnosticLength bounds the tool output carried in error messages.
const MaxDiagnosticLength = 500

type FailureKind string

const (
	FailureToolUnavailable FailureKind = "tool_unavailable"
	FailureRateLimited     FailureKind = "rate_limited"
	FailureBotDetected     FailureKind = "bot_detected"
	FailureTimeout         FailureKind = "timeout"
	FailureProcessFailed   FailureKind = "process_failed"
)

// Failure is the terminal outcome of a cascade.
type Failure struct {
	Kind       FailureKind
	Tool       string
	Message    string
	Diagnostic string
	Attempts   int
}

func (f *Failure) Error() string {
	return f.Message
}

// Attempt describes the invocation BuildArgs is asked to produce.
type Attempt struct {
	Launcher   Launcher
	Number     int
	Retry      int
	Capability bool
}

// Operation is one logical tool call and its retry budget.
type Operation struct {
	Tool        string
	InstallHint string
	Launchers   []Launcher
	BuildArgs   func(Attempt) []string
	Timeout     time.Duration
	Dir         string

	// RetryThrottled enables backoff on rate-limit and bot-challenge
	// signatures. Without it they are treated like any other failure.
	RetryThrottled bool
	Backoff        BackoffPolicy

	// Capability is passed to BuildArgs until the tool reports it
	// unavailable, after which it is dropped once.
	Capability bool
}

// Cascade runs an Operation across its launchers. Attempts are strictly
// sequential.
type Cascade struct {
	Runner Runner
	Sleep  func(ctx context.Context, d time.Duration) error
}

func NewCascade(r Runner) *Cascade {
	return &Cascade{Runner: r, Sleep: sleepContext}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type cascadeState struct {
	op         Operation
	launcher   int
	attempts   int
	retries    int
	capability bool
	allMissing bool
	diagnostic string
}

// step is what to do after a failed attempt.
type step int

const (
	stepNextLauncher step = iota
	stepRetrySame
	stepBackoff
	stepFail
)

// Run executes op and returns the result of the first clean exit.
func (c *Cascade) Run(ctx context.Context, op Operation) (*Result, error) {
	st := &cascadeState{op: op, capability: op.Capability, allMissing: true}
	sleep := c.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	for st.launcher < len(op.Launchers) {
		launcher := op.Launchers[st.launcher]
		st.attempts++

		cmd := launcher.Command(op.BuildArgs(Attempt{
			Launcher:   launcher,
			Number:     st.attempts,
			Retry:      st.retries,
			Capability: st.capability,
		}))
		cmd.Timeout = op.Timeout
		cmd.Dir = op.Dir

		utils.LogDebug(ctx, "Running tool attempt", utils.Fields{
			"tool":     op.Tool,
			"launcher": launcher.String(),
			"attempt":  st.attempts,
			"retry":    st.retries,
		})

		result, err := c.Runner.Run(ctx, cmd)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		var sig Signature
		switch {
		case err != nil && IsLaunchNotFound(err):
			sig = SignatureInterpreterMissing
		case err != nil:
			st.allMissing = false
			st.diagnostic = err.Error()
			st.launcher++
			continue
		case result.TimedOut:
			return nil, &Failure{
				Kind:     FailureTimeout,
				Tool:     op.Tool,
				Message:  fmt.Sprintf("%s timed out after %s", op.Tool, op.Timeout),
				Attempts: st.attempts,
			}
		case result.ExitCode == 0:
			return result, nil
		default:
			sig = Classify(result.Diagnostic())
			if sig != SignatureInterpreterMissing {
				st.allMissing = false
				st.diagnostic = result.Diagnostic()
			}
		}

		switch st.next(sig) {
		case stepNextLauncher:
			st.launcher++
		case stepRetrySame:
			utils.LogWarn(ctx, "Tool capability unavailable, retrying without it", utils.Fields{
				"tool":     op.Tool,
				"launcher": launcher.String(),
			})
		case stepBackoff:
			st.retries++
			delay := op.Backoff.Delay(st.retries, sig)
			utils.LogWarn(ctx, "Tool throttled, backing off", utils.Fields{
				"tool":      op.Tool,
				"signature": sig.String(),
				"retry":     st.retries,
				"delay":     delay.String(),
			})
			if err := sleep(ctx, delay); err != nil {
				return nil, err
			}
		case stepFail:
			return nil, st.throttledFailure(sig)
		}
	}

	return nil, st.exhaustedFailure()
}

// next is the decision table for a classified failure. It mutates the
// per-operation budgets it consumes.
func (st *cascadeState) next(sig Signature) step {
	switch sig {
	case SignatureInterpreterMissing:
		return stepNextLauncher
	case SignatureRateLimited, SignatureBotDetected:
		if !st.op.RetryThrottled {
			return stepNextLauncher
		}
		if st.retries >= st.op.Backoff.MaxRetries {
			return stepFail
		}
		return stepBackoff
	case SignatureCapabilityUnavailable:
		if st.capability {
			st.capability = false
			return stepRetrySame
		}
		return stepNextLauncher
	default:
		return stepNextLauncher
	}
}

func (st *cascadeState) throttledFailure(sig Signature) *Failure {
	f := &Failure{
		Tool:       st.op.Tool,
		Diagnostic: Truncate(st.diagnostic, MaxDiagnosticLength),
		Attempts:   st.attempts,
	}
	if sig == SignatureBotDetected {
		f.Kind = FailureBotDetected
		f.Message = fmt.Sprintf("Bot detection triggered after %d retries. Please try again later.", st.retries)
	} else {
		f.Kind = FailureRateLimited
		f.Message = fmt.Sprintf("Rate limited by the platform after %d retries. Please wait a few minutes and try again.", st.retries)
	}
	return f
}

func (st *cascadeState) exhaustedFailure() *Failure {
	if st.allMissing {
		return &Failure{
			Kind:     FailureToolUnavailable,
			Tool:     st.op.Tool,
			Message:  fmt.Sprintf("%s is not installed. Please install it: %s", st.op.Tool, st.op.InstallHint),
			Attempts: st.attempts,
		}
	}
	diagnostic := Truncate(st.diagnostic, MaxDiagnosticLength)
	if diagnostic == "" {
		diagnostic = "Unknown error"
	}
	return &Failure{
		Kind:       FailureProcessFailed,
		Tool:       st.op.Tool,
		Message:    fmt.Sprintf("%s failed: %s", st.op.Tool, diagnostic),
		Diagnostic: diagnostic,
		Attempts:   st.attempts,
	}
}

// Truncate shortens s to at most n bytes without splitting a UTF-8 sequence.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
