package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// Command describes one external process invocation.
type Command struct {
	Name string
	Args []string
	// Timeout bounds the run; zero means no limit.
	Timeout time.Duration
}

// CommandResult captures everything an oracle may classify.
type CommandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	// ExitErr is non-nil when the process exited non-zero or was killed.
	ExitErr  error
	TimedOut bool
	Duration time.Duration
}

// CommandRunnerAdapter abstracts process execution for the oracle.
type CommandRunnerAdapter interface {
	// Run executes the command and captures its output. A process that ran
	// and failed is reported through CommandResult; the returned error is
	// reserved for processes that could not be run at all.
	Run(ctx context.Context, command Command) (CommandResult, error)
}

// LocalCommandRunnerAdapter provides a concrete implementation using os/exec.
type LocalCommandRunnerAdapter struct {
	waitDelay time.Duration
}

// NewLocalCommandRunnerAdapter constructs a LocalCommandRunnerAdapter.
func NewLocalCommandRunnerAdapter() *LocalCommandRunnerAdapter {
	return &LocalCommandRunnerAdapter{
		waitDelay: time.Second,
	}
}

// Run executes the command in the current working directory.
func (a *LocalCommandRunnerAdapter) Run(ctx context.Context, command Command) (CommandResult, error) {
	runCtx := ctx

	if command.Timeout > 0 {
		var cancel context.CancelFunc

		runCtx, cancel = context.WithTimeout(ctx, command.Timeout)
		defer cancel()
	}

	// #nosec G204 - running the user's checker is the purpose of this adapter
	cmd := exec.CommandContext(runCtx, command.Name, command.Args...)
	cmd.WaitDelay = a.waitDelay

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()

	result := CommandResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitErr:  err,
		Duration: time.Since(start),
	}

	if err == nil {
		return result, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, ctxErr
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		result.TimedOut = true
		result.ExitCode = -1

		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}

	return result, fmt.Errorf("run %s: %w", command.Name, err)
}
