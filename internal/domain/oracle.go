package domain

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"jsdelta.dev/pkg/jsdelta/internal/adapter"
	m "jsdelta.dev/pkg/jsdelta/internal/model"
)

// Oracle decides whether a candidate still exhibits the behaviour under
// investigation. An error means the check could not be carried out at all;
// a check that ran and found nothing is a false verdict.
type Oracle interface {
	Test(ctx context.Context, candidate m.Path) (bool, error)
}

// OracleFunc adapts a function to the Oracle interface.
type OracleFunc func(ctx context.Context, candidate m.Path) (bool, error)

// Test implements Oracle.
func (f OracleFunc) Test(ctx context.Context, candidate m.Path) (bool, error) {
	return f(ctx, candidate)
}

// Initializer is implemented by oracles that take the trailing command line
// arguments of the run.
type Initializer interface {
	Init(args []string) error
}

// ResultChecker classifies a finished check.
type ResultChecker interface {
	CheckResult(exitErr error, stdout, stderr string) bool
}

// NewResultChecker returns the default classification. With errmsg or msg
// set a candidate is interesting when errmsg occurs in stderr or msg occurs in
// stdout or stderr; otherwise any failing exit is interesting.
func NewResultChecker(errmsg, msg string) ResultChecker {
	return resultChecker{errmsg: errmsg, msg: msg}
}

type resultChecker struct {
	errmsg string
	msg    string
}

func (c resultChecker) CheckResult(exitErr error, stdout, stderr string) bool {
	if c.errmsg == "" && c.msg == "" {
		if exitErr != nil {
			slog.Debug("aborted with error", "error", exitErr)
			return true
		}

		slog.Debug("completed successfully")

		return false
	}

	if c.errmsg != "" && strings.Contains(stderr, c.errmsg) {
		slog.Debug("aborted with relevant error", "errmsg", c.errmsg)
		return true
	}

	if c.msg != "" && (strings.Contains(stderr, c.msg) || strings.Contains(stdout, c.msg)) {
		slog.Debug("aborted with relevant message", "msg", c.msg)
		return true
	}

	if exitErr != nil {
		slog.Debug("aborted with other error", "error", exitErr)
	} else {
		slog.Debug("completed successfully")
	}

	return false
}

// shellName is passed as $0 to the shell running a command oracle.
const shellName = "jsdelta"

type commandOracle struct {
	runner  adapter.CommandRunnerAdapter
	fs      adapter.SourceFSAdapter
	command string
	checker ResultChecker
	timeout TimeoutPolicy
	// outputDir overrides where captured output is kept.
	outputDir m.Path
}

// TimeoutPolicy bounds each check and fixes the verdict of one that runs out
// of time.
type TimeoutPolicy struct {
	Limit       time.Duration
	Interesting bool
}

// CommandOption configures a command oracle.
type CommandOption func(*commandOracle)

// WithOutputDir keeps captured output in dir instead of next to the
// candidate. An empty dir keeps the default.
func WithOutputDir(dir m.Path) CommandOption {
	return func(o *commandOracle) {
		o.outputDir = dir
	}
}

// NewCommandOracle runs command through the shell with the candidate path as
// its last argument. Output is kept next to the candidate in .stdout and
// .stderr files and classified by checker.
func NewCommandOracle(
	runner adapter.CommandRunnerAdapter,
	fs adapter.SourceFSAdapter,
	command string,
	checker ResultChecker,
	timeout TimeoutPolicy,
	opts ...CommandOption,
) Oracle {
	o := &commandOracle{
		runner:  runner,
		fs:      fs,
		command: command,
		checker: checker,
		timeout: timeout,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

func (o *commandOracle) Test(ctx context.Context, candidate m.Path) (bool, error) {
	logCandidate(o.fs, candidate)

	result, err := o.runner.Run(ctx, adapter.Command{
		Name:    "sh",
		Args:    []string{"-c", o.command + ` "$1"`, shellName, string(candidate)},
		Timeout: o.timeout.Limit,
	})
	if err != nil {
		return false, fmt.Errorf("run %q: %w", o.command, err)
	}

	if err := o.keepOutput(candidate, result); err != nil {
		return false, err
	}

	if result.TimedOut {
		slog.Info("check timed out", "candidate", candidate, "interesting", o.timeout.Interesting)
		return o.timeout.Interesting, nil
	}

	return o.checker.CheckResult(result.ExitErr, result.Stdout, result.Stderr), nil
}

func (o *commandOracle) keepOutput(candidate m.Path, result adapter.CommandResult) error {
	base := candidate
	if o.outputDir != "" {
		base = o.fs.JoinPath(string(o.outputDir), filepath.Base(string(candidate)))
	}

	if err := o.fs.WriteFile(base+".stdout", []byte(result.Stdout), 0o600); err != nil {
		return fmt.Errorf("write stdout of %s: %w", candidate, err)
	}

	if err := o.fs.WriteFile(base+".stderr", []byte(result.Stderr), 0o600); err != nil {
		return fmt.Errorf("write stderr of %s: %w", candidate, err)
	}

	return nil
}

// programOracle runs a predicate program as `name args... candidate`; a zero
// exit status means the candidate is interesting.
type programOracle struct {
	runner  adapter.CommandRunnerAdapter
	fs      adapter.SourceFSAdapter
	name    string
	args    []string
	timeout TimeoutPolicy
}

// NewProgramOracle returns an oracle backed by a predicate program. The
// program's leading arguments are set with Init.
func NewProgramOracle(runner adapter.CommandRunnerAdapter, fs adapter.SourceFSAdapter, name string, timeout TimeoutPolicy) Oracle {
	return &programOracle{
		runner:  runner,
		fs:      fs,
		name:    name,
		timeout: timeout,
	}
}

// Init implements Initializer.
func (o *programOracle) Init(args []string) error {
	o.args = append([]string(nil), args...)
	return nil
}

func (o *programOracle) Test(ctx context.Context, candidate m.Path) (bool, error) {
	logCandidate(o.fs, candidate)

	args := append(append([]string(nil), o.args...), string(candidate))

	result, err := o.runner.Run(ctx, adapter.Command{
		Name:    o.name,
		Args:    args,
		Timeout: o.timeout.Limit,
	})
	if err != nil {
		return false, fmt.Errorf("run predicate %s: %w", o.name, err)
	}

	if result.TimedOut {
		slog.Info("predicate timed out", "candidate", candidate, "interesting", o.timeout.Interesting)
		return o.timeout.Interesting, nil
	}

	slog.Debug("predicate finished", "candidate", candidate, "exit_code", result.ExitCode)

	return result.ExitErr == nil, nil
}

func logCandidate(fs adapter.SourceFSAdapter, candidate m.Path) {
	info, err := fs.FileInfo(candidate)
	if err != nil {
		slog.Info("testing candidate", "candidate", candidate)
		return
	}

	slog.Info("testing candidate", "candidate", candidate, "size", info.Size())
}
