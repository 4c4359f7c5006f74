// Package controller provides output adapters for displaying reduction progress and results.
package controller

import (
	"context"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	m "jsdelta.dev/pkg/jsdelta/internal/model"
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode   m.Mode
	input  m.Path
	cancel context.CancelFunc
}

// WithSingleFileMode sets the UI up for reducing one file.
func WithSingleFileMode(input m.Path) StartOption {
	return func(c *StartConfig) {
		c.mode = m.ModeSingleFile
		c.input = input
	}
}

// WithMultiFileMode sets the UI up for reducing a directory tree.
func WithMultiFileMode(input m.Path) StartOption {
	return func(c *StartConfig) {
		c.mode = m.ModeMultiFile
		c.input = input
	}
}

// WithCancel lets an interactive UI abort the run.
func WithCancel(cancel context.CancelFunc) StartOption {
	return func(c *StartConfig) {
		c.cancel = cancel
	}
}

func newStartConfig(options []StartOption) StartConfig {
	cfg := StartConfig{mode: m.ModeSingleFile}
	for _, opt := range options {
		opt(&cfg)
	}

	return cfg
}

// UI defines the interface for displaying reduction progress.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	Wait(ctx context.Context) // Wait for UI to finish
	DisplayIteration(ctx context.Context, iteration int)
	DisplayTarget(ctx context.Context, target m.Target)
	DisplayCandidate(ctx context.Context, candidate m.Candidate)
	DisplayReport(ctx context.Context, report m.Report) error
}

// NewUI picks the interactive TUI when tty is set and the plain UI otherwise.
func NewUI(cmd *cobra.Command, tty bool) UI {
	if tty {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether f is an interactive terminal.
func IsTTY(f *os.File) bool {
	if f == nil {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
