package controller

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	m "jsdelta.dev/pkg/jsdelta/internal/model"
)

// SimpleUI implements UI using cobra Command's output.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start prints the run header.
func (s *SimpleUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cfg := newStartConfig(options)
	s.printf("Reducing %s (%s)\n", cfg.input, cfg.mode)

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// Wait blocks until the UI is closed (no-op for SimpleUI).
func (s *SimpleUI) Wait(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
	// SimpleUI doesn't block - it just prints and continues
}

// DisplayIteration announces a new reduction pass.
func (s *SimpleUI) DisplayIteration(ctx context.Context, iteration int) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Iteration %d\n", iteration)
}

// DisplayTarget shows the file or directory being worked on.
func (s *SimpleUI) DisplayTarget(ctx context.Context, target m.Target) {
	if err := ctx.Err(); err != nil {
		return
	}

	kind := "file"
	if target.IsDir {
		kind = "dir"
	}

	s.printf("%*s%s %s\n", target.Depth*2, "", kind, target.Rel)
}

// DisplayCandidate prints accepted candidates only.
func (s *SimpleUI) DisplayCandidate(ctx context.Context, candidate m.Candidate) {
	if err := ctx.Err(); err != nil {
		return
	}

	if !candidate.Interesting {
		return
	}

	s.printf("  candidate %d accepted (%s)\n", candidate.Round, humanize.Bytes(uint64(max(candidate.Size, 0))))
}

// DisplayReport prints the summary table, and the result for small files.
func (s *SimpleUI) DisplayReport(ctx context.Context, report m.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\n%s", renderReport(report))

	return nil
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
