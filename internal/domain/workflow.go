package domain

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"jsdelta.dev/pkg/jsdelta/internal/adapter"
	"jsdelta.dev/pkg/jsdelta/internal/controller"
	m "jsdelta.dev/pkg/jsdelta/internal/model"
)

// ReduceArgs contains the arguments of one reduction run.
type ReduceArgs struct {
	Options m.Options
}

// Workflow drives a complete reduction run.
type Workflow interface {
	Reduce(ctx context.Context, args ReduceArgs) error
}

type workflow struct {
	adapter.SourceFSAdapter
	adapter.CommandRunnerAdapter
	adapter.ReportStore
	controller.UI
	Reducer
	DirectoryReducer
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	runner adapter.CommandRunnerAdapter,
	reportStore adapter.ReportStore,
	ui controller.UI,
	reducer Reducer,
	directoryReducer DirectoryReducer,
) Workflow {
	return &workflow{
		SourceFSAdapter:      fsAdapter,
		CommandRunnerAdapter: runner,
		ReportStore:          reportStore,
		UI:                   ui,
		Reducer:              reducer,
		DirectoryReducer:     directoryReducer,
	}
}

// Reduce builds the oracle, runs a single-file or directory reduction and
// reports the outcome. The UI runs alongside the reduction and may cancel it.
func (w *workflow) Reduce(ctx context.Context, args ReduceArgs) error {
	opts := args.Options
	if err := opts.Validate(); err != nil {
		return err
	}

	runID := uuid.NewString()

	scratch, err := w.CreateTempDir("jsdelta-*")
	if err != nil {
		return fmt.Errorf("create scratch directory: %w", err)
	}

	handedOff := false

	defer func() {
		if !handedOff {
			_ = w.RemoveAll(scratch)
		}
	}()

	deps := OracleDeps{Runner: w.CommandRunnerAdapter, FS: w.SourceFSAdapter}
	if opts.MultiFile() {
		deps.OutputDir = scratch
	}

	oracle, err := BuildOracle(opts, deps)
	if err != nil {
		return err
	}

	defer closeOracle(oracle)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	input := opts.File

	mode := controller.WithSingleFileMode(input)
	if opts.MultiFile() {
		input = opts.Dir
		mode = controller.WithMultiFileMode(input)
	}

	if err := w.Start(runCtx, mode, controller.WithCancel(cancel)); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return err
	}

	defer w.Close(ctx)

	slog.Info("starting reduction", "run_id", runID, "input", input, "scratch", scratch)

	group, groupCtx := errgroup.WithContext(runCtx)

	group.Go(func() error {
		started := time.Now()

		var (
			report m.Report
			err    error
		)

		if opts.MultiFile() {
			report, err = w.reduceDir(groupCtx, opts, oracle)
		} else {
			report, err = w.reduceFile(groupCtx, opts, oracle, scratch)
		}

		if err != nil {
			slog.Error("Reduction failed", "run_id", runID, "error", err)
			cancel()

			return err
		}

		report.RunID = runID
		report.Input = input
		report.Scratch = scratch
		report.Duration = time.Since(started)

		if path, err := w.SaveReport(scratch, report); err != nil {
			slog.Warn("failed to save report", "error", err)
		} else {
			slog.Info("report saved", "path", path)
		}

		return w.DisplayReport(groupCtx, report)
	})

	group.Go(func() error {
		w.Wait(groupCtx)
		return nil
	})

	if err := group.Wait(); err != nil {
		return err
	}

	handedOff = true

	return nil
}

func (w *workflow) reduceFile(ctx context.Context, opts m.Options, oracle Oracle, scratch m.Path) (m.Report, error) {
	result, err := w.ReduceFile(ctx, ReduceFileArgs{
		Source:   opts.File,
		Scratch:  scratch,
		Oracle:   oracle,
		Quick:    opts.Quick,
		Fixpoint: opts.Fixpoint(),
		Optimize: opts.Optimize,
	})
	if err != nil {
		return m.Report{}, err
	}

	report := m.Report{
		Mode:         m.ModeSingleFile,
		Output:       result.Smallest,
		OriginalSize: result.OriginalSize,
		FinalSize:    result.FinalSize,
		Stats:        result.Stats,
	}

	if report.Original, err = w.ReadFile(opts.File); err != nil {
		slog.Warn("unable to read original for display", "error", err)
	}

	if report.Final, err = w.ReadFile(result.Smallest); err != nil {
		slog.Warn("unable to read result for display", "error", err)
	}

	if opts.Out != "" {
		if err := w.CopyFile(result.Smallest, opts.Out); err != nil {
			slog.Error("unable to copy result", "out", opts.Out, "error", err)
		} else {
			report.Output = opts.Out
		}
	}

	return report, nil
}

func (w *workflow) reduceDir(ctx context.Context, opts m.Options, oracle Oracle) (m.Report, error) {
	result, err := w.ReduceDir(ctx, ReduceDirArgs{
		Dir:      opts.Dir,
		Entry:    opts.File,
		Out:      opts.Out,
		Oracle:   oracle,
		Quick:    opts.Quick,
		Fixpoint: opts.Fixpoint(),
		Optimize: opts.Optimize,
	})
	if err != nil {
		return m.Report{}, err
	}

	return m.Report{
		Mode:         m.ModeMultiFile,
		Output:       result.Output,
		OriginalSize: result.OriginalSize,
		FinalSize:    result.FinalSize,
		Stats:        result.Stats,
	}, nil
}
