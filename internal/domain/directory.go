package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"jsdelta.dev/pkg/jsdelta/internal/adapter"
	"jsdelta.dev/pkg/jsdelta/internal/controller"
	m "jsdelta.dev/pkg/jsdelta/internal/model"
)

// DirectoryReducer minimises a directory tree around an entry file.
type DirectoryReducer interface {
	ReduceDir(ctx context.Context, args ReduceDirArgs) (DirResult, error)
}

// ReduceDirArgs configures a directory reduction.
type ReduceDirArgs struct {
	Dir m.Path
	// Entry is the file the oracle is run on, relative to Dir.
	Entry m.Path
	// Out optionally receives a copy of the reduced tree.
	Out      m.Path
	Oracle   Oracle
	Quick    bool
	Fixpoint bool
	Optimize bool
}

// DirResult summarises a finished directory reduction.
type DirResult struct {
	// WorkRoot is the working copy that was reduced in place.
	WorkRoot m.Path
	// Output is Out when the copy succeeded and WorkRoot otherwise.
	Output       m.Path
	OriginalSize int64
	FinalSize    int64
	Passes       int
	Stats        m.Stats
}

type directoryReducer struct {
	adapter.SourceFSAdapter
	controller.UI
	Reducer
}

// NewDirectoryReducer creates a DirectoryReducer that hands surviving source
// files to reducer.
func NewDirectoryReducer(fsAdapter adapter.SourceFSAdapter, ui controller.UI, reducer Reducer) DirectoryReducer {
	return &directoryReducer{
		SourceFSAdapter: fsAdapter,
		UI:              ui,
		Reducer:         reducer,
	}
}

// ReduceDir works on a copy of args.Dir. Each pass visits the tree in sorted
// order trying to delete every entry; what has to stay is descended into, or
// for source files reduced by a session. The entry file is reduced last.
// Passes repeat while the tree fingerprint changes.
func (d *directoryReducer) ReduceDir(ctx context.Context, args ReduceDirArgs) (DirResult, error) {
	entry := d.JoinPath(string(args.Dir), string(args.Entry))
	if _, err := d.FileInfo(entry); err != nil {
		return DirResult{}, fmt.Errorf("%w: %s", ErrEntryNotFound, entry)
	}

	work, err := d.CreateTempDir("jsdelta-multifile-*")
	if err != nil {
		return DirResult{}, fmt.Errorf("create working copy: %w", err)
	}

	handedOff := false

	defer func() {
		if handedOff {
			return
		}

		if err := d.RemoveAll(work); err != nil {
			slog.Warn("failed to remove working copy", "path", work, "error", err)
		}
	}()

	if err := d.CopyDir(args.Dir, work); err != nil {
		return DirResult{}, fmt.Errorf("copy %s: %w", args.Dir, err)
	}

	backupRoot, err := d.CreateTempDir("jsdelta-backup-*")
	if err != nil {
		return DirResult{}, fmt.Errorf("create backup directory: %w", err)
	}

	defer func() {
		if err := d.RemoveAll(backupRoot); err != nil {
			slog.Warn("failed to remove backup directory", "path", backupRoot, "error", err)
		}
	}()

	slog.Info("running in multi-file mode", "dir", args.Dir, "entry", args.Entry, "work", work)

	ds := &dirSession{
		directoryReducer: d,
		args:             args,
		root:             work,
		entry:            d.JoinPath(string(work), string(args.Entry)),
		backups:          &backups{fs: d.SourceFSAdapter, root: backupRoot},
	}

	result := DirResult{WorkRoot: work, Output: work}

	if result.OriginalSize, err = d.treeSize(work); err != nil {
		return DirResult{}, err
	}

	fingerprint, err := d.HashTree(work)
	if err != nil {
		return DirResult{}, fmt.Errorf("fingerprint %s: %w", work, err)
	}

	for {
		result.Passes++
		slog.Info("multi-file fixpoint iteration", "pass", result.Passes)

		if err := ds.pass(ctx); err != nil {
			return DirResult{}, err
		}

		next, err := d.HashTree(work)
		if err != nil {
			return DirResult{}, fmt.Errorf("fingerprint %s: %w", work, err)
		}

		changed := next != fingerprint
		fingerprint = next

		if !args.Fixpoint || !changed {
			break
		}
	}

	if result.FinalSize, err = d.treeSize(work); err != nil {
		return DirResult{}, err
	}

	result.Stats = ds.stats

	if args.Out != "" {
		if err := d.CopyDir(work, args.Out); err != nil {
			slog.Error("unable to copy result", "out", args.Out, "error", err)
		} else {
			result.Output = args.Out
		}
	}

	slog.Info("directory reduced", "output", result.Output, "passes", result.Passes, "deleted", ds.stats.Deleted)

	handedOff = true

	return result, nil
}

func (d *directoryReducer) treeSize(root m.Path) (int64, error) {
	var total int64

	err := d.Walk(root, true, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() {
			total += info.Size()
		}

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("measure %s: %w", root, err)
	}

	return total, nil
}

// dirSession is the state of one ReduceDir call.
type dirSession struct {
	*directoryReducer
	args    ReduceDirArgs
	root    m.Path
	entry   m.Path
	backups *backups
	stats   m.Stats
}

func (ds *dirSession) pass(ctx context.Context) error {
	if err := ds.visit(ctx, ds.root, 0); err != nil {
		return err
	}

	ds.target(ctx, ds.entry, 0, false)

	if !m.IsSource(ds.entry) {
		return nil
	}

	return ds.reduceFile(ctx, ds.entry)
}

func (ds *dirSession) visit(ctx context.Context, dir m.Path, depth int) error {
	children, err := ds.ReadDirSorted(dir)
	if err != nil {
		return fmt.Errorf("list %s: %w", dir, err)
	}

	for _, child := range children {
		if err := ctx.Err(); err != nil {
			return err
		}

		if child == ds.entry {
			continue
		}

		info, err := ds.FileInfo(child)
		if err != nil {
			slog.Warn("skipping entry", "path", child, "error", err)
			continue
		}

		ds.target(ctx, child, depth, info.IsDir())

		if info.IsDir() && ds.holdsEntry(child) {
			if err := ds.visit(ctx, child, depth+1); err != nil {
				return err
			}

			continue
		}

		removed, err := ds.tryRemove(ctx, child, info.IsDir())
		if err != nil {
			return err
		}

		if removed {
			ds.stats.Deleted++
			continue
		}

		switch {
		case info.IsDir():
			err = ds.visit(ctx, child, depth+1)
		case m.IsSource(child):
			err = ds.reduceFile(ctx, child)
		}

		if err != nil {
			return err
		}
	}

	return nil
}

// holdsEntry reports whether dir is an ancestor of the entry file, which
// must never be deleted.
func (ds *dirSession) holdsEntry(dir m.Path) bool {
	return strings.HasPrefix(string(ds.entry), string(dir)+string(filepath.Separator))
}

func (ds *dirSession) target(ctx context.Context, path m.Path, depth int, isDir bool) {
	rel, err := ds.RelPath(ds.root, path)
	if err != nil {
		rel = path
	}

	slog.Info("target changed", "path", rel, "depth", depth, "dir", isDir)
	ds.DisplayTarget(ctx, m.Target{Path: path, Rel: rel, Depth: depth, IsDir: isDir})
}

// tryRemove deletes target and keeps the deletion only if the entry is still
// interesting without it.
func (ds *dirSession) tryRemove(ctx context.Context, target m.Path, isDir bool) (removed bool, err error) {
	b, err := ds.backups.take(target, isDir)
	if err != nil {
		return false, err
	}

	defer func() {
		if releaseErr := b.release(); releaseErr != nil && err == nil {
			removed, err = false, releaseErr
		}
	}()

	if err := ds.RemoveAll(target); err != nil {
		return false, fmt.Errorf("remove %s: %w", target, err)
	}

	ok, err := ds.args.Oracle.Test(ctx, ds.entry)
	if err != nil {
		return false, err
	}

	if ok {
		b.commit()
	}

	return ok, nil
}

// fileOracle tests a session candidate for target by copying it into the
// tree and running the oracle on the entry file. The previous content is
// restored unless the candidate is interesting.
func (ds *dirSession) fileOracle(target m.Path) Oracle {
	return OracleFunc(func(ctx context.Context, candidate m.Path) (ok bool, err error) {
		b, err := ds.backups.take(target, false)
		if err != nil {
			return false, err
		}

		defer func() {
			if releaseErr := b.release(); releaseErr != nil && err == nil {
				ok, err = false, releaseErr
			}
		}()

		if err := ds.CopyFile(candidate, target); err != nil {
			return false, fmt.Errorf("install candidate %s: %w", candidate, err)
		}

		ok, err = ds.args.Oracle.Test(ctx, ds.entry)
		if err != nil {
			return false, err
		}

		if ok {
			b.commit()
		}

		return ok, nil
	})
}

// reduceFile runs a single-file session on target. Files that cannot be
// read, parsed or that are not interesting on their own are skipped.
func (ds *dirSession) reduceFile(ctx context.Context, target m.Path) error {
	scratch, err := ds.CreateTempDir("jsdelta-file-*")
	if err != nil {
		return fmt.Errorf("create scratch directory: %w", err)
	}

	defer func() {
		if err := ds.RemoveAll(scratch); err != nil {
			slog.Warn("failed to remove scratch directory", "path", scratch, "error", err)
		}
	}()

	result, err := ds.ReduceFile(ctx, ReduceFileArgs{
		Source:   target,
		Scratch:  scratch,
		Oracle:   ds.fileOracle(target),
		Quick:    ds.args.Quick,
		Fixpoint: ds.args.Fixpoint,
		Optimize: ds.args.Optimize,
	})
	if errors.Is(err, ErrNotReducible) || errors.Is(err, ErrOriginalNotInteresting) {
		slog.Warn("file is not reducible", "path", target, "error", err)
		return nil
	}

	if err != nil {
		return fmt.Errorf("reduce %s: %w", target, err)
	}

	ds.stats.Add(result.Stats)

	return nil
}
