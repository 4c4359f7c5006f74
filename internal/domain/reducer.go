package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"jsdelta.dev/pkg/jsdelta/internal/adapter"
	"jsdelta.dev/pkg/jsdelta/internal/controller"
	m "jsdelta.dev/pkg/jsdelta/internal/model"
	"jsdelta.dev/pkg/jsdelta/internal/syntax"
)

// ErrNotReducible wraps failures to read or parse a source artifact.
var ErrNotReducible = errors.New("source is not reducible")

const (
	candidatePrefix = "delta_js_"
	smallestName    = candidatePrefix + "smallest"
)

// Reducer minimises a single source artifact.
type Reducer interface {
	ReduceFile(ctx context.Context, args ReduceFileArgs) (SessionResult, error)
}

// ReduceFileArgs configures one single-file session.
type ReduceFileArgs struct {
	Source m.Path
	// Scratch receives every candidate; a fresh directory is created when empty.
	Scratch  m.Path
	Oracle   Oracle
	Quick    bool
	Fixpoint bool
	Optimize bool
}

// SessionResult summarises a finished single-file session.
type SessionResult struct {
	Smallest     m.Path
	Scratch      m.Path
	OriginalSize int64
	FinalSize    int64
	// Reduced is true when at least one mutation was accepted.
	Reduced bool
	Stats   m.Stats
}

type reducer struct {
	adapter.SourceFSAdapter
	adapter.SourceFileAdapter
	adapter.TransformAdapter
	controller.UI
}

// NewReducer creates a Reducer from the provided adapters.
func NewReducer(
	fsAdapter adapter.SourceFSAdapter,
	fileAdapter adapter.SourceFileAdapter,
	transformAdapter adapter.TransformAdapter,
	ui controller.UI,
) Reducer {
	return &reducer{
		SourceFSAdapter:   fsAdapter,
		SourceFileAdapter: fileAdapter,
		TransformAdapter:  transformAdapter,
		UI:                ui,
	}
}

// ReduceFile runs a session to completion: the original is checked once,
// then reduction passes run until one of them changes nothing (or once, with
// Fixpoint unset).
func (r *reducer) ReduceFile(ctx context.Context, args ReduceFileArgs) (SessionResult, error) {
	src, err := r.ReadFile(args.Source)
	if err != nil {
		return SessionResult{}, fmt.Errorf("%w: read %s: %w", ErrNotReducible, args.Source, err)
	}

	scratch := args.Scratch
	handedOff := true

	if scratch == "" {
		scratch, err = r.CreateTempDir("jsdelta-*")
		if err != nil {
			return SessionResult{}, fmt.Errorf("create scratch directory: %w", err)
		}

		handedOff = false

		defer func() {
			if !handedOff {
				_ = r.RemoveAll(scratch)
			}
		}()
	}

	s := newSession(r, args, scratch)

	slog.Info("reducing file", "source", args.Source, "kind", s.kind, "scratch", scratch, "size", len(src))

	original := s.nextCandidate()
	if err := r.WriteFile(original, src, 0o644); err != nil {
		return SessionResult{}, fmt.Errorf("write original candidate: %w", err)
	}

	if err := r.WriteFile(s.smallest, src, 0o644); err != nil {
		return SessionResult{}, fmt.Errorf("write smallest: %w", err)
	}

	if _, err := r.Parse(ctx, s.kind, src); err != nil {
		return SessionResult{}, fmt.Errorf("%w: %s: %w", ErrNotReducible, args.Source, err)
	}

	if r.Valid(ctx, s.kind, src) {
		s.oracle = newValidityOracle(s.oracle, r.SourceFSAdapter, r.SourceFileAdapter, s.kind)
	} else {
		slog.Warn("original fails the structural check, candidates are not pre-validated", "source", args.Source)
	}

	ok, err := s.oracle.Test(ctx, original)
	if err != nil {
		return SessionResult{}, fmt.Errorf("test original: %w", err)
	}

	if !ok {
		slog.Error("original file does not satisfy the oracle", "source", args.Source)
		return SessionResult{}, fmt.Errorf("%w: %s", ErrOriginalNotInteresting, args.Source)
	}

	reduced, err := s.run(ctx, args)
	if err != nil {
		return SessionResult{}, err
	}

	final, err := r.FileInfo(s.smallest)
	if err != nil {
		return SessionResult{}, fmt.Errorf("stat smallest: %w", err)
	}

	s.stats.Rounds = s.round

	slog.Info("file reduced",
		"source", args.Source,
		"smallest", s.smallest,
		"original_size", len(src),
		"final_size", final.Size(),
		"iterations", s.stats.Iterations,
		"rounds", s.round,
	)

	handedOff = true

	return SessionResult{
		Smallest:     s.smallest,
		Scratch:      scratch,
		OriginalSize: int64(len(src)),
		FinalSize:    final.Size(),
		Reduced:      reduced,
		Stats:        s.stats,
	}, nil
}

// session is the mutable state of one single-file reduction. It is owned by
// a single ReduceFile call and never shared.
type session struct {
	*reducer
	oracle   Oracle
	kind     m.Kind
	ext      string
	scratch  m.Path
	smallest m.Path
	quick    bool
	root     *syntax.Slot
	// round numbers the next candidate.
	round int
	// succeeded records whether any candidate was accepted in the current pass.
	succeeded bool
	stats     m.Stats
}

func newSession(r *reducer, args ReduceFileArgs, scratch m.Path) *session {
	ext := m.Ext(args.Source)

	return &session{
		reducer:  r,
		oracle:   args.Oracle,
		kind:     m.DetectKind(args.Source),
		ext:      ext,
		scratch:  scratch,
		smallest: r.JoinPath(string(scratch), smallestName+"."+ext),
		quick:    args.Quick,
	}
}

func (s *session) run(ctx context.Context, args ReduceFileArgs) (bool, error) {
	reduced := false

	for {
		s.stats.Iterations++
		s.succeeded = false

		slog.Info("starting iteration", "iteration", s.stats.Iterations, "smallest", s.smallest)
		s.DisplayIteration(ctx, s.stats.Iterations)

		if err := s.rebuild(ctx); err != nil {
			return reduced, err
		}

		if err := s.minimise(ctx, syntax.FieldRef(s.root)); err != nil {
			return reduced, err
		}

		if args.Optimize && s.kind == m.KindCode {
			if err := s.transform(ctx); err != nil {
				return reduced, err
			}
		}

		reduced = reduced || s.succeeded

		if !args.Fixpoint || !s.succeeded {
			return reduced, nil
		}
	}
}

// rebuild reparses the smallest known good artifact.
func (s *session) rebuild(ctx context.Context) error {
	src, err := s.ReadFile(s.smallest)
	if err != nil {
		return fmt.Errorf("read smallest: %w", err)
	}

	tree, err := s.Parse(ctx, s.kind, src)
	if err != nil {
		return fmt.Errorf("%w: reparse %s: %w", ErrNotReducible, s.smallest, err)
	}

	s.root = syntax.NewRoot(tree)

	return nil
}

// nextCandidate returns the path of the next numbered candidate.
func (s *session) nextCandidate() m.Path {
	path := s.JoinPath(string(s.scratch), fmt.Sprintf("%s%d.%s", candidatePrefix, s.round, s.ext))
	s.round++

	return path
}

// test materialises the current tree as a new candidate and asks the oracle
// about it. An accepted candidate becomes the smallest known good artifact.
func (s *session) test(ctx context.Context) (bool, error) {
	content := s.Print(s.kind, s.root.Node)
	round := s.round
	candidate := s.nextCandidate()

	if err := s.WriteFile(candidate, content, 0o644); err != nil {
		return false, fmt.Errorf("write candidate: %w", err)
	}

	ok, err := s.oracle.Test(ctx, candidate)
	if err != nil {
		return false, err
	}

	s.DisplayCandidate(ctx, m.Candidate{
		Round:       round,
		Path:        candidate,
		Size:        int64(len(content)),
		Interesting: ok,
	})

	if !ok {
		return false, nil
	}

	if err := s.WriteFile(s.smallest, content, 0o644); err != nil {
		return false, fmt.Errorf("write smallest: %w", err)
	}

	s.succeeded = true
	s.stats.Successes++

	return true, nil
}
