package domain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"jsdelta.dev/pkg/jsdelta/internal/adapter"
	m "jsdelta.dev/pkg/jsdelta/internal/model"
	"jsdelta.dev/pkg/jsdelta/pkg"
)

// OracleDeps are the adapters BuildOracle wires into the oracle stack.
type OracleDeps struct {
	Runner adapter.CommandRunnerAdapter
	FS     adapter.SourceFSAdapter
	// OutputDir receives the .stdout and .stderr files of command checks
	// instead of the candidate's own directory.
	OutputDir m.Path
}

// BuildOracle assembles the oracle for a run from its options. From the
// outside in: verdict recording, a content cache, then either the replay log
// or the live check. The cache is keyed by the content of the tested file, so
// it is left out in directory mode where the entry file stays the same while
// the tree around it changes. Oracles holding files implement io.Closer.
func BuildOracle(opts m.Options, deps OracleDeps) (Oracle, error) {
	live := opts.Command != "" || opts.Predicate != ""

	var (
		base Oracle
		err  error
	)

	switch {
	case opts.Replay != "" && live:
		return nil, ErrReplayAndCommand
	case opts.Replay != "":
		base, err = NewReplayOracle(opts.Replay)
		if err != nil {
			return nil, err
		}
	case live:
		base, err = newLiveOracle(opts, deps)
		if err != nil {
			return nil, err
		}

		if opts.CacheSize > 0 && !opts.MultiFile() {
			base, err = NewCachedOracle(base, deps.FS, opts.CacheSize)
			if err != nil {
				return nil, err
			}
		}
	default:
		return nil, ErrNoCommand
	}

	if opts.Record == "" {
		return base, nil
	}

	return NewRecordingOracle(base, opts.Record)
}

func newLiveOracle(opts m.Options, deps OracleDeps) (Oracle, error) {
	timeout := TimeoutPolicy{Limit: opts.Timeout, Interesting: opts.TimeoutInteresting}

	if opts.Predicate == "" {
		checker := NewResultChecker(opts.ErrMsg, opts.Msg)

		return NewCommandOracle(deps.Runner, deps.FS, opts.Command, checker, timeout, WithOutputDir(deps.OutputDir)), nil
	}

	oracle := NewProgramOracle(deps.Runner, deps.FS, opts.Predicate, timeout)

	if initializer, ok := oracle.(Initializer); ok {
		if err := initializer.Init(opts.PredicateArgs); err != nil {
			return nil, fmt.Errorf("init predicate %s: %w", opts.Predicate, err)
		}
	}

	return oracle, nil
}

// closeOracle releases whatever the oracle holds open.
func closeOracle(o Oracle) {
	c, ok := o.(io.Closer)
	if !ok {
		return
	}

	if err := c.Close(); err != nil {
		slog.Error("failed to close oracle", "error", err)
	}
}

type recordingOracle struct {
	inner Oracle
	log   pkg.VerdictLog
}

// NewRecordingOracle appends every verdict of inner to a fresh log at path.
func NewRecordingOracle(inner Oracle, path m.Path) (Oracle, error) {
	log, err := pkg.CreateVerdictLog(string(path))
	if err != nil {
		return nil, fmt.Errorf("create record log: %w", err)
	}

	return &recordingOracle{inner: inner, log: log}, nil
}

func (o *recordingOracle) Test(ctx context.Context, candidate m.Path) (bool, error) {
	verdict, err := o.inner.Test(ctx, candidate)
	if err != nil {
		return false, err
	}

	if err := o.log.Append(verdict); err != nil {
		return false, err
	}

	return verdict, nil
}

func (o *recordingOracle) Close() error {
	closeOracle(o.inner)
	return o.log.Close()
}

type replayOracle struct {
	log       pkg.VerdictLog
	mu        sync.Mutex
	next      uint64
	exhausted bool
}

// NewReplayOracle answers from a recorded log, one verdict per call in
// order. Once the log runs out every further verdict is false.
func NewReplayOracle(path m.Path) (Oracle, error) {
	log, err := pkg.OpenVerdictLog(string(path))
	if err != nil {
		return nil, fmt.Errorf("open replay log: %w", err)
	}

	return &replayOracle{log: log}, nil
}

func (o *replayOracle) Test(_ context.Context, candidate m.Path) (bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.next >= o.log.Len() {
		if !o.exhausted {
			slog.Warn("replay log exhausted, treating remaining candidates as uninteresting", "path", o.log.Path(), "verdicts", o.log.Len())
			o.exhausted = true
		}

		return false, nil
	}

	verdict, err := o.log.Get(o.next)
	if err != nil {
		return false, err
	}

	o.next++
	slog.Info("replayed verdict", "candidate", candidate, "verdict", verdict)

	return verdict, nil
}

func (o *replayOracle) Close() error {
	return o.log.Close()
}

type cachedOracle struct {
	inner Oracle
	fs    adapter.SourceFSAdapter
	cache *lru.Cache[string, bool]
}

// NewCachedOracle remembers the verdicts of inner by candidate content, so
// byte-identical candidates are only checked once.
func NewCachedOracle(inner Oracle, fs adapter.SourceFSAdapter, size int) (Oracle, error) {
	cache, err := lru.New[string, bool](size)
	if err != nil {
		return nil, fmt.Errorf("create verdict cache: %w", err)
	}

	return &cachedOracle{inner: inner, fs: fs, cache: cache}, nil
}

func (o *cachedOracle) Test(ctx context.Context, candidate m.Path) (bool, error) {
	content, err := o.fs.ReadFile(candidate)
	if err != nil {
		return o.inner.Test(ctx, candidate)
	}

	sum := sha256.Sum256(content)
	key := hex.EncodeToString(sum[:])

	if verdict, ok := o.cache.Get(key); ok {
		slog.Debug("cached verdict", "candidate", candidate, "verdict", verdict)
		return verdict, nil
	}

	verdict, err := o.inner.Test(ctx, candidate)
	if err != nil {
		return false, err
	}

	o.cache.Add(key, verdict)

	return verdict, nil
}

func (o *cachedOracle) Close() error {
	closeOracle(o.inner)
	return nil
}

type validityOracle struct {
	inner Oracle
	fs    adapter.SourceFSAdapter
	files adapter.SourceFileAdapter
	kind  m.Kind
}

// newValidityOracle rejects structurally invalid candidates before inner is
// consulted.
func newValidityOracle(inner Oracle, fs adapter.SourceFSAdapter, files adapter.SourceFileAdapter, kind m.Kind) Oracle {
	return &validityOracle{inner: inner, fs: fs, files: files, kind: kind}
}

func (o *validityOracle) Test(ctx context.Context, candidate m.Path) (bool, error) {
	content, err := o.fs.ReadFile(candidate)
	if err != nil {
		return false, fmt.Errorf("read candidate %s: %w", candidate, err)
	}

	if !o.files.Valid(ctx, o.kind, content) {
		slog.Debug("candidate rejected as invalid", "candidate", candidate, "kind", o.kind)
		return false, nil
	}

	return o.inner.Test(ctx, candidate)
}
