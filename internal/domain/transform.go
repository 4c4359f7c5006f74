package domain

import (
	"bytes"
	"context"
	"log/slog"

	m "jsdelta.dev/pkg/jsdelta/internal/model"
)

// transform runs every optimizing pass over the smallest artifact. A pass
// that fails, or does not shrink the pretty-printed code, is a no-op.
func (s *session) transform(ctx context.Context) error {
	for _, pass := range s.Passes() {
		ok, err := s.applyPass(ctx, pass)
		if err != nil {
			return err
		}

		if ok {
			s.succeeded = true
			s.stats.Transformed++
		}
	}

	return nil
}

func (s *session) applyPass(ctx context.Context, pass string) (bool, error) {
	current, err := s.ReadFile(s.smallest)
	if err != nil {
		slog.Warn("transformation skipped", "pass", pass, "error", err)
		return false, nil
	}

	orig := s.nextCandidate()
	if err := s.WriteFile(orig, current, 0o644); err != nil {
		slog.Warn("transformation skipped", "pass", pass, "error", err)
		return false, nil
	}

	slog.Info("transforming candidate", "pass", pass, "candidate", orig)

	transformed := s.nextCandidate()

	out, err := s.Apply(ctx, pass, current)
	if err != nil {
		slog.Info("transformation failed", "pass", pass, "error", err)
		return false, nil
	}

	out = append(bytes.TrimSpace(out), '\n')
	if err := s.WriteFile(transformed, out, 0o644); err != nil {
		slog.Warn("transformation skipped", "pass", pass, "error", err)
		return false, nil
	}

	if !s.shrinks(ctx, current, out) {
		slog.Debug("transformation did not shrink the code", "pass", pass)
		return false, nil
	}

	ok, err := s.oracle.Test(ctx, transformed)
	if err != nil {
		return false, err
	}

	s.DisplayCandidate(ctx, m.Candidate{
		Round:       s.round - 1,
		Path:        transformed,
		Size:        int64(len(out)),
		Interesting: ok,
	})

	if !ok {
		return false, nil
	}

	if err := s.WriteFile(s.smallest, out, 0o644); err != nil {
		slog.Warn("failed to keep transformation", "pass", pass, "error", err)
		return false, nil
	}

	s.stats.Successes++

	return true, nil
}

// shrinks compares both versions after pretty-printing them the same way.
func (s *session) shrinks(ctx context.Context, before, after []byte) bool {
	beforeSize, err := s.PrettySize(ctx, before)
	if err != nil {
		return false
	}

	afterSize, err := s.PrettySize(ctx, after)
	if err != nil {
		return false
	}

	return afterSize < beforeSize
}
