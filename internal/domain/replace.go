package domain

import (
	"context"

	"jsdelta.dev/pkg/jsdelta/internal/syntax"
)

// Replacement is a pending speculative write to one tree position.
type Replacement struct {
	s   *session
	ref syntax.Ref
}

// Replace starts a speculative write to ref.
func (s *session) Replace(ref syntax.Ref) Replacement {
	return Replacement{s: s, ref: ref}
}

// With stores value at the position and keeps it only if the resulting
// candidate is interesting. Storing the value already there, including
// clearing an empty position, succeeds without a test.
func (r Replacement) With(ctx context.Context, value *syntax.Node) (bool, error) {
	old := r.ref.Get()
	if old == value {
		return true, nil
	}

	if !r.ref.Valid() {
		return false, nil
	}

	r.ref.Set(value)

	ok, err := r.s.test(ctx)
	if err != nil || !ok {
		r.ref.Set(old)
		return false, err
	}

	return true, nil
}
