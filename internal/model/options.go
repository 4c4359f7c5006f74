package model

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Options holds the reduction options of a single run.
type Options struct {
	// File is the artifact to reduce. In directory mode it is the entry
	// file, relative to Dir.
	File Path `validate:"required"`
	// Dir switches to directory mode when set.
	Dir Path `validate:"omitempty,dir"`
	// Out receives a copy of the result: the smallest file, or the reduced
	// tree in directory mode.
	Out Path

	Quick      bool
	NoFixpoint bool
	Optimize   bool

	// Command is a shell command that receives the candidate path as its last
	// argument.
	Command string `validate:"excluded_with=Predicate"`
	ErrMsg  string
	Msg     string

	// Predicate is a program run as `Predicate PredicateArgs... CANDIDATE`;
	// a zero exit status means the candidate is interesting.
	Predicate     string
	PredicateArgs []string

	Record Path
	Replay Path

	Timeout            time.Duration `validate:"gte=0"`
	TimeoutInteresting bool
	CacheSize          int `validate:"gte=0"`
}

// MultiFile reports whether the run reduces a directory tree.
func (o Options) MultiFile() bool {
	return o.Dir != ""
}

// Fixpoint reports whether passes repeat until nothing changes.
func (o Options) Fixpoint() bool {
	return !o.NoFixpoint
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the static constraints of the options.
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	return nil
}
