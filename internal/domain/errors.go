package domain

import "errors"

var (
	// ErrOriginalNotInteresting is returned when the unmodified input does not
	// satisfy the oracle.
	ErrOriginalNotInteresting = errors.New("original input does not satisfy the oracle")

	// ErrNoCommand is returned when neither a command, a predicate program nor
	// a replay log was configured.
	ErrNoCommand = errors.New("no test command specified")

	// ErrEntryNotFound is returned when the entry file does not exist under
	// the directory being reduced.
	ErrEntryNotFound = errors.New("entry file not found")

	// ErrReplayAndCommand is returned when a replay log is combined with a
	// live command.
	ErrReplayAndCommand = errors.New("replay cannot be combined with a live command")
)
