package model

import "time"

// Mode names the kind of run that produced a report.
type Mode string

// Available Mode values.
const (
	ModeSingleFile Mode = "single-file"
	ModeMultiFile  Mode = "multi-file"
)

// Candidate describes one materialized candidate and the verdict it got.
type Candidate struct {
	Round       int
	Path        Path
	Size        int64
	Interesting bool
}

// Target describes a file or directory the directory reducer is working on.
type Target struct {
	Path  Path
	Rel   Path
	Depth int
	IsDir bool
}

// Stats counts the work done by one or more sessions.
type Stats struct {
	Rounds      int `yaml:"rounds"`
	Successes   int `yaml:"successes"`
	Iterations  int `yaml:"iterations"`
	Transformed int `yaml:"transformed"`
	Deleted     int `yaml:"deleted"`
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.Rounds += other.Rounds
	s.Successes += other.Successes
	s.Iterations += other.Iterations
	s.Transformed += other.Transformed
	s.Deleted += other.Deleted
}

// Report represents the outcome of a reduction run.
type Report struct {
	RunID        string        `yaml:"run_id"`
	Mode         Mode          `yaml:"mode"`
	Input        Path          `yaml:"input"`
	Output       Path          `yaml:"output"`
	Scratch      Path          `yaml:"scratch"`
	OriginalSize int64         `yaml:"original_size"`
	FinalSize    int64         `yaml:"final_size"`
	Stats        Stats         `yaml:"stats"`
	Duration     time.Duration `yaml:"duration"`

	// Original and Final hold file contents in single-file mode; they are
	// used for display and never persisted.
	Original []byte `yaml:"-"`
	Final    []byte `yaml:"-"`
}

// Reduced reports whether the run produced anything smaller than the input.
func (r Report) Reduced() bool {
	return r.FinalSize < r.OriginalSize
}
