// Package pkg provides utilities for jsdelta.
package pkg

import (
	"bufio"
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"sync"
)

// VerdictLog is an append-only log of oracle verdicts, one `true` or `false`
// line per call, in call order.
type VerdictLog interface {
	Len() uint64
	Path() string
	Append(verdict bool) error
	Get(index uint64) (bool, error)
	Close() error
}

type verdictLogImpl struct {
	path     string
	file     *os.File
	mu       sync.Mutex
	verdicts []bool
}

// Append implements VerdictLog.
func (v *verdictLogImpl) Append(verdict bool) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.file == nil {
		return fmt.Errorf("verdict log %s is read-only or closed", v.path)
	}

	if _, err := v.file.WriteString(strconv.FormatBool(verdict) + "\n"); err != nil {
		slog.Error("failed to append verdict", "path", v.path, "index", len(v.verdicts), "error", err)
		return fmt.Errorf("failed to append verdict: %w", err)
	}

	v.verdicts = append(v.verdicts, verdict)
	slog.Debug("appended verdict", "path", v.path, "index", len(v.verdicts)-1, "verdict", verdict)

	return nil
}

// Path implements VerdictLog.
func (v *verdictLogImpl) Path() string {
	return v.path
}

// Close implements VerdictLog.
func (v *verdictLogImpl) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.file != nil {
		if err := v.file.Close(); err != nil {
			slog.Error("failed to close file", "path", v.path, "error", err)
			return err
		}

		v.file = nil

		slog.Debug("closed verdict log", "path", v.path, "length", len(v.verdicts))
	}

	return nil
}

// Get implements VerdictLog.
func (v *verdictLogImpl) Get(index uint64) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if index >= uint64(len(v.verdicts)) {
		slog.Warn("get index out of bounds", "path", v.path, "index", index, "length", len(v.verdicts))
		return false, fmt.Errorf("index %d out of bounds (length %d)", index, len(v.verdicts))
	}

	return v.verdicts[index], nil
}

// Len implements VerdictLog.
func (v *verdictLogImpl) Len() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()

	return uint64(len(v.verdicts))
}

// CreateVerdictLog creates (or truncates) the log at path for recording.
func CreateVerdictLog(path string) (VerdictLog, error) {
	// #nosec G304 - the record path is chosen by the user
	file, err := os.Create(path)
	if err != nil {
		slog.Error("failed to create verdict log", "path", path, "error", err)
		return nil, fmt.Errorf("failed to create verdict log: %w", err)
	}

	slog.Debug("created verdict log", "path", path)

	return &verdictLogImpl{
		path:     path,
		file:     file,
		verdicts: []bool{},
	}, nil
}

// OpenVerdictLog loads an existing log for replay. The returned log is
// read-only.
func OpenVerdictLog(path string) (VerdictLog, error) {
	// #nosec G304 - the replay path is chosen by the user
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Error("failed to read verdict log", "path", path, "error", err)
		return nil, fmt.Errorf("failed to read verdict log: %w", err)
	}

	verdicts, err := parseVerdicts(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	slog.Debug("opened verdict log", "path", path, "length", len(verdicts))

	return &verdictLogImpl{
		path:     path,
		verdicts: verdicts,
	}, nil
}

func parseVerdicts(data []byte) ([]bool, error) {
	verdicts := []bool{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	line := 0

	for scanner.Scan() {
		line++

		text := string(bytes.TrimSpace(scanner.Bytes()))
		if text == "" {
			continue
		}

		verdict, err := strconv.ParseBool(text)
		if err != nil || (text != "true" && text != "false") {
			return nil, fmt.Errorf("invalid verdict %q at line %d", text, line)
		}

		verdicts = append(verdicts, verdict)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return verdicts, nil
}
