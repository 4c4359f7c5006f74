package domain

import (
	"fmt"
	"log/slog"
	"strconv"

	"jsdelta.dev/pkg/jsdelta/internal/adapter"
	m "jsdelta.dev/pkg/jsdelta/internal/model"
)

// backup is a scoped copy of a file or directory. Release puts the copy back
// unless the change was committed, then drops the copy.
type backup struct {
	fs        adapter.SourceFSAdapter
	target    m.Path
	copy      m.Path
	isDir     bool
	committed bool
}

// backups hands out backup locations under one root.
type backups struct {
	fs   adapter.SourceFSAdapter
	root m.Path
	seq  int
}

func (b *backups) take(target m.Path, isDir bool) (*backup, error) {
	b.seq++
	location := b.fs.JoinPath(string(b.root), strconv.Itoa(b.seq))

	var err error
	if isDir {
		err = b.fs.CopyDir(target, location)
	} else {
		err = b.fs.CopyFile(target, location)
	}

	if err != nil {
		_ = b.fs.RemoveAll(location)
		return nil, fmt.Errorf("back up %s: %w", target, err)
	}

	return &backup{fs: b.fs, target: target, copy: location, isDir: isDir}, nil
}

func (b *backup) commit() {
	b.committed = true
}

func (b *backup) release() error {
	defer func() {
		if err := b.fs.RemoveAll(b.copy); err != nil {
			slog.Warn("failed to remove backup", "path", b.copy, "error", err)
		}
	}()

	if b.committed {
		return nil
	}

	if err := b.fs.RemoveAll(b.target); err != nil {
		return fmt.Errorf("clear %s before restore: %w", b.target, err)
	}

	var err error
	if b.isDir {
		err = b.fs.CopyDir(b.copy, b.target)
	} else {
		err = b.fs.CopyFile(b.copy, b.target)
	}

	if err != nil {
		return fmt.Errorf("restore %s: %w", b.target, err)
	}

	return nil
}
