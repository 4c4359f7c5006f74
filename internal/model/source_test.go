package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtAndKind(t *testing.T) {
	tests := []struct {
		path Path
		ext  string
		kind Kind
	}{
		{"a/b/test.js", "js", KindCode},
		{"data.json", "json", KindData},
		{"DATA.JSON", "JSON", KindData},
		{"noext", "js", KindCode},
		{"weird.", "js", KindCode},
		{"module.mjs", "mjs", KindCode},
	}

	for _, tt := range tests {
		t.Run(string(tt.path), func(t *testing.T) {
			assert.Equal(t, tt.ext, Ext(tt.path))
			assert.Equal(t, tt.kind, DetectKind(tt.path))
		})
	}
}

func TestIsSource(t *testing.T) {
	assert.True(t, IsSource("lib/a.js"))
	assert.True(t, IsSource("package.JSON"))
	assert.True(t, IsSource("x.cjs"))
	assert.False(t, IsSource("README.md"))
	assert.False(t, IsSource("Makefile"))
}

func TestOptionsValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		opts := Options{File: "a.js", Command: "node", Timeout: time.Second}
		require.NoError(t, opts.Validate())
		assert.True(t, opts.Fixpoint())
		assert.False(t, opts.MultiFile())
	})

	t.Run("missing file", func(t *testing.T) {
		require.Error(t, Options{Command: "node"}.Validate())
	})

	t.Run("negative cache size", func(t *testing.T) {
		require.Error(t, Options{File: "a.js", CacheSize: -1}.Validate())
	})

	t.Run("negative timeout", func(t *testing.T) {
		require.Error(t, Options{File: "a.js", Timeout: -time.Second}.Validate())
	})

	t.Run("command and predicate", func(t *testing.T) {
		require.Error(t, Options{File: "a.js", Command: "node", Predicate: "./check.sh"}.Validate())
	})

	t.Run("directory mode", func(t *testing.T) {
		opts := Options{File: "main.js", Dir: Path(t.TempDir())}
		require.NoError(t, opts.Validate())
		assert.True(t, opts.MultiFile())
	})

	t.Run("missing directory", func(t *testing.T) {
		require.Error(t, Options{File: "main.js", Dir: "/does/not/exist"}.Validate())
	})
}

func TestStatsAdd(t *testing.T) {
	s := Stats{Rounds: 1, Successes: 1}
	s.Add(Stats{Rounds: 2, Iterations: 3, Deleted: 1})
	assert.Equal(t, Stats{Rounds: 3, Successes: 1, Iterations: 3, Deleted: 1}, s)
}
