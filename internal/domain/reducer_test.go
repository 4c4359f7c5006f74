package domain

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "jsdelta.dev/pkg/jsdelta/internal/model"
)

func reduce(t *testing.T, source m.Path, oracle Oracle, mutate ...func(*ReduceFileArgs)) SessionResult {
	t.Helper()

	args := ReduceFileArgs{
		Source:   source,
		Scratch:  m.Path(t.TempDir()),
		Oracle:   oracle,
		Fixpoint: true,
	}

	for _, fn := range mutate {
		fn(&args)
	}

	result, err := newTestReducer().ReduceFile(context.Background(), args)
	require.NoError(t, err)

	return result
}

func TestReduceFile_KeepsOnlyTheInterestingStatement(t *testing.T) {
	source := exampleSource(t, "basic", "crash.js")
	oracle := &contentOracle{fn: func(c string) bool { return strings.Contains(c, "crash()") }}

	result := reduce(t, source, oracle)

	assert.Equal(t, "crash();\n", readString(t, result.Smallest))
	assert.True(t, result.Reduced)
	assert.Less(t, result.FinalSize, result.OriginalSize)
	assert.Equal(t, int64(len("crash();\n")), result.FinalSize)
	assert.LessOrEqual(t, oracle.calls, result.Stats.Rounds, "at most one oracle call per numbered candidate")
}

func TestReduceFile_DataKeepsRequiredValuesInOrder(t *testing.T) {
	source := writeSource(t, "numbers.json", "[0, 1000, 2000, 3000, 4000]")
	oracle := &contentOracle{fn: func(c string) bool {
		var values []float64
		if err := json.Unmarshal([]byte(c), &values); err != nil {
			return false
		}

		return slices.Contains(values, 0) && slices.Contains(values, 4000)
	}}

	result := reduce(t, source, oracle)

	assert.Equal(t, "[0, 4000]\n", readString(t, result.Smallest))
	assert.Equal(t, filepath.Join(string(result.Scratch), "delta_js_smallest.json"), string(result.Smallest))
}

func TestReduceFile_ConvergedOutputIsIdempotent(t *testing.T) {
	source := exampleSource(t, "control", "loops.js")
	interesting := func(c string) bool { return strings.Contains(c, "step()") }

	first := reduce(t, source, &contentOracle{fn: interesting})
	require.True(t, first.Reduced)

	again := writeSource(t, "again.js", readString(t, first.Smallest))
	second := reduce(t, again, &contentOracle{fn: interesting})

	assert.False(t, second.Reduced)
	assert.Zero(t, second.Stats.Successes)
	assert.Equal(t, readString(t, first.Smallest), readString(t, second.Smallest))
}

func TestReduceFile_SameContentGetsSameVerdict(t *testing.T) {
	source := exampleSource(t, "basic", "crash.js")
	verdicts := map[[32]byte]bool{}
	inner := &contentOracle{fn: func(c string) bool { return strings.Contains(c, "crash()") }}

	oracle := OracleFunc(func(ctx context.Context, candidate m.Path) (bool, error) {
		verdict, err := inner.Test(ctx, candidate)
		if err != nil {
			return false, err
		}

		content, err := os.ReadFile(string(candidate))
		require.NoError(t, err)

		key := sha256.Sum256(content)
		if previous, ok := verdicts[key]; ok {
			assert.Equal(t, previous, verdict, "verdict changed for identical content")
		}

		verdicts[key] = verdict

		return verdict, nil
	})

	reduce(t, source, oracle)
	assert.NotEmpty(t, verdicts)
}

func TestReduceFile_TerminatesWithinBound(t *testing.T) {
	source := exampleSource(t, "control", "loops.js")
	original := readString(t, source)

	// Arbitrary but deterministic: interesting when the first hash byte is even.
	oracle := &contentOracle{fn: func(c string) bool {
		sum := sha256.Sum256([]byte(c))
		return c == original || sum[0]%2 == 0
	}}

	result := reduce(t, source, oracle)

	assert.LessOrEqual(t, result.Stats.Iterations, len(original))
	assert.Less(t, result.Stats.Rounds, 50*len(original))
}

func TestReduceFile_NoFixpointRunsOnePass(t *testing.T) {
	source := exampleSource(t, "control", "loops.js")
	oracle := &contentOracle{fn: func(c string) bool { return strings.Contains(c, "step()") }}

	result := reduce(t, source, oracle, func(a *ReduceFileArgs) { a.Fixpoint = false })

	assert.Equal(t, 1, result.Stats.Iterations)
}

func TestReduceFile_QuickModeKeepsCallArguments(t *testing.T) {
	src := "var unused = 1;\ncrash(1, 2);\n"
	interesting := func(c string) bool { return strings.Contains(c, "crash(") }

	quick := reduce(t, writeSource(t, "quick.js", src), &contentOracle{fn: interesting},
		func(a *ReduceFileArgs) { a.Quick = true })
	full := reduce(t, writeSource(t, "full.js", src), &contentOracle{fn: interesting})

	assert.Equal(t, "crash(1, 2);\n", readString(t, quick.Smallest))
	assert.Equal(t, "crash();\n", readString(t, full.Smallest))
}

func TestReduceFile_WritesNumberedCandidates(t *testing.T) {
	source := exampleSource(t, "basic", "crash.js")
	oracle := &contentOracle{fn: func(c string) bool { return strings.Contains(c, "crash()") }}

	result := reduce(t, source, oracle)

	original := readString(t, m.Path(filepath.Join(string(result.Scratch), "delta_js_0.js")))
	assert.Equal(t, readString(t, source), original)

	last := filepath.Join(string(result.Scratch), "delta_js_"+strconv.Itoa(result.Stats.Rounds-1)+".js")
	assert.FileExists(t, last)
	assert.NoFileExists(t, filepath.Join(string(result.Scratch), "delta_js_"+strconv.Itoa(result.Stats.Rounds)+".js"))
}

func TestReduceFile_OriginalNotInteresting(t *testing.T) {
	source := exampleSource(t, "basic", "crash.js")

	_, err := newTestReducer().ReduceFile(context.Background(), ReduceFileArgs{
		Source:  source,
		Scratch: m.Path(t.TempDir()),
		Oracle:  always(false),
	})

	require.ErrorIs(t, err, ErrOriginalNotInteresting)
}

func TestReduceFile_OwnScratchRemovedOnFailure(t *testing.T) {
	source := exampleSource(t, "basic", "crash.js")

	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)

	_, err := newTestReducer().ReduceFile(context.Background(), ReduceFileArgs{
		Source: source,
		Oracle: always(false),
	})
	require.ErrorIs(t, err, ErrOriginalNotInteresting)

	left, err := filepath.Glob(filepath.Join(tmp, "jsdelta-*"))
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestReduceFile_NotReducible(t *testing.T) {
	tests := []struct {
		name   string
		source func(t *testing.T) m.Path
	}{
		{"unparseable", func(t *testing.T) m.Path { return exampleSource(t, "invalid", "broken.js") }},
		{"missing", func(t *testing.T) m.Path { return m.Path(filepath.Join(t.TempDir(), "nope.js")) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oracle := always(true)

			_, err := newTestReducer().ReduceFile(context.Background(), ReduceFileArgs{
				Source:  tt.source(t),
				Scratch: m.Path(t.TempDir()),
				Oracle:  oracle,
			})

			require.ErrorIs(t, err, ErrNotReducible)
			assert.Zero(t, oracle.calls)
		})
	}
}

func TestReduceFile_InvalidCandidatesNeverReachTheOracle(t *testing.T) {
	source := exampleSource(t, "basic", "crash.js")
	files := newTestReducer().SourceFileAdapter

	oracle := &contentOracle{fn: func(c string) bool {
		assert.True(t, files.Valid(context.Background(), m.KindCode, []byte(c)), "invalid candidate:\n%s", c)
		return strings.Contains(c, "crash()")
	}}

	reduce(t, source, oracle)
}

func TestReduceFile_StopsOnOracleError(t *testing.T) {
	source := exampleSource(t, "basic", "crash.js")
	calls := 0
	boom := os.ErrPermission

	oracle := OracleFunc(func(context.Context, m.Path) (bool, error) {
		calls++
		if calls > 1 {
			return false, boom
		}

		return true, nil
	})

	_, err := newTestReducer().ReduceFile(context.Background(), ReduceFileArgs{
		Source:  source,
		Scratch: m.Path(t.TempDir()),
		Oracle:  oracle,
	})

	require.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestReduceFile_OptimizeTransformsCode(t *testing.T) {
	src := "var value = 1 + 2;\nif (value) {\n  crash(value);\n}\n"
	s := newTestSession(t, "input.js", src, &contentOracle{fn: func(c string) bool { return strings.Contains(c, "crash") }})

	require.NoError(t, s.transform(context.Background()))

	after := readString(t, s.smallest)
	assert.Positive(t, s.stats.Transformed)
	assert.True(t, s.succeeded)
	assert.Less(t, len(after), len(src))
	assert.Contains(t, after, "crash")
}

func TestReduceFile_RejectedTransformationIsNoOp(t *testing.T) {
	src := "var value = 1 + 2;\nif (value) {\n  crash(value);\n}\n"
	s := newTestSession(t, "input.js", src, always(false))

	require.NoError(t, s.transform(context.Background()))

	assert.Zero(t, s.stats.Transformed)
	assert.False(t, s.succeeded)

	if diff := cmp.Diff(src, readString(t, s.smallest)); diff != "" {
		t.Errorf("smallest changed (-want +got):\n%s", diff)
	}
}
