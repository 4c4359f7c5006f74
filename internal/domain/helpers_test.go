package domain

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"jsdelta.dev/pkg/jsdelta/internal/adapter"
	"jsdelta.dev/pkg/jsdelta/internal/controller"
	m "jsdelta.dev/pkg/jsdelta/internal/model"
	"jsdelta.dev/pkg/jsdelta/internal/syntax"
)

func quietUI() controller.UI {
	cmd := &cobra.Command{}
	cmd.SetOut(io.Discard)

	return controller.NewSimpleUI(cmd)
}

func newTestReducer() *reducer {
	r := NewReducer(
		adapter.NewLocalSourceFSAdapter(),
		adapter.NewLocalSourceFileAdapter(),
		adapter.NewESBuildTransformAdapter(),
		quietUI(),
	)

	return r.(*reducer)
}

// contentOracle judges candidates by their text and counts the calls.
type contentOracle struct {
	calls int
	fn    func(content string) bool
}

func (o *contentOracle) Test(_ context.Context, candidate m.Path) (bool, error) {
	o.calls++

	content, err := os.ReadFile(string(candidate))
	if err != nil {
		return false, err
	}

	return o.fn(string(content)), nil
}

func always(verdict bool) *contentOracle {
	return &contentOracle{fn: func(string) bool { return verdict }}
}

func writeSource(t *testing.T, name, content string) m.Path {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return m.Path(path)
}

func exampleSource(t *testing.T, elem ...string) m.Path {
	t.Helper()

	content, err := os.ReadFile(filepath.Join(append([]string{"..", "..", "examples"}, elem...)...))
	require.NoError(t, err)

	return writeSource(t, elem[len(elem)-1], string(content))
}

func readString(t *testing.T, path m.Path) string {
	t.Helper()

	content, err := os.ReadFile(string(path))
	require.NoError(t, err)

	return string(content)
}

// newTestSession parses src into a session rooted in a fresh scratch
// directory, without testing the original.
func newTestSession(t *testing.T, name, src string, oracle Oracle) *session {
	t.Helper()

	r := newTestReducer()
	s := newSession(r, ReduceFileArgs{Source: m.Path(name), Oracle: oracle, Fixpoint: true}, m.Path(t.TempDir()))

	tree, err := r.Parse(context.Background(), s.kind, []byte(src))
	require.NoError(t, err)

	s.root = syntax.NewRoot(tree)
	require.NoError(t, r.WriteFile(s.smallest, []byte(src), 0o644))

	return s
}

func (s *session) printed() string {
	return string(s.Print(s.kind, s.root.Node))
}
