package domain

import (
	"context"
	"math/bits"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "jsdelta.dev/pkg/jsdelta/internal/model"
	"jsdelta.dev/pkg/jsdelta/internal/syntax"
)

// normalize runs src through the parser and printer so expectations do not
// depend on formatting.
func normalize(t *testing.T, kind m.Kind, src string) string {
	t.Helper()

	r := newTestReducer()

	tree, err := r.Parse(context.Background(), kind, []byte(src))
	require.NoError(t, err)

	return string(r.Print(kind, tree))
}

func TestReplace_SameValueSkipsOracle(t *testing.T) {
	oracle := always(false)
	s := newTestSession(t, "input.js", "function f() { return; }\ncrash();\n", oracle)
	ctx := context.Background()

	ref := syntax.FieldRef(s.root)
	ok, err := s.Replace(ref).With(ctx, ref.Get())
	require.NoError(t, err)
	assert.True(t, ok)

	// Clearing an already empty position is the same no-op.
	var ret *syntax.Node

	syntax.Walk(s.root.Node, func(n *syntax.Node) {
		if n.Category == syntax.CategoryReturn {
			ret = n
		}
	})
	require.NotNil(t, ret)

	ok, err = s.Replace(syntax.FieldRef(ret.Slot(syntax.SlotValue))).With(ctx, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Zero(t, oracle.calls)
	assert.Zero(t, s.round)
}

func TestReplace_RollbackRestoresPrintedForm(t *testing.T) {
	src := "var a = 1;\nif (a) {\n  crash(a);\n}\n"
	oracle := always(false)
	s := newTestSession(t, "input.js", src, oracle)
	before := s.printed()

	list := s.root.Node.Slot(syntax.SlotBody)
	require.NotNil(t, list)
	require.Len(t, list.List, 2)

	ok, err := s.Replace(syntax.ElemRef(list, 0)).With(context.Background(), list.List[1])
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, before, s.printed())
	assert.Equal(t, 1, oracle.calls)
	assert.Equal(t, src, readString(t, s.smallest), "smallest must not change on rejection")
}

func TestReplace_AcceptedValueBecomesSmallest(t *testing.T) {
	s := newTestSession(t, "input.js", "var a = 1;\ncrash(a);\n", always(true))

	list := s.root.Node.Slot(syntax.SlotBody)
	ok, err := s.Replace(syntax.ElemRef(list, 0)).With(context.Background(), list.List[1])
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, s.printed(), readString(t, s.smallest))
	assert.True(t, s.succeeded)
	assert.Equal(t, 1, s.stats.Successes)
}

func TestReplace_OutOfRangeElementIsRejected(t *testing.T) {
	oracle := always(true)
	s := newTestSession(t, "input.js", "crash();\n", oracle)

	list := s.root.Node.Slot(syntax.SlotBody)
	ok, err := s.Replace(syntax.ElemRef(list, 5)).With(context.Background(), syntax.NewEmptyArray())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, oracle.calls)
}

// firstArray returns the outermost array literal in the session tree.
func firstArray(t *testing.T, s *session) *syntax.Node {
	t.Helper()

	var arr *syntax.Node

	syntax.Walk(s.root.Node, func(n *syntax.Node) {
		if arr == nil && n.Category == syntax.CategoryArray {
			arr = n
		}
	})
	require.NotNil(t, arr)

	return arr
}

func numberList(n int) string {
	values := make([]string, n)
	for i := range values {
		values[i] = strconv.Itoa(i + 1)
	}

	return "[" + strings.Join(values, ", ") + "]"
}

func TestMinimiseList_RemovableElements(t *testing.T) {
	const n = 16

	tests := []struct {
		name     string
		nonempty bool
		want     int
	}{
		{"empties the list", false, 0},
		{"keeps one element", true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oracle := always(true)
			s := newTestSession(t, "input.json", numberList(n), oracle)
			elements := firstArray(t, s).Slot(syntax.SlotElements)
			require.Len(t, elements.List, n)

			require.NoError(t, s.minimiseList(context.Background(), elements, tt.nonempty, false))

			assert.Len(t, elements.List, tt.want)
			assert.LessOrEqual(t, oracle.calls, n*bits.Len(n))
		})
	}
}

func TestMinimiseList_RequiredElementsStay(t *testing.T) {
	const n = 16

	original := normalize(t, m.KindData, numberList(n))
	oracle := &contentOracle{fn: func(c string) bool { return c == original }}
	s := newTestSession(t, "input.json", original, oracle)
	elements := firstArray(t, s).Slot(syntax.SlotElements)

	require.NoError(t, s.minimiseList(context.Background(), elements, false, false))

	assert.Len(t, elements.List, n)
	assert.Equal(t, original, s.printed())
	// One test per chunk at each halving size.
	assert.Equal(t, 2+4+8+16, oracle.calls)
}

func TestMinimiseList_SingleElement(t *testing.T) {
	oracle := always(false)
	s := newTestSession(t, "input.json", "[[1, 2]]", oracle)
	elements := firstArray(t, s).Slot(syntax.SlotElements)

	require.NoError(t, s.minimiseList(context.Background(), elements, false, false))

	require.Len(t, elements.List, 1)
	assert.Equal(t, normalize(t, m.KindData, "[[1, 2]]"), s.printed())
	assert.Positive(t, oracle.calls)
}

func TestMinimise_Rules(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		needle string
		quick  bool
		want   string
	}{
		{"conditional keeps a branch", "var r = flag ? yes() : no();", "yes()", false, "var r = yes();"},
		{"unary is replaced by its operand", "var r = !!crash();", "crash()", false, "var r = crash();"},
		{"binary is replaced by an operand", "var r = a + crash();", "crash()", false, "var r = crash();"},
		{"new becomes a plain call", "var w = new Widget(1, 2);", "Widget", false, "var w = Widget();"},
		{"array elements are reduced", "var d = [1, 2, crash()];", "crash()", false, "var d = [crash()];"},
		{"return value is dropped", "function f() { return 1 + 2; }", "return", false, "function f() { return; }"},
		{"anonymous function loses name and params", "var g = function named(a, b) { crash(); };", "crash()", false, "var g = function() { crash(); };"},
		{"arrow block body becomes expression", "var f = (x) => { crash(x); };", "crash(", false, "var f = () => crash();"},
		{"counted loop collapses to its body", "for (var i = 0; i < 3; i++) { crash(i); }", "crash(", false, "crash();"},
		{"switch cases are reduced", "switch (mode) { case 1: one(); break; default: crash(); }", "crash()", false, "switch (mode) { default: crash(); }"},
		{"object properties are reduced", "var o = { a: 1, b: crash() };", "crash()", false, "var o = { b: crash() };"},
		{"class members are reduced", "class A { foo() { return 1; } bar() { return 2; } baz() { crash(); } }", "crash(", false, "class A { baz() { crash(); } }"},
		{"sequence operands are reduced", "noise(), other(), crash();", "crash()", false, "crash();"},
		{"try blocks are never collapsed", "try { noise(); crash(); } catch (e) { other(); }", "crash()", false, "try { crash(); } catch (e) {}"},
		{"declarators keep one entry in quick mode", "var a = 1, b = crash();", "crash()", true, "var b = crash();"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oracle := &contentOracle{fn: func(c string) bool { return strings.Contains(c, tt.needle) }}

			result := reduce(t, writeSource(t, "input.js", tt.src), oracle, func(a *ReduceFileArgs) { a.Quick = tt.quick })

			assert.Equal(t, normalize(t, m.KindCode, tt.want), readString(t, result.Smallest))
		})
	}
}

func TestMinimise_QuickModeKeepsConditionals(t *testing.T) {
	src := "var r = flag ? yes() : no();\n"
	oracle := &contentOracle{fn: func(c string) bool { return strings.Contains(c, "yes()") }}

	result := reduce(t, writeSource(t, "input.js", src), oracle, func(a *ReduceFileArgs) { a.Quick = true })

	assert.False(t, result.Reduced)
	assert.Equal(t, src, readString(t, result.Smallest))
}

func TestMinimise_WhileCanBeReplacedByItsTest(t *testing.T) {
	oracle := &contentOracle{fn: func(c string) bool { return strings.Contains(c, "ready()") }}

	result := reduce(t, writeSource(t, "input.js", "while (ready()) {\n  step();\n}\n"), oracle)

	final := readString(t, result.Smallest)
	assert.Contains(t, final, "ready()")
	assert.NotContains(t, final, "while")
	assert.NotContains(t, final, "step")
}

func TestMinimise_ArrayAlreadyEmptyIsLeftAlone(t *testing.T) {
	oracle := always(true)
	s := newTestSession(t, "input.json", "[]", oracle)

	require.NoError(t, s.minimiseArray(context.Background(), syntax.Ref{}, firstArray(t, s)))

	assert.Zero(t, oracle.calls)
	assert.False(t, s.succeeded)
}

func TestMinimise_StopsWhenCancelled(t *testing.T) {
	s := newTestSession(t, "input.js", "a();\nb();\n", always(true))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, s.minimise(ctx, syntax.FieldRef(s.root)), context.Canceled)
}
