package adapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestESBuildTransformAdapter_Apply(t *testing.T) {
	adapter := NewESBuildTransformAdapter()
	ctx := context.Background()
	src := []byte("function unused() { return 1; }\nif (true) { crash(); } else { other(); }\n")

	for _, pass := range adapter.Passes() {
		t.Run(pass, func(t *testing.T) {
			out, err := adapter.Apply(ctx, pass, src)
			require.NoError(t, err)
			assert.Contains(t, string(out), "crash()")
			assert.NotContains(t, string(out), "other()", "constant condition is folded")

			before, err := adapter.PrettySize(ctx, src)
			require.NoError(t, err)

			after, err := adapter.PrettySize(ctx, out)
			require.NoError(t, err)
			assert.Less(t, after, before)
		})
	}
}

func TestESBuildTransformAdapter_Errors(t *testing.T) {
	adapter := NewESBuildTransformAdapter()
	ctx := context.Background()

	_, err := adapter.Apply(ctx, PassSimple, []byte("var = ;"))
	require.Error(t, err)

	_, err = adapter.Apply(ctx, "bogus", []byte("a();"))
	require.Error(t, err)

	_, err = adapter.PrettySize(ctx, []byte("function ("))
	require.Error(t, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()

	_, err = adapter.Apply(cancelled, PassSimple, []byte("a();"))
	require.ErrorIs(t, err, context.Canceled)
}
