package adapter

import (
	"context"
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// Optimizing passes, most aggressive first.
const (
	PassAdvanced = "advanced"
	PassSimple   = "simple"
)

// TransformAdapter runs whole-program shrinking passes over code artifacts.
type TransformAdapter interface {
	// Passes lists the available passes in the order they should be tried.
	Passes() []string

	// Apply runs one pass and returns the pretty-printed result.
	Apply(ctx context.Context, pass string, src []byte) ([]byte, error)

	// PrettySize is the length of src once pretty-printed. Passes are
	// compared by this metric so formatting alone never counts as progress.
	PrettySize(ctx context.Context, src []byte) (int, error)
}

// ESBuildTransformAdapter implements TransformAdapter with esbuild's
// transform API.
type ESBuildTransformAdapter struct{}

// NewESBuildTransformAdapter constructs an ESBuildTransformAdapter.
func NewESBuildTransformAdapter() *ESBuildTransformAdapter {
	return &ESBuildTransformAdapter{}
}

// Passes returns the advanced pass followed by the simple one.
func (a *ESBuildTransformAdapter) Passes() []string {
	return []string{PassAdvanced, PassSimple}
}

// Apply runs the named pass.
func (a *ESBuildTransformAdapter) Apply(ctx context.Context, pass string, src []byte) ([]byte, error) {
	opts := api.TransformOptions{
		Loader:       api.LoaderJS,
		Target:       api.ESNext,
		MinifySyntax: true,
		LogLevel:     api.LogLevelSilent,
	}

	switch pass {
	case PassAdvanced:
		opts.MinifyIdentifiers = true
		opts.TreeShaking = api.TreeShakingTrue
	case PassSimple:
	default:
		return nil, fmt.Errorf("unknown transformation pass %q", pass)
	}

	return transform(ctx, src, opts)
}

// PrettySize pretty-prints src without changing it and measures the result.
func (a *ESBuildTransformAdapter) PrettySize(ctx context.Context, src []byte) (int, error) {
	out, err := transform(ctx, src, api.TransformOptions{
		Loader:   api.LoaderJS,
		Target:   api.ESNext,
		LogLevel: api.LogLevelSilent,
	})
	if err != nil {
		return 0, err
	}

	return len(out), nil
}

func transform(ctx context.Context, src []byte, opts api.TransformOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := api.Transform(string(src), opts)

	if len(result.Errors) > 0 {
		var errMsg strings.Builder

		for _, msg := range result.Errors {
			if msg.Location != nil {
				fmt.Fprintf(&errMsg, "%d:%d: ", msg.Location.Line, msg.Location.Column)
			}

			errMsg.WriteString(msg.Text)
			errMsg.WriteByte('\n')
		}

		return nil, fmt.Errorf("esbuild errors:\n%s", errMsg.String())
	}

	return result.Code, nil
}
