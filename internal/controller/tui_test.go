package controller

import (
	"bytes"
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "jsdelta.dev/pkg/jsdelta/internal/model"
)

func TestReductionModel_Progress(t *testing.T) {
	rm := newReductionModel(newStartConfig([]StartOption{WithSingleFileMode("crash.js")}))

	var model tea.Model = rm

	model, _ = model.Update(iterationMsg(2))
	model, _ = model.Update(targetMsg(m.Target{Rel: "lib/c.js"}))
	model, _ = model.Update(candidateMsg(m.Candidate{Round: 5, Size: 2048, Interesting: true}))
	model, _ = model.Update(candidateMsg(m.Candidate{Round: 6, Size: 100, Interesting: false}))

	got := model.(reductionModel)
	assert.Equal(t, 2, got.iteration)
	assert.Equal(t, 2, got.tested)
	assert.Equal(t, 1, got.accepted)
	assert.Equal(t, int64(2048), got.smallest)

	view := got.View()
	assert.Contains(t, view, "crash.js")
	assert.Contains(t, view, "iteration 2")
	assert.Contains(t, view, "lib/c.js")
	assert.Contains(t, view, "2 tested, 1 accepted")
	assert.Contains(t, view, "2.0 kB")
	assert.Contains(t, view, "#6")
}

func TestReductionModel_ReportQuits(t *testing.T) {
	rm := newReductionModel(newStartConfig(nil))

	model, cmd := rm.Update(reportMsg(singleFileReport()))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Contains(t, model.View(), "Final version:")
}

func TestReductionModel_CtrlCCancels(t *testing.T) {
	cancelled := false
	rm := newReductionModel(newStartConfig([]StartOption{WithCancel(func() { cancelled = true })}))

	model, cmd := rm.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)

	assert.True(t, cancelled)
	assert.Contains(t, model.View(), "Cancelling")
}

func TestTUI_RunsUntilReport(t *testing.T) {
	out := &bytes.Buffer{}
	ui := &TUI{output: out, input: &bytes.Buffer{}}
	ctx := context.Background()

	require.NoError(t, ui.Start(ctx, WithSingleFileMode("crash.js")))
	ui.DisplayIteration(ctx, 1)
	ui.DisplayCandidate(ctx, m.Candidate{Round: 1, Size: 9, Interesting: true})
	require.NoError(t, ui.DisplayReport(ctx, singleFileReport()))

	waitCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	ui.Wait(waitCtx)
	require.NoError(t, waitCtx.Err(), "program did not exit after the report")

	ui.Close(ctx)
	assert.Contains(t, out.String(), "crash();")
}

func TestTUI_NotStarted(t *testing.T) {
	ui := NewTUI(&bytes.Buffer{})
	ctx := context.Background()

	ui.DisplayIteration(ctx, 1)
	require.NoError(t, ui.DisplayReport(ctx, singleFileReport()))
	ui.Wait(ctx)
	ui.Close(ctx)
}
