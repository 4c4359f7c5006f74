package controller

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	m "jsdelta.dev/pkg/jsdelta/internal/model"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle    = lipgloss.NewStyle().Faint(true)
	acceptedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	rejectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// TUI implements UI using Bubble Tea for interactive display.
type TUI struct {
	output io.Writer
	input  io.Reader

	mu      sync.Mutex
	program *tea.Program
	done    chan struct{}
}

// NewTUI creates a new TUI reading keys from stdin.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output, input: os.Stdin}
}

// Start launches the Bubble Tea program in the background.
func (t *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.program != nil {
		return nil
	}

	cfg := newStartConfig(options)

	program := tea.NewProgram(
		newReductionModel(cfg),
		tea.WithOutput(t.output),
		tea.WithInput(t.input),
		tea.WithContext(ctx),
	)

	t.program = program
	t.done = make(chan struct{})

	go func(done chan struct{}) {
		defer close(done)

		if _, err := program.Run(); err != nil {
			slog.Debug("tui stopped", "error", err)
		}
	}(t.done)

	return nil
}

// Close stops the program and waits for it to restore the terminal.
func (t *TUI) Close(_ context.Context) {
	program, done := t.current()
	if program == nil {
		return
	}

	program.Quit()
	<-done
}

// Wait blocks until the program exits or ctx is done.
func (t *TUI) Wait(ctx context.Context) {
	_, done := t.current()
	if done == nil {
		return
	}

	select {
	case <-done:
	case <-ctx.Done():
	}
}

// DisplayIteration announces a new reduction pass.
func (t *TUI) DisplayIteration(ctx context.Context, iteration int) {
	t.send(ctx, iterationMsg(iteration))
}

// DisplayTarget shows the file or directory being worked on.
func (t *TUI) DisplayTarget(ctx context.Context, target m.Target) {
	t.send(ctx, targetMsg(target))
}

// DisplayCandidate records the verdict on one candidate.
func (t *TUI) DisplayCandidate(ctx context.Context, candidate m.Candidate) {
	t.send(ctx, candidateMsg(candidate))
}

// DisplayReport shows the final report; the program exits afterwards.
func (t *TUI) DisplayReport(ctx context.Context, report m.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.send(ctx, reportMsg(report))

	return nil
}

func (t *TUI) current() (*tea.Program, chan struct{}) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.program, t.done
}

func (t *TUI) send(ctx context.Context, msg tea.Msg) {
	if ctx.Err() != nil {
		return
	}

	if program, _ := t.current(); program != nil {
		program.Send(msg)
	}
}

type (
	iterationMsg int
	targetMsg    m.Target
	candidateMsg m.Candidate
	reportMsg    m.Report
)

// reductionModel is the Bubble Tea model of a running reduction.
type reductionModel struct {
	mode      m.Mode
	input     m.Path
	cancel    context.CancelFunc
	spinner   spinner.Model
	iteration int
	target    *m.Target
	tested    int
	accepted  int
	smallest  int64
	last      *m.Candidate
	report    *m.Report
	quitting  bool
}

func newReductionModel(cfg StartConfig) reductionModel {
	return reductionModel{
		mode:    cfg.mode,
		input:   cfg.input,
		cancel:  cfg.cancel,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (rm reductionModel) Init() tea.Cmd {
	return rm.spinner.Tick
}

func (rm reductionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case iterationMsg:
		rm.iteration = int(msg)
	case targetMsg:
		target := m.Target(msg)
		rm.target = &target
	case candidateMsg:
		candidate := m.Candidate(msg)
		rm.tested++

		if candidate.Interesting {
			rm.accepted++
			rm.smallest = candidate.Size
		}

		rm.last = &candidate
	case reportMsg:
		report := m.Report(msg)
		rm.report = &report

		return rm, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			rm.quitting = true

			if rm.cancel != nil {
				rm.cancel()
			}

			return rm, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd

		rm.spinner, cmd = rm.spinner.Update(msg)

		return rm, cmd
	}

	return rm, nil
}

func (rm reductionModel) View() string {
	if rm.report != nil {
		return renderReport(*rm.report)
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("jsdelta"))
	fmt.Fprintf(&b, " %s %s\n\n", labelStyle.Render(string(rm.mode)), rm.input)

	if rm.quitting {
		b.WriteString("Cancelling...\n")
		return b.String()
	}

	fmt.Fprintf(&b, "%s iteration %d\n", rm.spinner.View(), rm.iteration)

	if rm.target != nil {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("target:"), rm.target.Rel)
	}

	fmt.Fprintf(&b, "%s %d tested, %d accepted\n", labelStyle.Render("candidates:"), rm.tested, rm.accepted)

	if rm.accepted > 0 {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("smallest:"), humanize.Bytes(uint64(max(rm.smallest, 0))))
	}

	if rm.last != nil {
		verdict := rejectedStyle.Render("rejected")
		if rm.last.Interesting {
			verdict = acceptedStyle.Render("accepted")
		}

		fmt.Fprintf(&b, "%s #%d %s\n", labelStyle.Render("last:"), rm.last.Round, verdict)
	}

	b.WriteString(labelStyle.Render("\nctrl+c to abort"))
	b.WriteString("\n")

	return b.String()
}
