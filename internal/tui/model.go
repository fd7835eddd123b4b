// Package tui renders a live dashboard for a run: one progress bar per
// job plus the weighted aggregate, with elapsed time and system resource
// usage. Progress flows in through the Bridge as bubbletea messages.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	bprogress "github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ozflux/fluxrun/internal/command"
	apperrors "github.com/ozflux/fluxrun/internal/errors"
	"github.com/ozflux/fluxrun/internal/jobs"
	"github.com/ozflux/fluxrun/internal/sysmon"
)

const (
	tickInterval = 500 * time.Millisecond
	maxNameWidth = 32
	barPadding   = 14
)

// ContextCancelledMsg signals the parent context ended.
type ContextCancelledMsg struct{ Err error }

// Model is the root bubbletea model for the dashboard.
type Model struct {
	specs      []command.Spec
	bars       []bprogress.Model
	overallBar bprogress.Model
	values     []float64
	overall    float64

	results  []jobs.Result
	runErr   error
	done     bool
	exitCode int

	width     int
	startTime time.Time
	elapsed   time.Duration
	cpu, mem  float64

	keymap  KeyMap
	ctx     context.Context
	ref     *programRef
	execute func(*Bridge) DoneMsg
	version string
}

// NewModel creates a dashboard model for the given job specs. The execute
// callback runs the jobs with a Bridge wired in and returns the outcome.
func NewModel(ctx context.Context, specs []command.Spec, version string, execute func(*Bridge) DoneMsg) Model {
	bars := make([]bprogress.Model, len(specs))
	for i := range bars {
		bars[i] = bprogress.New(bprogress.WithDefaultGradient())
	}
	return Model{
		specs:      specs,
		bars:       bars,
		overallBar: bprogress.New(bprogress.WithDefaultGradient()),
		values:     make([]float64, len(specs)),
		exitCode:   apperrors.ExitSuccess,
		startTime:  time.Now(),
		keymap:     DefaultKeyMap(),
		ctx:        ctx,
		ref:        &programRef{},
		execute:    execute,
		version:    version,
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		startRunCmd(m.ref, m.execute),
		watchContextCmd(m.ctx),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keymap.Quit) {
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.layoutBars()
		return m, nil

	case ProgressMsg:
		if msg.JobID >= 0 && msg.JobID < len(m.values) {
			m.values[msg.JobID] = msg.Value
		}
		return m, nil

	case OverallMsg:
		m.overall = msg.Value
		return m, nil

	case DoneMsg:
		m.done = true
		m.results = msg.Results
		m.runErr = msg.Err
		m.elapsed = time.Since(m.startTime)
		if msg.Err != nil || failureCount(msg.Results) > 0 {
			m.exitCode = apperrors.ExitErrorGeneric
		}
		return m, nil

	case TickMsg:
		if m.done {
			return m, nil
		}
		m.elapsed = time.Since(m.startTime)
		return m, tea.Batch(sampleSysStatsCmd(), tickCmd())

	case SysStatsMsg:
		m.cpu = msg.CPUPercent
		m.mem = msg.MemPercent
		return m, nil

	case ContextCancelledMsg:
		if m.exitCode == apperrors.ExitSuccess {
			m.exitCode = apperrors.ExitErrorCanceled
		}
		return m, tea.Quit
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s %s  %s\n\n",
		titleStyle.Render("fluxrun"),
		versionStyle.Render(m.version),
		elapsedStyle.Render(m.elapsed.Round(time.Second).String())))

	for i, spec := range m.specs {
		b.WriteString(fmt.Sprintf("%s %s %s\n",
			m.bars[i].ViewAs(m.values[i]),
			jobNameStyle.Render(truncate(spec.Command, maxNameWidth)),
			weightStyle.Render(fmt.Sprintf("w=%d", spec.Weight))))
	}

	b.WriteString(fmt.Sprintf("\n%s %s\n\n",
		m.overallBar.ViewAs(m.overall),
		jobNameStyle.Render("overall")))

	b.WriteString(m.statusLine())
	return b.String()
}

func (m Model) statusLine() string {
	status := statusRunningStyle.Render("RUNNING")
	if m.done {
		if m.runErr != nil || failureCount(m.results) > 0 {
			status = statusErrorStyle.Render(fmt.Sprintf("FAILED (%d)", failureCount(m.results)))
		} else {
			status = statusDoneStyle.Render("DONE")
		}
	}
	return fmt.Sprintf("%s  %s  %s %s",
		status,
		footerDescStyle.Render(fmt.Sprintf("cpu %.0f%% mem %.0f%%", m.cpu, m.mem)),
		footerKeyStyle.Render("q"),
		footerDescStyle.Render("quit"))
}

func (m *Model) layoutBars() {
	barWidth := m.width - maxNameWidth - barPadding
	if barWidth < 10 {
		barWidth = 10
	}
	for i := range m.bars {
		m.bars[i].Width = barWidth
	}
	m.overallBar.Width = barWidth
}

func failureCount(results []jobs.Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

// Run is the public entry point for the dashboard mode. It creates the
// bubbletea program, runs it, and returns the exit code.
func Run(ctx context.Context, specs []command.Spec, version string, execute func(*Bridge) DoneMsg) int {
	model := NewModel(ctx, specs, version, execute)

	p := tea.NewProgram(model, tea.WithAltScreen())
	// Inject the program reference before running so the bridge can Send.
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	if err != nil {
		return apperrors.ExitErrorGeneric
	}
	if m, ok := finalModel.(Model); ok {
		return m.exitCode
	}
	return apperrors.ExitSuccess
}

// startRunCmd launches the run and reports its outcome as a message.
func startRunCmd(ref *programRef, execute func(*Bridge) DoneMsg) tea.Cmd {
	return func() tea.Msg {
		return execute(&Bridge{ref: ref})
	}
}

// tickCmd sends a TickMsg after the refresh interval.
func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// sampleSysStatsCmd reads system-wide CPU and memory stats.
func sampleSysStatsCmd() tea.Cmd {
	return func() tea.Msg {
		s := sysmon.Sample()
		return SysStatsMsg{CPUPercent: s.CPUPercent, MemPercent: s.MemPercent}
	}
}

// watchContextCmd waits for context cancellation and sends a message.
func watchContextCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err()}
	}
}
