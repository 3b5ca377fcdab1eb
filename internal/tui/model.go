// Package tui implements the --tui dashboard: one row per worker, a system
// usage header and the verdict once the run is summarized.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/fanbatch/internal/format"
	"github.com/agbru/fanbatch/internal/orchestration"
	"github.com/agbru/fanbatch/internal/sysmon"
)

// Messages handled by the dashboard.
type (
	// refreshMsg asks the model to re-read the progress tracker.
	refreshMsg struct{ State orchestration.State }
	// RunDoneMsg carries the final report.
	RunDoneMsg struct{ Report orchestration.Report }
	// TickMsg drives periodic system sampling.
	TickMsg time.Time
	// SysStatsMsg carries a system usage sample.
	SysStatsMsg sysmon.Stats
	// ContextCancelledMsg reports that the parent context ended.
	ContextCancelledMsg struct{ Err error }
)

// tickInterval is the header refresh period.
const tickInterval = 500 * time.Millisecond

// RunFunc runs the batch, reporting progress to observer.
type RunFunc func(ctx context.Context, observer orchestration.Observer) orchestration.Report

// Model is the root bubbletea model of the dashboard.
type Model struct {
	header  HeaderModel
	keymap  KeyMap
	help    help.Model
	spin    spinner.Model
	sampler *sysmon.Sampler

	tracker *orchestration.ProgressTracker
	snap    orchestration.ProgressSnapshot

	ctx    context.Context
	cancel context.CancelFunc

	done   bool
	report *orchestration.Report
	width  int
	height int
}

// NewModel creates a dashboard for workers. The returned model owns a
// context derived from parent; quitting cancels it.
func NewModel(parent context.Context, workers []orchestration.Worker, runID, version string) Model {
	ctx, cancel := context.WithCancel(parent)
	tracker := orchestration.NewProgressTracker(workers)
	m := Model{
		header:  NewHeaderModel(version, runID),
		keymap:  DefaultKeyMap(),
		help:    help.New(),
		spin:    spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(accentStyle)),
		sampler: sysmon.NewSampler(),
		tracker: tracker,
		ctx:     ctx,
		cancel:  cancel,
	}
	if tracker != nil {
		m.snap = tracker.Snapshot()
	}
	return m
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.spin.Tick, sampleSysStatsCmd(m.ctx, m.sampler), watchContextCmd(m.ctx))
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.header.SetWidth(msg.Width)
		m.help.Width = msg.Width
		return m, nil

	case refreshMsg:
		m.refresh()
		return m, nil

	case RunDoneMsg:
		r := msg.Report
		m.report = &r
		m.done = true
		m.header.SetDone()
		m.refresh()
		return m, nil

	case TickMsg:
		if m.done {
			return m, nil
		}
		m.refresh()
		return m, tea.Batch(sampleSysStatsCmd(m.ctx, m.sampler), tickCmd())

	case SysStatsMsg:
		m.header.UpdateStats(sysmon.Stats(msg))
		return m, nil

	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case ContextCancelledMsg:
		m.header.SetDone()
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.cancel()
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *Model) refresh() {
	if m.tracker != nil {
		m.snap = m.tracker.Snapshot()
	}
}

// View renders the dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	body := panelStyle.Width(max(m.width-2, 0)).Render(m.workerRows())
	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), body, m.footer())
}

func (m Model) workerRows() string {
	nameWidth := 4
	for _, w := range m.snap.Workers {
		nameWidth = max(nameWidth, len(w.ID.String()))
	}

	rows := make([]string, 0, len(m.snap.Workers)+1)
	rows = append(rows, dimStyle.Render(fmt.Sprintf("%-*s  %-9s %8s  %s", nameWidth+2, "Worker", "Status", "Elapsed", "Message")))
	for _, w := range m.snap.Workers {
		rows = append(rows, m.workerRow(w, nameWidth))
	}
	return strings.Join(rows, "\n")
}

func (m Model) workerRow(w orchestration.WorkerProgress, nameWidth int) string {
	icon, status, message := pendingStyle.Render("·"), pendingStyle.Render(fmt.Sprintf("%-9s", "pending")), ""
	switch w.Phase {
	case orchestration.PhaseRunning:
		icon, status = m.spin.View(), accentStyle.Render(fmt.Sprintf("%-9s", "running"))
	case orchestration.PhaseFinished:
		icon, status = accentStyle.Render("•"), accentStyle.Render(fmt.Sprintf("%-9s", "finished"))
	case orchestration.PhaseCollected:
		if w.Outcome.Succeeded() {
			icon, status = successStyle.Render("✓"), successStyle.Render(fmt.Sprintf("%-9s", w.Outcome.Status.Label()))
		} else {
			icon, status = errorStyle.Render("✗"), errorStyle.Render(fmt.Sprintf("%-9s", w.Outcome.Status.Label()))
		}
		message = w.Outcome.Message
	}

	elapsed := ""
	if w.Phase >= orchestration.PhaseFinished {
		elapsed = format.FormatExecutionDuration(w.Elapsed)
	}
	return fmt.Sprintf("%s %-*s %s %8s  %s", icon, nameWidth+1, w.ID.String(), status, elapsed, message)
}

func (m Model) footer() string {
	var line string
	switch {
	case m.report != nil:
		s := m.report.Summary
		line = tuiTheme.VerdictStyle(s.Verdict.String()).Render(fmt.Sprintf("%s: %d/%d collected, %d failed", s.Verdict, s.Received, s.Expected, s.Failed))
		if m.report.Err != nil {
			line += dimStyle.Render(" (" + m.report.Err.Error() + ")")
		}
	default:
		line = accentStyle.Render(fmt.Sprintf("%s: %d/%d finished, %d collected", stateLabel(m.snap.State), m.snap.Finished, m.snap.Total(), m.snap.Collected))
	}
	return lipgloss.JoinVertical(lipgloss.Left, " "+line, " "+m.help.View(m.keymap))
}

func stateLabel(s orchestration.State) string {
	if s == "" {
		return string(orchestration.StateIdle)
	}
	return strings.ReplaceAll(string(s), "_", " ")
}

// Report returns the final report, or nil while the run is in progress.
func (m Model) Report() *orchestration.Report { return m.report }

// Run shows the dashboard while run executes the batch, and returns the
// report once the user quits. Quitting before the run ends cancels it.
func Run(ctx context.Context, workers []orchestration.Worker, runID, version string, run RunFunc) (orchestration.Report, error) {
	initTUIStyles()

	model := NewModel(ctx, workers, runID, version)
	defer model.cancel()

	ref := &programRef{}
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	ref.SetProgram(p)

	observer := orchestration.Observer(bridgeObserver{ref: ref})
	if model.tracker != nil {
		observer = orchestration.MultiObserver{model.tracker, observer}
	}

	results := make(chan orchestration.Report, 1)
	go func() {
		r := run(model.ctx, observer)
		results <- r
		ref.Send(RunDoneMsg{Report: r})
	}()

	_, err := p.Run()
	// The run may still be in progress when the user quits early.
	model.cancel()
	report := <-results
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return report, fmt.Errorf("dashboard: %w", err)
	}
	return report, nil
}

// tickCmd schedules the next TickMsg.
func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// sampleSysStatsCmd reads system and process usage.
func sampleSysStatsCmd(ctx context.Context, s *sysmon.Sampler) tea.Cmd {
	return func() tea.Msg {
		return SysStatsMsg(s.Sample(ctx))
	}
}

// watchContextCmd waits for cancellation of ctx.
func watchContextCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err()}
	}
}
