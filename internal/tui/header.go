package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/fanbatch/internal/format"
	"github.com/agbru/fanbatch/internal/sysmon"
)

// sysHistory is the number of CPU and memory samples kept for sparklines.
const sysHistory = 16

// HeaderModel renders the top bar: title, run id, elapsed time and system
// usage.
type HeaderModel struct {
	startTime time.Time
	endTime   time.Time
	version   string
	runID     string
	width     int
	cpu       *RingBuffer
	mem       *RingBuffer
	stats     sysmon.Stats
}

// NewHeaderModel creates a header whose timer starts now.
func NewHeaderModel(version, runID string) HeaderModel {
	return HeaderModel{
		startTime: time.Now(),
		version:   version,
		runID:     runID,
		cpu:       NewRingBuffer(sysHistory),
		mem:       NewRingBuffer(sysHistory),
	}
}

// SetDone freezes the elapsed timer.
func (h *HeaderModel) SetDone() {
	if h.endTime.IsZero() {
		h.endTime = time.Now()
	}
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) { h.width = w }

// UpdateStats records a system usage sample.
func (h *HeaderModel) UpdateStats(s sysmon.Stats) {
	h.stats = s
	h.cpu.Push(s.CPUPercent)
	h.mem.Push(s.MemPercent)
}

func (h HeaderModel) elapsed() time.Duration {
	if !h.endTime.IsZero() {
		return h.endTime.Sub(h.startTime)
	}
	return time.Since(h.startTime)
}

// View renders the header.
func (h HeaderModel) View() string {
	title := "fanbatch"
	if h.version != "" && h.version != "dev" {
		title += " " + h.version
	}
	pipe := dimStyle.Render(" | ")

	parts := []string{titleStyle.Render(title)}
	if h.runID != "" {
		parts = append(parts, dimStyle.Render("run "+shortID(h.runID)))
	}
	parts = append(parts,
		accentStyle.Render("Elapsed: "+format.FormatExecutionDuration(h.elapsed())),
		cpuStyle.Render(fmt.Sprintf("CPU %3.0f%% %s", h.stats.CPUPercent, RenderSparkline(h.cpu.Slice()))),
		memStyle.Render(fmt.Sprintf("MEM %3.0f%% %s", h.stats.MemPercent, RenderSparkline(h.mem.Slice()))),
	)
	if h.stats.RSS > 0 {
		parts = append(parts, dimStyle.Render("RSS "+format.FormatBytes(h.stats.RSS)))
	}

	row := strings.Join(parts, pipe)
	if gap := h.width - 2 - lipgloss.Width(row); gap > 0 {
		row += strings.Repeat(" ", gap)
	}
	return headerStyle.Render(row)
}

// shortID trims a UUID to its first group.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}
