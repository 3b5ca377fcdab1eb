package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/fanbatch/internal/ui"
)

// Style variables for the dashboard, built from the ui theme by
// initTUIStyles.
var (
	panelStyle   lipgloss.Style
	headerStyle  lipgloss.Style
	titleStyle   lipgloss.Style
	dimStyle     lipgloss.Style
	accentStyle  lipgloss.Style
	successStyle lipgloss.Style
	errorStyle   lipgloss.Style
	pendingStyle lipgloss.Style
	cpuStyle     lipgloss.Style
	memStyle     lipgloss.Style
	tuiTheme     ui.TUITheme
)

func init() {
	initTUIStyles()
}

// initTUIStyles rebuilds all styles from the current ui theme. Run calls it
// again after the theme has been initialized from flags.
func initTUIStyles() {
	t := ui.GetCurrentTUITheme()
	tuiTheme = t

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Foreground(t.Text).
		Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent).
		Padding(0, 1)

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	dimStyle = lipgloss.NewStyle().Foreground(t.Dim)
	accentStyle = lipgloss.NewStyle().Foreground(t.Accent)
	successStyle = lipgloss.NewStyle().Foreground(t.Success).Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(t.Error).Bold(true)
	pendingStyle = lipgloss.NewStyle().Foreground(t.Dim)
	cpuStyle = lipgloss.NewStyle().Foreground(t.Accent)
	memStyle = lipgloss.NewStyle().Foreground(t.Warning)
}
