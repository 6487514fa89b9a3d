package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/numkernels/internal/ui"
)

// Style variables for the console, rebuilt from the ui theme by
// initConsoleStyles.
var (
	panelStyle    lipgloss.Style
	titleStyle    lipgloss.Style
	versionStyle  lipgloss.Style
	labelStyle    lipgloss.Style
	focusedStyle  lipgloss.Style
	disabledStyle lipgloss.Style
	selectedStyle lipgloss.Style
	resultStyle   lipgloss.Style
	errorStyle    lipgloss.Style
	durationStyle lipgloss.Style
	cpuSparkStyle lipgloss.Style
	memSparkStyle lipgloss.Style
)

func init() {
	initConsoleStyles()
}

// initConsoleStyles is called at package init and again from Run, after
// the application has applied -no-color.
func initConsoleStyles() {
	t := ui.GetConsoleTheme()

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Foreground(t.Text).
		Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent)

	versionStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	labelStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	focusedStyle = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	disabledStyle = lipgloss.NewStyle().
		Foreground(t.Dim).
		Faint(true)

	selectedStyle = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true).
		Underline(true)

	resultStyle = lipgloss.NewStyle().
		Foreground(t.Success).
		Bold(true)

	errorStyle = lipgloss.NewStyle().
		Foreground(t.Error).
		Bold(true)

	durationStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	cpuSparkStyle = lipgloss.NewStyle().
		Foreground(t.Accent)

	memSparkStyle = lipgloss.NewStyle().
		Foreground(t.Success)
}
