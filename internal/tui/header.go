package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/numkernels/internal/sysmon"
)

// sparkWidth is the number of samples drawn per host metric.
const sparkWidth = 12

// HeaderModel renders the title bar with host CPU and memory sparklines.
type HeaderModel struct {
	version string
	width   int
	cpu     *History
	mem     *History
}

// NewHeaderModel creates a header for version.
func NewHeaderModel(version string) HeaderModel {
	return HeaderModel{
		version: version,
		cpu:     NewHistory(sparkWidth),
		mem:     NewHistory(sparkWidth),
	}
}

// AddSample records one host sample.
func (h *HeaderModel) AddSample(s sysmon.Stats) {
	h.cpu.Push(s.CPUPercent)
	h.mem.Push(s.MemPercent)
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) { h.width = w }

// View renders the header.
func (h HeaderModel) View() string {
	title := titleStyle.Render("numkernels console")
	if h.version != "" && h.version != "dev" {
		title += versionStyle.Render(" " + h.version)
	}
	if h.cpu.Len() == 0 {
		return title
	}

	host := fmt.Sprintf("CPU %s %3.0f%%  MEM %s %3.0f%%",
		cpuSparkStyle.Render(h.cpu.Sparkline(sparkWidth)), h.cpu.Last(),
		memSparkStyle.Render(h.mem.Sparkline(sparkWidth)), h.mem.Last())

	gap := h.width - lipgloss.Width(title) - lipgloss.Width(host)
	if gap < 2 {
		return title + "\n" + host
	}
	return title + strings.Repeat(" ", gap) + host
}
