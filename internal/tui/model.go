// Package tui implements the interactive demo console: pick a computation,
// type two numbers, press enter, read the result.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	apperrors "github.com/agbru/numkernels/internal/errors"
	"github.com/agbru/numkernels/internal/format"
	"github.com/agbru/numkernels/internal/kernels"
	"github.com/agbru/numkernels/internal/orchestration"
	"github.com/agbru/numkernels/internal/sysmon"
)

// Default input values.
const (
	DefaultFirst  = "10"
	DefaultSecond = "20"
)

// sampleInterval is the host sampling period.
const sampleInterval = time.Second

type field int

const (
	fieldDemo field = iota
	fieldFirst
	fieldSecond
)

// resultMsg carries the outcome of one run. Runs are numbered so a late
// result from a previous run is dropped.
type resultMsg struct {
	run      uint64
	req      kernels.Request
	value    kernels.Value
	duration time.Duration
	err      error
}

type tickMsg time.Time

type statsMsg sysmon.Stats

// Model is the root bubbletea model of the console.
type Model struct {
	ctx       context.Context
	evaluator orchestration.Evaluator
	sampler   sysmon.Sampler

	keymap KeyMap
	help   help.Model
	header HeaderModel
	inputs [2]textinput.Model
	demo   Demo
	focus  field

	run      uint64
	running  bool
	outcome  string
	errText  string
	duration time.Duration
	width    int
}

// NewModel creates a console evaluating requests with evaluator. A nil
// sampler disables the host sparklines.
func NewModel(ctx context.Context, evaluator orchestration.Evaluator, sampler sysmon.Sampler, version string) Model {
	var inputs [2]textinput.Model
	for i, v := range []string{DefaultFirst, DefaultSecond} {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 10
		ti.Width = 12
		ti.SetValue(v)
		inputs[i] = ti
	}
	return Model{
		ctx:       ctx,
		evaluator: evaluator,
		sampler:   sampler,
		keymap:    DefaultKeyMap(),
		help:      help.New(),
		header:    NewHeaderModel(version),
		inputs:    inputs,
	}
}

// Init starts host sampling.
func (m Model) Init() tea.Cmd {
	if m.sampler == nil {
		return nil
	}
	return tea.Batch(sampleCmd(m.ctx, m.sampler), tickCmd())
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.header.SetWidth(msg.Width)
		m.help.Width = msg.Width
		return m, nil

	case resultMsg:
		if msg.run != m.run {
			return m, nil
		}
		m.running = false
		m.duration = msg.duration
		if msg.err != nil {
			m.outcome, m.errText = "", "Computation failed: "+msg.err.Error()
			return m, nil
		}
		m.outcome, m.errText = FormatOutcome(msg.req, msg.value), ""
		return m, nil

	case tickMsg:
		if m.sampler == nil {
			return m, nil
		}
		return m, tea.Batch(sampleCmd(m.ctx, m.sampler), tickCmd())

	case statsMsg:
		m.header.AddSample(sysmon.Stats(msg))
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keymap.Run):
		return m.startRun()

	case key.Matches(msg, m.keymap.NextField):
		return m, m.setFocus(m.nextField(1))

	case key.Matches(msg, m.keymap.PrevField):
		return m, m.setFocus(m.nextField(-1))
	}

	if m.focus == fieldDemo {
		switch {
		case key.Matches(msg, m.keymap.NextDemo):
			m.demo = m.demo.Next()
		case key.Matches(msg, m.keymap.PrevDemo):
			m.demo = m.demo.Prev()
		}
		return m, nil
	}

	i := int(m.focus - fieldFirst)
	var cmd tea.Cmd
	m.inputs[i], cmd = m.inputs[i].Update(msg)
	return m, cmd
}

// nextField moves focus by step, skipping the second input when the demo
// does not use it.
func (m Model) nextField(step int) field {
	n := 3
	if !m.demo.UsesSecondInput() {
		n = 2
	}
	return field(((int(m.focus)+step)%n + n) % n)
}

func (m *Model) setFocus(f field) tea.Cmd {
	m.focus = f
	var cmd tea.Cmd
	for i := range m.inputs {
		if field(i)+fieldFirst == f {
			cmd = m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return cmd
}

// startRun validates the inputs and launches the evaluation. Invalid input
// shows an error and clears the previous result.
func (m Model) startRun() (tea.Model, tea.Cmd) {
	req, err := BuildRequest(m.demo, m.inputs[0].Value(), m.inputs[1].Value())
	if err != nil {
		m.outcome, m.errText = "", "Invalid input: "+err.Error()
		return m, nil
	}
	m.run++
	m.running = true
	m.errText = ""
	return m, evaluateCmd(m.ctx, m.evaluator, req, m.run)
}

// View renders the console.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.header.View())
	b.WriteString("\n\n")

	b.WriteString(m.fieldLabel(fieldDemo, "Computation Type"))
	b.WriteString("\n  ")
	for i, d := range demos {
		if i > 0 {
			b.WriteString(labelStyle.Render("  |  "))
		}
		if d == m.demo {
			b.WriteString(selectedStyle.Render(d.String()))
		} else {
			b.WriteString(d.String())
		}
	}
	b.WriteString("\n\n")

	first, second := m.demo.InputLabels()
	b.WriteString(m.fieldLabel(fieldFirst, first) + "\n  " + m.inputs[0].View() + "\n")
	if m.demo.UsesSecondInput() {
		b.WriteString(m.fieldLabel(fieldSecond, second) + "\n  " + m.inputs[1].View() + "\n")
	} else {
		b.WriteString(disabledStyle.Render(second) + "\n  " + disabledStyle.Render(m.inputs[1].Value()) + "\n")
	}

	body := panelStyle.Render(strings.TrimRight(b.String(), "\n"))

	var status string
	switch {
	case m.running:
		status = labelStyle.Render("Computing...")
	case m.errText != "":
		status = errorStyle.Render(m.errText)
	case m.outcome != "":
		status = resultStyle.Render(m.outcome) + " " +
			durationStyle.Render(fmt.Sprintf("(%s)", format.FormatExecutionDuration(m.duration)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, status, m.help.View(m.keymap))
}

func (m Model) fieldLabel(f field, text string) string {
	if m.focus == f {
		return focusedStyle.Render("› " + text)
	}
	return labelStyle.Render("  " + text)
}

// Run starts the console and returns the exit code.
func Run(ctx context.Context, module *kernels.Module, version string) int {
	initConsoleStyles()

	model := NewModel(ctx, orchestration.NewKernelEvaluator(module), sysmon.Sample, version)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return apperrors.ExitCodeFor(ctx.Err())
		}
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

func evaluateCmd(ctx context.Context, evaluator orchestration.Evaluator, req kernels.Request, run uint64) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		v, err := evaluator.Evaluate(ctx, req)
		return resultMsg{run: run, req: req, value: v, duration: time.Since(start), err: err}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(sampleInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func sampleCmd(ctx context.Context, sampler sysmon.Sampler) tea.Cmd {
	return func() tea.Msg {
		return statsMsg(sampler(ctx))
	}
}
