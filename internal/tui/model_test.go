package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/numkernels/internal/kernels"
	"github.com/agbru/numkernels/internal/orchestration"
	"github.com/agbru/numkernels/internal/sysmon"
)

func newTestModel() Model {
	return NewModel(context.Background(), orchestration.NewKernelEvaluator(kernels.New()), nil, "v1.2.3")
}

func press(t *testing.T, m Model, msgs ...tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

// runToCompletion presses enter and feeds the evaluation result back.
func runToCompletion(t *testing.T, m Model) Model {
	t.Helper()
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("enter produced no command; error line: %q", m.errText)
	}
	if !m.running {
		t.Error("model should be running after enter")
	}
	next, _ := m.Update(cmd())
	return next.(Model)
}

var (
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
)

func TestModel_DefaultRun(t *testing.T) {
	t.Parallel()
	m := runToCompletion(t, newTestModel())
	if m.outcome != "fibonacci(10) + fibonacci(20) = 6820" {
		t.Errorf("outcome = %q", m.outcome)
	}
	if !strings.Contains(m.View(), "6820") {
		t.Error("view should show the result")
	}
}

func TestModel_SelectDemos(t *testing.T) {
	t.Parallel()
	m, _ := press(t, newTestModel(), keyRight)
	if m.demo != DemoPrimes {
		t.Fatalf("demo = %v, want primes", m.demo)
	}
	m = runToCompletion(t, m)
	if m.outcome != "Prime count up to 20: 8" {
		t.Errorf("outcome = %q", m.outcome)
	}

	m, _ = press(t, m, keyRight)
	m = runToCompletion(t, m)
	if m.outcome != "10×10 matrix multiplication sum: 228375.00" {
		t.Errorf("outcome = %q", m.outcome)
	}
	if !strings.Contains(m.View(), "Unused") {
		t.Error("matrix view should label the second input as unused")
	}
}

func TestModel_FocusSkipsDisabledInput(t *testing.T) {
	t.Parallel()
	m, _ := press(t, newTestModel(), keyTab, keyTab)
	if m.focus != fieldSecond {
		t.Fatalf("focus = %v, want second input", m.focus)
	}
	m, _ = press(t, m, keyTab)
	if m.focus != fieldDemo {
		t.Fatalf("focus should wrap to the selector, got %v", m.focus)
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyLeft}, keyTab, keyTab)
	if m.demo != DemoMatrix || m.focus != fieldDemo {
		t.Errorf("matrix demo: demo=%v focus=%v, want matrix on the selector", m.demo, m.focus)
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.focus != fieldFirst {
		t.Errorf("shift+tab from the selector should reach the first input, got %v", m.focus)
	}
}

func TestModel_TypingEditsFocusedInput(t *testing.T) {
	t.Parallel()
	m, _ := press(t, newTestModel(), keyTab, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("5")})
	if got := m.inputs[0].Value(); got != "105" {
		t.Fatalf("first input = %q, want 105", got)
	}
	m = runToCompletion(t, m)
	if !strings.HasPrefix(m.outcome, "fibonacci(105) + fibonacci(20) = ") {
		t.Errorf("outcome = %q", m.outcome)
	}
}

func TestModel_InvalidInput(t *testing.T) {
	t.Parallel()
	m := runToCompletion(t, newTestModel())
	m.inputs[1].SetValue("abc")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("invalid input should not start an evaluation")
	}
	if !strings.HasPrefix(m.errText, "Invalid input") || m.outcome != "" {
		t.Errorf("errText = %q, outcome = %q", m.errText, m.outcome)
	}
	if !strings.Contains(m.View(), "Invalid input") {
		t.Error("view should show the error line")
	}
}

func TestModel_StaleResultIgnored(t *testing.T) {
	t.Parallel()
	m, first := press(t, newTestModel(), tea.KeyMsg{Type: tea.KeyEnter})
	m, second := press(t, m, keyRight, tea.KeyMsg{Type: tea.KeyEnter})

	next, _ := m.Update(first())
	m = next.(Model)
	if !m.running || m.outcome != "" {
		t.Fatal("a result from an earlier run must be dropped")
	}
	next, _ = m.Update(second())
	m = next.(Model)
	if m.running || !strings.HasPrefix(m.outcome, "Prime count") {
		t.Errorf("outcome = %q, running = %v", m.outcome, m.running)
	}
}

func TestModel_EvaluationError(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := NewModel(ctx, orchestration.NewKernelEvaluator(kernels.New()), nil, "")
	m = runToCompletion(t, m)
	if !strings.HasPrefix(m.errText, "Computation failed") {
		t.Errorf("errText = %q", m.errText)
	}
}

func TestModel_Quit(t *testing.T) {
	t.Parallel()
	_, cmd := press(t, newTestModel(), tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("esc should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("esc should quit")
	}
}

func TestModel_HostSampling(t *testing.T) {
	t.Parallel()
	sampler := func(context.Context) sysmon.Stats { return sysmon.Stats{CPUPercent: 42, MemPercent: 50} }
	m := NewModel(context.Background(), orchestration.NewKernelEvaluator(kernels.New()), sampler, "")
	if m.Init() == nil {
		t.Fatal("Init should start sampling when a sampler is set")
	}
	if newTestModel().Init() != nil {
		t.Error("Init should do nothing without a sampler")
	}

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	next, _ = next.Update(statsMsg(sampler(context.Background())))
	view := next.(Model).View()
	if !strings.Contains(view, "CPU") || !strings.Contains(view, "42%") {
		t.Errorf("header should show host usage:\n%s", view)
	}
}

func TestModel_HelpToggle(t *testing.T) {
	t.Parallel()
	m, _ := press(t, newTestModel(), tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	if !m.help.ShowAll {
		t.Error("? should expand the help")
	}
}
