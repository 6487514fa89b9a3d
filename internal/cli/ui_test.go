package cli

import (
	"bytes"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/numkernels/internal/orchestration"
	"github.com/agbru/numkernels/internal/ui"
)

type mockSpinner struct {
	mu      sync.Mutex
	started bool
	stopped bool
	suffix  string
}

func (m *mockSpinner) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = true
}

func (m *mockSpinner) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
}

func (m *mockSpinner) UpdateSuffix(suffix string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.suffix = suffix
}

func TestRealSpinner(t *testing.T) {
	t.Parallel()
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(io.Discard))
	rs := &realSpinner{s}

	rs.Start()
	rs.UpdateSuffix(" test")
	rs.Stop()
	if s.Suffix != " test" {
		t.Errorf("Suffix = %q", s.Suffix)
	}
}

func TestDisplayProgress(t *testing.T) {
	originalNewSpinner := newSpinner
	defer func() { newSpinner = originalNewSpinner }()

	mockS := &mockSpinner{}
	newSpinner = func(options ...spinner.Option) Spinner {
		return mockS
	}

	var wg sync.WaitGroup
	wg.Add(1)
	progressChan := make(chan orchestration.ProgressUpdate)
	var out bytes.Buffer

	go func() {
		progressChan <- orchestration.ProgressUpdate{Index: 0, Value: 0.5}
		progressChan <- orchestration.ProgressUpdate{Index: 1, Value: 1}
		close(progressChan)
	}()

	DisplayProgress(&wg, progressChan, 2, &out)
	wg.Wait()

	if !mockS.started || !mockS.stopped {
		t.Errorf("spinner started=%v stopped=%v, want both", mockS.started, mockS.stopped)
	}
	if !bytes.Contains(out.Bytes(), []byte("100.0%")) {
		t.Errorf("final line should show 100%%, got %q", out.String())
	}
}

func TestDisplayProgress_ZeroSlots(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(1)
	progressChan := make(chan orchestration.ProgressUpdate, 1)
	progressChan <- orchestration.ProgressUpdate{Index: 0, Value: 1}
	close(progressChan)

	var out bytes.Buffer
	DisplayProgress(&wg, progressChan, 0, &out)
	wg.Wait()
	if out.Len() != 0 {
		t.Errorf("zero slots should print nothing, got %q", out.String())
	}
}

func TestCLIColorProvider(t *testing.T) {
	orig := ui.GetCurrentTheme()
	defer ui.SetCurrentTheme(orig)

	ui.SetCurrentTheme(ui.DarkTheme)
	c := CLIColorProvider{}
	if c.Red() != ui.DarkTheme.Error || c.Yellow() != ui.DarkTheme.Warning || c.Reset() != ui.DarkTheme.Reset {
		t.Error("CLIColorProvider should follow the active theme")
	}
}
