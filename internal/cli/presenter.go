package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	apperrors "github.com/agbru/numkernels/internal/errors"
	"github.com/agbru/numkernels/internal/format"
	"github.com/agbru/numkernels/internal/metrics"
	"github.com/agbru/numkernels/internal/orchestration"
	"github.com/agbru/numkernels/internal/ui"
)

// CLIProgressReporter shows a spinner and progress bar while evaluators run.
type CLIProgressReporter struct{}

var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress delegates to DisplayProgress.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, numSlots int, out io.Writer) {
	DisplayProgress(wg, progressChan, numSlots, out)
}

// CLIResultPresenter renders colorized results for the terminal.
type CLIResultPresenter struct{}

var (
	_ orchestration.ResultPresenter = CLIResultPresenter{}
	_ orchestration.ErrorHandler    = CLIResultPresenter{}
)

func displayDuration(d time.Duration) string {
	if d == 0 {
		return "< 1µs"
	}
	return format.FormatExecutionDuration(d)
}

func statusCell(res orchestration.EvaluationResult) string {
	if res.Err != nil {
		return fmt.Sprintf("%s❌ Failure (%v)%s", ui.ColorRed(), res.Err, ui.ColorReset())
	}
	return fmt.Sprintf("%s✅ Success%s", ui.ColorGreen(), ui.ColorReset())
}

// PresentComparisonTable prints one row per evaluator. Padding is computed
// by hand because the cells carry ANSI codes.
func (CLIResultPresenter) PresentComparisonTable(results []orchestration.EvaluationResult, out io.Writer) {
	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")

	maxNameLen := len("Evaluator")
	maxDurationLen := len("Duration")
	for _, res := range results {
		maxNameLen = max(maxNameLen, len(res.Name))
		maxDurationLen = max(maxDurationLen, len(displayDuration(res.Duration)))
	}

	fmt.Fprintf(out, "%sEvaluator%s%s   %sDuration%s%s   %sStatus%s\n",
		ui.ColorUnderline(), ui.ColorReset(), padRight("", maxNameLen-len("Evaluator")),
		ui.ColorUnderline(), ui.ColorReset(), padRight("", maxDurationLen-len("Duration")),
		ui.ColorUnderline(), ui.ColorReset())

	for _, res := range results {
		duration := displayDuration(res.Duration)
		fmt.Fprintf(out, "%s%s%s%s   %s%s%s%s   %s\n",
			ui.ColorBlue(), res.Name, ui.ColorReset(), padRight("", maxNameLen-len(res.Name)),
			ui.ColorYellow(), duration, ui.ColorReset(), padRight("", maxDurationLen-len(duration)),
			statusCell(res))
	}
}

// PresentBatch prints one row per job with its value or error.
func (CLIResultPresenter) PresentBatch(results []orchestration.EvaluationResult, out io.Writer) {
	fmt.Fprintf(out, "\n--- Batch Summary ---\n")

	maxNameLen := len("Job")
	for _, res := range results {
		maxNameLen = max(maxNameLen, len(res.Name))
	}
	fmt.Fprintf(out, "%sJob%s%s   %sResult%s\n",
		ui.ColorUnderline(), ui.ColorReset(), padRight("", maxNameLen-len("Job")),
		ui.ColorUnderline(), ui.ColorReset())

	failed := 0
	for _, res := range results {
		cell := fmt.Sprintf("%s%s%s %s(%s)%s", ui.ColorGreen(), FormatValue(res.Value), ui.ColorReset(),
			ui.ColorYellow(), displayDuration(res.Duration), ui.ColorReset())
		if res.Err != nil {
			failed++
			cell = statusCell(res)
		}
		fmt.Fprintf(out, "%s%s%s%s   %s\n",
			ui.ColorBlue(), res.Name, ui.ColorReset(), padRight("", maxNameLen-len(res.Name)), cell)
	}
	fmt.Fprintf(out, "\n%d job(s), %d failed.\n", len(results), failed)
}

func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + fmt.Sprintf("%*s", length, "")
}

// PresentResult displays the agreed value of a request.
func (CLIResultPresenter) PresentResult(result orchestration.EvaluationResult, opts orchestration.PresentationOptions, out io.Writer) {
	if opts.Quiet {
		DisplayQuietResult(out, result.Value)
		return
	}
	DisplayResult(result, opts.Verbose, out)
}

// HandleError prints err and returns the matching exit code.
func (CLIResultPresenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	return apperrors.HandleEvaluationError(err, duration, out, CLIColorProvider{})
}

// DisplayMemoryStats prints the memory used by an evaluation.
func DisplayMemoryStats(usage metrics.MemoryUsage, out io.Writer) {
	fmt.Fprintf(out, "\nMemory Stats:\n")
	fmt.Fprintf(out, "  Peak heap:       %s\n", format.FormatBytes(usage.PeakHeap))
	fmt.Fprintf(out, "  Total allocated: %s\n", format.FormatBytes(usage.Allocated))
	fmt.Fprintf(out, "  GC cycles:       %d\n", usage.GCCycles)
	fmt.Fprintf(out, "  GC pause total:  %.2fms\n", float64(usage.GCPause)/float64(time.Millisecond))
}
