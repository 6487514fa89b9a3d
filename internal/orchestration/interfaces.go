package orchestration

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/agbru/numkernels/internal/kernels"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_evaluator.go -package=mocks

// Evaluator computes the value of a kernel request. Implementations must be
// safe for concurrent use.
type Evaluator interface {
	// Name identifies the evaluator in reports (e.g. "kernel", "reference").
	Name() string
	// Evaluate returns the value for req. It returns ctx.Err() without
	// computing if ctx is already done.
	Evaluate(ctx context.Context, req kernels.Request) (kernels.Value, error)
}

// EvaluationResult is the outcome of one evaluator on one request.
type EvaluationResult struct {
	// Name is the evaluator name, or the job name in batch mode.
	Name string
	// Request is the evaluated request.
	Request kernels.Request
	// Value is the computed result. It is the zero Value if Err is set.
	Value kernels.Value
	// Duration is the wall time spent in Evaluate.
	Duration time.Duration
	// Err contains any error returned by the evaluator.
	Err error
}

// ProgressUpdate reports the completion fraction of one slot (an evaluator or
// a batch job).
type ProgressUpdate struct {
	Index int
	Value float64
}

// PresentationOptions configures how results are presented to the user.
type PresentationOptions struct {
	Verbose bool
	Quiet   bool
}

// ProgressReporter displays progress updates until the channel is closed,
// then calls wg.Done.
type ProgressReporter interface {
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numSlots int, out io.Writer)
}

// ProgressReporterFunc adapts a function to ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numSlots int, out io.Writer)

// DisplayProgress calls f.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numSlots int, out io.Writer) {
	f(wg, progressChan, numSlots, out)
}

// NullProgressReporter drains the progress channel without output.
type NullProgressReporter struct{}

// DisplayProgress drains the channel.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	DrainChannel(progressChan)
}

// ResultPresenter renders evaluation results.
type ResultPresenter interface {
	// PresentComparisonTable displays one row per evaluator.
	PresentComparisonTable(results []EvaluationResult, out io.Writer)
	// PresentResult displays the agreed value of a request.
	PresentResult(result EvaluationResult, opts PresentationOptions, out io.Writer)
	// PresentBatch displays one row per batch job.
	PresentBatch(results []EvaluationResult, out io.Writer)
}

// ErrorHandler prints an error and returns the matching exit code.
type ErrorHandler interface {
	HandleError(err error, duration time.Duration, out io.Writer) int
}
