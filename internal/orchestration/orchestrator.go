package orchestration

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/numkernels/internal/errors"
	"github.com/agbru/numkernels/internal/kernels"
)

// ProgressBufferMultiplier sizes the progress channel relative to the number
// of slots so that workers rarely block on a slow display.
const ProgressBufferMultiplier = 5

// ExecuteEvaluations runs every evaluator on req concurrently and returns one
// result per evaluator, in evaluator order.
func ExecuteEvaluations(ctx context.Context, evaluators []Evaluator, req kernels.Request, reporter ProgressReporter, out io.Writer) []EvaluationResult {
	g, ctx := errgroup.WithContext(ctx)
	results := make([]EvaluationResult, len(evaluators))
	progressChan := make(chan ProgressUpdate, len(evaluators)*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go reporter.DisplayProgress(&displayWg, progressChan, len(evaluators), out)

	for i, ev := range evaluators {
		idx, evaluator := i, ev
		g.Go(func() error {
			start := time.Now()
			v, err := evaluator.Evaluate(ctx, req)
			results[idx] = EvaluationResult{
				Name: evaluator.Name(), Request: req, Value: v, Duration: time.Since(start), Err: err,
			}
			progressChan <- ProgressUpdate{Index: idx, Value: 1}
			return nil
		})
	}

	_ = g.Wait()
	close(progressChan)
	displayWg.Wait()

	return results
}

// AnalyzeComparisonResults sorts results by success then duration, presents
// the comparison table and checks that every successful evaluator agrees.
// Integer values must match exactly; float values within
// kernels.FloatTolerance relative error.
func AnalyzeComparisonResults(results []EvaluationResult, opts PresentationOptions, presenter ResultPresenter, handler ErrorHandler, out io.Writer) int {
	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})

	var firstValid *EvaluationResult
	var firstError error
	successCount := 0
	for i := range results {
		if results[i].Err != nil {
			if firstError == nil {
				firstError = results[i].Err
			}
			continue
		}
		successCount++
		if firstValid == nil {
			firstValid = &results[i]
		}
	}

	presenter.PresentComparisonTable(results, out)

	if successCount == 0 {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No evaluator could complete the request.\n")
		return handler.HandleError(firstError, 0, out)
	}

	for _, res := range results {
		if res.Err == nil && !res.Value.Matches(firstValid.Value) {
			fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! %s returned %s but %s returned %s.\n",
				firstValid.Name, firstValid.Value, res.Name, res.Value)
			return apperrors.ExitErrorMismatch
		}
	}

	fmt.Fprintf(out, "\nGlobal Status: Success. All valid results are consistent.\n")
	presenter.PresentResult(*firstValid, opts, out)
	return apperrors.ExitSuccess
}

// Job is a named request in a batch.
type Job struct {
	Name    string
	Request kernels.Request
}

// ExecuteBatch evaluates jobs with at most concurrency workers in flight and
// returns results in job order. Jobs that have not started when ctx is done
// are reported with ctx.Err(); jobs already running complete.
func ExecuteBatch(ctx context.Context, evaluator Evaluator, jobs []Job, concurrency int, reporter ProgressReporter, out io.Writer) []EvaluationResult {
	if concurrency < 1 {
		concurrency = 1
	}
	results := make([]EvaluationResult, len(jobs))
	progressChan := make(chan ProgressUpdate, len(jobs)*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go reporter.DisplayProgress(&displayWg, progressChan, len(jobs), out)

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, j := range jobs {
		idx, job := i, j
		g.Go(func() error {
			start := time.Now()
			v, err := evaluator.Evaluate(ctx, job.Request)
			results[idx] = EvaluationResult{
				Name: job.Name, Request: job.Request, Value: v, Duration: time.Since(start), Err: err,
			}
			progressChan <- ProgressUpdate{Index: idx, Value: 1}
			return nil
		})
	}

	_ = g.Wait()
	close(progressChan)
	displayWg.Wait()

	return results
}

// BatchExitCode returns ExitSuccess when every job succeeded, otherwise the
// exit code of the first failure.
func BatchExitCode(results []EvaluationResult) int {
	for _, r := range results {
		if r.Err != nil {
			return apperrors.ExitCodeFor(r.Err)
		}
	}
	return apperrors.ExitSuccess
}
