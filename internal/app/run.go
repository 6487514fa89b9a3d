package app

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/numkernels/internal/batch"
	"github.com/agbru/numkernels/internal/cli"
	apperrors "github.com/agbru/numkernels/internal/errors"
	"github.com/agbru/numkernels/internal/luahost"
	"github.com/agbru/numkernels/internal/metrics"
	"github.com/agbru/numkernels/internal/orchestration"
	"github.com/agbru/numkernels/internal/server"
	"github.com/agbru/numkernels/internal/telemetry"
	"github.com/agbru/numkernels/internal/ui"
)

// lifecycle bounds ctx by the configured timeout and cancels it on SIGINT or
// SIGTERM.
func (a *Application) lifecycle(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	return ctx, func() {
		stopSignals()
		cancelTimeout()
	}
}

// fail prints err to the error writer and returns its exit code.
func (a *Application) fail(err error) int {
	return apperrors.HandleEvaluationError(err, 0, a.ErrWriter, cli.CLIColorProvider{})
}

// reporter selects the progress display for the current verbosity.
func (a *Application) reporter(out io.Writer) (orchestration.ProgressReporter, io.Writer) {
	if a.Config.Quiet {
		return orchestration.NullProgressReporter{}, io.Discard
	}
	return cli.CLIProgressReporter{}, out
}

func (a *Application) outputConfig() cli.OutputConfig {
	return cli.OutputConfig{
		OutputFile: a.Config.OutputFile,
		Quiet:      a.Config.Quiet,
		Verbose:    a.Config.Verbose,
	}
}

// runSingle evaluates the request named on the command line, optionally
// cross-checked against the reference evaluator.
func (a *Application) runSingle(ctx context.Context, out io.Writer) int {
	req, err := a.Config.Request()
	if err != nil {
		return a.fail(err)
	}

	ctx, stop := a.lifecycle(ctx)
	defer stop()

	evaluators := orchestration.EvaluatorsToRun(a.Module, a.Config.Verify)
	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, req, out)
		cli.PrintExecutionMode(evaluators, out)
	}

	reporter, progressOut := a.reporter(out)
	collector := metrics.NewMemoryCollector()
	before := collector.Snapshot()
	results := orchestration.ExecuteEvaluations(ctx, evaluators, req, reporter, progressOut)
	usage := metrics.Since(before, collector.Snapshot())

	presenter := cli.CLIResultPresenter{}
	opts := orchestration.PresentationOptions{Verbose: a.Config.Verbose, Quiet: a.Config.Quiet}

	tableOut := out
	if a.Config.Quiet {
		tableOut = io.Discard
	}
	code := orchestration.AnalyzeComparisonResults(results, opts, presenter, presenter, tableOut)
	if code != apperrors.ExitSuccess {
		if a.Config.Quiet {
			a.reportQuietFailure(results, code)
		}
		return code
	}

	// Results are sorted successful-first, fastest-first.
	best := results[0]
	if a.Config.Quiet {
		cli.DisplayQuietResult(out, best.Value)
	} else if a.Config.Verbose {
		cli.DisplayMemoryStats(usage, out)
	}

	if a.Config.OutputFile != "" {
		if err := cli.WriteResultToFile(best, a.outputConfig()); err != nil {
			fmt.Fprintf(a.ErrWriter, "Error saving result: %v\n", err)
			return apperrors.ExitErrorGeneric
		}
		if !a.Config.Quiet {
			fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n",
				ui.ColorGreen(), ui.ColorCyan(), a.Config.OutputFile, ui.ColorReset())
		}
	}
	return apperrors.ExitSuccess
}

// reportQuietFailure explains a failed quiet run on the error writer, since
// stdout only ever carries the value.
func (a *Application) reportQuietFailure(results []orchestration.EvaluationResult, code int) {
	if code == apperrors.ExitErrorMismatch {
		fmt.Fprintf(a.ErrWriter, "Error: evaluators disagree on %s\n", results[0].Request)
		return
	}
	for _, r := range results {
		if r.Err != nil {
			apperrors.HandleEvaluationError(r.Err, r.Duration, a.ErrWriter, cli.CLIColorProvider{})
			return
		}
	}
}

// runBatch evaluates every job of a YAML manifest with bounded concurrency.
func (a *Application) runBatch(ctx context.Context, out io.Writer) int {
	manifest, err := batch.Load(a.Config.Batch)
	if err != nil {
		return a.fail(err)
	}
	jobs, err := manifest.Requests()
	if err != nil {
		return a.fail(err)
	}
	concurrency := a.Config.Concurrency
	if manifest.Concurrency > 0 {
		concurrency = manifest.Concurrency
	}

	ctx, stop := a.lifecycle(ctx)
	defer stop()
	ctx, span := telemetry.Tracer().Start(ctx, "batch",
		trace.WithAttributes(attribute.Int("batch.jobs", len(jobs)), attribute.Int("batch.concurrency", concurrency)))
	defer span.End()

	evaluator := orchestration.NewKernelEvaluator(a.Module)
	reporter, progressOut := a.reporter(out)
	start := time.Now()
	results := orchestration.ExecuteBatch(ctx, evaluator, jobs, concurrency, reporter, progressOut)

	report := batch.NewReport(results)
	switch {
	case a.Config.OutputFile != "":
		if err := report.WriteFile(a.Config.OutputFile); err != nil {
			fmt.Fprintf(a.ErrWriter, "Error saving report: %v\n", err)
			return apperrors.ExitErrorGeneric
		}
	case a.Config.Quiet:
		if err := report.Write(out); err != nil {
			fmt.Fprintf(a.ErrWriter, "Error writing report: %v\n", err)
			return apperrors.ExitErrorGeneric
		}
	}

	if !a.Config.Quiet {
		cli.CLIResultPresenter{}.PresentBatch(results, out)
		fmt.Fprintf(out, "Completed in %s.\n", time.Since(start).Round(time.Millisecond))
		if a.Config.OutputFile != "" {
			fmt.Fprintf(out, "\n%s✓ Report saved to: %s%s%s\n",
				ui.ColorGreen(), ui.ColorCyan(), a.Config.OutputFile, ui.ColorReset())
		}
	}
	return orchestration.BatchExitCode(results)
}

// runScript runs a Lua script with the kernels table preloaded.
func (a *Application) runScript(ctx context.Context, out io.Writer) int {
	ctx, stop := a.lifecycle(ctx)
	defer stop()

	host := luahost.New(
		luahost.WithLogger(a.logger),
		luahost.WithOutput(out),
		luahost.WithLimits(a.limits()),
	)
	if err := host.RunFile(ctx, a.Config.Script); err != nil {
		return a.fail(err)
	}
	return apperrors.ExitSuccess
}

// runREPL starts an interactive session on stdin and out.
func (a *Application) runREPL(ctx context.Context, out io.Writer) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	repl := cli.NewREPL(a.Module, cli.REPLConfig{
		Timeout: a.Config.Timeout,
		Verify:  a.Config.Verify,
	})
	repl.SetOutput(out)
	repl.Start(ctx)
	return apperrors.ExitSuccess
}

// runServe serves the kernels over HTTP until SIGINT or SIGTERM. The
// -timeout flag does not apply to the server lifetime.
func (a *Application) runServe(ctx context.Context) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	srv := server.New(server.Config{
		Addr:     a.Config.Addr,
		Limits:   a.limits(),
		Security: server.DefaultSecurityConfig(),
	},
		server.WithLogger(a.logger),
		server.WithModule(a.Module),
		server.WithTracer(telemetry.Tracer()),
	)
	if err := srv.ListenAndServe(ctx); err != nil {
		a.logger.Error("server stopped", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}
