// Package app wires configuration, logging and telemetry to the numkernels
// hosts and selects the run mode.
package app

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/agbru/numkernels/internal/cli"
	"github.com/agbru/numkernels/internal/config"
	apperrors "github.com/agbru/numkernels/internal/errors"
	"github.com/agbru/numkernels/internal/kernels"
	"github.com/agbru/numkernels/internal/logging"
	"github.com/agbru/numkernels/internal/telemetry"
	"github.com/agbru/numkernels/internal/tui"
	"github.com/agbru/numkernels/internal/ui"
)

// ServiceName identifies the process in traces.
const ServiceName = "numkernels"

// Application represents the numkernels application instance.
type Application struct {
	Config    config.AppConfig
	Module    *kernels.Module
	ErrWriter io.Writer

	programName string
	logger      logging.Logger
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithModule sets the kernel module used by every mode.
func WithModule(m *kernels.Module) AppOption {
	return func(a *Application) { a.Module = m }
}

// WithLogger sets the logger for the kernel side channel and the hosts.
func WithLogger(l logging.Logger) AppOption {
	return func(a *Application) { a.logger = l }
}

// New creates a new Application instance by parsing command-line arguments.
// args[0] is the program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter, programName: "numkernels"}

	var cmdArgs []string
	if len(args) > 0 {
		app.programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(app.programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}
	app.Config = cfg

	for _, opt := range opts {
		opt(app)
	}
	if app.logger == nil {
		app.logger = app.defaultLogger()
	}
	if app.Module == nil {
		app.Module = kernels.New(kernels.WithLogger(app.logger))
	}
	return app, nil
}

// defaultLogger keeps the kernel side channel silent unless verbose output
// or a long-running host asks for it.
func (a *Application) defaultLogger() logging.Logger {
	switch {
	case a.Config.Serve:
		return logging.NewLogger(a.ErrWriter, "server")
	case a.Config.Script != "":
		return logging.NewLogger(a.ErrWriter, "script")
	case a.Config.Verbose:
		return logging.NewLogger(a.ErrWriter, "kernels")
	}
	return logging.NopLogger{}
}

// Run executes the application based on the configured mode and returns the
// process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	zerolog.SetGlobalLevel(logging.ParseLevel(a.Config.LogLevel))
	ui.InitTheme(a.Config.NoColor)
	kernels.OnLoad(a.logger)

	shutdown, err := telemetry.Setup(ctx, ServiceName, Version)
	if err != nil {
		a.logger.Error("telemetry setup failed", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			a.logger.Error("telemetry shutdown failed", err)
		}
	}()

	switch {
	case a.Config.Serve:
		return a.runServe(ctx)
	case a.Config.TUI:
		return a.runTUI(ctx)
	case a.Config.REPL:
		return a.runREPL(ctx, out)
	case a.Config.Script != "":
		return a.runScript(ctx, out)
	case a.Config.Batch != "":
		return a.runBatch(ctx, out)
	}
	return a.runSingle(ctx, out)
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion, a.programName); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// runTUI launches the interactive demo console.
func (a *Application) runTUI(ctx context.Context) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()
	return tui.Run(ctx, a.Module, Version)
}

// limits returns the argument caps applied by hosts exposed to untrusted
// input.
func (a *Application) limits() kernels.Limits {
	return kernels.Limits{
		MaxMatrixSize: a.Config.MaxMatrixSize,
		MaxPrimeLimit: a.Config.MaxPrimeLimit,
	}
}
