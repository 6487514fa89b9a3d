// Package config parses command-line flags and NUMKERNELS_* environment
// variables into an AppConfig.
package config

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	apperrors "github.com/agbru/numkernels/internal/errors"
	"github.com/agbru/numkernels/internal/kernels"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "NUMKERNELS_"

// Default values for flags without an obvious zero value.
const (
	DefaultOp            = string(kernels.OpFibonacciSum)
	DefaultA             = "10"
	DefaultB             = "20"
	DefaultAddr          = ":8080"
	DefaultTimeout       = 5 * time.Minute
	DefaultLogLevel      = "info"
	DefaultMaxMatrixSize = 512
	DefaultMaxPrimeLimit = 100_000_000
)

// AppConfig aggregates the application's configuration.
type AppConfig struct {
	// Op is the operation name or alias for single-request mode.
	Op string
	// A and B are the textual arguments; only the first Op.Arity() are used.
	A, B string
	// Positional holds trailing arguments ("fibsum 10 20"); when present it
	// replaces Op, A and B.
	Positional []string
	// Verify runs the reference oracles next to the kernels and compares.
	Verify bool

	Batch       string
	Concurrency int

	REPL   bool
	TUI    bool
	Serve  bool
	Addr   string
	Script string

	Timeout    time.Duration
	OutputFile string
	Quiet      bool
	Verbose    bool
	NoColor    bool
	LogLevel   string
	// Completion names a shell whose completion script is printed instead
	// of running anything.
	Completion string

	// MaxMatrixSize and MaxPrimeLimit guard network and script hosts against
	// requests that would allocate unbounded memory. Zero disables a guard.
	MaxMatrixSize uint64
	MaxPrimeLimit uint64
}

// ParseConfig parses args (without the program name) into an AppConfig.
// Priority: command-line flags > environment variables > defaults.
func ParseConfig(programName string, args []string, errorOutput io.Writer) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorOutput)
	fs.Usage = func() {
		fmt.Fprintf(errorOutput, "Usage: %s [flags] [op [args...]]\n\nOperations:\n", programName)
		for _, op := range kernels.Ops() {
			fmt.Fprintf(errorOutput, "  %-20s %s(%s): %s\n", op, op, strings.Join(op.ArgNames(), ", "), op.Summary())
		}
		fmt.Fprintf(errorOutput, "\nFlags:\n")
		fs.PrintDefaults()
	}

	config := AppConfig{}
	fs.StringVar(&config.Op, "op", DefaultOp, "Operation to run ("+opList()+").")
	fs.StringVar(&config.A, "a", DefaultA, "First argument (n, a, limit or size).")
	fs.StringVar(&config.B, "b", DefaultB, "Second argument (b) for fibonacci_sum.")
	fs.BoolVar(&config.Verify, "verify", false, "Cross-check the result against the reference implementations.")
	fs.StringVar(&config.Batch, "batch", "", "Run the jobs of a YAML batch manifest.")
	fs.IntVar(&config.Concurrency, "concurrency", DefaultConcurrency(), "Maximum concurrent jobs in batch mode.")
	fs.BoolVar(&config.REPL, "repl", false, "Start an interactive session.")
	fs.BoolVar(&config.TUI, "tui", false, "Start the interactive demo console.")
	fs.BoolVar(&config.Serve, "serve", false, "Serve the kernels over HTTP.")
	fs.StringVar(&config.Addr, "addr", DefaultAddr, "Listen address for -serve.")
	fs.StringVar(&config.Script, "script", "", "Run a Lua script with the kernels table preloaded.")
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum execution time.")
	fs.StringVar(&config.OutputFile, "output", "", "Write the result (or batch report) to a file.")
	fs.StringVar(&config.OutputFile, "o", "", "Write the result to a file (shorthand).")
	fs.BoolVar(&config.Quiet, "quiet", false, "Print only the result value.")
	fs.BoolVar(&config.Quiet, "q", false, "Quiet mode (shorthand).")
	fs.BoolVar(&config.Verbose, "verbose", false, "Show the kernel log and memory statistics.")
	fs.BoolVar(&config.Verbose, "v", false, "Verbose mode (shorthand).")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output.")
	fs.StringVar(&config.LogLevel, "log-level", DefaultLogLevel, "Log level (debug, info, warn, error).")
	fs.StringVar(&config.Completion, "completion", "", "Print a shell completion script (bash, zsh, fish).")
	fs.Uint64Var(&config.MaxMatrixSize, "max-matrix-size", DefaultMaxMatrixSize, "Largest matrix size accepted by -serve and -script (0 = unlimited).")
	fs.Uint64Var(&config.MaxPrimeLimit, "max-prime-limit", DefaultMaxPrimeLimit, "Largest prime limit accepted by -serve and -script (0 = unlimited).")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	config.Positional = fs.Args()

	if err := applyEnvOverrides(&config, fs); err != nil {
		return AppConfig{}, err
	}
	if err := config.Validate(); err != nil {
		fmt.Fprintln(errorOutput, "Error:", err)
		return AppConfig{}, err
	}
	return config, nil
}

// Validate checks the semantic consistency of the configuration.
func (c AppConfig) Validate() error {
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout value must be strictly positive")
	}
	if c.Concurrency < 1 {
		return apperrors.NewConfigError("concurrency must be at least 1, got %d", c.Concurrency)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.Completion {
	case "", "bash", "zsh", "fish":
	default:
		return apperrors.NewConfigError("unsupported shell %q for -completion (want bash, zsh or fish)", c.Completion)
	}
	modes := 0
	for _, on := range []bool{c.REPL, c.TUI, c.Serve, c.Script != "", c.Batch != ""} {
		if on {
			modes++
		}
	}
	if modes > 1 {
		return apperrors.NewConfigError("flags -repl, -tui, -serve, -script and -batch are mutually exclusive")
	}
	if modes == 0 {
		if _, err := c.Request(); err != nil {
			return apperrors.NewConfigError("%v", err)
		}
	}
	return nil
}

// Request builds the single request described by Op/A/B or by the
// positional arguments.
func (c AppConfig) Request() (kernels.Request, error) {
	name, raw := c.Op, []string{c.A, c.B}
	if len(c.Positional) > 0 {
		name, raw = c.Positional[0], c.Positional[1:]
	}
	op, err := kernels.ParseOp(name)
	if err != nil {
		return kernels.Request{}, err
	}
	if len(c.Positional) == 0 {
		raw = raw[:op.Arity()]
	}
	args, err := kernels.ParseArgs(op, raw)
	if err != nil {
		return kernels.Request{}, err
	}
	return kernels.Request{Op: op, Args: args}, nil
}

// ParseLogLevel validates a --log-level value.
func ParseLogLevel(level string) (string, error) {
	switch l := strings.ToLower(level); l {
	case "debug", "info", "warn", "error":
		return l, nil
	}
	return "", apperrors.NewConfigError("unknown log level %q (want debug, info, warn or error)", level)
}

func opList() string {
	names := make([]string, 0, len(kernels.Ops()))
	for _, op := range kernels.Ops() {
		names = append(names, string(op))
	}
	return strings.Join(names, ", ")
}
