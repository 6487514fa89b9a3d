package config

import (
	"flag"
	"runtime"
	"time"

	"github.com/caarlos0/env/v11"

	apperrors "github.com/agbru/numkernels/internal/errors"
)

// envConfig holds the raw NUMKERNELS_* values. Pointer fields stay nil when
// the variable is unset so that only present variables override defaults.
type envConfig struct {
	Op            *string        `env:"OP"`
	A             *string        `env:"A"`
	B             *string        `env:"B"`
	Verify        *bool          `env:"VERIFY"`
	Batch         *string        `env:"BATCH"`
	Concurrency   *int           `env:"CONCURRENCY"`
	Addr          *string        `env:"ADDR"`
	Script        *string        `env:"SCRIPT"`
	Timeout       *time.Duration `env:"TIMEOUT"`
	Output        *string        `env:"OUTPUT"`
	Quiet         *bool          `env:"QUIET"`
	Verbose       *bool          `env:"VERBOSE"`
	NoColor       *bool          `env:"NO_COLOR"`
	LogLevel      *string        `env:"LOG_LEVEL"`
	MaxMatrixSize *uint64        `env:"MAX_MATRIX_SIZE"`
	MaxPrimeLimit *uint64        `env:"MAX_PRIME_LIMIT"`
	Serve         *bool          `env:"SERVE"`
	TUI           *bool          `env:"TUI"`
}

// envOverride maps a CLI flag (and its aliases) to the env value that
// replaces it when the flag was not given explicitly.
type envOverride struct {
	flags []string
	apply func(*AppConfig, *envConfig)
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

var envOverrides = []envOverride{
	{[]string{"op"}, func(c *AppConfig, e *envConfig) { set(&c.Op, e.Op) }},
	{[]string{"a"}, func(c *AppConfig, e *envConfig) { set(&c.A, e.A) }},
	{[]string{"b"}, func(c *AppConfig, e *envConfig) { set(&c.B, e.B) }},
	{[]string{"verify"}, func(c *AppConfig, e *envConfig) { set(&c.Verify, e.Verify) }},
	{[]string{"batch"}, func(c *AppConfig, e *envConfig) { set(&c.Batch, e.Batch) }},
	{[]string{"concurrency"}, func(c *AppConfig, e *envConfig) { set(&c.Concurrency, e.Concurrency) }},
	{[]string{"addr"}, func(c *AppConfig, e *envConfig) { set(&c.Addr, e.Addr) }},
	{[]string{"script"}, func(c *AppConfig, e *envConfig) { set(&c.Script, e.Script) }},
	{[]string{"timeout"}, func(c *AppConfig, e *envConfig) { set(&c.Timeout, e.Timeout) }},
	{[]string{"output", "o"}, func(c *AppConfig, e *envConfig) { set(&c.OutputFile, e.Output) }},
	{[]string{"quiet", "q"}, func(c *AppConfig, e *envConfig) { set(&c.Quiet, e.Quiet) }},
	{[]string{"verbose", "v"}, func(c *AppConfig, e *envConfig) { set(&c.Verbose, e.Verbose) }},
	{[]string{"no-color"}, func(c *AppConfig, e *envConfig) { set(&c.NoColor, e.NoColor) }},
	{[]string{"log-level"}, func(c *AppConfig, e *envConfig) { set(&c.LogLevel, e.LogLevel) }},
	{[]string{"max-matrix-size"}, func(c *AppConfig, e *envConfig) { set(&c.MaxMatrixSize, e.MaxMatrixSize) }},
	{[]string{"max-prime-limit"}, func(c *AppConfig, e *envConfig) { set(&c.MaxPrimeLimit, e.MaxPrimeLimit) }},
	{[]string{"serve"}, func(c *AppConfig, e *envConfig) { set(&c.Serve, e.Serve) }},
	{[]string{"tui"}, func(c *AppConfig, e *envConfig) { set(&c.TUI, e.TUI) }},
}

// applyEnvOverrides applies NUMKERNELS_* values for every flag that was not
// set on the command line. A malformed value is a ConfigError.
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) error {
	var e envConfig
	if err := env.ParseWithOptions(&e, env.Options{Prefix: EnvPrefix}); err != nil {
		return apperrors.NewConfigError("invalid environment: %v", err)
	}
	for _, o := range envOverrides {
		if isFlagSetAny(fs, o.flags...) {
			continue
		}
		o.apply(config, &e)
	}
	return nil
}

// isFlagSet reports whether a flag was given explicitly on the command line.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// isFlagSetAny reports whether any of the aliased flags was given.
func isFlagSetAny(fs *flag.FlagSet, names ...string) bool {
	for _, name := range names {
		if isFlagSet(fs, name) {
			return true
		}
	}
	return false
}

// DefaultConcurrency picks the batch worker count from the CPU count.
func DefaultConcurrency() int {
	n := runtime.NumCPU()
	switch {
	case n <= 2:
		return 1
	case n <= 8:
		return n - 1
	default:
		return 8
	}
}
