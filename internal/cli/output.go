// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     Examples: [DisplayResult], [DisplayQuietResult], [DisplayProgress].
//
//   - Format* functions return a formatted string without performing I/O.
//     Examples: [FormatQuietResult], [FormatValue].
//
//   - Write* functions write data to files on the filesystem.
//     Examples: [WriteResultToFile].

package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/agbru/numkernels/internal/format"
	"github.com/agbru/numkernels/internal/kernels"
	"github.com/agbru/numkernels/internal/orchestration"
	"github.com/agbru/numkernels/internal/ui"
)

// LargestExactFibonacci is the largest n whose F(n) fits in a uint64.
const LargestExactFibonacci = 93

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// OutputFile is the path to save the result (empty for no file output).
	OutputFile string
	Quiet      bool
	Verbose    bool
}

// FormatValue renders v for humans: integers with thousands separators,
// floats with two decimals.
func FormatValue(v kernels.Value) string {
	if v.Kind == kernels.KindFloat {
		return fmt.Sprintf("%.2f", v.Float)
	}
	return format.FormatNumberString(v.String())
}

// FormatQuietResult returns the raw value, suitable for scripting.
func FormatQuietResult(v kernels.Value) string {
	return v.String()
}

// DisplayQuietResult prints only the raw value.
func DisplayQuietResult(out io.Writer, v kernels.Value) {
	fmt.Fprintln(out, FormatQuietResult(v))
}

// wraps reports whether a Fibonacci request goes past the uint64 range.
func wraps(req kernels.Request) bool {
	if req.Op != kernels.OpFibonacci && req.Op != kernels.OpFibonacciSum {
		return false
	}
	for _, a := range req.Args {
		if a > LargestExactFibonacci {
			return true
		}
	}
	return false
}

// DisplayResult prints the value of a successful evaluation. Verbose mode
// adds the raw value and the evaluator name.
func DisplayResult(result orchestration.EvaluationResult, verbose bool, out io.Writer) {
	fmt.Fprintf(out, "\n--- Result ---\n")
	fmt.Fprintf(out, "%s%s%s = %s%s%s\n",
		ui.ColorMagenta(), result.Request, ui.ColorReset(),
		ui.ColorGreen(), FormatValue(result.Value), ui.ColorReset())
	fmt.Fprintf(out, "Evaluated in %s%s%s.\n",
		ui.ColorYellow(), format.FormatExecutionDuration(result.Duration), ui.ColorReset())
	if wraps(result.Request) {
		fmt.Fprintf(out, "%sNote: Fibonacci numbers past F(%d) are reduced modulo 2^64.%s\n",
			ui.ColorYellow(), LargestExactFibonacci, ui.ColorReset())
	}
	if verbose {
		fmt.Fprintf(out, "Raw value:  %s\n", result.Value)
		fmt.Fprintf(out, "Evaluator:  %s\n", result.Name)
	}
}

// WriteResultToFile writes a result with a comment header to
// config.OutputFile, creating parent directories. It does nothing when
// OutputFile is empty.
func WriteResultToFile(result orchestration.EvaluationResult, config OutputConfig) error {
	if config.OutputFile == "" {
		return nil
	}

	dir := filepath.Dir(config.OutputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(config.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	fmt.Fprintf(file, "# numkernels result\n")
	fmt.Fprintf(file, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(file, "# Evaluator: %s\n", result.Name)
	fmt.Fprintf(file, "# Duration: %s\n", result.Duration)
	fmt.Fprintf(file, "\n")
	if _, err := fmt.Fprintf(file, "%s =\n%s\n", result.Request, result.Value); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// DisplayResultWithConfig displays result according to config and saves it
// when an output file is set.
func DisplayResultWithConfig(out io.Writer, result orchestration.EvaluationResult, config OutputConfig) error {
	if config.Quiet {
		DisplayQuietResult(out, result.Value)
	} else {
		DisplayResult(result, config.Verbose, out)
	}

	if config.OutputFile != "" {
		if err := WriteResultToFile(result, config); err != nil {
			return err
		}
		if !config.Quiet {
			fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n",
				ui.ColorGreen(), ui.ColorCyan(), config.OutputFile, ui.ColorReset())
		}
	}
	return nil
}
