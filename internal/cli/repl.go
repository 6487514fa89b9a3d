// Package cli implements the terminal front end: progress display, result
// presentation, the execution banner, shell completion and the interactive
// REPL.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/agbru/numkernels/internal/format"
	"github.com/agbru/numkernels/internal/kernels"
	"github.com/agbru/numkernels/internal/orchestration"
	"github.com/agbru/numkernels/internal/ui"
)

// REPLConfig holds configuration for the REPL session.
type REPLConfig struct {
	// Timeout bounds each evaluation.
	Timeout time.Duration
	// Verify cross-checks every result against the reference evaluator.
	Verify bool
	// Reporter displays progress; nil selects CLIProgressReporter.
	Reporter orchestration.ProgressReporter
}

// REPL is an interactive kernel session.
type REPL struct {
	config REPLConfig
	module *kernels.Module
	in     io.Reader
	out    io.Writer
}

// NewREPL creates a REPL reading stdin and writing stdout.
func NewREPL(m *kernels.Module, config REPLConfig) *REPL {
	if config.Reporter == nil {
		config.Reporter = CLIProgressReporter{}
	}
	return &REPL{config: config, module: m, in: os.Stdin, out: os.Stdout}
}

// SetInput sets a custom input reader.
func (r *REPL) SetInput(in io.Reader) { r.in = in }

// SetOutput sets a custom output writer.
func (r *REPL) SetOutput(out io.Writer) { r.out = out }

// Start reads and executes commands until "exit" or EOF, or until ctx is
// done.
func (r *REPL) Start(ctx context.Context) {
	r.printBanner()
	r.printHelp()
	fmt.Fprintln(r.out)

	reader := bufio.NewReader(r.in)
	for ctx.Err() == nil {
		fmt.Fprint(r.out, ui.ColorGreen()+"nk> "+ui.ColorReset())

		input, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && input != "") {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(r.out, "%sRead error: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
			return
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if !r.processCommand(ctx, input) {
			return
		}
	}
}

func (r *REPL) printBanner() {
	fmt.Fprintf(r.out, "\n%s╔══════════════════════════════════════════════╗%s\n", ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s║%s     %snumkernels - Interactive Mode%s            %s║%s\n",
		ui.ColorCyan(), ui.ColorReset(), ui.ColorBold(), ui.ColorReset(), ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s╚══════════════════════════════════════════════╝%s\n\n", ui.ColorCyan(), ui.ColorReset())
}

func (r *REPL) printHelp() {
	fmt.Fprintf(r.out, "%sAvailable commands:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sfib <n>%s            - Fibonacci number F(n) mod 2^64\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sfibsum <a> <b>%s     - F(a) + F(b) mod 2^64\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sprimes <limit>%s     - Count primes <= limit\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %smatrix <size>%s      - Sum of the size x size matrix product\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %s<n>%s                - Shorthand for fib <n>\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sverify%s             - Toggle cross-checking with the reference\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sstatus%s             - Display current configuration\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %shelp%s               - Display this help\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sexit%s / %squit%s        - Exit interactive mode\n", ui.ColorYellow(), ui.ColorReset(), ui.ColorYellow(), ui.ColorReset())
}

// processCommand executes one command line. It returns false on exit.
func (r *REPL) processCommand(ctx context.Context, input string) bool {
	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "verify", "vf":
		r.config.Verify = !r.config.Verify
		fmt.Fprintf(r.out, "Verification: %s%s%s\n", ui.ColorGreen(), onOff(r.config.Verify), ui.ColorReset())
		return true
	case "status", "st":
		r.cmdStatus()
		return true
	case "help", "h", "?":
		r.printHelp()
		return true
	case "exit", "quit", "q":
		fmt.Fprintf(r.out, "%sGoodbye!%s\n", ui.ColorGreen(), ui.ColorReset())
		return false
	}

	if _, err := strconv.ParseUint(cmd, 10, 32); err == nil {
		cmd, args = string(kernels.OpFibonacci), parts
	}
	op, err := kernels.ParseOp(cmd)
	if err != nil {
		fmt.Fprintf(r.out, "%sUnknown command: %s%s\n", ui.ColorRed(), cmd, ui.ColorReset())
		fmt.Fprintf(r.out, "Type %shelp%s to see available commands.\n", ui.ColorYellow(), ui.ColorReset())
		return true
	}
	parsed, err := kernels.ParseArgs(op, args)
	if err != nil {
		fmt.Fprintf(r.out, "%sUsage: %s %s (%v)%s\n",
			ui.ColorRed(), op, strings.Join(op.ArgNames(), " "), err, ui.ColorReset())
		return true
	}
	r.evaluate(ctx, kernels.Request{Op: op, Args: parsed})
	return true
}

func (r *REPL) evaluate(ctx context.Context, req kernels.Request) {
	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	fmt.Fprintf(r.out, "Evaluating %s%s%s...\n", ui.ColorMagenta(), req, ui.ColorReset())

	evaluators := orchestration.EvaluatorsToRun(r.module, r.config.Verify)
	results := orchestration.ExecuteEvaluations(ctx, evaluators, req, r.config.Reporter, r.out)

	first := results[0]
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(r.out, "%sError (%s): %v%s\n", ui.ColorRed(), res.Name, res.Err, ui.ColorReset())
			return
		}
	}

	fmt.Fprintf(r.out, "\n%sResult:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Time:  %s%s%s\n", ui.ColorGreen(), format.FormatExecutionDuration(first.Duration), ui.ColorReset())
	fmt.Fprintf(r.out, "  %s = %s%s%s\n", req, ui.ColorGreen(), FormatValue(first.Value), ui.ColorReset())
	if wraps(req) {
		fmt.Fprintf(r.out, "  %s(reduced modulo 2^64)%s\n", ui.ColorYellow(), ui.ColorReset())
	}
	for _, res := range results[1:] {
		mark := ui.ColorGreen() + "✓ consistent" + ui.ColorReset()
		if !res.Value.Matches(first.Value) {
			mark = ui.ColorRed() + "✗ INCONSISTENT (" + res.Value.String() + ")" + ui.ColorReset()
		}
		fmt.Fprintf(r.out, "  %-10s %s %s\n", res.Name, format.FormatExecutionDuration(res.Duration), mark)
	}
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdStatus() {
	fmt.Fprintf(r.out, "\n%sCurrent configuration:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Timeout:       %s%s%s\n", ui.ColorCyan(), r.config.Timeout, ui.ColorReset())
	fmt.Fprintf(r.out, "  Verification:  %s%s%s\n", ui.ColorCyan(), onOff(r.config.Verify), ui.ColorReset())
	fmt.Fprintln(r.out)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
