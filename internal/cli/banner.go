package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"golang.org/x/sys/cpu"

	"github.com/agbru/numkernels/internal/config"
	"github.com/agbru/numkernels/internal/kernels"
	"github.com/agbru/numkernels/internal/orchestration"
	"github.com/agbru/numkernels/internal/ui"
)

// CPUFeatures lists the SIMD extensions reported by the processor, or "none".
func CPUFeatures() string {
	var features []string
	switch runtime.GOARCH {
	case "amd64", "386":
		for _, f := range []struct {
			name string
			on   bool
		}{
			{"SSE4.2", cpu.X86.HasSSE42},
			{"AVX", cpu.X86.HasAVX},
			{"AVX2", cpu.X86.HasAVX2},
			{"FMA", cpu.X86.HasFMA},
			{"AVX-512F", cpu.X86.HasAVX512F},
		} {
			if f.on {
				features = append(features, f.name)
			}
		}
	case "arm64":
		if cpu.ARM64.HasASIMD {
			features = append(features, "ASIMD")
		}
		if cpu.ARM64.HasSVE {
			features = append(features, "SVE")
		}
	}
	if len(features) == 0 {
		return "none"
	}
	return strings.Join(features, ", ")
}

// PrintExecutionConfig displays the request, the timeout and the host.
func PrintExecutionConfig(cfg config.AppConfig, req kernels.Request, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Evaluating %s%s%s with a timeout of %s%s%s.\n",
		ui.ColorMagenta(), req, ui.ColorReset(), ui.ColorYellow(), cfg.Timeout, ui.ColorReset())
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s, %s/%s.\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(), ui.ColorCyan(), runtime.Version(), ui.ColorReset(),
		runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(out, "CPU features: %s%s%s.\n", ui.ColorCyan(), CPUFeatures(), ui.ColorReset())
}

// PrintExecutionMode tells whether the request is evaluated alone or
// cross-checked.
func PrintExecutionMode(evaluators []orchestration.Evaluator, out io.Writer) {
	var modeDesc string
	if len(evaluators) > 1 {
		names := make([]string, len(evaluators))
		for i, e := range evaluators {
			names[i] = e.Name()
		}
		modeDesc = "Cross-check of " + strings.Join(names, " and ")
	} else {
		modeDesc = fmt.Sprintf("Single evaluation with the %s%s%s evaluator",
			ui.ColorGreen(), evaluators[0].Name(), ui.ColorReset())
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", modeDesc)
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}
