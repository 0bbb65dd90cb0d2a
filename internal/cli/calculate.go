package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/matcalc/internal/config"
	"github.com/agbru/matcalc/internal/format"
	"github.com/agbru/matcalc/internal/matrix"
	"github.com/agbru/matcalc/internal/orchestration"
	"github.com/agbru/matcalc/internal/sysmon"
	"github.com/agbru/matcalc/internal/ui"
)

// PrintExecutionConfig displays the size, timeout, host and tuning of the
// run about to start.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Multiplying %s%dx%d%s %s matrices with a timeout of %s%s%s.\n",
		ui.ColorMagenta(), cfg.N, cfg.N, ui.ColorReset(), cfg.Input, ui.ColorYellow(), cfg.Timeout, ui.ColorReset())
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s, CPU features: %s%s%s.\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(),
		ui.ColorCyan(), runtime.Version(), ui.ColorReset(),
		ui.ColorCyan(), sysmon.CPUFeatures(), ui.ColorReset())
	fmt.Fprintf(out, "Tuning: leaf size=%s%d%s, spawn depth=%s%d%s, naive threads=%s%d%s",
		ui.ColorCyan(), cfg.LeafSize, ui.ColorReset(),
		ui.ColorCyan(), cfg.SpawnDepth, ui.ColorReset(),
		ui.ColorCyan(), cfg.Threads, ui.ColorReset())
	if cfg.MaxWorkers > 0 {
		fmt.Fprintf(out, ", max workers=%s%d%s", ui.ColorCyan(), cfg.MaxWorkers, ui.ColorReset())
	}
	if cfg.PoolLimit != "" {
		fmt.Fprintf(out, ", pool limit=%s%s%s", ui.ColorCyan(), cfg.PoolLimit, ui.ColorReset())
	}
	fmt.Fprintln(out, ".")
	fmt.Fprintf(out, "Operands: %s each.\n", format.FormatBytes(matrix.Bytes(cfg.N)))
}

// PrintExecutionMode displays whether one algorithm runs or several are
// compared.
func PrintExecutionMode(multipliers []orchestration.Multiplier, concurrent bool, out io.Writer) {
	var modeDesc string
	switch {
	case len(multipliers) > 1 && concurrent:
		modeDesc = "Concurrent comparison of all algorithms"
	case len(multipliers) > 1:
		modeDesc = "Sequential comparison of all algorithms"
	default:
		modeDesc = fmt.Sprintf("Single multiplication with the %s%s%s algorithm",
			ui.ColorGreen(), multipliers[0].Name(), ui.ColorReset())
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", modeDesc)
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}

// PrintInputs prints both operands when they are small enough.
func PrintInputs(a, b *matrix.Matrix, out io.Writer) {
	if a.Size > PrintLimit {
		return
	}
	DisplayMatrix(out, "A", a)
	DisplayMatrix(out, "B", b)
}
