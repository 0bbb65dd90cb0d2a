package calibration

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/agbru/matcalc/internal/config"
	"github.com/agbru/matcalc/internal/format"
	"github.com/agbru/matcalc/internal/ui"
)

// printCalibrationResults prints one row per candidate leaf size.
func printCalibrationResults(out io.Writer, results []calibrationResult, bestLeaf int) {
	fmt.Fprintf(out, "\n--- Calibration Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "  %sLeaf size%s    │ %sExecution Time%s\n", ui.ColorBold(), ui.ColorReset(), ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(tw, "  %s┼%s\n", strings.Repeat("─", 14), strings.Repeat("─", 25))
	for _, res := range results {
		durationStr := fmt.Sprintf("%sN/A%s", ui.ColorRed(), ui.ColorReset())
		if res.Err == nil {
			durationStr = format.FormatExecutionDuration(res.Duration)
		}
		highlight := ""
		if res.LeafSize == bestLeaf && res.Err == nil {
			highlight = fmt.Sprintf(" %s(Optimal)%s", ui.ColorGreen(), ui.ColorReset())
		}
		fmt.Fprintf(tw, "  %s%-12d%s │ %s%s%s%s\n", ui.ColorCyan(), res.LeafSize, ui.ColorReset(), ui.ColorYellow(), durationStr, ui.ColorReset(), highlight)
	}
	tw.Flush()
}

// printCalibrationOutput prints the tuning a run will use.
func printCalibrationOutput(cfg config.AppConfig, out io.Writer) {
	fmt.Fprintf(out, "%sCalibration%s: leaf size=%s%d%s, spawn depth=%s%d%s\n",
		ui.ColorGreen(), ui.ColorReset(),
		ui.ColorYellow(), cfg.LeafSize, ui.ColorReset(),
		ui.ColorYellow(), cfg.SpawnDepth, ui.ColorReset())
}
