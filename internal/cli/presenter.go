package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	apperrors "github.com/agbru/matcalc/internal/errors"
	"github.com/agbru/matcalc/internal/format"
	"github.com/agbru/matcalc/internal/orchestration"
	"github.com/agbru/matcalc/internal/progress"
	"github.com/agbru/matcalc/internal/ui"
)

// CLIProgressReporter displays progress with a spinner.
type CLIProgressReporter struct{}

var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress implements orchestration.ProgressReporter.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numMultipliers int, out io.Writer) {
	DisplayProgress(wg, progressChan, numMultipliers, out)
}

// CLIResultPresenter prints colorized results to a terminal.
type CLIResultPresenter struct{}

var _ orchestration.ResultPresenter = CLIResultPresenter{}

// PresentComparisonTable prints one row per run with its duration, its
// ratio to the fastest successful run, and its status. Padding is computed
// on the plain text so color codes do not break alignment.
func (CLIResultPresenter) PresentComparisonTable(results []orchestration.MultiplicationResult, out io.Writer) {
	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")

	var fastest time.Duration
	for _, res := range results {
		if res.Err == nil && (fastest == 0 || res.Duration < fastest) {
			fastest = res.Duration
		}
	}

	nameWidth, durWidth := len("Algorithm"), len("Duration")
	for _, res := range results {
		nameWidth = max(nameWidth, len(res.Name))
		durWidth = max(durWidth, len(displayDuration(res.Duration)))
	}

	fmt.Fprintf(out, "%s%s%s   %s%s%s   %sRatio%s   %sStatus%s\n",
		ui.ColorBold(), padRight("Algorithm", nameWidth), ui.ColorReset(),
		ui.ColorBold(), padRight("Duration", durWidth), ui.ColorReset(),
		ui.ColorBold(), ui.ColorReset(),
		ui.ColorBold(), ui.ColorReset())

	for _, res := range results {
		ratio := "  -  "
		status := fmt.Sprintf("%s✅ Success%s", ui.ColorGreen(), ui.ColorReset())
		if res.Err != nil {
			status = fmt.Sprintf("%s❌ Failure (%v)%s", ui.ColorRed(), res.Err, ui.ColorReset())
		} else if fastest > 0 {
			ratio = fmt.Sprintf("x%4.2f", float64(res.Duration)/float64(fastest))
		}
		fmt.Fprintf(out, "%s%s%s   %s%s%s   %s   %s\n",
			ui.ColorBlue(), padRight(res.Name, nameWidth), ui.ColorReset(),
			ui.ColorYellow(), padRight(displayDuration(res.Duration), durWidth), ui.ColorReset(),
			ratio, status)
	}
}

// PresentResult prints the agreed product.
func (CLIResultPresenter) PresentResult(result orchestration.MultiplicationResult, opts orchestration.PresentationOptions, out io.Writer) {
	DisplayResult(result, opts, out)
}

// HandleError maps err to an exit code, printing a themed message.
func (CLIResultPresenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	return apperrors.HandleCalculationError(err, duration, out, ui.CLIColorProvider{})
}

func displayDuration(d time.Duration) string {
	if d == 0 {
		return "< 1µs"
	}
	return format.FormatExecutionDuration(d)
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
