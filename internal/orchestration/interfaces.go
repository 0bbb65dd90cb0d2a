package orchestration

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/agbru/matcalc/internal/matrix"
	"github.com/agbru/matcalc/internal/progress"
)

// Multiplier is one multiplication algorithm as seen by the runner.
type Multiplier interface {
	// Name returns the registry name of the algorithm, e.g. "strassen".
	Name() string
	// Multiply returns a*b, reporting its completed fraction to report when
	// report is non-nil. The result belongs to the caller.
	Multiply(ctx context.Context, a, b *matrix.Matrix, report progress.ProgressCallback) (*matrix.Matrix, error)
}

// MultiplicationResult is the outcome of one algorithm run.
type MultiplicationResult struct {
	// Name is the registry name of the algorithm.
	Name string
	// Result is the product, nil if Err is set.
	Result *matrix.Matrix
	// Duration is the wall-clock time of the run.
	Duration time.Duration
	// Err is the error the run failed with, if any.
	Err error
}

// PresentationOptions configures how results are presented.
type PresentationOptions struct {
	N       int
	Verbose bool
	Details bool
	// PrintMatrices prints the product; set for small sizes.
	PrintMatrices bool
}

// ProgressReporter displays progress updates until progressChan is closed,
// then calls wg.Done.
type ProgressReporter interface {
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numMultipliers int, out io.Writer)
}

// ProgressReporterFunc adapts a function to ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numMultipliers int, out io.Writer)

// DisplayProgress calls f.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numMultipliers int, out io.Writer) {
	f(wg, progressChan, numMultipliers, out)
}

// NullProgressReporter drains the channel without output, for quiet mode.
type NullProgressReporter struct{}

// DisplayProgress drains progressChan.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	DrainChannel(progressChan)
}

// ResultPresenter renders results and maps failures to exit codes.
type ResultPresenter interface {
	// PresentComparisonTable displays one row per algorithm run.
	PresentComparisonTable(results []MultiplicationResult, out io.Writer)
	// PresentResult displays the agreed product and its summary.
	PresentResult(result MultiplicationResult, opts PresentationOptions, out io.Writer)
	// HandleError reports err and returns the process exit code.
	HandleError(err error, duration time.Duration, out io.Writer) int
}
