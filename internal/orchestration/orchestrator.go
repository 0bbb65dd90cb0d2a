package orchestration

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/matcalc/internal/errors"
	"github.com/agbru/matcalc/internal/matrix"
	"github.com/agbru/matcalc/internal/progress"
)

// ProgressBufferMultiplier sizes the progress channel per multiplier so a
// slow display rarely makes updates drop.
const ProgressBufferMultiplier = 16

// ExecutionOptions controls how ExecuteMultiplications schedules the runs.
type ExecutionOptions struct {
	// Concurrent runs every multiplier at once. By default they run one
	// after the other, so each one's timing is not disturbed by the others.
	Concurrent bool
}

// ExecuteMultiplications runs every multiplier on a and b and returns their
// results in the same order. Failures are recorded in the results, never
// returned; a canceled ctx makes the remaining runs fail with ctx.Err().
func ExecuteMultiplications(ctx context.Context, multipliers []Multiplier, a, b *matrix.Matrix, opts ExecutionOptions, reporter ProgressReporter, out io.Writer) []MultiplicationResult {
	g, ctx := errgroup.WithContext(ctx)
	if !opts.Concurrent {
		g.SetLimit(1)
	}
	results := make([]MultiplicationResult, len(multipliers))
	progressChan := make(chan progress.ProgressUpdate, max(1, len(multipliers))*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go reporter.DisplayProgress(&displayWg, progressChan, len(multipliers), out)

	for i, m := range multipliers {
		g.Go(func() error {
			start := time.Now()
			var (
				res *matrix.Matrix
				err = ctx.Err()
			)
			if err == nil {
				res, err = m.Multiply(ctx, a, b, progress.ChannelCallback(progressChan, i))
			}
			if err != nil {
				err = apperrors.MultiplicationError{Algorithm: m.Name(), Cause: err}
			}
			results[i] = MultiplicationResult{Name: m.Name(), Result: res, Duration: time.Since(start), Err: err}
			return nil
		})
	}

	_ = g.Wait()
	close(progressChan)
	displayWg.Wait()
	return results
}

// AnalyzeComparisonResults sorts results (successes first, fastest first),
// presents them, and checks that every successful product is identical.
// It returns the process exit code.
func AnalyzeComparisonResults(results []MultiplicationResult, opts PresentationOptions, presenter ResultPresenter, out io.Writer) int {
	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})

	presenter.PresentComparisonTable(results, out)

	if len(results) == 0 || results[0].Err != nil {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No algorithm could complete the multiplication.\n")
		var firstErr error
		if len(results) > 0 {
			firstErr = results[0].Err
		}
		return presenter.HandleError(firstErr, 0, out)
	}

	reference := results[0]
	for _, res := range results[1:] {
		if res.Err != nil {
			continue
		}
		if row, col, found := matrix.FirstDifference(reference.Result, res.Result); found {
			fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! The algorithms produced different products.\n")
			return presenter.HandleError(apperrors.MismatchError{
				Row: row, Col: col,
				Want: reference.Result.At(row, col), Got: res.Result.At(row, col),
				Left: reference.Name, Right: res.Name,
			}, 0, out)
		}
	}

	if successes := countSuccesses(results); successes > 1 {
		fmt.Fprintf(out, "\nGlobal Status: SUCCESS. All %d products are identical.\n", successes)
	} else {
		fmt.Fprintf(out, "\nGlobal Status: Success.\n")
	}
	presenter.PresentResult(reference, opts, out)
	return apperrors.ExitSuccess
}

func countSuccesses(results []MultiplicationResult) int {
	n := 0
	for _, r := range results {
		if r.Err == nil {
			n++
		}
	}
	return n
}
