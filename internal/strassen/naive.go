package strassen

import (
	"context"
	"sync"

	"github.com/agbru/matcalc/internal/matrix"
	"github.com/agbru/matcalc/internal/parallel"
	"github.com/agbru/matcalc/internal/progress"
)

// Multiply returns a*b computed with the naive row-parallel algorithm. Any
// size n >= 1 is accepted. Goroutine t of T computes rows t, t+T, t+2T and
// so on; the rows are disjoint so the only synchronization is the final
// join.
func (e *Engine) Multiply(ctx context.Context, a, b *matrix.Matrix) (*matrix.Matrix, error) {
	return e.MultiplyWithProgress(ctx, a, b, nil)
}

// MultiplyWithProgress is Multiply reporting the fraction of rows completed
// to report.
func (e *Engine) MultiplyWithProgress(ctx context.Context, a, b *matrix.Matrix, report progress.ProgressCallback) (result *matrix.Matrix, err error) {
	if err := validateOperands(a, b, false); err != nil {
		return nil, err
	}
	done := e.instrument(ctx, "naive", a.Size, &err)
	defer done()

	n := a.Size
	result, err = e.pool.Acquire(n)
	if err != nil {
		return nil, err
	}

	threads := min(e.opts.Threads, n)
	tracker := progress.NewTracker(uint64(n), report)
	av, bv := a.View(), b.View()

	var (
		wg sync.WaitGroup
		ec parallel.ErrorCollector
	)
	for t := range threads {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for row := t; row < n && !ec.Failed(); row += threads {
				if err := ctx.Err(); err != nil {
					ec.SetError(err)
					return
				}
				multiplyRow(result.Data[row*n:(row+1)*n], av.Row(row), bv)
				tracker.Step(1)
			}
		}()
	}
	wg.Wait()

	if err := ec.Err(); err != nil {
		e.pool.Release(result)
		return nil, err
	}
	tracker.Finish()
	return result, nil
}

// MultiplySync returns a*b for two equally sized views on the calling
// goroutine. It is the base case of the Strassen recursion. The result comes
// from the pool.
func (e *Engine) MultiplySync(a, b matrix.View) (*matrix.Matrix, error) {
	n := a.Size()
	result, err := e.pool.Acquire(n)
	if err != nil {
		return nil, err
	}
	e.baseCases.Add(1)
	for i := range n {
		multiplyRow(result.Data[i*n:(i+1)*n], a.Row(i), b)
	}
	return result, nil
}

// multiplyRow overwrites dst with the row vector aRow times b. The k-outer
// loop walks b row by row.
func multiplyRow(dst, aRow []int64, b matrix.View) {
	clear(dst)
	for k, aik := range aRow {
		if aik == 0 {
			continue
		}
		bRow := b.Row(k)
		for j := range dst {
			dst[j] += aik * bRow[j]
		}
	}
}
