package strassen

import (
	"context"
	"math/bits"
	"sync"
	"sync/atomic"
	"time"

	apperrors "github.com/agbru/matcalc/internal/errors"
	"github.com/agbru/matcalc/internal/matrix"
	"github.com/agbru/matcalc/internal/progress"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/semaphore"
)

// Engine multiplies matrices with Strassen's algorithm and with the naive
// baseline. It owns the pool its scratch matrices come from and the
// counters reported by Stats. An Engine is safe for concurrent use.
type Engine struct {
	opts    Options
	pool    *matrix.Pool
	workers *semaphore.Weighted
	logger  zerolog.Logger

	// mu guards the recursion depth counters.
	mu        sync.Mutex
	depth     int
	peakDepth int

	recursions atomic.Uint64
	baseCases  atomic.Uint64
	spawned    atomic.Uint64
	inlined    atomic.Uint64
}

// Stats is a snapshot of an Engine's telemetry.
type Stats struct {
	CacheHits   uint64
	CacheMisses uint64
	// Depth is the number of recursive frames currently in flight. It is
	// zero whenever no multiplication is running.
	Depth     int
	PeakDepth int
	// Threads is the naive multiplier's goroutine count.
	Threads    int
	LeafSize   int
	SpawnDepth int
	MaxWorkers int
	// Recursions counts recursive (non base case) calls.
	Recursions uint64
	BaseCases  uint64
	// SpawnedBranches counts products run on their own goroutine;
	// InlineBranches counts products that were eligible for a goroutine but
	// ran on the caller because MaxWorkers was reached.
	SpawnedBranches uint64
	InlineBranches  uint64
	Pool            matrix.PoolStats
}

// NewEngine creates an engine with a fresh pool.
func NewEngine(opts Options) *Engine {
	opts = normalizeOptions(opts)
	e := &Engine{
		opts:   opts,
		pool:   matrix.NewPool(opts.PoolLimit),
		logger: zerolog.Nop(),
	}
	if opts.MaxWorkers > 0 {
		e.workers = semaphore.NewWeighted(int64(opts.MaxWorkers))
	}
	return e
}

// SetLogger sets the logger used for per-call debug events.
func (e *Engine) SetLogger(logger zerolog.Logger) {
	e.logger = logger
}

// Options returns the normalized options the engine runs with.
func (e *Engine) Options() Options { return e.opts }

// Pool returns the engine's matrix pool.
func (e *Engine) Pool() *matrix.Pool { return e.pool }

// Clear drops every matrix retained by the engine's pool. Call it between
// computations, never while one is running.
func (e *Engine) Clear() {
	e.pool.Clear()
}

// Stats returns a snapshot of the engine's counters.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	depth, peak := e.depth, e.peakDepth
	e.mu.Unlock()
	ps := e.pool.Stats()
	return Stats{
		CacheHits:       ps.Hits,
		CacheMisses:     ps.Misses,
		Depth:           depth,
		PeakDepth:       peak,
		Threads:         e.opts.Threads,
		LeafSize:        e.opts.LeafSize,
		SpawnDepth:      e.opts.SpawnDepth,
		MaxWorkers:      e.opts.MaxWorkers,
		Recursions:      e.recursions.Load(),
		BaseCases:       e.baseCases.Load(),
		SpawnedBranches: e.spawned.Load(),
		InlineBranches:  e.inlined.Load(),
		Pool:            ps,
	}
}

// FastMultiply returns a*b computed with Strassen's algorithm. Both operands
// must be non-nil and of the same power-of-two size. The result comes from
// the engine's pool and belongs to the caller.
func (e *Engine) FastMultiply(ctx context.Context, a, b *matrix.Matrix) (*matrix.Matrix, error) {
	return e.FastMultiplyWithProgress(ctx, a, b, nil)
}

// FastMultiplyWithProgress is FastMultiply reporting the fraction of
// base-case products completed to report.
func (e *Engine) FastMultiplyWithProgress(ctx context.Context, a, b *matrix.Matrix, report progress.ProgressCallback) (result *matrix.Matrix, err error) {
	if err := validateOperands(a, b, true); err != nil {
		return nil, err
	}
	done := e.instrument(ctx, "strassen", a.Size, &err)
	defer done()

	tracker := progress.NewTracker(leafCount(leafLevels(a.Size, e.opts.LeafSize)), report)
	result, err = e.segment(ctx, tracker, a.View(), b.View(), 0)
	if err != nil {
		return nil, err
	}
	tracker.Finish()
	return result, nil
}

// MultiplySegment multiplies two equally sized views with Strassen's
// algorithm, as FastMultiply does for whole matrices. The view sizes must be
// a power of two; they are not validated.
func (e *Engine) MultiplySegment(ctx context.Context, a, b matrix.View) (*matrix.Matrix, error) {
	return e.segment(ctx, nil, a, b, 0)
}

// segment is one recursive call at the given level; the top call is level
// 0 and its split is level 1.
func (e *Engine) segment(ctx context.Context, tracker *progress.Tracker, a, b matrix.View, level int) (*matrix.Matrix, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if a.Size() <= e.opts.LeafSize {
		m, err := e.MultiplySync(a, b)
		if err == nil {
			tracker.Step(1)
		}
		return m, err
	}

	level++
	e.enter()
	defer e.exit()

	var products [7]*matrix.Matrix
	if err := e.dispatch(ctx, tracker, branchesOf(a, b), &products, level); err != nil {
		releaseAll(e.pool, products[:])
		return nil, err
	}
	defer releaseAll(e.pool, products[:])

	result, err := e.pool.Acquire(a.Size())
	if err != nil {
		return nil, err
	}
	recombine(result.View(), &products)
	return result, nil
}

func (e *Engine) enter() {
	e.recursions.Add(1)
	e.mu.Lock()
	e.depth++
	if e.depth > e.peakDepth {
		e.peakDepth = e.depth
	}
	e.mu.Unlock()
}

func (e *Engine) exit() {
	e.mu.Lock()
	e.depth--
	e.mu.Unlock()
}

// instrument opens a span for one public multiplication and returns the
// function that closes it, records its metrics and logs its outcome.
func (e *Engine) instrument(ctx context.Context, algorithm string, size int, errp *error) func() {
	_, span := otel.Tracer("matcalc/strassen").Start(ctx, algorithm)
	span.SetAttributes(attribute.Int("matrix.size", size), attribute.String("algorithm", algorithm))
	before := e.pool.Stats()
	start := time.Now()

	return func() {
		duration := time.Since(start)
		status := "success"
		if *errp != nil {
			status = "error"
			if apperrors.IsContextError(*errp) {
				status = "canceled"
			}
			span.RecordError(*errp)
			span.SetStatus(codes.Error, (*errp).Error())
		}
		span.End()

		after := e.pool.Stats()
		multiplicationsTotal.WithLabelValues(algorithm, status).Inc()
		multiplicationDuration.WithLabelValues(algorithm).Observe(duration.Seconds())
		poolRequestsTotal.WithLabelValues("hit").Add(float64(after.Hits - before.Hits))
		poolRequestsTotal.WithLabelValues("miss").Add(float64(after.Misses - before.Misses))
		stats := e.Stats()
		peakDepthGauge.Set(float64(stats.PeakDepth))

		e.logger.Debug().
			Str("algo", algorithm).
			Int("size", size).
			Dur("duration", duration).
			Str("status", status).
			Uint64("cache_hits", after.Hits-before.Hits).
			Uint64("cache_misses", after.Misses-before.Misses).
			Msg("multiplication completed")
	}
}

// validateOperands rejects nil operands and mismatched sizes and, for the
// Strassen path, sizes that are not a power of two.
func validateOperands(a, b *matrix.Matrix, powerOfTwo bool) error {
	if a == nil || b == nil {
		return apperrors.NewValidationError("operand", "matrix must not be nil")
	}
	if a.Size < 1 {
		return apperrors.NewValidationError("size", "must be at least 1, got %d", a.Size)
	}
	if a.Size != b.Size {
		return apperrors.NewValidationError("size", "operands differ in size: %d and %d", a.Size, b.Size)
	}
	if len(a.Data) != a.Size*a.Size || len(b.Data) != b.Size*b.Size {
		return apperrors.NewValidationError("data", "storage does not match size %d", a.Size)
	}
	if powerOfTwo && bits.OnesCount(uint(a.Size)) != 1 {
		return apperrors.NewValidationError("size", "%d is not a power of two", a.Size)
	}
	return nil
}

func releaseAll(p *matrix.Pool, ms []*matrix.Matrix) {
	for i, m := range ms {
		p.Release(m)
		ms[i] = nil
	}
}
