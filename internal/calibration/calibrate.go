package calibration

import (
	"context"
	"fmt"
	"io"
	"math/bits"
	"time"

	"github.com/rs/zerolog"

	"github.com/agbru/matcalc/internal/config"
	apperrors "github.com/agbru/matcalc/internal/errors"
	"github.com/agbru/matcalc/internal/matrix"
	"github.com/agbru/matcalc/internal/strassen"
)

const (
	// MinCalibrationN and MaxCalibrationN bound the size timed per candidate.
	MinCalibrationN = 128
	MaxCalibrationN = 1024
	// runsPerCandidate is the number of timed runs; the fastest counts.
	runsPerCandidate = 2
)

type calibrationResult struct {
	LeafSize int
	Duration time.Duration
	Err      error
}

// CalibrationSize returns the largest power of two not above n, clamped to
// [MinCalibrationN, MaxCalibrationN].
func CalibrationSize(n int) int {
	n = min(max(n, MinCalibrationN), MaxCalibrationN)
	return 1 << (bits.Len(uint(n)) - 1)
}

// Options configures a calibration run.
type Options struct {
	// N is the requested matrix size; see CalibrationSize.
	N int
	// LeafSizes are the candidates; GenerateLeafSizes when empty.
	LeafSizes []int
	// Engine carries the concurrency settings every candidate shares.
	Engine strassen.Options
	Logger zerolog.Logger
}

// Run times FastMultiply for every candidate leaf size, checks each product
// against the naive one, and returns a profile holding the fastest.
func Run(ctx context.Context, opts Options, out io.Writer) (*Profile, error) {
	start := time.Now()
	n := CalibrationSize(opts.N)
	sizes := opts.LeafSizes
	if len(sizes) == 0 {
		sizes = GenerateLeafSizes()
	}
	sizes = CandidatesFor(n, sizes)

	a, b := matrix.New(n), matrix.New(n)
	a.FillPattern()
	b.FillPattern()

	reference, err := strassen.NewEngine(opts.Engine).Multiply(ctx, a, b)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(out, "Calibrating leaf size on %dx%d matrices (%d candidates)...\n", n, n, len(sizes))
	results := make([]calibrationResult, 0, len(sizes))
	for _, leaf := range sizes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res := timeCandidate(ctx, opts.Engine, leaf, a, b, reference)
		opts.Logger.Debug().Int("leaf_size", leaf).Dur("duration", res.Duration).Err(res.Err).Msg("calibration candidate")
		results = append(results, res)
	}

	best := -1
	for i, r := range results {
		if r.Err == nil && (best < 0 || r.Duration < results[best].Duration) {
			best = i
		}
	}
	if best < 0 {
		return nil, fmt.Errorf("calibration failed: no candidate completed: %w", results[0].Err)
	}
	printCalibrationResults(out, results, results[best].LeafSize)

	p := NewProfile()
	p.OptimalLeafSize = results[best].LeafSize
	if opts.Engine.SpawnDepth >= 0 {
		p.OptimalSpawnDepth = opts.Engine.SpawnDepth
	}
	p.CalibrationN = n
	p.CalibrationTime = time.Since(start).Round(time.Millisecond).String()
	return p, nil
}

func timeCandidate(ctx context.Context, base strassen.Options, leaf int, a, b, reference *matrix.Matrix) calibrationResult {
	opts := base
	opts.LeafSize = leaf
	engine := strassen.NewEngine(opts)
	res := calibrationResult{LeafSize: leaf}
	for run := range runsPerCandidate {
		t0 := time.Now()
		c, err := engine.FastMultiply(ctx, a, b)
		elapsed := time.Since(t0)
		if err != nil {
			res.Err = err
			return res
		}
		if row, col, found := matrix.FirstDifference(reference, c); found {
			res.Err = apperrors.MismatchError{
				Row: row, Col: col, Want: reference.At(row, col), Got: c.At(row, col),
				Left: "naive", Right: fmt.Sprintf("strassen(leaf=%d)", leaf),
			}
			return res
		}
		engine.Pool().Release(c)
		if run == 0 || elapsed < res.Duration {
			res.Duration = elapsed
		}
	}
	return res
}

// RunAndSave runs a calibration for cfg and stores the profile at the
// configured path. It returns cfg with the measured leaf size applied.
func RunAndSave(ctx context.Context, cfg config.AppConfig, logger zerolog.Logger, out io.Writer) (config.AppConfig, error) {
	engineOpts, err := cfg.ToEngineOptions()
	if err != nil {
		return cfg, err
	}
	p, err := Run(ctx, Options{N: cfg.N, Engine: engineOpts, Logger: logger}, out)
	if err != nil {
		return cfg, err
	}
	path := ResolveProfilePath(cfg.CalibrationProfile)
	if err := p.SaveProfile(path); err != nil {
		return cfg, err
	}
	fmt.Fprintf(out, "Profile saved to %s\n", path)
	cfg.LeafSizeExplicit = false
	cfg = ApplyProfile(cfg, p)
	printCalibrationOutput(cfg, out)
	return cfg, nil
}
