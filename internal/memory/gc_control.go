// Package memory sizes a run before it starts and controls the Go garbage
// collector while it executes.
package memory

import (
	"math"
	"runtime"
	"runtime/debug"

	"github.com/rs/zerolog"

	"github.com/agbru/matcalc/internal/matrix"
)

// GCMode controls the garbage collector behavior during a multiplication.
type GCMode string

const (
	GCModeAuto       GCMode = "auto"
	GCModeAggressive GCMode = "aggressive"
	GCModeDisabled   GCMode = "disabled"
)

// GCAutoThreshold is the smallest matrix size for which auto mode turns the
// collector off. Below it the pool absorbs nearly all allocation anyway.
const GCAutoThreshold = 1024

// memoryLimitFactor bounds the heap at this multiple of the estimated
// working set while the collector is off.
const memoryLimitFactor = 2

// GCController turns the collector off for the duration of a run and
// restores it afterwards, with a soft memory limit as a safety net.
type GCController struct {
	mode              GCMode
	active            bool
	estimate          uint64
	originalGCPercent int
	logger            zerolog.Logger
	startStats        runtime.MemStats
	endStats          runtime.MemStats
}

// GCStats holds the collector activity of one run.
type GCStats struct {
	HeapAlloc    uint64
	TotalAlloc   uint64
	NumGC        uint32
	PauseTotalNs uint64
}

// NewGCController creates a controller for mode and an n×n run whose working
// set is estimated at estimate bytes. "disabled" and unknown modes leave
// the collector alone.
func NewGCController(mode string, n int, estimate uint64) *GCController {
	gc := &GCController{mode: GCMode(mode), estimate: estimate, logger: zerolog.Nop()}
	switch gc.mode {
	case GCModeAggressive:
		gc.active = true
	case GCModeAuto:
		gc.active = n >= GCAutoThreshold
	}
	return gc
}

// SetLogger configures the logger for GC control events.
func (gc *GCController) SetLogger(l zerolog.Logger) { gc.logger = l }

// Active reports whether Begin will change collector settings.
func (gc *GCController) Active() bool { return gc.active }

// Begin disables the collector if the controller is active.
func (gc *GCController) Begin() {
	if !gc.active {
		return
	}
	runtime.ReadMemStats(&gc.startStats)
	gc.originalGCPercent = debug.SetGCPercent(-1)
	if limit := gc.memoryLimit(); limit > 0 {
		debug.SetMemoryLimit(limit)
	}
	gc.logger.Debug().
		Str("mode", string(gc.mode)).
		Uint64("heap_alloc_bytes", gc.startStats.HeapAlloc).
		Int64("memory_limit_bytes", gc.memoryLimit()).
		Msg("gc disabled")
}

func (gc *GCController) memoryLimit() int64 {
	limit := gc.startStats.HeapAlloc + memoryLimitFactor*gc.estimate
	if limit == 0 || limit > math.MaxInt64 {
		return 0
	}
	return int64(limit)
}

// End restores the original settings and collects once.
func (gc *GCController) End() {
	if !gc.active {
		return
	}
	runtime.ReadMemStats(&gc.endStats)
	debug.SetGCPercent(gc.originalGCPercent)
	debug.SetMemoryLimit(math.MaxInt64)
	runtime.GC()
	s := gc.Stats()
	gc.logger.Debug().
		Str("mode", string(gc.mode)).
		Uint64("heap_alloc_bytes", s.HeapAlloc).
		Uint64("total_alloc_bytes", s.TotalAlloc).
		Uint32("gc_cycles", s.NumGC).
		Msg("gc re-enabled")
}

// Stats returns the collector activity between Begin and End.
func (gc *GCController) Stats() GCStats {
	return GCStats{
		HeapAlloc:    gc.endStats.HeapAlloc,
		TotalAlloc:   gc.endStats.TotalAlloc - gc.startStats.TotalAlloc,
		NumGC:        gc.endStats.NumGC - gc.startStats.NumGC,
		PauseTotalNs: gc.endStats.PauseTotalNs - gc.startStats.PauseTotalNs,
	}
}

// EstimateBytes estimates the peak bytes of an n×n run: both operands, one
// product per algorithm, and the Strassen scratch. A sequential descent
// holds at most nine quarter-size matrices per level, so its scratch stays
// under 3·n²; every concurrently expanded level multiplies that by up to
// seven live branches, bounded by parallel.
func EstimateBytes(n, algorithms, parallel int) uint64 {
	if n <= 0 {
		return 0
	}
	parallel = max(1, parallel)
	per := matrix.Bytes(n)
	return per*uint64(2+max(1, algorithms)) + 3*per*uint64(parallel)
}
