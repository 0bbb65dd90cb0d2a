package tui

import (
	"time"

	"github.com/agbru/matcalc/internal/orchestration"
	"github.com/agbru/matcalc/internal/strassen"
)

// ProgressMsg carries one aggregated progress update.
type ProgressMsg struct {
	Index   int
	Value   float64
	Average float64
	ETA     time.Duration
}

// ProgressDoneMsg is sent once the progress channel is closed.
type ProgressDoneMsg struct{}

// ComparisonResultsMsg carries every run, sorted fastest first.
type ComparisonResultsMsg struct {
	Results []orchestration.MultiplicationResult
}

// FinalResultMsg carries the agreed product.
type FinalResultMsg struct {
	Result  orchestration.MultiplicationResult
	Options orchestration.PresentationOptions
}

// ErrorMsg reports a failed or mismatched comparison.
type ErrorMsg struct {
	Err      error
	Duration time.Duration
}

// TickMsg drives periodic sampling.
type TickMsg time.Time

// MemStatsMsg is a runtime memory sample.
type MemStatsMsg struct {
	Alloc        uint64
	HeapSys      uint64
	NumGC        uint32
	PauseTotalNs uint64
	NumGoroutine int
}

// SysStatsMsg is a host CPU and memory sample.
type SysStatsMsg struct {
	CPUPercent float64
	MemPercent float64
}

// EngineStatsMsg is a snapshot of the engine counters.
type EngineStatsMsg struct {
	Stats strassen.Stats
}

// CalculationCompleteMsg ends a run started for Generation.
type CalculationCompleteMsg struct {
	ExitCode   int
	Generation uint64
	// Results holds the run's products, owned by the engine's pool.
	Results []orchestration.MultiplicationResult
}

// ContextCancelledMsg reports that the run context of Generation ended.
type ContextCancelledMsg struct {
	Err        error
	Generation uint64
}
