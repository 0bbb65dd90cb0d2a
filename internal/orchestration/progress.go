package orchestration

import (
	"time"

	"github.com/agbru/matcalc/internal/format"
	"github.com/agbru/matcalc/internal/progress"
)

// ProgressAggregator folds per-multiplication updates into one average and
// an ETA. The CLI spinner and the TUI both consume it.
type ProgressAggregator struct {
	state *format.ProgressWithETA
	count int
}

// NewProgressAggregator returns nil when there is nothing to track.
func NewProgressAggregator(count int) *ProgressAggregator {
	if count <= 0 {
		return nil
	}
	return &ProgressAggregator{state: format.NewProgressWithETA(count), count: count}
}

// AggregatedProgress is the view of all runs after one update.
type AggregatedProgress struct {
	Index   int
	Value   float64
	Average float64
	ETA     time.Duration
}

// Update applies one update.
func (a *ProgressAggregator) Update(update progress.ProgressUpdate) AggregatedProgress {
	avg, eta := a.state.UpdateWithETA(update.CalculatorIndex, update.Value)
	return AggregatedProgress{Index: update.CalculatorIndex, Value: update.Value, Average: avg, ETA: eta}
}

// Average returns the current average without updating it.
func (a *ProgressAggregator) Average() float64 { return a.state.CalculateAverage() }

// ETA returns the current estimate without updating it.
func (a *ProgressAggregator) ETA() time.Duration { return a.state.GetETA() }

// Count returns the number of tracked multiplications.
func (a *ProgressAggregator) Count() int { return a.count }

// DrainChannel discards every update until progressChan is closed.
func DrainChannel(progressChan <-chan progress.ProgressUpdate) {
	for range progressChan {
	}
}
