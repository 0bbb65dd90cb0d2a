// Package progress carries completion updates from the multipliers to the
// presentation layer.
package progress

import (
	"sync"
	"sync/atomic"
)

// ProgressUpdate is one completion report sent over a progress channel.
type ProgressUpdate struct {
	// CalculatorIndex identifies the multiplication that sent the update.
	CalculatorIndex int
	// Value is the completed fraction in [0, 1].
	Value float64
}

// ProgressCallback receives completion fractions in [0, 1].
type ProgressCallback func(progress float64)

// reportStep is the minimum progress delta between two callbacks.
const reportStep = 0.01

// Tracker counts completed units of work (rows, leaf products) from any
// number of goroutines and forwards the completed fraction to a callback,
// throttled to one call per percent plus a final call at completion.
type Tracker struct {
	total    uint64
	done     atomic.Uint64
	mu       sync.Mutex
	last     float64
	callback ProgressCallback
}

// NewTracker returns a tracker expecting total units. A nil callback yields
// a tracker whose Step is a cheap no-op counter.
func NewTracker(total uint64, callback ProgressCallback) *Tracker {
	if total == 0 {
		total = 1
	}
	return &Tracker{total: total, callback: callback}
}

// Step records n completed units.
func (t *Tracker) Step(n uint64) {
	if t == nil {
		return
	}
	done := t.done.Add(n)
	if t.callback == nil {
		return
	}
	value := float64(done) / float64(t.total)
	if value > 1 {
		value = 1
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if value-t.last < reportStep && value < 1 {
		return
	}
	if value <= t.last && t.last > 0 {
		return
	}
	t.last = value
	t.callback(value)
}

// Done returns the number of completed units.
func (t *Tracker) Done() uint64 {
	if t == nil {
		return 0
	}
	return t.done.Load()
}

// Finish reports completion if it has not been reported yet.
func (t *Tracker) Finish() {
	if t == nil || t.callback == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.last < 1 {
		t.last = 1
		t.callback(1)
	}
}

// ChannelCallback returns a callback that forwards updates for index onto
// ch without blocking; updates are dropped when the channel is full.
func ChannelCallback(ch chan<- ProgressUpdate, index int) ProgressCallback {
	if ch == nil {
		return nil
	}
	return func(v float64) {
		select {
		case ch <- ProgressUpdate{CalculatorIndex: index, Value: v}:
		default:
		}
	}
}
