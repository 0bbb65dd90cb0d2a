package progress

import (
	"sync"
	"testing"
)

func TestTrackerThrottlesToPercentSteps(t *testing.T) {
	t.Parallel()
	var calls []float64
	tr := NewTracker(1000, func(v float64) { calls = append(calls, v) })
	for i := 0; i < 1000; i++ {
		tr.Step(1)
	}
	if len(calls) > 101 {
		t.Errorf("got %d callbacks, want at most 101", len(calls))
	}
	if last := calls[len(calls)-1]; last != 1 {
		t.Errorf("last callback = %f, want 1", last)
	}
	for i := 1; i < len(calls); i++ {
		if calls[i] <= calls[i-1] {
			t.Fatalf("callbacks not increasing: %v", calls)
		}
	}
}

func TestTrackerConcurrentSteps(t *testing.T) {
	t.Parallel()
	var mu sync.Mutex
	final := 0.0
	tr := NewTracker(7*7*7, func(v float64) {
		mu.Lock()
		final = v
		mu.Unlock()
	})
	var wg sync.WaitGroup
	for g := 0; g < 7; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 49; i++ {
				tr.Step(1)
			}
		}()
	}
	wg.Wait()
	if tr.Done() != 343 {
		t.Errorf("Done() = %d, want 343", tr.Done())
	}
	if final != 1 {
		t.Errorf("final progress = %f, want 1", final)
	}
}

func TestTrackerFinishAndNil(t *testing.T) {
	t.Parallel()
	calls := 0
	tr := NewTracker(10, func(float64) { calls++ })
	tr.Finish()
	tr.Finish()
	if calls != 1 {
		t.Errorf("Finish reported %d times, want 1", calls)
	}

	var nilTracker *Tracker
	nilTracker.Step(1)
	nilTracker.Finish()
	if nilTracker.Done() != 0 {
		t.Error("nil tracker should report zero")
	}
}

func TestChannelCallbackDoesNotBlock(t *testing.T) {
	t.Parallel()
	ch := make(chan ProgressUpdate, 1)
	cb := ChannelCallback(ch, 3)
	cb(0.5)
	cb(0.6)
	u := <-ch
	if u.CalculatorIndex != 3 || u.Value != 0.5 {
		t.Errorf("unexpected update %+v", u)
	}
	if ChannelCallback(nil, 0) != nil {
		t.Error("nil channel should give a nil callback")
	}
}
