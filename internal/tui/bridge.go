package tui

import (
	"io"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/agbru/matcalc/internal/errors"
	"github.com/agbru/matcalc/internal/orchestration"
	"github.com/agbru/matcalc/internal/progress"
)

// sender is the part of tea.Program the bridge needs.
type sender interface {
	Send(msg tea.Msg)
}

// programRef outlives the model copies bubbletea makes, so goroutines
// started by a command can still reach the program.
type programRef struct {
	mu      sync.RWMutex
	program sender
}

// SetProgram sets the program messages are sent to.
func (r *programRef) SetProgram(p sender) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send forwards msg when a program is set.
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// TUIProgressReporter forwards aggregated progress as ProgressMsg.
type TUIProgressReporter struct {
	ref *programRef
}

var _ orchestration.ProgressReporter = (*TUIProgressReporter)(nil)

// DisplayProgress implements orchestration.ProgressReporter.
func (t *TUIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numMultipliers int, _ io.Writer) {
	defer wg.Done()
	agg := orchestration.NewProgressAggregator(numMultipliers)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}
	for update := range progressChan {
		ap := agg.Update(update)
		t.ref.Send(ProgressMsg{Index: ap.Index, Value: ap.Value, Average: ap.Average, ETA: ap.ETA})
	}
	t.ref.Send(ProgressDoneMsg{})
}

// TUIResultPresenter turns results into dashboard messages.
type TUIResultPresenter struct {
	ref *programRef
}

var _ orchestration.ResultPresenter = (*TUIResultPresenter)(nil)

// PresentComparisonTable implements orchestration.ResultPresenter.
func (t *TUIResultPresenter) PresentComparisonTable(results []orchestration.MultiplicationResult, _ io.Writer) {
	t.ref.Send(ComparisonResultsMsg{Results: append([]orchestration.MultiplicationResult(nil), results...)})
}

// PresentResult implements orchestration.ResultPresenter.
func (t *TUIResultPresenter) PresentResult(result orchestration.MultiplicationResult, opts orchestration.PresentationOptions, _ io.Writer) {
	t.ref.Send(FinalResultMsg{Result: result, Options: opts})
}

// HandleError implements orchestration.ResultPresenter.
func (t *TUIResultPresenter) HandleError(err error, duration time.Duration, _ io.Writer) int {
	t.ref.Send(ErrorMsg{Err: err, Duration: duration})
	return apperrors.HandleCalculationError(err, duration, io.Discard, nil)
}
