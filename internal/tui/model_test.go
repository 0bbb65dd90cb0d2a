package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/matcalc/internal/config"
	apperrors "github.com/agbru/matcalc/internal/errors"
	"github.com/agbru/matcalc/internal/matrix"
	"github.com/agbru/matcalc/internal/orchestration"
	"github.com/agbru/matcalc/internal/progress"
	"github.com/agbru/matcalc/internal/strassen"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	engine := strassen.NewEngine(strassen.Options{LeafSize: 2, SpawnDepth: 0})
	registry := orchestration.NewRegistry(engine)
	a := matrix.New(4)
	a.FillPattern()
	cfg := config.AppConfig{N: 4, Input: "pattern", LeafSize: 2}
	m := NewModel(context.Background(), orchestration.GetMultipliersToRun("all", registry), engine, a, a, cfg, "dev")
	t.Cleanup(m.cancel)
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModelProgressAndResults(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m = update(t, m, ProgressMsg{Index: 1, Value: 0.5, Average: 0.25, ETA: time.Second})
	if m.rows[1].progress != 0.5 || m.average != 0.25 {
		t.Fatalf("progress not applied: %+v avg %v", m.rows[1], m.average)
	}
	m = update(t, m, ProgressMsg{Index: 9, Value: 1})

	product := matrix.FromRows([][]int64{{1, 0}, {0, 1}})
	m = update(t, m, ComparisonResultsMsg{Results: []orchestration.MultiplicationResult{
		{Name: "strassen", Result: product, Duration: time.Millisecond},
		{Name: "naive", Err: errors.New("boom")},
	}})
	if !m.rows[1].done || m.rows[0].err == nil {
		t.Errorf("rows not updated: %+v", m.rows)
	}
	m = update(t, m, FinalResultMsg{Result: orchestration.MultiplicationResult{Name: "strassen", Result: product}})
	if m.product != product {
		t.Error("product not stored")
	}

	view := m.View()
	for _, want := range []string{"matcalc monitor", "ALGORITHMS", "strassen", "naive", "failed", "trace=2", "ENGINE"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("m")})
	if !strings.Contains(m.View(), "PRODUCT 2x2") {
		t.Error("product panel not shown after pressing m")
	}
}

func TestModelCompletionIgnoresStaleGeneration(t *testing.T) {
	m := newTestModel(t)
	m.generation = 2
	m = update(t, m, CalculationCompleteMsg{ExitCode: 3, Generation: 1})
	if m.done {
		t.Fatal("stale completion accepted")
	}
	m = update(t, m, CalculationCompleteMsg{ExitCode: apperrors.ExitErrorMismatch, Generation: 2})
	if !m.done || m.ExitCode() != apperrors.ExitErrorMismatch {
		t.Errorf("done=%v exit=%d", m.done, m.ExitCode())
	}
}

func TestModelKeys(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if !m.paused {
		t.Error("space did not pause")
	}

	m.done = true
	gen := m.generation
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	m = next.(Model)
	if m.generation != gen+1 || m.done || m.paused || cmd == nil {
		t.Errorf("restart: generation %d done %v paused %v", m.generation, m.done, m.paused)
	}

	ctx := m.ctx
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("quit returned no command")
	}
	if ctx.Err() == nil {
		t.Error("quit did not cancel the run")
	}
}

func TestModelSamples(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, SysStatsMsg{CPUPercent: 40, MemPercent: 60})
	m = update(t, m, MemStatsMsg{Alloc: 1 << 20, NumGoroutine: 7})
	m = update(t, m, EngineStatsMsg{Stats: strassen.Stats{Recursions: 3}})
	if m.cpuHist.Last() != 40 || m.memHist.Last() != 60 || m.mem.NumGoroutine != 7 || m.engine.Recursions != 3 {
		t.Errorf("samples not applied")
	}
}

type recordingSender struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (s *recordingSender) Send(msg tea.Msg) {
	s.mu.Lock()
	s.msgs = append(s.msgs, msg)
	s.mu.Unlock()
}

func TestStartCalculationCmd(t *testing.T) {
	m := newTestModel(t)
	rec := &recordingSender{}
	m.ref.SetProgram(rec)

	msg := m.startCmd()()
	done, ok := msg.(CalculationCompleteMsg)
	if !ok || done.ExitCode != apperrors.ExitSuccess {
		t.Fatalf("got %#v, want a successful CalculationCompleteMsg", msg)
	}

	var sawProgress, sawTable, sawFinal bool
	for _, msg := range rec.msgs {
		switch msg := msg.(type) {
		case ProgressMsg:
			sawProgress = true
		case ComparisonResultsMsg:
			sawTable = len(msg.Results) == 2
		case FinalResultMsg:
			sawFinal = msg.Result.Result != nil && msg.Options.PrintMatrices
		}
	}
	if !sawProgress || !sawTable || !sawFinal {
		t.Errorf("progress=%v table=%v final=%v", sawProgress, sawTable, sawFinal)
	}
}

func TestTUIProgressReporterNoMultipliers(t *testing.T) {
	rec := &recordingSender{}
	ref := &programRef{}
	ref.SetProgram(rec)
	ch := make(chan progress.ProgressUpdate, 1)
	ch <- progress.ProgressUpdate{Value: 1}
	close(ch)
	var wg sync.WaitGroup
	wg.Add(1)
	(&TUIProgressReporter{ref: ref}).DisplayProgress(&wg, ch, 0, nil)
	wg.Wait()
	if len(rec.msgs) != 0 {
		t.Errorf("sent %d messages with nothing to track", len(rec.msgs))
	}
}

func newModelWithEngine(t *testing.T, engine *strassen.Engine, n int) Model {
	t.Helper()
	a := matrix.New(n)
	a.FillPattern()
	cfg := config.AppConfig{N: n, Input: "pattern"}
	m := NewModel(context.Background(), orchestration.GetMultipliersToRun("all", orchestration.NewRegistry(engine)), engine, a, a, cfg, "dev")
	m.ref.SetProgram(&recordingSender{})
	t.Cleanup(m.cancel)
	return m
}

func TestRestartReturnsProductsToPool(t *testing.T) {
	engine := strassen.NewEngine(strassen.Options{SpawnDepth: 0, PoolLimit: 6 * matrix.Bytes(64)})
	m := newModelWithEngine(t, engine, 64)

	for run := 1; run <= 3; run++ {
		m = update(t, m, m.startCmd()())
		if m.ExitCode() != apperrors.ExitSuccess {
			t.Fatalf("run %d: exit code %d, want %d", run, m.ExitCode(), apperrors.ExitSuccess)
		}
		if got := engine.Pool().Stats().TotalOutstanding(); got != 2 {
			t.Errorf("run %d: %d products outstanding while shown, want 2", run, got)
		}
		m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
		if got := engine.Pool().Stats().TotalOutstanding(); got != 0 {
			t.Errorf("run %d: %d products outstanding after restart, want 0", run, got)
		}
	}
}

func TestQuitReturnsProductsToPool(t *testing.T) {
	engine := strassen.NewEngine(strassen.Options{LeafSize: 4, SpawnDepth: 1})
	m := newModelWithEngine(t, engine, 16)
	m = update(t, m, m.startCmd()())
	if got := engine.Pool().Stats().TotalOutstanding(); got != 2 {
		t.Fatalf("%d products outstanding after the run, want 2", got)
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if got := engine.Pool().Stats().TotalOutstanding(); got != 0 {
		t.Errorf("%d products outstanding after quit, want 0", got)
	}
	if m.product != nil || m.results != nil {
		t.Error("quit should drop the released products")
	}
}

func TestStaleRunProductsAreReleased(t *testing.T) {
	engine := strassen.NewEngine(strassen.Options{LeafSize: 4, SpawnDepth: 0})
	m := newModelWithEngine(t, engine, 8)
	stale := m.startCmd()().(CalculationCompleteMsg)
	m.generation++
	m = update(t, m, FinalResultMsg{Result: stale.Results[0]})

	m = update(t, m, stale)
	if m.done {
		t.Error("stale completion accepted")
	}
	if m.product != nil {
		t.Error("product of a stale run still shown after its release")
	}
	if got := engine.Pool().Stats().TotalOutstanding(); got != 0 {
		t.Errorf("%d products outstanding after a stale completion, want 0", got)
	}
}
