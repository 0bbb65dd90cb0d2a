// Package tui is the bubbletea dashboard started by --tui. It runs the same
// orchestration as the CLI and shows per-algorithm progress, engine and pool
// counters, and host load while the multiplication runs.
package tui

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/matcalc/internal/cli"
	"github.com/agbru/matcalc/internal/config"
	apperrors "github.com/agbru/matcalc/internal/errors"
	"github.com/agbru/matcalc/internal/format"
	"github.com/agbru/matcalc/internal/matrix"
	"github.com/agbru/matcalc/internal/orchestration"
	"github.com/agbru/matcalc/internal/strassen"
	"github.com/agbru/matcalc/internal/sysmon"
)

const (
	tickInterval   = 500 * time.Millisecond
	maxLogLines    = 200
	sparklineWidth = 40
)

// algoRow is the live state of one multiplier.
type algoRow struct {
	name     string
	progress float64
	duration time.Duration
	err      error
	done     bool
}

// ExecutionState holds the run-related fields of a session.
type ExecutionState struct {
	ctx         context.Context
	cancel      context.CancelFunc
	multipliers []orchestration.Multiplier
	generation  uint64
	done        bool
	exitCode    int
}

// Model is the root bubbletea model.
type Model struct {
	ExecutionState

	header  HeaderModel
	keymap  KeyMap
	rows    []algoRow
	logs    []string
	scroll  int
	average float64
	eta     time.Duration

	mem     MemStatsMsg
	engine  strassen.Stats
	cpuHist *RingBuffer
	memHist *RingBuffer
	product *matrix.Matrix
	// results are the products of the last run, kept until a restart or
	// quit hands them back to the pool.
	results []orchestration.MultiplicationResult
	showMat bool

	width, height int
	paused        bool

	parentCtx context.Context
	config    config.AppConfig
	source    *strassen.Engine
	a, b      *matrix.Matrix
	ref       *programRef
}

// NewModel creates a dashboard running multipliers on a and b. engine is
// sampled for its counters and may be nil.
func NewModel(parentCtx context.Context, multipliers []orchestration.Multiplier, engine *strassen.Engine, a, b *matrix.Matrix, cfg config.AppConfig, version string) Model {
	ctx, cancel := context.WithCancel(parentCtx)
	m := Model{
		ExecutionState: ExecutionState{
			ctx:         ctx,
			cancel:      cancel,
			multipliers: multipliers,
			exitCode:    apperrors.ExitSuccess,
		},
		header:    NewHeaderModel(version, cfg.N),
		keymap:    DefaultKeyMap(),
		cpuHist:   NewRingBuffer(sparklineWidth),
		memHist:   NewRingBuffer(sparklineWidth),
		parentCtx: parentCtx,
		config:    cfg,
		source:    engine,
		a:         a,
		b:         b,
		ref:       &programRef{},
	}
	m.resetRows()
	m.addLog(fmt.Sprintf("Multiplying %dx%d %s matrices, leaf size %d, spawn depth %d.",
		cfg.N, cfg.N, cfg.Input, cfg.LeafSize, cfg.SpawnDepth))
	return m
}

func (m *Model) resetRows() {
	m.rows = make([]algoRow, len(m.multipliers))
	for i, mu := range m.multipliers {
		m.rows[i] = algoRow{name: mu.Name()}
	}
	m.average, m.eta = 0, 0
	m.product = nil
}

// releaseResults returns the products of the last run to the engine's pool.
func (m *Model) releaseResults() {
	m.release(m.results)
	m.results = nil
	m.product = nil
}

func (m Model) release(results []orchestration.MultiplicationResult) {
	if m.source == nil {
		return
	}
	for _, r := range results {
		m.source.Pool().Release(r.Result)
	}
}

func (m *Model) addLog(line string) {
	stamp := time.Now().Format("15:04:05")
	m.logs = append(m.logs, dimStyle.Render(stamp)+" "+line)
	if over := len(m.logs) - maxLogLines; over > 0 {
		m.logs = m.logs[over:]
	}
}

// Init starts the run and the samplers.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.startCmd(), watchContextCmd(m.ctx, m.generation))
}

func (m Model) startCmd() tea.Cmd {
	return startCalculationCmd(m.ref, m.ctx, m.multipliers, m.a, m.b, m.config, m.generation)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.header.SetWidth(msg.Width)
		return m, nil

	case ProgressMsg:
		if msg.Index >= 0 && msg.Index < len(m.rows) {
			m.rows[msg.Index].progress = msg.Value
		}
		m.average, m.eta = msg.Average, msg.ETA
		return m, nil

	case ProgressDoneMsg:
		m.eta = 0
		return m, nil

	case ComparisonResultsMsg:
		for _, res := range msg.Results {
			for i := range m.rows {
				if m.rows[i].name == res.Name {
					m.rows[i].duration, m.rows[i].err, m.rows[i].done = res.Duration, res.Err, true
				}
			}
			if res.Err != nil {
				m.addLog(errorStyle.Render(fmt.Sprintf("%s failed after %s: %v", res.Name, format.FormatExecutionDuration(res.Duration), res.Err)))
			} else {
				m.addLog(fmt.Sprintf("%s finished in %s", accentStyle.Render(res.Name), format.FormatExecutionDuration(res.Duration)))
			}
		}
		return m, nil

	case FinalResultMsg:
		m.product = msg.Result.Result
		sum, trace := cli.Checksum(msg.Result.Result)
		m.addLog(successStyle.Render(fmt.Sprintf("Products agree. sum=%d trace=%d", sum, trace)))
		return m, nil

	case ErrorMsg:
		m.addLog(errorStyle.Render(fmt.Sprintf("Error: %v", msg.Err)))
		return m, nil

	case TickMsg:
		if m.done {
			return m, nil
		}
		if m.paused {
			return m, tickCmd()
		}
		return m, tea.Batch(sampleMemStatsCmd(), sampleSysStatsCmd(), sampleEngineCmd(m.source), tickCmd())

	case MemStatsMsg:
		m.mem = msg
		return m, nil

	case SysStatsMsg:
		m.cpuHist.Push(msg.CPUPercent)
		m.memHist.Push(msg.MemPercent)
		return m, nil

	case EngineStatsMsg:
		m.engine = msg.Stats
		return m, nil

	case CalculationCompleteMsg:
		if msg.Generation != m.generation {
			for _, r := range msg.Results {
				if r.Result != nil && r.Result == m.product {
					m.product = nil
				}
			}
			m.release(msg.Results)
			return m, nil
		}
		m.release(m.results)
		m.results = msg.Results
		m.done = true
		m.exitCode = msg.ExitCode
		m.header.SetDone()
		m.addLog(fmt.Sprintf("Run complete (exit code %d). Press r to restart or q to quit.", msg.ExitCode))
		return m, sampleEngineCmd(m.source)

	case ContextCancelledMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.done = true
		m.header.SetDone()
		m.releaseResults()
		if m.exitCode == apperrors.ExitSuccess {
			m.exitCode = apperrors.HandleCalculationError(msg.Err, 0, io.Discard, nil)
		}
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.cancel()
		m.releaseResults()
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Pause):
		m.paused = !m.paused
		return m, nil

	case key.Matches(msg, m.keymap.Reset):
		m.cancel()
		m.generation++
		m.ctx, m.cancel = context.WithCancel(m.parentCtx)
		m.header.Reset()
		m.releaseResults()
		m.resetRows()
		m.cpuHist.Reset()
		m.memHist.Reset()
		m.done, m.paused = false, false
		m.exitCode = apperrors.ExitSuccess
		m.addLog("Restarted.")
		return m, tea.Batch(tickCmd(), m.startCmd(), watchContextCmd(m.ctx, m.generation))

	case key.Matches(msg, m.keymap.Matrix):
		m.showMat = !m.showMat
		return m, nil

	case key.Matches(msg, m.keymap.Up):
		m.scroll = min(m.scroll+1, max(0, len(m.logs)-1))
		return m, nil

	case key.Matches(msg, m.keymap.Down):
		m.scroll = max(m.scroll-1, 0)
		return m, nil
	}
	return m, nil
}

// ExitCode returns the exit code of the last completed run.
func (m Model) ExitCode() int { return m.exitCode }

// Run starts the dashboard and returns the process exit code.
func Run(ctx context.Context, multipliers []orchestration.Multiplier, engine *strassen.Engine, a, b *matrix.Matrix, cfg config.AppConfig, version string) int {
	initTUIStyles()

	model := NewModel(ctx, multipliers, engine, a, b, cfg, version)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	if err != nil {
		if ctx.Err() != nil {
			return apperrors.HandleCalculationError(ctx.Err(), 0, io.Discard, nil)
		}
		return apperrors.ExitErrorGeneric
	}
	if fm, ok := finalModel.(Model); ok {
		fm.cancel()
		return fm.exitCode
	}
	return apperrors.ExitSuccess
}

func startCalculationCmd(ref *programRef, ctx context.Context, multipliers []orchestration.Multiplier, a, b *matrix.Matrix, cfg config.AppConfig, gen uint64) tea.Cmd {
	return func() tea.Msg {
		results := orchestration.ExecuteMultiplications(ctx, multipliers, a, b,
			orchestration.ExecutionOptions{Concurrent: cfg.Concurrent}, &TUIProgressReporter{ref: ref}, io.Discard)
		opts := orchestration.PresentationOptions{N: cfg.N, Verbose: cfg.Verbose, Details: cfg.Details, PrintMatrices: cfg.N <= cli.PrintLimit}
		exitCode := orchestration.AnalyzeComparisonResults(results, opts, &TUIResultPresenter{ref: ref}, io.Discard)
		return CalculationCompleteMsg{ExitCode: exitCode, Generation: gen, Results: results}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func sampleMemStatsCmd() tea.Cmd {
	return func() tea.Msg {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		return MemStatsMsg{
			Alloc:        ms.Alloc,
			HeapSys:      ms.HeapSys,
			NumGC:        ms.NumGC,
			PauseTotalNs: ms.PauseTotalNs,
			NumGoroutine: runtime.NumGoroutine(),
		}
	}
}

func sampleSysStatsCmd() tea.Cmd {
	return func() tea.Msg {
		s := sysmon.Sample()
		return SysStatsMsg{CPUPercent: s.CPUPercent, MemPercent: s.MemPercent}
	}
}

func sampleEngineCmd(engine *strassen.Engine) tea.Cmd {
	if engine == nil {
		return nil
	}
	return func() tea.Msg { return EngineStatsMsg{Stats: engine.Stats()} }
}

func watchContextCmd(ctx context.Context, gen uint64) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err(), Generation: gen}
	}
}
