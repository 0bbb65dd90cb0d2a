package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/profile"

	"github.com/agbru/matcalc/internal/cli"
	"github.com/agbru/matcalc/internal/config"
	apperrors "github.com/agbru/matcalc/internal/errors"
	"github.com/agbru/matcalc/internal/format"
	"github.com/agbru/matcalc/internal/logging"
	"github.com/agbru/matcalc/internal/matrix"
	"github.com/agbru/matcalc/internal/memory"
	"github.com/agbru/matcalc/internal/metrics"
	"github.com/agbru/matcalc/internal/orchestration"
	"github.com/agbru/matcalc/internal/server"
	"github.com/agbru/matcalc/internal/strassen"
	"github.com/agbru/matcalc/internal/sysmon"
	"github.com/agbru/matcalc/internal/ui"
)

// memorySampleInterval is how often the heap is sampled for the peak.
const memorySampleInterval = 20 * time.Millisecond

type stopper interface{ Stop() }

type nopStopper struct{}

func (nopStopper) Stop() {}

// session holds everything a run sets up and must tear down.
type session struct {
	engine      *strassen.Engine
	multipliers []orchestration.Multiplier
	a, b        *matrix.Matrix

	gc        *memory.GCController
	mem       *metrics.MemoryCollector
	stopWatch context.CancelFunc
	prof      stopper
	srv       *server.Server
}

// prepare builds the engine and operands and starts the ambient services
// of a run. On failure it returns a nil session and the exit code.
func (a *Application) prepare(ctx context.Context) (*session, int) {
	engine, err := a.newEngine()
	if err != nil {
		return nil, a.configError(err)
	}
	s := &session{engine: engine, prof: nopStopper{}}
	s.multipliers = orchestration.GetMultipliersToRun(a.Config.Algo, orchestration.NewRegistry(engine))
	s.a, s.b = NewInputs(a.Config.Input, a.Config.N, a.Config.Seed)

	if a.Config.MetricsAddr != "" {
		s.srv = server.New(a.Config.MetricsAddr, server.NewMetrics(metrics.NewPoolCollector(engine.Pool())), a.logger)
		if err := s.srv.Start(); err != nil {
			a.logger.Error("cannot serve metrics", err, logging.String("addr", a.Config.MetricsAddr))
			return nil, apperrors.ExitErrorConfig
		}
	}

	estimate := memory.EstimateBytes(a.Config.N, len(s.multipliers), branchParallelism(a.Config))
	if avail := sysmon.AvailableMemory(); avail > 0 && estimate > avail {
		a.logger.Info("estimated working set exceeds available memory",
			logging.String("estimate", format.FormatBytes(estimate)),
			logging.String("available", format.FormatBytes(avail)))
	}

	s.prof = startProfile(a.Config.Profile)
	s.gc = memory.NewGCController(a.Config.GCMode, a.Config.N, estimate)
	s.gc.SetLogger(a.logger.Zerolog().With().Str("component", "gc").Logger())
	s.gc.Begin()

	s.mem = metrics.NewMemoryCollector()
	var watchCtx context.Context
	watchCtx, s.stopWatch = context.WithCancel(ctx)
	go s.mem.Watch(watchCtx, memorySampleInterval)

	a.logger.Debug("run prepared",
		logging.Int("n", a.Config.N),
		logging.Int("algorithms", len(s.multipliers)),
		logging.Uint64("estimate_bytes", estimate))
	return s, apperrors.ExitSuccess
}

// close stops the services started by prepare, in reverse order.
func (s *session) close() {
	s.stopWatch()
	s.gc.End()
	s.prof.Stop()
	if s.srv != nil {
		_ = s.srv.Shutdown(context.Background())
	}
	s.engine.Clear()
}

// release hands the products back to the engine's pool.
func (s *session) release(results []orchestration.MultiplicationResult) {
	for _, r := range results {
		s.engine.Pool().Release(r.Result)
	}
}

// runCalculate orchestrates the execution of the CLI multiplication command.
func (a *Application) runCalculate(ctx context.Context, out io.Writer) int {
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	s, code := a.prepare(ctx)
	if s == nil {
		return code
	}
	defer s.close()

	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, out)
		cli.PrintInputs(s.a, s.b, out)
		cli.PrintExecutionMode(s.multipliers, a.Config.Concurrent, out)
	}

	var progressReporter orchestration.ProgressReporter = cli.CLIProgressReporter{}
	progressOut := out
	if a.Config.Quiet {
		progressReporter = orchestration.NullProgressReporter{}
		progressOut = io.Discard
	}

	results := orchestration.ExecuteMultiplications(ctx, s.multipliers, s.a, s.b,
		orchestration.ExecutionOptions{Concurrent: a.Config.Concurrent}, progressReporter, progressOut)
	defer s.release(results)

	return a.analyzeResults(results, s, out)
}

// analyzeResults compares the products and prints the outcome. In quiet
// mode the analysis only reaches ErrWriter, and only when the run failed.
func (a *Application) analyzeResults(results []orchestration.MultiplicationResult, s *session, out io.Writer) int {
	presOpts := orchestration.PresentationOptions{
		N:             a.Config.N,
		Verbose:       a.Config.Verbose,
		Details:       a.Config.Details,
		PrintMatrices: a.Config.N <= cli.PrintLimit,
	}

	var quietBuf bytes.Buffer
	analysisOut := out
	if a.Config.Quiet {
		analysisOut = &quietBuf
	}
	exitCode := orchestration.AnalyzeComparisonResults(results, presOpts, cli.CLIResultPresenter{}, analysisOut)
	if exitCode != apperrors.ExitSuccess {
		if a.Config.Quiet {
			_, _ = io.Copy(a.ErrWriter, &quietBuf)
		}
		return exitCode
	}

	// Successes sort first, fastest first.
	best := results[0]
	if a.Config.Quiet {
		cli.DisplayQuietResult(out, best)
	}

	if err := cli.WriteResultToFile(a.Config.OutputFile, best, a.Config.Input); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error saving result: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	if a.Config.Quiet {
		return apperrors.ExitSuccess
	}
	if a.Config.OutputFile != "" {
		fmt.Fprintf(out, "\n%sResult saved to: %s%s%s\n",
			ui.ColorGreen(), ui.ColorCyan(), a.Config.OutputFile, ui.ColorReset())
	}
	if !a.Config.Details && ranStrassen(results) {
		cli.DisplayCacheSummary(out, s.engine.Stats())
	}
	if a.Config.Details {
		cli.DisplayEngineStats(out, s.engine.Stats())
		d := s.mem.Delta()
		cli.DisplayMemoryStats(out, s.mem.PeakHeap(), d.TotalAlloc, d.NumGC, d.PauseTotalNs)
	}
	return apperrors.ExitSuccess
}

func ranStrassen(results []orchestration.MultiplicationResult) bool {
	for _, r := range results {
		if r.Name == orchestration.AlgoStrassen && r.Err == nil {
			return true
		}
	}
	return false
}

// branchParallelism bounds how many recursive descents can hold scratch at
// once: 7^SpawnDepth, capped by MaxWorkers plus the calling goroutine.
func branchParallelism(cfg config.AppConfig) int {
	const ceiling = 1 << 16
	p := 1
	for range max(cfg.SpawnDepth, 0) {
		if p >= ceiling {
			break
		}
		p *= 7
	}
	if cfg.MaxWorkers > 0 {
		p = min(p, cfg.MaxWorkers+1)
	}
	return p
}

// startProfile starts a pprof profile in the working directory for "cpu"
// or "mem". The signal hook of the profile package is disabled because the
// run already stops on SIGINT.
func startProfile(kind string) stopper {
	switch kind {
	case "cpu":
		return profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook, profile.Quiet)
	case "mem":
		return profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook, profile.Quiet)
	}
	return nopStopper{}
}
