// Package app wires configuration, the multiplication engine, and the
// presentation layers into the matcalc command.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/agbru/matcalc/internal/calibration"
	"github.com/agbru/matcalc/internal/config"
	apperrors "github.com/agbru/matcalc/internal/errors"
	"github.com/agbru/matcalc/internal/logging"
	"github.com/agbru/matcalc/internal/orchestration"
	"github.com/agbru/matcalc/internal/strassen"
	"github.com/agbru/matcalc/internal/tui"
	"github.com/agbru/matcalc/internal/ui"
)

// Algorithms lists the names accepted by --algo besides "all".
var Algorithms = []string{orchestration.AlgoNaive, orchestration.AlgoStrassen}

// Application represents the matcalc application instance.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer

	logger *logging.ZerologAdapter
	// profileLoaded is set when tuning came from a cached calibration.
	profileLoaded bool
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithLogger replaces the stderr console logger.
func WithLogger(l *logging.ZerologAdapter) AppOption {
	return func(a *Application) { a.logger = l }
}

// New creates a new Application instance by parsing command-line arguments.
// The first element of args is the program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}

	programName := "matcalc"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, Algorithms)
	if err != nil {
		return nil, err
	}
	if app.logger == nil {
		app.logger = logging.NewConsoleLogger(errWriter, "matcalc", cfg.NoColor)
	}

	if !cfg.Calibrate {
		path := calibration.ResolveProfilePath(cfg.CalibrationProfile)
		if p, ok := calibration.LoadCachedProfile(path); ok {
			cfg = calibration.ApplyProfile(cfg, p)
			app.profileLoaded = true
			app.logger.Debug("calibration profile applied",
				logging.String("path", path),
				logging.Int("leaf_size", cfg.LeafSize),
				logging.Int("spawn_depth", cfg.SpawnDepth))
		}
	}
	app.Config = config.ApplyAdaptiveDefaults(cfg)
	return app, nil
}

// Run executes the application based on the configured mode.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.ShowVersion {
		PrintVersion(out)
		return apperrors.ExitSuccess
	}

	logging.SetVerbose(a.Config.Verbose)
	ui.InitTheme(a.Config.NoColor)

	if a.Config.Calibrate {
		return a.runCalibration(ctx, out)
	}
	if a.Config.TUI {
		return a.runTUI(ctx)
	}
	return a.runCalculate(ctx, out)
}

// runCalibration times candidate leaf sizes and saves the fastest.
func (a *Application) runCalibration(ctx context.Context, out io.Writer) int {
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	cfg, err := calibration.RunAndSave(ctx, a.Config, a.logger.Zerolog(), out)
	if err != nil {
		a.logger.Error("calibration failed", err)
		return apperrors.HandleCalculationError(err, 0, a.ErrWriter, ui.CLIColorProvider{})
	}
	a.Config = cfg
	return apperrors.ExitSuccess
}

// runTUI launches the interactive dashboard.
func (a *Application) runTUI(ctx context.Context) int {
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	r, code := a.prepare(ctx)
	if r == nil {
		return code
	}
	defer r.close()
	return tui.Run(ctx, r.multipliers, r.engine, r.a, r.b, a.Config, Version)
}

// newEngine builds the engine described by the configuration.
func (a *Application) newEngine() (*strassen.Engine, error) {
	opts, err := a.Config.ToEngineOptions()
	if err != nil {
		return nil, err
	}
	engine := strassen.NewEngine(opts)
	engine.SetLogger(a.logger.Zerolog().With().Str("component", "strassen").Logger())
	return engine, nil
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

func (a *Application) configError(err error) int {
	fmt.Fprintf(a.ErrWriter, "Configuration error: %v\n", err)
	return apperrors.ExitErrorConfig
}
