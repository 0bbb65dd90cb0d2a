// Package config defines matcalc's configuration, parses it from command-line
// flags and MATCALC_* environment variables, and validates it.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math/bits"
	"slices"
	"strings"
	"time"

	apperrors "github.com/agbru/matcalc/internal/errors"
	"github.com/agbru/matcalc/internal/strassen"
)

const (
	// EnvPrefix is the prefix of every environment variable read by matcalc.
	EnvPrefix = "MATCALC_"
)

// Default configuration values.
const (
	// DefaultN is the default matrix size.
	DefaultN = 512
	// DefaultTimeout is the default run deadline.
	DefaultTimeout = 5 * time.Minute
	// DefaultAlgo runs every registered algorithm and compares them.
	DefaultAlgo = "all"
	// DefaultInput seeds both operands with (i*n + j) % 10 + 1.
	DefaultInput = "pattern"
	// DefaultGCMode lets the GC controller decide from the matrix size.
	DefaultGCMode = "auto"
)

// Input kinds accepted by --input.
var inputKinds = []string{"pattern", "random", "identity"}

// GC modes accepted by --gc-mode.
var gcModes = []string{"auto", "aggressive", "disabled"}

// Profile kinds accepted by --profile.
var profileKinds = []string{"", "cpu", "mem"}

// AppConfig aggregates the application's configuration.
type AppConfig struct {
	// N is the matrix size.
	N int
	// Algo is "all" or the registry name of one algorithm.
	Algo string
	// Input selects how the operands are seeded.
	Input string
	// Seed drives the "random" input.
	Seed uint64

	// LeafSize is the Strassen base-case size.
	LeafSize int
	// LeafSizeExplicit is set when LeafSize came from a flag or the
	// environment, so a calibration profile must not replace it.
	LeafSizeExplicit bool
	// SpawnDepth is the deepest recursion level whose products run on their
	// own goroutines; strassen.AdaptiveSpawnDepth picks one from the CPU count.
	SpawnDepth int
	// MaxWorkers caps live product goroutines, 0 for no cap.
	MaxWorkers int
	// Threads is the naive multiplier's goroutine count, 0 for NumCPU.
	Threads int
	// PoolLimit is a byte budget such as "512MB", empty for none.
	PoolLimit string

	// Timeout is the deadline of the whole run.
	Timeout time.Duration
	// Concurrent runs the selected algorithms at the same time.
	Concurrent bool

	Verbose bool
	Details bool
	Quiet   bool
	NoColor bool
	// OutputFile receives the product matrix when set.
	OutputFile string

	// TUI starts the bubbletea dashboard instead of the plain CLI output.
	TUI bool
	// Calibrate times candidate leaf sizes and stores the fastest.
	Calibrate bool
	// CalibrationProfile is where calibration results are cached.
	CalibrationProfile string

	// MetricsAddr serves Prometheus metrics on this address during the run.
	MetricsAddr string
	// Profile is "cpu" or "mem" to write a pprof profile.
	Profile string
	// GCMode is one of "auto", "aggressive" or "disabled".
	GCMode string

	ShowVersion bool
}

// ToEngineOptions converts the configuration into strassen.Options.
func (c AppConfig) ToEngineOptions() (strassen.Options, error) {
	limit, err := ParseByteSize(c.PoolLimit)
	if err != nil {
		return strassen.Options{}, err
	}
	return strassen.Options{
		LeafSize:   c.LeafSize,
		SpawnDepth: c.SpawnDepth,
		MaxWorkers: c.MaxWorkers,
		Threads:    c.Threads,
		PoolLimit:  limit,
	}, nil
}

// RunsStrassen reports whether the selected algorithms include Strassen.
func (c AppConfig) RunsStrassen() bool {
	return c.Algo == DefaultAlgo || c.Algo == "strassen"
}

// Validate checks the configuration values and returns a ConfigError for
// the first invalid one.
func (c AppConfig) Validate(availableAlgos []string) error {
	if c.N < 1 {
		return apperrors.NewConfigError("matrix size must be at least 1: %d", c.N)
	}
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout value must be strictly positive")
	}
	if c.Algo != DefaultAlgo && !slices.Contains(availableAlgos, c.Algo) {
		return apperrors.NewConfigError("unrecognized algorithm: '%s'. Valid algorithms are: 'all' or [%s]", c.Algo, strings.Join(availableAlgos, ", "))
	}
	if c.RunsStrassen() && bits.OnesCount(uint(c.N)) != 1 {
		return apperrors.NewConfigError("strassen requires a power-of-two size, got %d (use --algo naive for other sizes)", c.N)
	}
	if c.LeafSize < 1 {
		return apperrors.NewConfigError("leaf size must be at least 1: %d", c.LeafSize)
	}
	if c.SpawnDepth < strassen.AdaptiveSpawnDepth {
		return apperrors.NewConfigError("spawn depth cannot be below %d: %d", strassen.AdaptiveSpawnDepth, c.SpawnDepth)
	}
	if c.MaxWorkers < 0 {
		return apperrors.NewConfigError("max workers cannot be negative: %d", c.MaxWorkers)
	}
	if c.Threads < 0 {
		return apperrors.NewConfigError("thread count cannot be negative: %d", c.Threads)
	}
	if _, err := ParseByteSize(c.PoolLimit); err != nil {
		return apperrors.NewConfigError("invalid pool limit %q: %v", c.PoolLimit, err)
	}
	if !slices.Contains(inputKinds, c.Input) {
		return apperrors.NewConfigError("unrecognized input: '%s'. Valid inputs are: [%s]", c.Input, strings.Join(inputKinds, ", "))
	}
	if !slices.Contains(gcModes, c.GCMode) {
		return apperrors.NewConfigError("unrecognized gc mode: '%s'. Valid modes are: [%s]", c.GCMode, strings.Join(gcModes, ", "))
	}
	if !slices.Contains(profileKinds, c.Profile) {
		return apperrors.NewConfigError("unrecognized profile: '%s'. Valid profiles are: cpu, mem", c.Profile)
	}
	return nil
}

// ParseConfig parses args into an AppConfig, applies environment overrides
// for flags that were not given, and validates the result. Usage and parse
// errors are written to errorWriter.
func ParseConfig(programName string, args []string, errorWriter io.Writer, availableAlgos []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	algoHelp := fmt.Sprintf("Algorithm to use: 'all' (default) or one of [%s].", strings.Join(availableAlgos, ", "))

	config := AppConfig{}
	fs.IntVar(&config.N, "n", DefaultN, "Size n of the n x n matrices to multiply.")
	fs.StringVar(&config.Algo, "algo", DefaultAlgo, algoHelp)
	fs.StringVar(&config.Input, "input", DefaultInput, "Operand seeding: pattern, random or identity.")
	fs.Uint64Var(&config.Seed, "seed", 1, "Seed for --input random.")

	fs.IntVar(&config.LeafSize, "leaf-size", strassen.DefaultLeafSize, "Largest size multiplied naively inside the Strassen recursion.")
	fs.IntVar(&config.SpawnDepth, "spawn-depth", strassen.AdaptiveSpawnDepth, "Deepest recursion level run concurrently (-1 picks one from the CPU count, 0 is sequential).")
	fs.IntVar(&config.MaxWorkers, "max-workers", 0, "Maximum live Strassen product goroutines (0 for no limit).")
	fs.IntVar(&config.Threads, "threads", 0, "Goroutines used by the naive multiplier (0 for one per CPU).")
	fs.StringVar(&config.PoolLimit, "pool-limit", "", "Byte budget of the matrix pool, e.g. 512MB.")

	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum execution time.")
	fs.BoolVar(&config.Concurrent, "concurrent", false, "Run the selected algorithms at the same time.")

	fs.BoolVar(&config.Verbose, "v", false, "Enable debug logging.")
	fs.BoolVar(&config.Verbose, "verbose", false, "Alias for -v.")
	fs.BoolVar(&config.Details, "d", false, "Display engine and pool statistics.")
	fs.BoolVar(&config.Details, "details", false, "Alias for -d.")
	fs.BoolVar(&config.Quiet, "q", false, "Quiet mode - minimal output for scripts.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Alias for -q.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output (also respects NO_COLOR env var).")
	fs.StringVar(&config.OutputFile, "output", "", "Write the product matrix to this file.")
	fs.StringVar(&config.OutputFile, "o", "", "Alias for --output.")

	fs.BoolVar(&config.TUI, "tui", false, "Run with the interactive dashboard.")
	fs.BoolVar(&config.Calibrate, "calibrate", false, "Time candidate leaf sizes and save the fastest.")
	fs.StringVar(&config.CalibrationProfile, "calibration-profile", "", "Calibration profile path (default: ~/.matcalc_calibration.json).")

	fs.StringVar(&config.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090.")
	fs.StringVar(&config.Profile, "profile", "", "Write a cpu or mem profile.")
	fs.StringVar(&config.GCMode, "gc-mode", DefaultGCMode, "Garbage collector control: auto, aggressive or disabled.")
	fs.BoolVar(&config.ShowVersion, "version", false, "Print version information and exit.")

	setCustomUsage(fs)

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	fromEnv := applyEnvOverrides(&config, fs)
	config.LeafSizeExplicit = isFlagSetAny(fs, "leaf-size") || fromEnv["LEAF_SIZE"]

	config.Algo = strings.ToLower(config.Algo)
	config.Input = strings.ToLower(config.Input)
	config.GCMode = strings.ToLower(config.GCMode)
	if config.ShowVersion {
		return config, nil
	}
	if err := config.Validate(availableAlgos); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		fs.Usage()
		return AppConfig{}, errors.Join(errors.New("invalid configuration"), err)
	}
	return config, nil
}
