package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// isFlagSetAny reports whether any of the named flags was given on the
// command line.
func isFlagSetAny(fs *flag.FlagSet, names ...string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		for _, name := range names {
			if f.Name == name {
				found = true
			}
		}
	})
	return found
}

// envOverride maps one environment variable (without EnvPrefix) to the
// flag names it stands in for and the function applying its value.
type envOverride struct {
	envKey string
	flags  []string
	apply  func(*AppConfig, string)
}

func intOverride(key, flagName string, field func(*AppConfig) *int) envOverride {
	return envOverride{key, []string{flagName}, func(c *AppConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			*field(c) = parsed
		}
	}}
}

func stringOverride(key string, flags []string, field func(*AppConfig) *string) envOverride {
	return envOverride{key, flags, func(c *AppConfig, v string) { *field(c) = v }}
}

func boolOverride(key string, flags []string, field func(*AppConfig) *bool) envOverride {
	return envOverride{key, flags, func(c *AppConfig, v string) {
		*field(c) = parseBoolEnv(v, *field(c))
	}}
}

// envOverrides is the table of every MATCALC_* variable.
var envOverrides = []envOverride{
	intOverride("N", "n", func(c *AppConfig) *int { return &c.N }),
	intOverride("LEAF_SIZE", "leaf-size", func(c *AppConfig) *int { return &c.LeafSize }),
	intOverride("SPAWN_DEPTH", "spawn-depth", func(c *AppConfig) *int { return &c.SpawnDepth }),
	intOverride("MAX_WORKERS", "max-workers", func(c *AppConfig) *int { return &c.MaxWorkers }),
	intOverride("THREADS", "threads", func(c *AppConfig) *int { return &c.Threads }),
	{"SEED", []string{"seed"}, func(c *AppConfig, v string) {
		if parsed, err := strconv.ParseUint(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}},
	{"TIMEOUT", []string{"timeout"}, func(c *AppConfig, v string) {
		if parsed, err := time.ParseDuration(v); err == nil {
			c.Timeout = parsed
		}
	}},

	stringOverride("ALGO", []string{"algo"}, func(c *AppConfig) *string { return &c.Algo }),
	stringOverride("INPUT", []string{"input"}, func(c *AppConfig) *string { return &c.Input }),
	stringOverride("POOL_LIMIT", []string{"pool-limit"}, func(c *AppConfig) *string { return &c.PoolLimit }),
	stringOverride("OUTPUT", []string{"output", "o"}, func(c *AppConfig) *string { return &c.OutputFile }),
	stringOverride("CALIBRATION_PROFILE", []string{"calibration-profile"}, func(c *AppConfig) *string { return &c.CalibrationProfile }),
	stringOverride("METRICS_ADDR", []string{"metrics-addr"}, func(c *AppConfig) *string { return &c.MetricsAddr }),
	stringOverride("PROFILE", []string{"profile"}, func(c *AppConfig) *string { return &c.Profile }),
	stringOverride("GC_MODE", []string{"gc-mode"}, func(c *AppConfig) *string { return &c.GCMode }),

	boolOverride("CONCURRENT", []string{"concurrent"}, func(c *AppConfig) *bool { return &c.Concurrent }),
	boolOverride("VERBOSE", []string{"v", "verbose"}, func(c *AppConfig) *bool { return &c.Verbose }),
	boolOverride("DETAILS", []string{"d", "details"}, func(c *AppConfig) *bool { return &c.Details }),
	boolOverride("QUIET", []string{"q", "quiet"}, func(c *AppConfig) *bool { return &c.Quiet }),
	boolOverride("NO_COLOR", []string{"no-color"}, func(c *AppConfig) *bool { return &c.NoColor }),
	boolOverride("TUI", []string{"tui"}, func(c *AppConfig) *bool { return &c.TUI }),
	boolOverride("CALIBRATE", []string{"calibrate"}, func(c *AppConfig) *bool { return &c.Calibrate }),
}

// parseBoolEnv accepts true/1/yes and false/0/no, case-insensitively, and
// returns defaultVal for anything else.
func parseBoolEnv(val string, defaultVal bool) bool {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultVal
}

// applyEnvOverrides applies MATCALC_* variables to every setting whose flag
// was not given, so the precedence is flag > environment > default. It
// returns the keys (without EnvPrefix) of the variables it applied.
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) map[string]bool {
	applied := make(map[string]bool)
	for _, o := range envOverrides {
		if isFlagSetAny(fs, o.flags...) {
			continue
		}
		if val := os.Getenv(EnvPrefix + o.envKey); val != "" {
			o.apply(config, val)
			applied[o.envKey] = true
		}
	}
	return applied
}
