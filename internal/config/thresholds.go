package config

import (
	"runtime"

	"github.com/agbru/matcalc/internal/strassen"
)

// Tuning resolution chain (highest priority first):
//   1. CLI flags (--leaf-size, --spawn-depth, --threads)
//   2. Environment variables (MATCALC_LEAF_SIZE, ...)
//   3. Cached calibration profile (~/.matcalc_calibration.json)
//   4. Hardware estimates (this file)

// ApplyAdaptiveDefaults replaces the adaptive sentinels left by the flags
// with values estimated from the hardware.
func ApplyAdaptiveDefaults(cfg AppConfig) AppConfig {
	if cfg.SpawnDepth == strassen.AdaptiveSpawnDepth {
		cfg.SpawnDepth = EstimateSpawnDepth()
	}
	if cfg.Threads == 0 {
		cfg.Threads = EstimateThreads()
	}
	return cfg
}

// EstimateSpawnDepth returns the shallowest spawn depth whose fan-out covers
// every CPU. A single CPU gets a fully sequential recursion.
func EstimateSpawnDepth() int {
	return strassen.SpawnDepthFor(runtime.NumCPU())
}

// EstimateThreads returns the naive multiplier's goroutine count.
func EstimateThreads() int {
	return runtime.NumCPU()
}

// EstimateLeafSize suggests a leaf size from the CPU count, for use as the
// calibration starting point: more cores favor smaller leaves, which expose
// more parallel products.
func EstimateLeafSize() int {
	switch numCPU := runtime.NumCPU(); {
	case numCPU <= 2:
		return 256
	case numCPU <= 8:
		return 128
	default:
		return 64
	}
}
