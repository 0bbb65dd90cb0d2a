package strassen

import "runtime"

// DefaultLeafSize is the largest size multiplied directly by the naive base
// case instead of being split further.
const DefaultLeafSize = 128

// AdaptiveSpawnDepth asks the engine to pick a spawn depth from the number
// of CPUs.
const AdaptiveSpawnDepth = -1

// Options configures an Engine.
type Options struct {
	// LeafSize is the base-case threshold: sizes at or below it are
	// multiplied naively. If 0, DefaultLeafSize is used.
	LeafSize int
	// SpawnDepth is the deepest recursion level (the top split is level 1)
	// whose seven products run concurrently. 0 keeps the whole recursion on
	// the calling goroutine. AdaptiveSpawnDepth picks the smallest depth
	// whose fan-out 7^d covers every CPU.
	SpawnDepth int
	// MaxWorkers caps the number of product goroutines alive at once. A
	// product that finds no free slot runs on the calling goroutine instead.
	// 0 means no cap.
	MaxWorkers int
	// Threads is the goroutine count T of the naive multiplier. If 0,
	// runtime.NumCPU() is used.
	Threads int
	// PoolLimit caps the bytes the engine's pool may allocate. 0 means no
	// cap.
	PoolLimit uint64
}

// SpawnDepthFor returns the smallest depth d with 7^d >= cpus, the
// shallowest recursion whose concurrent fan-out can keep every CPU busy.
func SpawnDepthFor(cpus int) int {
	d, fanout := 0, 1
	for fanout < cpus {
		fanout *= 7
		d++
	}
	return d
}

// normalizeOptions returns a copy of opts with defaults in place of zero
// values.
func normalizeOptions(opts Options) Options {
	normalized := opts
	if normalized.LeafSize <= 0 {
		normalized.LeafSize = DefaultLeafSize
	}
	if normalized.SpawnDepth < 0 {
		normalized.SpawnDepth = SpawnDepthFor(runtime.NumCPU())
	}
	if normalized.MaxWorkers < 0 {
		normalized.MaxWorkers = 0
	}
	if normalized.Threads <= 0 {
		normalized.Threads = runtime.NumCPU()
	}
	return normalized
}

// leafLevels returns how many times n is halved before reaching the leaf
// size.
func leafLevels(n, leaf int) int {
	levels := 0
	for n > leaf {
		n /= 2
		levels++
	}
	return levels
}

// leafCount returns 7^levels, the number of base-case products of a
// recursion that many levels deep.
func leafCount(levels int) uint64 {
	count := uint64(1)
	for range levels {
		count *= 7
	}
	return count
}
