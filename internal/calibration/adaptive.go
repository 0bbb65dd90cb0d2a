// This file picks the candidate leaf sizes timed by a calibration run.

package calibration

import (
	"runtime"

	"github.com/agbru/matcalc/internal/config"
)

// ─────────────────────────────────────────────────────────────────────────────
// Candidate Leaf Sizes
// ─────────────────────────────────────────────────────────────────────────────

// GenerateLeafSizes returns the leaf sizes a full calibration times. Hosts
// with many cores also try small leaves, which expose more products to run
// in parallel.
func GenerateLeafSizes() []int {
	switch numCPU := runtime.NumCPU(); {
	case numCPU == 1:
		return []int{64, 128, 256, 512}
	case numCPU <= 8:
		return []int{32, 64, 128, 256, 512}
	default:
		return []int{16, 32, 64, 128, 256, 512}
	}
}

// GenerateQuickLeafSizes returns a reduced candidate set around the
// hardware estimate.
func GenerateQuickLeafSizes() []int {
	est := config.EstimateLeafSize()
	return []int{est / 2, est, est * 2}
}

// CandidatesFor drops the leaf sizes that would not recurse at all on an
// n×n run, keeping at least one candidate.
func CandidatesFor(n int, sizes []int) []int {
	var out []int
	for _, s := range sizes {
		if s >= 1 && s < n {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return []int{max(1, n)}
	}
	return out
}
