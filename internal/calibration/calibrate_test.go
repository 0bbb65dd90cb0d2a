package calibration

import (
	"bytes"
	"context"
	"slices"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/agbru/matcalc/internal/strassen"
)

func TestCalibrationSize(t *testing.T) {
	t.Parallel()
	tests := map[int]int{1: 128, 100: 128, 128: 128, 300: 256, 512: 512, 1000: 512, 4096: 1024}
	for n, want := range tests {
		if got := CalibrationSize(n); got != want {
			t.Errorf("CalibrationSize(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestCandidatesFor(t *testing.T) {
	t.Parallel()
	if got := CandidatesFor(128, []int{32, 64, 128, 256}); !slices.Equal(got, []int{32, 64}) {
		t.Errorf("CandidatesFor(128) = %v", got)
	}
	if got := CandidatesFor(8, []int{32, 64}); !slices.Equal(got, []int{8}) {
		t.Errorf("CandidatesFor(8) = %v, want [8]", got)
	}
}

func TestGenerateLeafSizes(t *testing.T) {
	t.Parallel()
	sizes := GenerateLeafSizes()
	if len(sizes) < 3 || !slices.IsSorted(sizes) {
		t.Errorf("GenerateLeafSizes() = %v", sizes)
	}
	quick := GenerateQuickLeafSizes()
	if len(quick) != 3 || quick[0]*2 != quick[1] || quick[1]*2 != quick[2] {
		t.Errorf("GenerateQuickLeafSizes() = %v", quick)
	}
}

func TestRunPicksAMeasuredLeaf(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	p, err := Run(context.Background(), Options{
		N:         128,
		LeafSizes: []int{16, 32, 64},
		Engine:    strassen.Options{SpawnDepth: 1},
		Logger:    zerolog.Nop(),
	}, &out)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !slices.Contains([]int{16, 32, 64}, p.OptimalLeafSize) {
		t.Errorf("OptimalLeafSize = %d, not a candidate", p.OptimalLeafSize)
	}
	if p.OptimalSpawnDepth != 1 || p.CalibrationN != 128 {
		t.Errorf("profile = %+v", p)
	}
	if !strings.Contains(out.String(), "(Optimal)") {
		t.Errorf("summary missing optimal marker:\n%s", out.String())
	}
}

func TestRunCanceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, Options{N: 128, LeafSizes: []int{32}}, &bytes.Buffer{}); err == nil {
		t.Error("expected an error from a canceled calibration")
	}
}
