package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/agbru/matcalc/internal/config"
	"github.com/agbru/matcalc/internal/matrix"
	"github.com/agbru/matcalc/internal/orchestration"
	"github.com/agbru/matcalc/internal/progress"
	"github.com/agbru/matcalc/internal/ui"
)

type namedMultiplier string

func (n namedMultiplier) Name() string { return string(n) }

func (namedMultiplier) Multiply(context.Context, *matrix.Matrix, *matrix.Matrix, progress.ProgressCallback) (*matrix.Matrix, error) {
	return nil, nil
}

func TestPrintExecutionConfig(t *testing.T) {
	ui.InitTheme(true)
	cfg := config.AppConfig{N: 256, Input: "random", Timeout: time.Minute, LeafSize: 64, SpawnDepth: 2, Threads: 4, MaxWorkers: 8, PoolLimit: "1GB"}
	var out bytes.Buffer
	PrintExecutionConfig(cfg, &out)
	for _, w := range []string{"256x256", "random", "1m0s", "leaf size=64", "spawn depth=2", "max workers=8", "pool limit=1GB", "CPU features", "512.0 KiB"} {
		if !strings.Contains(out.String(), w) {
			t.Errorf("output missing %q:\n%s", w, out.String())
		}
	}
}

func TestPrintExecutionMode(t *testing.T) {
	ui.InitTheme(true)
	tests := []struct {
		multipliers []orchestration.Multiplier
		concurrent  bool
		want        string
	}{
		{[]orchestration.Multiplier{namedMultiplier("naive"), namedMultiplier("strassen")}, false, "Sequential comparison"},
		{[]orchestration.Multiplier{namedMultiplier("naive"), namedMultiplier("strassen")}, true, "Concurrent comparison"},
		{[]orchestration.Multiplier{namedMultiplier("strassen")}, false, "Single multiplication with the strassen algorithm"},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		PrintExecutionMode(tt.multipliers, tt.concurrent, &out)
		if !strings.Contains(out.String(), tt.want) {
			t.Errorf("output %q missing %q", out.String(), tt.want)
		}
	}
}

func TestPrintInputs(t *testing.T) {
	ui.InitTheme(true)
	small := matrix.FromRows([][]int64{{1, 2}, {3, 4}})
	var out bytes.Buffer
	PrintInputs(small, small, &out)
	if !strings.Contains(out.String(), "A (2x2):\n1 2\n3 4\n") || !strings.Contains(out.String(), "B (2x2):") {
		t.Errorf("inputs not printed:\n%s", out.String())
	}

	out.Reset()
	PrintInputs(matrix.New(PrintLimit*2), matrix.New(PrintLimit*2), &out)
	if out.Len() != 0 {
		t.Errorf("large inputs printed: %d bytes", out.Len())
	}
}
