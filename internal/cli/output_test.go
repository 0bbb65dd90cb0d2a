package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agbru/matcalc/internal/matrix"
	"github.com/agbru/matcalc/internal/orchestration"
	"github.com/agbru/matcalc/internal/strassen"
	"github.com/agbru/matcalc/internal/ui"
)

func sampleResult() orchestration.MultiplicationResult {
	return orchestration.MultiplicationResult{
		Name:     "strassen",
		Result:   matrix.FromRows([][]int64{{19, 22}, {43, 50}}),
		Duration: 3 * time.Millisecond,
	}
}

func TestChecksum(t *testing.T) {
	t.Parallel()
	sum, trace := Checksum(sampleResult().Result)
	if sum != 134 || trace != 69 {
		t.Errorf("Checksum = %d, %d, want 134, 69", sum, trace)
	}
}

func TestFormatQuietResult(t *testing.T) {
	t.Parallel()
	got := FormatQuietResult(sampleResult())
	want := "strassen n=2 sum=134 trace=69 duration=3ms"
	if got != want {
		t.Errorf("FormatQuietResult = %q, want %q", got, want)
	}
}

func TestDisplayResult(t *testing.T) {
	ui.InitTheme(true)
	tests := []struct {
		name    string
		opts    orchestration.PresentationOptions
		want    []string
		notWant []string
	}{
		{"summary", orchestration.PresentationOptions{N: 2}, []string{"Product 2x2", "strassen", "sum=134 trace=69"}, []string{"C = A x B", "Entries"}},
		{"details", orchestration.PresentationOptions{N: 2, Details: true}, []string{"Entries: 4, storage 32 B"}, nil},
		{"matrix", orchestration.PresentationOptions{N: 2, PrintMatrices: true}, []string{"C = A x B (2x2):\n19 22\n43 50\n"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			DisplayResult(sampleResult(), tt.opts, &out)
			for _, w := range tt.want {
				if !strings.Contains(out.String(), w) {
					t.Errorf("output missing %q:\n%s", w, out.String())
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out.String(), w) {
					t.Errorf("output unexpectedly contains %q", w)
				}
			}
		})
	}
}

func TestDisplayEngineStats(t *testing.T) {
	ui.InitTheme(true)
	engine := strassen.NewEngine(strassen.Options{LeafSize: 2, SpawnDepth: 0})
	a := matrix.New(4)
	a.FillPattern()
	if _, err := engine.FastMultiply(t.Context(), a, a); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	DisplayEngineStats(&out, engine.Stats())
	for _, w := range []string{"Leaf size:        2", "Recursions:       1", "Base cases:       7", "Cache misses:"} {
		if !strings.Contains(out.String(), w) {
			t.Errorf("output missing %q:\n%s", w, out.String())
		}
	}
}

func TestDisplayCacheSummary(t *testing.T) {
	ui.InitTheme(true)
	var out bytes.Buffer
	DisplayCacheSummary(&out, strassen.Stats{
		CacheHits: 3, CacheMisses: 1,
		Pool: matrix.PoolStats{Hits: 3, Misses: 1},
	})
	if got, want := out.String(), "Cache: 3 hits, 1 misses (75.0% hit rate).\n"; got != want {
		t.Errorf("DisplayCacheSummary = %q, want %q", got, want)
	}
}

func TestDisplayMemoryStats(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	DisplayMemoryStats(&out, 2<<20, 4<<20, 3, 0)
	for _, w := range []string{"Peak heap:       2.0 MiB", "GC cycles:       3", "0ms"} {
		if !strings.Contains(out.String(), w) {
			t.Errorf("output missing %q:\n%s", w, out.String())
		}
	}
}

func TestWriteResultToFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	if err := WriteResultToFile("", sampleResult(), "pattern"); err != nil {
		t.Errorf("empty path: %v", err)
	}

	path := filepath.Join(dir, "nested", "dir", "product.txt")
	if err := WriteResultToFile(path, sampleResult(), "pattern"); err != nil {
		t.Fatalf("WriteResultToFile: %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, w := range []string{"# Algorithm: strassen", "# N: 2", "# Input: pattern", "# Sum: 134", "\n19 22\n43 50\n"} {
		if !strings.Contains(string(content), w) {
			t.Errorf("file missing %q:\n%s", w, content)
		}
	}
}
