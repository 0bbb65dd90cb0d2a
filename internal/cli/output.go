// # Naming Conventions
//
//   - Display* functions write formatted output to an [io.Writer].
//   - Format* functions return a string without performing I/O.
//   - Write* functions write to the filesystem.

package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/agbru/matcalc/internal/format"
	"github.com/agbru/matcalc/internal/matrix"
	"github.com/agbru/matcalc/internal/orchestration"
	"github.com/agbru/matcalc/internal/strassen"
	"github.com/agbru/matcalc/internal/ui"
)

// Checksum returns the wrapping sum and trace of m, a compact fingerprint
// for products too large to print.
func Checksum(m *matrix.Matrix) (sum, trace int64) {
	for _, v := range m.Data {
		sum += v
	}
	for i := range m.Size {
		trace += m.At(i, i)
	}
	return sum, trace
}

// FormatQuietResult returns the single-line summary used by --quiet.
func FormatQuietResult(result orchestration.MultiplicationResult) string {
	sum, trace := Checksum(result.Result)
	return fmt.Sprintf("%s n=%d sum=%d trace=%d duration=%s", result.Name, result.Result.Size, sum, trace, result.Duration)
}

// DisplayQuietResult prints FormatQuietResult.
func DisplayQuietResult(out io.Writer, result orchestration.MultiplicationResult) {
	fmt.Fprintln(out, FormatQuietResult(result))
}

// DisplayMatrix prints m under a label, one row per line.
func DisplayMatrix(out io.Writer, label string, m *matrix.Matrix) {
	fmt.Fprintf(out, "%s%s%s (%dx%d):\n%s", ui.ColorBold(), label, ui.ColorReset(), m.Size, m.Size, m.String())
}

// DisplayResult prints the product summary and, when opts.PrintMatrices is
// set, the product itself.
func DisplayResult(result orchestration.MultiplicationResult, opts orchestration.PresentationOptions, out io.Writer) {
	m := result.Result
	sum, trace := Checksum(m)
	fmt.Fprintf(out, "\n--- Result ---\n")
	fmt.Fprintf(out, "Product %s%dx%d%s computed by %s%s%s in %s%s%s.\n",
		ui.ColorMagenta(), m.Size, m.Size, ui.ColorReset(),
		ui.ColorGreen(), result.Name, ui.ColorReset(),
		ui.ColorYellow(), format.FormatExecutionDuration(result.Duration), ui.ColorReset())
	fmt.Fprintf(out, "Checksum: sum=%s%d%s trace=%s%d%s\n",
		ui.ColorCyan(), sum, ui.ColorReset(), ui.ColorCyan(), trace, ui.ColorReset())
	if opts.Details {
		fmt.Fprintf(out, "Entries: %s, storage %s\n",
			format.FormatNumber(int64(m.Size)*int64(m.Size)), format.FormatBytes(matrix.Bytes(m.Size)))
	}
	if opts.PrintMatrices {
		DisplayMatrix(out, "C = A x B", m)
	}
}

// DisplayEngineStats prints the Strassen engine counters and the state of
// its pool.
func DisplayEngineStats(out io.Writer, s strassen.Stats) {
	fmt.Fprintf(out, "\n--- Engine Statistics ---\n")
	fmt.Fprintf(out, "  Leaf size:        %d\n", s.LeafSize)
	fmt.Fprintf(out, "  Spawn depth:      %d\n", s.SpawnDepth)
	fmt.Fprintf(out, "  Naive threads:    %d\n", s.Threads)
	fmt.Fprintf(out, "  Recursions:       %s\n", format.FormatNumber(int64(s.Recursions)))
	fmt.Fprintf(out, "  Base cases:       %s\n", format.FormatNumber(int64(s.BaseCases)))
	fmt.Fprintf(out, "  Spawned branches: %s\n", format.FormatNumber(int64(s.SpawnedBranches)))
	if s.MaxWorkers > 0 {
		fmt.Fprintf(out, "  Inline branches:  %s (max workers %d)\n", format.FormatNumber(int64(s.InlineBranches)), s.MaxWorkers)
	}
	fmt.Fprintf(out, "  Peak depth:       %d\n", s.PeakDepth)
	fmt.Fprintf(out, "  Cache hits:       %s%s%s\n", ui.ColorGreen(), format.FormatNumber(int64(s.CacheHits)), ui.ColorReset())
	fmt.Fprintf(out, "  Cache misses:     %s%s%s\n", ui.ColorYellow(), format.FormatNumber(int64(s.CacheMisses)), ui.ColorReset())
	fmt.Fprintf(out, "  Hit rate:         %.1f%%\n", s.Pool.HitRate()*100)
	fmt.Fprintf(out, "  Pool allocated:   %s\n", format.FormatBytes(s.Pool.AllocatedBytes))
}

// DisplayCacheSummary prints the pool's cache hits and misses on one line.
func DisplayCacheSummary(out io.Writer, s strassen.Stats) {
	fmt.Fprintf(out, "Cache: %s%s%s hits, %s%s%s misses (%.1f%% hit rate).\n",
		ui.ColorGreen(), format.FormatNumber(int64(s.CacheHits)), ui.ColorReset(),
		ui.ColorYellow(), format.FormatNumber(int64(s.CacheMisses)), ui.ColorReset(),
		s.Pool.HitRate()*100)
}

// DisplayMemoryStats shows memory statistics after a run.
func DisplayMemoryStats(out io.Writer, peakHeap, totalAlloc uint64, numGC uint32, pauseTotalNs uint64) {
	fmt.Fprintf(out, "\nMemory Stats:\n")
	fmt.Fprintf(out, "  Peak heap:       %s\n", format.FormatBytes(peakHeap))
	fmt.Fprintf(out, "  Total allocated: %s\n", format.FormatBytes(totalAlloc))
	fmt.Fprintf(out, "  GC cycles:       %d\n", numGC)
	if pauseTotalNs > 0 {
		fmt.Fprintf(out, "  GC pause total:  %.2fms\n", float64(pauseTotalNs)/1e6)
	} else {
		fmt.Fprintf(out, "  GC pause total:  0ms\n")
	}
}

// WriteResultToFile writes result as a commented header followed by one
// space-separated row per line. An empty path writes nothing.
func WriteResultToFile(path string, result orchestration.MultiplicationResult, input string) error {
	if path == "" {
		return nil
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	sum, trace := Checksum(result.Result)
	fmt.Fprintf(w, "# Matrix Multiplication Result\n")
	fmt.Fprintf(w, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(w, "# Algorithm: %s\n", result.Name)
	fmt.Fprintf(w, "# Duration: %s\n", result.Duration)
	fmt.Fprintf(w, "# N: %d\n", result.Result.Size)
	fmt.Fprintf(w, "# Input: %s\n", input)
	fmt.Fprintf(w, "# Sum: %d\n# Trace: %d\n\n", sum, trace)
	if _, err := w.WriteString(result.Result.String()); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return file.Close()
}
