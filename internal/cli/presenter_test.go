package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	apperrors "github.com/agbru/matcalc/internal/errors"
	"github.com/agbru/matcalc/internal/matrix"
	"github.com/agbru/matcalc/internal/orchestration"
	"github.com/agbru/matcalc/internal/ui"
)

func TestPresentComparisonTable(t *testing.T) {
	ui.InitTheme(true)
	results := []orchestration.MultiplicationResult{
		{Name: "strassen", Result: matrix.New(2), Duration: 10 * time.Millisecond},
		{Name: "naive", Result: matrix.New(2), Duration: 25 * time.Millisecond},
		{Name: "broken", Err: errors.New("boom")},
	}
	var out bytes.Buffer
	CLIResultPresenter{}.PresentComparisonTable(results, &out)
	s := out.String()

	for _, w := range []string{"Comparison Summary", "Algorithm", "Ratio", "x1.00", "x2.50", "Failure (boom)", "< 1µs"} {
		if !strings.Contains(s, w) {
			t.Errorf("table missing %q:\n%s", w, s)
		}
	}
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5:\n%s", len(lines), s)
	}
	if strings.Index(lines[2], "10ms") != strings.Index(lines[3], "25ms") {
		t.Errorf("duration column misaligned:\n%s\n%s", lines[2], lines[3])
	}
}

func TestHandleError(t *testing.T) {
	ui.InitTheme(true)
	tests := []struct {
		err  error
		want int
	}{
		{nil, apperrors.ExitSuccess},
		{context.DeadlineExceeded, apperrors.ExitErrorTimeout},
		{apperrors.MismatchError{Left: "strassen", Right: "naive"}, apperrors.ExitErrorMismatch},
		{errors.New("other"), apperrors.ExitErrorGeneric},
	}
	for _, tt := range tests {
		if got := (CLIResultPresenter{}).HandleError(tt.err, time.Second, &bytes.Buffer{}); got != tt.want {
			t.Errorf("HandleError(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestPadRight(t *testing.T) {
	t.Parallel()
	if got := padRight("ab", 4); got != "ab  " {
		t.Errorf("padRight = %q", got)
	}
	if got := padRight("abcdef", 4); got != "abcdef" {
		t.Errorf("padRight truncated: %q", got)
	}
}
