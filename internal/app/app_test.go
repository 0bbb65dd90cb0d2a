package app

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/agbru/matcalc/internal/calibration"
	"github.com/agbru/matcalc/internal/config"
	apperrors "github.com/agbru/matcalc/internal/errors"
	"github.com/agbru/matcalc/internal/logging"
	"github.com/agbru/matcalc/internal/matrix"
)

// newTestApp builds an application that ignores any calibration profile in
// the home directory and logs nowhere.
func newTestApp(t *testing.T, args ...string) *Application {
	t.Helper()
	full := append([]string{"matcalc", "--calibration-profile", filepath.Join(t.TempDir(), "none.json"), "--no-color"}, args...)
	app, err := New(full, io.Discard, WithLogger(logging.NewLogger(io.Discard, "test")))
	if err != nil {
		t.Fatalf("New(%v) error = %v", args, err)
	}
	return app
}

func TestNewAppliesAdaptiveDefaults(t *testing.T) {
	app := newTestApp(t, "-n", "8")
	if app.Config.N != 8 {
		t.Errorf("N = %d, want 8", app.Config.N)
	}
	if app.Config.SpawnDepth < 0 {
		t.Errorf("SpawnDepth = %d, want an adaptive value >= 0", app.Config.SpawnDepth)
	}
	if app.Config.Threads < 1 {
		t.Errorf("Threads = %d, want >= 1", app.Config.Threads)
	}
}

func TestNewErrors(t *testing.T) {
	_, err := New([]string{"matcalc", "--help"}, io.Discard)
	if !IsHelpError(err) {
		t.Errorf("--help error = %v, want flag.ErrHelp", err)
	}

	var stderr bytes.Buffer
	_, err = New([]string{"matcalc", "-n", "0"}, &stderr)
	if err == nil || IsHelpError(err) {
		t.Fatalf("-n 0 error = %v, want a configuration error", err)
	}
	if !strings.Contains(stderr.String(), "Configuration error") {
		t.Errorf("stderr = %q, want a configuration error message", stderr.String())
	}
}

func TestNewLoadsCalibrationProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	p := calibration.NewProfile()
	p.OptimalLeafSize = 32
	p.OptimalSpawnDepth = 1
	if err := p.SaveProfile(path); err != nil {
		t.Fatal(err)
	}

	t.Run("fills unset tuning", func(t *testing.T) {
		app := newTestApp(t, "--calibration-profile", path)
		if app.Config.LeafSize != 32 || app.Config.SpawnDepth != 1 {
			t.Errorf("tuning = leaf %d depth %d, want leaf 32 depth 1", app.Config.LeafSize, app.Config.SpawnDepth)
		}
		if !app.profileLoaded {
			t.Error("profileLoaded = false, want true")
		}
	})

	t.Run("keeps a leaf size from the environment", func(t *testing.T) {
		t.Setenv("MATCALC_LEAF_SIZE", "128")
		app := newTestApp(t, "--calibration-profile", path)
		if app.Config.LeafSize != 128 {
			t.Errorf("LeafSize = %d, want 128 from MATCALC_LEAF_SIZE", app.Config.LeafSize)
		}
	})

	t.Run("keeps explicit flags", func(t *testing.T) {
		app := newTestApp(t, "--calibration-profile", path, "--leaf-size", "64", "--spawn-depth", "0")
		if app.Config.LeafSize != 64 || app.Config.SpawnDepth != 0 {
			t.Errorf("tuning = leaf %d depth %d, want leaf 64 depth 0", app.Config.LeafSize, app.Config.SpawnDepth)
		}
	})
}

func TestRunComparesAlgorithms(t *testing.T) {
	app := newTestApp(t, "-n", "8", "--leaf-size", "2")
	var out bytes.Buffer
	if code := app.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("Run() = %d, want %d\n%s", code, apperrors.ExitSuccess, out.String())
	}
	for _, want := range []string{"Execution Configuration", "Comparison Summary", "All 2 products are identical", "C = A x B", "Cache: "} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRunQuiet(t *testing.T) {
	app := newTestApp(t, "-n", "16", "--input", "identity", "--leaf-size", "4", "--quiet")
	var out bytes.Buffer
	if code := app.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("Run() = %d, want %d", code, apperrors.ExitSuccess)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("quiet output has %d lines, want 1:\n%s", len(lines), out.String())
	}
	a, _ := NewInputs("identity", 16, 1)
	sum := int64(0)
	for _, v := range a.Data {
		sum += v
	}
	if !strings.Contains(lines[0], "n=16") || !strings.Contains(lines[0], "sum="+strconv.FormatInt(sum, 10)) {
		t.Errorf("quiet output = %q, want n=16 and sum=%d", lines[0], sum)
	}
}

func TestRunWritesOutputAndDetails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "c.txt")
	app := newTestApp(t, "-n", "4", "--algo", "strassen", "--leaf-size", "1", "-d", "-o", path)
	var out bytes.Buffer
	if code := app.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("Run() = %d\n%s", code, out.String())
	}
	for _, want := range []string{"Result saved to", "Engine Statistics", "Memory Stats", "Cache hits"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q", want)
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output file: %v", err)
	}
	if strings.Contains(out.String(), "Cache: ") {
		t.Error("the one-line cache summary should give way to the full statistics")
	}
	if !strings.Contains(string(data), "# Algorithm: strassen") {
		t.Errorf("output file header missing algorithm:\n%s", data)
	}
}

func TestRunCanceled(t *testing.T) {
	app := newTestApp(t, "-n", "64", "--leaf-size", "8")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	if code := app.Run(ctx, &out); code != apperrors.ExitErrorCanceled {
		t.Errorf("Run() = %d, want %d\n%s", code, apperrors.ExitErrorCanceled, out.String())
	}
}

func TestRunWithMetricsServer(t *testing.T) {
	app := newTestApp(t, "-n", "8", "--leaf-size", "2", "--metrics-addr", "127.0.0.1:0", "-q")
	if code := app.Run(context.Background(), io.Discard); code != apperrors.ExitSuccess {
		t.Errorf("Run() = %d, want %d", code, apperrors.ExitSuccess)
	}
}

func TestRunCalibration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cal.json")
	app := newTestApp(t, "--calibrate", "-n", "128", "--calibration-profile", path)
	var out bytes.Buffer
	if code := app.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("Run() = %d\n%s", code, out.String())
	}
	p, ok := calibration.LoadCachedProfile(path)
	if !ok {
		t.Fatal("calibration did not save a valid profile")
	}
	if app.Config.LeafSize != p.OptimalLeafSize {
		t.Errorf("LeafSize = %d, want the calibrated %d", app.Config.LeafSize, p.OptimalLeafSize)
	}
}

func TestRunVersion(t *testing.T) {
	app := newTestApp(t, "--version")
	var out bytes.Buffer
	if code := app.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("Run() = %d", code)
	}
	if !strings.HasPrefix(out.String(), "matcalc "+Version) {
		t.Errorf("version output = %q", out.String())
	}
}

func TestHasVersionFlag(t *testing.T) {
	tests := []struct {
		args []string
		want bool
	}{
		{nil, false},
		{[]string{"-n", "8"}, false},
		{[]string{"--version"}, true},
		{[]string{"-n", "8", "-V"}, true},
	}
	for _, tt := range tests {
		if got := HasVersionFlag(tt.args); got != tt.want {
			t.Errorf("HasVersionFlag(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}

func TestNewInputs(t *testing.T) {
	a, b := NewInputs("pattern", 4, 0)
	if a.At(1, 2) != 7 || b.At(3, 3) != 6 {
		t.Errorf("pattern = %d, %d, want 7, 6", a.At(1, 2), b.At(3, 3))
	}

	_, id := NewInputs("identity", 4, 0)
	identity := matrix.New(4)
	identity.FillIdentity()
	if !id.Equal(identity) {
		t.Error("identity input: B is not the identity")
	}

	r1, r2 := NewInputs("random", 8, 42)
	again, _ := NewInputs("random", 8, 42)
	if !r1.Equal(again) {
		t.Error("random input is not deterministic for a seed")
	}
	if r1.Equal(r2) {
		t.Error("random operands should differ")
	}
	for _, v := range r1.Data {
		if v < -randomBound || v > randomBound {
			t.Fatalf("random value %d outside [-%d, %d]", v, randomBound, randomBound)
		}
	}
}

func TestBranchParallelism(t *testing.T) {
	tests := []struct {
		depth, workers, want int
	}{
		{0, 0, 1},
		{1, 0, 7},
		{2, 0, 49},
		{2, 3, 4},
	}
	for _, tt := range tests {
		cfg := config.AppConfig{SpawnDepth: tt.depth, MaxWorkers: tt.workers}
		if got := branchParallelism(cfg); got != tt.want {
			t.Errorf("branchParallelism(depth=%d, workers=%d) = %d, want %d", tt.depth, tt.workers, got, tt.want)
		}
	}
}
