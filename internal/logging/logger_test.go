package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestFieldHelpers(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		field Field
		key   string
		value any
	}{
		{"String", String("algo", "strassen"), "algo", "strassen"},
		{"Int", Int("size", 512), "size", 512},
		{"Uint64", Uint64("hits", 7), "hits", uint64(7)},
		{"Duration", Duration("elapsed", time.Second), "elapsed", time.Second},
		{"Err nil", Err(nil), "error", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.field.Key != tt.key {
				t.Errorf("Key = %q, want %q", tt.field.Key, tt.key)
			}
			if tt.field.Value != tt.value {
				t.Errorf("Value = %v, want %v", tt.field.Value, tt.value)
			}
		})
	}
}

func TestNewLoggerWritesComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "engine")
	logger.Info("multiply done", Int("size", 256), String("algo", "strassen"))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["component"] != "engine" {
		t.Errorf("component = %v, want engine", entry["component"])
	}
	if entry["size"] != float64(256) {
		t.Errorf("size = %v, want 256", entry["size"])
	}
	if entry["message"] != "multiply done" {
		t.Errorf("message = %v", entry["message"])
	}
}

func TestZerologAdapterError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologAdapter(zerolog.New(&buf))
	logger.Error("acquire failed", errors.New("budget exhausted"), Uint64("bytes", 1024))
	out := buf.String()
	if !strings.Contains(out, `"error":"budget exhausted"`) || !strings.Contains(out, `"bytes":1024`) {
		t.Errorf("unexpected output %q", out)
	}
}

func TestZerologAdapterDebugRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologAdapter(zerolog.New(&buf).Level(zerolog.InfoLevel))
	logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug message written at info level: %q", buf.String())
	}
	logger.Printf("size=%d", 64)
	if !strings.Contains(buf.String(), "size=64") {
		t.Errorf("Printf output missing: %q", buf.String())
	}
}
