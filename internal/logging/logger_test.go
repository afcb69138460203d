package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewWritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "aifront.log")
	logger, err := New(Options{Path: path, Profile: "test", Level: "debug"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Debug("hello", zap.String("k", "v"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	line := strings.TrimSpace(string(data))
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("log line is not JSON: %q", line)
	}
	if entry["msg"] != "hello" {
		t.Errorf("msg = %v, want hello", entry["msg"])
	}
	if entry["profile"] != "test" {
		t.Errorf("profile = %v, want test", entry["profile"])
	}
	if _, ok := entry["ts"]; !ok {
		t.Error("missing ts field")
	}
}

func TestNewWithoutSinksIsNop(t *testing.T) {
	logger, err := New(Options{})
	if err != nil {
		t.Fatal(err)
	}
	if logger.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("expected nop logger")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"WARN", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"bogus", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
