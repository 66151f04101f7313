package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			if got := parseLevel(tc.in); got != tc.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestConsoleLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithFileConfig("warn", FileConfig{}, &buf); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer Sync()

	Info("hidden message")
	Warn("visible message", zap.Int("frame", 3))

	out := buf.String()
	if strings.Contains(out, "hidden message") {
		t.Error("info message logged at warn level")
	}
	if !strings.Contains(out, "visible message") || !strings.Contains(out, "frame") {
		t.Errorf("warn message missing from output: %q", out)
	}
}

func TestFileOnly(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "turntable.log")
	if err := Init("debug", logFile, false); err != nil {
		t.Fatalf("init: %v", err)
	}

	Named("viewer").Debug("mesh loaded", zap.String("model", "cube"))
	Sync()

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "DEBUG") || !strings.Contains(out, "mesh loaded") {
		t.Errorf("log file missing entry: %q", out)
	}
	if !strings.Contains(out, "viewer") {
		t.Errorf("logger name missing: %q", out)
	}
}

func TestNoOutputConfigured(t *testing.T) {
	if err := Init("info", "", false); err != nil {
		t.Fatalf("init: %v", err)
	}
	// Must not panic.
	Error("dropped")
	Sugar.Infof("dropped %d", 1)
}

func TestLogRotation(t *testing.T) {
	tempDir := t.TempDir()
	logFile := filepath.Join(tempDir, "test.log")

	cfg := FileConfig{
		Path:       logFile,
		MaxSizeMB:  1,
		MaxBackups: 2,
		MaxAgeDays: 1,
		Compress:   false,
	}
	if err := InitWithFileConfig("debug", cfg, nil); err != nil {
		t.Fatalf("init: %v", err)
	}

	// About 250 bytes per line; 15000 lines cross the 1MB limit.
	long := strings.Repeat("x", 200)
	for i := range 15000 {
		Sugar.Infof("frame %d: %s", i, long)
	}
	Sync()

	files, err := os.ReadDir(tempDir)
	if err != nil {
		t.Fatal(err)
	}
	var rotated int
	for _, f := range files {
		if f.Name() != "test.log" && strings.HasPrefix(f.Name(), "test-") {
			rotated++
		}
	}
	if rotated == 0 {
		t.Errorf("no rotated files in %v", files)
	}
}

func TestHelpersReportCaller(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithFileConfig("debug", FileConfig{}, &buf); err != nil {
		t.Fatalf("init: %v", err)
	}

	Debug("from debug")
	Info("from info")
	Warn("from warn")
	Error("from error")
	Log.Info("from global")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5:\n%s", len(lines), buf.String())
	}
	for _, line := range lines {
		if !strings.Contains(line, "logger/logger_test.go:") {
			t.Errorf("caller is not the test file: %q", line)
		}
	}
}
