package logger

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// TestSetup_WritesToFile 验证日志写入轮转文件
func TestSetup_WritesToFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "sentinel.log")

	if err := Setup(Options{Level: "debug", FilePath: logFile, MaxSize: 1}); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	defer Close()

	Info("scan finished", "score", 42)

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"score":42`) {
		t.Errorf("log file missing structured field, got: %s", data)
	}
}
