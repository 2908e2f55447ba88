package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	err := Init(Config{
		Debug:     false,
		ConfigDir: configDir,
	})
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	logDir := filepath.Join(configDir, "logs")
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", logDir)
	}
	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Warn("slot write failed", "slot", "day_logs")
	if _, err := os.Stat(Path(configDir)); err != nil {
		t.Errorf("expected log file at %s: %v", Path(configDir), err)
	}
}

func TestInitOutputLevels(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(Config{Output: &buf}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	Debug("hidden debug")
	Info("hidden info")
	Warn("corrupt snapshot", "slot", "month_goals")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug and info should be filtered in normal mode: %s", out)
	}
	if !strings.Contains(out, "corrupt snapshot") || !strings.Contains(out, "month_goals") {
		t.Errorf("expected warning with key/value, got: %s", out)
	}
	if !strings.Contains(out, "daylog") {
		t.Errorf("expected prefix in output: %s", out)
	}
}

func TestInitDebugMode(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(Config{Debug: true, Output: &buf}); err != nil {
		t.Fatalf("Failed to initialize logger in debug mode: %v", err)
	}

	Debug("visible debug")
	if !strings.Contains(buf.String(), "visible debug") {
		t.Errorf("expected debug output, got: %s", buf.String())
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// These should not panic when Logger is nil
	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
}

func TestPath(t *testing.T) {
	got := Path("/home/me/.config/daylog")
	if got != filepath.Join("/home/me/.config/daylog", "logs", "daylog.log") {
		t.Errorf("unexpected log path: %s", got)
	}
}
