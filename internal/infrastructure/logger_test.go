package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"timecardcli/internal/config"
)

func TestInitializeLogger(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	logFile := filepath.Join(t.TempDir(), "logs", "test.log")

	cfg := config.LoggingConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: logFile,
	}

	logger, err := InitializeLogger(cfg)
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	if logger == nil {
		t.Fatal("Logger is nil")
	}

	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		t.Error("Log file was not created")
	}

	logger.Info("test message", "key", "value")
	CloseLogFile()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	var logEntry map[string]interface{}
	if err := json.Unmarshal(content, &logEntry); err != nil {
		t.Errorf("Log output is not valid JSON: %v", err)
	}
	if logEntry["msg"] != "test message" {
		t.Errorf("Expected msg='test message', got %v", logEntry["msg"])
	}
	if logEntry["key"] != "value" {
		t.Errorf("Expected key='value', got %v", logEntry["key"])
	}
	if logEntry["level"] != "INFO" {
		t.Errorf("Expected level='INFO', got %v", logEntry["level"])
	}

	// second call is a no-op returning the same instance
	again, err := InitializeLogger(config.LoggingConfig{Level: "debug", Output: "console"})
	if err != nil || again != logger {
		t.Errorf("Expected InitializeLogger to return the first logger, got %v, %v", again, err)
	}
}

func TestRunIDInjection(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(config.LoggingConfig{Level: "debug", Format: "json", Output: "console"}, &buf)
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	ctx := WithRunID(context.Background(), "run-123")
	logger.InfoContext(ctx, "with run")

	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse log JSON: %v", err)
	}
	if logEntry["run_id"] != "run-123" {
		t.Errorf("Expected run_id='run-123', got %v", logEntry["run_id"])
	}

	// attributes survive With
	buf.Reset()
	logger.With("component", "analyzer").InfoContext(ctx, "child")
	if !strings.Contains(buf.String(), `"run_id":"run-123"`) || !strings.Contains(buf.String(), `"component":"analyzer"`) {
		t.Errorf("Expected run_id and component in %s", buf.String())
	}
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(config.LoggingConfig{Level: "info", Format: "text", Output: "console"}, &buf)
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	logger.Info("plain", "employee", "Jane Roe")

	if !strings.Contains(buf.String(), `msg=plain`) || !strings.Contains(buf.String(), `employee="Jane Roe"`) {
		t.Errorf("Unexpected text output: %s", buf.String())
	}
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level   string
		enabled slog.Level
		dropped slog.Level
	}{
		{"debug", slog.LevelDebug, slog.LevelDebug - 4},
		{"info", slog.LevelInfo, slog.LevelDebug},
		{"warning", slog.LevelWarn, slog.LevelInfo},
		{"error", slog.LevelError, slog.LevelWarn},
		{"bogus", slog.LevelInfo, slog.LevelDebug},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger, err := NewLogger(config.LoggingConfig{Level: tt.level, Output: "console"}, &bytes.Buffer{})
			if err != nil {
				t.Fatalf("Failed to create logger: %v", err)
			}
			if !logger.Enabled(context.Background(), tt.enabled) {
				t.Errorf("Expected level %s enabled", tt.enabled)
			}
			if logger.Enabled(context.Background(), tt.dropped) {
				t.Errorf("Expected level %s disabled", tt.dropped)
			}
		})
	}
}

func TestBothOutput(t *testing.T) {
	defer CloseLogFile()

	var console bytes.Buffer
	logFile := filepath.Join(t.TempDir(), "both.log")
	logger, err := NewLogger(config.LoggingConfig{Level: "info", Output: "both", FilePath: logFile}, &console)
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	logger.Warn("twice")
	CloseLogFile()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(console.String(), "twice") || !strings.Contains(string(content), "twice") {
		t.Error("Expected record on console and in file")
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := EnsureRunID(context.Background())
	runID := GetRunID(ctx)
	if runID == "" {
		t.Fatal("Expected run ID to be generated")
	}
	if len(runID) != 36 {
		t.Errorf("Expected a UUID, got %q", runID)
	}

	if GetRunID(EnsureRunID(ctx)) != runID {
		t.Error("EnsureRunID changed existing run ID")
	}

	if GenerateRunID() == GenerateRunID() {
		t.Error("Expected unique run IDs")
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	WithComponent(logger, "exporter").Info("test message")

	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse log JSON: %v", err)
	}
	if logEntry["component"] != "exporter" {
		t.Errorf("Expected component='exporter', got %v", logEntry["component"])
	}
}
