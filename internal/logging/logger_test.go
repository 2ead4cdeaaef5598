package logging

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLoggerWritesToFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "aicmt.log")

	logger, err := NewLogger(Config{Level: slog.LevelInfo, File: logFile})
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	logger.Slog().Info("scan complete", "files", 3)
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "scan complete") {
		t.Errorf("Log file missing message, got: %q", data)
	}
	if !strings.Contains(string(data), "files=3") {
		t.Errorf("Log file missing attribute, got: %q", data)
	}
}

func TestNewLoggerLevelGating(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "aicmt.log")

	logger, err := NewLogger(Config{Level: slog.LevelWarn, File: logFile})
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	logger.Slog().Info("below threshold")
	logger.Slog().Warn("at threshold")
	logger.Close()

	data, _ := os.ReadFile(logFile)
	if strings.Contains(string(data), "below threshold") {
		t.Error("Info record written despite Warn level")
	}
	if !strings.Contains(string(data), "at threshold") {
		t.Error("Warn record missing")
	}
}

func TestNewLoggerJSONFormat(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "aicmt.log")

	logger, err := NewLogger(Config{Level: slog.LevelInfo, File: logFile, JSONFormat: true})
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	logger.Slog().Info("structured", "request_id", "abc")
	logger.Close()

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	var record map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(data))), &record); err != nil {
		t.Fatalf("Log line is not JSON: %v\n%s", err, data)
	}
	if record["msg"] != "structured" {
		t.Errorf("msg = %v, want structured", record["msg"])
	}
	if record["request_id"] != "abc" {
		t.Errorf("request_id = %v, want abc", record["request_id"])
	}
}

func TestNewLoggerAppliesDefaults(t *testing.T) {
	logger, err := NewLogger(Config{})
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	if logger.config.MaxSize != 10*1024*1024 {
		t.Errorf("MaxSize = %d, want 10MB", logger.config.MaxSize)
	}
	if logger.config.MaxBackups != 3 {
		t.Errorf("MaxBackups = %d, want 3", logger.config.MaxBackups)
	}
}

func TestRotation(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "aicmt.log")

	// Existing file already over the threshold must be moved aside.
	if err := os.WriteFile(logFile, []byte("old contents\n"), 0o644); err != nil {
		t.Fatalf("Failed to seed log file: %v", err)
	}

	logger, err := NewLogger(Config{Level: slog.LevelInfo, File: logFile, MaxSize: 4})
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	logger.Slog().Info("fresh record")
	logger.Close()

	backup, err := os.ReadFile(logFile + ".1")
	if err != nil {
		t.Fatalf("Backup file missing: %v", err)
	}
	if string(backup) != "old contents\n" {
		t.Errorf("Backup contents = %q", backup)
	}

	current, _ := os.ReadFile(logFile)
	if strings.Contains(string(current), "old contents") {
		t.Error("Current log file still holds pre-rotation contents")
	}
	if !strings.Contains(string(current), "fresh record") {
		t.Error("Current log file missing new record")
	}
}

func TestRotationShiftsBackups(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "aicmt.log")

	os.WriteFile(logFile, []byte("current\n"), 0o644)
	os.WriteFile(logFile+".1", []byte("backup one\n"), 0o644)
	os.WriteFile(logFile+".2", []byte("backup two\n"), 0o644)

	logger, err := NewLogger(Config{Level: slog.LevelInfo, File: logFile, MaxSize: 4, MaxBackups: 3})
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	logger.Close()

	for suffix, want := range map[string]string{
		".1": "current\n",
		".2": "backup one\n",
		".3": "backup two\n",
	} {
		data, err := os.ReadFile(logFile + suffix)
		if err != nil {
			t.Fatalf("Missing rotated file %s: %v", suffix, err)
		}
		if string(data) != want {
			t.Errorf("%s contents = %q, want %q", suffix, data, want)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	quiet := DefaultConfig(false)
	if quiet.Level != slog.LevelInfo {
		t.Errorf("Level = %v, want info", quiet.Level)
	}
	if quiet.AddSource {
		t.Error("AddSource should be off without verbose")
	}

	verbose := DefaultConfig(true)
	if verbose.Level != slog.LevelDebug {
		t.Errorf("Level = %v, want debug", verbose.Level)
	}
	if !verbose.AddSource {
		t.Error("AddSource should be on with verbose")
	}
}
