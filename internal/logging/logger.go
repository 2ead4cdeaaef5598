// Package logging configures the process-wide structured logger.
//
// Diagnostics go to stderr so they never interleave with the interactive
// console on stdout. An optional log file receives the same stream, with
// size-based rotation keeping a fixed number of backups.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Config holds logger configuration.
type Config struct {
	Level      slog.Level
	File       string // path to a log file (empty = stderr only)
	MaxSize    int64  // rotation threshold in bytes (default: 10MB)
	MaxBackups int    // number of rotated files to keep (default: 3)
	JSONFormat bool
	AddSource  bool // annotate records with source file and line
}

// DefaultConfig returns the CLI's logging configuration: info level, debug
// with source locations when verbose. File output stays off unless the
// caller sets one.
func DefaultConfig(verbose bool) Config {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return Config{
		Level:     level,
		AddSource: verbose,
	}
}

// Logger owns the slog handler and the optional file sink behind it.
type Logger struct {
	slog   *slog.Logger
	config Config
	file   *os.File
	mu     sync.Mutex
}

var (
	global *Logger
	once   sync.Once
)

// Initialize builds the global logger once and installs it as the slog
// default, so component loggers created via slog.Default() inherit the
// configured level and sinks. Later calls are no-ops.
func Initialize(config Config) error {
	var initErr error
	once.Do(func() {
		logger, err := NewLogger(config)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize logger: %w", err)
			return
		}
		global = logger
		slog.SetDefault(logger.slog)
	})
	return initErr
}

// NewLogger creates a standalone logger instance.
func NewLogger(config Config) (*Logger, error) {
	if config.MaxSize == 0 {
		config.MaxSize = 10 * 1024 * 1024 // 10MB
	}
	if config.MaxBackups == 0 {
		config.MaxBackups = 3
	}

	logger := &Logger{config: config}

	writers := []io.Writer{os.Stderr}

	if config.File != "" {
		dir := filepath.Dir(config.File)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
		}

		if err := logger.rotateIfNeeded(); err != nil {
			return nil, fmt.Errorf("failed to rotate logs: %w", err)
		}

		file, err := os.OpenFile(config.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", config.File, err)
		}
		logger.file = file
		writers = append(writers, file)
	}

	opts := &slog.HandlerOptions{
		Level:     config.Level,
		AddSource: config.AddSource,
	}

	var handler slog.Handler
	if config.JSONFormat {
		handler = slog.NewJSONHandler(io.MultiWriter(writers...), opts)
	} else {
		handler = slog.NewTextHandler(io.MultiWriter(writers...), opts)
	}

	logger.slog = slog.New(handler)
	return logger, nil
}

// rotateIfNeeded renames the log file aside once it crosses MaxSize,
// shifting older backups up by one and dropping the oldest.
func (l *Logger) rotateIfNeeded() error {
	if l.config.File == "" {
		return nil
	}

	info, err := os.Stat(l.config.File)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat log file: %w", err)
	}

	if info.Size() < l.config.MaxSize {
		return nil
	}

	if l.file != nil {
		l.file.Close()
		l.file = nil
	}

	for i := l.config.MaxBackups - 1; i >= 1; i-- {
		oldPath := fmt.Sprintf("%s.%d", l.config.File, i)
		newPath := fmt.Sprintf("%s.%d", l.config.File, i+1)
		if _, err := os.Stat(oldPath); err == nil {
			os.Rename(oldPath, newPath)
		}
	}

	backupPath := l.config.File + ".1"
	if err := os.Rename(l.config.File, backupPath); err != nil {
		return fmt.Errorf("failed to rotate log file: %w", err)
	}

	return nil
}

// Slog returns the underlying structured logger.
func (l *Logger) Slog() *slog.Logger { return l.slog }

// Close closes the log file if one is open.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// Close closes the global logger's file sink.
func Close() error {
	if global != nil {
		return global.Close()
	}
	return nil
}

// FilePath returns the active log file path, or "" when logging only to
// stderr.
func FilePath() string {
	if global != nil {
		return global.config.File
	}
	return ""
}
