// Package logging wraps the process-wide structured logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

var (
	// Logger is the global logger instance
	Logger = newLogger(os.Stderr, log.InfoLevel)

	// logFile is set when logs are redirected to a file
	logFile *os.File
)

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Level:           level,
	})
}

// ParseLevel maps a config level name to a log level
func ParseLevel(level string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return log.InfoLevel, nil
	case "debug":
		return log.DebugLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	}
	return log.InfoLevel, fmt.Errorf("unknown log level %q", level)
}

// Init points the global logger at w with the given level
func Init(level string, w io.Writer) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	if w == nil {
		w = os.Stderr
	}
	Logger = newLogger(w, lvl)
	return nil
}

// InitFile sends logs to path, creating parent directories. The interactive
// viewer uses this so log lines never land on the terminal.
func InitFile(level, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	if err := Init(level, f); err != nil {
		_ = f.Close()
		return err
	}
	logFile = f
	return nil
}

// DefaultLogPath is ~/.assay/logs/assay-<date>.log
func DefaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	name := fmt.Sprintf("assay-%s.log", time.Now().Format("2006-01-02"))
	return filepath.Join(home, ".assay", "logs", name)
}

// Close releases the log file, if any
func Close() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

// New returns a logger tagged with component
func New(component string) *log.Logger {
	return Logger.WithPrefix(component)
}

// Info logs an info message
func Info(msg string, keyvals ...interface{}) {
	Logger.Info(msg, keyvals...)
}

// Debug logs a debug message
func Debug(msg string, keyvals ...interface{}) {
	Logger.Debug(msg, keyvals...)
}

// Warn logs a warning message
func Warn(msg string, keyvals ...interface{}) {
	Logger.Warn(msg, keyvals...)
}

// Error logs an error message
func Error(msg string, keyvals ...interface{}) {
	Logger.Error(msg, keyvals...)
}
