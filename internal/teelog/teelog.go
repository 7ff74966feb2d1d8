// Package teelog builds the structured logger that writes every pipeline
// message to both the console and the debug log file.
package teelog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// DebugLogName is the file every run overwrites inside the output dir.
const DebugLogName = "debug_log.txt"

// Logger bundles the slog handle with the debug file it owns.
type Logger struct {
	*slog.Logger
	file *os.File
}

// New creates the output directory if needed, truncates any previous debug
// log, and returns a logger that streams to stderr and the debug file
// through one handler.
func New(outputDir string, level slog.Level) (*Logger, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir %s: %w", outputDir, err)
	}

	path := filepath.Join(outputDir, DebugLogName)
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create debug log %s: %w", path, err)
	}

	handler := slog.NewTextHandler(io.MultiWriter(os.Stderr, file), &slog.HandlerOptions{Level: level})
	return &Logger{Logger: slog.New(handler), file: file}, nil
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return &Logger{Logger: slog.New(handler)}
}

// DebugWriter returns the debug file sink, or io.Discard when absent.
// Report tables stream here as well as to stdout so the debug log holds
// the complete run transcript.
func (l *Logger) DebugWriter() io.Writer {
	if l.file == nil {
		return io.Discard
	}
	return l.file
}

// Close flushes and closes the debug log file.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
