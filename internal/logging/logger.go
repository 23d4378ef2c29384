package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/kingrea/segmenter/internal/config"
)

// Logger appends structured lines to .segmenter/logs/segmenter.log so users
// can inspect failures after the form has closed.
type Logger struct {
	file *os.File
	log  *slog.Logger
}

// New creates (or reuses) the log file for the current project directory.
func New(projectDir string) (*Logger, error) {
	logDir := filepath.Join(projectDir, config.SegmenterDir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}
	path := filepath.Join(logDir, "segmenter.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}
	return &Logger{file: f, log: newSlog(f)}, nil
}

// NewWriter logs to w instead of a project file. The caller owns w.
func NewWriter(w io.Writer) *Logger {
	return &Logger{log: newSlog(w)}
}

func newSlog(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// Close releases the file handle.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Slog exposes the underlying structured logger. Nil-safe: a nil Logger
// yields a logger that discards everything.
func (l *Logger) Slog() *slog.Logger {
	if l == nil || l.log == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return l.log
}

// With returns a logger that adds attrs to every line.
func (l *Logger) With(args ...any) *Logger {
	if l == nil || l.log == nil {
		return l
	}
	return &Logger{log: l.log.With(args...)}
}

// Printf writes a single formatted line at info level.
func (l *Logger) Printf(format string, args ...any) {
	if l == nil || l.log == nil {
		return
	}
	l.log.Info(strings.TrimRight(fmt.Sprintf(format, args...), "\n"))
}

func (l *Logger) Info(msg string, args ...any) {
	if l == nil || l.log == nil {
		return
	}
	l.log.Info(msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	if l == nil || l.log == nil {
		return
	}
	l.log.Warn(msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	if l == nil || l.log == nil {
		return
	}
	l.log.Error(msg, args...)
}
