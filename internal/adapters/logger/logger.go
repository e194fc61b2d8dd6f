// Package logger implements a logging adapter using log/slog.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"go.trai.ch/parcel/internal/core/domain"
	"go.trai.ch/parcel/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/natefinch/lumberjack.v2"
)

// statusKey is the record attribute carrying the verb of a status line.
const statusKey = "status"

var _ ports.Logger = (*Logger)(nil)

// Logger implements ports.Logger using log/slog.
// Records go to a pretty console handler and, once configured, to a rotating debug file.
type Logger struct {
	mu      sync.RWMutex
	console *slog.Logger
	file    *slog.Logger
	level   *slog.LevelVar
	closer  io.Closer
}

// New creates a new Logger instance writing to stderr.
func New() ports.Logger {
	level := &slog.LevelVar{}
	level.Set(slog.LevelInfo)
	return &Logger{
		console: slog.New(NewPrettyHandler(os.Stderr, &slog.HandlerOptions{Level: level})),
		level:   level,
	}
}

// SetOutput updates the console destination. If w is nil, os.Stderr is used.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.console = slog.New(NewPrettyHandler(w, &slog.HandlerOptions{Level: l.level}))
}

// SetVerbose shows debug records on the console when enabled.
func (l *Logger) SetVerbose(enable bool) {
	if enable {
		l.level.Set(slog.LevelDebug)
		return
	}
	l.level.Set(slog.LevelInfo)
}

// SetFile mirrors every record to the rotating log file described by settings.
// An empty file name disables the file log.
func (l *Logger) SetFile(settings domain.LogSettings) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closer != nil {
		_ = l.closer.Close()
		l.closer = nil
		l.file = nil
	}
	if settings.File == "" {
		return
	}

	rotator := &lumberjack.Logger{
		Filename:   settings.File,
		MaxSize:    settings.MaxSize,
		MaxBackups: settings.MaxBackups,
		MaxAge:     settings.MaxAge,
		Compress:   settings.Compress,
	}
	l.file = slog.New(slog.NewTextHandler(rotator, &slog.HandlerOptions{
		Level: parseLevel(settings.Level),
	}))
	l.closer = rotator
}

// Close releases the log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closer == nil {
		return nil
	}
	err := l.closer.Close()
	l.closer = nil
	l.file = nil
	return err
}

// Debug logs a diagnostic message.
func (l *Logger) Debug(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.console.Debug(msg)
	if l.file != nil {
		l.file.Debug(msg)
	}
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.console.Info(msg)
	if l.file != nil {
		l.file.Info(msg)
	}
}

// Status logs a progress line led by verb.
func (l *Logger) Status(verb, msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.console.Info(msg, statusKey, verb)
	if l.file != nil {
		l.file.Info(msg, statusKey, verb)
	}
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.console.Warn(msg)
	if l.file != nil {
		l.file.Warn(msg)
	}
}

// Error logs an error with its cause chain and metadata.
func (l *Logger) Error(err error) {
	if err == nil {
		return
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	l.console.Error(formatErrorEntries(collectErrorEntries(err)))
	if l.file != nil {
		zerr.Log(context.Background(), l.file, err)
	}
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelDebug
	}
	return level
}
