package logging

// Package logging writes structured audit records to a local log file and
// stdout, and mirrors them to a Telegram log channel when one is configured.
// All sinks are fire-and-forget: a failing mirror or full disk never affects
// the job that produced the record.

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Level names used in mirrored messages
const (
	LevelInfo    = "INFO"
	LevelWarning = "WARNING"
	LevelError   = "ERROR"
	LevelSuccess = "SUCCESS"
)

// Notifier mirrors a record to an external sink. Implementations must
// swallow their own failures.
type Notifier func(level, text string)

// Logger is the process audit sink
type Logger struct {
	slog *slog.Logger
	file *os.File

	mu     sync.Mutex
	notify Notifier
}

// New creates a logger appending to path alongside stdout. An unwritable
// file degrades to stdout only.
func New(path string) *Logger {
	var out io.Writer = os.Stdout

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err == nil {
		out = io.MultiWriter(os.Stdout, file)
	}

	return &Logger{
		slog: slog.New(slog.NewTextHandler(out, nil)),
		file: file,
	}
}

// SetNotifier installs the external mirror, usually the Telegram log channel
func (l *Logger) SetNotifier(n Notifier) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.notify = n
}

// Info records an informational event
func (l *Logger) Info(text string, args ...any) {
	l.slog.Info(text, args...)
	l.mirror(LevelInfo, text)
}

// Warn records an expected but noteworthy event, like a user cancellation
func (l *Logger) Warn(text string, args ...any) {
	l.slog.Warn(text, args...)
	l.mirror(LevelWarning, text)
}

// Error records a failure with detail; the user sees only a short message
func (l *Logger) Error(text string, args ...any) {
	l.slog.Error(text, args...)
	l.mirror(LevelError, text)
}

// Success records a completed delivery
func (l *Logger) Success(text string, args ...any) {
	l.slog.Info(text, append(args, "outcome", "success")...)
	l.mirror(LevelSuccess, text)
}

// Close releases the log file
func (l *Logger) Close() {
	if l.file != nil {
		_ = l.file.Close()
	}
}

// mirror forwards the record to the notifier without ever blocking the
// caller on network I/O
func (l *Logger) mirror(level, text string) {
	l.mu.Lock()
	notify := l.notify
	l.mu.Unlock()

	if notify == nil {
		return
	}
	go func() {
		defer func() {
			// A panicking mirror must not take a job down with it.
			_ = recover()
		}()
		notify(level, text)
	}()
}

// Errorf is a convenience for the common "step: error" pattern
func (l *Logger) Errorf(step string, err error, args ...any) {
	l.Error(fmt.Sprintf("%s: %v", step, err), args...)
}
