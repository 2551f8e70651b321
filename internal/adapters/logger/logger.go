// Package logger implements a logging adapter using log/slog with a
// charmbracelet/log handler.
package logger

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"go.trai.ch/mach/internal/core/ports"
	"go.trai.ch/zerr"
)

// messager is satisfied by zerr errors, which report their own message
// without the wrapped chain.
type messager interface {
	Message() string
}

// Logger implements ports.Logger using log/slog.
type Logger struct {
	logger *slog.Logger
	out    io.Writer
	level  log.Level
	mu     sync.RWMutex
}

// New creates a new Logger writing to stderr at info level.
func New() ports.Logger {
	return NewWithWriter(os.Stderr, log.InfoLevel)
}

// NewWithWriter creates a Logger writing to w at the given level.
func NewWithWriter(w io.Writer, level log.Level) *Logger {
	return &Logger{
		logger: slog.New(newHandler(w, level)),
		out:    w,
		level:  level,
	}
}

func newHandler(w io.Writer, level log.Level) slog.Handler {
	return log.NewWithOptions(w, log.Options{Level: level})
}

// SetOutput updates the logger's output destination.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = w
	l.logger = slog.New(newHandler(w, l.level))
}

// SetLevel parses a level name (debug, info, warn, error) and applies it.
func (l *Logger) SetLevel(name string) error {
	level, err := log.ParseLevel(name)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "invalid log level"), "level", name)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
	l.logger = slog.New(newHandler(l.out, level))
	return nil
}

// Debug logs a diagnostic message.
func (l *Logger) Debug(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Debug(msg)
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs err with each wrapped cause on its own line.
func (l *Logger) Error(err error) {
	if err == nil {
		return
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Error(FormatChain(err))
}

// FormatChain renders the zerr chain of err as a main message followed by
// its causes. A non-zerr error ends the chain with its full text.
func FormatChain(err error) string {
	var messages []string
	for current := err; current != nil; {
		m, ok := current.(messager)
		if !ok {
			messages = append(messages, current.Error())
			break
		}
		if msg := m.Message(); msg != "" {
			messages = append(messages, msg)
		}
		current = errors.Unwrap(current)
	}

	var b strings.Builder
	for i, msg := range messages {
		lines := strings.Split(msg, "\n")
		switch i {
		case 0:
			b.WriteString(lines[0])
			for _, line := range lines[1:] {
				b.WriteString("\n  " + line)
			}
			continue
		case 1:
			b.WriteString("\n  caused by:")
		}
		b.WriteString("\n    -> " + lines[0])
		for _, line := range lines[1:] {
			b.WriteString("\n       " + line)
		}
	}
	return b.String()
}
