// Package logger implements a logging adapter using log/slog.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/jjmerchante/cauldron-pool-scheduler/internal/core/ports"
	"go.trai.ch/zerr"
)

// Logger implements ports.Logger using log/slog.
type Logger struct {
	logger   *slog.Logger
	mu       sync.RWMutex
	level    *slog.LevelVar
	jsonMode bool
	output   io.Writer
}

// New creates a new Logger instance.
func New() ports.Logger {
	level := &slog.LevelVar{}
	level.Set(slog.LevelInfo)
	handler := NewPrettyHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		logger: slog.New(handler),
		level:  level,
		output: os.Stderr,
	}
}

// rebuild swaps the underlying handler, preserving output and level.
// Callers must hold l.mu.
func (l *Logger) rebuild() {
	w := l.output
	if w == nil {
		w = os.Stderr
	}

	var handler slog.Handler
	if l.jsonMode {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: l.level,
		})
	} else {
		handler = NewPrettyHandler(w, &slog.HandlerOptions{
			Level: l.level,
		})
	}
	l.logger = slog.New(handler)
}

// SetOutput updates the logger's output destination.
// This is thread-safe and updates the underlying slog handler.
// It preserves the current JSON mode setting.
// If w is nil, os.Stderr is used as the default.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.rebuild()
}

// SetJSON switches between JSON and pretty logging.
// When enabled, logs are output as JSON. When disabled, pretty-printed logs are used.
// The output destination is preserved from SetOutput calls.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.jsonMode = enable
	l.rebuild()
}

// SetDebug toggles debug level messages on and off.
func (l *Logger) SetDebug(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if enable {
		l.level.Set(slog.LevelDebug)
	} else {
		l.level.Set(slog.LevelInfo)
	}
}

// Debug logs a debug message.
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

// Error logs an error message.
func (l *Logger) Error(err error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if err == nil {
		return
	}

	if l.jsonMode {
		l.logger.Error("operation failed", "error", err)
		return
	}

	msg := formatErrorEntries(collectErrorEntries(err))
	l.logger.Error(msg)
}

// ErrorEntry is one link of an error chain prepared for rendering.
type ErrorEntry struct {
	// Message is the link's own message without the rest of the chain.
	Message string
	// Metadata holds the key-value pairs attached to this link. Nil for
	// errors that cannot carry metadata.
	Metadata map[string]any
}

// collectErrorEntries traverses the error chain and collects one entry per
// link, outermost first. zerr errors contribute their raw message and
// metadata; a standard error ends the traversal with its full message.
func collectErrorEntries(err error) []ErrorEntry {
	var entries []ErrorEntry
	current := err

	for current != nil {
		if zErr, ok := current.(*zerr.Error); ok {
			entries = append(entries, ErrorEntry{
				Message:  zErr.Message(),
				Metadata: zErr.Metadata(),
			})
			current = errors.Unwrap(current)
		} else {
			entries = append(entries, ErrorEntry{Message: current.Error()})
			break
		}
	}

	return entries
}

// formatErrorEntries renders collected entries hierarchically, with the
// outermost error first and its causes indented below. Metadata is listed
// under its entry, sorted by key.
func formatErrorEntries(entries []ErrorEntry) string {
	var formattedLines []string

	for i, entry := range entries {
		lines := strings.Split(entry.Message, "\n")

		var msgIndent, metaIndent string
		if i == 0 {
			// Main error
			formattedLines = append(formattedLines, "Error: "+lines[0])
			msgIndent, metaIndent = "       ", "       "
		} else {
			if i == 1 {
				// Add "Caused by:" header before first cause
				formattedLines = append(formattedLines, "", "  Caused by:")
			}
			// Add cause with arrow
			formattedLines = append(formattedLines, "    → "+lines[0])
			msgIndent, metaIndent = "      ", "      "
		}

		// Indent any continuation lines to align with the first
		for _, line := range lines[1:] {
			formattedLines = append(formattedLines, msgIndent+line)
		}

		keys := make([]string, 0, len(entry.Metadata))
		for k := range entry.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			formattedLines = append(formattedLines, fmt.Sprintf("%s%s: %v", metaIndent, k, entry.Metadata[k]))
		}
	}

	return strings.Join(formattedLines, "\n")
}
