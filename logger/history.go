package logger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// DefaultHistorySize is used when a history is created without a capacity
const DefaultHistorySize = 200

// History keeps the most recent formatted log lines for display
type History struct {
	mu       sync.Mutex
	capacity int
	lines    []string
}

// NewHistory creates a history holding at most capacity lines
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistorySize
	}
	return &History{capacity: capacity}
}

// Append adds a line, dropping the oldest when full
func (h *History) Append(line string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.lines) == h.capacity {
		copy(h.lines, h.lines[1:])
		h.lines = h.lines[:h.capacity-1]
	}
	h.lines = append(h.lines, line)
}

// Lines returns up to the n most recent lines, oldest first. n <= 0 returns all of them.
func (h *History) Lines(n int) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	start := 0
	if n > 0 && n < len(h.lines) {
		start = len(h.lines) - n
	}
	return append([]string(nil), h.lines[start:]...)
}

// Len returns the number of stored lines
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.lines)
}

// Handler returns a slog handler appending records at or above level to h
func (h *History) Handler(level slog.Leveler) slog.Handler {
	return &historyHandler{history: h, level: level}
}

// historyHandler renders records as "LEVEL [component] message key=value"
type historyHandler struct {
	history   *History
	level     slog.Leveler
	component string
	attrs     []string
	group     string
}

func (h *historyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *historyHandler) Handle(_ context.Context, r slog.Record) error {
	component := h.component
	attrs := append([]string(nil), h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		if h.group == "" && a.Key == "component" {
			component = a.Value.String()
			return true
		}
		attrs = append(attrs, h.format(a))
		return true
	})

	var b strings.Builder
	b.WriteString(r.Time.Format("15:04:05"))
	b.WriteByte(' ')
	b.WriteString(fmt.Sprintf("%-5s", r.Level.String()))
	if component != "" {
		b.WriteString(" [" + component + "]")
	}
	b.WriteByte(' ')
	b.WriteString(r.Message)
	for _, a := range attrs {
		b.WriteByte(' ')
		b.WriteString(a)
	}

	h.history.Append(b.String())
	return nil
}

func (h *historyHandler) format(a slog.Attr) string {
	key := a.Key
	if h.group != "" {
		key = h.group + "." + key
	}
	value := a.Value.Resolve().String()
	if strings.ContainsAny(value, " \t\"") {
		value = fmt.Sprintf("%q", value)
	}
	return key + "=" + value
}

func (h *historyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append([]string(nil), h.attrs...)
	for _, a := range attrs {
		if h.group == "" && a.Key == "component" {
			next.component = a.Value.String()
			continue
		}
		next.attrs = append(next.attrs, h.format(a))
	}
	return &next
}

func (h *historyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	if h.group != "" {
		next.group = h.group + "." + name
	} else {
		next.group = name
	}
	return &next
}
