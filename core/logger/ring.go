package logger

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
)

// RingHandler is a slog.Handler that keeps only the last capacity formatted
// records in memory, for launchctl watch's live dashboard (spec.md §4.H).
// The ring itself never touches disk; Handle formats each record directly
// rather than delegating to another handler.
type RingHandler struct {
	mu    sync.Mutex
	lines []string
	head  int
	count int
}

// NewRingHandler builds a RingHandler of the given capacity, formatting
// records as text. capacity <= 0 is treated as 1.
func NewRingHandler(capacity int) *RingHandler {
	if capacity <= 0 {
		capacity = 1
	}
	return &RingHandler{
		lines: make([]string, capacity),
	}
}

func (h *RingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return true
}

func (h *RingHandler) Handle(ctx context.Context, r slog.Record) error {
	var buf bytes.Buffer
	buf.WriteString(r.Time.Format("15:04:05"))
	buf.WriteByte(' ')
	buf.WriteString(r.Level.String())
	buf.WriteByte(' ')
	buf.WriteString(r.Message)
	r.Attrs(func(a slog.Attr) bool {
		buf.WriteByte(' ')
		buf.WriteString(a.String())
		return true
	})

	h.mu.Lock()
	defer h.mu.Unlock()
	h.lines[h.head] = buf.String()
	h.head = (h.head + 1) % len(h.lines)
	if h.count < len(h.lines) {
		h.count++
	}
	return nil
}

func (h *RingHandler) WithAttrs(attrs []slog.Attr) slog.Handler { return h }

func (h *RingHandler) WithGroup(name string) slog.Handler { return h }

// Lines returns the buffered lines, oldest first.
func (h *RingHandler) Lines() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]string, 0, h.count)
	start := (h.head - h.count + len(h.lines)) % len(h.lines)
	for i := 0; i < h.count; i++ {
		out = append(out, h.lines[(start+i)%len(h.lines)])
	}
	return out
}
