package logger

import (
	"log/slog"
	"runtime"
	"time"
)

// Attribute helpers use the empty Attr pattern for nil safety.
// This allows calls like log.Info("msg", logger.Error(err)) without explicit nil checks,
// following the principle of making zero values useful.

// Group creates a group of attributes under a single key.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// ============================================================================
// Error Handling
// ============================================================================

// Error creates an attribute for a single error under the key "error".
// Returns empty Attr for nil errors, enabling safe usage without nil checks.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// ============================================================================
// Performance and Timing
// ============================================================================

// Elapsed calculates and logs the duration since the start time.
func Elapsed(start time.Time) slog.Attr {
	return slog.Duration("elapsed", time.Since(start))
}

// ============================================================================
// Generic Metadata
// ============================================================================

// Count creates a generic counter attribute.
func Count(key string, n int) slog.Attr {
	return slog.Int(key, n)
}

// ============================================================================
// Debugging
// ============================================================================

// Stack captures and returns the current stack trace, for logging alongside
// a recovered handler panic.
func Stack() slog.Attr {
	const size = 64 << 10
	buf := make([]byte, size)
	buf = buf[:runtime.Stack(buf, false)]
	return slog.String("stack", string(buf))
}
