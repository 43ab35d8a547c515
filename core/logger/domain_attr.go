package logger

import (
	"log/slog"
	"strings"
)

// Process creates an attribute identifying a ProcessAction by its
// user-facing name (process.WithName, or the pointer-derived label
// process.Action.Label falls back to when no name was given).
func Process(name string) slog.Attr {
	return slog.String("process", name)
}

// EventName creates an attribute for a dispatched event's dotted name
// (spec.md §6's stable name namespace).
func EventName(name string) slog.Attr {
	return slog.String("event_name", name)
}

// PID creates an attribute for an OS process ID.
func PID(pid int) slog.Attr {
	return slog.Int("pid", pid)
}

// ReturnCode creates an attribute for a child's exit code, or the negative
// signal number it was killed by (core/process's exitCode convention).
func ReturnCode(code int) slog.Attr {
	return slog.Int("return_code", code)
}

// Signal creates an attribute for a numeric signal being delivered to a
// child (SIGINT=2, SIGTERM=15, SIGKILL=9 in this module's escalation).
func Signal(signalNumber int) slog.Attr {
	return slog.Int("signal", signalNumber)
}

// Cmd creates an attribute for a final, substitution-expanded argv.
func Cmd(cmd []string) slog.Attr {
	return slog.String("cmd", strings.Join(cmd, " "))
}

// HandlerName creates an attribute for a registered launchevent.Handler's
// optional label.
func HandlerName(name string) slog.Attr {
	if name == "" {
		return slog.Attr{}
	}
	return slog.String("handler", name)
}

// QueueDepth creates an attribute for the event queue's current length.
func QueueDepth(n int) slog.Attr {
	return slog.Int("queue_depth", n)
}
