package process

// Numeric signal values used by the SIGINT->SIGTERM->SIGKILL escalation.
// Kept as plain ints (matching spec.md §3's SignalProcess{signalNumber})
// rather than syscall.Signal so this file has no platform dependency; the
// platform-specific signal_unix.go/signal_other.go files turn them into OS
// signal delivery.
const (
	sigINT  = 2
	sigTERM = 15
	sigKILL = 9
)
