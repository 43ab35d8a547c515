package process

import "errors"

var (
	// ErrAlreadyExecuted is a construction/programmer error: ProcessAction
	// is not idempotent, visiting it twice is a usage bug, not a runtime
	// event per spec.md §7.1.
	ErrAlreadyExecuted = errors.New("process: action already executed")

	// ErrEmptyCmd is a construction error: a ProcessAction needs at least
	// one argv template element.
	ErrEmptyCmd = errors.New("process: cmd template must have at least one element")
)
