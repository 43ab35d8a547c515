package launchctx

import "errors"

var (
	// ErrQueueClosed is returned by Push once the event queue has been
	// closed. Take does not return it: on a closed, drained queue it reports
	// ok=false with a nil error.
	ErrQueueClosed = errors.New("launchctx: event queue closed")

	// ErrHandlerPanicked marks a dispatch aborted because a handler raised
	// (panicked); per spec.md §4.B this triggers a Shutdown event.
	ErrHandlerPanicked = errors.New("launchctx: handler raised")
)
