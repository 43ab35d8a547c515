// Package launchhandlers provides convenience constructors for the common
// per-process event handler shapes (spec.md §9 design notes), grounded on
// original_source/launch/launch/event_handlers/on_process_exit.go and
// on_process_io.go: building the raw launchevent.Handler by hand (matcher +
// type-switch on the payload) every time a caller wants "run this when my
// process exits" is exactly the boilerplate these two constructors exist to
// remove.
package launchhandlers

import (
	"context"

	"github.com/launchkit/launch/core/launchctx"
	"github.com/launchkit/launch/core/launchevent"
	"github.com/launchkit/launch/core/process"
)

// OnProcessExit returns a Handler that matches only ProcessExited events
// raised by targetAction, invoking onExit with the child's return code.
// onExit may return entities to visit (e.g. restart logic, a LogInfo node);
// a nil onExit is a plain no-op handler, useful for tests that only need a
// registration that exists.
func OnProcessExit(targetAction *process.Action, onExit func(returnCode int) []launchctx.Entity) launchevent.Handler {
	matchesTarget := func(e launchevent.Event) bool {
		if e.Name != launchevent.NameProcessExited {
			return false
		}
		exited, ok := e.Payload.(launchevent.ProcessExited)
		return ok && exited.Action == any(targetAction)
	}

	return launchevent.Handler{
		Name:    "OnProcessExit(" + targetAction.Label() + ")",
		Matcher: matchesTarget,
		Handle: func(_ context.Context, e launchevent.Event) (any, error) {
			if onExit == nil {
				return nil, nil
			}
			exited := e.Payload.(launchevent.ProcessExited)
			return onExit(exited.ReturnCode), nil
		},
	}
}
