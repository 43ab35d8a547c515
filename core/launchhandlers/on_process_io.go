package launchhandlers

import (
	"context"

	"github.com/launchkit/launch/core/launchctx"
	"github.com/launchkit/launch/core/launchevent"
	"github.com/launchkit/launch/core/process"
)

// ProcessIOMatcher returns a Matcher over the "ProcessIO class" —
// ProcessStdout and ProcessStderr events, polymorphically, as
// original_source/launch/launch/events/process/process_io.go's ProcessIO
// base class does via issubclass — filtered to targetAction. Go has no type
// hierarchy to switch on, so class membership is just the explicit name
// list spec.md §6 groups under "ProcessEvent|ProcessIO".
func ProcessIOMatcher(targetAction *process.Action) launchevent.Matcher {
	names := launchevent.AnyOf(
		launchevent.Named(launchevent.NameProcessStdout),
		launchevent.Named(launchevent.NameProcessStderr),
	)
	return func(e launchevent.Event) bool {
		if !names(e) {
			return false
		}
		switch p := e.Payload.(type) {
		case launchevent.ProcessStdout:
			return p.Action == any(targetAction)
		case launchevent.ProcessStderr:
			return p.Action == any(targetAction)
		default:
			return false
		}
	}
}

// OnProcessIO returns a Handler that dispatches stdout/stderr/stdin text
// from targetAction to whichever of onStdout/onStderr/onStdin is non-nil for
// the event actually received. Any of the three may be nil to ignore that
// stream.
func OnProcessIO(
	targetAction *process.Action,
	onStdout, onStderr func(text []byte) []launchctx.Entity,
	onStdin func(text string) []launchctx.Entity,
) launchevent.Handler {
	matcher := launchevent.AnyOf(
		ProcessIOMatcher(targetAction),
		func(e launchevent.Event) bool {
			if e.Name != launchevent.NameProcessStdin {
				return false
			}
			stdin, ok := e.Payload.(launchevent.ProcessStdin)
			return ok && stdin.Action == any(targetAction)
		},
	)

	return launchevent.Handler{
		Name:    "OnProcessIO(" + targetAction.Label() + ")",
		Matcher: matcher,
		Handle: func(_ context.Context, e launchevent.Event) (any, error) {
			switch p := e.Payload.(type) {
			case launchevent.ProcessStdout:
				if onStdout == nil {
					return nil, nil
				}
				return onStdout(p.Text), nil
			case launchevent.ProcessStderr:
				if onStderr == nil {
					return nil, nil
				}
				return onStderr(p.Text), nil
			case launchevent.ProcessStdin:
				if onStdin == nil {
					return nil, nil
				}
				return onStdin(p.Text), nil
			default:
				return nil, nil
			}
		},
	}
}
