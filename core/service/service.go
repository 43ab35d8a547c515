// Package service provides LaunchService, the top-level driver described in
// spec.md §4.E: it owns a *launchctx.Context and runs the single-threaded
// dispatch loop until a Shutdown event is processed, then tears down any
// still-live child processes before returning.
//
// Grounded on core/queue/service.go's configure-then-run lifecycle (atomic
// state, Ready() channel, Run blocks until done) adapted from a
// multi-component errgroup runner down to the single dispatch loop this
// domain actually has.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/launchkit/launch/core/launchctx"
	"github.com/launchkit/launch/core/launchevent"
)

// State mirrors core/queue/service.go's ServiceState, trimmed to the three
// phases LaunchService actually has.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

var (
	// ErrAlreadyRunning is returned by Run when called while another Run call
	// is already in flight, per spec.md §4.E's "re-entry from multiple
	// threads fails with an explicit error."
	ErrAlreadyRunning = errors.New("service: already running")
)

// LaunchService is the "LaunchService" entity of spec.md §4.E.
type LaunchService struct {
	lc *launchctx.Context

	state    atomic.Int32
	ready    chan struct{}
	stopOnce sync.Once

	shutdownTok *launchevent.Handler
}

// New constructs a LaunchService driving lc. lc should not be shared between
// two LaunchService instances: ownership of its process table and dispatch
// loop is exclusive once Run starts.
func New(lc *launchctx.Context) *LaunchService {
	return &LaunchService{
		lc:    lc,
		ready: make(chan struct{}),
	}
}

// Context returns the underlying LaunchContext, e.g. for tests that want to
// emit events directly.
func (s *LaunchService) Context() *launchctx.Context {
	return s.lc
}

// IncludeLaunchDescription queues desc for visiting; it is safe to call from
// any goroutine before or during Run (spec.md §4.E).
func (s *LaunchService) IncludeLaunchDescription(desc launchctx.Entity) {
	s.lc.EmitEventSync(launchevent.NameIncludeLaunchDescription, launchevent.IncludeLaunchDescription{Description: desc})
}

// Ready returns a channel closed once Run's dispatch loop has registered its
// internal handlers and is about to start consuming events.
func (s *LaunchService) Ready() <-chan struct{} {
	return s.ready
}

// State reports the service's current lifecycle phase.
func (s *LaunchService) State() State {
	return State(s.state.Load())
}

// Run drives ProcessOneEvent in a loop until a Shutdown event is processed,
// or the queue drains with no live children left to ever enqueue another
// event, per spec.md §4.E. It returns 0 on clean shutdown, 1 if any
// dispatched handler raised.
func (s *LaunchService) Run(ctx context.Context) (int, error) {
	if !s.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return 1, ErrAlreadyRunning
	}
	defer s.state.Store(int32(StateStopped))

	running := true
	failed := false

	s.shutdownTok = s.lc.RegisterEventHandler(launchevent.Handler{
		Name:    "LaunchService.onShutdown",
		Matcher: launchevent.Named(launchevent.NameShutdown),
		Handle: func(_ context.Context, e launchevent.Event) (any, error) {
			running = false
			if sd, ok := e.Payload.(launchevent.Shutdown); ok {
				if sd.Reason != "" {
					s.lc.Logger.Info("shutdown requested", "reason", sd.Reason)
				}
				if sd.Reason == "handler raised" {
					failed = true
				}
			}
			return nil, nil
		},
	})
	inclTok := s.lc.RegisterEventHandler(launchevent.Handler{
		Name:    "LaunchService.onInclude",
		Matcher: launchevent.Named(launchevent.NameIncludeLaunchDescription),
		Handle: func(ctx context.Context, e launchevent.Event) (any, error) {
			incl, ok := e.Payload.(launchevent.IncludeLaunchDescription)
			if !ok || incl.Description == nil {
				return nil, nil
			}
			entity, ok := incl.Description.(launchctx.Entity)
			if !ok {
				return nil, fmt.Errorf("service: IncludeLaunchDescription payload is %T, want launchctx.Entity", incl.Description)
			}
			return []launchctx.Entity{entity}, nil
		},
	})
	defer func() {
		s.lc.UnregisterEventHandler(s.shutdownTok)
		s.lc.UnregisterEventHandler(inclTok)
	}()

	close(s.ready)

	for running {
		more, err := s.lc.ProcessOneEvent(ctx)
		if err != nil {
			s.teardownProcesses(context.Background())
			return 1, err
		}
		if !more {
			break
		}
	}
	s.teardownProcesses(context.Background())

	if failed {
		return 1, errors.New("service: stopped due to handler failure")
	}
	return 0, nil
}

// Shutdown requests the dispatch loop stop; safe to call from any goroutine,
// any number of times.
func (s *LaunchService) Shutdown() {
	s.stopOnce.Do(func() {
		s.lc.EmitEventSync(launchevent.NameShutdown, launchevent.Shutdown{Reason: "Shutdown() called"})
	})
}

// teardownProcesses best-effort terminates every still-live child
// (SIGINT -> SIGTERM -> SIGKILL escalation, spec.md §4.E), then keeps
// dispatching until every child has actually exited and its ProcessExited
// has been delivered, per spec.md §8's "every process is terminated and
// yielded its ProcessExited" before Run returns.
func (s *LaunchService) teardownProcesses(ctx context.Context) {
	live := s.lc.LiveProcesses()
	for action := range live {
		s.lc.EmitEventSync(launchevent.NameShutdownProcess, launchevent.ShutdownProcess{Action: action})
	}

	// ShutdownProcess only asks a child to exit; ProcessOneEvent keeps
	// blocking (in Take) for as long as any process is still registered, so
	// this drains every resulting ProcessExited instead of stopping the
	// moment the ShutdownProcess events themselves are dispatched.
	for s.lc.QueueLen() > 0 || len(s.lc.LiveProcesses()) > 0 {
		more, err := s.lc.ProcessOneEvent(ctx)
		if err != nil || !more {
			break
		}
	}
}
