package launchctx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/trace"

	"github.com/launchkit/launch/core/launchevent"
	"github.com/launchkit/launch/core/logger"
)

// ProcessRecord is the live-child bookkeeping a Context keeps from just
// before ProcessStarted is emitted until just after ProcessExited is
// emitted, per spec.md §3's LaunchContext invariant.
type ProcessRecord struct {
	PID         int
	StdinWriter io.Writer
	Done        <-chan struct{}
	ReturnCode  *int
}

// MetricsSink receives observability callbacks from dispatch; core/metrics
// implements this against Prometheus collectors. Declared here (rather than
// imported from core/metrics) to keep launchctx dependency-free of the
// metrics package's registration machinery.
type MetricsSink interface {
	EventProcessed()
	EventFailed()
	ProcessStarted()
	ProcessExited(returnCode int)
	// ProcessFailed records a child that never reached the running state
	// (substitution expansion, pipe setup, or spawn itself failed). Unlike
	// ProcessExited, it must not be paired with a prior ProcessStarted.
	ProcessFailed()
}

type noopMetrics struct{}

func (noopMetrics) EventProcessed()   {}
func (noopMetrics) EventFailed()      {}
func (noopMetrics) ProcessStarted()   {}
func (noopMetrics) ProcessExited(int) {}
func (noopMetrics) ProcessFailed()    {}

// Context is the process-wide runtime state described in spec.md §3: the
// event queue, the handler registry (sync and async), the substitution
// resolver hook, and the process table. It is the "LaunchContext" of the
// spec; the Go package is named launchctx to avoid colliding with the
// standard library's context package.
type Context struct {
	queue *equeue

	handlers      handlerRegistry
	asyncHandlers handlerRegistry

	procMu    sync.Mutex
	processes map[any]*ProcessRecord

	configMu sync.Mutex
	config   map[string]string // LaunchConfiguration key/value store

	Logger  *slog.Logger
	Tracer  trace.Tracer
	Metrics MetricsSink
}

// Option configures a Context at construction.
type Option func(*Context)

// WithQueueCapacity bounds the event queue so EmitEvent applies real
// backpressure once it fills. The default, 0, is unbounded, at which point
// EmitEvent and EmitEventSync are behaviorally identical (spec.md §9).
func WithQueueCapacity(n int) Option {
	return func(c *Context) { c.queue = newEQueue(n) }
}

// WithLogger overrides the default no-op logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Context) { c.Logger = l }
}

// WithTracer overrides the default no-op tracer.
func WithTracer(t trace.Tracer) Option {
	return func(c *Context) { c.Tracer = t }
}

// WithMetrics overrides the default no-op metrics sink.
func WithMetrics(m MetricsSink) Option {
	return func(c *Context) { c.Metrics = m }
}

// New constructs a Context ready to accept registrations and events.
func New(opts ...Option) *Context {
	c := &Context{
		queue:     newEQueue(0),
		processes: make(map[any]*ProcessRecord),
		config:    make(map[string]string),
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Tracer:    trace.NewNoopTracerProvider().Tracer("launchctx"),
		Metrics:   noopMetrics{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.queue.setLiveHook(c.liveProcessCount)
	return c
}

// RegisterEventHandler prepends h to the synchronous handler stack. No
// deduplication is performed; registering the same Handler value twice
// means it dispatches twice. The returned token is passed to
// UnregisterEventHandler to remove exactly this registration.
func (c *Context) RegisterEventHandler(h launchevent.Handler) *launchevent.Handler {
	h.Async = false
	return c.handlers.Register(h)
}

// RegisterAsyncEventHandler is RegisterEventHandler for handlers that may
// suspend; they are tracked separately so the dispatch loop never blocks on
// them.
func (c *Context) RegisterAsyncEventHandler(h launchevent.Handler) *launchevent.Handler {
	h.Async = true
	return c.asyncHandlers.Register(h)
}

// UnregisterEventHandler removes the registration identified by tok,
// wherever it was registered (sync or async). No-op if tok is absent.
func (c *Context) UnregisterEventHandler(tok *launchevent.Handler) {
	c.handlers.Unregister(tok)
	c.asyncHandlers.Unregister(tok)
}

// EmitEventSync is a non-blocking enqueue, safe to call from any goroutine
// (including I/O pump callbacks, per spec.md §4.D.3).
func (c *Context) EmitEventSync(name string, payload any) {
	c.queue.PushSync(launchevent.New(name, payload))
}

// EmitEvent is a suspending enqueue that applies backpressure once the
// queue's configured capacity is reached.
func (c *Context) EmitEvent(ctx context.Context, name string, payload any) error {
	return c.queue.Push(ctx, launchevent.New(name, payload))
}

// PerformSubstitution delegates to sub.Resolve(ctx, c); it exists so
// Entities and Actions never need to know whether they're holding onto a
// literal, an environment lookup, or something more exotic.
func (c *Context) PerformSubstitution(ctx context.Context, sub Substitution) (string, error) {
	return sub.Resolve(ctx, c)
}

// ResolveAll concatenates the resolution of every substitution in seq,
// implementing spec.md §4.D.2's expansion rule: one argv entry (or one
// cwd/env string) is the concatenation of all its substitutions' resolved
// strings.
func (c *Context) ResolveAll(ctx context.Context, seq []Substitution) (string, error) {
	var out string
	for _, s := range seq {
		v, err := c.PerformSubstitution(ctx, s)
		if err != nil {
			return "", err
		}
		out += v
	}
	return out, nil
}

// SetLaunchConfiguration stores a named value in the context-wide
// configuration map, the Go analogue of the original launch_context.py's
// `_launch_configurations`. See core/launchsub.LaunchConfiguration for the
// substitution that reads these back.
func (c *Context) SetLaunchConfiguration(name, value string) {
	c.configMu.Lock()
	defer c.configMu.Unlock()
	c.config[name] = value
}

// LaunchConfiguration returns a previously stored configuration value.
func (c *Context) LaunchConfiguration(name string) (string, bool) {
	c.configMu.Lock()
	defer c.configMu.Unlock()
	v, ok := c.config[name]
	return v, ok
}

// RegisterProcess inserts a live-child record, keyed by the ProcessAction
// identity. Called just before ProcessStarted is emitted.
func (c *Context) RegisterProcess(action any, rec *ProcessRecord) {
	c.procMu.Lock()
	defer c.procMu.Unlock()
	c.processes[action] = rec
}

// UnregisterProcess removes a live-child record. Called just after
// ProcessExited is emitted.
func (c *Context) UnregisterProcess(action any) {
	c.procMu.Lock()
	delete(c.processes, action)
	c.procMu.Unlock()

	// Removing the last live process can turn an already-blocked Take into
	// a natural drain; nothing else would wake it up on its own.
	c.queue.wake()
}

// liveProcessCount reports how many children are currently registered.
func (c *Context) liveProcessCount() int {
	c.procMu.Lock()
	defer c.procMu.Unlock()
	return len(c.processes)
}

// LiveProcesses returns a snapshot of the process table, keyed by
// ProcessAction identity.
func (c *Context) LiveProcesses() map[any]*ProcessRecord {
	c.procMu.Lock()
	defer c.procMu.Unlock()
	out := make(map[any]*ProcessRecord, len(c.processes))
	for k, v := range c.processes {
		out[k] = v
	}
	return out
}

// QueueLen reports the number of events currently pending dispatch; used by
// LaunchService to decide when the loop can drain.
func (c *Context) QueueLen() int {
	return c.queue.Len()
}

// ProcessOneEvent dequeues one event and dispatches it to every matching
// handler, in current registration order (front-first), visiting each
// handler's returned entities immediately after it returns and before the
// next handler runs, per spec.md §4.B/§4.C. It returns (false, nil) once the
// queue is closed and drained, or once the queue is empty with no live
// process left to ever enqueue another event (spec.md §4.E's natural
// drain), telling the caller the loop may stop.
func (c *Context) ProcessOneEvent(ctx context.Context) (bool, error) {
	ev, ok, err := c.queue.Take(ctx)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	dctx, span := c.Tracer.Start(ctx, "launchctx.dispatch:"+ev.Name)
	defer span.End()

	c.Logger.Debug("dispatching event", logger.EventName(ev.Name), logger.QueueDepth(c.queue.Len()))

	if err := c.dispatch(dctx, ev); err != nil {
		c.Metrics.EventFailed()
		c.Logger.ErrorContext(dctx, "handler raised, requesting shutdown",
			logger.EventName(ev.Name), logger.Error(err))
		c.EmitEventSync(launchevent.NameShutdown, launchevent.Shutdown{Reason: "handler raised"})
		return true, nil
	}
	c.Metrics.EventProcessed()
	return true, nil
}

func (c *Context) dispatch(ctx context.Context, ev launchevent.Event) (err error) {
	snapshot := c.handlers.Snapshot()
	for _, h := range snapshot {
		if !h.Matcher(ev) {
			continue
		}
		entities, herr := c.invokeHandler(ctx, h, ev)
		if herr != nil {
			return herr
		}
		if err := c.visitAll(ctx, entities); err != nil {
			return err
		}
	}

	// Async handlers never block dispatch; their entities are visited on
	// their own goroutine once they complete.
	for _, h := range c.asyncHandlers.Snapshot() {
		if !h.Matcher(ev) {
			continue
		}
		h := h
		go func() {
			entities, herr := c.invokeHandler(context.Background(), h, ev)
			if herr != nil {
				c.Logger.Error("async handler raised, requesting shutdown",
					logger.EventName(ev.Name), logger.HandlerName(h.Name), logger.Error(herr))
				c.EmitEventSync(launchevent.NameShutdown, launchevent.Shutdown{Reason: "handler raised"})
				return
			}
			if verr := c.visitAll(context.Background(), entities); verr != nil {
				c.Logger.Error("async handler entity visit failed",
					logger.EventName(ev.Name), logger.HandlerName(h.Name), logger.Error(verr))
			}
		}()
	}

	return nil
}

func (c *Context) invokeHandler(ctx context.Context, h *launchevent.Handler, ev launchevent.Event) (entities []Entity, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrHandlerPanicked, r)
			c.Logger.Error("handler panicked", logger.HandlerName(h.Name), logger.Error(err), logger.Stack())
		}
	}()

	result, herr := h.Handle(ctx, ev)
	if herr != nil {
		return nil, herr
	}
	if result == nil {
		return nil, nil
	}
	typed, ok := result.([]Entity)
	if !ok {
		return nil, fmt.Errorf("launchctx: handler %q returned %T, want []launchctx.Entity", h.Name, result)
	}
	return typed, nil
}

// visitAll visits entities in order, recursively visiting whatever each one
// returns, within the same dispatch turn.
func (c *Context) visitAll(ctx context.Context, entities []Entity) error {
	for _, e := range entities {
		children, err := e.Visit(ctx, c)
		if err != nil {
			return err
		}
		if err := c.visitAll(ctx, children); err != nil {
			return err
		}
	}
	return nil
}

// Visit is a convenience for visiting a single top-level entity (e.g. the
// description passed to LaunchService.IncludeLaunchDescription).
func (c *Context) Visit(ctx context.Context, e Entity) error {
	return c.visitAll(ctx, []Entity{e})
}
