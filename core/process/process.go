// Package process implements ProcessAction: the subsystem that spawns a
// child, pumps its stdout/stderr, forwards stdin, translates signal and
// shutdown events into OS actions, and emits the process lifecycle events
// (spec.md §4.D).
package process

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/launchkit/launch/core/launchctx"
	"github.com/launchkit/launch/core/launchevent"
	"github.com/launchkit/launch/core/logger"
)

// State is the ProcessAction lifecycle state (spec.md §4.D.1).
type State int32

const (
	StateConstructed State = iota
	StateRegistered
	StateRunning
	StateExited
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateConstructed:
		return "constructed"
	case StateRegistered:
		return "registered"
	case StateRunning:
		return "running"
	case StateExited:
		return "exited"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

const (
	defaultSigintGrace  = 5 * time.Second
	defaultSigtermGrace = 2 * time.Second
)

// Action is a ProcessAction: the observable intent to spawn and manage one
// child process. It is not idempotent — Execute must run at most once.
type Action struct {
	cmdTemplate  [][]launchctx.Substitution
	cwdTemplate  []launchctx.Substitution
	envTemplate  []EnvEntry
	hasCwd       bool
	hasEnv       bool
	shell        bool
	name         string
	logger       *slog.Logger
	sigintGrace  time.Duration
	sigtermGrace time.Duration

	executed atomic.Bool
	state    atomic.Int32

	// resolved exactly once, before spawn; observable afterwards, never
	// mutated again (spec.md §3).
	finalCmd []string
	finalCwd string
	finalEnv map[string]string

	cmd        *exec.Cmd
	stdinW     io.WriteCloser
	returnCode atomic.Int32
	doneCh     chan struct{}

	shutdownTok *launchevent.Handler
	signalTok   *launchevent.Handler
	stdinTok    *launchevent.Handler

	ioLimiter *rate.Limiter
}

// New constructs a ProcessAction. cmdTemplate is a list of argv elements,
// each itself a sequence of substitutions concatenated per spec.md §4.D.2.
func New(cmdTemplate [][]launchctx.Substitution, opts ...Option) (*Action, error) {
	if len(cmdTemplate) == 0 {
		return nil, ErrEmptyCmd
	}
	a := &Action{
		cmdTemplate:  cmdTemplate,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		sigintGrace:  defaultSigintGrace,
		sigtermGrace: defaultSigtermGrace,
		// Bursty children (e.g. a tight stdout loop) must never stall
		// dispatch; this only throttles our own diagnostic logging of
		// pumped chunks, never the ProcessStdout/ProcessStderr events
		// themselves.
		ioLimiter: rate.NewLimiter(rate.Limit(5), 5),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// State returns the current lifecycle state.
func (a *Action) State() State { return State(a.state.Load()) }

// Cmd returns the resolved argv, valid only after Execute has started
// spawning (StateRunning or later).
func (a *Action) Cmd() []string { return a.finalCmd }

// Visit implements launchctx.Entity by delegating to Execute.
func (a *Action) Visit(ctx context.Context, lc *launchctx.Context) ([]launchctx.Entity, error) {
	return a.Execute(ctx, lc)
}

// Execute registers the per-action event handlers and schedules a goroutine
// to resolve substitutions and spawn the child. It returns immediately
// (REGISTERED state); ProcessStarted/ProcessExited follow asynchronously.
func (a *Action) Execute(ctx context.Context, lc *launchctx.Context) ([]launchctx.Entity, error) {
	if !a.executed.CompareAndSwap(false, true) {
		return nil, ErrAlreadyExecuted
	}

	a.doneCh = make(chan struct{})
	a.registerHandlers(lc)
	a.state.Store(int32(StateRegistered))

	go a.spawnAndPump(ctx, lc)

	return nil, nil
}

func (a *Action) registerHandlers(lc *launchctx.Context) {
	isSelf := func(action any) bool { return action == any(a) }

	a.shutdownTok = lc.RegisterAsyncEventHandler(launchevent.Handler{
		Name: a.Label() + ":shutdown",
		Matcher: func(e launchevent.Event) bool {
			p, ok := e.Payload.(launchevent.ShutdownProcess)
			return ok && isSelf(p.Action)
		},
		Handle: func(ctx context.Context, e launchevent.Event) (any, error) {
			a.handleShutdownProcess(ctx, lc)
			return nil, nil
		},
	})

	a.signalTok = lc.RegisterEventHandler(launchevent.Handler{
		Name: a.Label() + ":signal",
		Matcher: func(e launchevent.Event) bool {
			p, ok := e.Payload.(launchevent.SignalProcess)
			return ok && isSelf(p.Action)
		},
		Handle: func(ctx context.Context, e launchevent.Event) (any, error) {
			p := e.Payload.(launchevent.SignalProcess)
			a.handleSignalProcess(p.SignalNumber)
			return nil, nil
		},
	})

	a.stdinTok = lc.RegisterEventHandler(launchevent.Handler{
		Name: a.Label() + ":stdin",
		Matcher: func(e launchevent.Event) bool {
			p, ok := e.Payload.(launchevent.ProcessStdin)
			return ok && isSelf(p.Action)
		},
		Handle: func(ctx context.Context, e launchevent.Event) (any, error) {
			p := e.Payload.(launchevent.ProcessStdin)
			a.handleProcessStdin(p.Text)
			return nil, nil
		},
	})
}

func (a *Action) unregisterHandlers(lc *launchctx.Context) {
	lc.UnregisterEventHandler(a.shutdownTok)
	lc.UnregisterEventHandler(a.signalTok)
	lc.UnregisterEventHandler(a.stdinTok)
}

// Label returns the action's WithName value, or a pointer-derived fallback
// when none was given. Safe to call at any point in the lifecycle, unlike
// Cmd(), which is only meaningful once spawning has begun.
func (a *Action) Label() string {
	if a.name != "" {
		return a.name
	}
	return fmt.Sprintf("process.Action(%p)", a)
}

// spawnAndPump resolves substitutions, spawns the child, pumps its I/O, and
// waits for it to exit, emitting the full lifecycle of events. It runs on
// its own goroutine, one per ProcessAction, coordinated with the rest of the
// runtime only through the Context's thread-safe EmitEventSync/EmitEvent.
func (a *Action) spawnAndPump(ctx context.Context, lc *launchctx.Context) {
	start := time.Now()

	cmd, cwd, env, err := a.expand(ctx, lc)
	if err != nil {
		a.logger.ErrorContext(ctx, "substitution expansion failed", logger.Process(a.Label()), logger.Error(err))
		a.fail(lc, -1)
		return
	}
	a.finalCmd, a.finalCwd, a.finalEnv = cmd, cwd, env

	execCmd := exec.Command(cmd[0], cmd[1:]...)
	if a.shell {
		execCmd = shellCommand(joinShell(cmd))
	}
	if cwd != "" {
		execCmd.Dir = cwd
	}
	if a.hasEnv {
		execCmd.Env = envSlice(env)
	} else {
		execCmd.Env = os.Environ()
	}
	setProcAttrs(execCmd, a.shell)

	stdinW, err := execCmd.StdinPipe()
	if err != nil {
		a.logger.ErrorContext(ctx, "stdin pipe failed", logger.Process(a.Label()), logger.Error(err))
		a.fail(lc, -1)
		return
	}
	stdoutR, err := execCmd.StdoutPipe()
	if err != nil {
		a.logger.ErrorContext(ctx, "stdout pipe failed", logger.Process(a.Label()), logger.Error(err))
		a.fail(lc, -1)
		return
	}
	stderrR, err := execCmd.StderrPipe()
	if err != nil {
		a.logger.ErrorContext(ctx, "stderr pipe failed", logger.Process(a.Label()), logger.Error(err))
		a.fail(lc, -1)
		return
	}

	if err := execCmd.Start(); err != nil {
		a.logger.ErrorContext(ctx, "spawn failed", logger.Process(a.Label()), logger.Cmd(cmd), logger.Error(err))
		a.fail(lc, spawnErrorCode(err))
		return
	}

	a.cmd = execCmd
	a.stdinW = stdinW
	a.state.Store(int32(StateRunning))

	rec := &launchctx.ProcessRecord{
		PID:         execCmd.Process.Pid,
		StdinWriter: stdinW,
		Done:        a.doneCh,
	}
	lc.RegisterProcess(a, rec)
	lc.Metrics.ProcessStarted()

	a.logger.Info("process started", logger.Process(a.Label()), logger.PID(rec.PID), logger.Cmd(cmd))

	lc.EmitEventSync(launchevent.NameProcessStarted, launchevent.ProcessStarted{
		Action: a, Cmd: cmd, Cwd: cwd, Env: env,
	})

	var pumpWG sync.WaitGroup
	pumpWG.Add(2)
	go a.pump(lc, stdoutR, launchevent.NameProcessStdout, &pumpWG)
	go a.pump(lc, stderrR, launchevent.NameProcessStderr, &pumpWG)

	waitErr := execCmd.Wait()
	pumpWG.Wait()

	rc := exitCode(waitErr)
	a.returnCode.Store(int32(rc))
	a.state.Store(int32(StateExited))
	close(a.doneCh)

	lc.Metrics.ProcessExited(rc)
	a.logger.Info("process exited", logger.Group("process",
		logger.Process(a.Label()), logger.ReturnCode(rc), logger.Elapsed(start)))
	lc.EmitEventSync(launchevent.NameProcessExited, launchevent.ProcessExited{
		Action: a, Cmd: cmd, Cwd: cwd, Env: env, ReturnCode: rc,
	})

	a.unregisterHandlers(lc)
	lc.UnregisterProcess(a)
}

func (a *Action) fail(lc *launchctx.Context, code int) {
	a.state.Store(int32(StateFailed))
	a.returnCode.Store(int32(code))
	close(a.doneCh)
	lc.Metrics.ProcessFailed()
	a.logger.Warn("process failed before running", logger.Process(a.Label()), logger.ReturnCode(code))
	lc.EmitEventSync(launchevent.NameProcessExited, launchevent.ProcessExited{
		Action: a, Cmd: a.finalCmd, Cwd: a.finalCwd, Env: a.finalEnv, ReturnCode: code,
	})
	a.unregisterHandlers(lc)
}

// expand resolves every substitution exactly once, before spawn, per
// spec.md §4.D.2.
func (a *Action) expand(ctx context.Context, lc *launchctx.Context) (cmd []string, cwd string, env map[string]string, err error) {
	cmd = make([]string, 0, len(a.cmdTemplate))
	for _, part := range a.cmdTemplate {
		v, err := lc.ResolveAll(ctx, part)
		if err != nil {
			return nil, "", nil, fmt.Errorf("process: resolving argv element: %w", err)
		}
		cmd = append(cmd, v)
	}

	if a.hasCwd {
		cwd, err = lc.ResolveAll(ctx, a.cwdTemplate)
		if err != nil {
			return nil, "", nil, fmt.Errorf("process: resolving cwd: %w", err)
		}
	}

	if a.hasEnv {
		env = make(map[string]string, len(a.envTemplate))
		for _, entry := range a.envTemplate {
			k, err := lc.ResolveAll(ctx, entry.Key)
			if err != nil {
				return nil, "", nil, fmt.Errorf("process: resolving env key: %w", err)
			}
			v, err := lc.ResolveAll(ctx, entry.Value)
			if err != nil {
				return nil, "", nil, fmt.Errorf("process: resolving env value for %q: %w", k, err)
			}
			env[k] = v
		}
	}

	return cmd, cwd, env, nil
}

func envSlice(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, k+"="+v)
	}
	return out
}

func joinShell(cmd []string) string {
	out := cmd[0]
	for _, c := range cmd[1:] {
		out += " " + c
	}
	return out
}

// spawnErrorCode maps an os/exec Start() failure to the "platform error"
// return code spec.md §7.3 calls for; Go's exec package does not expose a
// portable errno, so -1 is used uniformly and the real error is logged
// alongside it.
func spawnErrorCode(err error) int {
	return -1
}
