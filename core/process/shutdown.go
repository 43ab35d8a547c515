package process

import (
	"context"
	"time"

	"github.com/launchkit/launch/core/launchctx"
	"github.com/launchkit/launch/core/logger"
)

// handleSignalProcess delivers signalNumber to the child's process group
// (when shell=true) or directly to its PID (spec.md §4.D.4). It is a no-op
// if the child has already exited.
func (a *Action) handleSignalProcess(signalNumber int) {
	if a.cmd == nil || a.cmd.Process == nil {
		return
	}
	select {
	case <-a.doneCh:
		return // already exited
	default:
	}
	if err := sendSignal(a.cmd.Process.Pid, signalNumber, a.shell); err != nil {
		a.logger.Warn("signal delivery failed", logger.Process(a.Label()), logger.Signal(signalNumber), logger.Error(err))
	}
}

// handleShutdownProcess implements the SIGINT -> grace -> SIGTERM -> grace
// -> SIGKILL escalation spec.md §4.D.4 describes as "advisory"; it is
// registered as an async handler because it may suspend for the full grace
// period.
func (a *Action) handleShutdownProcess(ctx context.Context, lc *launchctx.Context) {
	if a.cmd == nil || a.cmd.Process == nil {
		return
	}

	done := a.doneCh
	pid := a.cmd.Process.Pid

	if alreadyExited(done) {
		return
	}
	if err := sendSignal(pid, sigINT, a.shell); err != nil {
		a.logger.Warn("SIGINT delivery failed", logger.Process(a.Label()), logger.PID(pid), logger.Error(err))
	}
	if waitDone(ctx, done, a.sigintGrace) {
		return
	}

	if alreadyExited(done) {
		return
	}
	if err := sendSignal(pid, sigTERM, a.shell); err != nil {
		a.logger.Warn("SIGTERM delivery failed", logger.Process(a.Label()), logger.PID(pid), logger.Error(err))
	}
	if waitDone(ctx, done, a.sigtermGrace) {
		return
	}

	if alreadyExited(done) {
		return
	}
	if err := sendSignal(pid, sigKILL, a.shell); err != nil {
		a.logger.Warn("SIGKILL delivery failed", logger.Process(a.Label()), logger.PID(pid), logger.Error(err))
	}
	// The exit event is emitted by spawnAndPump's Wait() whenever the child
	// actually dies; this handler never emits ProcessExited itself.
}

func alreadyExited(done <-chan struct{}) bool {
	select {
	case <-done:
		return true
	default:
		return false
	}
}

// waitDone blocks up to grace for done to close, or for ctx to be
// cancelled. Returns true if the child exited within the grace period.
func waitDone(ctx context.Context, done <-chan struct{}, grace time.Duration) bool {
	timer := time.NewTimer(grace)
	defer timer.Stop()
	select {
	case <-done:
		return true
	case <-timer.C:
		return false
	case <-ctx.Done():
		return false
	}
}
