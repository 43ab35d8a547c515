package launchhandlers_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launchkit/launch/core/launchctx"
	"github.com/launchkit/launch/core/launchevent"
	"github.com/launchkit/launch/core/launchhandlers"
	"github.com/launchkit/launch/core/launchsub"
	"github.com/launchkit/launch/core/process"
)

func drainUntil(t *testing.T, lc *launchctx.Context, pred func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if pred() {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		_, _ = lc.ProcessOneEvent(ctx)
		cancel()
	}
	t.Fatal("condition never became true before deadline")
}

func TestOnProcessExit_OnlyFiresForItsOwnAction(t *testing.T) {
	lc := launchctx.New()

	target, err := process.New([][]launchctx.Substitution{{launchsub.Text("true")}}, process.WithName("target"))
	require.NoError(t, err)
	other, err := process.New([][]launchctx.Substitution{{launchsub.Text("false")}}, process.WithName("other"))
	require.NoError(t, err)

	var gotCode int
	var fired bool
	onExit := launchhandlers.OnProcessExit(target, func(returnCode int) []launchctx.Entity {
		fired = true
		gotCode = returnCode
		return nil
	})
	lc.RegisterEventHandler(onExit)

	require.NoError(t, lc.Visit(context.Background(), other))
	require.NoError(t, lc.Visit(context.Background(), target))

	drainUntil(t, lc, func() bool {
		return target.State() == process.StateExited && other.State() == process.StateExited
	})

	assert.True(t, fired)
	assert.Equal(t, 0, gotCode)
}

func TestOnProcessExit_NilCallbackIsNoop(t *testing.T) {
	lc := launchctx.New()
	target, err := process.New([][]launchctx.Substitution{{launchsub.Text("true")}})
	require.NoError(t, err)

	onExit := launchhandlers.OnProcessExit(target, nil)
	lc.RegisterEventHandler(onExit)

	require.NoError(t, lc.Visit(context.Background(), target))
	drainUntil(t, lc, func() bool { return target.State() == process.StateExited })
}

func TestOnProcessExit_NameDoesNotPanicBeforeProcessStarts(t *testing.T) {
	target, err := process.New([][]launchctx.Substitution{{launchsub.Text("true")}})
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		onExit := launchhandlers.OnProcessExit(target, nil)
		assert.Contains(t, onExit.Name, "OnProcessExit(")
	})
}

func TestOnProcessIO_RoutesStdoutAndStdin(t *testing.T) {
	lc := launchctx.New()

	target, err := process.New([][]launchctx.Substitution{{launchsub.Text("cat")}})
	require.NoError(t, err)

	var stdout []byte
	onIO := launchhandlers.OnProcessIO(target,
		func(text []byte) []launchctx.Entity {
			stdout = append(stdout, text...)
			return nil
		},
		nil,
		nil,
	)
	lc.RegisterEventHandler(onIO)

	var exited bool
	lc.RegisterEventHandler(launchevent.Handler{
		Matcher: launchevent.Named(launchevent.NameProcessExited),
		Handle: func(_ context.Context, _ launchevent.Event) (any, error) {
			exited = true
			return nil, nil
		},
	})

	require.NoError(t, lc.Visit(context.Background(), target))
	drainUntil(t, lc, func() bool { return target.State() == process.StateRunning })

	lc.EmitEventSync(launchevent.NameProcessStdin, launchevent.ProcessStdin{Action: target, Text: "echoed\n"})
	lc.EmitEventSync(launchevent.NameShutdownProcess, launchevent.ShutdownProcess{Action: target})

	drainUntil(t, lc, func() bool { return exited })
	assert.Equal(t, "echoed\n", string(stdout))
}

func TestProcessIOMatcher_IgnoresOtherActions(t *testing.T) {
	target, err := process.New([][]launchctx.Substitution{{launchsub.Text("true")}})
	require.NoError(t, err)
	other, err := process.New([][]launchctx.Substitution{{launchsub.Text("true")}})
	require.NoError(t, err)

	matcher := launchhandlers.ProcessIOMatcher(target)
	matches := matcher(launchevent.Event{
		Name:    launchevent.NameProcessStdout,
		Payload: launchevent.ProcessStdout{Action: other, Text: []byte("x")},
	})
	assert.False(t, matches)
}
