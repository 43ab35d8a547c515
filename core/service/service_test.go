package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launchkit/launch/core/launchctx"
	"github.com/launchkit/launch/core/launchentity"
	"github.com/launchkit/launch/core/launchevent"
	"github.com/launchkit/launch/core/launchsub"
	"github.com/launchkit/launch/core/process"
	"github.com/launchkit/launch/core/service"
)

func TestRun_ReturnsZeroOnNaturalDrainWithoutShutdown(t *testing.T) {
	lc := launchctx.New()
	svc := service.New(lc)

	action, err := process.New([][]launchctx.Substitution{{launchsub.Text("true")}})
	require.NoError(t, err)

	type result struct {
		code int
		err  error
	}
	resultCh := make(chan result, 1)
	go func() {
		code, err := svc.Run(context.Background())
		resultCh <- result{code, err}
	}()

	<-svc.Ready()
	svc.IncludeLaunchDescription(action)

	select {
	case r := <-resultCh:
		assert.NoError(t, r.err)
		assert.Equal(t, 0, r.code, "Run must return 0 once its only child exits and the queue drains, with no Shutdown event emitted")
	case <-time.After(2 * time.Second):
		t.Fatal("Run never returned after the only child exited and the queue drained")
	}
}

func TestTeardownProcesses_WaitsForChildExitBeforeReturning(t *testing.T) {
	lc := launchctx.New()
	svc := service.New(lc)

	action, err := process.New([][]launchctx.Substitution{{launchsub.Text("sleep")}, {launchsub.Text("1")}})
	require.NoError(t, err)

	var exited bool
	lc.RegisterEventHandler(launchevent.Handler{
		Matcher: launchevent.Named(launchevent.NameProcessExited),
		Handle: func(_ context.Context, _ launchevent.Event) (any, error) {
			exited = true
			return nil, nil
		},
	})

	resultCh := make(chan int, 1)
	go func() {
		code, _ := svc.Run(context.Background())
		resultCh <- code
	}()

	<-svc.Ready()
	svc.IncludeLaunchDescription(action)
	time.Sleep(50 * time.Millisecond) // let the child finish spawning before asking it to stop

	svc.Shutdown()

	select {
	case code := <-resultCh:
		assert.Equal(t, 0, code)
		assert.True(t, exited, "ProcessExited must be delivered before Run returns")
		assert.Empty(t, lc.LiveProcesses(), "the process table must be empty once Run returns")
	case <-time.After(5 * time.Second):
		t.Fatal("Run never returned after Shutdown")
	}
}

func TestRun_StopsOnShutdownEvent(t *testing.T) {
	lc := launchctx.New()
	svc := service.New(lc)

	resultCh := make(chan int, 1)
	go func() {
		code, err := svc.Run(context.Background())
		assert.NoError(t, err)
		resultCh <- code
	}()

	<-svc.Ready()
	svc.Shutdown()

	select {
	case code := <-resultCh:
		assert.Equal(t, 0, code)
	case <-time.After(2 * time.Second):
		t.Fatal("Run never returned after Shutdown")
	}
	assert.Equal(t, service.StateStopped, svc.State())
}

func TestShutdown_IsIdempotent(t *testing.T) {
	lc := launchctx.New()
	svc := service.New(lc)

	resultCh := make(chan int, 1)
	go func() {
		code, _ := svc.Run(context.Background())
		resultCh <- code
	}()

	<-svc.Ready()
	svc.Shutdown()
	svc.Shutdown()
	svc.Shutdown()

	select {
	case <-resultCh:
	case <-time.After(2 * time.Second):
		t.Fatal("Run never returned")
	}
}

func TestRun_ReentryWhileRunningFails(t *testing.T) {
	lc := launchctx.New()
	svc := service.New(lc)

	resultCh := make(chan int, 1)
	go func() {
		code, _ := svc.Run(context.Background())
		resultCh <- code
	}()
	<-svc.Ready()

	code, err := svc.Run(context.Background())
	assert.Equal(t, 1, code)
	assert.ErrorIs(t, err, service.ErrAlreadyRunning)

	svc.Shutdown()
	select {
	case <-resultCh:
	case <-time.After(2 * time.Second):
		t.Fatal("background Run never returned")
	}
}

func TestRun_HandlerFailureReturnsExitCodeOne(t *testing.T) {
	lc := launchctx.New()
	svc := service.New(lc)

	lc.RegisterEventHandler(launchevent.Handler{
		Matcher: launchevent.Named("boom"),
		Handle: func(_ context.Context, _ launchevent.Event) (any, error) {
			return nil, errors.New("kaboom")
		},
	})

	resultCh := make(chan struct {
		code int
		err  error
	}, 1)
	go func() {
		code, err := svc.Run(context.Background())
		resultCh <- struct {
			code int
			err  error
		}{code, err}
	}()

	<-svc.Ready()
	lc.EmitEventSync("boom", nil)

	select {
	case r := <-resultCh:
		assert.Equal(t, 1, r.code)
		assert.Error(t, r.err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run never returned after handler failure")
	}
}

func TestIncludeLaunchDescription_VisitsEntityDuringRun(t *testing.T) {
	lc := launchctx.New()
	svc := service.New(lc)

	visited := make(chan struct{})
	desc := launchctx.EntityFunc(func(_ context.Context, _ *launchctx.Context) ([]launchctx.Entity, error) {
		close(visited)
		return nil, nil
	})

	go svc.Run(context.Background())
	<-svc.Ready()

	svc.IncludeLaunchDescription(desc)

	select {
	case <-visited:
	case <-time.After(2 * time.Second):
		t.Fatal("included description was never visited")
	}

	svc.Shutdown()
}

func TestIncludeLaunchDescription_WrongPayloadTypeFailsTheRun(t *testing.T) {
	lc := launchctx.New()
	svc := service.New(lc)

	resultCh := make(chan int, 1)
	go func() {
		code, _ := svc.Run(context.Background())
		resultCh <- code
	}()

	<-svc.Ready()
	lc.EmitEventSync(launchevent.NameIncludeLaunchDescription, launchevent.IncludeLaunchDescription{Description: "not an entity"})

	select {
	case code := <-resultCh:
		assert.Equal(t, 1, code)
	case <-time.After(2 * time.Second):
		t.Fatal("Run never returned")
	}
}

func TestRun_EmitsLogInfoViaIncludedDescription(t *testing.T) {
	lc := launchctx.New()
	svc := service.New(lc)

	go svc.Run(context.Background())
	<-svc.Ready()

	svc.IncludeLaunchDescription(launchentity.LogInfo{Message: "hello"})
	time.Sleep(20 * time.Millisecond)

	svc.Shutdown()
}
