package loader_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launchkit/launch/core/launchctx"
	"github.com/launchkit/launch/core/launchevent"
	"github.com/launchkit/launch/pkg/loader"
)

func TestWatch_ReloadsOnWrite(t *testing.T) {
	path := writeTempYAML(t, `
entities:
  - type: log_info
    message: "v1"
`)

	lc := launchctx.New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := loader.DefaultWatchConfig(path)
	cfg.DebounceDur = 20 * time.Millisecond

	watchErrCh := make(chan error, 1)
	go func() {
		watchErrCh <- loader.Watch(ctx, lc, cfg)
	}()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(`
entities:
  - type: log_info
    message: "v2"
`), 0o644))

	reloaded := make(chan struct{}, 1)
	lc.RegisterEventHandler(launchevent.Handler{
		Matcher: launchevent.Named(launchevent.NameIncludeLaunchDescription),
		Handle: func(_ context.Context, _ launchevent.Event) (any, error) {
			select {
			case reloaded <- struct{}{}:
			default:
			}
			return nil, nil
		},
	})

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		dctx, dcancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		_, _ = lc.ProcessOneEvent(dctx)
		dcancel()
		select {
		case <-reloaded:
			cancel()
			<-watchErrCh
			return
		default:
		}
	}
	t.Fatal("watch never emitted IncludeLaunchDescription after the file changed")
}

func TestWatch_StopsWhenContextCancelled(t *testing.T) {
	path := writeTempYAML(t, `
entities:
  - type: log_info
    message: "v1"
`)

	lc := launchctx.New()
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		errCh <- loader.Watch(ctx, lc, loader.DefaultWatchConfig(path))
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch never returned after context cancellation")
	}
}
