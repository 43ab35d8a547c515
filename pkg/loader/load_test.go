package loader_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launchkit/launch/core/launchctx"
	"github.com/launchkit/launch/core/launchentity"
	"github.com/launchkit/launch/core/launchevent"
	"github.com/launchkit/launch/pkg/loader"
)

func writeTempYAML(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "launch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad_BuildsGroupOfTopLevelEntities(t *testing.T) {
	path := writeTempYAML(t, `
entities:
  - type: log_info
    message: "hello"
  - type: process
    name: greet
    cmd:
      - echo
      - "hi"
`)

	entity, err := loader.Load(path)
	require.NoError(t, err)

	g, ok := entity.(launchentity.Group)
	require.True(t, ok)
	assert.Len(t, g.Children, 2)
}

func TestLoad_UnknownEntityTypeIsError(t *testing.T) {
	path := writeTempYAML(t, `
entities:
  - type: bogus
`)
	_, err := loader.Load(path)
	assert.Error(t, err)
}

func TestLoad_ProcessWithoutCmdIsError(t *testing.T) {
	path := writeTempYAML(t, `
entities:
  - type: process
    name: broken
`)
	_, err := loader.Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingFileIsError(t *testing.T) {
	_, err := loader.Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	assert.Error(t, err)
}

func TestLoad_NestedGroupsAndEnvVarSubstitution(t *testing.T) {
	path := writeTempYAML(t, `
entities:
  - type: group
    children:
      - type: process
        name: echoer
        cmd:
          - echo
          - env_var:
              name: LOADER_TEST_GREETING
              default: "fallback greeting"
`)

	t.Setenv("LOADER_TEST_GREETING", "from env")

	entity, err := loader.Load(path)
	require.NoError(t, err)

	lc := launchctx.New()
	var out []byte
	var exited bool
	lc.RegisterEventHandler(launchevent.Handler{
		Matcher: launchevent.Named(launchevent.NameProcessStdout),
		Handle: func(_ context.Context, e launchevent.Event) (any, error) {
			out = append(out, e.Payload.(launchevent.ProcessStdout).Text...)
			return nil, nil
		},
	})
	lc.RegisterEventHandler(launchevent.Handler{
		Matcher: launchevent.Named(launchevent.NameProcessExited),
		Handle: func(_ context.Context, _ launchevent.Event) (any, error) {
			exited = true
			return nil, nil
		},
	})

	require.NoError(t, lc.Visit(context.Background(), entity))

	deadline := time.Now().Add(5 * time.Second)
	for !exited && time.Now().Before(deadline) {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		_, _ = lc.ProcessOneEvent(ctx)
		cancel()
	}
	require.True(t, exited, "process never exited")
	assert.Equal(t, "from env\n", string(out))
}

func TestLoad_AcceptsWithShutdownGraceOption(t *testing.T) {
	path := writeTempYAML(t, `
entities:
  - type: process
    name: greet
    cmd:
      - echo
      - "hi"
`)

	entity, err := loader.Load(path, loader.WithShutdownGrace(50*time.Millisecond, 50*time.Millisecond))
	require.NoError(t, err)

	g, ok := entity.(launchentity.Group)
	require.True(t, ok)
	require.Len(t, g.Children, 1)
}

func TestLoad_IncludeWrapsChildrenForDeferredVisit(t *testing.T) {
	path := writeTempYAML(t, `
entities:
  - type: include
    children:
      - type: log_info
        message: "deferred"
`)

	entity, err := loader.Load(path)
	require.NoError(t, err)

	g, ok := entity.(launchentity.Group)
	require.True(t, ok)
	require.Len(t, g.Children, 1)

	_, ok = g.Children[0].(launchentity.IncludeLaunchDescription)
	assert.True(t, ok)
}
