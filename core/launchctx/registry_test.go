package launchctx

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/launchkit/launch/core/launchevent"
)

func TestHandlerRegistry_RegisterPrepends(t *testing.T) {
	var r handlerRegistry
	first := r.Register(launchevent.Handler{Name: "first"})
	second := r.Register(launchevent.Handler{Name: "second"})
	third := r.Register(launchevent.Handler{Name: "third"})

	snap := r.Snapshot()
	names := make([]string, len(snap))
	for i, h := range snap {
		names[i] = h.Name
	}
	assert.Equal(t, []string{"third", "second", "first"}, names)
	assert.NotSame(t, first, second)
	assert.NotSame(t, second, third)
}

func TestHandlerRegistry_UnregisterByToken(t *testing.T) {
	var r handlerRegistry
	r.Register(launchevent.Handler{Name: "a"})
	tokB := r.Register(launchevent.Handler{Name: "b"})
	r.Register(launchevent.Handler{Name: "c"})

	r.Unregister(tokB)

	snap := r.Snapshot()
	names := make([]string, len(snap))
	for i, h := range snap {
		names[i] = h.Name
	}
	assert.Equal(t, []string{"c", "a"}, names)
}

func TestHandlerRegistry_UnregisterUnknownTokenIsNoop(t *testing.T) {
	var r handlerRegistry
	r.Register(launchevent.Handler{Name: "a"})
	r.Unregister(nil)
	r.Unregister(&launchevent.Handler{Name: "stray"})
	assert.Len(t, r.Snapshot(), 1)
}

func TestHandlerRegistry_SameValueRegisteredTwiceFiresTwice(t *testing.T) {
	var r handlerRegistry
	h := launchevent.Handler{Name: "dup"}
	r.Register(h)
	r.Register(h)
	assert.Len(t, r.Snapshot(), 2)
}

func TestHandlerRegistry_SnapshotIsDefensiveCopy(t *testing.T) {
	var r handlerRegistry
	r.Register(launchevent.Handler{Name: "a"})

	snap := r.Snapshot()
	r.Register(launchevent.Handler{Name: "b"})

	assert.Len(t, snap, 1, "earlier snapshot must not see later registrations")
	assert.Len(t, r.Snapshot(), 2)
}
