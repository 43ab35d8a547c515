package launchentity

import (
	"context"

	"github.com/launchkit/launch/core/launchctx"
)

// EmitEvent is a structural entity wrapping a single EmitEventSync call;
// it lets a description tree queue an event declaratively instead of a
// handler having to reach into the Context directly.
type EmitEvent struct {
	Name    string
	Payload any
}

// Visit implements launchctx.Entity.
func (e EmitEvent) Visit(_ context.Context, lc *launchctx.Context) ([]launchctx.Entity, error) {
	lc.EmitEventSync(e.Name, e.Payload)
	return nil, nil
}
