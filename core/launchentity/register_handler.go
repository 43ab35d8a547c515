package launchentity

import (
	"context"

	"github.com/launchkit/launch/core/launchctx"
	"github.com/launchkit/launch/core/launchevent"
)

// RegisterEventHandler registers a synchronous handler when visited. When
// TokenOut is non-nil, Visit stores the returned registration token there so
// a later UnregisterEventHandler entity (or a direct Context call) can
// remove exactly this registration.
type RegisterEventHandler struct {
	Handler  launchevent.Handler
	TokenOut **launchevent.Handler
}

// Visit implements launchctx.Entity.
func (r RegisterEventHandler) Visit(_ context.Context, lc *launchctx.Context) ([]launchctx.Entity, error) {
	tok := lc.RegisterEventHandler(r.Handler)
	if r.TokenOut != nil {
		*r.TokenOut = tok
	}
	return nil, nil
}

// RegisterAsyncEventHandler is RegisterEventHandler for handlers that may
// suspend (spec.md §4.C); it registers against the Context's async handler
// table so dispatch never blocks on it.
type RegisterAsyncEventHandler struct {
	Handler  launchevent.Handler
	TokenOut **launchevent.Handler
}

// Visit implements launchctx.Entity.
func (r RegisterAsyncEventHandler) Visit(_ context.Context, lc *launchctx.Context) ([]launchctx.Entity, error) {
	tok := lc.RegisterAsyncEventHandler(r.Handler)
	if r.TokenOut != nil {
		*r.TokenOut = tok
	}
	return nil, nil
}

// UnregisterEventHandler removes a previously registered handler by the
// token returned from RegisterEventHandler/RegisterAsyncEventHandler. A nil
// Token is a no-op, not an error, so a description tree can unconditionally
// include this entity during teardown without tracking whether the
// registration ever actually happened.
type UnregisterEventHandler struct {
	Token *launchevent.Handler
}

// Visit implements launchctx.Entity.
func (u UnregisterEventHandler) Visit(_ context.Context, lc *launchctx.Context) ([]launchctx.Entity, error) {
	if u.Token == nil {
		return nil, nil
	}
	lc.UnregisterEventHandler(u.Token)
	return nil, nil
}
