// Package launchentity provides the built-in composite Entity set: the
// structural nodes a description tree is made of besides process.Action
// itself (spec.md §9's "Entity polymorphism" design note). Each type here
// implements launchctx.Entity by delegating straight back into the Context
// it is visited with.
package launchentity

import (
	"context"

	"github.com/launchkit/launch/core/launchctx"
)

// Group is an ordered composite: visiting it visits every child in order,
// within the same dispatch turn, exactly as if the children had been
// returned directly from whichever handler produced the Group.
type Group struct {
	Children []launchctx.Entity
}

// NewGroup is a convenience constructor mirroring the variadic style the
// original source's GroupAction takes its actions in.
func NewGroup(children ...launchctx.Entity) Group {
	return Group{Children: children}
}

// Visit implements launchctx.Entity.
func (g Group) Visit(_ context.Context, _ *launchctx.Context) ([]launchctx.Entity, error) {
	return g.Children, nil
}
