package launchctx

import "context"

// Entity is a node in a description tree. Visiting an entity may enqueue
// events, register handlers, or (for Action entities) spawn a child process.
// Entities are value-like; an entity may only safely be visited more than
// once if its Execute (for Action entities) is idempotent — ProcessAction is
// NOT idempotent, visiting it twice spawns twice.
type Entity interface {
	// Visit executes this entity against the running Context and returns any
	// entities it produces, to be visited in order within the same turn.
	Visit(ctx context.Context, lc *Context) ([]Entity, error)
}

// Action is an Entity whose Visit delegates to Execute; it represents
// observable intent to perform work. ProcessAction is the core's only
// built-in Action, but the sum type stays open for collaborators (e.g. a
// node-in-package action that composes argv before delegating to a
// ProcessAction).
type Action interface {
	Entity
	Execute(ctx context.Context, lc *Context) ([]Entity, error)
}

// EntityFunc adapts a plain function to the Entity interface, the Go
// equivalent of the composite entities a HandlerFunc may synthesize inline
// without reaching for one of the named launchentity types.
type EntityFunc func(ctx context.Context, lc *Context) ([]Entity, error)

// Visit implements Entity.
func (f EntityFunc) Visit(ctx context.Context, lc *Context) ([]Entity, error) {
	return f(ctx, lc)
}
