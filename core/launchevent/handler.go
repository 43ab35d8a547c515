package launchevent

import "context"

// Matcher reports whether a Handler wants to see a given Event.
type Matcher func(Event) bool

// Named returns a Matcher that matches events by exact Name.
func Named(name string) Matcher {
	return func(e Event) bool { return e.Name == name }
}

// AnyOf returns a Matcher that matches if any of the given matchers match.
// This is the Go realization of the spec's "polymorphic matchers over an
// event class hierarchy" (e.g. ProcessIO matching both ProcessStdout and
// ProcessStderr) — class membership is encoded as an explicit list of names
// rather than a type hierarchy.
func AnyOf(matchers ...Matcher) Matcher {
	return func(e Event) bool {
		for _, m := range matchers {
			if m(e) {
				return true
			}
		}
		return false
	}
}

// HandlerFunc is invoked with the dispatching Go context and the matched
// Event. It may return entities to be visited in order, within the same
// dispatch turn, before the next handler runs. Returning a non-nil error
// aborts dispatch for this event and is treated as spec.md §7.5's "handler
// raised" failure.
//
// The first return value is `any` (rather than []launchctx.Entity) to
// avoid an import cycle between launchevent and launchctx; callers in
// core/launchctx type-assert it to []launchctx.Entity.
type HandlerFunc func(ctx context.Context, e Event) (any, error)

// Handler pairs a Matcher with a HandlerFunc. Async handlers are expected
// to potentially suspend and are dispatched via the context's async path so
// they never block the main dispatch turn.
type Handler struct {
	Matcher Matcher
	Handle  HandlerFunc
	Async   bool

	// Name is an optional human-readable label used only for logging; it
	// has no effect on matching or dispatch order.
	Name string
}
