package launchctx

import (
	"sync"

	"github.com/launchkit/launch/core/launchevent"
)

// handlerRegistry is an insertion-ordered stack of handlers: the most
// recently registered handler is tried first. Register prepends; no
// deduplication is performed, so registering the same Handler value twice
// makes it fire twice per matching event. Handlers are stored by pointer so
// Unregister can identify a specific registration by identity, independent
// of any value equality on the Matcher/HandlerFunc closures (which are not
// comparable in Go).
type handlerRegistry struct {
	mu       sync.Mutex
	handlers []*launchevent.Handler
}

// Register prepends a copy of h, returning a token that uniquely identifies
// this registration for a later Unregister call.
func (r *handlerRegistry) Register(h launchevent.Handler) *launchevent.Handler {
	tok := &h
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers = append([]*launchevent.Handler{tok}, r.handlers...)
	return tok
}

// Unregister removes the first occurrence of the registration identified by
// tok. No-op if tok is nil or not currently registered (e.g. already
// removed).
func (r *handlerRegistry) Unregister(tok *launchevent.Handler) {
	if tok == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, h := range r.handlers {
		if h == tok {
			r.handlers = append(r.handlers[:i], r.handlers[i+1:]...)
			return
		}
	}
}

// Snapshot returns the current handler order. Per spec.md §4.B, a snapshot
// is taken before dispatching each event so handlers registered during that
// dispatch turn do not fire for the event currently being processed.
func (r *handlerRegistry) Snapshot() []*launchevent.Handler {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*launchevent.Handler, len(r.handlers))
	copy(out, r.handlers)
	return out
}
