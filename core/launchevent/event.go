// Package launchevent defines the immutable event record that flows through
// a LaunchContext's dispatch loop, the payload types for the built-in
// process lifecycle events, and the handler/matcher pair used to react to
// them.
package launchevent

import (
	"time"

	"github.com/google/uuid"
)

// Event is an immutable record carrying a stable dotted Name and a typed
// Payload. Once enqueued, the payload must not be mutated by callers.
type Event struct {
	ID        string
	Name      string
	Payload   any
	CreatedAt time.Time
}

// New builds an Event with the given name (usually one of the constants in
// names.go) and payload, stamping ID/CreatedAt.
func New(name string, payload any) Event {
	return Event{
		ID:        uuid.New().String(),
		Name:      name,
		Payload:   payload,
		CreatedAt: time.Now(),
	}
}
