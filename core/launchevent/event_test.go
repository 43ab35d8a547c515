package launchevent_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/launchkit/launch/core/launchevent"
)

func TestNew_StampsIDAndCreatedAt(t *testing.T) {
	e := launchevent.New(launchevent.NameShutdown, launchevent.Shutdown{Reason: "test"})

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, launchevent.NameShutdown, e.Name)
	assert.False(t, e.CreatedAt.IsZero())
	assert.Equal(t, launchevent.Shutdown{Reason: "test"}, e.Payload)
}

func TestNew_TwoEventsGetDistinctIDs(t *testing.T) {
	a := launchevent.New(launchevent.NameShutdown, nil)
	b := launchevent.New(launchevent.NameShutdown, nil)

	assert.NotEqual(t, a.ID, b.ID)
}

func TestNamed_MatchesOnlyExactName(t *testing.T) {
	m := launchevent.Named(launchevent.NameProcessStarted)

	assert.True(t, m(launchevent.Event{Name: launchevent.NameProcessStarted}))
	assert.False(t, m(launchevent.Event{Name: launchevent.NameProcessExited}))
}

func TestAnyOf_MatchesIfAnyUnderlyingMatcherMatches(t *testing.T) {
	m := launchevent.AnyOf(
		launchevent.Named(launchevent.NameProcessStdout),
		launchevent.Named(launchevent.NameProcessStderr),
	)

	assert.True(t, m(launchevent.Event{Name: launchevent.NameProcessStdout}))
	assert.True(t, m(launchevent.Event{Name: launchevent.NameProcessStderr}))
	assert.False(t, m(launchevent.Event{Name: launchevent.NameProcessStdin}))
}

func TestAnyOf_EmptyMatcherListNeverMatches(t *testing.T) {
	m := launchevent.AnyOf()
	assert.False(t, m(launchevent.Event{Name: launchevent.NameShutdown}))
}

func TestHandler_HandleIsInvokedWithMatchedEvent(t *testing.T) {
	var seen launchevent.Event
	h := launchevent.Handler{
		Matcher: launchevent.Named(launchevent.NameShutdown),
		Handle: func(ctx context.Context, e launchevent.Event) (any, error) {
			seen = e
			return nil, nil
		},
		Name: "test-handler",
	}

	e := launchevent.New(launchevent.NameShutdown, launchevent.Shutdown{Reason: "bye"})
	_, err := h.Handle(context.Background(), e)

	assert.NoError(t, err)
	assert.Equal(t, e.ID, seen.ID)
}
