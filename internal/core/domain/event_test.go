package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Event Creation Tests
// =============================================================================

func TestNewEvent_Defaults(t *testing.T) {
	event, err := NewEvent(EventWedding, "Sofie", "Jonas")
	require.NoError(t, err)

	assert.Equal(t, EventDraft, event.Status)
	assert.Equal(t, "sofie", event.Slug)
	assert.Equal(t, "Sofie", event.MainPersonName)
	assert.Equal(t, "Jonas", event.SecondPersonName)
}

func TestNewEvent_MainPersonRequired(t *testing.T) {
	_, err := NewEvent(EventBirthday, "", "")
	assert.ErrorIs(t, err, ErrMainPersonRequired)
}

func TestNewEvent_DefaultsTypeToOther(t *testing.T) {
	event, err := NewEvent("", "Sofie", "")
	require.NoError(t, err)
	assert.Equal(t, EventOther, event.Type)
}

// =============================================================================
// Status Transition Tests
// =============================================================================

func TestEventTransition_DraftToActive(t *testing.T) {
	event, err := NewEvent(EventWedding, "Sofie", "")
	require.NoError(t, err)

	require.NoError(t, event.Transition(EventActive))
	assert.Equal(t, EventActive, event.Status)
}

func TestEventTransition_FullLifecycle(t *testing.T) {
	event, err := NewEvent(EventWedding, "Sofie", "")
	require.NoError(t, err)

	require.NoError(t, event.Transition(EventActive))
	require.NoError(t, event.Transition(EventCompleted))
	require.NoError(t, event.Transition(EventArchived))
	assert.Equal(t, EventArchived, event.Status)
}

func TestEventTransition_ArchivedIsTerminal(t *testing.T) {
	event, err := NewEvent(EventWedding, "Sofie", "")
	require.NoError(t, err)
	require.NoError(t, event.Transition(EventArchived))

	err = event.Transition(EventActive)
	assert.ErrorIs(t, err, ErrInvalidEventTransition)
}

func TestEventTransition_DraftCannotComplete(t *testing.T) {
	event, err := NewEvent(EventWedding, "Sofie", "")
	require.NoError(t, err)

	err = event.Transition(EventCompleted)
	assert.ErrorIs(t, err, ErrInvalidEventTransition)
}

func TestEventTransition_UnknownStatus(t *testing.T) {
	event, err := NewEvent(EventWedding, "Sofie", "")
	require.NoError(t, err)

	err = event.Transition("cancelled")
	assert.ErrorIs(t, err, ErrUnknownEventStatus)
}

func TestEventGuestVisible_OnlyWhenActive(t *testing.T) {
	event, err := NewEvent(EventWedding, "Sofie", "")
	require.NoError(t, err)
	assert.False(t, event.GuestVisible())

	require.NoError(t, event.Transition(EventActive))
	assert.True(t, event.GuestVisible())

	require.NoError(t, event.Transition(EventCompleted))
	assert.False(t, event.GuestVisible())
}
