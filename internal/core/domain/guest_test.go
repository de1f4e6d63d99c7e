package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Guest Creation Tests
// =============================================================================

func TestNewGuest_Defaults(t *testing.T) {
	guest, err := NewGuest("evt_1", "Anna Jensen")
	require.NoError(t, err)

	assert.Equal(t, "evt_1", guest.EventID)
	assert.Equal(t, RSVPPending, guest.RSVPStatus)
	assert.Zero(t, guest.AdultsCount)
	assert.Zero(t, guest.ChildrenCount)
	assert.Nil(t, guest.RespondedAt)
	assert.Len(t, guest.Code, 6)
}

func TestNewGuest_NameRequired(t *testing.T) {
	_, err := NewGuest("evt_1", "")
	assert.ErrorIs(t, err, ErrGuestNameRequired)
}

func TestGenerateGuestCode_SixDigits(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := GenerateGuestCode()
		require.Len(t, code, 6)
		for _, r := range code {
			require.True(t, r >= '0' && r <= '9')
		}
	}
}

// =============================================================================
// RSVP Normalization Tests
// =============================================================================

func TestNormalizeResponse_Accept(t *testing.T) {
	resp, err := NormalizeResponse(DecisionAccept, 2, 3, "no nuts", false)
	require.NoError(t, err)

	assert.Equal(t, RSVPAccepted, resp.Status)
	assert.Equal(t, 2, resp.AdultsCount)
	assert.Equal(t, 3, resp.ChildrenCount)
	assert.Equal(t, "no nuts", resp.Note)
	assert.False(t, resp.RespondedAt.IsZero())
}

func TestNormalizeResponse_AcceptFloorsAdults(t *testing.T) {
	// An accepting guest is at least one person, whatever the form said
	for _, adults := range []int{0, -1, -100} {
		resp, err := NormalizeResponse(DecisionAccept, adults, 0, "", false)
		require.NoError(t, err)
		assert.Equal(t, 1, resp.AdultsCount, "adults=%d", adults)
	}
}

func TestNormalizeResponse_AcceptClampsNegativeChildren(t *testing.T) {
	resp, err := NormalizeResponse(DecisionAccept, 2, -5, "", false)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.ChildrenCount)
}

func TestNormalizeResponse_DeclineZeroesCounts(t *testing.T) {
	// Declines zero both counts regardless of submitted values
	for _, tc := range []struct{ adults, children int }{
		{0, 0}, {5, 3}, {-2, -9}, {1000, 1000},
	} {
		resp, err := NormalizeResponse(DecisionDecline, tc.adults, tc.children, "", false)
		require.NoError(t, err)
		assert.Equal(t, RSVPDeclined, resp.Status)
		assert.Zero(t, resp.AdultsCount)
		assert.Zero(t, resp.ChildrenCount)
	}
}

func TestNormalizeResponse_DeclineDiscardsNote(t *testing.T) {
	resp, err := NormalizeResponse(DecisionDecline, 0, 0, "vegetarian", false)
	require.NoError(t, err)
	assert.Empty(t, resp.Note)
}

func TestNormalizeResponse_DeclineKeepsFarewellWhenConfigured(t *testing.T) {
	resp, err := NormalizeResponse(DecisionDecline, 0, 0, "sorry, we will miss it", true)
	require.NoError(t, err)
	assert.Equal(t, "sorry, we will miss it", resp.Note)
	assert.Zero(t, resp.AdultsCount)
	assert.Zero(t, resp.ChildrenCount)
}

func TestNormalizeResponse_InvalidDecision(t *testing.T) {
	_, err := NormalizeResponse("maybe", 1, 0, "", false)
	assert.ErrorIs(t, err, ErrInvalidDecision)
}

// =============================================================================
// Apply Tests
// =============================================================================

func TestGuestApply_OverwritesPriorAnswer(t *testing.T) {
	guest, err := NewGuest("evt_1", "Anna Jensen")
	require.NoError(t, err)

	accept, err := NormalizeResponse(DecisionAccept, 2, 1, "gluten free", false)
	require.NoError(t, err)
	guest.Apply(accept)

	assert.Equal(t, RSVPAccepted, guest.RSVPStatus)
	assert.Equal(t, 2, guest.AdultsCount)
	require.NotNil(t, guest.RespondedAt)
	first := *guest.RespondedAt

	decline, err := NormalizeResponse(DecisionDecline, 4, 4, "", false)
	require.NoError(t, err)
	guest.Apply(decline)

	assert.Equal(t, RSVPDeclined, guest.RSVPStatus)
	assert.Zero(t, guest.AdultsCount)
	assert.Zero(t, guest.ChildrenCount)
	assert.Empty(t, guest.DietaryNotes)
	require.NotNil(t, guest.RespondedAt)
	assert.False(t, guest.RespondedAt.Before(first))
}
