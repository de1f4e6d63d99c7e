package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/festside/festside/internal/core/domain"
)

func mustGuest(t *testing.T, s *SQLiteStore, eventID, name string) *domain.Guest {
	t.Helper()

	guest, err := domain.NewGuest(eventID, name)
	require.NoError(t, err)
	require.NoError(t, s.CreateGuest(context.Background(), guest))
	return guest
}

func TestCreateGuest_SameCodeAllowedAcrossEvents(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	account := mustAccount(t, s, "host@example.com")
	eventA := mustEvent(t, s, account.ID, "Anna")
	eventB := mustEvent(t, s, account.ID, "Bent")

	guestA, err := domain.NewGuest(eventA.ID, "Guest A")
	require.NoError(t, err)
	guestA.Code = "123456"
	require.NoError(t, s.CreateGuest(ctx, guestA))

	// Codes are scoped per event, so the same code in another event is fine.
	guestB, err := domain.NewGuest(eventB.ID, "Guest B")
	require.NoError(t, err)
	guestB.Code = "123456"
	require.NoError(t, s.CreateGuest(ctx, guestB))

	assert.Equal(t, "123456", guestB.Code)
}

func TestCreateGuest_RetriesOnCodeCollision(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	account := mustAccount(t, s, "host2@example.com")
	event := mustEvent(t, s, account.ID, "Clara")

	taken, err := domain.NewGuest(event.ID, "First")
	require.NoError(t, err)
	taken.Code = "000042"
	require.NoError(t, s.CreateGuest(ctx, taken))

	colliding, err := domain.NewGuest(event.ID, "Second")
	require.NoError(t, err)
	colliding.Code = "000042"
	require.NoError(t, s.CreateGuest(ctx, colliding))

	// The colliding guest got a fresh code drawn for it.
	assert.NotEqual(t, "000042", colliding.Code)
	assert.Len(t, colliding.Code, 6)
}

func TestGetGuestByCode_ScopedToEvent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	account := mustAccount(t, s, "host3@example.com")
	eventA := mustEvent(t, s, account.ID, "Dorthe")
	eventB := mustEvent(t, s, account.ID, "Erik")

	guest := mustGuest(t, s, eventA.ID, "Wanderer")

	got, err := s.GetGuestByCode(ctx, eventA.ID, guest.Code)
	require.NoError(t, err)
	assert.Equal(t, guest.ID, got.ID)

	// The same code must not open the door to another event.
	_, err = s.GetGuestByCode(ctx, eventB.ID, guest.Code)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestApplyRSVP_WritesNormalizedResponse(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	account := mustAccount(t, s, "host4@example.com")
	event := mustEvent(t, s, account.ID, "Frida")
	guest := mustGuest(t, s, event.ID, "Responder")

	resp, err := domain.NormalizeResponse(domain.DecisionAccept, 2, 1, "no nuts", false)
	require.NoError(t, err)

	updated, err := s.ApplyRSVP(ctx, guest.ID, event.ID, resp)
	require.NoError(t, err)
	assert.True(t, updated)

	got, err := s.GetGuest(ctx, guest.ID, event.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RSVPAccepted, got.RSVPStatus)
	assert.Equal(t, 2, got.AdultsCount)
	assert.Equal(t, 1, got.ChildrenCount)
	assert.Equal(t, "no nuts", got.DietaryNotes)
	require.NotNil(t, got.RespondedAt)
}

func TestApplyRSVP_OverwritesPreviousAnswer(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	account := mustAccount(t, s, "host5@example.com")
	event := mustEvent(t, s, account.ID, "Gitte")
	guest := mustGuest(t, s, event.ID, "Changer")

	accept, err := domain.NormalizeResponse(domain.DecisionAccept, 3, 2, "", false)
	require.NoError(t, err)
	_, err = s.ApplyRSVP(ctx, guest.ID, event.ID, accept)
	require.NoError(t, err)

	decline, err := domain.NormalizeResponse(domain.DecisionDecline, 3, 2, "sorry", false)
	require.NoError(t, err)
	_, err = s.ApplyRSVP(ctx, guest.ID, event.ID, decline)
	require.NoError(t, err)

	got, err := s.GetGuest(ctx, guest.ID, event.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RSVPDeclined, got.RSVPStatus)
	assert.Equal(t, 0, got.AdultsCount)
	assert.Equal(t, 0, got.ChildrenCount)
	assert.Equal(t, "", got.DietaryNotes)
}

func TestApplyRSVP_MismatchedEventIsNoOp(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	account := mustAccount(t, s, "host6@example.com")
	eventA := mustEvent(t, s, account.ID, "Helle")
	eventB := mustEvent(t, s, account.ID, "Ivan")
	guest := mustGuest(t, s, eventA.ID, "Pinned")

	resp, err := domain.NormalizeResponse(domain.DecisionAccept, 1, 0, "", false)
	require.NoError(t, err)

	updated, err := s.ApplyRSVP(ctx, guest.ID, eventB.ID, resp)
	require.NoError(t, err)
	assert.False(t, updated)

	got, err := s.GetGuest(ctx, guest.ID, eventA.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RSVPPending, got.RSVPStatus)
}

func TestCountGuestsByEvent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	account := mustAccount(t, s, "host7@example.com")
	event := mustEvent(t, s, account.ID, "Jonas")

	mustGuest(t, s, event.ID, "One")
	mustGuest(t, s, event.ID, "Two")

	count, err := s.CountGuestsByEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
