package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/festside/festside/internal/core/domain"
)

func TestCreateEvent_AssignsSuffixOnSlugCollision(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	account := mustAccount(t, s, "owner@example.com")

	first := mustEvent(t, s, account.ID, "Sofie")
	second := mustEvent(t, s, account.ID, "Sofie")
	third := mustEvent(t, s, account.ID, "Sofie")

	assert.Equal(t, "sofie", first.Slug)
	assert.Equal(t, "sofie-1", second.Slug)
	assert.Equal(t, "sofie-2", third.Slug)

	got, err := s.GetEventBySlug(ctx, "sofie-1")
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
}

func TestCreateEvent_UnknownOwnerFails(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	event, err := domain.NewEvent(domain.EventWedding, "Orphan", "")
	require.NoError(t, err)

	err = s.CreateEvent(ctx, event, "acc_missing")
	assert.ErrorIs(t, err, ErrForeignKey)

	// The failed transaction must not leave the event row behind.
	_, err = s.GetEvent(ctx, event.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCountEventsByOwner_IgnoresArchived(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	account := mustAccount(t, s, "counter@example.com")

	keep := mustEvent(t, s, account.ID, "Keep")
	archive := mustEvent(t, s, account.ID, "Archive")
	_ = keep

	require.NoError(t, archive.Transition(domain.EventArchived))
	require.NoError(t, s.UpdateEvent(ctx, archive))

	count, err := s.CountEventsByOwner(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestIsEventOwner(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	owner := mustAccount(t, s, "owner2@example.com")
	other := mustAccount(t, s, "other@example.com")
	event := mustEvent(t, s, owner.ID, "Owned")

	ok, err := s.IsEventOwner(ctx, event.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.IsEventOwner(ctx, event.ID, other.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListEventsByOwner_OnlyOwned(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	alice := mustAccount(t, s, "alice@example.com")
	bob := mustAccount(t, s, "bob@example.com")

	mustEvent(t, s, alice.ID, "Alice Party")
	mustEvent(t, s, bob.ID, "Bob Party")

	events, err := s.ListEventsByOwner(ctx, alice.ID, DefaultListOptions())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Alice Party", events[0].MainPersonName)
}

func TestUpdateEvent_NotFound(t *testing.T) {
	s := setupTestStore(t)

	event, err := domain.NewEvent(domain.EventOther, "Ghost", "")
	require.NoError(t, err)

	err = s.UpdateEvent(context.Background(), event)
	assert.ErrorIs(t, err, ErrNotFound)
}
