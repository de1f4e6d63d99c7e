package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/festside/festside/internal/core/domain"
)

func mustWishlistItem(t *testing.T, s *SQLiteStore, eventID, title string) *domain.WishlistItem {
	t.Helper()

	item, err := domain.NewWishlistItem(eventID, title)
	require.NoError(t, err)
	require.NoError(t, s.CreateWishlistItem(context.Background(), item))
	return item
}

func TestReserveWishlistItem_ClaimsAvailableItem(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	account := mustAccount(t, s, "wish@example.com")
	event := mustEvent(t, s, account.ID, "Karen")
	guest := mustGuest(t, s, event.ID, "Giver")
	item := mustWishlistItem(t, s, event.ID, "Stand Mixer")

	reserved, err := s.ReserveWishlistItem(ctx, item.ID, event.ID, guest.ID)
	require.NoError(t, err)
	assert.True(t, reserved)

	got, err := s.GetWishlistItem(ctx, item.ID, event.ID)
	require.NoError(t, err)
	assert.True(t, got.ReservedBy(guest.ID))
	assert.False(t, got.Available())
}

func TestReserveWishlistItem_TakenItemRefused(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	account := mustAccount(t, s, "wish2@example.com")
	event := mustEvent(t, s, account.ID, "Lars")
	first := mustGuest(t, s, event.ID, "First")
	second := mustGuest(t, s, event.ID, "Second")
	item := mustWishlistItem(t, s, event.ID, "Espresso Machine")

	reserved, err := s.ReserveWishlistItem(ctx, item.ID, event.ID, first.ID)
	require.NoError(t, err)
	require.True(t, reserved)

	reserved, err = s.ReserveWishlistItem(ctx, item.ID, event.ID, second.ID)
	require.NoError(t, err)
	assert.False(t, reserved)

	// The original reservation is untouched.
	got, err := s.GetWishlistItem(ctx, item.ID, event.ID)
	require.NoError(t, err)
	assert.True(t, got.ReservedBy(first.ID))
}

func TestReserveWishlistItem_ConcurrentSingleWinner(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	account := mustAccount(t, s, "wish3@example.com")
	event := mustEvent(t, s, account.ID, "Mette")
	item := mustWishlistItem(t, s, event.ID, "Robot Vacuum")

	const contenders = 10
	guests := make([]*domain.Guest, contenders)
	for i := range guests {
		guests[i] = mustGuest(t, s, event.ID, "Contender")
	}

	var wg sync.WaitGroup
	wins := make(chan string, contenders)
	for _, g := range guests {
		wg.Add(1)
		go func(guestID string) {
			defer wg.Done()
			reserved, err := s.ReserveWishlistItem(ctx, item.ID, event.ID, guestID)
			assert.NoError(t, err)
			if reserved {
				wins <- guestID
			}
		}(g.ID)
	}
	wg.Wait()
	close(wins)

	var winners []string
	for id := range wins {
		winners = append(winners, id)
	}
	require.Len(t, winners, 1)

	got, err := s.GetWishlistItem(ctx, item.ID, event.ID)
	require.NoError(t, err)
	assert.True(t, got.ReservedBy(winners[0]))
}

func TestReleaseWishlistItem_OnlyHolderMayRelease(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	account := mustAccount(t, s, "wish4@example.com")
	event := mustEvent(t, s, account.ID, "Niels")
	holder := mustGuest(t, s, event.ID, "Holder")
	stranger := mustGuest(t, s, event.ID, "Stranger")
	item := mustWishlistItem(t, s, event.ID, "Dinner Set")

	reserved, err := s.ReserveWishlistItem(ctx, item.ID, event.ID, holder.ID)
	require.NoError(t, err)
	require.True(t, reserved)

	released, err := s.ReleaseWishlistItem(ctx, item.ID, event.ID, stranger.ID)
	require.NoError(t, err)
	assert.False(t, released)

	released, err = s.ReleaseWishlistItem(ctx, item.ID, event.ID, holder.ID)
	require.NoError(t, err)
	assert.True(t, released)

	got, err := s.GetWishlistItem(ctx, item.ID, event.ID)
	require.NoError(t, err)
	assert.True(t, got.Available())
}

func TestUpdateWishlistItem_DoesNotTouchReservation(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	account := mustAccount(t, s, "wish5@example.com")
	event := mustEvent(t, s, account.ID, "Ole")
	guest := mustGuest(t, s, event.ID, "Keeper")
	item := mustWishlistItem(t, s, event.ID, "Toaster")

	reserved, err := s.ReserveWishlistItem(ctx, item.ID, event.ID, guest.ID)
	require.NoError(t, err)
	require.True(t, reserved)

	item.Title = "Fancy Toaster"
	item.PriceOre = 49900
	require.NoError(t, s.UpdateWishlistItem(ctx, item))

	got, err := s.GetWishlistItem(ctx, item.ID, event.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fancy Toaster", got.Title)
	assert.Equal(t, int64(49900), got.PriceOre)
	assert.True(t, got.ReservedBy(guest.ID))
}

func TestListWishlistByEvent_OrdersByPriority(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	account := mustAccount(t, s, "wish6@example.com")
	event := mustEvent(t, s, account.ID, "Pia")

	low := mustWishlistItem(t, s, event.ID, "Socks")
	high := mustWishlistItem(t, s, event.ID, "Bicycle")
	high.Priority = 5
	require.NoError(t, s.UpdateWishlistItem(ctx, high))
	_ = low

	items, err := s.ListWishlistByEvent(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Bicycle", items[0].Title)
}
