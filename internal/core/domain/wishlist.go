package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrItemTitleRequired = errors.New("wishlist item title is required")

// =============================================================================
// Wishlist
// =============================================================================

// WishlistItem is a giftable entry belonging to one event.
//
// An item is available iff ReservedByGuestID is nil. The reservation claim
// itself is made by the store as a single conditional UPDATE, never by
// loading this struct, checking, and writing it back.
type WishlistItem struct {
	ID                string    `json:"id"`
	EventID           string    `json:"event_id"`
	Title             string    `json:"title"`
	Description       string    `json:"description,omitempty"`
	PriceOre          int64     `json:"price_ore,omitempty"`
	Link              string    `json:"link,omitempty"`
	Priority          int       `json:"priority"`
	ReservedByGuestID *string   `json:"reserved_by_guest_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// NewWishlistItem creates an unreserved wishlist item.
func NewWishlistItem(eventID, title string) (*WishlistItem, error) {
	if title == "" {
		return nil, ErrItemTitleRequired
	}
	now := time.Now().UTC()
	return &WishlistItem{
		ID:        "wsh_" + uuid.New().String()[:8],
		EventID:   eventID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Available reports whether the item can still be reserved.
func (w *WishlistItem) Available() bool {
	return w.ReservedByGuestID == nil
}

// ReservedBy reports whether the item is held by the given guest.
func (w *WishlistItem) ReservedBy(guestID string) bool {
	return w.ReservedByGuestID != nil && *w.ReservedByGuestID == guestID
}
