package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/festside/festside/internal/core/domain"
)

// =============================================================================
// Wishlist Operations
// =============================================================================

type wishlistRow struct {
	ID                string  `db:"id"`
	EventID           string  `db:"event_id"`
	Title             string  `db:"title"`
	Description       string  `db:"description"`
	PriceOre          int64   `db:"price_ore"`
	Link              string  `db:"link"`
	Priority          int     `db:"priority"`
	ReservedByGuestID *string `db:"reserved_by_guest_id"`
	CreatedAt         string  `db:"created_at"`
	UpdatedAt         string  `db:"updated_at"`
}

func (r wishlistRow) toDomain() *domain.WishlistItem {
	return &domain.WishlistItem{
		ID:                r.ID,
		EventID:           r.EventID,
		Title:             r.Title,
		Description:       r.Description,
		PriceOre:          r.PriceOre,
		Link:              r.Link,
		Priority:          r.Priority,
		ReservedByGuestID: r.ReservedByGuestID,
		CreatedAt:         parseTime(r.CreatedAt),
		UpdatedAt:         parseTime(r.UpdatedAt),
	}
}

func (s *SQLiteStore) CreateWishlistItem(ctx context.Context, item *domain.WishlistItem) error {
	query := `
		INSERT INTO wishlist_items (id, event_id, title, description, price_ore, link,
			priority, reserved_by_guest_id, created_at, updated_at)
		VALUES (:id, :event_id, :title, :description, :price_ore, :link,
			:priority, :reserved_by_guest_id, :created_at, :updated_at)`

	row := map[string]any{
		"id":                   item.ID,
		"event_id":             item.EventID,
		"title":                item.Title,
		"description":          item.Description,
		"price_ore":            item.PriceOre,
		"link":                 item.Link,
		"priority":             item.Priority,
		"reserved_by_guest_id": item.ReservedByGuestID,
		"created_at":           item.CreatedAt.UTC().Format(time.RFC3339),
		"updated_at":           item.UpdatedAt.UTC().Format(time.RFC3339),
	}

	if _, err := s.exec.NamedExecContext(ctx, query, row); err != nil {
		if isUniqueViolation(err, "wishlist_items.id") {
			return NewStoreError("CreateWishlistItem", "wishlist_item", item.ID, "item with this ID already exists", ErrDuplicateID)
		}
		if isForeignKeyViolation(err) {
			return NewStoreError("CreateWishlistItem", "wishlist_item", item.ID, "event does not exist", ErrForeignKey)
		}
		return NewStoreError("CreateWishlistItem", "wishlist_item", item.ID, err.Error(), err)
	}
	return nil
}

func (s *SQLiteStore) GetWishlistItem(ctx context.Context, id, eventID string) (*domain.WishlistItem, error) {
	var row wishlistRow
	err := s.exec.GetContext(ctx, &row,
		`SELECT * FROM wishlist_items WHERE id = ? AND event_id = ?`, id, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewStoreError("GetWishlistItem", "wishlist_item", id, "item not found", ErrNotFound)
		}
		return nil, NewStoreError("GetWishlistItem", "wishlist_item", id, err.Error(), err)
	}
	return row.toDomain(), nil
}

// UpdateWishlistItem writes the organizer-editable fields. The reservation
// column is off limits here; only Reserve/Release touch it.
func (s *SQLiteStore) UpdateWishlistItem(ctx context.Context, item *domain.WishlistItem) error {
	query := `
		UPDATE wishlist_items
		SET title = :title, description = :description, price_ore = :price_ore,
		    link = :link, priority = :priority, updated_at = :updated_at
		WHERE id = :id AND event_id = :event_id`

	row := map[string]any{
		"id":          item.ID,
		"event_id":    item.EventID,
		"title":       item.Title,
		"description": item.Description,
		"price_ore":   item.PriceOre,
		"link":        item.Link,
		"priority":    item.Priority,
		"updated_at":  time.Now().UTC().Format(time.RFC3339),
	}

	res, err := s.exec.NamedExecContext(ctx, query, row)
	if err != nil {
		return NewStoreError("UpdateWishlistItem", "wishlist_item", item.ID, err.Error(), err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return NewStoreError("UpdateWishlistItem", "wishlist_item", item.ID, "item not found", ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) DeleteWishlistItem(ctx context.Context, id, eventID string) error {
	res, err := s.exec.ExecContext(ctx,
		`DELETE FROM wishlist_items WHERE id = ? AND event_id = ?`, id, eventID)
	if err != nil {
		return NewStoreError("DeleteWishlistItem", "wishlist_item", id, err.Error(), err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return NewStoreError("DeleteWishlistItem", "wishlist_item", id, "item not found", ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) ListWishlistByEvent(ctx context.Context, eventID string) ([]domain.WishlistItem, error) {
	var rows []wishlistRow
	err := s.exec.SelectContext(ctx, &rows, `
		SELECT * FROM wishlist_items WHERE event_id = ?
		ORDER BY priority DESC, created_at`, eventID)
	if err != nil {
		return nil, NewStoreError("ListWishlistByEvent", "wishlist_item", "", err.Error(), err)
	}
	items := make([]domain.WishlistItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, *r.toDomain())
	}
	return items, nil
}

// ReserveWishlistItem claims the item for the guest in one conditional
// UPDATE. The IS NULL guard makes the claim atomic: under concurrent
// attempts exactly one caller sees rows-affected = 1.
func (s *SQLiteStore) ReserveWishlistItem(ctx context.Context, itemID, eventID, guestID string) (bool, error) {
	res, err := s.exec.ExecContext(ctx, `
		UPDATE wishlist_items
		SET reserved_by_guest_id = ?, updated_at = ?
		WHERE id = ? AND event_id = ? AND reserved_by_guest_id IS NULL`,
		guestID, time.Now().UTC().Format(time.RFC3339), itemID, eventID)
	if err != nil {
		return false, NewStoreError("ReserveWishlistItem", "wishlist_item", itemID, err.Error(), err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// ReleaseWishlistItem clears the reservation, but only for the guest who
// holds it. Anyone else's release attempt touches zero rows.
func (s *SQLiteStore) ReleaseWishlistItem(ctx context.Context, itemID, eventID, guestID string) (bool, error) {
	res, err := s.exec.ExecContext(ctx, `
		UPDATE wishlist_items
		SET reserved_by_guest_id = NULL, updated_at = ?
		WHERE id = ? AND event_id = ? AND reserved_by_guest_id = ?`,
		time.Now().UTC().Format(time.RFC3339), itemID, eventID, guestID)
	if err != nil {
		return false, NewStoreError("ReleaseWishlistItem", "wishlist_item", itemID, err.Error(), err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
