package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/festside/festside/internal/core/domain"
)

// maxCodeAttempts bounds the guest-code retry loop. Collisions are rare
// (6-digit space per event) but the per-event unique index decides.
const maxCodeAttempts = 20

// =============================================================================
// Guest Operations
// =============================================================================

type guestRow struct {
	ID            string  `db:"id"`
	EventID       string  `db:"event_id"`
	Name          string  `db:"name"`
	Code          string  `db:"code"`
	RSVPStatus    string  `db:"rsvp_status"`
	AdultsCount   int     `db:"adults_count"`
	ChildrenCount int     `db:"children_count"`
	DietaryNotes  string  `db:"dietary_notes"`
	RespondedAt   *string `db:"responded_at"`
	CreatedAt     string  `db:"created_at"`
}

func (r guestRow) toDomain() *domain.Guest {
	return &domain.Guest{
		ID:            r.ID,
		EventID:       r.EventID,
		Name:          r.Name,
		Code:          r.Code,
		RSVPStatus:    domain.RSVPStatus(r.RSVPStatus),
		AdultsCount:   r.AdultsCount,
		ChildrenCount: r.ChildrenCount,
		DietaryNotes:  r.DietaryNotes,
		RespondedAt:   parseTimePtr(r.RespondedAt),
		CreatedAt:     parseTime(r.CreatedAt),
	}
}

// CreateGuest inserts the guest, drawing fresh codes while the per-event
// unique index reports collisions.
func (s *SQLiteStore) CreateGuest(ctx context.Context, guest *domain.Guest) error {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		err := s.insertGuest(ctx, guest)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrDuplicateCode) {
			guest.Code = domain.GenerateGuestCode()
			continue
		}
		return err
	}
	return NewStoreError("CreateGuest", "guest", guest.ID, "could not find a free code", ErrDuplicateCode)
}

func (s *SQLiteStore) insertGuest(ctx context.Context, guest *domain.Guest) error {
	query := `
		INSERT INTO guests (id, event_id, name, code, rsvp_status, adults_count,
			children_count, dietary_notes, responded_at, created_at)
		VALUES (:id, :event_id, :name, :code, :rsvp_status, :adults_count,
			:children_count, :dietary_notes, :responded_at, :created_at)`

	row := map[string]any{
		"id":             guest.ID,
		"event_id":       guest.EventID,
		"name":           guest.Name,
		"code":           guest.Code,
		"rsvp_status":    string(guest.RSVPStatus),
		"adults_count":   guest.AdultsCount,
		"children_count": guest.ChildrenCount,
		"dietary_notes":  guest.DietaryNotes,
		"responded_at":   formatTimePtr(guest.RespondedAt),
		"created_at":     guest.CreatedAt.UTC().Format(time.RFC3339),
	}

	if _, err := s.exec.NamedExecContext(ctx, query, row); err != nil {
		if isUniqueViolation(err, "guests.event_id, guests.code") {
			return NewStoreError("CreateGuest", "guest", guest.ID, "code already used in this event", ErrDuplicateCode)
		}
		if isUniqueViolation(err, "guests.id") {
			return NewStoreError("CreateGuest", "guest", guest.ID, "guest with this ID already exists", ErrDuplicateID)
		}
		if isForeignKeyViolation(err) {
			return NewStoreError("CreateGuest", "guest", guest.ID, "event does not exist", ErrForeignKey)
		}
		return NewStoreError("CreateGuest", "guest", guest.ID, err.Error(), err)
	}
	return nil
}

// GetGuest looks a guest up by the (id, event) pair. The event scope is part
// of the key on purpose; guest identity is never checked without it.
func (s *SQLiteStore) GetGuest(ctx context.Context, id, eventID string) (*domain.Guest, error) {
	var row guestRow
	err := s.exec.GetContext(ctx, &row,
		`SELECT * FROM guests WHERE id = ? AND event_id = ?`, id, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewStoreError("GetGuest", "guest", id, "guest not found", ErrNotFound)
		}
		return nil, NewStoreError("GetGuest", "guest", id, err.Error(), err)
	}
	return row.toDomain(), nil
}

func (s *SQLiteStore) GetGuestByCode(ctx context.Context, eventID, code string) (*domain.Guest, error) {
	var row guestRow
	err := s.exec.GetContext(ctx, &row,
		`SELECT * FROM guests WHERE event_id = ? AND code = ?`, eventID, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewStoreError("GetGuestByCode", "guest", "", "no guest with this code", ErrNotFound)
		}
		return nil, NewStoreError("GetGuestByCode", "guest", "", err.Error(), err)
	}
	return row.toDomain(), nil
}

func (s *SQLiteStore) UpdateGuest(ctx context.Context, guest *domain.Guest) error {
	query := `
		UPDATE guests
		SET name = :name, dietary_notes = :dietary_notes
		WHERE id = :id AND event_id = :event_id`

	row := map[string]any{
		"id":            guest.ID,
		"event_id":      guest.EventID,
		"name":          guest.Name,
		"dietary_notes": guest.DietaryNotes,
	}

	res, err := s.exec.NamedExecContext(ctx, query, row)
	if err != nil {
		return NewStoreError("UpdateGuest", "guest", guest.ID, err.Error(), err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return NewStoreError("UpdateGuest", "guest", guest.ID, "guest not found", ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) ListGuestsByEvent(ctx context.Context, eventID string, opts ListOptions) ([]domain.Guest, error) {
	opts = opts.Normalize()
	var rows []guestRow
	err := s.exec.SelectContext(ctx, &rows, `
		SELECT * FROM guests WHERE event_id = ?
		ORDER BY name LIMIT ? OFFSET ?`,
		eventID, opts.Limit, opts.Offset)
	if err != nil {
		return nil, NewStoreError("ListGuestsByEvent", "guest", "", err.Error(), err)
	}
	guests := make([]domain.Guest, 0, len(rows))
	for _, r := range rows {
		guests = append(guests, *r.toDomain())
	}
	return guests, nil
}

func (s *SQLiteStore) CountGuestsByEvent(ctx context.Context, eventID string) (int, error) {
	var count int
	err := s.exec.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM guests WHERE event_id = ?`, eventID)
	if err != nil {
		return 0, NewStoreError("CountGuestsByEvent", "guest", "", err.Error(), err)
	}
	return count, nil
}

// ApplyRSVP overwrites the guest's answer in one UPDATE scoped to the
// (guest, event) pair. A mismatched pair touches zero rows; that is
// reported, not raised; the caller decides whether it matters.
func (s *SQLiteStore) ApplyRSVP(ctx context.Context, guestID, eventID string, resp domain.RSVPResponse) (bool, error) {
	res, err := s.exec.ExecContext(ctx, `
		UPDATE guests
		SET rsvp_status = ?, adults_count = ?, children_count = ?, dietary_notes = ?, responded_at = ?
		WHERE id = ? AND event_id = ?`,
		string(resp.Status), resp.AdultsCount, resp.ChildrenCount, resp.Note,
		resp.RespondedAt.UTC().Format(time.RFC3339),
		guestID, eventID)
	if err != nil {
		return false, NewStoreError("ApplyRSVP", "guest", guestID, err.Error(), err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
