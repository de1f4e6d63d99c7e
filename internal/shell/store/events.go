package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/festside/festside/internal/core/domain"
)

// maxSlugAttempts bounds the suffix retry loop. The pre-insert candidate is
// never trusted on its own; the unique index is the source of truth.
const maxSlugAttempts = 50

// =============================================================================
// Event Operations
// =============================================================================

type eventRow struct {
	ID               string  `db:"id"`
	Slug             string  `db:"slug"`
	Type             string  `db:"type"`
	Status           string  `db:"status"`
	MainPersonName   string  `db:"main_person_name"`
	SecondPersonName string  `db:"second_person_name"`
	Date             *string `db:"date"`
	Location         string  `db:"location"`
	Theme            string  `db:"theme"`
	WelcomeText      string  `db:"welcome_text"`
	CreatedAt        string  `db:"created_at"`
	UpdatedAt        string  `db:"updated_at"`
}

func (r eventRow) toDomain() *domain.Event {
	return &domain.Event{
		ID:               r.ID,
		Slug:             r.Slug,
		Type:             domain.EventType(r.Type),
		Status:           domain.EventStatus(r.Status),
		MainPersonName:   r.MainPersonName,
		SecondPersonName: r.SecondPersonName,
		Date:             parseTimePtr(r.Date),
		Location:         r.Location,
		Theme:            r.Theme,
		WelcomeText:      r.WelcomeText,
		CreatedAt:        parseTime(r.CreatedAt),
		UpdatedAt:        parseTime(r.UpdatedAt),
	}
}

func eventParams(event *domain.Event) map[string]any {
	return map[string]any{
		"id":                 event.ID,
		"slug":               event.Slug,
		"type":               string(event.Type),
		"status":             string(event.Status),
		"main_person_name":   event.MainPersonName,
		"second_person_name": event.SecondPersonName,
		"date":               formatTimePtr(event.Date),
		"location":           event.Location,
		"theme":              event.Theme,
		"welcome_text":       event.WelcomeText,
		"created_at":         event.CreatedAt.UTC().Format(time.RFC3339),
		"updated_at":         event.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// CreateEvent inserts the event and its owner row in one transaction.
// The event's slug is treated as a base candidate: on a unique-index
// conflict the insert is retried with numeric suffixes until it lands.
func (s *SQLiteStore) CreateEvent(ctx context.Context, event *domain.Event, ownerID string) error {
	base := event.Slug
	return s.WithTx(ctx, func(txStore Store) error {
		tx := txStore.(*SQLiteStore)
		for attempt := 0; attempt < maxSlugAttempts; attempt++ {
			event.Slug = domain.SlugCandidate(base, attempt)
			err := tx.insertEvent(ctx, event)
			if err == nil {
				return tx.insertEventOwner(ctx, event.ID, ownerID)
			}
			if errors.Is(err, ErrDuplicateSlug) {
				continue
			}
			return err
		}
		return NewStoreError("CreateEvent", "event", event.ID, "could not find a free slug", ErrDuplicateSlug)
	})
}

func (s *SQLiteStore) insertEvent(ctx context.Context, event *domain.Event) error {
	query := `
		INSERT INTO events (id, slug, type, status, main_person_name, second_person_name,
			date, location, theme, welcome_text, created_at, updated_at)
		VALUES (:id, :slug, :type, :status, :main_person_name, :second_person_name,
			:date, :location, :theme, :welcome_text, :created_at, :updated_at)`

	if _, err := s.exec.NamedExecContext(ctx, query, eventParams(event)); err != nil {
		if isUniqueViolation(err, "events.slug") {
			return NewStoreError("CreateEvent", "event", event.ID, "slug already taken", ErrDuplicateSlug)
		}
		if isUniqueViolation(err, "events.id") {
			return NewStoreError("CreateEvent", "event", event.ID, "event with this ID already exists", ErrDuplicateID)
		}
		return NewStoreError("CreateEvent", "event", event.ID, err.Error(), err)
	}
	return nil
}

func (s *SQLiteStore) insertEventOwner(ctx context.Context, eventID, accountID string) error {
	_, err := s.exec.ExecContext(ctx,
		`INSERT INTO event_owners (event_id, account_id) VALUES (?, ?)`, eventID, accountID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return NewStoreError("CreateEvent", "event_owner", eventID, "account does not exist", ErrForeignKey)
		}
		return NewStoreError("CreateEvent", "event_owner", eventID, err.Error(), err)
	}
	return nil
}

func (s *SQLiteStore) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	var row eventRow
	err := s.exec.GetContext(ctx, &row, `SELECT * FROM events WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewStoreError("GetEvent", "event", id, "event not found", ErrNotFound)
		}
		return nil, NewStoreError("GetEvent", "event", id, err.Error(), err)
	}
	return row.toDomain(), nil
}

func (s *SQLiteStore) GetEventBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	var row eventRow
	err := s.exec.GetContext(ctx, &row, `SELECT * FROM events WHERE slug = ?`, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewStoreError("GetEventBySlug", "event", slug, "event not found", ErrNotFound)
		}
		return nil, NewStoreError("GetEventBySlug", "event", slug, err.Error(), err)
	}
	return row.toDomain(), nil
}

func (s *SQLiteStore) UpdateEvent(ctx context.Context, event *domain.Event) error {
	query := `
		UPDATE events
		SET status = :status, main_person_name = :main_person_name,
		    second_person_name = :second_person_name, date = :date, location = :location,
		    theme = :theme, welcome_text = :welcome_text, updated_at = :updated_at
		WHERE id = :id`

	res, err := s.exec.NamedExecContext(ctx, query, eventParams(event))
	if err != nil {
		return NewStoreError("UpdateEvent", "event", event.ID, err.Error(), err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return NewStoreError("UpdateEvent", "event", event.ID, "event not found", ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) ListEventsByOwner(ctx context.Context, accountID string, opts ListOptions) ([]domain.Event, error) {
	opts = opts.Normalize()
	var rows []eventRow
	err := s.exec.SelectContext(ctx, &rows, `
		SELECT e.* FROM events e
		JOIN event_owners o ON o.event_id = e.id
		WHERE o.account_id = ?
		ORDER BY e.created_at DESC
		LIMIT ? OFFSET ?`,
		accountID, opts.Limit, opts.Offset)
	if err != nil {
		return nil, NewStoreError("ListEventsByOwner", "event", "", err.Error(), err)
	}
	events := make([]domain.Event, 0, len(rows))
	for _, r := range rows {
		events = append(events, *r.toDomain())
	}
	return events, nil
}

// CountEventsByOwner counts the account's non-archived events, the number
// plan limits are compared against.
func (s *SQLiteStore) CountEventsByOwner(ctx context.Context, accountID string) (int, error) {
	var count int
	err := s.exec.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM events e
		JOIN event_owners o ON o.event_id = e.id
		WHERE o.account_id = ? AND e.status != 'archived'`, accountID)
	if err != nil {
		return 0, NewStoreError("CountEventsByOwner", "event", "", err.Error(), err)
	}
	return count, nil
}

func (s *SQLiteStore) IsEventOwner(ctx context.Context, eventID, accountID string) (bool, error) {
	var count int
	err := s.exec.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM event_owners WHERE event_id = ? AND account_id = ?`,
		eventID, accountID)
	if err != nil {
		return false, NewStoreError("IsEventOwner", "event_owner", eventID, err.Error(), err)
	}
	return count > 0, nil
}
