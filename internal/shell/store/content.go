package store

import (
	"context"
	"time"

	"github.com/festside/festside/internal/core/domain"
)

// Per-event content rows (menu, schedule, photos, toastmaster). These are
// plain child records; every query is event-scoped.

// =============================================================================
// Menu Operations
// =============================================================================

type menuRow struct {
	ID          string `db:"id"`
	EventID     string `db:"event_id"`
	Title       string `db:"title"`
	Description string `db:"description"`
	Course      string `db:"course"`
	SortOrder   int    `db:"sort_order"`
}

func (s *SQLiteStore) CreateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	query := `
		INSERT INTO menu_items (id, event_id, title, description, course, sort_order)
		VALUES (:id, :event_id, :title, :description, :course, :sort_order)`

	row := map[string]any{
		"id":          item.ID,
		"event_id":    item.EventID,
		"title":       item.Title,
		"description": item.Description,
		"course":      item.Course,
		"sort_order":  item.SortOrder,
	}

	if _, err := s.exec.NamedExecContext(ctx, query, row); err != nil {
		if isForeignKeyViolation(err) {
			return NewStoreError("CreateMenuItem", "menu_item", item.ID, "event does not exist", ErrForeignKey)
		}
		return NewStoreError("CreateMenuItem", "menu_item", item.ID, err.Error(), err)
	}
	return nil
}

func (s *SQLiteStore) ListMenuByEvent(ctx context.Context, eventID string) ([]domain.MenuItem, error) {
	var rows []menuRow
	err := s.exec.SelectContext(ctx, &rows, `
		SELECT * FROM menu_items WHERE event_id = ? ORDER BY sort_order, title`, eventID)
	if err != nil {
		return nil, NewStoreError("ListMenuByEvent", "menu_item", "", err.Error(), err)
	}
	items := make([]domain.MenuItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, domain.MenuItem{
			ID:          r.ID,
			EventID:     r.EventID,
			Title:       r.Title,
			Description: r.Description,
			Course:      r.Course,
			SortOrder:   r.SortOrder,
		})
	}
	return items, nil
}

func (s *SQLiteStore) DeleteMenuItem(ctx context.Context, id, eventID string) error {
	res, err := s.exec.ExecContext(ctx,
		`DELETE FROM menu_items WHERE id = ? AND event_id = ?`, id, eventID)
	if err != nil {
		return NewStoreError("DeleteMenuItem", "menu_item", id, err.Error(), err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return NewStoreError("DeleteMenuItem", "menu_item", id, "menu item not found", ErrNotFound)
	}
	return nil
}

// =============================================================================
// Schedule Operations
// =============================================================================

type scheduleRow struct {
	ID          string  `db:"id"`
	EventID     string  `db:"event_id"`
	Title       string  `db:"title"`
	Description string  `db:"description"`
	StartsAt    *string `db:"starts_at"`
	SortOrder   int     `db:"sort_order"`
}

func (s *SQLiteStore) CreateScheduleItem(ctx context.Context, item *domain.ScheduleItem) error {
	query := `
		INSERT INTO schedule_items (id, event_id, title, description, starts_at, sort_order)
		VALUES (:id, :event_id, :title, :description, :starts_at, :sort_order)`

	row := map[string]any{
		"id":          item.ID,
		"event_id":    item.EventID,
		"title":       item.Title,
		"description": item.Description,
		"starts_at":   formatTimePtr(item.StartsAt),
		"sort_order":  item.SortOrder,
	}

	if _, err := s.exec.NamedExecContext(ctx, query, row); err != nil {
		if isForeignKeyViolation(err) {
			return NewStoreError("CreateScheduleItem", "schedule_item", item.ID, "event does not exist", ErrForeignKey)
		}
		return NewStoreError("CreateScheduleItem", "schedule_item", item.ID, err.Error(), err)
	}
	return nil
}

func (s *SQLiteStore) ListScheduleByEvent(ctx context.Context, eventID string) ([]domain.ScheduleItem, error) {
	var rows []scheduleRow
	err := s.exec.SelectContext(ctx, &rows, `
		SELECT * FROM schedule_items WHERE event_id = ? ORDER BY sort_order, starts_at`, eventID)
	if err != nil {
		return nil, NewStoreError("ListScheduleByEvent", "schedule_item", "", err.Error(), err)
	}
	items := make([]domain.ScheduleItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, domain.ScheduleItem{
			ID:          r.ID,
			EventID:     r.EventID,
			Title:       r.Title,
			Description: r.Description,
			StartsAt:    parseTimePtr(r.StartsAt),
			SortOrder:   r.SortOrder,
		})
	}
	return items, nil
}

func (s *SQLiteStore) DeleteScheduleItem(ctx context.Context, id, eventID string) error {
	res, err := s.exec.ExecContext(ctx,
		`DELETE FROM schedule_items WHERE id = ? AND event_id = ?`, id, eventID)
	if err != nil {
		return NewStoreError("DeleteScheduleItem", "schedule_item", id, err.Error(), err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return NewStoreError("DeleteScheduleItem", "schedule_item", id, "schedule item not found", ErrNotFound)
	}
	return nil
}

// =============================================================================
// Photo Operations
// =============================================================================

type photoRow struct {
	ID         string `db:"id"`
	EventID    string `db:"event_id"`
	Filename   string `db:"filename"`
	Caption    string `db:"caption"`
	Approved   bool   `db:"approved"`
	UploadedBy string `db:"uploaded_by"`
	CreatedAt  string `db:"created_at"`
}

func (s *SQLiteStore) CreatePhoto(ctx context.Context, photo *domain.Photo) error {
	query := `
		INSERT INTO photos (id, event_id, filename, caption, approved, uploaded_by, created_at)
		VALUES (:id, :event_id, :filename, :caption, :approved, :uploaded_by, :created_at)`

	row := map[string]any{
		"id":          photo.ID,
		"event_id":    photo.EventID,
		"filename":    photo.Filename,
		"caption":     photo.Caption,
		"approved":    photo.Approved,
		"uploaded_by": photo.UploadedBy,
		"created_at":  photo.CreatedAt.UTC().Format(time.RFC3339),
	}

	if _, err := s.exec.NamedExecContext(ctx, query, row); err != nil {
		if isForeignKeyViolation(err) {
			return NewStoreError("CreatePhoto", "photo", photo.ID, "event does not exist", ErrForeignKey)
		}
		return NewStoreError("CreatePhoto", "photo", photo.ID, err.Error(), err)
	}
	return nil
}

func (s *SQLiteStore) SetPhotoApproved(ctx context.Context, id, eventID string, approved bool) error {
	res, err := s.exec.ExecContext(ctx,
		`UPDATE photos SET approved = ? WHERE id = ? AND event_id = ?`,
		approved, id, eventID)
	if err != nil {
		return NewStoreError("SetPhotoApproved", "photo", id, err.Error(), err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return NewStoreError("SetPhotoApproved", "photo", id, "photo not found", ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) ListPhotosByEvent(ctx context.Context, eventID string, approvedOnly bool) ([]domain.Photo, error) {
	query := `SELECT * FROM photos WHERE event_id = ?`
	if approvedOnly {
		query += ` AND approved = 1`
	}
	query += ` ORDER BY created_at DESC`

	var rows []photoRow
	if err := s.exec.SelectContext(ctx, &rows, query, eventID); err != nil {
		return nil, NewStoreError("ListPhotosByEvent", "photo", "", err.Error(), err)
	}
	photos := make([]domain.Photo, 0, len(rows))
	for _, r := range rows {
		photos = append(photos, domain.Photo{
			ID:         r.ID,
			EventID:    r.EventID,
			Filename:   r.Filename,
			Caption:    r.Caption,
			Approved:   r.Approved,
			UploadedBy: r.UploadedBy,
			CreatedAt:  parseTime(r.CreatedAt),
		})
	}
	return photos, nil
}

// =============================================================================
// Toastmaster Operations
// =============================================================================

type toastmasterItemRow struct {
	ID              string `db:"id"`
	EventID         string `db:"event_id"`
	Title           string `db:"title"`
	Description     string `db:"description"`
	DurationMinutes int    `db:"duration_minutes"`
	RequestedBy     string `db:"requested_by"`
	Approved        bool   `db:"approved"`
	SortOrder       int    `db:"sort_order"`
	CreatedAt       string `db:"created_at"`
}

func (s *SQLiteStore) CreateToastmasterItem(ctx context.Context, item *domain.ToastmasterItem) error {
	query := `
		INSERT INTO toastmaster_items (id, event_id, title, description, duration_minutes,
			requested_by, approved, sort_order, created_at)
		VALUES (:id, :event_id, :title, :description, :duration_minutes,
			:requested_by, :approved, :sort_order, :created_at)`

	row := map[string]any{
		"id":               item.ID,
		"event_id":         item.EventID,
		"title":            item.Title,
		"description":      item.Description,
		"duration_minutes": item.DurationMinutes,
		"requested_by":     item.RequestedBy,
		"approved":         item.Approved,
		"sort_order":       item.SortOrder,
		"created_at":       item.CreatedAt.UTC().Format(time.RFC3339),
	}

	if _, err := s.exec.NamedExecContext(ctx, query, row); err != nil {
		if isForeignKeyViolation(err) {
			return NewStoreError("CreateToastmasterItem", "toastmaster_item", item.ID, "event does not exist", ErrForeignKey)
		}
		return NewStoreError("CreateToastmasterItem", "toastmaster_item", item.ID, err.Error(), err)
	}
	return nil
}

func (s *SQLiteStore) SetToastmasterItemApproved(ctx context.Context, id, eventID string, approved bool) error {
	res, err := s.exec.ExecContext(ctx,
		`UPDATE toastmaster_items SET approved = ? WHERE id = ? AND event_id = ?`,
		approved, id, eventID)
	if err != nil {
		return NewStoreError("SetToastmasterItemApproved", "toastmaster_item", id, err.Error(), err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return NewStoreError("SetToastmasterItemApproved", "toastmaster_item", id, "segment not found", ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) ListToastmasterByEvent(ctx context.Context, eventID string, approvedOnly bool) ([]domain.ToastmasterItem, error) {
	query := `SELECT * FROM toastmaster_items WHERE event_id = ?`
	if approvedOnly {
		query += ` AND approved = 1`
	}
	query += ` ORDER BY sort_order, created_at`

	var rows []toastmasterItemRow
	if err := s.exec.SelectContext(ctx, &rows, query, eventID); err != nil {
		return nil, NewStoreError("ListToastmasterByEvent", "toastmaster_item", "", err.Error(), err)
	}
	items := make([]domain.ToastmasterItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, domain.ToastmasterItem{
			ID:              r.ID,
			EventID:         r.EventID,
			Title:           r.Title,
			Description:     r.Description,
			DurationMinutes: r.DurationMinutes,
			RequestedBy:     r.RequestedBy,
			Approved:        r.Approved,
			SortOrder:       r.SortOrder,
			CreatedAt:       parseTime(r.CreatedAt),
		})
	}
	return items, nil
}

type toastmasterMessageRow struct {
	ID        string `db:"id"`
	EventID   string `db:"event_id"`
	Sender    string `db:"sender"`
	Body      string `db:"body"`
	CreatedAt string `db:"created_at"`
}

func (s *SQLiteStore) CreateToastmasterMessage(ctx context.Context, msg *domain.ToastmasterMessage) error {
	query := `
		INSERT INTO toastmaster_messages (id, event_id, sender, body, created_at)
		VALUES (:id, :event_id, :sender, :body, :created_at)`

	row := map[string]any{
		"id":         msg.ID,
		"event_id":   msg.EventID,
		"sender":     msg.Sender,
		"body":       msg.Body,
		"created_at": msg.CreatedAt.UTC().Format(time.RFC3339),
	}

	if _, err := s.exec.NamedExecContext(ctx, query, row); err != nil {
		if isForeignKeyViolation(err) {
			return NewStoreError("CreateToastmasterMessage", "toastmaster_message", msg.ID, "event does not exist", ErrForeignKey)
		}
		return NewStoreError("CreateToastmasterMessage", "toastmaster_message", msg.ID, err.Error(), err)
	}
	return nil
}

func (s *SQLiteStore) ListToastmasterMessages(ctx context.Context, eventID string) ([]domain.ToastmasterMessage, error) {
	var rows []toastmasterMessageRow
	err := s.exec.SelectContext(ctx, &rows, `
		SELECT * FROM toastmaster_messages WHERE event_id = ? ORDER BY created_at`, eventID)
	if err != nil {
		return nil, NewStoreError("ListToastmasterMessages", "toastmaster_message", "", err.Error(), err)
	}
	msgs := make([]domain.ToastmasterMessage, 0, len(rows))
	for _, r := range rows {
		msgs = append(msgs, domain.ToastmasterMessage{
			ID:        r.ID,
			EventID:   r.EventID,
			Sender:    r.Sender,
			Body:      r.Body,
			CreatedAt: parseTime(r.CreatedAt),
		})
	}
	return msgs, nil
}
