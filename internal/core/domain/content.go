package domain

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Per-Event Content
// =============================================================================
//
// Menu items, schedule items, photos and toastmaster segments are plain
// per-event child records. Their only rule is event scoping; approval flags
// gate guest visibility where noted.

// MenuItem is one course or dish served at the event.
type MenuItem struct {
	ID          string `json:"id"`
	EventID     string `json:"event_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Course      string `json:"course,omitempty"` // starter, main, dessert...
	SortOrder   int    `json:"sort_order"`
}

// NewMenuItem creates a menu item.
func NewMenuItem(eventID, title string) *MenuItem {
	return &MenuItem{
		ID:      "mnu_" + uuid.New().String()[:8],
		EventID: eventID,
		Title:   title,
	}
}

// ScheduleItem is one entry in the event's program.
type ScheduleItem struct {
	ID          string     `json:"id"`
	EventID     string     `json:"event_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	SortOrder   int        `json:"sort_order"`
}

// NewScheduleItem creates a schedule item.
func NewScheduleItem(eventID, title string) *ScheduleItem {
	return &ScheduleItem{
		ID:      "sch_" + uuid.New().String()[:8],
		EventID: eventID,
		Title:   title,
	}
}

// Photo is an uploaded image. Approved gates guest-gallery visibility;
// unapproved photos are visible to organizers only.
type Photo struct {
	ID         string    `json:"id"`
	EventID    string    `json:"event_id"`
	Filename   string    `json:"filename"`
	Caption    string    `json:"caption,omitempty"`
	Approved   bool      `json:"approved"`
	UploadedBy string    `json:"uploaded_by,omitempty"` // guest id when guest-uploaded
	CreatedAt  time.Time `json:"created_at"`
}

// NewPhoto registers an uploaded photo by its stored filename.
func NewPhoto(eventID, filename string) *Photo {
	return &Photo{
		ID:        "pho_" + uuid.New().String()[:8],
		EventID:   eventID,
		Filename:  filename,
		CreatedAt: time.Now().UTC(),
	}
}

// ToastmasterItem is one segment (speech, song, "indslag") in the
// toastmaster's running order. Guest-submitted segments start unapproved
// and are hidden from the program until the organizer approves them.
type ToastmasterItem struct {
	ID              string    `json:"id"`
	EventID         string    `json:"event_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	DurationMinutes int       `json:"duration_minutes,omitempty"`
	RequestedBy     string    `json:"requested_by,omitempty"` // guest id for guest submissions
	Approved        bool      `json:"approved"`
	SortOrder       int       `json:"sort_order"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewToastmasterItem creates a segment. Organizer-created segments are
// approved immediately; guest submissions await approval.
func NewToastmasterItem(eventID, title, requestedBy string) *ToastmasterItem {
	return &ToastmasterItem{
		ID:          "tst_" + uuid.New().String()[:8],
		EventID:     eventID,
		Title:       title,
		RequestedBy: requestedBy,
		Approved:    requestedBy == "",
		CreatedAt:   time.Now().UTC(),
	}
}

// ToastmasterMessage is a coordination note between the organizer and the
// toastmaster.
type ToastmasterMessage struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	Sender    string    `json:"sender"` // "organizer" or "toastmaster"
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// NewToastmasterMessage creates a coordination message.
func NewToastmasterMessage(eventID, sender, body string) *ToastmasterMessage {
	return &ToastmasterMessage{
		ID:        "tmm_" + uuid.New().String()[:8],
		EventID:   eventID,
		Sender:    sender,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
}
