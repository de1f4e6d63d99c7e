package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Event Errors
// =============================================================================

var (
	ErrMainPersonRequired     = errors.New("main person name is required")
	ErrInvalidEventTransition = errors.New("invalid event status transition")
	ErrUnknownEventStatus     = errors.New("unknown event status")
)

// =============================================================================
// Event Status
// =============================================================================

// EventStatus is the lifecycle state of an event.
type EventStatus string

const (
	EventDraft     EventStatus = "draft"
	EventActive    EventStatus = "active"
	EventCompleted EventStatus = "completed"
	EventArchived  EventStatus = "archived"
)

// eventTransitions lists the allowed lifecycle transitions. Archiving is the
// soft-retire path; events are never hard deleted.
var eventTransitions = map[EventStatus][]EventStatus{
	EventDraft:     {EventActive, EventArchived},
	EventActive:    {EventCompleted, EventArchived},
	EventCompleted: {EventArchived},
	EventArchived:  {},
}

// ValidEventStatus reports whether s is a known status value.
func ValidEventStatus(s EventStatus) bool {
	switch s {
	case EventDraft, EventActive, EventCompleted, EventArchived:
		return true
	}
	return false
}

// =============================================================================
// Event
// =============================================================================

// EventType is the kind of occasion being planned.
type EventType string

const (
	EventWedding      EventType = "wedding"
	EventConfirmation EventType = "confirmation"
	EventBirthday     EventType = "birthday"
	EventOther        EventType = "other"
)

// Event is one planned occasion. The slug is globally unique and derived
// from the main person's name.
type Event struct {
	ID               string      `json:"id"`
	Slug             string      `json:"slug"`
	Type             EventType   `json:"type"`
	Status           EventStatus `json:"status"`
	MainPersonName   string      `json:"main_person_name"`
	SecondPersonName string      `json:"second_person_name,omitempty"`
	Date             *time.Time  `json:"date,omitempty"`
	Location         string      `json:"location,omitempty"`
	Theme            string      `json:"theme,omitempty"`
	WelcomeText      string      `json:"welcome_text,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// NewEvent creates a draft event. The slug is the base candidate only; the
// store appends a numeric suffix when the unique index reports a collision.
func NewEvent(eventType EventType, mainPerson, secondPerson string) (*Event, error) {
	if mainPerson == "" {
		return nil, ErrMainPersonRequired
	}
	if eventType == "" {
		eventType = EventOther
	}
	now := time.Now().UTC()
	return &Event{
		ID:               "evt_" + uuid.New().String()[:8],
		Slug:             Slugify(mainPerson),
		Type:             eventType,
		Status:           EventDraft,
		MainPersonName:   mainPerson,
		SecondPersonName: secondPerson,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// Transition moves the event to a new lifecycle status if allowed.
func (e *Event) Transition(to EventStatus) error {
	if !ValidEventStatus(to) {
		return ErrUnknownEventStatus
	}
	for _, allowed := range eventTransitions[e.Status] {
		if allowed == to {
			e.Status = to
			e.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return ErrInvalidEventTransition
}

// GuestVisible reports whether guests may authenticate against the event.
// Only active events accept guest logins.
func (e *Event) GuestVisible() bool {
	return e.Status == EventActive
}
