package domain

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Guest Errors
// =============================================================================

var (
	ErrGuestNameRequired = errors.New("guest name is required")
	ErrInvalidDecision   = errors.New("decision must be accept or decline")
)

// =============================================================================
// RSVP Status
// =============================================================================

// RSVPStatus is the guest's attendance answer.
type RSVPStatus string

const (
	RSVPPending  RSVPStatus = "pending"
	RSVPAccepted RSVPStatus = "accepted"
	RSVPDeclined RSVPStatus = "declined"
)

// RSVPDecision is a guest-submitted answer. Unlike RSVPStatus it has no
// pending value; a guest cannot answer "pending".
type RSVPDecision string

const (
	DecisionAccept  RSVPDecision = "accept"
	DecisionDecline RSVPDecision = "decline"
)

// =============================================================================
// Guest
// =============================================================================

// Guest is one invitee of exactly one event. The code is unique within the
// event only, so a guest identity is always the (EventID, ID) pair.
// Guests are never deleted; they are the historical attendance record.
type Guest struct {
	ID            string     `json:"id"`
	EventID       string     `json:"event_id"`
	Name          string     `json:"name"`
	Code          string     `json:"code"` // 6-digit numeric, unique per event
	RSVPStatus    RSVPStatus `json:"rsvp_status"`
	AdultsCount   int        `json:"adults_count"`
	ChildrenCount int        `json:"children_count"`
	DietaryNotes  string     `json:"dietary_notes,omitempty"`
	RespondedAt   *time.Time `json:"responded_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// NewGuest creates a pending guest with a fresh access code. Per-event code
// uniqueness is enforced by the database; the store retries with a new code
// on conflict.
func NewGuest(eventID, name string) (*Guest, error) {
	if name == "" {
		return nil, ErrGuestNameRequired
	}
	return &Guest{
		ID:         "gst_" + uuid.New().String()[:8],
		EventID:    eventID,
		Name:       name,
		Code:       GenerateGuestCode(),
		RSVPStatus: RSVPPending,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// GenerateGuestCode returns a random 6-digit numeric code, zero-padded.
func GenerateGuestCode() string {
	n, _ := rand.Int(rand.Reader, big.NewInt(1000000))
	return fmt.Sprintf("%06d", n.Int64())
}

// =============================================================================
// RSVP Response
// =============================================================================

// RSVPResponse is a normalized guest answer, ready to be written.
// NormalizeResponse is the only way to build one, so the count invariants
// hold for every value of this type:
//
//   - accepted ⇒ AdultsCount ≥ 1
//   - declined ⇒ AdultsCount == 0 and ChildrenCount == 0
type RSVPResponse struct {
	Status        RSVPStatus
	AdultsCount   int
	ChildrenCount int
	Note          string
	RespondedAt   time.Time
}

// NormalizeResponse turns a raw guest submission into an RSVPResponse,
// clamping attacker-supplied counts. On accept, adults are floored at 1 and
// children at 0. On decline, both counts are forced to 0 and the note is
// kept only when keepDeclineNote is set (the decline form can repurpose the
// free-text field as a farewell message).
func NormalizeResponse(decision RSVPDecision, adults, children int, note string, keepDeclineNote bool) (RSVPResponse, error) {
	now := time.Now().UTC()
	switch decision {
	case DecisionAccept:
		if adults < 1 {
			adults = 1
		}
		if children < 0 {
			children = 0
		}
		return RSVPResponse{
			Status:        RSVPAccepted,
			AdultsCount:   adults,
			ChildrenCount: children,
			Note:          note,
			RespondedAt:   now,
		}, nil
	case DecisionDecline:
		if !keepDeclineNote {
			note = ""
		}
		return RSVPResponse{
			Status:      RSVPDeclined,
			Note:        note,
			RespondedAt: now,
		}, nil
	default:
		return RSVPResponse{}, ErrInvalidDecision
	}
}

// Apply overwrites the guest's previous answer with r. Responses are
// re-invocable; no history is kept.
func (g *Guest) Apply(r RSVPResponse) {
	g.RSVPStatus = r.Status
	g.AdultsCount = r.AdultsCount
	g.ChildrenCount = r.ChildrenCount
	g.DietaryNotes = r.Note
	t := r.RespondedAt
	g.RespondedAt = &t
}
