package api

import (
	"time"

	"github.com/festside/festside/internal/core/domain"
	"github.com/festside/festside/internal/core/entitlement"
)

// =============================================================================
// Request Types
// =============================================================================

// RegisterRequest is the request body for account registration.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
}

// LoginRequest is the request body for organizer login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// GuestLoginRequest is the request body for guest code login.
type GuestLoginRequest struct {
	Code string `json:"code"`
}

// CreateEventRequest is the request body for creating an event.
type CreateEventRequest struct {
	Type             string `json:"type"`
	MainPersonName   string `json:"main_person_name"`
	SecondPersonName string `json:"second_person_name,omitempty"`
}

// UpdateEventRequest is the request body for updating event details.
type UpdateEventRequest struct {
	Status           string     `json:"status,omitempty"`
	MainPersonName   string     `json:"main_person_name,omitempty"`
	SecondPersonName string     `json:"second_person_name,omitempty"`
	Date             *time.Time `json:"date,omitempty"`
	Location         string     `json:"location,omitempty"`
	Theme            string     `json:"theme,omitempty"`
	WelcomeText      string     `json:"welcome_text,omitempty"`
}

// AddGuestsRequest is the request body for inviting guests.
type AddGuestsRequest struct {
	Names []string `json:"names"`
}

// RSVPRequest is a guest's attendance answer.
type RSVPRequest struct {
	Decision      string `json:"decision"` // accept or decline
	AdultsCount   int    `json:"adults_count"`
	ChildrenCount int    `json:"children_count"`
	Note          string `json:"note,omitempty"`
}

// UpdateGuestRequest is the request body for correcting a guest's details.
// RSVP state is only ever changed by the guest's own answer.
type UpdateGuestRequest struct {
	Name         string `json:"name,omitempty"`
	DietaryNotes string `json:"dietary_notes,omitempty"`
}

// WishlistItemRequest is the request body for creating or updating a
// wishlist item.
type WishlistItemRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	PriceOre    int64  `json:"price_ore,omitempty"`
	Link        string `json:"link,omitempty"`
	Priority    int    `json:"priority,omitempty"`
}

// MenuItemRequest is the request body for adding a menu item.
type MenuItemRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Course      string `json:"course,omitempty"`
	SortOrder   int    `json:"sort_order,omitempty"`
}

// ScheduleItemRequest is the request body for adding a schedule item.
type ScheduleItemRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	SortOrder   int        `json:"sort_order,omitempty"`
}

// ToastmasterItemRequest is the request body for a toastmaster segment.
type ToastmasterItemRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
	SortOrder       int    `json:"sort_order,omitempty"`
}

// ToastmasterMessageRequest is a coordination note.
type ToastmasterMessageRequest struct {
	Sender string `json:"sender"`
	Body   string `json:"body"`
}

// CheckoutRequest is the request body for starting a plan checkout.
type CheckoutRequest struct {
	PlanID string `json:"plan_id"`
	Yearly bool   `json:"yearly,omitempty"`
}

// PartnerProfileRequest is the request body for the partner profile upsert.
type PartnerProfileRequest struct {
	CategoryID  string `json:"category_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Website     string `json:"website,omitempty"`
	Phone       string `json:"phone,omitempty"`
	City        string `json:"city,omitempty"`
}

// InquiryRequest is the request body for contacting a partner.
type InquiryRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// =============================================================================
// Response Types
// =============================================================================

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Field string `json:"field,omitempty"`
}

// HealthResponse is the health check body.
type HealthResponse struct {
	Status string `json:"status"`
}

// AccountResponse is the organizer's own account view.
type AccountResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Admin bool   `json:"admin,omitempty"`
}

// EntitlementsResponse reports the organizer's effective plan grant.
type EntitlementsResponse struct {
	Entitlements entitlement.Entitlements `json:"entitlements"`
}

// GuestSessionResponse is returned on successful guest code login.
type GuestSessionResponse struct {
	Guest *domain.Guest `json:"guest"`
	Event EventPublic   `json:"event"`
}

// EventPublic is the guest-visible slice of an event.
type EventPublic struct {
	Slug             string     `json:"slug"`
	Type             string     `json:"type"`
	MainPersonName   string     `json:"main_person_name"`
	SecondPersonName string     `json:"second_person_name,omitempty"`
	Date             *time.Time `json:"date,omitempty"`
	Location         string     `json:"location,omitempty"`
	Theme            string     `json:"theme,omitempty"`
	WelcomeText      string     `json:"welcome_text,omitempty"`
}

// WishlistItemPublic is the guest view of a wishlist item. Who reserved an
// item is never exposed to guests, only whether it is taken.
type WishlistItemPublic struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	PriceOre     int64  `json:"price_ore,omitempty"`
	Link         string `json:"link,omitempty"`
	Priority     int    `json:"priority"`
	Reserved     bool   `json:"reserved"`
	ReservedByMe bool   `json:"reserved_by_me"`
}

// DashboardResponse is the organizer landing payload: their events plus
// what the plan grants.
type DashboardResponse struct {
	Events       []domain.Event           `json:"events"`
	Entitlements entitlement.Entitlements `json:"entitlements"`
}

// RSVPRollup summarizes the answers across an event's guest list.
type RSVPRollup struct {
	Pending  int `json:"pending"`
	Accepted int `json:"accepted"`
	Declined int `json:"declined"`
	Adults   int `json:"adults"`
	Children int `json:"children"`
}

// GuestListResponse is the organizer's guest list with its RSVP rollup.
type GuestListResponse struct {
	Guests []domain.Guest `json:"guests"`
	Rollup RSVPRollup     `json:"rollup"`
}

// CheckoutResponse carries the gateway redirect URL.
type CheckoutResponse struct {
	URL string `json:"url"`
}

func eventPublic(e *domain.Event) EventPublic {
	return EventPublic{
		Slug:             e.Slug,
		Type:             string(e.Type),
		MainPersonName:   e.MainPersonName,
		SecondPersonName: e.SecondPersonName,
		Date:             e.Date,
		Location:         e.Location,
		Theme:            e.Theme,
		WelcomeText:      e.WelcomeText,
	}
}

func guestRollup(guests []domain.Guest) RSVPRollup {
	var rollup RSVPRollup
	for _, g := range guests {
		switch g.RSVPStatus {
		case domain.RSVPAccepted:
			rollup.Accepted++
			rollup.Adults += g.AdultsCount
			rollup.Children += g.ChildrenCount
		case domain.RSVPDeclined:
			rollup.Declined++
		default:
			rollup.Pending++
		}
	}
	return rollup
}

func wishlistPublic(items []domain.WishlistItem, guestID string) []WishlistItemPublic {
	out := make([]WishlistItemPublic, 0, len(items))
	for _, item := range items {
		out = append(out, WishlistItemPublic{
			ID:           item.ID,
			Title:        item.Title,
			Description:  item.Description,
			PriceOre:     item.PriceOre,
			Link:         item.Link,
			Priority:     item.Priority,
			Reserved:     !item.Available(),
			ReservedByMe: item.ReservedBy(guestID),
		})
	}
	return out
}
