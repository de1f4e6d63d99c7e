package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/festside/festside/internal/core/auth"
	"github.com/festside/festside/internal/core/domain"
	"github.com/festside/festside/internal/core/entitlement"
	"github.com/festside/festside/internal/shell/store"
)

type eventContextKey string

const eventIDKey eventContextKey = "eventID"

// requireEventOwner verifies that the organizer owns the event in the URL
// and stashes the event ID for the handlers below it.
func (h *Handler) requireEventOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		eventID := chi.URLParam(r, "eventID")
		principal := auth.FromContext(r.Context())

		ok, err := h.store.IsEventOwner(r.Context(), eventID, principal.AccountID)
		if err != nil {
			h.writeStoreError(w, err)
			return
		}
		if !ok {
			// Non-owners get the same answer as a missing event.
			h.writeError(w, http.StatusNotFound, "not found", "not_found")
			return
		}

		ctx := context.WithValue(r.Context(), eventIDKey, eventID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func eventIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(eventIDKey).(string)
	return id
}

// =============================================================================
// Event Handlers
// =============================================================================

func (h *Handler) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !h.decode(w, r, &req) {
		return
	}

	principal := auth.FromContext(r.Context())

	plan, err := h.store.EffectivePlan(r.Context(), principal.AccountID)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	current, err := h.store.CountEventsByOwner(r.Context(), principal.AccountID)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	if result := entitlement.ValidateEventCreation(entitlement.FromPlan(*plan), current); !result.Ok() {
		h.writeError(w, http.StatusForbidden, result.Reason, "plan_limit")
		return
	}

	event, err := domain.NewEvent(domain.EventType(req.Type), req.MainPersonName, req.SecondPersonName)
	if err != nil {
		h.writeFieldError(w, "main_person_name", "main person name is required")
		return
	}

	if err := h.store.CreateEvent(r.Context(), event, principal.AccountID); err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, event)
}

func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	principal := auth.FromContext(r.Context())
	events, err := h.store.ListEventsByOwner(r.Context(), principal.AccountID, store.DefaultListOptions())
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, events)
}

func (h *Handler) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.store.GetEvent(r.Context(), eventIDFromContext(r.Context()))
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, event)
}

func (h *Handler) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req UpdateEventRequest
	if !h.decode(w, r, &req) {
		return
	}

	event, err := h.store.GetEvent(r.Context(), eventIDFromContext(r.Context()))
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	if req.Status != "" && domain.EventStatus(req.Status) != event.Status {
		if err := event.Transition(domain.EventStatus(req.Status)); err != nil {
			h.writeFieldError(w, "status", err.Error())
			return
		}
	}
	if req.MainPersonName != "" {
		event.MainPersonName = req.MainPersonName
	}
	if req.SecondPersonName != "" {
		event.SecondPersonName = req.SecondPersonName
	}
	if req.Date != nil {
		event.Date = req.Date
	}
	if req.Location != "" {
		event.Location = req.Location
	}
	if req.Theme != "" {
		event.Theme = req.Theme
	}
	if req.WelcomeText != "" {
		event.WelcomeText = req.WelcomeText
	}

	if err := h.store.UpdateEvent(r.Context(), event); err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, event)
}

// =============================================================================
// Guest Management (organizer side)
// =============================================================================

func (h *Handler) handleAddGuests(w http.ResponseWriter, r *http.Request) {
	var req AddGuestsRequest
	if !h.decode(w, r, &req) {
		return
	}
	if len(req.Names) == 0 {
		h.writeFieldError(w, "names", "at least one guest name is required")
		return
	}
	for _, name := range req.Names {
		if name == "" {
			h.writeFieldError(w, "names", "guest names must not be empty")
			return
		}
	}

	principal := auth.FromContext(r.Context())
	eventID := eventIDFromContext(r.Context())

	plan, err := h.store.EffectivePlan(r.Context(), principal.AccountID)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	current, err := h.store.CountGuestsByEvent(r.Context(), eventID)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	if result := entitlement.ValidateGuestAddition(entitlement.FromPlan(*plan), current, len(req.Names)); !result.Ok() {
		h.writeError(w, http.StatusForbidden, result.Reason, "plan_limit")
		return
	}

	guests := make([]*domain.Guest, 0, len(req.Names))
	for _, name := range req.Names {
		guest, err := domain.NewGuest(eventID, name)
		if err != nil {
			h.writeFieldError(w, "names", err.Error())
			return
		}
		if err := h.store.CreateGuest(r.Context(), guest); err != nil {
			h.writeStoreError(w, err)
			return
		}
		guests = append(guests, guest)
	}
	h.writeJSON(w, http.StatusCreated, guests)
}

func (h *Handler) handleListGuests(w http.ResponseWriter, r *http.Request) {
	guests, err := h.store.ListGuestsByEvent(r.Context(), eventIDFromContext(r.Context()), store.DefaultListOptions())
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, GuestListResponse{
		Guests: guests,
		Rollup: guestRollup(guests),
	})
}

// handleUpdateGuest corrects a guest's details. The RSVP answer belongs to
// the guest and is not touched here.
func (h *Handler) handleUpdateGuest(w http.ResponseWriter, r *http.Request) {
	var req UpdateGuestRequest
	if !h.decode(w, r, &req) {
		return
	}

	guest, err := h.store.GetGuest(r.Context(), chi.URLParam(r, "guestID"), eventIDFromContext(r.Context()))
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	if req.Name != "" {
		guest.Name = req.Name
	}
	if req.DietaryNotes != "" {
		guest.DietaryNotes = req.DietaryNotes
	}

	if err := h.store.UpdateGuest(r.Context(), guest); err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, guest)
}

// =============================================================================
// Wishlist Handlers (organizer side)
// =============================================================================

func (h *Handler) handleCreateWishlistItem(w http.ResponseWriter, r *http.Request) {
	var req WishlistItemRequest
	if !h.decode(w, r, &req) {
		return
	}

	item, err := domain.NewWishlistItem(eventIDFromContext(r.Context()), req.Title)
	if err != nil {
		if errors.Is(err, domain.ErrItemTitleRequired) {
			h.writeFieldError(w, "title", "title is required")
			return
		}
		h.writeError(w, http.StatusInternalServerError, "internal error", "internal_error")
		return
	}
	item.Description = req.Description
	item.PriceOre = req.PriceOre
	item.Link = req.Link
	item.Priority = req.Priority

	if err := h.store.CreateWishlistItem(r.Context(), item); err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, item)
}

// handleListWishlist is the organizer view: reservation holders included.
func (h *Handler) handleListWishlist(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListWishlistByEvent(r.Context(), eventIDFromContext(r.Context()))
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, items)
}

func (h *Handler) handleUpdateWishlistItem(w http.ResponseWriter, r *http.Request) {
	var req WishlistItemRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Title == "" {
		h.writeFieldError(w, "title", "title is required")
		return
	}

	eventID := eventIDFromContext(r.Context())
	item, err := h.store.GetWishlistItem(r.Context(), chi.URLParam(r, "itemID"), eventID)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	item.Title = req.Title
	item.Description = req.Description
	item.PriceOre = req.PriceOre
	item.Link = req.Link
	item.Priority = req.Priority

	if err := h.store.UpdateWishlistItem(r.Context(), item); err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, item)
}

func (h *Handler) handleDeleteWishlistItem(w http.ResponseWriter, r *http.Request) {
	err := h.store.DeleteWishlistItem(r.Context(), chi.URLParam(r, "itemID"), eventIDFromContext(r.Context()))
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Menu and Schedule Handlers
// =============================================================================

func (h *Handler) handleCreateMenuItem(w http.ResponseWriter, r *http.Request) {
	var req MenuItemRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Title == "" {
		h.writeFieldError(w, "title", "title is required")
		return
	}

	item := domain.NewMenuItem(eventIDFromContext(r.Context()), req.Title)
	item.Description = req.Description
	item.Course = req.Course
	item.SortOrder = req.SortOrder

	if err := h.store.CreateMenuItem(r.Context(), item); err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, item)
}

func (h *Handler) handleDeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	err := h.store.DeleteMenuItem(r.Context(), chi.URLParam(r, "itemID"), eventIDFromContext(r.Context()))
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCreateScheduleItem(w http.ResponseWriter, r *http.Request) {
	var req ScheduleItemRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Title == "" {
		h.writeFieldError(w, "title", "title is required")
		return
	}

	item := domain.NewScheduleItem(eventIDFromContext(r.Context()), req.Title)
	item.Description = req.Description
	item.StartsAt = req.StartsAt
	item.SortOrder = req.SortOrder

	if err := h.store.CreateScheduleItem(r.Context(), item); err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, item)
}

func (h *Handler) handleDeleteScheduleItem(w http.ResponseWriter, r *http.Request) {
	err := h.store.DeleteScheduleItem(r.Context(), chi.URLParam(r, "itemID"), eventIDFromContext(r.Context()))
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Photo Handlers
// =============================================================================

func (h *Handler) handleCreatePhoto(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Filename string `json:"filename"`
		Caption  string `json:"caption,omitempty"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	if req.Filename == "" {
		h.writeFieldError(w, "filename", "filename is required")
		return
	}

	photo := domain.NewPhoto(eventIDFromContext(r.Context()), req.Filename)
	photo.Caption = req.Caption
	photo.Approved = true // organizer uploads skip moderation

	if err := h.store.CreatePhoto(r.Context(), photo); err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, photo)
}

func (h *Handler) handleListPhotos(w http.ResponseWriter, r *http.Request) {
	photos, err := h.store.ListPhotosByEvent(r.Context(), eventIDFromContext(r.Context()), false)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, photos)
}

func (h *Handler) handleApprovePhoto(w http.ResponseWriter, r *http.Request) {
	err := h.store.SetPhotoApproved(r.Context(), chi.URLParam(r, "photoID"), eventIDFromContext(r.Context()), true)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Toastmaster Handlers (organizer side, feature-gated)
// =============================================================================

// requireToastmasterFeature checks the plan's toastmaster flag.
func (h *Handler) requireToastmasterFeature(w http.ResponseWriter, r *http.Request) bool {
	principal := auth.FromContext(r.Context())
	plan, err := h.store.EffectivePlan(r.Context(), principal.AccountID)
	if err != nil {
		h.writeStoreError(w, err)
		return false
	}
	if result := entitlement.ValidateFeature(entitlement.FromPlan(*plan), "toastmaster"); !result.Ok() {
		h.writeError(w, http.StatusForbidden, result.Reason, "plan_limit")
		return false
	}
	return true
}

func (h *Handler) handleCreateToastmasterItem(w http.ResponseWriter, r *http.Request) {
	if !h.requireToastmasterFeature(w, r) {
		return
	}
	var req ToastmasterItemRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Title == "" {
		h.writeFieldError(w, "title", "title is required")
		return
	}

	item := domain.NewToastmasterItem(eventIDFromContext(r.Context()), req.Title, "")
	item.Description = req.Description
	item.DurationMinutes = req.DurationMinutes
	item.SortOrder = req.SortOrder

	if err := h.store.CreateToastmasterItem(r.Context(), item); err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, item)
}

func (h *Handler) handleListToastmaster(w http.ResponseWriter, r *http.Request) {
	if !h.requireToastmasterFeature(w, r) {
		return
	}
	items, err := h.store.ListToastmasterByEvent(r.Context(), eventIDFromContext(r.Context()), false)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, items)
}

func (h *Handler) handleApproveToastmasterItem(w http.ResponseWriter, r *http.Request) {
	if !h.requireToastmasterFeature(w, r) {
		return
	}
	err := h.store.SetToastmasterItemApproved(r.Context(), chi.URLParam(r, "itemID"), eventIDFromContext(r.Context()), true)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCreateToastmasterMessage(w http.ResponseWriter, r *http.Request) {
	if !h.requireToastmasterFeature(w, r) {
		return
	}
	var req ToastmasterMessageRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Sender != "organizer" && req.Sender != "toastmaster" {
		h.writeFieldError(w, "sender", "sender must be organizer or toastmaster")
		return
	}
	if req.Body == "" {
		h.writeFieldError(w, "body", "body is required")
		return
	}

	msg := domain.NewToastmasterMessage(eventIDFromContext(r.Context()), req.Sender, req.Body)
	if err := h.store.CreateToastmasterMessage(r.Context(), msg); err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, msg)
}

func (h *Handler) handleListToastmasterMessages(w http.ResponseWriter, r *http.Request) {
	if !h.requireToastmasterFeature(w, r) {
		return
	}
	msgs, err := h.store.ListToastmasterMessages(r.Context(), eventIDFromContext(r.Context()))
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, msgs)
}
