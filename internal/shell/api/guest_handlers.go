package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/festside/festside/internal/core/auth"
	"github.com/festside/festside/internal/core/domain"
	"github.com/festside/festside/internal/core/validation"
	"github.com/festside/festside/internal/shell/api/middleware"
	"github.com/festside/festside/internal/shell/store"
)

// =============================================================================
// Guest Surface
// =============================================================================

// guestEvent resolves the slug to an event guests may see. Draft, completed
// and archived events answer 404 on the guest surface.
func (h *Handler) guestEvent(w http.ResponseWriter, r *http.Request) (*domain.Event, bool) {
	event, err := h.store.GetEventBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.writeStoreError(w, err)
		return nil, false
	}
	if !event.GuestVisible() {
		h.writeError(w, http.StatusNotFound, "not found", "not_found")
		return nil, false
	}
	return event, true
}

// guestOf returns the authenticated guest principal for the event, or
// rejects the request. A guest session from another event is rejected even
// when the numeric codes coincide.
func (h *Handler) guestOf(w http.ResponseWriter, r *http.Request, event *domain.Event) (auth.Principal, bool) {
	principal := auth.FromContext(r.Context())
	if !principal.IsGuestOf(event.ID) {
		h.writeError(w, http.StatusUnauthorized, "guest login required", "unauthorized")
		return auth.Principal{}, false
	}
	return principal, true
}

func (h *Handler) handleGuestEventPage(w http.ResponseWriter, r *http.Request) {
	event, ok := h.guestEvent(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, eventPublic(event))
}

func (h *Handler) handleGuestLogin(w http.ResponseWriter, r *http.Request) {
	event, ok := h.guestEvent(w, r)
	if !ok {
		return
	}

	var req GuestLoginRequest
	if !h.decode(w, r, &req) {
		return
	}
	if field, msg := validation.ValidateGuestCode(req.Code); field != "" {
		h.writeFieldError(w, field, msg)
		return
	}

	// The lookup is scoped to this event; the same code in another event
	// will not match.
	guest, err := h.store.GetGuestByCode(r.Context(), event.ID, req.Code)
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "unknown code", "unauthorized")
		return
	}

	token := middleware.NewSessionToken()
	expires := time.Now().Add(middleware.SessionTTL)
	err = h.store.CreateSession(r.Context(), &store.Session{
		Token:     token,
		Kind:      store.SessionGuest,
		GuestID:   guest.ID,
		EventID:   event.ID,
		ExpiresAt: expires,
		CreatedAt: time.Now(),
	})
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	middleware.SetSessionCookie(w, token, expires)
	h.writeJSON(w, http.StatusOK, GuestSessionResponse{
		Guest: guest,
		Event: eventPublic(event),
	})
}

func (h *Handler) handleGuestRSVP(w http.ResponseWriter, r *http.Request) {
	event, ok := h.guestEvent(w, r)
	if !ok {
		return
	}
	principal, ok := h.guestOf(w, r, event)
	if !ok {
		return
	}

	var req RSVPRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := domain.NormalizeResponse(domain.RSVPDecision(req.Decision),
		req.AdultsCount, req.ChildrenCount, req.Note, h.keepDeclineNote)
	if err != nil {
		h.writeFieldError(w, "decision", "decision must be accept or decline")
		return
	}

	updated, err := h.store.ApplyRSVP(r.Context(), principal.GuestID, event.ID, resp)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	if !updated {
		h.writeError(w, http.StatusNotFound, "not found", "not_found")
		return
	}

	guest, err := h.store.GetGuest(r.Context(), principal.GuestID, event.ID)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, guest)
}

// =============================================================================
// Guest Wishlist
// =============================================================================

func (h *Handler) handleGuestWishlist(w http.ResponseWriter, r *http.Request) {
	event, ok := h.guestEvent(w, r)
	if !ok {
		return
	}
	principal, ok := h.guestOf(w, r, event)
	if !ok {
		return
	}

	items, err := h.store.ListWishlistByEvent(r.Context(), event.ID)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, wishlistPublic(items, principal.GuestID))
}

func (h *Handler) handleGuestReserve(w http.ResponseWriter, r *http.Request) {
	event, ok := h.guestEvent(w, r)
	if !ok {
		return
	}
	principal, ok := h.guestOf(w, r, event)
	if !ok {
		return
	}

	reserved, err := h.store.ReserveWishlistItem(r.Context(), chi.URLParam(r, "itemID"), event.ID, principal.GuestID)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	if !reserved {
		// Taken in the meantime (or never existed). The guest list view
		// will show it as reserved.
		h.writeError(w, http.StatusConflict, "item is no longer available", "reserved")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleGuestRelease(w http.ResponseWriter, r *http.Request) {
	event, ok := h.guestEvent(w, r)
	if !ok {
		return
	}
	principal, ok := h.guestOf(w, r, event)
	if !ok {
		return
	}

	released, err := h.store.ReleaseWishlistItem(r.Context(), chi.URLParam(r, "itemID"), event.ID, principal.GuestID)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	if !released {
		h.writeError(w, http.StatusConflict, "you do not hold this reservation", "not_holder")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Guest Content Views
// =============================================================================

func (h *Handler) handleGuestMenu(w http.ResponseWriter, r *http.Request) {
	event, ok := h.guestEvent(w, r)
	if !ok {
		return
	}
	if _, ok := h.guestOf(w, r, event); !ok {
		return
	}

	items, err := h.store.ListMenuByEvent(r.Context(), event.ID)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, items)
}

func (h *Handler) handleGuestSchedule(w http.ResponseWriter, r *http.Request) {
	event, ok := h.guestEvent(w, r)
	if !ok {
		return
	}
	if _, ok := h.guestOf(w, r, event); !ok {
		return
	}

	items, err := h.store.ListScheduleByEvent(r.Context(), event.ID)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, items)
}

func (h *Handler) handleGuestGallery(w http.ResponseWriter, r *http.Request) {
	event, ok := h.guestEvent(w, r)
	if !ok {
		return
	}
	if _, ok := h.guestOf(w, r, event); !ok {
		return
	}

	// Guests only ever see approved photos.
	photos, err := h.store.ListPhotosByEvent(r.Context(), event.ID, true)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, photos)
}

// handleGuestSegments shows the approved toastmaster program.
func (h *Handler) handleGuestSegments(w http.ResponseWriter, r *http.Request) {
	event, ok := h.guestEvent(w, r)
	if !ok {
		return
	}
	if _, ok := h.guestOf(w, r, event); !ok {
		return
	}

	items, err := h.store.ListToastmasterByEvent(r.Context(), event.ID, true)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, items)
}

// handleGuestSubmitSegment lets a guest propose a toastmaster segment
// ("indslag"). Submissions start unapproved and stay hidden from the
// program until the organizer approves them.
func (h *Handler) handleGuestSubmitSegment(w http.ResponseWriter, r *http.Request) {
	event, ok := h.guestEvent(w, r)
	if !ok {
		return
	}
	principal, ok := h.guestOf(w, r, event)
	if !ok {
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

	item := domain.NewToastmasterItem(event.ID, req.Title, principal.GuestID)
	item.Description = req.Description
	item.DurationMinutes = req.DurationMinutes

	if err := h.store.CreateToastmasterItem(r.Context(), item); err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, item)
}
