// Package api provides the HTTP surface of Festside.
//
// Three route groups exist: the public surface (marketplace, guest event
// pages under /e/{slug}), the organizer app under /app, and the payment
// webhook. Session loading happens once, in middleware; handlers read the
// principal from the request context.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/festside/festside/internal/shell/api/middleware"
	"github.com/festside/festside/internal/shell/billing"
	"github.com/festside/festside/internal/shell/store"
)

// =============================================================================
// Handler
// =============================================================================

// Handler provides HTTP handlers for the API.
type Handler struct {
	store    store.Store
	gateway  billing.Gateway
	webhooks *billing.Processor
	logger   *slog.Logger

	// keepDeclineNote controls whether a declining guest's free-text note is
	// stored as a farewell message or dropped.
	keepDeclineNote bool
}

// Config carries handler construction options.
type Config struct {
	KeepDeclineNote bool
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, gw billing.Gateway, wh *billing.Processor, l *slog.Logger, cfg Config) *Handler {
	if l == nil {
		l = slog.Default()
	}
	if gw == nil {
		gw = billing.NoopClient{}
	}
	return &Handler{
		store:           s,
		gateway:         gw,
		webhooks:        wh,
		logger:          l,
		keepDeclineNote: cfg.KeepDeclineNote,
	}
}

// Routes returns the router with all routes configured.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(h.jsonContentType)
	r.Use(middleware.SessionLoader(h.store, h.logger))

	r.Get("/health", h.handleHealth)

	// Public auth surface
	r.Post("/auth/register", h.handleRegister)
	r.Post("/auth/login", h.handleLogin)
	r.Post("/auth/logout", h.handleLogout)

	// Public partner marketplace
	r.Route("/partners", func(r chi.Router) {
		r.Get("/categories", h.handleListPartnerCategories)
		r.Get("/", h.handleListPartners)
		r.Post("/{id}/inquiries", h.handleCreateInquiry)
	})

	// Public plan catalog
	r.Get("/plans", h.handleListPlans)

	// Guest surface, per event slug
	r.Route("/e/{slug}", func(r chi.Router) {
		r.Get("/", h.handleGuestEventPage)
		r.Post("/login", h.handleGuestLogin)
		r.Post("/logout", h.handleLogout)
		r.Post("/rsvp", h.handleGuestRSVP)
		r.Get("/wishlist", h.handleGuestWishlist)
		r.Post("/wishlist/{itemID}/reserve", h.handleGuestReserve)
		r.Post("/wishlist/{itemID}/release", h.handleGuestRelease)
		r.Get("/menu", h.handleGuestMenu)
		r.Get("/schedule", h.handleGuestSchedule)
		r.Get("/gallery", h.handleGuestGallery)
		r.Get("/indslag", h.handleGuestSegments)
		r.Post("/indslag", h.handleGuestSubmitSegment)
	})

	// Organizer app
	r.Route("/app", func(r chi.Router) {
		r.Use(middleware.RequireOrganizer)

		r.Get("/me", h.handleMe)
		r.Get("/dashboard", h.handleDashboard)
		r.Get("/entitlements", h.handleEntitlements)

		r.Route("/events", func(r chi.Router) {
			r.Post("/", h.handleCreateEvent)
			r.Get("/", h.handleListEvents)

			r.Route("/{eventID}", func(r chi.Router) {
				r.Use(h.requireEventOwner)

				r.Get("/", h.handleGetEvent)
				r.Put("/", h.handleUpdateEvent)

				r.Post("/guests", h.handleAddGuests)
				r.Get("/guests", h.handleListGuests)
				r.Put("/guests/{guestID}", h.handleUpdateGuest)

				r.Post("/wishlist", h.handleCreateWishlistItem)
				r.Get("/wishlist", h.handleListWishlist)
				r.Put("/wishlist/{itemID}", h.handleUpdateWishlistItem)
				r.Delete("/wishlist/{itemID}", h.handleDeleteWishlistItem)

				r.Post("/menu", h.handleCreateMenuItem)
				r.Delete("/menu/{itemID}", h.handleDeleteMenuItem)
				r.Post("/schedule", h.handleCreateScheduleItem)
				r.Delete("/schedule/{itemID}", h.handleDeleteScheduleItem)

				r.Post("/photos", h.handleCreatePhoto)
				r.Get("/photos", h.handleListPhotos)
				r.Post("/photos/{photoID}/approve", h.handleApprovePhoto)

				r.Post("/toastmaster", h.handleCreateToastmasterItem)
				r.Get("/toastmaster", h.handleListToastmaster)
				r.Post("/toastmaster/{itemID}/approve", h.handleApproveToastmasterItem)
				r.Post("/toastmaster/messages", h.handleCreateToastmasterMessage)
				r.Get("/toastmaster/messages", h.handleListToastmasterMessages)
			})
		})

		r.Route("/billing", func(r chi.Router) {
			r.Post("/checkout", h.handleCheckout)
			r.Post("/portal", h.handlePortal)
			r.Post("/cancel", h.handleCancelSubscription)
			r.Post("/reactivate", h.handleReactivateSubscription)
			r.Get("/payments", h.handleListPayments)
		})

		r.Route("/partner", func(r chi.Router) {
			r.Put("/", h.handleUpsertPartnerProfile)
			r.Get("/", h.handleGetPartnerProfile)
			r.Get("/inquiries", h.handleListInquiries)
		})

		// Platform moderation
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Get("/partners", h.handleAdminListPartners)
			r.Post("/partners/{id}/approve", h.handleAdminSetPartnerStatus(true))
			r.Post("/partners/{id}/reject", h.handleAdminSetPartnerStatus(false))
		})
	})

	// Gateway webhook
	r.Post("/webhooks/payment", h.handlePaymentWebhook)

	return r
}

// =============================================================================
// Middleware
// =============================================================================

// jsonContentType sets Content-Type header to application/json.
func (h *Handler) jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// =============================================================================
// Health Handler
// =============================================================================

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy"})
}

// =============================================================================
// Helpers
// =============================================================================

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode JSON", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message, code string) {
	h.writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

func (h *Handler) writeFieldError(w http.ResponseWriter, field, message string) {
	h.writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error: message,
		Code:  "validation_error",
		Field: field,
	})
}

// writeStoreError maps store sentinels to HTTP statuses.
func (h *Handler) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.writeError(w, http.StatusNotFound, "not found", "not_found")
	case errors.Is(err, store.ErrDuplicateEmail):
		h.writeError(w, http.StatusConflict, "email already registered", "duplicate_email")
	case errors.Is(err, store.ErrDuplicateID):
		h.writeError(w, http.StatusConflict, "already exists", "duplicate")
	default:
		h.logger.Error("store operation failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal error", "internal_error")
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON", "validation_error")
		return false
	}
	return true
}
