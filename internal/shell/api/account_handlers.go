package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/festside/festside/internal/core/auth"
	"github.com/festside/festside/internal/core/domain"
	"github.com/festside/festside/internal/core/entitlement"
	"github.com/festside/festside/internal/core/validation"
	"github.com/festside/festside/internal/shell/api/middleware"
	"github.com/festside/festside/internal/shell/store"
)

// =============================================================================
// Account Handlers
// =============================================================================

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.decode(w, r, &req) {
		return
	}
	if field, msg := validation.ValidateRegisterFields(req.Email, req.Password, req.Name); field != "" {
		h.writeFieldError(w, field, msg)
		return
	}

	account, err := domain.NewAccount(req.Email, req.Password, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidEmail):
			h.writeFieldError(w, "email", "invalid email address")
		case errors.Is(err, domain.ErrPasswordTooShort):
			h.writeFieldError(w, "password", "password is too short")
		default:
			h.writeError(w, http.StatusInternalServerError, "internal error", "internal_error")
		}
		return
	}
	account.Phone = req.Phone

	if err := h.store.CreateAccount(r.Context(), account); err != nil {
		h.writeStoreError(w, err)
		return
	}

	h.startOrganizerSession(w, r, account)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decode(w, r, &req) {
		return
	}
	if field, msg := validation.ValidateLoginFields(req.Email, req.Password); field != "" {
		h.writeFieldError(w, field, msg)
		return
	}

	account, err := h.store.GetAccountByEmail(r.Context(), domain.NormalizeEmail(req.Email))
	if err != nil {
		// Same answer for unknown email and wrong password.
		h.writeError(w, http.StatusUnauthorized, "invalid credentials", "unauthorized")
		return
	}
	if !account.Active || !account.CheckPassword(req.Password) {
		h.writeError(w, http.StatusUnauthorized, "invalid credentials", "unauthorized")
		return
	}

	if err := h.store.TouchAccountLogin(r.Context(), account.ID, time.Now()); err != nil {
		h.logger.Warn("failed to record login time", "account_id", account.ID, "error", err)
	}

	h.startOrganizerSession(w, r, account)
}

func (h *Handler) startOrganizerSession(w http.ResponseWriter, r *http.Request, account *domain.Account) {
	token := middleware.NewSessionToken()
	expires := time.Now().Add(middleware.SessionTTL)
	err := h.store.CreateSession(r.Context(), &store.Session{
		Token:     token,
		Kind:      store.SessionOrganizer,
		AccountID: account.ID,
		ExpiresAt: expires,
		CreatedAt: time.Now(),
	})
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	middleware.SetSessionCookie(w, token, expires)
	h.writeJSON(w, http.StatusOK, accountResponse(account))
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.CookieName); err == nil {
		if err := h.store.DeleteSession(r.Context(), cookie.Value); err != nil {
			h.logger.Warn("failed to delete session", "error", err)
		}
	}
	middleware.ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	principal := auth.FromContext(r.Context())
	account, err := h.store.GetAccount(r.Context(), principal.AccountID)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, accountResponse(account))
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	principal := auth.FromContext(r.Context())

	events, err := h.store.ListEventsByOwner(r.Context(), principal.AccountID, store.DefaultListOptions())
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	plan, err := h.store.EffectivePlan(r.Context(), principal.AccountID)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, DashboardResponse{
		Events:       events,
		Entitlements: entitlement.FromPlan(*plan),
	})
}

func (h *Handler) handleEntitlements(w http.ResponseWriter, r *http.Request) {
	principal := auth.FromContext(r.Context())
	plan, err := h.store.EffectivePlan(r.Context(), principal.AccountID)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, EntitlementsResponse{
		Entitlements: entitlement.FromPlan(*plan),
	})
}

func (h *Handler) handleListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.store.ListPlans(r.Context())
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, plans)
}

func accountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		ID:    a.ID,
		Email: a.Email,
		Name:  a.Name,
		Phone: a.Phone,
		Admin: a.Admin,
	}
}
