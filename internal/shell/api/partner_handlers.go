package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/festside/festside/internal/core/auth"
	"github.com/festside/festside/internal/core/domain"
	"github.com/festside/festside/internal/core/validation"
	"github.com/festside/festside/internal/shell/store"
)

// =============================================================================
// Partner Marketplace Handlers
// =============================================================================

func (h *Handler) handleListPartnerCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.ListPartnerCategories(r.Context())
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, categories)
}

// handleListPartners is the public listing: approved partners only.
func (h *Handler) handleListPartners(w http.ResponseWriter, r *http.Request) {
	partners, err := h.store.ListPartners(r.Context(), r.URL.Query().Get("category"), true, store.DefaultListOptions())
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, partners)
}

func (h *Handler) handleCreateInquiry(w http.ResponseWriter, r *http.Request) {
	var req InquiryRequest
	if !h.decode(w, r, &req) {
		return
	}
	if field, msg := validation.ValidateInquiryFields(req.Name, req.Email, req.Message); field != "" {
		h.writeFieldError(w, field, msg)
		return
	}

	partner, err := h.store.GetPartner(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	if !partner.Visible() {
		// Unapproved profiles are invisible, inquiries included.
		h.writeError(w, http.StatusNotFound, "not found", "not_found")
		return
	}

	inquiry := domain.NewPartnerInquiry(partner.ID, req.Name, req.Email, req.Message)
	if err := h.store.CreatePartnerInquiry(r.Context(), inquiry); err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, inquiry)
}

// =============================================================================
// Partner Profile (organizer side)
// =============================================================================

// handleUpsertPartnerProfile creates or updates the account's partner
// profile. Edits to an approved profile drop it back to pending for
// re-moderation.
func (h *Handler) handleUpsertPartnerProfile(w http.ResponseWriter, r *http.Request) {
	var req PartnerProfileRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Name == "" {
		h.writeFieldError(w, "name", "name is required")
		return
	}
	if req.CategoryID == "" {
		h.writeFieldError(w, "category_id", "category is required")
		return
	}

	principal := auth.FromContext(r.Context())

	partner, err := h.store.GetPartnerByAccount(r.Context(), principal.AccountID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.writeStoreError(w, err)
			return
		}
		partner, err = domain.NewPartner(principal.AccountID, req.CategoryID, req.Name)
		if err != nil {
			h.writeFieldError(w, "name", err.Error())
			return
		}
		applyPartnerProfile(partner, req)
		if err := h.store.CreatePartner(r.Context(), partner); err != nil {
			h.writeStoreError(w, err)
			return
		}
		h.writeJSON(w, http.StatusCreated, partner)
		return
	}

	partner.CategoryID = req.CategoryID
	partner.Name = req.Name
	applyPartnerProfile(partner, req)
	partner.Status = domain.PartnerPending

	if err := h.store.UpdatePartner(r.Context(), partner); err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, partner)
}

func applyPartnerProfile(p *domain.Partner, req PartnerProfileRequest) {
	p.Description = req.Description
	p.Website = req.Website
	p.Phone = req.Phone
	p.City = req.City
}

func (h *Handler) handleGetPartnerProfile(w http.ResponseWriter, r *http.Request) {
	principal := auth.FromContext(r.Context())
	partner, err := h.store.GetPartnerByAccount(r.Context(), principal.AccountID)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, partner)
}

// =============================================================================
// Admin Moderation
// =============================================================================

// handleAdminListPartners lists all partner profiles, pending included.
func (h *Handler) handleAdminListPartners(w http.ResponseWriter, r *http.Request) {
	partners, err := h.store.ListPartners(r.Context(), r.URL.Query().Get("category"), false, store.DefaultListOptions())
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, partners)
}

func (h *Handler) handleAdminSetPartnerStatus(approve bool) http.HandlerFunc {
	status := domain.PartnerRejected
	if approve {
		status = domain.PartnerApproved
	}
	return func(w http.ResponseWriter, r *http.Request) {
		partner, err := h.store.GetPartner(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			h.writeStoreError(w, err)
			return
		}
		partner.Status = status
		if err := h.store.UpdatePartner(r.Context(), partner); err != nil {
			h.writeStoreError(w, err)
			return
		}
		h.writeJSON(w, http.StatusOK, partner)
	}
}

func (h *Handler) handleListInquiries(w http.ResponseWriter, r *http.Request) {
	principal := auth.FromContext(r.Context())
	partner, err := h.store.GetPartnerByAccount(r.Context(), principal.AccountID)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	inquiries, err := h.store.ListPartnerInquiries(r.Context(), partner.ID, store.DefaultListOptions())
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, inquiries)
}
