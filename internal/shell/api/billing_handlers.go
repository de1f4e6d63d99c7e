package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/festside/festside/internal/core/auth"
	"github.com/festside/festside/internal/core/domain"
	"github.com/festside/festside/internal/shell/billing"
	"github.com/festside/festside/internal/shell/store"
)

// =============================================================================
// Billing Handlers
// =============================================================================

// writeGatewayError maps gateway failures to a retryable user-facing error.
// Nothing retries automatically.
func (h *Handler) writeGatewayError(w http.ResponseWriter, err error) {
	if errors.Is(err, billing.ErrGatewayUnavailable) {
		h.writeError(w, http.StatusBadGateway, "payment provider is unavailable, try again shortly", "gateway_unavailable")
		return
	}
	h.writeError(w, http.StatusBadGateway, "payment provider rejected the request", "gateway_rejected")
}

func (h *Handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if !h.decode(w, r, &req) {
		return
	}

	plan, err := h.store.GetPlan(r.Context(), domain.PlanID(req.PlanID))
	if err != nil {
		h.writeFieldError(w, "plan_id", "unknown plan")
		return
	}
	if plan.ID == domain.PlanFree {
		h.writeFieldError(w, "plan_id", "the free plan needs no checkout")
		return
	}

	principal := auth.FromContext(r.Context())
	url, err := h.gateway.CreateCheckoutSession(r.Context(), principal.AccountID, plan.ID, req.Yearly)
	if err != nil {
		h.writeGatewayError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, CheckoutResponse{URL: url})
}

func (h *Handler) handlePortal(w http.ResponseWriter, r *http.Request) {
	principal := auth.FromContext(r.Context())
	url, err := h.gateway.CreatePortalSession(r.Context(), principal.AccountID)
	if err != nil {
		h.writeGatewayError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, CheckoutResponse{URL: url})
}

func (h *Handler) handleCancelSubscription(w http.ResponseWriter, r *http.Request) {
	principal := auth.FromContext(r.Context())
	sub, err := h.store.CurrentSubscription(r.Context(), principal.AccountID)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	// Tell the gateway first; our row follows its webhook, but we flip the
	// status eagerly so the UI reflects the cancellation at once.
	if err := h.gateway.CancelSubscription(r.Context(), sub.GatewayRef); err != nil {
		h.writeGatewayError(w, err)
		return
	}
	if err := sub.Transition(domain.SubscriptionCanceled); err != nil {
		h.writeError(w, http.StatusConflict, "subscription cannot be canceled", "invalid_state")
		return
	}
	if err := h.store.UpdateSubscription(r.Context(), sub); err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, sub)
}

func (h *Handler) handleReactivateSubscription(w http.ResponseWriter, r *http.Request) {
	principal := auth.FromContext(r.Context())

	// The canceled subscription is not "current", so look up the latest row
	// by gateway reference via payment history is overkill; organizers
	// reactivate through the most recent canceled subscription.
	sub, err := h.latestCanceledSubscription(r, principal.AccountID)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	if err := h.gateway.ReactivateSubscription(r.Context(), sub.GatewayRef); err != nil {
		h.writeGatewayError(w, err)
		return
	}
	if err := sub.Transition(domain.SubscriptionActive); err != nil {
		h.writeError(w, http.StatusConflict, "subscription cannot be reactivated", "invalid_state")
		return
	}
	if err := h.store.UpdateSubscription(r.Context(), sub); err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, sub)
}

func (h *Handler) latestCanceledSubscription(r *http.Request, accountID string) (*domain.Subscription, error) {
	// A current subscription blocks reactivation of an older one.
	if _, err := h.store.CurrentSubscription(r.Context(), accountID); err == nil {
		return nil, store.NewStoreError("Reactivate", "subscription", "", "account already has a current subscription", store.ErrDuplicateID)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	return h.store.LatestCanceledSubscription(r.Context(), accountID)
}

func (h *Handler) handleListPayments(w http.ResponseWriter, r *http.Request) {
	principal := auth.FromContext(r.Context())
	payments, err := h.store.ListPaymentsByAccount(r.Context(), principal.AccountID, store.DefaultListOptions())
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, payments)
}

// =============================================================================
// Payment Webhook
// =============================================================================

func (h *Handler) handlePaymentWebhook(w http.ResponseWriter, r *http.Request) {
	if err := h.webhooks.VerifySignature(r.Header.Get("X-Webhook-Signature")); err != nil {
		h.writeError(w, http.StatusUnauthorized, "bad signature", "unauthorized")
		return
	}

	payload, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "unreadable body", "validation_error")
		return
	}

	if err := h.webhooks.Process(r.Context(), payload); err != nil {
		switch {
		case errors.Is(err, billing.ErrMalformedEvent),
			errors.Is(err, billing.ErrUnknownEvent),
			errors.Is(err, billing.ErrUnknownAccount),
			errors.Is(err, billing.ErrUnknownGateway):
			// Permanent failures: acknowledge with 4xx so the gateway stops
			// redelivering.
			h.writeError(w, http.StatusBadRequest, err.Error(), "webhook_rejected")
		default:
			// Transient failure: 5xx asks the gateway to redeliver.
			h.logger.Error("webhook processing failed", "error", err)
			h.writeError(w, http.StatusInternalServerError, "internal error", "internal_error")
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
