package billing

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/festside/festside/internal/core/domain"
	"github.com/festside/festside/internal/shell/store"
)

var (
	ErrBadSignature   = errors.New("webhook signature mismatch")
	ErrUnknownEvent   = errors.New("unknown webhook event type")
	ErrMalformedEvent = errors.New("malformed webhook event")
	ErrUnknownAccount = errors.New("webhook references unknown account")
	ErrUnknownGateway = errors.New("webhook references unknown gateway subscription")
)

// Webhook event types sent by the gateway.
const (
	EventCheckoutCompleted    = "checkout.completed"
	EventPaymentSucceeded     = "payment.succeeded"
	EventPaymentFailed        = "payment.failed"
	EventSubscriptionCanceled = "subscription.canceled"
)

// Event is the gateway's webhook envelope.
type Event struct {
	Type       string        `json:"type"`
	AccountID  string        `json:"account_id"`
	PlanID     domain.PlanID `json:"plan,omitempty"`
	GatewayRef string        `json:"subscription_ref,omitempty"`
	AmountOre  int64         `json:"amount_ore,omitempty"`
	Currency   string        `json:"currency,omitempty"`
	PeriodEnd  *time.Time    `json:"period_end,omitempty"`
}

// Processor turns gateway webhook events into subscription and payment rows.
type Processor struct {
	store  store.Store
	secret string
	logger *slog.Logger
}

// NewProcessor creates a webhook processor. The secret is compared against
// the gateway's signature header on every delivery.
func NewProcessor(s store.Store, secret string, logger *slog.Logger) *Processor {
	return &Processor{store: s, secret: secret, logger: logger}
}

// VerifySignature checks the shared-secret header in constant time.
func (p *Processor) VerifySignature(signature string) error {
	if subtle.ConstantTimeCompare([]byte(signature), []byte(p.secret)) != 1 {
		return ErrBadSignature
	}
	return nil
}

// Process decodes and applies one webhook delivery. Events are applied in a
// single transaction so a crash never leaves half a delivery behind.
func (p *Processor) Process(ctx context.Context, payload []byte) error {
	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	p.logger.Info("processing webhook event",
		"type", event.Type,
		"account_id", event.AccountID,
		"gateway_ref", event.GatewayRef)

	switch event.Type {
	case EventCheckoutCompleted:
		return p.checkoutCompleted(ctx, event)
	case EventPaymentSucceeded:
		return p.paymentOutcome(ctx, event, domain.PaymentSucceeded)
	case EventPaymentFailed:
		return p.paymentOutcome(ctx, event, domain.PaymentFailed)
	case EventSubscriptionCanceled:
		return p.subscriptionCanceled(ctx, event)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, event.Type)
	}
}

// checkoutCompleted activates the purchased plan. Any previous current
// subscription is canceled first, keeping the one-current-per-account
// invariant.
func (p *Processor) checkoutCompleted(ctx context.Context, event Event) error {
	if event.AccountID == "" || event.PlanID == "" || event.GatewayRef == "" {
		return ErrMalformedEvent
	}
	if _, err := p.store.GetAccount(ctx, event.AccountID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUnknownAccount
		}
		return err
	}

	periodEnd := time.Now().UTC().AddDate(0, 1, 0)
	if event.PeriodEnd != nil {
		periodEnd = *event.PeriodEnd
	}

	return p.store.WithTx(ctx, func(tx store.Store) error {
		previous, err := tx.CurrentSubscription(ctx, event.AccountID)
		if err == nil {
			if terr := previous.Transition(domain.SubscriptionCanceled); terr == nil {
				if uerr := tx.UpdateSubscription(ctx, previous); uerr != nil {
					return uerr
				}
			}
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		sub := domain.NewSubscription(event.AccountID, event.PlanID, event.GatewayRef, periodEnd)
		return tx.CreateSubscription(ctx, sub)
	})
}

// paymentOutcome records the payment and, on failure, moves the subscription
// to past_due. A failed payment never cancels outright; the gateway retries
// and reports cancellation separately.
func (p *Processor) paymentOutcome(ctx context.Context, event Event, status domain.PaymentStatus) error {
	if event.GatewayRef == "" {
		return ErrMalformedEvent
	}

	sub, err := p.store.GetSubscriptionByGatewayRef(ctx, event.GatewayRef)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUnknownGateway
		}
		return err
	}

	return p.store.WithTx(ctx, func(tx store.Store) error {
		payment := domain.NewPayment(sub.AccountID, event.AmountOre, event.Currency, status, event.GatewayRef)
		if err := tx.CreatePayment(ctx, payment); err != nil {
			return err
		}

		var to domain.SubscriptionStatus
		switch status {
		case domain.PaymentSucceeded:
			to = domain.SubscriptionActive
			if event.PeriodEnd != nil {
				sub.CurrentPeriodEnd = *event.PeriodEnd
			}
		case domain.PaymentFailed:
			to = domain.SubscriptionPastDue
		default:
			return nil
		}

		if sub.Status == to {
			return tx.UpdateSubscription(ctx, sub)
		}
		if err := sub.Transition(to); err != nil {
			// A late webhook against a canceled subscription: record the
			// payment, leave the status alone.
			p.logger.Warn("webhook status transition skipped",
				"subscription_id", sub.ID, "from", sub.Status, "to", to)
			return nil
		}
		return tx.UpdateSubscription(ctx, sub)
	})
}

func (p *Processor) subscriptionCanceled(ctx context.Context, event Event) error {
	if event.GatewayRef == "" {
		return ErrMalformedEvent
	}

	sub, err := p.store.GetSubscriptionByGatewayRef(ctx, event.GatewayRef)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUnknownGateway
		}
		return err
	}
	if sub.Status == domain.SubscriptionCanceled {
		return nil // idempotent redelivery
	}
	if err := sub.Transition(domain.SubscriptionCanceled); err != nil {
		return err
	}
	return p.store.UpdateSubscription(ctx, sub)
}
