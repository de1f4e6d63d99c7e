package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Subscription
// =============================================================================

var ErrInvalidSubscriptionTransition = errors.New("invalid subscription status transition")

// SubscriptionStatus is the billing state of a subscription.
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

// Counting reports whether a subscription in this status counts toward the
// one-per-account invariant and grants entitlements.
func (s SubscriptionStatus) Counting() bool {
	return s == SubscriptionActive || s == SubscriptionPastDue
}

// subscriptionTransitions lists the allowed status transitions.
var subscriptionTransitions = map[SubscriptionStatus][]SubscriptionStatus{
	SubscriptionActive:   {SubscriptionPastDue, SubscriptionCanceled},
	SubscriptionPastDue:  {SubscriptionActive, SubscriptionCanceled},
	SubscriptionCanceled: {SubscriptionActive}, // reactivation
}

// Subscription links an account to a plan. Subscriptions are never hard
// deleted; canceled rows stay for billing history.
type Subscription struct {
	ID               string             `json:"id"`
	AccountID        string             `json:"account_id"`
	PlanID           PlanID             `json:"plan_id"`
	Status           SubscriptionStatus `json:"status"`
	GatewayRef       string             `json:"gateway_ref,omitempty"` // payment provider's subscription id
	CurrentPeriodEnd time.Time          `json:"current_period_end"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// NewSubscription creates an active subscription, as written by the
// checkout-completed webhook.
func NewSubscription(accountID string, planID PlanID, gatewayRef string, periodEnd time.Time) *Subscription {
	now := time.Now().UTC()
	return &Subscription{
		ID:               "sub_" + uuid.New().String()[:8],
		AccountID:        accountID,
		PlanID:           planID,
		Status:           SubscriptionActive,
		GatewayRef:       gatewayRef,
		CurrentPeriodEnd: periodEnd,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// Transition moves the subscription to a new status if the transition is
// allowed.
func (s *Subscription) Transition(to SubscriptionStatus) error {
	for _, allowed := range subscriptionTransitions[s.Status] {
		if allowed == to {
			s.Status = to
			s.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return ErrInvalidSubscriptionTransition
}

// =============================================================================
// Payment History
// =============================================================================

// PaymentStatus is the outcome of a gateway payment.
type PaymentStatus string

const (
	PaymentSucceeded PaymentStatus = "succeeded"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// Payment records one payment reported by the gateway webhook.
type Payment struct {
	ID         string        `json:"id"`
	AccountID  string        `json:"account_id"`
	AmountOre  int64         `json:"amount_ore"`
	Currency   string        `json:"currency"`
	Status     PaymentStatus `json:"status"`
	GatewayRef string        `json:"gateway_ref"`
	CreatedAt  time.Time     `json:"created_at"`
}

// NewPayment creates a payment history row.
func NewPayment(accountID string, amount int64, currency string, status PaymentStatus, gatewayRef string) *Payment {
	return &Payment{
		ID:         "pay_" + uuid.New().String()[:8],
		AccountID:  accountID,
		AmountOre:  amount,
		Currency:   currency,
		Status:     status,
		GatewayRef: gatewayRef,
		CreatedAt:  time.Now().UTC(),
	}
}
