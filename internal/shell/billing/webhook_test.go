package billing

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/festside/festside/internal/core/domain"
	"github.com/festside/festside/internal/shell/store"
)

func setupProcessor(t *testing.T) (*Processor, store.Store) {
	t.Helper()

	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "billing.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewProcessor(s, "whsec_test", logger), s
}

func newTestAccount(t *testing.T, s store.Store, email string) *domain.Account {
	t.Helper()

	account, err := domain.NewAccount(email, "hunter2hunter2", "Organizer")
	require.NoError(t, err)
	require.NoError(t, s.CreateAccount(context.Background(), account))
	return account
}

func marshalEvent(t *testing.T, event Event) []byte {
	t.Helper()

	payload, err := json.Marshal(event)
	require.NoError(t, err)
	return payload
}

func TestVerifySignature(t *testing.T) {
	p, _ := setupProcessor(t)

	assert.NoError(t, p.VerifySignature("whsec_test"))
	assert.ErrorIs(t, p.VerifySignature("whsec_wrong"), ErrBadSignature)
	assert.ErrorIs(t, p.VerifySignature(""), ErrBadSignature)
}

func TestProcess_CheckoutCompletedActivatesPlan(t *testing.T) {
	p, s := setupProcessor(t)
	ctx := context.Background()
	account := newTestAccount(t, s, "buyer@example.com")

	err := p.Process(ctx, marshalEvent(t, Event{
		Type:       EventCheckoutCompleted,
		AccountID:  account.ID,
		PlanID:     domain.PlanPremium,
		GatewayRef: "gw_sub_1",
	}))
	require.NoError(t, err)

	plan, err := s.EffectivePlan(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanPremium, plan.ID)
}

func TestProcess_CheckoutReplacesPreviousSubscription(t *testing.T) {
	p, s := setupProcessor(t)
	ctx := context.Background()
	account := newTestAccount(t, s, "upgrader@example.com")

	require.NoError(t, p.Process(ctx, marshalEvent(t, Event{
		Type:       EventCheckoutCompleted,
		AccountID:  account.ID,
		PlanID:     domain.PlanBasic,
		GatewayRef: "gw_old",
	})))
	require.NoError(t, p.Process(ctx, marshalEvent(t, Event{
		Type:       EventCheckoutCompleted,
		AccountID:  account.ID,
		PlanID:     domain.PlanPro,
		GatewayRef: "gw_new",
	})))

	// Exactly one current subscription, on the new plan.
	current, err := s.CurrentSubscription(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanPro, current.PlanID)
	assert.Equal(t, "gw_new", current.GatewayRef)

	old, err := s.GetSubscriptionByGatewayRef(ctx, "gw_old")
	require.NoError(t, err)
	assert.Equal(t, domain.SubscriptionCanceled, old.Status)
}

func TestProcess_PaymentFailedMovesToPastDue(t *testing.T) {
	p, s := setupProcessor(t)
	ctx := context.Background()
	account := newTestAccount(t, s, "latepayer@example.com")

	require.NoError(t, p.Process(ctx, marshalEvent(t, Event{
		Type:       EventCheckoutCompleted,
		AccountID:  account.ID,
		PlanID:     domain.PlanBasic,
		GatewayRef: "gw_late",
	})))

	require.NoError(t, p.Process(ctx, marshalEvent(t, Event{
		Type:       EventPaymentFailed,
		GatewayRef: "gw_late",
		AmountOre:  4900,
		Currency:   "dkk",
	})))

	sub, err := s.GetSubscriptionByGatewayRef(ctx, "gw_late")
	require.NoError(t, err)
	assert.Equal(t, domain.SubscriptionPastDue, sub.Status)

	// past_due still grants the plan.
	plan, err := s.EffectivePlan(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanBasic, plan.ID)

	payments, err := s.ListPaymentsByAccount(ctx, account.ID, store.DefaultListOptions())
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, domain.PaymentFailed, payments[0].Status)
}

func TestProcess_PaymentSucceededRecovers(t *testing.T) {
	p, s := setupProcessor(t)
	ctx := context.Background()
	account := newTestAccount(t, s, "recovered@example.com")

	require.NoError(t, p.Process(ctx, marshalEvent(t, Event{
		Type:       EventCheckoutCompleted,
		AccountID:  account.ID,
		PlanID:     domain.PlanBasic,
		GatewayRef: "gw_recover",
	})))
	require.NoError(t, p.Process(ctx, marshalEvent(t, Event{
		Type:       EventPaymentFailed,
		GatewayRef: "gw_recover",
		AmountOre:  4900,
		Currency:   "dkk",
	})))

	periodEnd := time.Now().UTC().AddDate(0, 1, 0).Truncate(time.Second)
	require.NoError(t, p.Process(ctx, marshalEvent(t, Event{
		Type:       EventPaymentSucceeded,
		GatewayRef: "gw_recover",
		AmountOre:  4900,
		Currency:   "dkk",
		PeriodEnd:  &periodEnd,
	})))

	sub, err := s.GetSubscriptionByGatewayRef(ctx, "gw_recover")
	require.NoError(t, err)
	assert.Equal(t, domain.SubscriptionActive, sub.Status)
	assert.True(t, periodEnd.Equal(sub.CurrentPeriodEnd))
}

func TestProcess_SubscriptionCanceledIsIdempotent(t *testing.T) {
	p, s := setupProcessor(t)
	ctx := context.Background()
	account := newTestAccount(t, s, "quitter@example.com")

	require.NoError(t, p.Process(ctx, marshalEvent(t, Event{
		Type:       EventCheckoutCompleted,
		AccountID:  account.ID,
		PlanID:     domain.PlanPremium,
		GatewayRef: "gw_quit",
	})))

	cancel := marshalEvent(t, Event{Type: EventSubscriptionCanceled, GatewayRef: "gw_quit"})
	require.NoError(t, p.Process(ctx, cancel))
	require.NoError(t, p.Process(ctx, cancel)) // redelivery

	plan, err := s.EffectivePlan(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanFree, plan.ID)
}

func TestProcess_RejectsBadInput(t *testing.T) {
	p, _ := setupProcessor(t)
	ctx := context.Background()

	assert.ErrorIs(t, p.Process(ctx, []byte("not json")), ErrMalformedEvent)
	assert.ErrorIs(t, p.Process(ctx, marshalEvent(t, Event{Type: "gift.teleported"})), ErrUnknownEvent)
	assert.ErrorIs(t, p.Process(ctx, marshalEvent(t, Event{
		Type: EventCheckoutCompleted, AccountID: "acc_x", PlanID: domain.PlanPro,
	})), ErrMalformedEvent)
	assert.ErrorIs(t, p.Process(ctx, marshalEvent(t, Event{
		Type: EventCheckoutCompleted, AccountID: "acc_missing",
		PlanID: domain.PlanPro, GatewayRef: "gw_x",
	})), ErrUnknownAccount)
	assert.ErrorIs(t, p.Process(ctx, marshalEvent(t, Event{
		Type: EventPaymentSucceeded, GatewayRef: "gw_unknown",
	})), ErrUnknownGateway)
}
