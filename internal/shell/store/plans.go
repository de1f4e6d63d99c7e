package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/festside/festside/internal/core/domain"
)

// =============================================================================
// Plan Catalog Operations
// =============================================================================

type planRow struct {
	ID           string `db:"id"`
	Name         string `db:"name"`
	MaxEvents    *int   `db:"max_events"`
	MaxGuests    *int   `db:"max_guests"`
	Features     string `db:"features"`
	PriceMonthly int64  `db:"price_monthly"`
	PriceYearly  int64  `db:"price_yearly"`
}

// toDomain decodes the feature blob once, at the store boundary.
func (r planRow) toDomain() (*domain.Plan, error) {
	var features domain.PlanFeatures
	if r.Features != "" {
		if err := json.Unmarshal([]byte(r.Features), &features); err != nil {
			return nil, err
		}
	}
	return &domain.Plan{
		ID:   domain.PlanID(r.ID),
		Name: r.Name,
		Limits: domain.PlanLimits{
			MaxEvents: r.MaxEvents,
			MaxGuests: r.MaxGuests,
		},
		Features:     features,
		PriceMonthly: r.PriceMonthly,
		PriceYearly:  r.PriceYearly,
	}, nil
}

func (s *SQLiteStore) GetPlan(ctx context.Context, id domain.PlanID) (*domain.Plan, error) {
	var row planRow
	err := s.exec.GetContext(ctx, &row, `SELECT * FROM plans WHERE id = ?`, string(id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewStoreError("GetPlan", "plan", string(id), "plan not found", ErrNotFound)
		}
		return nil, NewStoreError("GetPlan", "plan", string(id), err.Error(), err)
	}
	plan, err := row.toDomain()
	if err != nil {
		return nil, NewStoreError("GetPlan", "plan", string(id), "failed to decode features", err)
	}
	return plan, nil
}

func (s *SQLiteStore) ListPlans(ctx context.Context) ([]domain.Plan, error) {
	var rows []planRow
	err := s.exec.SelectContext(ctx, &rows, `SELECT * FROM plans ORDER BY price_monthly`)
	if err != nil {
		return nil, NewStoreError("ListPlans", "plan", "", err.Error(), err)
	}
	plans := make([]domain.Plan, 0, len(rows))
	for _, r := range rows {
		plan, err := r.toDomain()
		if err != nil {
			return nil, NewStoreError("ListPlans", "plan", r.ID, "failed to decode features", err)
		}
		plans = append(plans, *plan)
	}
	return plans, nil
}

// =============================================================================
// Subscription Operations
// =============================================================================

type subscriptionRow struct {
	ID               string `db:"id"`
	AccountID        string `db:"account_id"`
	PlanID           string `db:"plan_id"`
	Status           string `db:"status"`
	GatewayRef       string `db:"gateway_ref"`
	CurrentPeriodEnd string `db:"current_period_end"`
	CreatedAt        string `db:"created_at"`
	UpdatedAt        string `db:"updated_at"`
}

func (r subscriptionRow) toDomain() *domain.Subscription {
	return &domain.Subscription{
		ID:               r.ID,
		AccountID:        r.AccountID,
		PlanID:           domain.PlanID(r.PlanID),
		Status:           domain.SubscriptionStatus(r.Status),
		GatewayRef:       r.GatewayRef,
		CurrentPeriodEnd: parseTime(r.CurrentPeriodEnd),
		CreatedAt:        parseTime(r.CreatedAt),
		UpdatedAt:        parseTime(r.UpdatedAt),
	}
}

func subscriptionParams(sub *domain.Subscription) map[string]any {
	return map[string]any{
		"id":                 sub.ID,
		"account_id":         sub.AccountID,
		"plan_id":            string(sub.PlanID),
		"status":             string(sub.Status),
		"gateway_ref":        sub.GatewayRef,
		"current_period_end": sub.CurrentPeriodEnd.UTC().Format(time.RFC3339),
		"created_at":         sub.CreatedAt.UTC().Format(time.RFC3339),
		"updated_at":         sub.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func (s *SQLiteStore) CreateSubscription(ctx context.Context, sub *domain.Subscription) error {
	query := `
		INSERT INTO subscriptions (id, account_id, plan_id, status, gateway_ref, current_period_end, created_at, updated_at)
		VALUES (:id, :account_id, :plan_id, :status, :gateway_ref, :current_period_end, :created_at, :updated_at)`

	if _, err := s.exec.NamedExecContext(ctx, query, subscriptionParams(sub)); err != nil {
		if isUniqueViolation(err, "subscriptions.id") {
			return NewStoreError("CreateSubscription", "subscription", sub.ID, "subscription with this ID already exists", ErrDuplicateID)
		}
		if isForeignKeyViolation(err) {
			return NewStoreError("CreateSubscription", "subscription", sub.ID, "account or plan does not exist", ErrForeignKey)
		}
		return NewStoreError("CreateSubscription", "subscription", sub.ID, err.Error(), err)
	}
	return nil
}

func (s *SQLiteStore) UpdateSubscription(ctx context.Context, sub *domain.Subscription) error {
	query := `
		UPDATE subscriptions
		SET plan_id = :plan_id, status = :status, gateway_ref = :gateway_ref,
		    current_period_end = :current_period_end, updated_at = :updated_at
		WHERE id = :id`

	res, err := s.exec.NamedExecContext(ctx, query, subscriptionParams(sub))
	if err != nil {
		return NewStoreError("UpdateSubscription", "subscription", sub.ID, err.Error(), err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return NewStoreError("UpdateSubscription", "subscription", sub.ID, "subscription not found", ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) GetSubscription(ctx context.Context, id string) (*domain.Subscription, error) {
	var row subscriptionRow
	err := s.exec.GetContext(ctx, &row, `SELECT * FROM subscriptions WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewStoreError("GetSubscription", "subscription", id, "subscription not found", ErrNotFound)
		}
		return nil, NewStoreError("GetSubscription", "subscription", id, err.Error(), err)
	}
	return row.toDomain(), nil
}

func (s *SQLiteStore) GetSubscriptionByGatewayRef(ctx context.Context, ref string) (*domain.Subscription, error) {
	var row subscriptionRow
	err := s.exec.GetContext(ctx, &row,
		`SELECT * FROM subscriptions WHERE gateway_ref = ? ORDER BY created_at DESC LIMIT 1`, ref)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewStoreError("GetSubscriptionByGatewayRef", "subscription", "", "subscription not found", ErrNotFound)
		}
		return nil, NewStoreError("GetSubscriptionByGatewayRef", "subscription", "", err.Error(), err)
	}
	return row.toDomain(), nil
}

func (s *SQLiteStore) CurrentSubscription(ctx context.Context, accountID string) (*domain.Subscription, error) {
	var row subscriptionRow
	err := s.exec.GetContext(ctx, &row, `
		SELECT * FROM subscriptions
		WHERE account_id = ? AND status IN ('active', 'past_due')
		ORDER BY created_at DESC
		LIMIT 1`, accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewStoreError("CurrentSubscription", "subscription", "", "no current subscription", ErrNotFound)
		}
		return nil, NewStoreError("CurrentSubscription", "subscription", "", err.Error(), err)
	}
	return row.toDomain(), nil
}

func (s *SQLiteStore) LatestCanceledSubscription(ctx context.Context, accountID string) (*domain.Subscription, error) {
	var row subscriptionRow
	err := s.exec.GetContext(ctx, &row, `
		SELECT * FROM subscriptions
		WHERE account_id = ? AND status = 'canceled'
		ORDER BY created_at DESC
		LIMIT 1`, accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewStoreError("LatestCanceledSubscription", "subscription", "", "no canceled subscription", ErrNotFound)
		}
		return nil, NewStoreError("LatestCanceledSubscription", "subscription", "", err.Error(), err)
	}
	return row.toDomain(), nil
}

// EffectivePlan resolves the plan granted by the account's current
// subscription, falling back to the free plan. The free plan row is part of
// the seeded catalog; its absence is a configuration error, not a 404.
func (s *SQLiteStore) EffectivePlan(ctx context.Context, accountID string) (*domain.Plan, error) {
	sub, err := s.CurrentSubscription(ctx, accountID)
	if err == nil {
		return s.GetPlan(ctx, sub.PlanID)
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	plan, err := s.GetPlan(ctx, domain.PlanFree)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, NewStoreError("EffectivePlan", "plan", string(domain.PlanFree), "free plan row is missing", ErrFreePlanMissing)
		}
		return nil, err
	}
	return plan, nil
}

// =============================================================================
// Payment History Operations
// =============================================================================

type paymentRow struct {
	ID         string `db:"id"`
	AccountID  string `db:"account_id"`
	AmountOre  int64  `db:"amount_ore"`
	Currency   string `db:"currency"`
	Status     string `db:"status"`
	GatewayRef string `db:"gateway_ref"`
	CreatedAt  string `db:"created_at"`
}

func (s *SQLiteStore) CreatePayment(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (id, account_id, amount_ore, currency, status, gateway_ref, created_at)
		VALUES (:id, :account_id, :amount_ore, :currency, :status, :gateway_ref, :created_at)`

	row := map[string]any{
		"id":          payment.ID,
		"account_id":  payment.AccountID,
		"amount_ore":  payment.AmountOre,
		"currency":    payment.Currency,
		"status":      string(payment.Status),
		"gateway_ref": payment.GatewayRef,
		"created_at":  payment.CreatedAt.UTC().Format(time.RFC3339),
	}

	if _, err := s.exec.NamedExecContext(ctx, query, row); err != nil {
		if isForeignKeyViolation(err) {
			return NewStoreError("CreatePayment", "payment", payment.ID, "account does not exist", ErrForeignKey)
		}
		return NewStoreError("CreatePayment", "payment", payment.ID, err.Error(), err)
	}
	return nil
}

func (s *SQLiteStore) ListPaymentsByAccount(ctx context.Context, accountID string, opts ListOptions) ([]domain.Payment, error) {
	opts = opts.Normalize()
	var rows []paymentRow
	err := s.exec.SelectContext(ctx, &rows, `
		SELECT * FROM payments WHERE account_id = ?
		ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		accountID, opts.Limit, opts.Offset)
	if err != nil {
		return nil, NewStoreError("ListPaymentsByAccount", "payment", "", err.Error(), err)
	}
	payments := make([]domain.Payment, 0, len(rows))
	for _, r := range rows {
		payments = append(payments, domain.Payment{
			ID:         r.ID,
			AccountID:  r.AccountID,
			AmountOre:  r.AmountOre,
			Currency:   r.Currency,
			Status:     domain.PaymentStatus(r.Status),
			GatewayRef: r.GatewayRef,
			CreatedAt:  parseTime(r.CreatedAt),
		})
	}
	return payments, nil
}
