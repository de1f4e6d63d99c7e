package domain

// =============================================================================
// Plan Catalog
// =============================================================================

// PlanID identifies a subscription tier.
type PlanID string

const (
	PlanFree    PlanID = "free"
	PlanBasic   PlanID = "basic"
	PlanPremium PlanID = "premium"
	PlanPro     PlanID = "pro"
)

// Plan is a named subscription tier. Plans are immutable reference data
// seeded by migration; the free plan must always exist.
type Plan struct {
	ID           PlanID       `json:"id"`
	Name         string       `json:"name"`
	Limits       PlanLimits   `json:"limits"`
	Features     PlanFeatures `json:"features"`
	PriceMonthly int64        `json:"price_monthly_ore"` // prices in øre
	PriceYearly  int64        `json:"price_yearly_ore"`
}

// PlanLimits defines the usage limits of a plan.
// A nil limit means unlimited; there is no sentinel value.
type PlanLimits struct {
	MaxEvents *int `json:"max_events"`
	MaxGuests *int `json:"max_guests"` // per event
}

// PlanFeatures is the typed feature set of a plan. The flags are decoded
// once at the store boundary, never probed as a loose JSON blob.
type PlanFeatures struct {
	Seating      bool `json:"seating"`
	Checklist    bool `json:"checklist"`
	Budget       bool `json:"budget"`
	Toastmaster  bool `json:"toastmaster"`
	CustomDomain bool `json:"custom_domain"`
}

// AllowsAnotherEvent reports whether a plan with these limits permits
// creating one more event given the current non-archived event count.
func (l PlanLimits) AllowsAnotherEvent(current int) bool {
	return l.MaxEvents == nil || current < *l.MaxEvents
}

// AllowsAnotherGuest reports whether a plan with these limits permits
// adding n more guests to an event with the given guest count.
func (l PlanLimits) AllowsAnotherGuest(current, n int) bool {
	return l.MaxGuests == nil || current+n <= *l.MaxGuests
}

// Limit is a convenience constructor for a bounded plan limit.
func Limit(n int) *int {
	return &n
}
