// Package entitlement provides pure plan-limit validation functions.
// All functions here are free of I/O; the caller loads the effective plan
// and current usage from the store and passes them in.
package entitlement

import (
	"fmt"

	"github.com/festside/festside/internal/core/domain"
)

// =============================================================================
// Types
// =============================================================================

// ValidationResult represents the outcome of a limit validation check.
type ValidationResult struct {
	// Allowed indicates whether the operation is permitted within plan limits
	Allowed bool

	// Reason explains why the operation was rejected (empty if Allowed is true)
	Reason string
}

// Entitlements is the effective grant derived from an account's current
// subscription: the plan's limits plus its feature flags.
type Entitlements struct {
	PlanID   domain.PlanID       `json:"plan_id"`
	PlanName string              `json:"plan_name"`
	Limits   domain.PlanLimits   `json:"limits"`
	Features domain.PlanFeatures `json:"features"`
}

// FromPlan derives entitlements from a plan.
func FromPlan(plan domain.Plan) Entitlements {
	return Entitlements{
		PlanID:   plan.ID,
		PlanName: plan.Name,
		Limits:   plan.Limits,
		Features: plan.Features,
	}
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateEventCreation checks whether an account may create another event
// given its entitlements and current non-archived event count.
func ValidateEventCreation(ent Entitlements, currentEvents int) ValidationResult {
	if !ent.Limits.AllowsAnotherEvent(currentEvents) {
		return ValidationResult{
			Allowed: false,
			Reason:  fmt.Sprintf("event limit reached: %d/%d on the %s plan", currentEvents, *ent.Limits.MaxEvents, ent.PlanName),
		}
	}
	return ValidationResult{Allowed: true}
}

// ValidateGuestAddition checks whether adding n guests to an event with the
// given guest count stays within the plan's per-event guest limit.
func ValidateGuestAddition(ent Entitlements, currentGuests, n int) ValidationResult {
	if n < 1 {
		return ValidationResult{Allowed: false, Reason: "at least one guest must be added"}
	}
	if !ent.Limits.AllowsAnotherGuest(currentGuests, n) {
		return ValidationResult{
			Allowed: false,
			Reason:  fmt.Sprintf("guest limit reached: %d+%d exceeds %d on the %s plan", currentGuests, n, *ent.Limits.MaxGuests, ent.PlanName),
		}
	}
	return ValidationResult{Allowed: true}
}

// ValidateFeature checks whether the plan grants a named feature.
func ValidateFeature(ent Entitlements, feature string) ValidationResult {
	allowed := false
	switch feature {
	case "seating":
		allowed = ent.Features.Seating
	case "checklist":
		allowed = ent.Features.Checklist
	case "budget":
		allowed = ent.Features.Budget
	case "toastmaster":
		allowed = ent.Features.Toastmaster
	case "custom_domain":
		allowed = ent.Features.CustomDomain
	}
	if !allowed {
		return ValidationResult{
			Allowed: false,
			Reason:  fmt.Sprintf("feature '%s' not included in the %s plan", feature, ent.PlanName),
		}
	}
	return ValidationResult{Allowed: true}
}

// =============================================================================
// Convenience Methods
// =============================================================================

// Ok returns true if the validation passed.
func (r ValidationResult) Ok() bool {
	return r.Allowed
}

// Error returns the reason as an error if validation failed, nil otherwise.
func (r ValidationResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("plan limit exceeded: %s", r.Reason)
}
