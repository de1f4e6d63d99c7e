package entitlement

import (
	"testing"

	"github.com/festside/festside/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func freePlan() Entitlements {
	return FromPlan(domain.Plan{
		ID:   domain.PlanFree,
		Name: "Free",
		Limits: domain.PlanLimits{
			MaxEvents: domain.Limit(1),
			MaxGuests: domain.Limit(20),
		},
	})
}

func proPlan() Entitlements {
	return FromPlan(domain.Plan{
		ID:   domain.PlanPro,
		Name: "Pro",
		// nil limits: unlimited
		Features: domain.PlanFeatures{
			Seating:      true,
			Checklist:    true,
			Budget:       true,
			Toastmaster:  true,
			CustomDomain: true,
		},
	})
}

func TestValidateEventCreation_WithinLimit(t *testing.T) {
	result := ValidateEventCreation(freePlan(), 0)

	assert.True(t, result.Allowed)
	assert.Empty(t, result.Reason)
	assert.True(t, result.Ok())
	assert.NoError(t, result.Error())
}

func TestValidateEventCreation_FreePlanAtLimit(t *testing.T) {
	// Free plan, max_events=1, one existing active event
	result := ValidateEventCreation(freePlan(), 1)

	assert.False(t, result.Allowed)
	assert.Contains(t, result.Reason, "event limit reached")
	assert.Error(t, result.Error())
}

func TestValidateEventCreation_UnlimitedPlan(t *testing.T) {
	result := ValidateEventCreation(proPlan(), 500)
	assert.True(t, result.Allowed)
}

func TestValidateGuestAddition_WithinLimit(t *testing.T) {
	result := ValidateGuestAddition(freePlan(), 10, 5)
	assert.True(t, result.Allowed)
}

func TestValidateGuestAddition_ExceedsLimit(t *testing.T) {
	result := ValidateGuestAddition(freePlan(), 18, 3)

	assert.False(t, result.Allowed)
	assert.Contains(t, result.Reason, "guest limit reached")
}

func TestValidateGuestAddition_ZeroGuests(t *testing.T) {
	result := ValidateGuestAddition(freePlan(), 0, 0)
	assert.False(t, result.Allowed)
}

func TestValidateGuestAddition_BulkOnUnlimited(t *testing.T) {
	result := ValidateGuestAddition(proPlan(), 900, 250)
	assert.True(t, result.Allowed)
}

func TestValidateFeature(t *testing.T) {
	assert.False(t, ValidateFeature(freePlan(), "toastmaster").Allowed)
	assert.True(t, ValidateFeature(proPlan(), "toastmaster").Allowed)
	assert.False(t, ValidateFeature(proPlan(), "unknown").Allowed)
}
