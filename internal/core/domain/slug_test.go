package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// =============================================================================
// Slugify Tests
// =============================================================================

func TestSlugify_Basic(t *testing.T) {
	result := Slugify("Sofie")
	assert.Equal(t, "sofie", result)
}

func TestSlugify_TwoNames(t *testing.T) {
	result := Slugify("Mette Lars")
	assert.Equal(t, "mette-lars", result)
}

func TestSlugify_Uppercase(t *testing.T) {
	result := Slugify("EMMA")
	assert.Equal(t, "emma", result)
}

func TestSlugify_WithNumbers(t *testing.T) {
	result := Slugify("Emma 2010")
	assert.Equal(t, "emma-2010", result)
}

func TestSlugify_RemovesSpecialChars(t *testing.T) {
	result := Slugify("Søren!")
	assert.Equal(t, "sren", result)
}

func TestSlugify_PreservesHyphens(t *testing.T) {
	result := Slugify("anne-marie")
	assert.Equal(t, "anne-marie", result)
}

func TestSlugify_OnlySpecialChars(t *testing.T) {
	// Falls back to a generic base rather than an empty slug
	result := Slugify("!@#")
	assert.Equal(t, "event", result)
}

// =============================================================================
// SlugCandidate Tests
// =============================================================================

func TestSlugCandidate_First(t *testing.T) {
	assert.Equal(t, "sofie", SlugCandidate("sofie", 0))
}

func TestSlugCandidate_Suffixes(t *testing.T) {
	assert.Equal(t, "sofie-1", SlugCandidate("sofie", 1))
	assert.Equal(t, "sofie-2", SlugCandidate("sofie", 2))
}
