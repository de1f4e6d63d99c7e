package domain

import "strconv"

// =============================================================================
// Slug Generation
// =============================================================================

// Slugify converts a person's name to a URL-safe event slug.
//
// The transformation rules are:
//   - Lowercase letters (a-z) are kept as-is
//   - Digits (0-9) are kept as-is
//   - Hyphens (-) are kept as-is
//   - Uppercase letters (A-Z) are converted to lowercase
//   - Spaces are converted to hyphens
//   - All other characters are removed
//
// This is a pure function with no side effects.
//
// Example:
//
//	Slugify("Sofie")             // returns "sofie"
//	Slugify("Emma Konfirmation") // returns "emma-konfirmation"
func Slugify(name string) string {
	slug := ""
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			slug += string(r)
		} else if r >= 'A' && r <= 'Z' {
			slug += string(r + 32) // convert to lowercase
		} else if r == ' ' {
			slug += "-"
		}
		// All other characters are dropped
	}
	if slug == "" {
		slug = "event"
	}
	return slug
}

// SlugCandidate returns the nth slug candidate for a base slug.
// The first candidate (n=0) is the base itself; later candidates carry a
// numeric suffix: "sofie", "sofie-1", "sofie-2", ...
//
// Slug uniqueness is ultimately enforced by the database's unique index;
// callers iterate candidates and retry on conflict rather than trusting a
// pre-check.
func SlugCandidate(base string, n int) string {
	if n <= 0 {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}
