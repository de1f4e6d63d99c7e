// Package auth provides request principals and their context plumbing.
//
// Two kinds of principal exist: an organizer (a logged-in account) and a
// guest. A guest principal always carries the (GuestID, EventID) pair:
// guest codes are unique per event only, so a guest identity checked
// without its event is a cross-event security hole.
package auth

import "context"

type contextKey string

const principalContextKey contextKey = "principal"

// =============================================================================
// Principal
// =============================================================================

// Kind distinguishes the two session types.
type Kind string

const (
	KindOrganizer Kind = "organizer"
	KindGuest     Kind = "guest"
)

// Principal is the authenticated identity of a request, reconstructed from
// the session store on every request. The zero value is unauthenticated.
type Principal struct {
	Kind Kind

	// AccountID is set for organizer sessions.
	AccountID string

	// GuestID and EventID are set for guest sessions and are only ever
	// meaningful together.
	GuestID string
	EventID string

	// Admin is set for organizer sessions of platform admins.
	Admin bool

	// Authenticated indicates whether the request carries a valid session.
	Authenticated bool
}

// Organizer returns an organizer principal for the given account.
func Organizer(accountID string, admin bool) Principal {
	return Principal{
		Kind:          KindOrganizer,
		AccountID:     accountID,
		Admin:         admin,
		Authenticated: true,
	}
}

// Guest returns a guest principal scoped to one event.
func Guest(guestID, eventID string) Principal {
	return Principal{
		Kind:          KindGuest,
		GuestID:       guestID,
		EventID:       eventID,
		Authenticated: true,
	}
}

// IsOrganizer reports whether the principal is a logged-in organizer.
func (p Principal) IsOrganizer() bool {
	return p.Authenticated && p.Kind == KindOrganizer
}

// IsGuestOf reports whether the principal is a guest of the given event.
// The event check is mandatory: a guest session from event A must never
// pass for event B, even if the numeric codes coincide.
func (p Principal) IsGuestOf(eventID string) bool {
	return p.Authenticated && p.Kind == KindGuest && p.EventID == eventID
}

// =============================================================================
// Context Storage
// =============================================================================

// WithPrincipal stores the principal in the request context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

// FromContext retrieves the principal from the request context.
// If none is found, returns an unauthenticated principal.
func FromContext(ctx context.Context) Principal {
	if p, ok := ctx.Value(principalContextKey).(Principal); ok {
		return p
	}
	return Principal{}
}
