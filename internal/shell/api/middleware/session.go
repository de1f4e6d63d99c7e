// Package middleware provides session authentication for the HTTP surface.
//
// Sessions are server-side rows keyed by a random token carried in a cookie.
// The middleware resolves the token to a principal on every request; handlers
// read the principal from the context and never see the cookie.
package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/festside/festside/internal/core/auth"
	"github.com/festside/festside/internal/shell/store"
)

// CookieName is the session cookie.
const CookieName = "festside_session"

// SessionTTL is how long a session lives. Both organizer and guest sessions
// use the same horizon.
const SessionTTL = 30 * 24 * time.Hour

// NewSessionToken returns a fresh random session token.
func NewSessionToken() string {
	buf := make([]byte, 32)
	rand.Read(buf)
	return hex.EncodeToString(buf)
}

// =============================================================================
// Session Loader
// =============================================================================

// SessionLoader resolves the session cookie to a principal and stores it in
// the request context. Requests without a valid session proceed
// unauthenticated; access control is the job of the Require* wrappers.
func SessionLoader(s store.Store, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(CookieName)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			session, err := s.GetSession(r.Context(), cookie.Value)
			if err != nil {
				if !errors.Is(err, store.ErrNotFound) {
					logger.Error("session lookup failed", "error", err)
				}
				next.ServeHTTP(w, r)
				return
			}
			if time.Now().After(session.ExpiresAt) {
				next.ServeHTTP(w, r)
				return
			}

			principal := principalFromSession(r.Context(), s, session)
			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
		})
	}
}

func principalFromSession(ctx context.Context, s store.Store, session *store.Session) auth.Principal {
	switch session.Kind {
	case store.SessionOrganizer:
		account, err := s.GetAccount(ctx, session.AccountID)
		if err != nil || !account.Active {
			return auth.Principal{}
		}
		return auth.Organizer(account.ID, account.Admin)
	case store.SessionGuest:
		// Guest principals always carry the (guest, event) pair; a session
		// row missing either half is invalid.
		if session.GuestID == "" || session.EventID == "" {
			return auth.Principal{}
		}
		return auth.Guest(session.GuestID, session.EventID)
	}
	return auth.Principal{}
}

// =============================================================================
// Access Control
// =============================================================================

// RequireOrganizer rejects requests without an organizer session.
func RequireOrganizer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !auth.FromContext(r.Context()).IsOrganizer() {
			writeUnauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests without a platform-admin session.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := auth.FromContext(r.Context())
		if !p.IsOrganizer() || !p.Admin {
			writeUnauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"authentication required","code":"unauthorized"}`))
}

// SetSessionCookie writes the session cookie on login.
func SetSessionCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie on logout.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
