package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/festside/festside/internal/core/auth"
	"github.com/festside/festside/internal/core/domain"
	"github.com/festside/festside/internal/shell/store"
)

func setupStore(t *testing.T) store.Store {
	t.Helper()

	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// principalRecorder captures the principal the loader put in the context.
func principalRecorder(out *auth.Principal) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*out = auth.FromContext(r.Context())
	})
}

func mustAccount(t *testing.T, s store.Store) *domain.Account {
	t.Helper()

	account, err := domain.NewAccount("mw@example.com", "hunter2hunter2", "Middleware")
	require.NoError(t, err)
	require.NoError(t, s.CreateAccount(context.Background(), account))
	return account
}

func mustSession(t *testing.T, s store.Store, session *store.Session) string {
	t.Helper()

	session.Token = NewSessionToken()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	require.NoError(t, s.CreateSession(context.Background(), session))
	return session.Token
}

func requestWithCookie(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	}
	return req
}

func TestSessionLoader_ResolvesOrganizer(t *testing.T) {
	s := setupStore(t)
	account := mustAccount(t, s)
	token := mustSession(t, s, &store.Session{
		Kind:      store.SessionOrganizer,
		AccountID: account.ID,
		ExpiresAt: time.Now().Add(time.Hour),
	})

	var got auth.Principal
	SessionLoader(s, discardLogger())(principalRecorder(&got)).
		ServeHTTP(httptest.NewRecorder(), requestWithCookie(token))

	assert.True(t, got.IsOrganizer())
	assert.Equal(t, account.ID, got.AccountID)
	assert.False(t, got.Admin)
}

func TestSessionLoader_ResolvesGuest(t *testing.T) {
	s := setupStore(t)
	token := mustSession(t, s, &store.Session{
		Kind:      store.SessionGuest,
		GuestID:   "gst_abc",
		EventID:   "evt_abc",
		ExpiresAt: time.Now().Add(time.Hour),
	})

	var got auth.Principal
	SessionLoader(s, discardLogger())(principalRecorder(&got)).
		ServeHTTP(httptest.NewRecorder(), requestWithCookie(token))

	assert.False(t, got.IsOrganizer())
	assert.True(t, got.IsGuestOf("evt_abc"))
	assert.False(t, got.IsGuestOf("evt_other"))
}

func TestSessionLoader_ExpiredSessionIgnored(t *testing.T) {
	s := setupStore(t)
	account := mustAccount(t, s)
	token := mustSession(t, s, &store.Session{
		Kind:      store.SessionOrganizer,
		AccountID: account.ID,
		ExpiresAt: time.Now().Add(-time.Minute),
	})

	var got auth.Principal
	SessionLoader(s, discardLogger())(principalRecorder(&got)).
		ServeHTTP(httptest.NewRecorder(), requestWithCookie(token))

	assert.False(t, got.IsOrganizer())
}

func TestSessionLoader_UnknownTokenIgnored(t *testing.T) {
	s := setupStore(t)

	var got auth.Principal
	SessionLoader(s, discardLogger())(principalRecorder(&got)).
		ServeHTTP(httptest.NewRecorder(), requestWithCookie("deadbeef"))

	assert.False(t, got.IsOrganizer())
}

func TestSessionLoader_NoCookie(t *testing.T) {
	s := setupStore(t)

	var got auth.Principal
	SessionLoader(s, discardLogger())(principalRecorder(&got)).
		ServeHTTP(httptest.NewRecorder(), requestWithCookie(""))

	assert.False(t, got.IsOrganizer())
}

func TestRequireOrganizer(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Anonymous request.
	rec := httptest.NewRecorder()
	RequireOrganizer(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Guest principal is not enough.
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(auth.WithPrincipal(req.Context(), auth.Guest("gst_x", "evt_x")))
	RequireOrganizer(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Organizer passes.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(auth.WithPrincipal(req.Context(), auth.Organizer("acc_x", false)))
	RequireOrganizer(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// A plain organizer is not an admin.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(auth.WithPrincipal(req.Context(), auth.Organizer("acc_x", false)))
	RequireAdmin(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(auth.WithPrincipal(req.Context(), auth.Organizer("acc_x", true)))
	RequireAdmin(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
