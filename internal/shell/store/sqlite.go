package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// =============================================================================
// Executor Interface - Shared by DB and Transaction
// =============================================================================

// executor abstracts database operations that can be performed on both
// a database connection and a transaction.
type executor interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// =============================================================================
// SQLiteStore
// =============================================================================

// SQLiteStore implements Store using SQLite. Inside WithTx, exec is the
// transaction; otherwise it is the connection pool.
type SQLiteStore struct {
	db   *sqlx.DB
	exec executor
}

// NewSQLiteStore creates a new SQLite store and runs migrations.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite3", dsn+"?_foreign_keys=on")
	if err != nil {
		return nil, NewStoreError("NewSQLiteStore", "", "", "failed to open database", ErrConnectionFailed)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, NewStoreError("NewSQLiteStore", "", "", "failed to ping database", ErrConnectionFailed)
	}

	if err := runMigrations(db.DB); err != nil {
		db.Close()
		return nil, NewStoreError("NewSQLiteStore", "", "", err.Error(), ErrMigrationFailed)
	}

	return &SQLiteStore{db: db, exec: db}, nil
}

// runMigrations runs database migrations using embedded SQL files.
func runMigrations(db *sql.DB) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// WithTx runs fn against a store bound to a single transaction, committing
// on success and rolling back on error.
func (s *SQLiteStore) WithTx(ctx context.Context, fn func(Store) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return NewStoreError("WithTx", "", "", "failed to begin transaction", ErrTxFailed)
	}

	txStore := &SQLiteStore{db: s.db, exec: tx}

	if err := fn(txStore); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return NewStoreError("WithTx", "", "", fmt.Sprintf("rollback failed after error: %v", err), ErrTxFailed)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return NewStoreError("WithTx", "", "", "failed to commit transaction", ErrTxFailed)
	}

	return nil
}

// =============================================================================
// Sessions
// =============================================================================

// SessionKind distinguishes organizer and guest sessions.
type SessionKind string

const (
	SessionOrganizer SessionKind = "organizer"
	SessionGuest     SessionKind = "guest"
)

// Session is one server-side session row, keyed by the cookie token.
// Guest sessions always carry the (GuestID, EventID) pair.
type Session struct {
	Token     string
	Kind      SessionKind
	AccountID string // organizer sessions
	GuestID   string // guest sessions
	EventID   string // guest sessions
	ExpiresAt time.Time
	CreatedAt time.Time
}

type sessionRow struct {
	Token     string `db:"token"`
	Kind      string `db:"kind"`
	AccountID string `db:"account_id"`
	GuestID   string `db:"guest_id"`
	EventID   string `db:"event_id"`
	ExpiresAt string `db:"expires_at"`
	CreatedAt string `db:"created_at"`
}

func (s *SQLiteStore) CreateSession(ctx context.Context, session *Session) error {
	query := `
		INSERT INTO sessions (token, kind, account_id, guest_id, event_id, expires_at, created_at)
		VALUES (:token, :kind, :account_id, :guest_id, :event_id, :expires_at, :created_at)`

	row := map[string]any{
		"token":      session.Token,
		"kind":       string(session.Kind),
		"account_id": session.AccountID,
		"guest_id":   session.GuestID,
		"event_id":   session.EventID,
		"expires_at": session.ExpiresAt.UTC().Format(time.RFC3339),
		"created_at": session.CreatedAt.UTC().Format(time.RFC3339),
	}

	if _, err := s.exec.NamedExecContext(ctx, query, row); err != nil {
		return NewStoreError("CreateSession", "session", "", err.Error(), err)
	}
	return nil
}

func (s *SQLiteStore) GetSession(ctx context.Context, token string) (*Session, error) {
	var row sessionRow
	err := s.exec.GetContext(ctx, &row,
		`SELECT token, kind, account_id, guest_id, event_id, expires_at, created_at
		 FROM sessions WHERE token = ?`, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewStoreError("GetSession", "session", "", "session not found", ErrNotFound)
		}
		return nil, NewStoreError("GetSession", "session", "", err.Error(), err)
	}

	return &Session{
		Token:     row.Token,
		Kind:      SessionKind(row.Kind),
		AccountID: row.AccountID,
		GuestID:   row.GuestID,
		EventID:   row.EventID,
		ExpiresAt: parseTime(row.ExpiresAt),
		CreatedAt: parseTime(row.CreatedAt),
	}, nil
}

// DeleteSession removes a session. Deleting an absent token is not an
// error; logout is idempotent.
func (s *SQLiteStore) DeleteSession(ctx context.Context, token string) error {
	if _, err := s.exec.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token); err != nil {
		return NewStoreError("DeleteSession", "session", "", err.Error(), err)
	}
	return nil
}

func (s *SQLiteStore) DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error) {
	res, err := s.exec.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`,
		now.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, NewStoreError("DeleteExpiredSessions", "session", "", err.Error(), err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// =============================================================================
// Helpers
// =============================================================================

// parseTime parses an RFC3339 timestamp column, returning the zero time for
// empty or malformed values.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// parseTimePtr parses a nullable RFC3339 timestamp column.
func parseTimePtr(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t := parseTime(*s)
	return &t
}

// formatTimePtr formats a nullable timestamp for storage.
func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure on
// the given column (e.g. "events.slug").
func isUniqueViolation(err error, column string) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: "+column)
}

// isForeignKeyViolation reports whether err is a FOREIGN KEY failure.
func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
