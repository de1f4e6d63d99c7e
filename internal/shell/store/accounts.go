package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/festside/festside/internal/core/domain"
)

// =============================================================================
// Account Operations
// =============================================================================

type accountRow struct {
	ID           string  `db:"id"`
	Email        string  `db:"email"`
	PasswordHash string  `db:"password_hash"`
	Name         string  `db:"name"`
	Phone        string  `db:"phone"`
	Active       bool    `db:"active"`
	Admin        bool    `db:"admin"`
	CreatedAt    string  `db:"created_at"`
	LastLoginAt  *string `db:"last_login_at"`
}

func (r accountRow) toDomain() *domain.Account {
	return &domain.Account{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Name:         r.Name,
		Phone:        r.Phone,
		Active:       r.Active,
		Admin:        r.Admin,
		CreatedAt:    parseTime(r.CreatedAt),
		LastLoginAt:  parseTimePtr(r.LastLoginAt),
	}
}

func (s *SQLiteStore) CreateAccount(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (id, email, password_hash, name, phone, active, admin, created_at, last_login_at)
		VALUES (:id, :email, :password_hash, :name, :phone, :active, :admin, :created_at, :last_login_at)`

	row := map[string]any{
		"id":            account.ID,
		"email":         account.Email,
		"password_hash": account.PasswordHash,
		"name":          account.Name,
		"phone":         account.Phone,
		"active":        account.Active,
		"admin":         account.Admin,
		"created_at":    account.CreatedAt.UTC().Format(time.RFC3339),
		"last_login_at": formatTimePtr(account.LastLoginAt),
	}

	if _, err := s.exec.NamedExecContext(ctx, query, row); err != nil {
		if isUniqueViolation(err, "accounts.email") {
			return NewStoreError("CreateAccount", "account", account.ID, "email already registered", ErrDuplicateEmail)
		}
		if isUniqueViolation(err, "accounts.id") {
			return NewStoreError("CreateAccount", "account", account.ID, "account with this ID already exists", ErrDuplicateID)
		}
		return NewStoreError("CreateAccount", "account", account.ID, err.Error(), err)
	}
	return nil
}

func (s *SQLiteStore) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	var row accountRow
	err := s.exec.GetContext(ctx, &row, `SELECT * FROM accounts WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewStoreError("GetAccount", "account", id, "account not found", ErrNotFound)
		}
		return nil, NewStoreError("GetAccount", "account", id, err.Error(), err)
	}
	return row.toDomain(), nil
}

func (s *SQLiteStore) GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var row accountRow
	err := s.exec.GetContext(ctx, &row, `SELECT * FROM accounts WHERE email = ?`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewStoreError("GetAccountByEmail", "account", "", "account not found", ErrNotFound)
		}
		return nil, NewStoreError("GetAccountByEmail", "account", "", err.Error(), err)
	}
	return row.toDomain(), nil
}

func (s *SQLiteStore) TouchAccountLogin(ctx context.Context, id string, at time.Time) error {
	_, err := s.exec.ExecContext(ctx,
		`UPDATE accounts SET last_login_at = ? WHERE id = ?`,
		at.UTC().Format(time.RFC3339), id)
	if err != nil {
		return NewStoreError("TouchAccountLogin", "account", id, err.Error(), err)
	}
	return nil
}
