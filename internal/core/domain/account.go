// Package domain contains the core entities of the Festside platform.
// All types and functions here are pure (no I/O); persistence lives in
// internal/shell/store.
package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// =============================================================================
// Account Errors
// =============================================================================

var (
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
)

// =============================================================================
// Account
// =============================================================================

// Account represents a registered organizer.
type Account struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Name         string     `json:"name"`
	Phone        string     `json:"phone,omitempty"`
	Active       bool       `json:"active"`
	Admin        bool       `json:"admin"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// NewAccount creates an account with a bcrypt password hash.
// The email is lowercased before storage so uniqueness is case-insensitive.
func NewAccount(email, password, name string) (*Account, error) {
	email = NormalizeEmail(email)
	if !ValidEmail(email) {
		return nil, ErrInvalidEmail
	}
	if len(password) < 8 {
		return nil, ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &Account{
		ID:           "acc_" + uuid.New().String()[:8],
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// CheckPassword reports whether the given password matches the stored hash.
func (a *Account) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) == nil
}

// NormalizeEmail lowercases and trims an email address. Lookups must use
// the same normalization as storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail performs a minimal structural check on an email address.
// Full validation is left to the confirmation mail; this only rejects
// obviously malformed input.
func ValidEmail(email string) bool {
	at := strings.Index(email, "@")
	if at < 1 {
		return false
	}
	rest := email[at+1:]
	if strings.Contains(rest, "@") {
		return false
	}
	dot := strings.LastIndex(rest, ".")
	return dot > 0 && dot < len(rest)-1
}
