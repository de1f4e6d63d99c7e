package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrPartnerNameRequired = errors.New("partner name is required")

// =============================================================================
// Partner Marketplace
// =============================================================================
//
// The vendor marketplace is independent of the event/guest model; partners
// are linked to the platform only through the owning account.

// PartnerStatus gates marketplace visibility. Only approved partners appear
// in public listings.
type PartnerStatus string

const (
	PartnerPending  PartnerStatus = "pending"
	PartnerApproved PartnerStatus = "approved"
	PartnerRejected PartnerStatus = "rejected"
)

// PartnerCategory is a marketplace category (photographers, venues, ...).
type PartnerCategory struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	SortOrder int    `json:"sort_order"`
}

// Partner is a vendor profile owned by an account.
type Partner struct {
	ID          string        `json:"id"`
	AccountID   string        `json:"account_id"`
	CategoryID  string        `json:"category_id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Website     string        `json:"website,omitempty"`
	Phone       string        `json:"phone,omitempty"`
	City        string        `json:"city,omitempty"`
	Status      PartnerStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// NewPartner creates a pending partner profile.
func NewPartner(accountID, categoryID, name string) (*Partner, error) {
	if name == "" {
		return nil, ErrPartnerNameRequired
	}
	now := time.Now().UTC()
	return &Partner{
		ID:         "prt_" + uuid.New().String()[:8],
		AccountID:  accountID,
		CategoryID: categoryID,
		Name:       name,
		Status:     PartnerPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Visible reports whether the partner appears in public listings.
func (p *Partner) Visible() bool {
	return p.Status == PartnerApproved
}

// PartnerInquiry is a contact request sent to a partner by a visitor.
type PartnerInquiry struct {
	ID        string    `json:"id"`
	PartnerID string    `json:"partner_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// NewPartnerInquiry creates an inquiry.
func NewPartnerInquiry(partnerID, name, email, message string) *PartnerInquiry {
	return &PartnerInquiry{
		ID:        "inq_" + uuid.New().String()[:8],
		PartnerID: partnerID,
		Name:      name,
		Email:     email,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
}
