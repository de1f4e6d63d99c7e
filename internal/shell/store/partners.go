package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/festside/festside/internal/core/domain"
)

// =============================================================================
// Partner Marketplace Operations
// =============================================================================

type partnerCategoryRow struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	Slug      string `db:"slug"`
	SortOrder int    `db:"sort_order"`
}

func (s *SQLiteStore) ListPartnerCategories(ctx context.Context) ([]domain.PartnerCategory, error) {
	var rows []partnerCategoryRow
	err := s.exec.SelectContext(ctx, &rows,
		`SELECT * FROM partner_categories ORDER BY sort_order`)
	if err != nil {
		return nil, NewStoreError("ListPartnerCategories", "partner_category", "", err.Error(), err)
	}
	categories := make([]domain.PartnerCategory, 0, len(rows))
	for _, r := range rows {
		categories = append(categories, domain.PartnerCategory{
			ID:        r.ID,
			Name:      r.Name,
			Slug:      r.Slug,
			SortOrder: r.SortOrder,
		})
	}
	return categories, nil
}

type partnerRow struct {
	ID          string `db:"id"`
	AccountID   string `db:"account_id"`
	CategoryID  string `db:"category_id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	Website     string `db:"website"`
	Phone       string `db:"phone"`
	City        string `db:"city"`
	Status      string `db:"status"`
	CreatedAt   string `db:"created_at"`
	UpdatedAt   string `db:"updated_at"`
}

func (r partnerRow) toDomain() *domain.Partner {
	return &domain.Partner{
		ID:          r.ID,
		AccountID:   r.AccountID,
		CategoryID:  r.CategoryID,
		Name:        r.Name,
		Description: r.Description,
		Website:     r.Website,
		Phone:       r.Phone,
		City:        r.City,
		Status:      domain.PartnerStatus(r.Status),
		CreatedAt:   parseTime(r.CreatedAt),
		UpdatedAt:   parseTime(r.UpdatedAt),
	}
}

func partnerParams(p *domain.Partner) map[string]any {
	return map[string]any{
		"id":          p.ID,
		"account_id":  p.AccountID,
		"category_id": p.CategoryID,
		"name":        p.Name,
		"description": p.Description,
		"website":     p.Website,
		"phone":       p.Phone,
		"city":        p.City,
		"status":      string(p.Status),
		"created_at":  p.CreatedAt.UTC().Format(time.RFC3339),
		"updated_at":  p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func (s *SQLiteStore) CreatePartner(ctx context.Context, partner *domain.Partner) error {
	query := `
		INSERT INTO partners (id, account_id, category_id, name, description, website,
			phone, city, status, created_at, updated_at)
		VALUES (:id, :account_id, :category_id, :name, :description, :website,
			:phone, :city, :status, :created_at, :updated_at)`

	if _, err := s.exec.NamedExecContext(ctx, query, partnerParams(partner)); err != nil {
		if isUniqueViolation(err, "partners.account_id") {
			return NewStoreError("CreatePartner", "partner", partner.ID, "account already has a partner profile", ErrDuplicateID)
		}
		if isUniqueViolation(err, "partners.id") {
			return NewStoreError("CreatePartner", "partner", partner.ID, "partner with this ID already exists", ErrDuplicateID)
		}
		if isForeignKeyViolation(err) {
			return NewStoreError("CreatePartner", "partner", partner.ID, "account or category does not exist", ErrForeignKey)
		}
		return NewStoreError("CreatePartner", "partner", partner.ID, err.Error(), err)
	}
	return nil
}

func (s *SQLiteStore) GetPartner(ctx context.Context, id string) (*domain.Partner, error) {
	var row partnerRow
	err := s.exec.GetContext(ctx, &row, `SELECT * FROM partners WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewStoreError("GetPartner", "partner", id, "partner not found", ErrNotFound)
		}
		return nil, NewStoreError("GetPartner", "partner", id, err.Error(), err)
	}
	return row.toDomain(), nil
}

func (s *SQLiteStore) GetPartnerByAccount(ctx context.Context, accountID string) (*domain.Partner, error) {
	var row partnerRow
	err := s.exec.GetContext(ctx, &row, `SELECT * FROM partners WHERE account_id = ?`, accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewStoreError("GetPartnerByAccount", "partner", "", "partner not found", ErrNotFound)
		}
		return nil, NewStoreError("GetPartnerByAccount", "partner", "", err.Error(), err)
	}
	return row.toDomain(), nil
}

func (s *SQLiteStore) UpdatePartner(ctx context.Context, partner *domain.Partner) error {
	query := `
		UPDATE partners
		SET category_id = :category_id, name = :name, description = :description,
		    website = :website, phone = :phone, city = :city, status = :status,
		    updated_at = :updated_at
		WHERE id = :id`

	res, err := s.exec.NamedExecContext(ctx, query, partnerParams(partner))
	if err != nil {
		return NewStoreError("UpdatePartner", "partner", partner.ID, err.Error(), err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return NewStoreError("UpdatePartner", "partner", partner.ID, "partner not found", ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) ListPartners(ctx context.Context, categoryID string, approvedOnly bool, opts ListOptions) ([]domain.Partner, error) {
	opts = opts.Normalize()

	query := `SELECT * FROM partners WHERE 1=1`
	args := []any{}
	if categoryID != "" {
		query += ` AND category_id = ?`
		args = append(args, categoryID)
	}
	if approvedOnly {
		query += ` AND status = 'approved'`
	}
	query += ` ORDER BY name LIMIT ? OFFSET ?`
	args = append(args, opts.Limit, opts.Offset)

	var rows []partnerRow
	if err := s.exec.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, NewStoreError("ListPartners", "partner", "", err.Error(), err)
	}
	partners := make([]domain.Partner, 0, len(rows))
	for _, r := range rows {
		partners = append(partners, *r.toDomain())
	}
	return partners, nil
}

func (s *SQLiteStore) CreatePartnerInquiry(ctx context.Context, inquiry *domain.PartnerInquiry) error {
	query := `
		INSERT INTO partner_inquiries (id, partner_id, name, email, message, created_at)
		VALUES (:id, :partner_id, :name, :email, :message, :created_at)`

	row := map[string]any{
		"id":         inquiry.ID,
		"partner_id": inquiry.PartnerID,
		"name":       inquiry.Name,
		"email":      inquiry.Email,
		"message":    inquiry.Message,
		"created_at": inquiry.CreatedAt.UTC().Format(time.RFC3339),
	}

	if _, err := s.exec.NamedExecContext(ctx, query, row); err != nil {
		if isForeignKeyViolation(err) {
			return NewStoreError("CreatePartnerInquiry", "partner_inquiry", inquiry.ID, "partner does not exist", ErrForeignKey)
		}
		return NewStoreError("CreatePartnerInquiry", "partner_inquiry", inquiry.ID, err.Error(), err)
	}
	return nil
}

func (s *SQLiteStore) ListPartnerInquiries(ctx context.Context, partnerID string, opts ListOptions) ([]domain.PartnerInquiry, error) {
	opts = opts.Normalize()
	var rows []struct {
		ID        string `db:"id"`
		PartnerID string `db:"partner_id"`
		Name      string `db:"name"`
		Email     string `db:"email"`
		Message   string `db:"message"`
		CreatedAt string `db:"created_at"`
	}
	err := s.exec.SelectContext(ctx, &rows, `
		SELECT * FROM partner_inquiries WHERE partner_id = ?
		ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		partnerID, opts.Limit, opts.Offset)
	if err != nil {
		return nil, NewStoreError("ListPartnerInquiries", "partner_inquiry", "", err.Error(), err)
	}
	inquiries := make([]domain.PartnerInquiry, 0, len(rows))
	for _, r := range rows {
		inquiries = append(inquiries, domain.PartnerInquiry{
			ID:        r.ID,
			PartnerID: r.PartnerID,
			Name:      r.Name,
			Email:     r.Email,
			Message:   r.Message,
			CreatedAt: parseTime(r.CreatedAt),
		})
	}
	return inquiries, nil
}
