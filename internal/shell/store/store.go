package store

import (
	"context"
	"time"

	"github.com/festside/festside/internal/core/domain"
)

// =============================================================================
// Store Interface
// =============================================================================

// Store defines the persistence interface for Festside entities.
type Store interface {
	// Account operations
	CreateAccount(ctx context.Context, account *domain.Account) error
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error)
	TouchAccountLogin(ctx context.Context, id string, at time.Time) error

	// Plan catalog (immutable reference data, seeded by migration)
	GetPlan(ctx context.Context, id domain.PlanID) (*domain.Plan, error)
	ListPlans(ctx context.Context) ([]domain.Plan, error)

	// Subscription operations
	CreateSubscription(ctx context.Context, sub *domain.Subscription) error
	UpdateSubscription(ctx context.Context, sub *domain.Subscription) error
	GetSubscription(ctx context.Context, id string) (*domain.Subscription, error)
	GetSubscriptionByGatewayRef(ctx context.Context, ref string) (*domain.Subscription, error)
	// CurrentSubscription returns the most recent subscription with status
	// in {active, past_due}, or ErrNotFound when the account has none.
	CurrentSubscription(ctx context.Context, accountID string) (*domain.Subscription, error)
	// LatestCanceledSubscription returns the most recent canceled
	// subscription, the reactivation target.
	LatestCanceledSubscription(ctx context.Context, accountID string) (*domain.Subscription, error)
	// EffectivePlan resolves the account's plan: the current subscription's
	// plan, else the free plan. A missing free plan row is ErrFreePlanMissing.
	EffectivePlan(ctx context.Context, accountID string) (*domain.Plan, error)

	// Payment history
	CreatePayment(ctx context.Context, payment *domain.Payment) error
	ListPaymentsByAccount(ctx context.Context, accountID string, opts ListOptions) ([]domain.Payment, error)

	// Event operations
	// CreateEvent inserts the event for the owner, retrying slug candidates
	// on unique-index conflicts.
	CreateEvent(ctx context.Context, event *domain.Event, ownerID string) error
	GetEvent(ctx context.Context, id string) (*domain.Event, error)
	GetEventBySlug(ctx context.Context, slug string) (*domain.Event, error)
	UpdateEvent(ctx context.Context, event *domain.Event) error
	ListEventsByOwner(ctx context.Context, accountID string, opts ListOptions) ([]domain.Event, error)
	CountEventsByOwner(ctx context.Context, accountID string) (int, error) // non-archived only
	IsEventOwner(ctx context.Context, eventID, accountID string) (bool, error)

	// Guest operations
	// CreateGuest inserts the guest, retrying fresh codes on per-event
	// code conflicts. Guests are never deleted.
	CreateGuest(ctx context.Context, guest *domain.Guest) error
	GetGuest(ctx context.Context, id, eventID string) (*domain.Guest, error)
	GetGuestByCode(ctx context.Context, eventID, code string) (*domain.Guest, error)
	UpdateGuest(ctx context.Context, guest *domain.Guest) error
	ListGuestsByEvent(ctx context.Context, eventID string, opts ListOptions) ([]domain.Guest, error)
	CountGuestsByEvent(ctx context.Context, eventID string) (int, error)
	// ApplyRSVP writes a normalized response for the (guest, event) pair.
	// A mismatched pair updates zero rows and reports updated=false.
	ApplyRSVP(ctx context.Context, guestID, eventID string, resp domain.RSVPResponse) (updated bool, err error)

	// Wishlist operations
	CreateWishlistItem(ctx context.Context, item *domain.WishlistItem) error
	GetWishlistItem(ctx context.Context, id, eventID string) (*domain.WishlistItem, error)
	UpdateWishlistItem(ctx context.Context, item *domain.WishlistItem) error
	DeleteWishlistItem(ctx context.Context, id, eventID string) error
	ListWishlistByEvent(ctx context.Context, eventID string) ([]domain.WishlistItem, error)
	// ReserveWishlistItem atomically claims an available item for a guest.
	// Returns reserved=false when the item is already taken (or missing).
	ReserveWishlistItem(ctx context.Context, itemID, eventID, guestID string) (reserved bool, err error)
	// ReleaseWishlistItem clears a reservation held by the given guest.
	// A non-holder release is a no-op and reports released=false.
	ReleaseWishlistItem(ctx context.Context, itemID, eventID, guestID string) (released bool, err error)

	// Per-event content
	CreateMenuItem(ctx context.Context, item *domain.MenuItem) error
	ListMenuByEvent(ctx context.Context, eventID string) ([]domain.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id, eventID string) error
	CreateScheduleItem(ctx context.Context, item *domain.ScheduleItem) error
	ListScheduleByEvent(ctx context.Context, eventID string) ([]domain.ScheduleItem, error)
	DeleteScheduleItem(ctx context.Context, id, eventID string) error
	CreatePhoto(ctx context.Context, photo *domain.Photo) error
	SetPhotoApproved(ctx context.Context, id, eventID string, approved bool) error
	ListPhotosByEvent(ctx context.Context, eventID string, approvedOnly bool) ([]domain.Photo, error)
	CreateToastmasterItem(ctx context.Context, item *domain.ToastmasterItem) error
	SetToastmasterItemApproved(ctx context.Context, id, eventID string, approved bool) error
	ListToastmasterByEvent(ctx context.Context, eventID string, approvedOnly bool) ([]domain.ToastmasterItem, error)
	CreateToastmasterMessage(ctx context.Context, msg *domain.ToastmasterMessage) error
	ListToastmasterMessages(ctx context.Context, eventID string) ([]domain.ToastmasterMessage, error)

	// Partner marketplace
	ListPartnerCategories(ctx context.Context) ([]domain.PartnerCategory, error)
	CreatePartner(ctx context.Context, partner *domain.Partner) error
	GetPartner(ctx context.Context, id string) (*domain.Partner, error)
	GetPartnerByAccount(ctx context.Context, accountID string) (*domain.Partner, error)
	UpdatePartner(ctx context.Context, partner *domain.Partner) error
	ListPartners(ctx context.Context, categoryID string, approvedOnly bool, opts ListOptions) ([]domain.Partner, error)
	CreatePartnerInquiry(ctx context.Context, inquiry *domain.PartnerInquiry) error
	ListPartnerInquiries(ctx context.Context, partnerID string, opts ListOptions) ([]domain.PartnerInquiry, error)

	// Sessions (server-side, cookie-keyed)
	CreateSession(ctx context.Context, session *Session) error
	GetSession(ctx context.Context, token string) (*Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error)

	// Transaction support
	WithTx(ctx context.Context, fn func(Store) error) error

	// Lifecycle
	Close() error
}

// =============================================================================
// Options
// =============================================================================

// ListOptions defines pagination options.
type ListOptions struct {
	Limit  int
	Offset int
}

// DefaultListOptions returns default list options.
func DefaultListOptions() ListOptions {
	return ListOptions{
		Limit:  100,
		Offset: 0,
	}
}

// Normalize ensures list options have valid values.
func (o ListOptions) Normalize() ListOptions {
	if o.Limit <= 0 {
		o.Limit = 100
	}
	if o.Limit > 1000 {
		o.Limit = 1000
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	return o
}
