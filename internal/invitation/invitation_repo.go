package invitation

import (
	"context"
	"errors"
	"time"

	"github.com/techmajster/saas-leave-system/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=invitation_repo.go -destination=mock/invitation_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, inv *Invitation) error
	FindByID(ctx context.Context, id string) (*Invitation, error)
	FindInOrganization(ctx context.Context, organizationID, id string) (*Invitation, error)
	FindPending(ctx context.Context, organizationID, email string) (*Invitation, error)
	ListPending(ctx context.Context, organizationID string, now time.Time) ([]Invitation, error)
	ExpireStale(ctx context.Context, organizationID, email string, now time.Time) (int64, error)
	UpdateStatus(ctx context.Context, id, from, to string, acceptedAt *time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, inv *Invitation) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

// FindByID is unscoped; token acceptance happens before the caller belongs
// to any organization.
func (r *repository) FindByID(ctx context.Context, id string) (*Invitation, error) {
	var inv Invitation
	if err := r.db.WithContext(ctx).First(&inv, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *repository) FindInOrganization(ctx context.Context, organizationID, id string) (*Invitation, error) {
	var inv Invitation
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organizationID)).
		First(&inv, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// FindPending returns nil, nil when no invitation is pending for email.
func (r *repository) FindPending(ctx context.Context, organizationID, email string) (*Invitation, error) {
	var inv Invitation
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organizationID)).
		Where("email = ? AND status = ?", email, StatusPending).
		Take(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *repository) ListPending(ctx context.Context, organizationID string, now time.Time) ([]Invitation, error) {
	var items []Invitation
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organizationID)).
		Where("status = ? AND expires_at > ?", StatusPending, now).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

// ExpireStale closes pending invitations for email whose deadline passed, so
// a fresh one can take the pending slot.
func (r *repository) ExpireStale(ctx context.Context, organizationID, email string, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&Invitation{}).
		Scopes(tenant.Scope(organizationID)).
		Where("email = ? AND status = ? AND expires_at <= ?", email, StatusPending, now).
		Update("status", StatusExpired)
	return res.RowsAffected, res.Error
}

// UpdateStatus moves an invitation from one status to another and reports
// zero rows when it was no longer in the expected status.
func (r *repository) UpdateStatus(ctx context.Context, id, from, to string, acceptedAt *time.Time) (int64, error) {
	updates := map[string]any{"status": to}
	if acceptedAt != nil {
		updates["accepted_at"] = *acceptedAt
	}
	res := r.db.WithContext(ctx).
		Model(&Invitation{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	return res.RowsAffected, res.Error
}
