package leavetype

import (
	"context"

	"github.com/techmajster/saas-leave-system/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leavetype_repo.go -destination=mock/leavetype_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, t *LeaveType) error
	CreateBatch(ctx context.Context, types []LeaveType) error
	FindAllByOrganization(ctx context.Context, organizationID string) ([]LeaveType, error)
	FindByIDAndOrganization(ctx context.Context, organizationID, id string) (*LeaveType, error)
	Update(ctx context.Context, t *LeaveType) error
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

func (r *repository) Create(ctx context.Context, t *LeaveType) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *repository) CreateBatch(ctx context.Context, types []LeaveType) error {
	if len(types) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&types).Error
}

// FindAllByOrganization orders by name, which is the order the filter keeps.
func (r *repository) FindAllByOrganization(ctx context.Context, organizationID string) ([]LeaveType, error) {
	var types []LeaveType
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organizationID)).
		Order("name ASC").
		Find(&types).Error
	return types, err
}

func (r *repository) FindByIDAndOrganization(ctx context.Context, organizationID, id string) (*LeaveType, error) {
	var t LeaveType
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organizationID)).
		First(&t, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) Update(ctx context.Context, t *LeaveType) error {
	return r.db.WithContext(ctx).
		Model(t).
		Scopes(tenant.Scope(t.OrganizationID.String())).
		Select("name", "days_per_year", "color", "requires_approval", "requires_balance", "leave_category", "updated_at").
		Updates(t).Error
}
