package membership

import (
	"context"
	"errors"

	"github.com/techmajster/saas-leave-system/internal/domain"
	"github.com/techmajster/saas-leave-system/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TeamRef is the part of a team row the resolver needs.
type TeamRef struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	ManagerID      *uuid.UUID
}

//go:generate mockgen -source=membership_repo.go -destination=mock/membership_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindProfile(ctx context.Context, userID string) (*Profile, error)
	FindProfileInOrganization(ctx context.Context, organizationID, userID string) (*Profile, error)
	FindProfileByEmail(ctx context.Context, email string) (*Profile, error)
	FindTeam(ctx context.Context, teamID string) (*TeamRef, error)
	ListMembers(ctx context.Context, scope domain.Scope) ([]Profile, error)
	ListByRoles(ctx context.Context, organizationID string, roles ...string) ([]Profile, error)
	Upsert(ctx context.Context, p *Profile) error
	UpdateMembership(ctx context.Context, userID string, organizationID *uuid.UUID, role string, teamID *uuid.UUID) error
	UpdateRole(ctx context.Context, organizationID, userID, role string) (int64, error)
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

func (r *repository) FindProfile(ctx context.Context, userID string) (*Profile, error) {
	var p Profile
	err := r.db.WithContext(ctx).First(&p, "id = ?", userID).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) FindProfileInOrganization(ctx context.Context, organizationID, userID string) (*Profile, error) {
	var p Profile
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organizationID)).
		First(&p, "id = ?", userID).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) FindProfileByEmail(ctx context.Context, email string) (*Profile, error) {
	var p Profile
	err := r.db.WithContext(ctx).First(&p, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindTeam returns nil, nil when the team does not exist.
func (r *repository) FindTeam(ctx context.Context, teamID string) (*TeamRef, error) {
	var ref TeamRef
	err := r.db.WithContext(ctx).
		Table("teams").
		Select("id, organization_id, manager_id").
		Where("id = ?", teamID).
		Where("deleted_at IS NULL").
		Take(&ref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

func (r *repository) ListMembers(ctx context.Context, scope domain.Scope) ([]Profile, error) {
	var profiles []Profile
	err := r.db.WithContext(ctx).
		Scopes(tenant.VisibleUsers(scope, "id")).
		Order("full_name ASC").
		Find(&profiles).Error
	return profiles, err
}

func (r *repository) ListByRoles(ctx context.Context, organizationID string, roles ...string) ([]Profile, error) {
	var profiles []Profile
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organizationID)).
		Where("role IN ?", roles).
		Find(&profiles).Error
	return profiles, err
}

// Upsert creates the profile or refreshes its email. An empty FullName
// leaves the stored name alone since tokens do not always carry one.
func (r *repository) Upsert(ctx context.Context, p *Profile) error {
	columns := []string{"email", "updated_at"}
	if p.FullName != "" {
		columns = append(columns, "full_name")
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(columns),
		}).
		Create(p).Error
}

func (r *repository) UpdateMembership(ctx context.Context, userID string, organizationID *uuid.UUID, role string, teamID *uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&Profile{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"organization_id": organizationID,
			"role":            role,
			"team_id":         teamID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) UpdateRole(ctx context.Context, organizationID, userID, role string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&Profile{}).
		Scopes(tenant.Scope(organizationID)).
		Where("id = ?", userID).
		Update("role", role)
	return res.RowsAffected, res.Error
}
