package team

import (
	"context"

	"github.com/techmajster/saas-leave-system/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=team_repo.go -destination=mock/team_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, t *Team) error
	FindAllByOrganization(ctx context.Context, organizationID string) ([]Team, error)
	FindByIDAndOrganization(ctx context.Context, organizationID, id string) (*Team, error)
	Update(ctx context.Context, t *Team) error
	Delete(ctx context.Context, organizationID, id string) error
	ProfileInOrganization(ctx context.Context, organizationID, userID string) (bool, error)
	ListMembers(ctx context.Context, organizationID, teamID string) ([]Member, error)
	AssignMembers(ctx context.Context, organizationID, teamID string, memberIDs []string) (int64, error)
	UnassignMembers(ctx context.Context, organizationID, teamID string, memberIDs []string) (int64, error)
	ClearTeam(ctx context.Context, organizationID, teamID string) error
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

func (r *repository) Create(ctx context.Context, t *Team) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *repository) FindAllByOrganization(ctx context.Context, organizationID string) ([]Team, error) {
	var teams []Team
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organizationID)).
		Order("name ASC").
		Find(&teams).Error
	return teams, err
}

func (r *repository) FindByIDAndOrganization(ctx context.Context, organizationID, id string) (*Team, error) {
	var t Team
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organizationID)).
		First(&t, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) Update(ctx context.Context, t *Team) error {
	return r.db.WithContext(ctx).
		Model(t).
		Scopes(tenant.Scope(t.OrganizationID.String())).
		Select("name", "description", "manager_id", "updated_at").
		Updates(t).Error
}

func (r *repository) Delete(ctx context.Context, organizationID, id string) error {
	res := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organizationID)).
		Where("id = ?", id).
		Delete(&Team{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) ProfileInOrganization(ctx context.Context, organizationID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("profiles").
		Scopes(tenant.Scope(organizationID)).
		Where("id = ?", userID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) ListMembers(ctx context.Context, organizationID, teamID string) ([]Member, error) {
	var members []Member
	err := r.db.WithContext(ctx).
		Table("profiles").
		Select("id, email, full_name, role").
		Scopes(tenant.Scope(organizationID)).
		Where("team_id = ?", teamID).
		Order("full_name ASC").
		Scan(&members).Error
	return members, err
}

// AssignMembers moves the listed profiles of the organization into the team.
// Ids from other organizations are ignored and do not count.
func (r *repository) AssignMembers(ctx context.Context, organizationID, teamID string, memberIDs []string) (int64, error) {
	tid, err := uuid.Parse(teamID)
	if err != nil {
		return 0, err
	}
	res := r.db.WithContext(ctx).
		Table("profiles").
		Scopes(tenant.Scope(organizationID)).
		Where("id IN ?", memberIDs).
		Updates(map[string]any{"team_id": tid, "updated_at": gorm.Expr("CURRENT_TIMESTAMP")})
	return res.RowsAffected, res.Error
}

func (r *repository) UnassignMembers(ctx context.Context, organizationID, teamID string, memberIDs []string) (int64, error) {
	res := r.db.WithContext(ctx).
		Table("profiles").
		Scopes(tenant.Scope(organizationID)).
		Where("team_id = ?", teamID).
		Where("id IN ?", memberIDs).
		Updates(map[string]any{"team_id": nil, "updated_at": gorm.Expr("CURRENT_TIMESTAMP")})
	return res.RowsAffected, res.Error
}

func (r *repository) ClearTeam(ctx context.Context, organizationID, teamID string) error {
	return r.db.WithContext(ctx).
		Table("profiles").
		Scopes(tenant.Scope(organizationID)).
		Where("team_id = ?", teamID).
		Update("team_id", nil).Error
}
