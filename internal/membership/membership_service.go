package membership

import (
	"context"
	"errors"

	"github.com/techmajster/saas-leave-system/internal/domain"
	membershiperrors "github.com/techmajster/saas-leave-system/internal/membership/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=membership_service.go -destination=mock/membership_service_mock.go -package=mock
type Service interface {
	ResolveScope(ctx context.Context, userID string) (domain.Scope, error)
	ExpandScope(ctx context.Context, scope domain.Scope) ([]string, error)
	CanManageTeam(ctx context.Context, userID, teamID string) (bool, error)
	CanManageUser(ctx context.Context, actor domain.Actor, userID string) (bool, error)
	ResolveActor(ctx context.Context, userID string) (domain.Actor, error)
	GetProfile(ctx context.Context, userID string) (ProfileResponse, error)
	GetMemberProfile(ctx context.Context, actor domain.Actor, userID string) (*Profile, error)
	ListMembers(ctx context.Context, actor domain.Actor) ([]MemberResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("membership.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("membership.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) loadMember(ctx context.Context, userID string) (*Profile, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, membershiperrors.ErrInvalidUserID
	}
	p, err := s.repo.FindProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, membershiperrors.ErrProfileNotFound
		}
		s.logger.Error("load profile failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	if p.OrganizationID == nil {
		return nil, membershiperrors.ErrProfileNotFound
	}
	return p, nil
}

// ResolveScope decides what a user may see. Admins see the organization,
// team members see their team, and users without a team fall back to the
// whole organization.
func (s *service) ResolveScope(ctx context.Context, userID string) (domain.Scope, error) {
	p, err := s.loadMember(ctx, userID)
	if err != nil {
		return domain.Scope{}, err
	}
	return scopeOf(p), nil
}

func scopeOf(p *Profile) domain.Scope {
	orgID := p.OrganizationID.String()
	switch {
	case p.Role == domain.RoleAdmin:
		return domain.OrganizationScope(orgID)
	case p.TeamID != nil:
		return domain.TeamScope(orgID, p.TeamID.String())
	default:
		return domain.OrganizationScope(orgID)
	}
}

func (s *service) ExpandScope(ctx context.Context, scope domain.Scope) ([]string, error) {
	switch scope.Kind() {
	case domain.ScopeOrganization, domain.ScopeTeam:
	default:
		return nil, membershiperrors.ErrInvalidScope
	}

	members, err := s.repo.ListMembers(ctx, scope)
	if err != nil {
		s.logger.Error("expand scope failed", zap.String("scope", scope.String()), zap.Error(err))
		return nil, err
	}

	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.ID.String()
	}
	return ids, nil
}

// CanManageTeam is true for an admin of the team's organization or for the
// team's recorded manager. Missing profiles or teams yield false.
func (s *service) CanManageTeam(ctx context.Context, userID, teamID string) (bool, error) {
	if _, err := uuid.Parse(teamID); err != nil {
		return false, nil
	}
	p, err := s.loadMember(ctx, userID)
	if err != nil {
		if errors.Is(err, membershiperrors.ErrProfileNotFound) || errors.Is(err, membershiperrors.ErrInvalidUserID) {
			return false, nil
		}
		return false, err
	}

	team, err := s.repo.FindTeam(ctx, teamID)
	if err != nil {
		s.logger.Error("can manage team lookup failed", zap.String("team_id", teamID), zap.Error(err))
		return false, err
	}
	if team == nil || team.OrganizationID != *p.OrganizationID {
		return false, nil
	}

	if p.Role == domain.RoleAdmin {
		return true, nil
	}
	return team.ManagerID != nil && *team.ManagerID == p.ID, nil
}

// CanManageUser reports whether actor may act on userID's leave: admins for
// anyone in the organization, managers for members of a team they manage.
func (s *service) CanManageUser(ctx context.Context, actor domain.Actor, userID string) (bool, error) {
	target, err := s.GetMemberProfile(ctx, actor, userID)
	if err != nil {
		if errors.Is(err, membershiperrors.ErrProfileNotFound) || errors.Is(err, membershiperrors.ErrInvalidUserID) {
			return false, nil
		}
		return false, err
	}
	if actor.IsAdmin() {
		return true, nil
	}
	if actor.Role != domain.RoleManager || target.TeamID == nil {
		return false, nil
	}
	return s.CanManageTeam(ctx, actor.UserID, target.TeamID.String())
}

func (s *service) ResolveActor(ctx context.Context, userID string) (domain.Actor, error) {
	p, err := s.loadMember(ctx, userID)
	if err != nil {
		return domain.Actor{}, err
	}

	actor := domain.Actor{
		UserID:         p.ID.String(),
		Email:          p.Email,
		OrganizationID: p.OrganizationID.String(),
		Role:           p.Role,
	}
	if p.TeamID != nil {
		actor.TeamID = p.TeamID.String()
	}
	return actor, nil
}

func (s *service) GetProfile(ctx context.Context, userID string) (ProfileResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return ProfileResponse{}, membershiperrors.ErrInvalidUserID
	}
	p, err := s.repo.FindProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProfileResponse{}, membershiperrors.ErrProfileNotFound
		}
		return ProfileResponse{}, err
	}
	return mapToProfileResponse(*p), nil
}

// GetMemberProfile loads a profile only if it belongs to the actor's organization.
func (s *service) GetMemberProfile(ctx context.Context, actor domain.Actor, userID string) (*Profile, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, membershiperrors.ErrInvalidUserID
	}
	p, err := s.repo.FindProfileInOrganization(ctx, actor.OrganizationID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, membershiperrors.ErrProfileNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *service) ListMembers(ctx context.Context, actor domain.Actor) ([]MemberResponse, error) {
	scope, err := s.ResolveScope(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	members, err := s.repo.ListMembers(ctx, scope)
	if err != nil {
		s.logger.Error("list members failed", zap.String("scope", scope.String()), zap.Error(err))
		return nil, err
	}

	resp := make([]MemberResponse, len(members))
	for i, m := range members {
		resp[i] = MemberResponse{
			ID:       m.ID.String(),
			Email:    m.Email,
			FullName: m.FullName,
			Role:     m.Role,
			TeamID:   uuidPtrString(m.TeamID),
		}
	}
	return resp, nil
}

func mapToProfileResponse(p Profile) ProfileResponse {
	return ProfileResponse{
		ID:             p.ID.String(),
		Email:          p.Email,
		FullName:       p.FullName,
		Role:           p.Role,
		OrganizationID: uuidPtrString(p.OrganizationID),
		TeamID:         uuidPtrString(p.TeamID),
		Gender:         p.Gender,
	}
}

func uuidPtrString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	v := id.String()
	return &v
}
