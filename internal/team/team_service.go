package team

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/techmajster/saas-leave-system/internal/domain"
	teamerrors "github.com/techmajster/saas-leave-system/internal/team/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Access answers whether a user may manage a team. membership.Service
// satisfies it.
type Access interface {
	CanManageTeam(ctx context.Context, userID, teamID string) (bool, error)
}

//go:generate mockgen -source=team_service.go -destination=mock/team_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor domain.Actor, req CreateTeamRequest) (TeamResponse, error)
	GetAll(ctx context.Context, actor domain.Actor) ([]TeamResponse, error)
	GetByID(ctx context.Context, actor domain.Actor, id string) (TeamResponse, error)
	Update(ctx context.Context, actor domain.Actor, id string, req UpdateTeamRequest) (TeamResponse, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
	ListMembers(ctx context.Context, actor domain.Actor, id string) ([]MemberResponse, error)
	AddMembers(ctx context.Context, actor domain.Actor, id string, req MembersRequest) (RosterResponse, error)
	RemoveMembers(ctx context.Context, actor domain.Actor, id string, req MembersRequest) (RosterResponse, error)
}

type service struct {
	db     *gorm.DB
	repo   Repository
	access Access
	logger *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, access Access, logger ...*zap.Logger) Service {
	l := zap.L().Named("team.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("team.service")
	}
	return &service{db: db, repo: repo, access: access, logger: l}
}

func (s *service) Create(ctx context.Context, actor domain.Actor, req CreateTeamRequest) (TeamResponse, error) {
	if !actor.IsAdmin() {
		return TeamResponse{}, teamerrors.ErrAdminOnly
	}

	managerID, err := s.validateManager(ctx, actor.OrganizationID, req.ManagerID)
	if err != nil {
		return TeamResponse{}, err
	}

	t := &Team{
		ID:             uuid.New(),
		OrganizationID: uuid.MustParse(actor.OrganizationID),
		Name:           req.Name,
		Description:    req.Description,
		ManagerID:      managerID,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		s.logger.Error("create team failed", zap.String("organization_id", actor.OrganizationID), zap.Error(err))
		return TeamResponse{}, err
	}

	s.logger.Info("team created", zap.String("team_id", t.ID.String()), zap.String("organization_id", actor.OrganizationID))
	return mapToResponse(*t), nil
}

func (s *service) GetAll(ctx context.Context, actor domain.Actor) ([]TeamResponse, error) {
	teams, err := s.repo.FindAllByOrganization(ctx, actor.OrganizationID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(teams), nil
}

func (s *service) GetByID(ctx context.Context, actor domain.Actor, id string) (TeamResponse, error) {
	t, err := s.find(ctx, s.repo, actor.OrganizationID, id)
	if err != nil {
		return TeamResponse{}, err
	}
	return mapToResponse(*t), nil
}

func (s *service) Update(ctx context.Context, actor domain.Actor, id string, req UpdateTeamRequest) (TeamResponse, error) {
	if !actor.IsAdmin() {
		return TeamResponse{}, teamerrors.ErrAdminOnly
	}

	managerID, err := s.validateManager(ctx, actor.OrganizationID, req.ManagerID)
	if err != nil {
		return TeamResponse{}, err
	}

	var updated Team
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		t, err := s.find(ctx, qtx, actor.OrganizationID, id)
		if err != nil {
			return err
		}

		t.Name = req.Name
		t.Description = req.Description
		t.ManagerID = managerID

		if err := qtx.Update(ctx, t); err != nil {
			return err
		}
		updated = *t
		return nil
	})
	if err != nil {
		return TeamResponse{}, err
	}

	return mapToResponse(updated), nil
}

// Delete soft-deletes the team and detaches its members.
func (s *service) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if !actor.IsAdmin() {
		return teamerrors.ErrAdminOnly
	}
	if _, err := uuid.Parse(id); err != nil {
		return teamerrors.ErrInvalidTeamID
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		if err := qtx.ClearTeam(ctx, actor.OrganizationID, id); err != nil {
			return err
		}
		if err := qtx.Delete(ctx, actor.OrganizationID, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return teamerrors.ErrTeamNotFound
			}
			return err
		}
		return nil
	})
}

func (s *service) ListMembers(ctx context.Context, actor domain.Actor, id string) ([]MemberResponse, error) {
	if _, err := s.find(ctx, s.repo, actor.OrganizationID, id); err != nil {
		return nil, err
	}

	members, err := s.repo.ListMembers(ctx, actor.OrganizationID, id)
	if err != nil {
		return nil, err
	}

	resp := make([]MemberResponse, len(members))
	for i, m := range members {
		resp[i] = MemberResponse{ID: m.ID.String(), Email: m.Email, FullName: m.FullName, Role: m.Role}
	}
	return resp, nil
}

func (s *service) AddMembers(ctx context.Context, actor domain.Actor, id string, req MembersRequest) (RosterResponse, error) {
	if err := s.authorizeRoster(ctx, actor, id, req); err != nil {
		return RosterResponse{}, err
	}

	count, err := s.repo.AssignMembers(ctx, actor.OrganizationID, id, req.MemberIDs)
	if err != nil {
		s.logger.Error("add team members failed", zap.String("team_id", id), zap.Error(err))
		return RosterResponse{}, err
	}

	s.logger.Info("team members added", zap.String("team_id", id), zap.Int64("count", count))
	return RosterResponse{
		Count:   count,
		Message: fmt.Sprintf("Successfully added %d member(s) to team", count),
	}, nil
}

func (s *service) RemoveMembers(ctx context.Context, actor domain.Actor, id string, req MembersRequest) (RosterResponse, error) {
	if err := s.authorizeRoster(ctx, actor, id, req); err != nil {
		return RosterResponse{}, err
	}

	count, err := s.repo.UnassignMembers(ctx, actor.OrganizationID, id, req.MemberIDs)
	if err != nil {
		s.logger.Error("remove team members failed", zap.String("team_id", id), zap.Error(err))
		return RosterResponse{}, err
	}

	s.logger.Info("team members removed", zap.String("team_id", id), zap.Int64("count", count))
	return RosterResponse{
		Count:   count,
		Message: fmt.Sprintf("Successfully removed %d member(s) from team", count),
	}, nil
}

func (s *service) authorizeRoster(ctx context.Context, actor domain.Actor, teamID string, req MembersRequest) error {
	if !actor.CanReview() {
		s.logger.Warn("roster change denied", zap.String("actor_id", actor.UserID), zap.String("role", actor.Role))
		return teamerrors.ErrRosterForbidden
	}
	if len(req.MemberIDs) == 0 {
		return teamerrors.ErrMemberIDsRequired
	}
	if _, err := s.find(ctx, s.repo, actor.OrganizationID, teamID); err != nil {
		return err
	}
	if actor.IsAdmin() {
		return nil
	}

	ok, err := s.access.CanManageTeam(ctx, actor.UserID, teamID)
	if err != nil {
		return err
	}
	if !ok {
		s.logger.Warn("manager does not manage team", zap.String("actor_id", actor.UserID), zap.String("team_id", teamID))
		return teamerrors.ErrNotTeamManager
	}
	return nil
}

func (s *service) find(ctx context.Context, repo Repository, organizationID, id string) (*Team, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, teamerrors.ErrInvalidTeamID
	}
	t, err := repo.FindByIDAndOrganization(ctx, organizationID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, teamerrors.ErrTeamNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *service) validateManager(ctx context.Context, organizationID string, managerID *string) (*uuid.UUID, error) {
	if managerID == nil || *managerID == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*managerID)
	if err != nil {
		return nil, teamerrors.ErrManagerNotInOrganization
	}
	ok, err := s.repo.ProfileInOrganization(ctx, organizationID, id.String())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, teamerrors.ErrManagerNotInOrganization
	}
	return &id, nil
}

func mapToResponse(t Team) TeamResponse {
	resp := TeamResponse{
		ID:             t.ID.String(),
		OrganizationID: t.OrganizationID.String(),
		Name:           t.Name,
		Description:    t.Description,
		CreatedAt:      t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      t.UpdatedAt.Format(time.RFC3339),
	}
	if t.ManagerID != nil {
		v := t.ManagerID.String()
		resp.ManagerID = &v
	}
	return resp
}

func mapToListResponse(teams []Team) []TeamResponse {
	res := make([]TeamResponse, len(teams))
	for i, t := range teams {
		res[i] = mapToResponse(t)
	}
	return res
}
