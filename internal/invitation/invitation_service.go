package invitation

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/techmajster/saas-leave-system/internal/domain"
	"github.com/techmajster/saas-leave-system/internal/events"
	invitationerrors "github.com/techmajster/saas-leave-system/internal/invitation/errors"
	"github.com/techmajster/saas-leave-system/internal/membership"
	"github.com/techmajster/saas-leave-system/internal/messaging/kafka"
	"github.com/techmajster/saas-leave-system/internal/notification"
	"github.com/techmajster/saas-leave-system/internal/organization"
	"github.com/techmajster/saas-leave-system/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const aggregateType = "invitation"

type Organizations interface {
	FindByID(ctx context.Context, id string) (*organization.Organization, error)
}

type BalanceSeeder interface {
	SeedForUser(ctx context.Context, organizationID, userID string, year int) (int64, error)
}

// Mailer delivers the invitation email. A failed delivery never fails the
// invitation; the token is still returned to the inviter.
type Mailer interface {
	NotifyInvitation(ctx context.Context, n notification.InvitationNotice) notification.Result
}

//go:generate mockgen -source=invitation_service.go -destination=mock/invitation_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor domain.Actor, req CreateInvitationRequest) (CreateInvitationResponse, error)
	Accept(ctx context.Context, identity domain.Identity, req AcceptInvitationRequest) (AcceptInvitationResponse, error)
	List(ctx context.Context, actor domain.Actor) ([]InvitationResponse, error)
	Revoke(ctx context.Context, actor domain.Actor, id string) error
}

type service struct {
	db       *gorm.DB
	repo     Repository
	profiles membership.Repository
	orgs     Organizations
	outbox   kafka.OutboxRepository
	balances BalanceSeeder
	mailer   Mailer
	appURL   string
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	profiles membership.Repository,
	orgs Organizations,
	outbox kafka.OutboxRepository,
	balances BalanceSeeder,
	mailer Mailer,
	appURL string,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("invitation.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("invitation.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		profiles: profiles,
		orgs:     orgs,
		outbox:   outbox,
		balances: balances,
		mailer:   mailer,
		appURL:   strings.TrimRight(appURL, "/"),
		now:      time.Now,
		logger:   l,
	}
}

func (s *service) Create(ctx context.Context, actor domain.Actor, req CreateInvitationRequest) (CreateInvitationResponse, error) {
	s.logger.Debug("create invitation requested",
		zap.String("organization_id", actor.OrganizationID),
		zap.String("actor_id", actor.UserID),
		zap.String("role", req.Role),
	)

	if !actor.CanReview() {
		return CreateInvitationResponse{}, invitationerrors.ErrInviteForbidden
	}
	if !domain.ValidRole(req.Role) {
		return CreateInvitationResponse{}, invitationerrors.ErrInvalidRole
	}
	if req.Role == domain.RoleAdmin && !actor.IsAdmin() {
		s.logger.Warn("manager tried to invite admin", zap.String("actor_id", actor.UserID))
		return CreateInvitationResponse{}, invitationerrors.ErrCannotInviteAdmin
	}

	inviterID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return CreateInvitationResponse{}, invitationerrors.ErrInviteForbidden
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	org, err := s.orgs.FindByID(ctx, actor.OrganizationID)
	if err != nil {
		return CreateInvitationResponse{}, err
	}
	if !org.AllowsEmail(email) {
		return CreateInvitationResponse{}, invitationerrors.ErrEmailDomainNotAllowed
	}

	teamID, err := s.resolveTeam(ctx, actor, req.TeamID)
	if err != nil {
		return CreateInvitationResponse{}, err
	}

	existing, err := s.profiles.FindProfileByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return CreateInvitationResponse{}, err
	}
	if existing != nil && existing.OrganizationID != nil {
		return CreateInvitationResponse{}, invitationerrors.ErrAlreadyMember
	}

	secret, hash, err := newSecret()
	if err != nil {
		s.logger.Error("create invitation token failed", zap.Error(err))
		return CreateInvitationResponse{}, err
	}

	now := s.now().UTC()
	inv := &Invitation{
		ID:              uuid.New(),
		OrganizationID:  org.ID,
		Email:           email,
		Role:            req.Role,
		TeamID:          teamID,
		TokenHash:       hash,
		InvitedBy:       inviterID,
		PersonalMessage: strings.TrimSpace(req.PersonalMessage),
		Status:          StatusPending,
		ExpiresAt:       now.Add(Lifetime),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)
		if _, err := qtx.ExpireStale(ctx, actor.OrganizationID, email, now); err != nil {
			return err
		}
		pending, err := qtx.FindPending(ctx, actor.OrganizationID, email)
		if err != nil {
			return err
		}
		if pending != nil {
			return invitationerrors.ErrPendingInvitationExists
		}
		if err := qtx.Create(ctx, inv); err != nil {
			return mapRepositoryError(err)
		}

		ev, err := kafka.NewOutboxEvent(
			contextutil.GetRequestID(ctx),
			aggregateType,
			inv.ID.String(),
			events.InvitationCreated,
			events.InvitationsTopic,
			createdEvent(inv, now),
		)
		if err != nil {
			return err
		}
		return s.outbox.WithTx(tx).Create(ctx, ev)
	})
	if err != nil {
		if errors.Is(err, invitationerrors.ErrPendingInvitationExists) {
			s.logger.Warn("create invitation duplicate pending", zap.String("organization_id", actor.OrganizationID))
			return CreateInvitationResponse{}, err
		}
		s.logger.Error("create invitation persist failed", zap.Error(err))
		return CreateInvitationResponse{}, err
	}

	token := FormatToken(inv.ID, secret)
	acceptURL := s.acceptURL(token)
	sent := s.mailer.NotifyInvitation(ctx, notification.InvitationNotice{
		Email:            email,
		OrganizationName: org.Name,
		InviterName:      s.inviterName(ctx, actor),
		Role:             inv.Role,
		AcceptURL:        acceptURL,
		PersonalMessage:  inv.PersonalMessage,
		ExpiresAt:        inv.ExpiresAt,
	})
	if !sent.Success {
		s.logger.Warn("invitation email not sent",
			zap.String("invitation_id", inv.ID.String()),
			zap.String("reason", sent.Reason),
		)
	}

	s.logger.Info("invitation created",
		zap.String("invitation_id", inv.ID.String()),
		zap.String("organization_id", actor.OrganizationID),
		zap.String("role", inv.Role),
	)
	return CreateInvitationResponse{
		Invitation: mapToResponse(*inv),
		Token:      token,
		AcceptURL:  acceptURL,
		EmailSent:  sent.Success,
	}, nil
}

// resolveTeam checks the optional team belongs to the actor's organization
// and, for managers, is one they manage.
func (s *service) resolveTeam(ctx context.Context, actor domain.Actor, teamID string) (*uuid.UUID, error) {
	if teamID == "" {
		return nil, nil
	}
	id, err := uuid.Parse(teamID)
	if err != nil {
		return nil, invitationerrors.ErrTeamNotFound
	}
	ref, err := s.profiles.FindTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if ref == nil || ref.OrganizationID.String() != actor.OrganizationID {
		return nil, invitationerrors.ErrTeamNotFound
	}
	if !actor.IsAdmin() && (ref.ManagerID == nil || ref.ManagerID.String() != actor.UserID) {
		return nil, invitationerrors.ErrTeamForbidden
	}
	return &id, nil
}

func (s *service) inviterName(ctx context.Context, actor domain.Actor) string {
	p, err := s.profiles.FindProfile(ctx, actor.UserID)
	if err != nil || p.FullName == "" {
		return actor.Email
	}
	return p.FullName
}

func (s *service) acceptURL(token string) string {
	return s.appURL + "/onboarding/join?token=" + url.QueryEscape(token)
}

// Accept joins the caller to the inviting organization. Balances are seeded
// after the membership commits; a seeding failure is logged only.
func (s *service) Accept(ctx context.Context, identity domain.Identity, req AcceptInvitationRequest) (AcceptInvitationResponse, error) {
	id, secret, err := ParseToken(req.Token)
	if err != nil {
		return AcceptInvitationResponse{}, invitationerrors.ErrInvalidToken
	}
	userID, err := uuid.Parse(identity.UserID)
	if err != nil {
		return AcceptInvitationResponse{}, invitationerrors.ErrInvalidToken
	}

	inv, err := s.repo.FindByID(ctx, id.String())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return AcceptInvitationResponse{}, invitationerrors.ErrInvalidToken
	}
	if err != nil {
		return AcceptInvitationResponse{}, err
	}
	if !secretMatches(inv.TokenHash, secret) {
		s.logger.Warn("accept invitation secret mismatch", zap.String("invitation_id", inv.ID.String()))
		return AcceptInvitationResponse{}, invitationerrors.ErrInvalidToken
	}
	if inv.Status != StatusPending {
		return AcceptInvitationResponse{}, invitationerrors.ErrInvitationNotPending
	}

	now := s.now().UTC()
	if inv.Expired(now) {
		if _, err := s.repo.UpdateStatus(ctx, inv.ID.String(), StatusPending, StatusExpired, nil); err != nil {
			s.logger.Error("expire invitation failed", zap.String("invitation_id", inv.ID.String()), zap.Error(err))
		}
		return AcceptInvitationResponse{}, invitationerrors.ErrInvitationExpired
	}

	email := strings.ToLower(strings.TrimSpace(identity.Email))
	if email != inv.Email {
		s.logger.Warn("accept invitation email mismatch",
			zap.String("invitation_id", inv.ID.String()),
			zap.String("user_id", identity.UserID),
		)
		return AcceptInvitationResponse{}, invitationerrors.ErrEmailMismatch
	}

	org, err := s.orgs.FindByID(ctx, inv.OrganizationID.String())
	if err != nil {
		return AcceptInvitationResponse{}, err
	}
	if !org.AllowsEmail(email) {
		return AcceptInvitationResponse{}, invitationerrors.ErrEmailDomainNotAllowed
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		profiles := s.profiles.WithTx(tx)
		if err := profiles.Upsert(ctx, &membership.Profile{
			ID:       userID,
			Email:    email,
			FullName: identity.FullName,
			Role:     domain.RoleEmployee,
		}); err != nil {
			return err
		}
		p, err := profiles.FindProfile(ctx, identity.UserID)
		if err != nil {
			return err
		}
		if p.OrganizationID != nil && *p.OrganizationID != inv.OrganizationID {
			return invitationerrors.ErrAlreadyMember
		}
		if err := profiles.UpdateMembership(ctx, identity.UserID, &inv.OrganizationID, inv.Role, inv.TeamID); err != nil {
			return err
		}

		n, err := s.repo.WithTx(tx).UpdateStatus(ctx, inv.ID.String(), StatusPending, StatusAccepted, &now)
		if err != nil {
			return err
		}
		if n == 0 {
			return invitationerrors.ErrInvitationNotPending
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("accept invitation failed", zap.String("invitation_id", inv.ID.String()), zap.Error(err))
		return AcceptInvitationResponse{}, err
	}

	seeded, err := s.balances.SeedForUser(ctx, inv.OrganizationID.String(), identity.UserID, now.Year())
	if err != nil {
		s.logger.Error("seed balances after invitation failed",
			zap.String("organization_id", inv.OrganizationID.String()),
			zap.String("user_id", identity.UserID),
			zap.Error(err),
		)
	}

	s.logger.Info("invitation accepted",
		zap.String("invitation_id", inv.ID.String()),
		zap.String("organization_id", inv.OrganizationID.String()),
		zap.String("user_id", identity.UserID),
	)
	return AcceptInvitationResponse{
		Success:          true,
		OrganizationID:   org.ID.String(),
		OrganizationName: org.Name,
		Role:             inv.Role,
		SeededBalances:   seeded,
	}, nil
}

func (s *service) List(ctx context.Context, actor domain.Actor) ([]InvitationResponse, error) {
	if !actor.CanReview() {
		return nil, invitationerrors.ErrInviteForbidden
	}
	items, err := s.repo.ListPending(ctx, actor.OrganizationID, s.now().UTC())
	if err != nil {
		s.logger.Error("list invitations failed", zap.Error(err))
		return nil, err
	}
	resp := make([]InvitationResponse, 0, len(items))
	for _, inv := range items {
		resp = append(resp, mapToResponse(inv))
	}
	return resp, nil
}

// Revoke expires a pending invitation. Managers may only revoke their own.
func (s *service) Revoke(ctx context.Context, actor domain.Actor, id string) error {
	if !actor.CanReview() {
		return invitationerrors.ErrInviteForbidden
	}
	if _, err := uuid.Parse(id); err != nil {
		return invitationerrors.ErrInvitationNotFound
	}

	inv, err := s.repo.FindInOrganization(ctx, actor.OrganizationID, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if !actor.IsAdmin() && inv.InvitedBy.String() != actor.UserID {
		return invitationerrors.ErrRevokeForbidden
	}

	n, err := s.repo.UpdateStatus(ctx, id, StatusPending, StatusExpired, nil)
	if err != nil {
		s.logger.Error("revoke invitation failed", zap.String("invitation_id", id), zap.Error(err))
		return err
	}
	if n == 0 {
		return invitationerrors.ErrInvitationNotPending
	}
	s.logger.Info("invitation revoked", zap.String("invitation_id", id), zap.String("actor_id", actor.UserID))
	return nil
}

func mapToResponse(inv Invitation) InvitationResponse {
	resp := InvitationResponse{
		ID:              inv.ID.String(),
		Email:           inv.Email,
		Role:            inv.Role,
		InvitedBy:       inv.InvitedBy.String(),
		PersonalMessage: inv.PersonalMessage,
		Status:          inv.Status,
		ExpiresAt:       inv.ExpiresAt,
		CreatedAt:       inv.CreatedAt,
	}
	if inv.TeamID != nil {
		team := inv.TeamID.String()
		resp.TeamID = &team
	}
	return resp
}

func createdEvent(inv *Invitation, now time.Time) events.InvitationCreatedEvent {
	return events.InvitationCreatedEvent{
		EventType:       events.InvitationCreated,
		InvitationID:    inv.ID.String(),
		OrganizationID:  inv.OrganizationID.String(),
		Email:           inv.Email,
		Role:            inv.Role,
		InvitedBy:       inv.InvitedBy.String(),
		PersonalMessage: inv.PersonalMessage,
		ExpiresAt:       inv.ExpiresAt,
		OccurredAt:      now,
	}
}
