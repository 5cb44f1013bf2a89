package organization

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/techmajster/saas-leave-system/internal/domain"
	"github.com/techmajster/saas-leave-system/internal/leavetype"
	"github.com/techmajster/saas-leave-system/internal/membership"
	organizationerrors "github.com/techmajster/saas-leave-system/internal/organization/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type LeaveTypeSeeder interface {
	SeedDefaults(ctx context.Context, organizationID string) ([]leavetype.LeaveType, error)
}

type BalanceSeeder interface {
	SeedForUser(ctx context.Context, organizationID, userID string, year int) (int64, error)
}

//go:generate mockgen -source=organization_service.go -destination=mock/organization_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, identity domain.Identity, req CreateOrganizationRequest) (CreateOrganizationResponse, error)
	GetSettings(ctx context.Context, actor domain.Actor) (OrganizationResponse, error)
	UpdateSettings(ctx context.Context, actor domain.Actor, req UpdateSettingsRequest) (OrganizationResponse, error)
	FindByID(ctx context.Context, id string) (*Organization, error)
}

type service struct {
	db       *gorm.DB
	repo     Repository
	profiles membership.Repository
	types    LeaveTypeSeeder
	balances BalanceSeeder
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	profiles membership.Repository,
	types LeaveTypeSeeder,
	balances BalanceSeeder,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("organization.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("organization.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		profiles: profiles,
		types:    types,
		balances: balances,
		now:      time.Now,
		logger:   l,
	}
}

// Create registers an organization and makes the caller its admin. Default
// leave types and the creator's balances are seeded afterwards; a seeding
// failure is logged and the organization stays.
func (s *service) Create(ctx context.Context, identity domain.Identity, req CreateOrganizationRequest) (CreateOrganizationResponse, error) {
	s.logger.Debug("create organization requested",
		zap.String("user_id", identity.UserID),
		zap.String("slug", req.Slug),
	)

	userID, err := uuid.Parse(identity.UserID)
	if err != nil {
		return CreateOrganizationResponse{}, organizationerrors.ErrProfileNotFound
	}
	slug, ok := normalizeSlug(req.Slug)
	if !ok {
		return CreateOrganizationResponse{}, organizationerrors.ErrInvalidSlug
	}
	if req.RequireGoogleDomain && (req.GoogleDomain == nil || *req.GoogleDomain == "") {
		return CreateOrganizationResponse{}, organizationerrors.ErrGoogleDomainRequired
	}

	org := &Organization{
		ID:                  uuid.New(),
		Name:                strings.TrimSpace(req.Name),
		Slug:                slug,
		GoogleDomain:        req.GoogleDomain,
		RequireGoogleDomain: req.RequireGoogleDomain,
		CountryCode:         req.CountryCode,
		Locale:              LocalePL,
	}
	if org.CountryCode == "" {
		org.CountryCode = CountryPL
	}
	if org.CountryCode != CountryPL {
		org.Locale = LocaleEN
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		profiles := s.profiles.WithTx(tx)
		if err := profiles.Upsert(ctx, &membership.Profile{
			ID:       userID,
			Email:    strings.ToLower(identity.Email),
			FullName: identity.FullName,
			Role:     domain.RoleEmployee,
		}); err != nil {
			return err
		}
		p, err := profiles.FindProfile(ctx, identity.UserID)
		if err != nil {
			return err
		}
		if p.OrganizationID != nil {
			return organizationerrors.ErrAlreadyMember
		}

		qtx := s.repo.WithTx(tx)
		taken, err := qtx.SlugTaken(ctx, slug, "")
		if err != nil {
			return err
		}
		if taken {
			return organizationerrors.ErrSlugTaken
		}
		if err := qtx.Create(ctx, org); err != nil {
			return mapRepositoryError(err)
		}

		return profiles.UpdateMembership(ctx, identity.UserID, &org.ID, domain.RoleAdmin, nil)
	})
	if err != nil {
		s.logger.Warn("create organization failed", zap.String("slug", slug), zap.Error(err))
		return CreateOrganizationResponse{}, err
	}

	resp := CreateOrganizationResponse{
		Success:      true,
		Organization: mapToResponse(*org),
		Message:      "Organization created successfully",
	}

	types, err := s.types.SeedDefaults(ctx, org.ID.String())
	if err != nil {
		s.logger.Error("seed default leave types failed", zap.String("organization_id", org.ID.String()), zap.Error(err))
		return resp, nil
	}
	resp.SeededLeaveTypes = len(types)

	seeded, err := s.balances.SeedForUser(ctx, org.ID.String(), identity.UserID, s.now().Year())
	if err != nil {
		s.logger.Error("seed creator balances failed", zap.String("organization_id", org.ID.String()), zap.Error(err))
		return resp, nil
	}
	resp.SeededBalances = seeded

	s.logger.Info("organization created",
		zap.String("organization_id", org.ID.String()),
		zap.String("slug", slug),
		zap.Int("leave_types", resp.SeededLeaveTypes),
		zap.Int64("balances", resp.SeededBalances),
	)
	return resp, nil
}

func (s *service) GetSettings(ctx context.Context, actor domain.Actor) (OrganizationResponse, error) {
	if !actor.IsAdmin() {
		return OrganizationResponse{}, organizationerrors.ErrAdminOnly
	}
	org, err := s.FindByID(ctx, actor.OrganizationID)
	if err != nil {
		return OrganizationResponse{}, err
	}
	return mapToResponse(*org), nil
}

// UpdateSettings edits the organization. Naming another member as admin
// hands the role over: the caller becomes an employee in the same commit.
func (s *service) UpdateSettings(ctx context.Context, actor domain.Actor, req UpdateSettingsRequest) (OrganizationResponse, error) {
	s.logger.Debug("update organization settings requested",
		zap.String("organization_id", actor.OrganizationID),
		zap.String("actor_id", actor.UserID),
	)

	if !actor.IsAdmin() {
		return OrganizationResponse{}, organizationerrors.ErrAdminOnly
	}
	name := strings.TrimSpace(req.Name)
	if name == "" || strings.TrimSpace(req.Slug) == "" {
		return OrganizationResponse{}, organizationerrors.ErrNameSlugRequired
	}
	slug, ok := normalizeSlug(req.Slug)
	if !ok {
		return OrganizationResponse{}, organizationerrors.ErrInvalidSlug
	}

	var org *Organization
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		var err error
		org, err = qtx.FindByID(ctx, actor.OrganizationID)
		if err != nil {
			return mapRepositoryError(err)
		}

		taken, err := qtx.SlugTaken(ctx, slug, actor.OrganizationID)
		if err != nil {
			return err
		}
		if taken {
			return organizationerrors.ErrSlugTaken
		}

		org.Name = name
		org.Slug = slug
		if req.CountryCode != "" {
			org.CountryCode = req.CountryCode
		}
		if req.Locale != "" {
			org.Locale = req.Locale
		}
		if req.GoogleDomain != nil {
			org.GoogleDomain = req.GoogleDomain
			if *req.GoogleDomain == "" {
				org.GoogleDomain = nil
			}
		}
		if req.RequireGoogleDomain != nil {
			org.RequireGoogleDomain = *req.RequireGoogleDomain
		}
		if org.RequireGoogleDomain && org.GoogleDomain == nil {
			return organizationerrors.ErrGoogleDomainRequired
		}
		org.UpdatedAt = s.now().UTC()

		if err := qtx.Update(ctx, org); err != nil {
			return mapRepositoryError(err)
		}

		if req.AdminID != nil && *req.AdminID != actor.UserID {
			return s.transferAdmin(ctx, tx, actor, *req.AdminID)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("update organization settings failed",
			zap.String("organization_id", actor.OrganizationID),
			zap.Error(err),
		)
		return OrganizationResponse{}, err
	}

	s.logger.Info("organization settings updated", zap.String("organization_id", actor.OrganizationID))
	return mapToResponse(*org), nil
}

func (s *service) transferAdmin(ctx context.Context, tx *gorm.DB, actor domain.Actor, newAdminID string) error {
	profiles := s.profiles.WithTx(tx)

	if _, err := profiles.FindProfileInOrganization(ctx, actor.OrganizationID, newAdminID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return organizationerrors.ErrAdminNotFound
		}
		return err
	}
	if _, err := profiles.UpdateRole(ctx, actor.OrganizationID, newAdminID, domain.RoleAdmin); err != nil {
		return err
	}
	if _, err := profiles.UpdateRole(ctx, actor.OrganizationID, actor.UserID, domain.RoleEmployee); err != nil {
		return err
	}

	s.logger.Info("organization admin transferred",
		zap.String("organization_id", actor.OrganizationID),
		zap.String("from", actor.UserID),
		zap.String("to", newAdminID),
	)
	return nil
}

func (s *service) FindByID(ctx context.Context, id string) (*Organization, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, organizationerrors.ErrOrganizationNotFound
	}
	org, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return org, nil
}

func mapToResponse(o Organization) OrganizationResponse {
	return OrganizationResponse{
		ID:                  o.ID.String(),
		Name:                o.Name,
		Slug:                o.Slug,
		GoogleDomain:        o.GoogleDomain,
		RequireGoogleDomain: o.RequireGoogleDomain,
		CountryCode:         o.CountryCode,
		Locale:              o.Locale,
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.UpdatedAt,
	}
}
