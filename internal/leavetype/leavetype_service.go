package leavetype

import (
	"context"
	"encoding/json"
	"time"

	"github.com/techmajster/saas-leave-system/internal/domain"
	leavetypeerrors "github.com/techmajster/saas-leave-system/internal/leavetype/errors"
	"github.com/techmajster/saas-leave-system/internal/membership"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	ListKeyPrefix = "leave_types:list:"
	listTTL       = 1 * time.Hour
)

func GetListKey(organizationID string) string {
	return ListKeyPrefix + organizationID
}

// Members is the membership view the options endpoint needs.
type Members interface {
	GetMemberProfile(ctx context.Context, actor domain.Actor, userID string) (*membership.Profile, error)
	CanManageUser(ctx context.Context, actor domain.Actor, userID string) (bool, error)
}

// BalanceSource supplies a user's balances for one year.
type BalanceSource interface {
	Snapshots(ctx context.Context, organizationID, userID string, year int) ([]Balance, error)
}

//go:generate mockgen -source=leavetype_service.go -destination=mock/leavetype_service_mock.go -package=mock
type Service interface {
	List(ctx context.Context, actor domain.Actor) ([]LeaveTypeResponse, error)
	ListForOrganization(ctx context.Context, organizationID string) ([]LeaveType, error)
	Get(ctx context.Context, organizationID, id string) (*LeaveType, error)
	Create(ctx context.Context, actor domain.Actor, req CreateLeaveTypeRequest) (LeaveTypeResponse, error)
	Update(ctx context.Context, actor domain.Actor, id string, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error)
	SeedDefaults(ctx context.Context, organizationID string) ([]LeaveType, error)
	Options(ctx context.Context, actor domain.Actor, q OptionsQuery) ([]OptionResponse, error)
}

type service struct {
	repo     Repository
	rdb      *redis.Client
	sf       *singleflight.Group
	members  Members
	balances BalanceSource
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, members Members, balances BalanceSource, logger ...*zap.Logger) Service {
	l := zap.L().Named("leavetype.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavetype.service")
	}
	return &service{
		repo:     repo,
		rdb:      rdb,
		sf:       &singleflight.Group{},
		members:  members,
		balances: balances,
		now:      time.Now,
		logger:   l,
	}
}

func (s *service) List(ctx context.Context, actor domain.Actor) ([]LeaveTypeResponse, error) {
	types, err := s.ListForOrganization(ctx, actor.OrganizationID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(types), nil
}

// ListForOrganization reads through the Redis cache; concurrent misses for
// the same organization share one query.
func (s *service) ListForOrganization(ctx context.Context, organizationID string) ([]LeaveType, error) {
	cacheKey := GetListKey(organizationID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var types []LeaveType
			if json.Unmarshal([]byte(cached), &types) == nil {
				return types, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		types, err := s.repo.FindAllByOrganization(ctx, organizationID)
		if err != nil {
			s.logger.Error("list leave types failed", zap.String("organization_id", organizationID), zap.Error(err))
			return nil, mapRepositoryError(err)
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(types); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, listTTL)
			}
		}
		return types, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]LeaveType), nil
}

func (s *service) Get(ctx context.Context, organizationID, id string) (*LeaveType, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, leavetypeerrors.ErrLeaveTypeNotFound
	}
	t, err := s.repo.FindByIDAndOrganization(ctx, organizationID, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return t, nil
}

func (s *service) Create(ctx context.Context, actor domain.Actor, req CreateLeaveTypeRequest) (LeaveTypeResponse, error) {
	if !actor.IsAdmin() {
		return LeaveTypeResponse{}, leavetypeerrors.ErrAdminOnly
	}
	if !ValidCategory(req.LeaveCategory) {
		return LeaveTypeResponse{}, leavetypeerrors.ErrInvalidCategory
	}

	t := &LeaveType{
		ID:               uuid.New(),
		OrganizationID:   uuid.MustParse(actor.OrganizationID),
		Name:             req.Name,
		DaysPerYear:      req.DaysPerYear,
		Color:            req.Color,
		RequiresApproval: req.RequiresApproval,
		RequiresBalance:  req.RequiresBalance,
		LeaveCategory:    req.LeaveCategory,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		s.logger.Warn("create leave type failed", zap.String("organization_id", actor.OrganizationID), zap.Error(err))
		return LeaveTypeResponse{}, mapRepositoryError(err)
	}

	s.invalidate(ctx, actor.OrganizationID)
	return mapToResponse(*t), nil
}

func (s *service) Update(ctx context.Context, actor domain.Actor, id string, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error) {
	if !actor.IsAdmin() {
		return LeaveTypeResponse{}, leavetypeerrors.ErrAdminOnly
	}
	if !ValidCategory(req.LeaveCategory) {
		return LeaveTypeResponse{}, leavetypeerrors.ErrInvalidCategory
	}

	t, err := s.Get(ctx, actor.OrganizationID, id)
	if err != nil {
		return LeaveTypeResponse{}, err
	}

	t.Name = req.Name
	t.DaysPerYear = req.DaysPerYear
	t.Color = req.Color
	t.RequiresApproval = req.RequiresApproval
	t.RequiresBalance = req.RequiresBalance
	t.LeaveCategory = req.LeaveCategory

	if err := s.repo.Update(ctx, t); err != nil {
		return LeaveTypeResponse{}, mapRepositoryError(err)
	}

	s.invalidate(ctx, actor.OrganizationID)
	return mapToResponse(*t), nil
}

// SeedDefaults inserts the default catalogue for a new organization.
func (s *service) SeedDefaults(ctx context.Context, organizationID string) ([]LeaveType, error) {
	orgID, err := uuid.Parse(organizationID)
	if err != nil {
		return nil, err
	}

	catalogue := DefaultCatalogue()
	types := make([]LeaveType, len(catalogue))
	for i, d := range catalogue {
		types[i] = LeaveType{
			ID:               uuid.New(),
			OrganizationID:   orgID,
			Name:             d.Name,
			DaysPerYear:      d.DaysPerYear,
			Color:            d.Color,
			RequiresApproval: d.RequiresApproval,
			RequiresBalance:  d.RequiresBalance,
			LeaveCategory:    d.Category,
		}
	}

	if err := s.repo.CreateBatch(ctx, types); err != nil {
		s.logger.Error("seed default leave types failed", zap.String("organization_id", organizationID), zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	s.invalidate(ctx, organizationID)
	s.logger.Info("default leave types seeded", zap.String("organization_id", organizationID), zap.Int("count", len(types)))
	return types, nil
}

// Options evaluates every leave type for a user. Reviewers get the full
// list with disabled flags; employees only get what they can pick.
func (s *service) Options(ctx context.Context, actor domain.Actor, q OptionsQuery) ([]OptionResponse, error) {
	userID := q.UserID
	if userID == "" {
		userID = actor.UserID
	}

	requested := decimal.Zero
	if q.RequestedDays != "" {
		d, err := decimal.NewFromString(q.RequestedDays)
		if err == nil && d.IsPositive() {
			requested = d
		}
	}

	if userID != actor.UserID {
		ok, err := s.members.CanManageUser(ctx, actor, userID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, leavetypeerrors.ErrCannotViewUser
		}
	}

	profile, err := s.members.GetMemberProfile(ctx, actor, userID)
	if err != nil {
		return nil, err
	}

	types, err := s.ListForOrganization(ctx, actor.OrganizationID)
	if err != nil {
		return nil, err
	}

	balances, err := s.balances.Snapshots(ctx, actor.OrganizationID, userID, s.now().Year())
	if err != nil {
		s.logger.Error("load balances for options failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	subject := Subject{Gender: profile.Gender}
	options := Enumerate(subject, types, balances, actor.OrganizationID, requested)

	resp := make([]OptionResponse, 0, len(options))
	for _, o := range options {
		if o.Available.Disabled && !actor.CanReview() {
			continue
		}
		item := OptionResponse{
			LeaveTypeResponse: mapToResponse(o.Type),
			Disabled:          o.Available.Disabled,
			DisabledReason:    o.Available.Reason,
		}
		if o.Balance != nil {
			r := o.Balance.Remaining().String()
			item.RemainingDays = &r
		}
		resp = append(resp, item)
	}
	return resp, nil
}

func (s *service) invalidate(ctx context.Context, organizationID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := GetListKey(organizationID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate leave type cache",
			zap.String("key", cacheKey),
			zap.Error(err),
		)
	}
}

func mapToResponse(t LeaveType) LeaveTypeResponse {
	return LeaveTypeResponse{
		ID:               t.ID.String(),
		OrganizationID:   t.OrganizationID.String(),
		Name:             t.Name,
		DaysPerYear:      t.DaysPerYear,
		Color:            t.Color,
		RequiresApproval: t.RequiresApproval,
		RequiresBalance:  t.RequiresBalance,
		LeaveCategory:    t.LeaveCategory,
		CreatedAt:        t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        t.UpdatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(types []LeaveType) []LeaveTypeResponse {
	res := make([]LeaveTypeResponse, len(types))
	for i, t := range types {
		res[i] = mapToResponse(t)
	}
	return res
}
