package leave

import (
	"context"
	"errors"
	"time"

	"github.com/techmajster/saas-leave-system/internal/domain"
	"github.com/techmajster/saas-leave-system/internal/events"
	leaveerrors "github.com/techmajster/saas-leave-system/internal/leave/errors"
	"github.com/techmajster/saas-leave-system/internal/leavetype"
	"github.com/techmajster/saas-leave-system/internal/membership"
	membershiperrors "github.com/techmajster/saas-leave-system/internal/membership/errors"
	"github.com/techmajster/saas-leave-system/internal/messaging/kafka"
	"github.com/techmajster/saas-leave-system/internal/shared/contextutil"
	"github.com/techmajster/saas-leave-system/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	aggregateType   = "leave_request"
)

// Members is the membership view the leave workflow depends on.
type Members interface {
	ResolveScope(ctx context.Context, userID string) (domain.Scope, error)
	GetMemberProfile(ctx context.Context, actor domain.Actor, userID string) (*membership.Profile, error)
	CanManageUser(ctx context.Context, actor domain.Actor, userID string) (bool, error)
}

type LeaveTypes interface {
	Get(ctx context.Context, organizationID, id string) (*leavetype.LeaveType, error)
}

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor domain.Actor, req CreateLeaveRequest) (CreateResponse, error)
	Review(ctx context.Context, actor domain.Actor, id string, req ReviewLeaveRequest) (ReviewResponse, error)
	GetByID(ctx context.Context, actor domain.Actor, id string) (LeaveRequestResponse, error)
	List(ctx context.Context, actor domain.Actor, q ListQuery) ([]LeaveRequestResponse, int64, error)
	FindOverlaps(ctx context.Context, actor domain.Actor, q OverlapsQuery) ([]OverlapResponse, error)
	HasConflict(ctx context.Context, organizationID, userID string, start, end time.Time) (bool, error)
}

type service struct {
	db       *gorm.DB
	repo     Repository
	counter  counter.Repository
	outbox   kafka.OutboxRepository
	members  Members
	types    LeaveTypes
	balances leavetype.BalanceSource
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	counterRepo counter.Repository,
	outbox kafka.OutboxRepository,
	members Members,
	types LeaveTypes,
	balances leavetype.BalanceSource,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		counter:  counterRepo,
		outbox:   outbox,
		members:  members,
		types:    types,
		balances: balances,
		now:      time.Now,
		logger:   l,
	}
}

// Create files a leave request. Employees get a pending request gated on
// conflicts and balance. Reviewers may add an approved absence for someone
// they manage; that path still refuses conflicts but only warns on balance.
func (s *service) Create(ctx context.Context, actor domain.Actor, req CreateLeaveRequest) (CreateResponse, error) {
	s.logger.Debug("create leave request requested",
		zap.String("organization_id", actor.OrganizationID),
		zap.String("actor_id", actor.UserID),
		zap.String("user_id", req.UserID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
		zap.Bool("auto_approve", req.AutoApprove),
	)

	start, end, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return CreateResponse{}, err
	}

	targetID := req.UserID
	if targetID == "" {
		targetID = actor.UserID
	}
	if req.AutoApprove && !actor.CanReview() {
		return CreateResponse{}, leaveerrors.ErrAutoApproveForbidden
	}
	if targetID != actor.UserID {
		ok, err := s.members.CanManageUser(ctx, actor, targetID)
		if err != nil {
			return CreateResponse{}, err
		}
		if !ok {
			s.logger.Warn("create leave request for unmanaged user",
				zap.String("actor_id", actor.UserID),
				zap.String("user_id", targetID),
			)
			return CreateResponse{}, leaveerrors.ErrCannotCreateForUser
		}
	}

	profile, err := s.members.GetMemberProfile(ctx, actor, targetID)
	if err != nil {
		return CreateResponse{}, mapMemberError(err)
	}
	t, err := s.types.Get(ctx, actor.OrganizationID, req.LeaveTypeID)
	if err != nil {
		return CreateResponse{}, err
	}

	days := WorkingDays(start, end)
	if days.IsZero() {
		return CreateResponse{}, leaveerrors.ErrNoWorkingDays
	}

	availability, err := s.availability(ctx, actor.OrganizationID, targetID, *t, profile, days, start.Year())
	if err != nil {
		s.logger.Error("create leave request balance lookup failed", zap.Error(err))
		return CreateResponse{}, err
	}
	var warnings []string
	if availability.Disabled {
		if !req.AutoApprove {
			s.logger.Warn("create leave request type unavailable",
				zap.String("user_id", targetID),
				zap.String("leave_type_id", req.LeaveTypeID),
				zap.String("reason", availability.Reason),
			)
			return CreateResponse{}, leaveerrors.LeaveTypeUnavailable(availability.Reason)
		}
		warnings = append(warnings, availability.Reason)
	}

	now := s.now().UTC()
	actorUUID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return CreateResponse{}, leaveerrors.ErrInvalidUserID
	}
	lr := &LeaveRequest{
		ID:             uuid.New(),
		OrganizationID: *profile.OrganizationID,
		UserID:         profile.ID,
		LeaveTypeID:    t.ID,
		StartDate:      start,
		EndDate:        end,
		DaysRequested:  days,
		Status:         StatusPending,
		Notes:          req.Notes,
		CreatedBy:      actorUUID,
	}
	if req.AutoApprove || !t.RequiresApproval {
		lr.Status = StatusApproved
		lr.ReviewedBy = &actorUUID
		lr.ReviewedAt = &now
		lr.AutoApproved = true
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		conflict, err := qtx.HasConflict(ctx, actor.OrganizationID, targetID, start, end)
		if err != nil {
			return err
		}
		if conflict {
			return leaveerrors.ErrLeaveConflict
		}

		seq, err := s.counter.WithTx(tx).GetNextValue(ctx, actor.OrganizationID, counter.LeaveRequestNumber)
		if err != nil {
			return err
		}
		lr.Number = counter.FormatLeaveRequestNumber(seq)

		if err := qtx.Create(ctx, lr); err != nil {
			return err
		}

		outbox := s.outbox.WithTx(tx)
		if lr.Status == StatusPending {
			return s.enqueue(ctx, outbox, lr, events.LeaveRequestCreated, createdEvent(lr, now))
		}
		if err := s.enqueue(ctx, outbox, lr, events.LeaveRequestApproved, approvedEvent(lr, !req.AutoApprove, now)); err != nil {
			return err
		}
		return s.enqueue(ctx, outbox, lr, events.LeaveRequestStatusChanged, statusChangedEvent(lr, "", now))
	})
	if err != nil {
		if errors.Is(err, leaveerrors.ErrLeaveConflict) {
			s.logger.Warn("create leave request conflict",
				zap.String("user_id", targetID),
				zap.String("start_date", req.StartDate),
				zap.String("end_date", req.EndDate),
			)
			return CreateResponse{}, err
		}
		s.logger.Error("create leave request persist failed", zap.Error(err))
		return CreateResponse{}, err
	}

	s.logger.Info("create leave request success",
		zap.String("leave_request_id", lr.ID.String()),
		zap.String("number", lr.Number),
		zap.String("status", lr.Status),
		zap.Strings("warnings", warnings),
	)
	return CreateResponse{LeaveRequestResponse: mapToResponse(*lr), Warnings: warnings}, nil
}

// Review approves or rejects a pending request. Any admin or manager of the
// request's organization may review it. The status write is a compare-and-set
// on pending and commits together with the outbox events, so of two
// concurrent reviews exactly one wins.
func (s *service) Review(ctx context.Context, actor domain.Actor, id string, req ReviewLeaveRequest) (ReviewResponse, error) {
	s.logger.Debug("review leave request requested",
		zap.String("leave_request_id", id),
		zap.String("actor_id", actor.UserID),
		zap.String("action", req.Action),
	)

	if req.Action != ActionApprove && req.Action != ActionReject {
		return ReviewResponse{}, leaveerrors.ErrInvalidAction
	}
	if !actor.CanReview() {
		return ReviewResponse{}, leaveerrors.ErrReviewForbidden
	}
	if _, err := uuid.Parse(id); err != nil {
		return ReviewResponse{}, leaveerrors.ErrLeaveRequestNotFound
	}

	lr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ReviewResponse{}, leaveerrors.ErrLeaveRequestNotFound
		}
		s.logger.Error("review leave request lookup failed", zap.Error(err))
		return ReviewResponse{}, err
	}
	if lr.OrganizationID.String() != actor.OrganizationID {
		s.logger.Warn("review leave request from another organization",
			zap.String("leave_request_id", id),
			zap.String("actor_organization_id", actor.OrganizationID),
		)
		return ReviewResponse{}, leaveerrors.ErrOtherOrganization
	}

	next, effects, err := Transition(lr.Status, req.Action)
	if err != nil {
		return ReviewResponse{}, err
	}

	reviewer, err := uuid.Parse(actor.UserID)
	if err != nil {
		return ReviewResponse{}, leaveerrors.ErrInvalidUserID
	}
	now := s.now().UTC()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		n, err := qtx.UpdateStatus(ctx, id, StatusPending, StatusChange{
			To:         next,
			ReviewedBy: reviewer,
			ReviewedAt: now,
			Comment:    req.Comment,
		})
		if err != nil {
			return err
		}
		if n == 0 {
			current, err := qtx.FindByID(ctx, id)
			if err != nil {
				return err
			}
			return leaveerrors.StatusConflict(req.Action, current.Status)
		}

		previous := lr.Status
		lr.Status = next
		lr.ReviewedBy = &reviewer
		lr.ReviewedAt = &now
		lr.ReviewComment = req.Comment

		outbox := s.outbox.WithTx(tx)
		for _, effect := range effects {
			switch effect {
			case EffectApplyBalance:
				err = s.enqueue(ctx, outbox, lr, events.LeaveRequestApproved, approvedEvent(lr, true, now))
			case EffectNotifyRequest:
				err = s.enqueue(ctx, outbox, lr, events.LeaveRequestStatusChanged, statusChangedEvent(lr, previous, now))
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("review leave request failed",
			zap.String("leave_request_id", id),
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return ReviewResponse{}, err
	}

	s.logger.Info("review leave request success",
		zap.String("leave_request_id", id),
		zap.String("status", next),
		zap.String("reviewed_by", actor.UserID),
	)

	message := "Leave request approved"
	if next == StatusRejected {
		message = "Leave request rejected"
	}
	return ReviewResponse{Success: true, Message: message, Status: next}, nil
}

func (s *service) GetByID(ctx context.Context, actor domain.Actor, id string) (LeaveRequestResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveRequestResponse{}, leaveerrors.ErrLeaveRequestNotFound
	}
	scope, err := s.members.ResolveScope(ctx, actor.UserID)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	lr, err := s.repo.FindByIDInScope(ctx, scope, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaveerrors.ErrLeaveRequestNotFound
		}
		return LeaveRequestResponse{}, err
	}
	return mapToResponse(*lr), nil
}

func (s *service) List(ctx context.Context, actor domain.Actor, q ListQuery) ([]LeaveRequestResponse, int64, error) {
	scope, err := s.members.ResolveScope(ctx, actor.UserID)
	if err != nil {
		return nil, 0, err
	}

	f := ListFilter{Status: q.Status, UserID: q.UserID}
	if q.From != "" {
		from, err := parseDate(q.From)
		if err != nil {
			return nil, 0, err
		}
		f.From = &from
	}
	if q.To != "" {
		to, err := parseDate(q.To)
		if err != nil {
			return nil, 0, err
		}
		f.To = &to
	}
	page, size := normalizePage(q.Page, q.PageSize)
	f.Offset = (page - 1) * size
	f.Limit = size

	rows, total, err := s.repo.List(ctx, scope, f)
	if err != nil {
		s.logger.Error("list leave requests failed", zap.String("scope", scope.String()), zap.Error(err))
		return nil, 0, err
	}

	resp := make([]LeaveRequestResponse, len(rows))
	for i, lr := range rows {
		resp[i] = mapToResponse(lr)
	}
	return resp, total, nil
}

// FindOverlaps lists other members' pending or approved leave in the
// actor's scope that intersects the range. It is advisory and never blocks.
func (s *service) FindOverlaps(ctx context.Context, actor domain.Actor, q OverlapsQuery) ([]OverlapResponse, error) {
	start, end, err := parseRange(q.StartDate, q.EndDate)
	if err != nil {
		return nil, err
	}
	scope, err := s.members.ResolveScope(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	overlaps, err := s.repo.FindOverlaps(ctx, scope, start, end, q.ExcludeUserID)
	if err != nil {
		s.logger.Error("find overlaps failed", zap.Error(err))
		return nil, err
	}

	resp := make([]OverlapResponse, len(overlaps))
	for i, o := range overlaps {
		resp[i] = OverlapResponse{
			UserID:        o.UserID,
			FullName:      o.FullName,
			Email:         o.Email,
			LeaveTypeName: o.LeaveTypeName,
			Color:         o.Color,
			StartDate:     o.StartDate.Format(dateLayout),
			EndDate:       o.EndDate.Format(dateLayout),
			Status:        o.Status,
		}
	}
	return resp, nil
}

func (s *service) HasConflict(ctx context.Context, organizationID, userID string, start, end time.Time) (bool, error) {
	return s.repo.HasConflict(ctx, organizationID, userID, start, end)
}

func (s *service) availability(
	ctx context.Context,
	organizationID, userID string,
	t leavetype.LeaveType,
	profile *membership.Profile,
	days decimal.Decimal,
	year int,
) (leavetype.Availability, error) {
	balances, err := s.balances.Snapshots(ctx, organizationID, userID, year)
	if err != nil {
		return leavetype.Availability{}, err
	}
	var bal *leavetype.Balance
	for i := range balances {
		if balances[i].LeaveTypeID == t.ID.String() {
			bal = &balances[i]
			break
		}
	}
	return leavetype.IsDisabled(t, bal, leavetype.Subject{Gender: profile.Gender}, days), nil
}

func (s *service) enqueue(ctx context.Context, outbox kafka.OutboxRepository, lr *LeaveRequest, eventType string, payload any) error {
	ev, err := kafka.NewOutboxEvent(
		contextutil.GetRequestID(ctx),
		aggregateType,
		lr.ID.String(),
		eventType,
		events.LeaveRequestsTopic,
		payload,
	)
	if err != nil {
		return err
	}
	return outbox.Create(ctx, ev)
}

func mapMemberError(err error) error {
	switch {
	case errors.Is(err, membershiperrors.ErrProfileNotFound):
		return leaveerrors.ErrUserNotFound
	case errors.Is(err, membershiperrors.ErrInvalidUserID):
		return leaveerrors.ErrInvalidUserID
	default:
		return err
	}
}

func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}
