package balance

import (
	"context"
	"errors"
	"time"

	balanceerrors "github.com/techmajster/saas-leave-system/internal/balance/errors"
	"github.com/techmajster/saas-leave-system/internal/domain"
	"github.com/techmajster/saas-leave-system/internal/leavetype"
	"github.com/techmajster/saas-leave-system/internal/membership"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Members is the membership view balance reads need.
type Members interface {
	GetMemberProfile(ctx context.Context, actor domain.Actor, userID string) (*membership.Profile, error)
	CanManageUser(ctx context.Context, actor domain.Actor, userID string) (bool, error)
}

//go:generate mockgen -source=balance_service.go -destination=mock/balance_service_mock.go -package=mock
type Service interface {
	ApplyApproval(ctx context.Context, in ApplyApprovalInput) (ApplyResult, error)
	RecordFailure(ctx context.Context, in ApplyApprovalInput, reason string) error
	Snapshots(ctx context.Context, organizationID, userID string, year int) ([]leavetype.Balance, error)
	GetBalances(ctx context.Context, actor domain.Actor, q BalancesQuery) ([]BalanceResponse, error)
	UpsertEntitlement(ctx context.Context, actor domain.Actor, req UpsertEntitlementRequest) (BalanceResponse, error)
	SeedForUser(ctx context.Context, organizationID, userID string, year int) (int64, error)
	ListReconciliations(ctx context.Context, actor domain.Actor, q ReconciliationQuery) ([]ReconciliationResponse, error)
	RetryReconciliation(ctx context.Context, actor domain.Actor, id string) (ReconciliationResponse, error)
}

type service struct {
	db      *gorm.DB
	repo    Repository
	types   leavetype.Repository
	members Members
	now     func() time.Time
	logger  *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, types leavetype.Repository, members Members, logger ...*zap.Logger) Service {
	l := zap.L().Named("balance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		types:   types,
		members: members,
		now:     time.Now,
		logger:  l,
	}
}

// ApplyApproval charges an approved request against the user's balance for
// the year. The charge and its ledger entry commit together, so a replayed
// approval is reported as already applied.
func (s *service) ApplyApproval(ctx context.Context, in ApplyApprovalInput) (ApplyResult, error) {
	s.logger.Debug("apply approval requested",
		zap.String("leave_request_id", in.RequestID),
		zap.String("user_id", in.UserID),
		zap.String("days", in.Days.String()),
		zap.Bool("enforce", in.Enforce),
	)

	requestID, err := uuid.Parse(in.RequestID)
	if err != nil {
		return ApplyResult{}, err
	}
	if in.Days.IsNegative() {
		return ApplyResult{}, balanceerrors.ErrInvalidDays
	}

	var result ApplyResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		b, err := qtx.FindBalance(ctx, in.OrganizationID, in.UserID, in.LeaveTypeID, in.Year)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			t, err := qtx.FindLeaveType(ctx, in.OrganizationID, in.LeaveTypeID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return balanceerrors.ErrLeaveTypeNotFound
				}
				return err
			}
			if !t.RequiresBalance {
				result = ApplyResult{Skipped: SkippedUntracked}
				return nil
			}
			return balanceerrors.ErrBalanceNotFound
		}

		inserted, err := qtx.InsertApplication(ctx, &BalanceApplication{
			LeaveRequestID: requestID,
			BalanceID:      b.ID,
			Days:           in.Days,
			AppliedAt:      s.now().UTC(),
		})
		if err != nil {
			return err
		}
		if !inserted {
			result = ApplyResult{Skipped: SkippedAlreadyApplied}
			return nil
		}

		n, err := qtx.IncrementUsed(ctx, b.ID.String(), in.Days, in.Enforce)
		if err != nil {
			return err
		}
		if n == 0 {
			return balanceerrors.ErrInsufficientBalance
		}

		result = ApplyResult{Applied: true}
		return nil
	})
	if err != nil {
		s.logger.Warn("apply approval failed",
			zap.String("leave_request_id", in.RequestID),
			zap.Error(err),
		)
		return ApplyResult{}, err
	}

	s.logger.Info("approval applied to balance",
		zap.String("leave_request_id", in.RequestID),
		zap.Bool("applied", result.Applied),
		zap.String("skipped", result.Skipped),
	)
	return result, nil
}

// RecordFailure keeps an approved request whose charge could not be applied
// visible to administrators.
func (s *service) RecordFailure(ctx context.Context, in ApplyApprovalInput, reason string) error {
	rec := &Reconciliation{
		ID:       uuid.New(),
		Year:     in.Year,
		Days:     in.Days,
		Enforce:  in.Enforce,
		Reason:   reason,
		Status:   ReconciliationOpen,
		Attempts: 1,
	}
	var err error
	if rec.OrganizationID, err = uuid.Parse(in.OrganizationID); err != nil {
		return err
	}
	if rec.LeaveRequestID, err = uuid.Parse(in.RequestID); err != nil {
		return err
	}
	if rec.UserID, err = uuid.Parse(in.UserID); err != nil {
		return err
	}
	if rec.LeaveTypeID, err = uuid.Parse(in.LeaveTypeID); err != nil {
		return err
	}

	if err := s.repo.SaveReconciliation(ctx, rec); err != nil {
		s.logger.Error("record reconciliation failed",
			zap.String("leave_request_id", in.RequestID),
			zap.Error(err),
		)
		return err
	}

	s.logger.Warn("balance reconciliation recorded",
		zap.String("leave_request_id", in.RequestID),
		zap.String("reason", reason),
	)
	return nil
}

func (s *service) Snapshots(ctx context.Context, organizationID, userID string, year int) ([]leavetype.Balance, error) {
	balances, err := s.repo.ListBalances(ctx, organizationID, userID, year)
	if err != nil {
		return nil, err
	}
	out := make([]leavetype.Balance, len(balances))
	for i, b := range balances {
		out[i] = leavetype.Balance{
			LeaveTypeID:  b.LeaveTypeID.String(),
			EntitledDays: b.EntitledDays,
			UsedDays:     b.UsedDays,
		}
	}
	return out, nil
}

func (s *service) GetBalances(ctx context.Context, actor domain.Actor, q BalancesQuery) ([]BalanceResponse, error) {
	userID := q.UserID
	if userID == "" {
		userID = actor.UserID
	}
	year := q.Year
	if year == 0 {
		year = s.now().Year()
	}

	if userID != actor.UserID {
		ok, err := s.members.CanManageUser(ctx, actor, userID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, balanceerrors.ErrCannotViewUser
		}
	}

	balances, err := s.repo.ListBalances(ctx, actor.OrganizationID, userID, year)
	if err != nil {
		s.logger.Error("list balances failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	types, err := s.types.FindAllByOrganization(ctx, actor.OrganizationID)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(types))
	for _, t := range types {
		names[t.ID] = t.Name
	}

	resp := make([]BalanceResponse, len(balances))
	for i, b := range balances {
		resp[i] = mapToResponse(b)
		resp[i].LeaveTypeName = names[b.LeaveTypeID]
	}
	return resp, nil
}

func (s *service) UpsertEntitlement(ctx context.Context, actor domain.Actor, req UpsertEntitlementRequest) (BalanceResponse, error) {
	if !actor.IsAdmin() {
		return BalanceResponse{}, balanceerrors.ErrAdminOnly
	}

	days, err := decimal.NewFromString(req.EntitledDays)
	if err != nil || days.IsNegative() {
		return BalanceResponse{}, balanceerrors.ErrInvalidDays
	}

	if _, err := s.members.GetMemberProfile(ctx, actor, req.UserID); err != nil {
		return BalanceResponse{}, err
	}
	if _, err := s.repo.FindLeaveType(ctx, actor.OrganizationID, req.LeaveTypeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BalanceResponse{}, balanceerrors.ErrLeaveTypeNotFound
		}
		return BalanceResponse{}, err
	}

	b := &LeaveBalance{
		ID:             uuid.New(),
		OrganizationID: uuid.MustParse(actor.OrganizationID),
		UserID:         uuid.MustParse(req.UserID),
		LeaveTypeID:    uuid.MustParse(req.LeaveTypeID),
		Year:           req.Year,
		EntitledDays:   days,
		UsedDays:       decimal.Zero,
	}
	if err := s.repo.UpsertEntitlement(ctx, b); err != nil {
		s.logger.Error("upsert entitlement failed", zap.String("user_id", req.UserID), zap.Error(err))
		return BalanceResponse{}, err
	}

	stored, err := s.repo.FindBalance(ctx, actor.OrganizationID, req.UserID, req.LeaveTypeID, req.Year)
	if err != nil {
		return BalanceResponse{}, err
	}

	s.logger.Info("entitlement updated",
		zap.String("user_id", req.UserID),
		zap.String("leave_type_id", req.LeaveTypeID),
		zap.Int("year", req.Year),
		zap.String("entitled_days", days.String()),
	)
	return mapToResponse(*stored), nil
}

// SeedForUser creates the year's balances a new member starts with. Manual
// assignment categories and untracked types are skipped.
func (s *service) SeedForUser(ctx context.Context, organizationID, userID string, year int) (int64, error) {
	orgID, err := uuid.Parse(organizationID)
	if err != nil {
		return 0, err
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return 0, err
	}

	types, err := s.types.FindAllByOrganization(ctx, organizationID)
	if err != nil {
		return 0, err
	}

	var balances []LeaveBalance
	for _, t := range types {
		if !t.SeedsBalance() {
			continue
		}
		balances = append(balances, LeaveBalance{
			ID:             uuid.New(),
			OrganizationID: orgID,
			UserID:         uid,
			LeaveTypeID:    t.ID,
			Year:           year,
			EntitledDays:   decimal.NewFromInt(int64(t.DaysPerYear)),
			UsedDays:       decimal.Zero,
		})
	}

	n, err := s.repo.CreateMissing(ctx, balances)
	if err != nil {
		s.logger.Error("seed balances failed", zap.String("user_id", userID), zap.Error(err))
		return 0, err
	}
	s.logger.Info("balances seeded", zap.String("user_id", userID), zap.Int("year", year), zap.Int64("created", n))
	return n, nil
}

func (s *service) ListReconciliations(ctx context.Context, actor domain.Actor, q ReconciliationQuery) ([]ReconciliationResponse, error) {
	if !actor.IsAdmin() {
		return nil, balanceerrors.ErrAdminOnly
	}
	recs, err := s.repo.ListReconciliations(ctx, actor.OrganizationID, q.Status)
	if err != nil {
		return nil, err
	}
	resp := make([]ReconciliationResponse, len(recs))
	for i, r := range recs {
		resp[i] = mapToReconciliationResponse(r)
	}
	return resp, nil
}

// RetryReconciliation re-applies the charge with its original enforcement
// and resolves the entry on success.
func (s *service) RetryReconciliation(ctx context.Context, actor domain.Actor, id string) (ReconciliationResponse, error) {
	if !actor.IsAdmin() {
		return ReconciliationResponse{}, balanceerrors.ErrAdminOnly
	}
	if _, err := uuid.Parse(id); err != nil {
		return ReconciliationResponse{}, balanceerrors.ErrReconciliationNotFound
	}

	rec, err := s.repo.FindReconciliation(ctx, actor.OrganizationID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ReconciliationResponse{}, balanceerrors.ErrReconciliationNotFound
		}
		return ReconciliationResponse{}, err
	}
	if rec.Status == ReconciliationResolved {
		return ReconciliationResponse{}, balanceerrors.ErrAlreadyResolved
	}

	_, applyErr := s.ApplyApproval(ctx, ApplyApprovalInput{
		RequestID:      rec.LeaveRequestID.String(),
		UserID:         rec.UserID.String(),
		LeaveTypeID:    rec.LeaveTypeID.String(),
		OrganizationID: rec.OrganizationID.String(),
		Days:           rec.Days,
		Year:           rec.Year,
		Enforce:        rec.Enforce,
	})

	rec.Attempts++
	if applyErr != nil {
		rec.Reason = applyErr.Error()
	} else {
		now := s.now().UTC()
		rec.Status = ReconciliationResolved
		rec.ResolvedAt = &now
	}
	if err := s.repo.UpdateReconciliation(ctx, rec); err != nil {
		return ReconciliationResponse{}, err
	}
	if applyErr != nil {
		return ReconciliationResponse{}, applyErr
	}

	s.logger.Info("reconciliation resolved", zap.String("reconciliation_id", id), zap.String("actor_id", actor.UserID))
	return mapToReconciliationResponse(*rec), nil
}

func mapToResponse(b LeaveBalance) BalanceResponse {
	return BalanceResponse{
		ID:            b.ID.String(),
		UserID:        b.UserID.String(),
		LeaveTypeID:   b.LeaveTypeID.String(),
		Year:          b.Year,
		EntitledDays:  b.EntitledDays.String(),
		UsedDays:      b.UsedDays.String(),
		RemainingDays: b.RemainingDays().String(),
	}
}

func mapToReconciliationResponse(r Reconciliation) ReconciliationResponse {
	resp := ReconciliationResponse{
		ID:             r.ID.String(),
		LeaveRequestID: r.LeaveRequestID.String(),
		UserID:         r.UserID.String(),
		LeaveTypeID:    r.LeaveTypeID.String(),
		Year:           r.Year,
		Days:           r.Days.String(),
		Reason:         r.Reason,
		Status:         r.Status,
		Attempts:       r.Attempts,
		CreatedAt:      r.CreatedAt.Format(time.RFC3339),
	}
	if r.ResolvedAt != nil {
		v := r.ResolvedAt.Format(time.RFC3339)
		resp.ResolvedAt = &v
	}
	return resp
}
