package balance

import (
	"context"
	"time"

	"github.com/techmajster/saas-leave-system/internal/leavetype"
	"github.com/techmajster/saas-leave-system/internal/tenant"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=balance_repo.go -destination=mock/balance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindBalance(ctx context.Context, organizationID, userID, leaveTypeID string, year int) (*LeaveBalance, error)
	ListBalances(ctx context.Context, organizationID, userID string, year int) ([]LeaveBalance, error)
	FindLeaveType(ctx context.Context, organizationID, leaveTypeID string) (*leavetype.LeaveType, error)
	InsertApplication(ctx context.Context, app *BalanceApplication) (bool, error)
	IncrementUsed(ctx context.Context, balanceID string, days decimal.Decimal, enforce bool) (int64, error)
	UpsertEntitlement(ctx context.Context, b *LeaveBalance) error
	CreateMissing(ctx context.Context, balances []LeaveBalance) (int64, error)
	SaveReconciliation(ctx context.Context, r *Reconciliation) error
	ListReconciliations(ctx context.Context, organizationID, status string) ([]Reconciliation, error)
	FindReconciliation(ctx context.Context, organizationID, id string) (*Reconciliation, error)
	UpdateReconciliation(ctx context.Context, r *Reconciliation) error
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

func (r *repository) FindBalance(ctx context.Context, organizationID, userID, leaveTypeID string, year int) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organizationID)).
		Where("user_id = ? AND leave_type_id = ? AND year = ?", userID, leaveTypeID, year).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) ListBalances(ctx context.Context, organizationID, userID string, year int) ([]LeaveBalance, error) {
	var balances []LeaveBalance
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organizationID)).
		Where("user_id = ? AND year = ?", userID, year).
		Find(&balances).Error
	return balances, err
}

func (r *repository) FindLeaveType(ctx context.Context, organizationID, leaveTypeID string) (*leavetype.LeaveType, error) {
	var t leavetype.LeaveType
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organizationID)).
		First(&t, "id = ?", leaveTypeID).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// InsertApplication returns false when the request was already charged.
func (r *repository) InsertApplication(ctx context.Context, app *BalanceApplication) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(app)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// IncrementUsed charges days in a single statement. With enforce set the row
// is only updated while the remaining days cover the charge.
func (r *repository) IncrementUsed(ctx context.Context, balanceID string, days decimal.Decimal, enforce bool) (int64, error) {
	q := r.db.WithContext(ctx).
		Model(&LeaveBalance{}).
		Where("id = ?", balanceID)
	if enforce {
		q = q.Where("entitled_days >= used_days + ?", days)
	}
	res := q.Updates(map[string]any{
		"used_days":  gorm.Expr("used_days + ?", days),
		"updated_at": time.Now().UTC(),
	})
	return res.RowsAffected, res.Error
}

func (r *repository) UpsertEntitlement(ctx context.Context, b *LeaveBalance) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "leave_type_id"}, {Name: "year"}},
			DoUpdates: clause.AssignmentColumns([]string{"entitled_days", "updated_at"}),
		}).
		Create(b).Error
}

// CreateMissing inserts balances that do not exist yet and leaves existing
// rows untouched.
func (r *repository) CreateMissing(ctx context.Context, balances []LeaveBalance) (int64, error) {
	if len(balances) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "leave_type_id"}, {Name: "year"}},
			DoNothing: true,
		}).
		Create(&balances)
	return res.RowsAffected, res.Error
}

// SaveReconciliation inserts the entry or, for a request that already has
// one, reopens it with the latest reason.
func (r *repository) SaveReconciliation(ctx context.Context, rec *Reconciliation) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "leave_request_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"reason":      rec.Reason,
				"status":      ReconciliationOpen,
				"attempts":    gorm.Expr("reconciliations.attempts + 1"),
				"resolved_at": nil,
				"updated_at":  time.Now().UTC(),
			}),
		}).
		Create(rec).Error
}

func (r *repository) ListReconciliations(ctx context.Context, organizationID, status string) ([]Reconciliation, error) {
	var recs []Reconciliation
	q := r.db.WithContext(ctx).Scopes(tenant.Scope(organizationID))
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("created_at DESC").Find(&recs).Error
	return recs, err
}

func (r *repository) FindReconciliation(ctx context.Context, organizationID, id string) (*Reconciliation, error) {
	var rec Reconciliation
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organizationID)).
		First(&rec, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repository) UpdateReconciliation(ctx context.Context, rec *Reconciliation) error {
	return r.db.WithContext(ctx).
		Model(rec).
		Select("reason", "status", "attempts", "resolved_at", "updated_at").
		Updates(rec).Error
}
