package balance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	ReconciliationOpen     = "open"
	ReconciliationResolved = "resolved"
)

// LeaveBalance holds one user's entitlement for a leave type and year.
// Remaining days are always derived from entitled minus used.
type LeaveBalance struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrganizationID uuid.UUID       `gorm:"type:uuid;not null;index"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balances_user_type_year"`
	LeaveTypeID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balances_user_type_year"`
	Year           int             `gorm:"not null;uniqueIndex:uq_leave_balances_user_type_year"`
	EntitledDays   decimal.Decimal `gorm:"type:numeric(6,2);not null"`
	UsedDays       decimal.Decimal `gorm:"type:numeric(6,2);not null"`
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime"`
}

func (b LeaveBalance) RemainingDays() decimal.Decimal {
	return b.EntitledDays.Sub(b.UsedDays)
}

// BalanceApplication records that an approval has been charged to a balance.
type BalanceApplication struct {
	LeaveRequestID uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BalanceID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Days           decimal.Decimal `gorm:"type:numeric(6,2);not null"`
	AppliedAt      time.Time       `gorm:"not null"`
}

// Reconciliation is an approved request whose balance charge could not be
// applied and needs an administrator.
type Reconciliation struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrganizationID uuid.UUID       `gorm:"type:uuid;not null;index"`
	LeaveRequestID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null"`
	LeaveTypeID    uuid.UUID       `gorm:"type:uuid;not null"`
	Year           int             `gorm:"not null"`
	Days           decimal.Decimal `gorm:"type:numeric(6,2);not null"`
	Enforce        bool            `gorm:"not null"`
	Reason         string          `gorm:"type:text;not null"`
	Status         string          `gorm:"size:20;not null;index"`
	Attempts       int             `gorm:"not null"`
	ResolvedAt     *time.Time
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}
