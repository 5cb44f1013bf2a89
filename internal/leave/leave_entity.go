package leave

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type LeaveRequest struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Number         string          `gorm:"size:20;not null;uniqueIndex:uq_leave_requests_org_number"`
	OrganizationID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_leave_requests_org_number;index:idx_leave_requests_org_status"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null;index:idx_leave_requests_user_dates"`
	LeaveTypeID    uuid.UUID       `gorm:"type:uuid;not null"`
	StartDate      time.Time       `gorm:"type:date;not null;index:idx_leave_requests_user_dates"`
	EndDate        time.Time       `gorm:"type:date;not null;index:idx_leave_requests_user_dates"`
	DaysRequested  decimal.Decimal `gorm:"type:numeric(6,2);not null"`
	Status         string          `gorm:"size:20;not null;index:idx_leave_requests_org_status"`
	Notes          string          `gorm:"type:text"`
	CreatedBy      uuid.UUID       `gorm:"type:uuid;not null"`
	ReviewedBy     *uuid.UUID      `gorm:"type:uuid"`
	ReviewedAt     *time.Time
	ReviewComment  *string `gorm:"type:text"`
	AutoApproved   bool    `gorm:"not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// Overlap is another member's leave intersecting a proposed range.
type Overlap struct {
	LeaveRequestID string
	UserID         string
	FullName       string
	Email          string
	LeaveTypeName  string
	Color          string
	StartDate      time.Time
	EndDate        time.Time
	Status         string
}
