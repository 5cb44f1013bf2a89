package balance

import (
	"github.com/shopspring/decimal"
)

// ApplyApprovalInput describes one approved request to charge.
type ApplyApprovalInput struct {
	RequestID      string
	UserID         string
	LeaveTypeID    string
	OrganizationID string
	Days           decimal.Decimal
	Year           int
	// Enforce rejects the charge when it exceeds the remaining days.
	Enforce bool
}

type ApplyResult struct {
	Applied bool   `json:"applied"`
	Skipped string `json:"skipped,omitempty"`
}

const (
	SkippedUntracked      = "leave type does not track balance"
	SkippedAlreadyApplied = "already applied"
)

type BalancesQuery struct {
	UserID string `form:"user_id" binding:"omitempty,uuid"`
	Year   int    `form:"year" binding:"omitempty,gte=2000,lte=2100"`
}

type UpsertEntitlementRequest struct {
	UserID       string `json:"user_id" binding:"required,uuid"`
	LeaveTypeID  string `json:"leave_type_id" binding:"required,uuid"`
	Year         int    `json:"year" binding:"required,gte=2000,lte=2100"`
	EntitledDays string `json:"entitled_days" binding:"required,numeric"`
}

type ReconciliationQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=open resolved"`
}

type BalanceResponse struct {
	ID            string `json:"id"`
	UserID        string `json:"user_id"`
	LeaveTypeID   string `json:"leave_type_id"`
	LeaveTypeName string `json:"leave_type_name,omitempty"`
	Year          int    `json:"year"`
	EntitledDays  string `json:"entitled_days"`
	UsedDays      string `json:"used_days"`
	RemainingDays string `json:"remaining_days"`
}

type ReconciliationResponse struct {
	ID             string  `json:"id"`
	LeaveRequestID string  `json:"leave_request_id"`
	UserID         string  `json:"user_id"`
	LeaveTypeID    string  `json:"leave_type_id"`
	Year           int     `json:"year"`
	Days           string  `json:"days"`
	Reason         string  `json:"reason"`
	Status         string  `json:"status"`
	Attempts       int     `json:"attempts"`
	ResolvedAt     *string `json:"resolved_at,omitempty"`
	CreatedAt      string  `json:"created_at"`
}
