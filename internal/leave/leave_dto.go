package leave

import "time"

type CreateLeaveRequest struct {
	UserID      string `json:"user_id" binding:"omitempty,uuid"`
	LeaveTypeID string `json:"leave_type_id" binding:"required,uuid"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date" binding:"required"`
	Notes       string `json:"notes" binding:"max=2000"`
	AutoApprove bool   `json:"auto_approve"`
}

type ReviewLeaveRequest struct {
	Action  string  `json:"action"`
	Comment *string `json:"comment" binding:"omitempty,max=1000"`
}

type ListQuery struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
	UserID   string `form:"user_id" binding:"omitempty,uuid"`
	From     string `form:"from"`
	To       string `form:"to"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

type OverlapsQuery struct {
	StartDate     string `form:"start_date" binding:"required"`
	EndDate       string `form:"end_date" binding:"required"`
	ExcludeUserID string `form:"exclude_user_id" binding:"omitempty,uuid"`
}

type LeaveRequestResponse struct {
	ID             string     `json:"id"`
	Number         string     `json:"number"`
	OrganizationID string     `json:"organization_id"`
	UserID         string     `json:"user_id"`
	LeaveTypeID    string     `json:"leave_type_id"`
	StartDate      string     `json:"start_date"`
	EndDate        string     `json:"end_date"`
	DaysRequested  string     `json:"days_requested"`
	Status         string     `json:"status"`
	Notes          string     `json:"notes,omitempty"`
	CreatedBy      string     `json:"created_by"`
	ReviewedBy     *string    `json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time `json:"reviewed_at,omitempty"`
	ReviewComment  *string    `json:"review_comment,omitempty"`
	AutoApproved   bool       `json:"auto_approved"`
	CreatedAt      time.Time  `json:"created_at"`
}

// CreateResponse carries advisory warnings from the administrative path,
// such as approving beyond the remaining balance.
type CreateResponse struct {
	LeaveRequestResponse
	Warnings []string `json:"warnings,omitempty"`
}

type ReviewResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

type OverlapResponse struct {
	UserID        string `json:"user_id"`
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	LeaveTypeName string `json:"leave_type_name"`
	Color         string `json:"color"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	Status        string `json:"status"`
}
