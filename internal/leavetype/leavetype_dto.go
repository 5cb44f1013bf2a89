package leavetype

type CreateLeaveTypeRequest struct {
	Name             string `json:"name" binding:"required,max=255"`
	DaysPerYear      int    `json:"days_per_year" binding:"gte=0,lte=366"`
	Color            string `json:"color" binding:"required,max=20"`
	RequiresApproval bool   `json:"requires_approval"`
	RequiresBalance  bool   `json:"requires_balance"`
	LeaveCategory    string `json:"leave_category" binding:"required"`
}

type UpdateLeaveTypeRequest = CreateLeaveTypeRequest

type OptionsQuery struct {
	UserID        string `form:"user_id" binding:"omitempty,uuid"`
	RequestedDays string `form:"requested_days" binding:"omitempty,numeric"`
}

type LeaveTypeResponse struct {
	ID               string `json:"id"`
	OrganizationID   string `json:"organization_id"`
	Name             string `json:"name"`
	DaysPerYear      int    `json:"days_per_year"`
	Color            string `json:"color"`
	RequiresApproval bool   `json:"requires_approval"`
	RequiresBalance  bool   `json:"requires_balance"`
	LeaveCategory    string `json:"leave_category"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
}

type OptionResponse struct {
	LeaveTypeResponse
	RemainingDays  *string `json:"remaining_days,omitempty"`
	Disabled       bool    `json:"disabled"`
	DisabledReason string  `json:"disabled_reason,omitempty"`
}
