package team

type CreateTeamRequest struct {
	Name        string  `json:"name" binding:"required,max=255"`
	Description string  `json:"description"`
	ManagerID   *string `json:"manager_id" binding:"omitempty,uuid"`
}

type UpdateTeamRequest struct {
	Name        string  `json:"name" binding:"required,max=255"`
	Description string  `json:"description"`
	ManagerID   *string `json:"manager_id" binding:"omitempty,uuid"`
}

type MembersRequest struct {
	MemberIDs []string `json:"member_ids" binding:"dive,uuid"`
}

type TeamResponse struct {
	ID             string  `json:"id"`
	OrganizationID string  `json:"organization_id"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	ManagerID      *string `json:"manager_id,omitempty"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

type MemberResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type RosterResponse struct {
	Count   int64  `json:"count"`
	Message string `json:"message"`
}
