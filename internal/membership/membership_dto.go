package membership

import "github.com/techmajster/saas-leave-system/internal/domain"

type ProfileResponse struct {
	ID             string  `json:"id"`
	Email          string  `json:"email"`
	FullName       string  `json:"full_name"`
	Role           string  `json:"role"`
	OrganizationID *string `json:"organization_id,omitempty"`
	TeamID         *string `json:"team_id,omitempty"`
	Gender         *string `json:"gender,omitempty"`
}

type ScopeResponse struct {
	domain.ScopeView
	MemberCount int `json:"member_count"`
}

type MemberResponse struct {
	ID       string  `json:"id"`
	Email    string  `json:"email"`
	FullName string  `json:"full_name"`
	Role     string  `json:"role"`
	TeamID   *string `json:"team_id,omitempty"`
}
