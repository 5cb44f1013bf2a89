package invitation

import "time"

type CreateInvitationRequest struct {
	Email           string `json:"email" binding:"required,email,max=255"`
	Role            string `json:"role" binding:"required,oneof=admin manager employee"`
	TeamID          string `json:"team_id" binding:"omitempty,uuid"`
	PersonalMessage string `json:"personal_message" binding:"max=1000"`
}

type AcceptInvitationRequest struct {
	Token string `json:"token" binding:"required"`
}

type InvitationResponse struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	Role            string    `json:"role"`
	TeamID          *string   `json:"team_id"`
	InvitedBy       string    `json:"invited_by"`
	PersonalMessage string    `json:"personal_message,omitempty"`
	Status          string    `json:"status"`
	ExpiresAt       time.Time `json:"expires_at"`
	CreatedAt       time.Time `json:"created_at"`
}

// CreateInvitationResponse is the only place the token is ever returned.
type CreateInvitationResponse struct {
	Invitation InvitationResponse `json:"invitation"`
	Token      string             `json:"token"`
	AcceptURL  string             `json:"accept_url"`
	EmailSent  bool               `json:"email_sent"`
}

type AcceptInvitationResponse struct {
	Success          bool   `json:"success"`
	OrganizationID   string `json:"organization_id"`
	OrganizationName string `json:"organization_name"`
	Role             string `json:"role"`
	SeededBalances   int64  `json:"seeded_balances"`
}
