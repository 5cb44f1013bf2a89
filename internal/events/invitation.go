package events

import "time"

const InvitationsTopic = "leave.invitations.v1"

const InvitationCreated = "invitation.created"

// InvitationCreatedEvent never carries the token; the invitee email is sent
// by the API right after the invitation commits.
type InvitationCreatedEvent struct {
	EventType       string    `json:"event_type"`
	InvitationID    string    `json:"invitation_id"`
	OrganizationID  string    `json:"organization_id"`
	Email           string    `json:"email"`
	Role            string    `json:"role"`
	InvitedBy       string    `json:"invited_by"`
	PersonalMessage string    `json:"personal_message,omitempty"`
	ExpiresAt       time.Time `json:"expires_at"`
	OccurredAt      time.Time `json:"occurred_at"`
}
