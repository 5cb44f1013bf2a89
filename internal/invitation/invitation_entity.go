package invitation

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusExpired  = "expired"

	// Lifetime is how long an invitation can be accepted.
	Lifetime = 7 * 24 * time.Hour
)

// Invitation asks someone to join an organization. Only a bcrypt hash of
// the token secret is stored; at most one invitation per email may be
// pending in an organization.
type Invitation struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrganizationID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_invitations_pending_email,where:status = 'pending'"`
	Email           string     `gorm:"size:255;not null;uniqueIndex:uq_invitations_pending_email,where:status = 'pending'"`
	Role            string     `gorm:"size:20;not null"`
	TeamID          *uuid.UUID `gorm:"type:uuid"`
	TokenHash       string     `gorm:"size:100;not null"`
	InvitedBy       uuid.UUID  `gorm:"type:uuid;not null"`
	PersonalMessage string     `gorm:"type:text"`
	Status          string     `gorm:"size:20;not null;index"`
	ExpiresAt       time.Time  `gorm:"not null"`
	AcceptedAt      *time.Time
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

func (Invitation) TableName() string {
	return "invitations"
}

func (i Invitation) Expired(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}
