package membership

import (
	"time"

	"github.com/google/uuid"
)

const (
	GenderFemale = "female"
	GenderMale   = "male"
)

// Profile is a user inside an organization. ID is shared with the identity
// issued by the auth provider.
type Profile struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Email          string     `gorm:"type:varchar(255);not null;uniqueIndex:uq_profiles_email"`
	FullName       string     `gorm:"type:varchar(200)"`
	Role           string     `gorm:"type:varchar(20);not null;default:'employee'"`
	OrganizationID *uuid.UUID `gorm:"type:uuid;index:idx_profiles_org_team"`
	TeamID         *uuid.UUID `gorm:"type:uuid;index:idx_profiles_org_team"`
	Gender         *string    `gorm:"type:varchar(20)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Profile) TableName() string {
	return "profiles"
}
