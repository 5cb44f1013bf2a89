package notification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	TypeStatusChange  = "status_change"
	TypeCreated       = "created"
	TypeTeamLeave     = "team_leave"
	TypeReminder      = "reminder"
	TypeWeeklySummary = "weekly_summary"
)

// Preference is a user's notification settings. A missing row means every
// channel is enabled.
type Preference struct {
	UserID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmailNotifications     bool      `gorm:"not null"`
	LeaveRequestReminders  bool      `gorm:"not null"`
	TeamLeaveNotifications bool      `gorm:"not null"`
	WeeklySummary          bool      `gorm:"not null"`
	UpdatedAt              time.Time `gorm:"autoUpdateTime"`
}

func (Preference) TableName() string {
	return "notification_preferences"
}

func DefaultPreference(userID uuid.UUID) Preference {
	return Preference{
		UserID:                 userID,
		EmailNotifications:     true,
		LeaveRequestReminders:  true,
		TeamLeaveNotifications: true,
		WeeklySummary:          true,
	}
}

// Allows reports whether a notice of the given type may be delivered.
// EmailNotifications is the master switch; the other flags narrow it.
func (p Preference) Allows(noticeType string) bool {
	if !p.EmailNotifications {
		return false
	}
	switch noticeType {
	case TypeTeamLeave:
		return p.TeamLeaveNotifications
	case TypeReminder:
		return p.LeaveRequestReminders
	case TypeWeeklySummary:
		return p.WeeklySummary
	default:
		return true
	}
}

// Notification is one entry of a user's in-app inbox.
type Notification struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey"`
	OrganizationID uuid.UUID      `gorm:"type:uuid;not null;index"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;index:idx_notifications_user_created"`
	Type           string         `gorm:"size:40;not null"`
	Title          string         `gorm:"size:200;not null"`
	Message        string         `gorm:"type:text;not null"`
	Data           datatypes.JSON `gorm:"type:jsonb"`
	ReadAt         *time.Time
	CreatedAt      time.Time `gorm:"autoCreateTime;index:idx_notifications_user_created"`
}

// PendingCount is the number of pending requests of one organization.
type PendingCount struct {
	OrganizationID string
	Count          int64
}

// WeeklyCount summarizes one organization's requests inside a week.
type WeeklyCount struct {
	OrganizationID string
	Approved       int64
	Pending        int64
}
