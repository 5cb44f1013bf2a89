package notification

import (
	"encoding/json"
	"time"
)

// Notice is one message to one member of an organization.
type Notice struct {
	UserID         string
	OrganizationID string
	Type           string
	Title          string
	Message        string
	Data           map[string]any
}

// Result reports a single delivery. Delivery problems are never returned as
// errors; Reason says why nothing was sent.
type Result struct {
	Success bool   `json:"success"`
	Reason  string `json:"reason,omitempty"`
}

// InvitationNotice is the email sent to someone who is not a member yet.
type InvitationNotice struct {
	Email            string
	OrganizationName string
	InviterName      string
	Role             string
	AcceptURL        string
	PersonalMessage  string
	ExpiresAt        time.Time
}

// DigestResult summarizes a scheduled batch.
type DigestResult struct {
	Organizations int `json:"organizations"`
	Sent          int `json:"sent"`
	Skipped       int `json:"skipped"`
}

func (d *DigestResult) add(r Result) {
	if r.Success {
		d.Sent++
		return
	}
	d.Skipped++
}

type PreferencesResponse struct {
	EmailNotifications     bool `json:"email_notifications"`
	LeaveRequestReminders  bool `json:"leave_request_reminders"`
	TeamLeaveNotifications bool `json:"team_leave_notifications"`
	WeeklySummary          bool `json:"weekly_summary"`
}

type UpdatePreferencesRequest struct {
	EmailNotifications     *bool `json:"email_notifications"`
	LeaveRequestReminders  *bool `json:"leave_request_reminders"`
	TeamLeaveNotifications *bool `json:"team_leave_notifications"`
	WeeklySummary          *bool `json:"weekly_summary"`
}

type ListQuery struct {
	Unread   bool `form:"unread"`
	Page     int  `form:"page"`
	PageSize int  `form:"page_size"`
}

type NotificationResponse struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data,omitempty"`
	ReadAt    *time.Time      `json:"read_at"`
	CreatedAt time.Time       `json:"created_at"`
}
