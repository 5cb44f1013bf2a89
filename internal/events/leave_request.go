package events

import "time"

const LeaveRequestsTopic = "leave.requests.v1"

const (
	LeaveRequestCreated       = "leave.request.created"
	LeaveRequestApproved      = "leave.request.approved"
	LeaveRequestStatusChanged = "leave.request.status_changed"
)

// LeaveRequestCreatedEvent announces a pending request to its reviewers.
type LeaveRequestCreatedEvent struct {
	EventType      string    `json:"event_type"`
	LeaveRequestID string    `json:"leave_request_id"`
	Number         string    `json:"number"`
	OrganizationID string    `json:"organization_id"`
	UserID         string    `json:"user_id"`
	LeaveTypeID    string    `json:"leave_type_id"`
	StartDate      string    `json:"start_date"`
	EndDate        string    `json:"end_date"`
	Days           string    `json:"days"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// LeaveRequestApprovedEvent asks the balance engine to charge the request.
// Enforce is false for administrative approvals, which may overdraw.
type LeaveRequestApprovedEvent struct {
	EventType      string    `json:"event_type"`
	LeaveRequestID string    `json:"leave_request_id"`
	OrganizationID string    `json:"organization_id"`
	UserID         string    `json:"user_id"`
	LeaveTypeID    string    `json:"leave_type_id"`
	Days           string    `json:"days"`
	Year           int       `json:"year"`
	Enforce        bool      `json:"enforce"`
	ApprovedBy     string    `json:"approved_by,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

type LeaveRequestStatusChangedEvent struct {
	EventType      string    `json:"event_type"`
	LeaveRequestID string    `json:"leave_request_id"`
	Number         string    `json:"number"`
	OrganizationID string    `json:"organization_id"`
	UserID         string    `json:"user_id"`
	LeaveTypeID    string    `json:"leave_type_id"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status"`
	ReviewedBy     string    `json:"reviewed_by,omitempty"`
	Comment        string    `json:"comment,omitempty"`
	StartDate      string    `json:"start_date"`
	EndDate        string    `json:"end_date"`
	Days           string    `json:"days"`
	OccurredAt     time.Time `json:"occurred_at"`
}
