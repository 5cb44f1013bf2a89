package leave

import (
	"time"

	"github.com/techmajster/saas-leave-system/internal/events"
)

func mapToResponse(lr LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:             lr.ID.String(),
		Number:         lr.Number,
		OrganizationID: lr.OrganizationID.String(),
		UserID:         lr.UserID.String(),
		LeaveTypeID:    lr.LeaveTypeID.String(),
		StartDate:      lr.StartDate.Format(dateLayout),
		EndDate:        lr.EndDate.Format(dateLayout),
		DaysRequested:  lr.DaysRequested.String(),
		Status:         lr.Status,
		Notes:          lr.Notes,
		CreatedBy:      lr.CreatedBy.String(),
		ReviewedAt:     lr.ReviewedAt,
		ReviewComment:  lr.ReviewComment,
		AutoApproved:   lr.AutoApproved,
		CreatedAt:      lr.CreatedAt,
	}
	if lr.ReviewedBy != nil {
		v := lr.ReviewedBy.String()
		resp.ReviewedBy = &v
	}
	return resp
}

func createdEvent(lr *LeaveRequest, now time.Time) events.LeaveRequestCreatedEvent {
	return events.LeaveRequestCreatedEvent{
		EventType:      events.LeaveRequestCreated,
		LeaveRequestID: lr.ID.String(),
		Number:         lr.Number,
		OrganizationID: lr.OrganizationID.String(),
		UserID:         lr.UserID.String(),
		LeaveTypeID:    lr.LeaveTypeID.String(),
		StartDate:      lr.StartDate.Format(dateLayout),
		EndDate:        lr.EndDate.Format(dateLayout),
		Days:           lr.DaysRequested.String(),
		OccurredAt:     now,
	}
}

// approvedEvent charges the request to the balance of its start year.
func approvedEvent(lr *LeaveRequest, enforce bool, now time.Time) events.LeaveRequestApprovedEvent {
	ev := events.LeaveRequestApprovedEvent{
		EventType:      events.LeaveRequestApproved,
		LeaveRequestID: lr.ID.String(),
		OrganizationID: lr.OrganizationID.String(),
		UserID:         lr.UserID.String(),
		LeaveTypeID:    lr.LeaveTypeID.String(),
		Days:           lr.DaysRequested.String(),
		Year:           lr.StartDate.Year(),
		Enforce:        enforce,
		OccurredAt:     now,
	}
	if lr.ReviewedBy != nil {
		ev.ApprovedBy = lr.ReviewedBy.String()
	}
	return ev
}

func statusChangedEvent(lr *LeaveRequest, previous string, now time.Time) events.LeaveRequestStatusChangedEvent {
	ev := events.LeaveRequestStatusChangedEvent{
		EventType:      events.LeaveRequestStatusChanged,
		LeaveRequestID: lr.ID.String(),
		Number:         lr.Number,
		OrganizationID: lr.OrganizationID.String(),
		UserID:         lr.UserID.String(),
		LeaveTypeID:    lr.LeaveTypeID.String(),
		Status:         lr.Status,
		PreviousStatus: previous,
		StartDate:      lr.StartDate.Format(dateLayout),
		EndDate:        lr.EndDate.Format(dateLayout),
		Days:           lr.DaysRequested.String(),
		OccurredAt:     now,
	}
	if lr.ReviewedBy != nil {
		ev.ReviewedBy = lr.ReviewedBy.String()
	}
	if lr.ReviewComment != nil {
		ev.Comment = *lr.ReviewComment
	}
	return ev
}
