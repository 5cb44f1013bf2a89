package notification

import (
	"fmt"
	"strings"

	"github.com/techmajster/saas-leave-system/internal/events"
)

const dateLayout = "2006-01-02"

func statusChangeNotice(e events.LeaveRequestStatusChangedEvent, typeName string) Notice {
	n := Notice{
		UserID:         e.UserID,
		OrganizationID: e.OrganizationID,
		Type:           TypeStatusChange,
		Title:          fmt.Sprintf("Leave request %s", e.Status),
		Message: fmt.Sprintf("Your %s request %s for %s to %s has been %s.",
			typeName, e.Number, e.StartDate, e.EndDate, e.Status),
		Data: map[string]any{
			"leave_request_id": e.LeaveRequestID,
			"status":           e.Status,
			"start_date":       e.StartDate,
			"end_date":         e.EndDate,
		},
	}
	if e.Comment != "" {
		n.Message += "\n\nComment: " + e.Comment
	}
	return n
}

func teamLeaveNotice(e events.LeaveRequestStatusChangedEvent, employee, typeName string) Notice {
	return Notice{
		OrganizationID: e.OrganizationID,
		Type:           TypeTeamLeave,
		Title:          fmt.Sprintf("%s will be away", employee),
		Message:        fmt.Sprintf("%s will be on %s from %s to %s.", employee, typeName, e.StartDate, e.EndDate),
		Data: map[string]any{
			"leave_request_id": e.LeaveRequestID,
			"user_id":          e.UserID,
			"start_date":       e.StartDate,
			"end_date":         e.EndDate,
		},
	}
}

func createdNotice(e events.LeaveRequestCreatedEvent, employee, typeName string) Notice {
	return Notice{
		OrganizationID: e.OrganizationID,
		Type:           TypeCreated,
		Title:          "New leave request",
		Message: fmt.Sprintf("%s requested %s working days of %s from %s to %s (%s).",
			employee, e.Days, typeName, e.StartDate, e.EndDate, e.Number),
		Data: map[string]any{
			"leave_request_id": e.LeaveRequestID,
			"user_id":          e.UserID,
			"days":             e.Days,
		},
	}
}

func reminderNotice(organizationID string, pending int64) Notice {
	return Notice{
		OrganizationID: organizationID,
		Type:           TypeReminder,
		Title:          "Leave requests waiting for review",
		Message:        fmt.Sprintf("There are %d pending leave requests in your organization.", pending),
		Data:           map[string]any{"pending": pending},
	}
}

func weeklyNotice(c WeeklyCount, week weekRange) Notice {
	return Notice{
		OrganizationID: c.OrganizationID,
		Type:           TypeWeeklySummary,
		Title:          "Weekly leave summary",
		Message: fmt.Sprintf("Week %s to %s: %d approved absences, %d requests pending.",
			week.start.Format(dateLayout), week.end.Format(dateLayout), c.Approved, c.Pending),
		Data: map[string]any{
			"week_start": week.start.Format(dateLayout),
			"week_end":   week.end.Format(dateLayout),
			"approved":   c.Approved,
			"pending":    c.Pending,
		},
	}
}

func invitationEmail(n InvitationNotice) Email {
	var b strings.Builder
	inviter := n.InviterName
	if inviter == "" {
		inviter = "A colleague"
	}
	fmt.Fprintf(&b, "%s invited you to join %s as %s.\n\n", inviter, n.OrganizationName, n.Role)
	if n.PersonalMessage != "" {
		fmt.Fprintf(&b, "%s\n\n", n.PersonalMessage)
	}
	fmt.Fprintf(&b, "Accept the invitation: %s\n", n.AcceptURL)
	fmt.Fprintf(&b, "The link expires on %s.\n", n.ExpiresAt.UTC().Format(dateLayout))

	return Email{
		To:      n.Email,
		Subject: fmt.Sprintf("Invitation to %s", n.OrganizationName),
		Body:    b.String(),
	}
}
