package notification_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/techmajster/saas-leave-system/internal/domain"
	"github.com/techmajster/saas-leave-system/internal/events"
	"github.com/techmajster/saas-leave-system/internal/leave"
	"github.com/techmajster/saas-leave-system/internal/leavetype"
	"github.com/techmajster/saas-leave-system/internal/membership"
	"github.com/techmajster/saas-leave-system/internal/notification"
	"github.com/techmajster/saas-leave-system/internal/shared/apperror"
	"github.com/techmajster/saas-leave-system/internal/shared/testutil"
	"github.com/techmajster/saas-leave-system/internal/team"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []notification.Email
	err  error
}

func (s *recordingSender) Send(ctx context.Context, e notification.Email) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, e)
	return nil
}

func (s *recordingSender) recipients() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	to := make([]string, 0, len(s.sent))
	for _, e := range s.sent {
		to = append(to, e.To)
	}
	return to
}

type fakeLeaveTypes struct{}

func (fakeLeaveTypes) Get(ctx context.Context, organizationID, id string) (*leavetype.LeaveType, error) {
	return &leavetype.LeaveType{Name: "Annual leave"}, nil
}

type notificationDeps struct {
	db      *gorm.DB
	service notification.Service
	sender  *recordingSender
	orgID   uuid.UUID

	admin, manager, employee, colleague, loner membership.Profile
}

func setupNotificationTest(t *testing.T) *notificationDeps {
	t.Helper()

	db := testutil.OpenSQLite(t,
		&membership.Profile{},
		&team.Team{},
		&leave.LeaveRequest{},
		&notification.Preference{},
		&notification.Notification{},
	)

	orgID := uuid.New()
	teamID := uuid.New()
	managerID := uuid.New()
	require.NoError(t, db.Create(&team.Team{ID: teamID, OrganizationID: orgID, Name: "Engineering", ManagerID: &managerID}).Error)

	profile := func(id uuid.UUID, email, role string, teamID *uuid.UUID) membership.Profile {
		return membership.Profile{ID: id, Email: email, FullName: email, Role: role, OrganizationID: &orgID, TeamID: teamID}
	}
	d := &notificationDeps{
		db:        db,
		sender:    &recordingSender{},
		orgID:     orgID,
		admin:     profile(uuid.New(), "admin@acme.test", domain.RoleAdmin, nil),
		manager:   profile(managerID, "manager@acme.test", domain.RoleManager, &teamID),
		employee:  profile(uuid.New(), "dev@acme.test", domain.RoleEmployee, &teamID),
		colleague: profile(uuid.New(), "qa@acme.test", domain.RoleEmployee, &teamID),
		loner:     profile(uuid.New(), "loner@acme.test", domain.RoleEmployee, nil),
	}
	require.NoError(t, db.Create(&[]membership.Profile{d.admin, d.manager, d.employee, d.colleague, d.loner}).Error)

	d.service = notification.NewService(
		notification.NewRepository(db),
		membership.NewRepository(db),
		fakeLeaveTypes{},
		d.sender,
	)
	return d
}

func (d *notificationDeps) inbox(t *testing.T, userID uuid.UUID, noticeType string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, d.db.Model(&notification.Notification{}).
		Where("user_id = ? AND type = ?", userID, noticeType).
		Count(&n).Error)
	return n
}

func (d *notificationDeps) disable(t *testing.T, userID uuid.UUID, mutate func(p *notification.Preference)) {
	t.Helper()
	p := notification.DefaultPreference(userID)
	mutate(&p)
	require.NoError(t, notification.NewRepository(d.db).SavePreference(context.Background(), &p))
}

func (d *notificationDeps) addRequest(t *testing.T, userID uuid.UUID, number, status string, start, end time.Time) {
	t.Helper()
	require.NoError(t, d.db.Create(&leave.LeaveRequest{
		ID:             uuid.New(),
		Number:         number,
		OrganizationID: d.orgID,
		UserID:         userID,
		LeaveTypeID:    uuid.New(),
		StartDate:      start,
		EndDate:        end,
		DaysRequested:  decimal.NewFromInt(1),
		Status:         status,
		CreatedBy:      userID,
	}).Error)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNotificationService_Notify(t *testing.T) {
	ctx := context.Background()

	notice := func(d *notificationDeps, userID uuid.UUID, noticeType string) notification.Notice {
		return notification.Notice{
			UserID:         userID.String(),
			OrganizationID: d.orgID.String(),
			Type:           noticeType,
			Title:          "Leave request approved",
			Message:        "Your request has been approved.",
			Data:           map[string]any{"status": "approved"},
		}
	}

	t.Run("success with default preferences", func(t *testing.T) {
		d := setupNotificationTest(t)

		res := d.service.Notify(ctx, notice(d, d.employee.ID, notification.TypeStatusChange))

		assert.Equal(t, notification.Result{Success: true}, res)
		assert.Equal(t, []string{d.employee.Email}, d.sender.recipients())
		assert.EqualValues(t, 1, d.inbox(t, d.employee.ID, notification.TypeStatusChange))
	})

	t.Run("negative type preference disabled", func(t *testing.T) {
		d := setupNotificationTest(t)
		d.disable(t, d.employee.ID, func(p *notification.Preference) { p.TeamLeaveNotifications = false })

		res := d.service.Notify(ctx, notice(d, d.employee.ID, notification.TypeTeamLeave))

		assert.False(t, res.Success)
		assert.Equal(t, notification.ReasonPreferenceDisabled, res.Reason)
		assert.Empty(t, d.sender.recipients())
		assert.Zero(t, d.inbox(t, d.employee.ID, notification.TypeTeamLeave))
	})

	t.Run("negative master switch disables every type", func(t *testing.T) {
		d := setupNotificationTest(t)
		d.disable(t, d.employee.ID, func(p *notification.Preference) { p.EmailNotifications = false })

		res := d.service.Notify(ctx, notice(d, d.employee.ID, notification.TypeStatusChange))

		assert.Equal(t, notification.ReasonPreferenceDisabled, res.Reason)
		assert.Empty(t, d.sender.recipients())
	})

	t.Run("negative recipient outside organization", func(t *testing.T) {
		d := setupNotificationTest(t)
		n := notice(d, d.employee.ID, notification.TypeStatusChange)
		n.OrganizationID = uuid.NewString()

		res := d.service.Notify(ctx, n)

		assert.Equal(t, notification.ReasonRecipientNotFound, res.Reason)
		assert.Empty(t, d.sender.recipients())
	})

	t.Run("email failure keeps the inbox entry", func(t *testing.T) {
		d := setupNotificationTest(t)
		d.sender.err = errors.New("ses throttled")

		res := d.service.Notify(ctx, notice(d, d.employee.ID, notification.TypeStatusChange))

		assert.Equal(t, notification.ReasonDeliveryFailed, res.Reason)
		assert.EqualValues(t, 1, d.inbox(t, d.employee.ID, notification.TypeStatusChange))
	})
}

type failingMembersDirectory struct {
	notification.Directory
}

func (failingMembersDirectory) ListMembers(ctx context.Context, scope domain.Scope) ([]membership.Profile, error) {
	return nil, errors.New("connection reset")
}

func TestNotificationService_NotifyStatusChange(t *testing.T) {
	ctx := context.Background()

	event := func(d *notificationDeps, status string) events.LeaveRequestStatusChangedEvent {
		return events.LeaveRequestStatusChangedEvent{
			EventType:      events.LeaveRequestStatusChanged,
			LeaveRequestID: uuid.NewString(),
			Number:         "LR-000001",
			OrganizationID: d.orgID.String(),
			UserID:         d.employee.ID.String(),
			LeaveTypeID:    uuid.NewString(),
			Status:         status,
			PreviousStatus: leave.StatusPending,
			StartDate:      "2026-03-02",
			EndDate:        "2026-03-06",
			Days:           "5",
		}
	}

	t.Run("approved notifies requester and team", func(t *testing.T) {
		d := setupNotificationTest(t)
		d.disable(t, d.loner.ID, func(p *notification.Preference) { p.TeamLeaveNotifications = false })

		err := d.service.NotifyStatusChange(ctx, event(d, leave.StatusApproved))

		require.NoError(t, err)
		assert.EqualValues(t, 1, d.inbox(t, d.employee.ID, notification.TypeStatusChange))
		assert.Zero(t, d.inbox(t, d.employee.ID, notification.TypeTeamLeave))
		for _, p := range []membership.Profile{d.admin, d.manager, d.colleague} {
			assert.EqualValues(t, 1, d.inbox(t, p.ID, notification.TypeTeamLeave), p.Email)
		}
		assert.Zero(t, d.inbox(t, d.loner.ID, notification.TypeTeamLeave))
		assert.ElementsMatch(t,
			[]string{d.employee.Email, d.admin.Email, d.manager.Email, d.colleague.Email},
			d.sender.recipients(),
		)
	})

	t.Run("rejected notifies only requester", func(t *testing.T) {
		d := setupNotificationTest(t)

		err := d.service.NotifyStatusChange(ctx, event(d, leave.StatusRejected))

		require.NoError(t, err)
		assert.Equal(t, []string{d.employee.Email}, d.sender.recipients())

		var n notification.Notification
		require.NoError(t, d.db.First(&n, "user_id = ?", d.employee.ID).Error)
		assert.Equal(t, "Leave request rejected", n.Title)
		assert.Contains(t, n.Message, "Annual leave")
		assert.Contains(t, string(n.Data), `"status":"rejected"`)
	})

	t.Run("member listing failure keeps the requester notice single", func(t *testing.T) {
		d := setupNotificationTest(t)
		svc := notification.NewService(
			notification.NewRepository(d.db),
			failingMembersDirectory{Directory: membership.NewRepository(d.db)},
			fakeLeaveTypes{},
			d.sender,
		)

		err := svc.NotifyStatusChange(ctx, event(d, leave.StatusApproved))

		require.NoError(t, err)
		assert.EqualValues(t, 1, d.inbox(t, d.employee.ID, notification.TypeStatusChange))
		assert.Equal(t, []string{d.employee.Email}, d.sender.recipients())
	})

	t.Run("unknown requester is ignored", func(t *testing.T) {
		d := setupNotificationTest(t)
		e := event(d, leave.StatusApproved)
		e.UserID = uuid.NewString()

		require.NoError(t, d.service.NotifyStatusChange(ctx, e))
		assert.Empty(t, d.sender.recipients())
	})
}

func TestNotificationService_NotifyCreated(t *testing.T) {
	ctx := context.Background()

	event := func(d *notificationDeps, userID uuid.UUID) events.LeaveRequestCreatedEvent {
		return events.LeaveRequestCreatedEvent{
			EventType:      events.LeaveRequestCreated,
			LeaveRequestID: uuid.NewString(),
			Number:         "LR-000002",
			OrganizationID: d.orgID.String(),
			UserID:         userID.String(),
			LeaveTypeID:    uuid.NewString(),
			StartDate:      "2026-03-02",
			EndDate:        "2026-03-03",
			Days:           "2",
		}
	}

	t.Run("team member reaches admins and team manager", func(t *testing.T) {
		d := setupNotificationTest(t)

		require.NoError(t, d.service.NotifyCreated(ctx, event(d, d.employee.ID)))

		assert.ElementsMatch(t, []string{d.admin.Email, d.manager.Email}, d.sender.recipients())
		assert.EqualValues(t, 1, d.inbox(t, d.manager.ID, notification.TypeCreated))
	})

	t.Run("member without team reaches admins only", func(t *testing.T) {
		d := setupNotificationTest(t)

		require.NoError(t, d.service.NotifyCreated(ctx, event(d, d.loner.ID)))

		assert.Equal(t, []string{d.admin.Email}, d.sender.recipients())
	})

	t.Run("manager requesting is not notified about own request", func(t *testing.T) {
		d := setupNotificationTest(t)

		require.NoError(t, d.service.NotifyCreated(ctx, event(d, d.manager.ID)))

		assert.Equal(t, []string{d.admin.Email}, d.sender.recipients())
	})
}

func TestNotificationService_Digests(t *testing.T) {
	ctx := context.Background()

	t.Run("pending reminders go to reviewers", func(t *testing.T) {
		d := setupNotificationTest(t)
		d.addRequest(t, d.employee.ID, "LR-000001", leave.StatusPending, day(2026, 3, 2), day(2026, 3, 3))
		d.addRequest(t, d.loner.ID, "LR-000002", leave.StatusPending, day(2026, 3, 9), day(2026, 3, 9))
		d.addRequest(t, d.colleague.ID, "LR-000003", leave.StatusApproved, day(2026, 3, 4), day(2026, 3, 4))
		d.disable(t, d.manager.ID, func(p *notification.Preference) { p.LeaveRequestReminders = false })

		res, err := d.service.SendPendingReminders(ctx)

		require.NoError(t, err)
		assert.Equal(t, notification.DigestResult{Organizations: 1, Sent: 1, Skipped: 1}, res)
		assert.Equal(t, []string{d.admin.Email}, d.sender.recipients())

		var n notification.Notification
		require.NoError(t, d.db.First(&n, "user_id = ?", d.admin.ID).Error)
		assert.Equal(t, "There are 2 pending leave requests in your organization.", n.Message)
	})

	t.Run("weekly summary counts the current week", func(t *testing.T) {
		d := setupNotificationTest(t)
		d.addRequest(t, d.employee.ID, "LR-000001", leave.StatusApproved, day(2026, 3, 2), day(2026, 3, 3))
		d.addRequest(t, d.colleague.ID, "LR-000002", leave.StatusPending, day(2026, 3, 5), day(2026, 3, 5))
		d.addRequest(t, d.loner.ID, "LR-000003", leave.StatusApproved, day(2026, 3, 9), day(2026, 3, 10))
		d.disable(t, d.loner.ID, func(p *notification.Preference) { p.WeeklySummary = false })

		res, err := d.service.SendWeeklySummaries(ctx, time.Date(2026, 3, 4, 15, 0, 0, 0, time.UTC))

		require.NoError(t, err)
		assert.Equal(t, notification.DigestResult{Organizations: 1, Sent: 4, Skipped: 1}, res)

		var n notification.Notification
		require.NoError(t, d.db.First(&n, "user_id = ? AND type = ?", d.admin.ID, notification.TypeWeeklySummary).Error)
		assert.Equal(t, "Week 2026-03-01 to 2026-03-07: 1 approved absences, 1 requests pending.", n.Message)
	})

	t.Run("quiet week sends nothing", func(t *testing.T) {
		d := setupNotificationTest(t)

		res, err := d.service.SendWeeklySummaries(ctx, time.Date(2026, 3, 4, 15, 0, 0, 0, time.UTC))

		require.NoError(t, err)
		assert.Equal(t, notification.DigestResult{}, res)
		assert.Empty(t, d.sender.recipients())
	})
}

func TestNotificationService_Preferences(t *testing.T) {
	ctx := context.Background()
	d := setupNotificationTest(t)
	actor := domain.Actor{UserID: d.employee.ID.String(), OrganizationID: d.orgID.String(), Role: domain.RoleEmployee}

	t.Run("defaults to everything enabled", func(t *testing.T) {
		got, err := d.service.GetPreferences(ctx, actor)

		require.NoError(t, err)
		assert.Equal(t, notification.PreferencesResponse{
			EmailNotifications:     true,
			LeaveRequestReminders:  true,
			TeamLeaveNotifications: true,
			WeeklySummary:          true,
		}, got)
	})

	t.Run("partial updates keep other flags", func(t *testing.T) {
		off, on := false, true

		_, err := d.service.UpdatePreferences(ctx, actor, notification.UpdatePreferencesRequest{WeeklySummary: &off})
		require.NoError(t, err)
		got, err := d.service.UpdatePreferences(ctx, actor, notification.UpdatePreferencesRequest{
			TeamLeaveNotifications: &off,
			WeeklySummary:          &on,
		})
		require.NoError(t, err)

		assert.Equal(t, notification.PreferencesResponse{
			EmailNotifications:     true,
			LeaveRequestReminders:  true,
			TeamLeaveNotifications: false,
			WeeklySummary:          true,
		}, got)

		reloaded, err := d.service.GetPreferences(ctx, actor)
		require.NoError(t, err)
		assert.Equal(t, got, reloaded)
	})
}

func TestNotificationService_Inbox(t *testing.T) {
	ctx := context.Background()
	d := setupNotificationTest(t)
	actor := domain.Actor{UserID: d.employee.ID.String(), OrganizationID: d.orgID.String(), Role: domain.RoleEmployee}
	other := domain.Actor{UserID: d.colleague.ID.String(), OrganizationID: d.orgID.String(), Role: domain.RoleEmployee}

	for i := 0; i < 3; i++ {
		res := d.service.Notify(ctx, notification.Notice{
			UserID:         d.employee.ID.String(),
			OrganizationID: d.orgID.String(),
			Type:           notification.TypeStatusChange,
			Title:          "Leave request approved",
			Message:        "Approved.",
		})
		require.True(t, res.Success)
	}

	items, total, err := d.service.List(ctx, actor, notification.ListQuery{PageSize: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, items, 2)

	t.Run("mark read", func(t *testing.T) {
		require.NoError(t, d.service.MarkRead(ctx, actor, items[0].ID))
		require.NoError(t, d.service.MarkRead(ctx, actor, items[0].ID))

		_, unread, err := d.service.List(ctx, actor, notification.ListQuery{Unread: true})
		require.NoError(t, err)
		assert.EqualValues(t, 2, unread)
	})

	t.Run("negative other user's notification", func(t *testing.T) {
		err := d.service.MarkRead(ctx, other, items[1].ID)
		assert.Equal(t, http.StatusNotFound, apperror.ToHTTP(err).Status)
	})

	t.Run("negative invalid id", func(t *testing.T) {
		err := d.service.MarkRead(ctx, actor, "nope")
		assert.Equal(t, http.StatusBadRequest, apperror.ToHTTP(err).Status)
	})
}

func TestNotificationService_NotifyInvitation(t *testing.T) {
	d := setupNotificationTest(t)

	res := d.service.NotifyInvitation(context.Background(), notification.InvitationNotice{
		Email:            "new@acme.test",
		OrganizationName: "Acme",
		InviterName:      "Alice",
		Role:             domain.RoleEmployee,
		AcceptURL:        "https://leave.test/invite?token=abc",
		ExpiresAt:        day(2026, 3, 9),
	})

	assert.True(t, res.Success)
	require.Len(t, d.sender.sent, 1)
	assert.Equal(t, "Invitation to Acme", d.sender.sent[0].Subject)
	assert.Contains(t, d.sender.sent[0].Body, "https://leave.test/invite?token=abc")
	assert.Contains(t, d.sender.sent[0].Body, "2026-03-09")
}
