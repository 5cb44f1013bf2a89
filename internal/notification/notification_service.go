package notification

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/techmajster/saas-leave-system/internal/domain"
	"github.com/techmajster/saas-leave-system/internal/events"
	"github.com/techmajster/saas-leave-system/internal/leave"
	"github.com/techmajster/saas-leave-system/internal/leavetype"
	"github.com/techmajster/saas-leave-system/internal/membership"
	notificationerrors "github.com/techmajster/saas-leave-system/internal/notification/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	ReasonPreferenceDisabled = "User preference disabled"
	ReasonRecipientNotFound  = "Recipient not found"
	ReasonStoreFailed        = "Failed to store notification"
	ReasonDeliveryFailed     = "Email delivery failed"

	defaultPageSize = 20
	maxPageSize     = 100
)

// Directory is the membership lookup used to resolve recipients.
type Directory interface {
	FindProfileInOrganization(ctx context.Context, organizationID, userID string) (*membership.Profile, error)
	FindTeam(ctx context.Context, teamID string) (*membership.TeamRef, error)
	ListMembers(ctx context.Context, scope domain.Scope) ([]membership.Profile, error)
	ListByRoles(ctx context.Context, organizationID string, roles ...string) ([]membership.Profile, error)
}

type LeaveTypes interface {
	Get(ctx context.Context, organizationID, id string) (*leavetype.LeaveType, error)
}

//go:generate mockgen -source=notification_service.go -destination=mock/notification_service_mock.go -package=mock
type Service interface {
	Notify(ctx context.Context, n Notice) Result
	NotifyStatusChange(ctx context.Context, e events.LeaveRequestStatusChangedEvent) error
	NotifyCreated(ctx context.Context, e events.LeaveRequestCreatedEvent) error
	NotifyInvitation(ctx context.Context, n InvitationNotice) Result
	SendPendingReminders(ctx context.Context) (DigestResult, error)
	SendWeeklySummaries(ctx context.Context, now time.Time) (DigestResult, error)
	GetPreferences(ctx context.Context, actor domain.Actor) (PreferencesResponse, error)
	UpdatePreferences(ctx context.Context, actor domain.Actor, req UpdatePreferencesRequest) (PreferencesResponse, error)
	List(ctx context.Context, actor domain.Actor, q ListQuery) ([]NotificationResponse, int64, error)
	MarkRead(ctx context.Context, actor domain.Actor, id string) error
}

type service struct {
	repo      Repository
	directory Directory
	types     LeaveTypes
	sender    Sender
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(repo Repository, directory Directory, types LeaveTypes, sender Sender, logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	return &service{
		repo:      repo,
		directory: directory,
		types:     types,
		sender:    sender,
		now:       time.Now,
		logger:    l,
	}
}

func (s *service) Notify(ctx context.Context, n Notice) Result {
	p, err := s.directory.FindProfileInOrganization(ctx, n.OrganizationID, n.UserID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("notify recipient lookup failed", zap.String("user_id", n.UserID), zap.Error(err))
		}
		return Result{Reason: ReasonRecipientNotFound}
	}
	return s.deliver(ctx, *p, n)
}

// deliver stores the inbox entry and sends the email to an already resolved
// recipient.
func (s *service) deliver(ctx context.Context, to membership.Profile, n Notice) Result {
	pref, err := s.preference(ctx, to.ID)
	if err != nil {
		s.logger.Error("notify preference lookup failed", zap.String("user_id", to.ID.String()), zap.Error(err))
		return Result{Reason: ReasonStoreFailed}
	}
	if !pref.Allows(n.Type) {
		s.logger.Debug("notification skipped by preference",
			zap.String("user_id", to.ID.String()),
			zap.String("type", n.Type),
		)
		return Result{Reason: ReasonPreferenceDisabled}
	}

	orgID, err := uuid.Parse(n.OrganizationID)
	if err != nil {
		return Result{Reason: ReasonRecipientNotFound}
	}
	row := Notification{
		ID:             uuid.New(),
		OrganizationID: orgID,
		UserID:         to.ID,
		Type:           n.Type,
		Title:          n.Title,
		Message:        n.Message,
	}
	if n.Data != nil {
		data, err := json.Marshal(n.Data)
		if err != nil {
			s.logger.Error("notify marshal data failed", zap.Error(err))
			return Result{Reason: ReasonStoreFailed}
		}
		row.Data = data
	}
	if err := s.repo.Create(ctx, &row); err != nil {
		s.logger.Error("notify store failed", zap.String("user_id", to.ID.String()), zap.Error(err))
		return Result{Reason: ReasonStoreFailed}
	}

	if err := s.sender.Send(ctx, Email{To: to.Email, Subject: n.Title, Body: n.Message}); err != nil {
		s.logger.Warn("notify email failed",
			zap.String("user_id", to.ID.String()),
			zap.String("type", n.Type),
			zap.Error(err),
		)
		return Result{Reason: ReasonDeliveryFailed}
	}
	return Result{Success: true}
}

func (s *service) preference(ctx context.Context, userID uuid.UUID) (Preference, error) {
	p, err := s.repo.FindPreference(ctx, userID.String())
	if err != nil {
		return Preference{}, err
	}
	if p == nil {
		return DefaultPreference(userID), nil
	}
	return *p, nil
}

// NotifyStatusChange tells the requester about a review decision and, on
// approval, lets the rest of the organization know about the absence.
func (s *service) NotifyStatusChange(ctx context.Context, e events.LeaveRequestStatusChangedEvent) error {
	requester, err := s.directory.FindProfileInOrganization(ctx, e.OrganizationID, e.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Warn("status change for unknown requester",
			zap.String("leave_request_id", e.LeaveRequestID),
			zap.String("user_id", e.UserID),
		)
		return nil
	}
	if err != nil {
		return err
	}

	typeName := s.typeName(ctx, e.OrganizationID, e.LeaveTypeID)
	res := s.deliver(ctx, *requester, statusChangeNotice(e, typeName))
	s.logger.Info("status change notified",
		zap.String("leave_request_id", e.LeaveRequestID),
		zap.String("status", e.Status),
		zap.Bool("success", res.Success),
		zap.String("reason", res.Reason),
	)

	if e.Status != leave.StatusApproved {
		return nil
	}

	// The requester is already notified, so a failure here must not trigger redelivery.
	members, err := s.directory.ListMembers(ctx, domain.OrganizationScope(e.OrganizationID))
	if err != nil {
		s.logger.Error("team leave fan-out skipped",
			zap.String("leave_request_id", e.LeaveRequestID),
			zap.Error(err),
		)
		return nil
	}
	notice := teamLeaveNotice(e, displayName(*requester), typeName)
	var digest DigestResult
	for _, m := range members {
		if m.ID == requester.ID {
			continue
		}
		digest.add(s.deliver(ctx, m, notice))
	}
	s.logger.Info("team notified about leave",
		zap.String("leave_request_id", e.LeaveRequestID),
		zap.Int("sent", digest.Sent),
		zap.Int("skipped", digest.Skipped),
	)
	return nil
}

// NotifyCreated reaches the organization admins and the requester's team
// manager, once each, never the requester.
func (s *service) NotifyCreated(ctx context.Context, e events.LeaveRequestCreatedEvent) error {
	requester, err := s.directory.FindProfileInOrganization(ctx, e.OrganizationID, e.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Warn("created event for unknown requester",
			zap.String("leave_request_id", e.LeaveRequestID),
			zap.String("user_id", e.UserID),
		)
		return nil
	}
	if err != nil {
		return err
	}

	recipients, err := s.directory.ListByRoles(ctx, e.OrganizationID, domain.RoleAdmin)
	if err != nil {
		return err
	}
	if requester.TeamID != nil {
		team, err := s.directory.FindTeam(ctx, requester.TeamID.String())
		if err != nil {
			return err
		}
		if team != nil && team.ManagerID != nil {
			m, err := s.directory.FindProfileInOrganization(ctx, e.OrganizationID, team.ManagerID.String())
			switch {
			case err == nil:
				recipients = append(recipients, *m)
			case !errors.Is(err, gorm.ErrRecordNotFound):
				return err
			}
		}
	}

	notice := createdNotice(e, displayName(*requester), s.typeName(ctx, e.OrganizationID, e.LeaveTypeID))
	seen := map[uuid.UUID]bool{requester.ID: true}
	var digest DigestResult
	for _, r := range recipients {
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		digest.add(s.deliver(ctx, r, notice))
	}
	s.logger.Info("reviewers notified about leave request",
		zap.String("leave_request_id", e.LeaveRequestID),
		zap.Int("sent", digest.Sent),
		zap.Int("skipped", digest.Skipped),
	)
	return nil
}

func (s *service) NotifyInvitation(ctx context.Context, n InvitationNotice) Result {
	if err := s.sender.Send(ctx, invitationEmail(n)); err != nil {
		s.logger.Warn("invitation email failed", zap.String("email", n.Email), zap.Error(err))
		return Result{Reason: ReasonDeliveryFailed}
	}
	return Result{Success: true}
}

func (s *service) SendPendingReminders(ctx context.Context) (DigestResult, error) {
	counts, err := s.repo.PendingByOrganization(ctx)
	if err != nil {
		s.logger.Error("pending reminders query failed", zap.Error(err))
		return DigestResult{}, err
	}

	var digest DigestResult
	for _, c := range counts {
		reviewers, err := s.directory.ListByRoles(ctx, c.OrganizationID, domain.RoleAdmin, domain.RoleManager)
		if err != nil {
			s.logger.Error("pending reminders reviewers lookup failed",
				zap.String("organization_id", c.OrganizationID),
				zap.Error(err),
			)
			continue
		}
		digest.Organizations++
		notice := reminderNotice(c.OrganizationID, c.Count)
		for _, r := range reviewers {
			digest.add(s.deliver(ctx, r, notice))
		}
	}

	s.logger.Info("pending reminders sent",
		zap.Int("organizations", digest.Organizations),
		zap.Int("sent", digest.Sent),
		zap.Int("skipped", digest.Skipped),
	)
	return digest, nil
}

type weekRange struct {
	start time.Time
	end   time.Time
}

// weekOf returns the Sunday to Saturday week containing now.
func weekOf(now time.Time) weekRange {
	now = now.UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := day.AddDate(0, 0, -int(day.Weekday()))
	return weekRange{start: start, end: start.AddDate(0, 0, 6)}
}

func (s *service) SendWeeklySummaries(ctx context.Context, now time.Time) (DigestResult, error) {
	week := weekOf(now)
	counts, err := s.repo.WeeklyCounts(ctx, week.start, week.end)
	if err != nil {
		s.logger.Error("weekly summary query failed", zap.Error(err))
		return DigestResult{}, err
	}

	var digest DigestResult
	for _, c := range counts {
		members, err := s.directory.ListMembers(ctx, domain.OrganizationScope(c.OrganizationID))
		if err != nil {
			s.logger.Error("weekly summary members lookup failed",
				zap.String("organization_id", c.OrganizationID),
				zap.Error(err),
			)
			continue
		}
		digest.Organizations++
		notice := weeklyNotice(c, week)
		for _, m := range members {
			digest.add(s.deliver(ctx, m, notice))
		}
	}

	s.logger.Info("weekly summaries sent",
		zap.Time("week_start", week.start),
		zap.Int("organizations", digest.Organizations),
		zap.Int("sent", digest.Sent),
		zap.Int("skipped", digest.Skipped),
	)
	return digest, nil
}

func (s *service) GetPreferences(ctx context.Context, actor domain.Actor) (PreferencesResponse, error) {
	userID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return PreferencesResponse{}, err
	}
	p, err := s.preference(ctx, userID)
	if err != nil {
		s.logger.Error("get preferences failed", zap.String("user_id", actor.UserID), zap.Error(err))
		return PreferencesResponse{}, err
	}
	return mapPreference(p), nil
}

func (s *service) UpdatePreferences(ctx context.Context, actor domain.Actor, req UpdatePreferencesRequest) (PreferencesResponse, error) {
	userID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return PreferencesResponse{}, err
	}
	p, err := s.preference(ctx, userID)
	if err != nil {
		return PreferencesResponse{}, err
	}

	if req.EmailNotifications != nil {
		p.EmailNotifications = *req.EmailNotifications
	}
	if req.LeaveRequestReminders != nil {
		p.LeaveRequestReminders = *req.LeaveRequestReminders
	}
	if req.TeamLeaveNotifications != nil {
		p.TeamLeaveNotifications = *req.TeamLeaveNotifications
	}
	if req.WeeklySummary != nil {
		p.WeeklySummary = *req.WeeklySummary
	}

	if err := s.repo.SavePreference(ctx, &p); err != nil {
		s.logger.Error("update preferences failed", zap.String("user_id", actor.UserID), zap.Error(err))
		return PreferencesResponse{}, err
	}
	s.logger.Info("preferences updated", zap.String("user_id", actor.UserID))
	return mapPreference(p), nil
}

func (s *service) List(ctx context.Context, actor domain.Actor, q ListQuery) ([]NotificationResponse, int64, error) {
	page, size := normalizePage(q.Page, q.PageSize)
	items, total, err := s.repo.List(ctx, actor.OrganizationID, actor.UserID, q.Unread, (page-1)*size, size)
	if err != nil {
		s.logger.Error("list notifications failed", zap.String("user_id", actor.UserID), zap.Error(err))
		return nil, 0, err
	}

	resp := make([]NotificationResponse, 0, len(items))
	for _, n := range items {
		resp = append(resp, mapNotification(n))
	}
	return resp, total, nil
}

func (s *service) MarkRead(ctx context.Context, actor domain.Actor, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return notificationerrors.ErrInvalidNotificationID
	}
	rows, err := s.repo.MarkRead(ctx, actor.OrganizationID, actor.UserID, id, s.now().UTC())
	if err != nil {
		s.logger.Error("mark read failed", zap.String("id", id), zap.Error(err))
		return err
	}
	if rows == 0 {
		return notificationerrors.ErrNotificationNotFound
	}
	return nil
}

func (s *service) typeName(ctx context.Context, organizationID, leaveTypeID string) string {
	t, err := s.types.Get(ctx, organizationID, leaveTypeID)
	if err != nil {
		s.logger.Debug("leave type name unavailable", zap.String("leave_type_id", leaveTypeID), zap.Error(err))
		return "leave"
	}
	return t.Name
}

func displayName(p membership.Profile) string {
	if p.FullName != "" {
		return p.FullName
	}
	return p.Email
}

func mapPreference(p Preference) PreferencesResponse {
	return PreferencesResponse{
		EmailNotifications:     p.EmailNotifications,
		LeaveRequestReminders:  p.LeaveRequestReminders,
		TeamLeaveNotifications: p.TeamLeaveNotifications,
		WeeklySummary:          p.WeeklySummary,
	}
}

func mapNotification(n Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:        n.ID.String(),
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
	if len(n.Data) > 0 {
		resp.Data = json.RawMessage(n.Data)
	}
	return resp
}

func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}
