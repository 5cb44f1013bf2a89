package notification

import (
	"context"
	"errors"
	"time"

	"github.com/techmajster/saas-leave-system/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=notification_repo.go -destination=mock/notification_repo_mock.go -package=mock
type Repository interface {
	FindPreference(ctx context.Context, userID string) (*Preference, error)
	SavePreference(ctx context.Context, p *Preference) error
	Create(ctx context.Context, n *Notification) error
	List(ctx context.Context, organizationID, userID string, unreadOnly bool, offset, limit int) ([]Notification, int64, error)
	MarkRead(ctx context.Context, organizationID, userID, id string, at time.Time) (int64, error)
	PendingByOrganization(ctx context.Context) ([]PendingCount, error)
	WeeklyCounts(ctx context.Context, from, to time.Time) ([]WeeklyCount, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// FindPreference returns nil, nil when the user never saved preferences.
func (r *repository) FindPreference(ctx context.Context, userID string) (*Preference, error) {
	var p Preference
	err := r.db.WithContext(ctx).First(&p, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) SavePreference(ctx context.Context, p *Preference) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"email_notifications",
				"leave_request_reminders",
				"team_leave_notifications",
				"weekly_summary",
				"updated_at",
			}),
		}).
		Create(p).Error
}

func (r *repository) Create(ctx context.Context, n *Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *repository) List(ctx context.Context, organizationID, userID string, unreadOnly bool, offset, limit int) ([]Notification, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&Notification{}).
		Scopes(tenant.Scope(organizationID)).
		Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("read_at IS NULL")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []Notification
	err := q.Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error
	return items, total, err
}

// MarkRead leaves an already read notification untouched but still reports
// it as affected so repeated calls succeed.
func (r *repository) MarkRead(ctx context.Context, organizationID, userID, id string, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&Notification{}).
		Scopes(tenant.Scope(organizationID)).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read_at", gorm.Expr("COALESCE(read_at, ?)", at))
	return res.RowsAffected, res.Error
}

func (r *repository) PendingByOrganization(ctx context.Context) ([]PendingCount, error) {
	var counts []PendingCount
	err := r.db.WithContext(ctx).
		Table("leave_requests").
		Select("organization_id, COUNT(*) AS count").
		Where("status = ?", "pending").
		Group("organization_id").
		Scan(&counts).Error
	return counts, err
}

// WeeklyCounts counts requests lying entirely inside [from, to].
func (r *repository) WeeklyCounts(ctx context.Context, from, to time.Time) ([]WeeklyCount, error) {
	var counts []WeeklyCount
	err := r.db.WithContext(ctx).
		Table("leave_requests").
		Select(
			"organization_id, "+
				"SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS approved, "+
				"SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS pending",
			"approved", "pending",
		).
		Where("start_date >= ? AND end_date <= ?", from, to).
		Group("organization_id").
		Scan(&counts).Error
	return counts, err
}
