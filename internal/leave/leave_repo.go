package leave

import (
	"context"
	"time"

	"github.com/techmajster/saas-leave-system/internal/domain"
	"github.com/techmajster/saas-leave-system/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var activeStatuses = []string{StatusPending, StatusApproved}

type ListFilter struct {
	Status string
	UserID string
	From   *time.Time
	To     *time.Time
	Offset int
	Limit  int
}

type StatusChange struct {
	To         string
	ReviewedBy uuid.UUID
	ReviewedAt time.Time
	Comment    *string
}

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, lr *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindByIDInScope(ctx context.Context, scope domain.Scope, id string) (*LeaveRequest, error)
	List(ctx context.Context, scope domain.Scope, f ListFilter) ([]LeaveRequest, int64, error)
	HasConflict(ctx context.Context, organizationID, userID string, start, end time.Time) (bool, error)
	FindOverlaps(ctx context.Context, scope domain.Scope, start, end time.Time, excludeUserID string) ([]Overlap, error)
	UpdateStatus(ctx context.Context, id, from string, ch StatusChange) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, lr *LeaveRequest) error {
	return r.db.WithContext(ctx).Create(lr).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var lr LeaveRequest
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&lr).Error; err != nil {
		return nil, err
	}
	return &lr, nil
}

func (r *repository) FindByIDInScope(ctx context.Context, scope domain.Scope, id string) (*LeaveRequest, error) {
	var lr LeaveRequest
	err := r.db.WithContext(ctx).
		Scopes(tenant.VisibleUsers(scope, "user_id")).
		Where("id = ?", id).
		First(&lr).Error
	if err != nil {
		return nil, err
	}
	return &lr, nil
}

func (r *repository) List(ctx context.Context, scope domain.Scope, f ListFilter) ([]LeaveRequest, int64, error) {
	q := r.db.WithContext(ctx).Model(&LeaveRequest{}).Scopes(tenant.VisibleUsers(scope, "user_id"))
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.From != nil {
		q = q.Where("end_date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("start_date <= ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []LeaveRequest
	err := q.Order("start_date DESC").Order("number DESC").
		Offset(f.Offset).
		Limit(f.Limit).
		Find(&rows).Error
	return rows, total, err
}

// HasConflict reports whether the user already holds pending or approved
// leave intersecting [start, end], bounds included.
func (r *repository) HasConflict(ctx context.Context, organizationID, userID string, start, end time.Time) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Scopes(tenant.Scope(organizationID)).
		Where("user_id = ?", userID).
		Where("status IN ?", activeStatuses).
		Where("start_date <= ? AND end_date >= ?", end, start).
		Count(&n).Error
	return n > 0, err
}

type overlapProfile struct {
	ID       string
	FullName string
	Email    string
}

type overlapType struct {
	ID    string
	Name  string
	Color string
}

func (r *repository) FindOverlaps(ctx context.Context, scope domain.Scope, start, end time.Time, excludeUserID string) ([]Overlap, error) {
	q := r.db.WithContext(ctx).
		Scopes(tenant.VisibleUsers(scope, "user_id")).
		Where("status IN ?", activeStatuses).
		Where("start_date <= ? AND end_date >= ?", end, start)
	if excludeUserID != "" {
		q = q.Where("user_id <> ?", excludeUserID)
	}

	var rows []LeaveRequest
	if err := q.Order("start_date ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []Overlap{}, nil
	}

	userIDs := make([]string, 0, len(rows))
	typeIDs := make([]string, 0, len(rows))
	for _, lr := range rows {
		userIDs = append(userIDs, lr.UserID.String())
		typeIDs = append(typeIDs, lr.LeaveTypeID.String())
	}

	var profiles []overlapProfile
	if err := r.db.WithContext(ctx).
		Table("profiles").
		Select("id, full_name, email").
		Where("id IN ?", userIDs).
		Find(&profiles).Error; err != nil {
		return nil, err
	}
	var types []overlapType
	if err := r.db.WithContext(ctx).
		Table("leave_types").
		Select("id, name, color").
		Where("id IN ?", typeIDs).
		Find(&types).Error; err != nil {
		return nil, err
	}

	profileByID := make(map[string]overlapProfile, len(profiles))
	for _, p := range profiles {
		profileByID[p.ID] = p
	}
	typeByID := make(map[string]overlapType, len(types))
	for _, t := range types {
		typeByID[t.ID] = t
	}

	out := make([]Overlap, 0, len(rows))
	for _, lr := range rows {
		p := profileByID[lr.UserID.String()]
		t := typeByID[lr.LeaveTypeID.String()]
		out = append(out, Overlap{
			LeaveRequestID: lr.ID.String(),
			UserID:         lr.UserID.String(),
			FullName:       p.FullName,
			Email:          p.Email,
			LeaveTypeName:  t.Name,
			Color:          t.Color,
			StartDate:      lr.StartDate,
			EndDate:        lr.EndDate,
			Status:         lr.Status,
		})
	}
	return out, nil
}

// UpdateStatus moves the request only while it is still in status from.
// Zero rows affected means another writer got there first.
func (r *repository) UpdateStatus(ctx context.Context, id, from string, ch StatusChange) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{
			"status":         ch.To,
			"reviewed_by":    ch.ReviewedBy,
			"reviewed_at":    ch.ReviewedAt,
			"review_comment": ch.Comment,
			"updated_at":     ch.ReviewedAt,
		})
	return res.RowsAffected, res.Error
}
