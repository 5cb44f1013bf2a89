package counter

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

const LeaveRequestNumber = "leave_request_number"

// OrganizationCounter holds one monotonically increasing sequence per
// organization and counter type.
type OrganizationCounter struct {
	OrganizationID string `gorm:"type:uuid;primaryKey"`
	CounterType    string `gorm:"type:varchar(50);primaryKey"`
	LastValue      int64  `gorm:"not null;default:0"`
	UpdatedAt      time.Time
}

func (OrganizationCounter) TableName() string {
	return "organization_counters"
}

//go:generate mockgen -destination=mock/counter_repo_mock.go -package=mock . Repository
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	GetNextValue(ctx context.Context, organizationID string, counterType string) (int64, error)
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

func (r *repository) GetNextValue(ctx context.Context, organizationID string, counterType string) (int64, error) {
	var nextValue int64

	// Single upsert so concurrent callers in one organization never share a value.
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO organization_counters (organization_id, counter_type, last_value, updated_at)
		VALUES (?, ?, 1, CURRENT_TIMESTAMP)
		ON CONFLICT (organization_id, counter_type) DO UPDATE
		SET last_value = organization_counters.last_value + 1, updated_at = CURRENT_TIMESTAMP
		RETURNING last_value
	`, organizationID, counterType).Scan(&nextValue).Error

	if err != nil {
		return 0, err
	}

	return nextValue, nil
}

// FormatLeaveRequestNumber renders a sequence value as "LR-000042".
func FormatLeaveRequestNumber(v int64) string {
	return fmt.Sprintf("LR-%06d", v)
}
