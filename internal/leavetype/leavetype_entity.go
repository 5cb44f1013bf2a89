package leavetype

import (
	"time"

	"github.com/google/uuid"
)

const (
	CategoryVacation  = "vacation"
	CategorySick      = "sick"
	CategoryOnDemand  = "on_demand"
	CategoryUnpaid    = "unpaid"
	CategoryMaternity = "maternity"
	CategoryPaternity = "paternity"
	CategoryChildcare = "childcare"
	CategorySpecial   = "special"
	CategoryOther     = "other"
)

// LeaveType is an organization's kind of absence. DaysPerYear 0 means the
// type is not tracked against an entitlement.
type LeaveType struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrganizationID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_types_org_name"`
	Name             string    `gorm:"size:255;not null;uniqueIndex:uq_leave_types_org_name"`
	DaysPerYear      int       `gorm:"not null"`
	Color            string    `gorm:"size:20;not null"`
	RequiresApproval bool      `gorm:"not null"`
	RequiresBalance  bool      `gorm:"not null"`
	LeaveCategory    string    `gorm:"size:30;not null"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
}

func ValidCategory(c string) bool {
	switch c {
	case CategoryVacation, CategorySick, CategoryOnDemand, CategoryUnpaid,
		CategoryMaternity, CategoryPaternity, CategoryChildcare, CategorySpecial, CategoryOther:
		return true
	}
	return false
}

// ManualAssignment reports categories whose balances are granted by an
// administrator per employee and never seeded automatically.
func ManualAssignment(category string) bool {
	switch category {
	case CategoryMaternity, CategoryPaternity, CategoryChildcare:
		return true
	}
	return false
}

// SeedsBalance reports whether new members get a balance row for t.
func (t LeaveType) SeedsBalance() bool {
	return t.RequiresBalance && t.DaysPerYear > 0 && !ManualAssignment(t.LeaveCategory)
}
