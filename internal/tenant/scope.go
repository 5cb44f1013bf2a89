package tenant

import (
	"github.com/techmajster/saas-leave-system/internal/domain"

	"gorm.io/gorm"
)

// Scope restricts a query to one organization. Every query on a tenant-owned
// table goes through it.
func Scope(organizationID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("organization_id = ?", organizationID)
	}
}

// VisibleUsers restricts userColumn to the users covered by s, and the rows
// themselves to the scope's organization. An invalid scope matches nothing.
func VisibleUsers(s domain.Scope, userColumn string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch s.Kind() {
		case domain.ScopeOrganization:
			return db.Where("organization_id = ?", s.OrganizationID())
		case domain.ScopeTeam:
			members := db.Session(&gorm.Session{NewDB: true}).
				Table("profiles").
				Select("id").
				Where("organization_id = ?", s.OrganizationID()).
				Where("team_id = ?", s.TeamID())
			return db.
				Where("organization_id = ?", s.OrganizationID()).
				Where(userColumn+" IN (?)", members)
		default:
			return db.Where("1 = 0")
		}
	}
}
