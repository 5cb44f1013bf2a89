package organization

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	CountryPL = "PL"
	CountryIE = "IE"
	CountryUS = "US"

	LocalePL = "pl"
	LocaleEN = "en"
)

type Organization struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name                string    `gorm:"size:200;not null"`
	Slug                string    `gorm:"size:100;not null;uniqueIndex:uq_organizations_slug"`
	GoogleDomain        *string   `gorm:"size:255"`
	RequireGoogleDomain bool      `gorm:"not null"`
	CountryCode         string    `gorm:"size:2;not null;default:'PL'"`
	Locale              string    `gorm:"size:5;not null;default:'pl'"`
	CreatedAt           time.Time `gorm:"autoCreateTime"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime"`
}

func (Organization) TableName() string {
	return "organizations"
}

// AllowsEmail reports whether email may join under the Google domain rule.
func (o Organization) AllowsEmail(email string) bool {
	if !o.RequireGoogleDomain || o.GoogleDomain == nil || *o.GoogleDomain == "" {
		return true
	}
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	return strings.EqualFold(email[at+1:], *o.GoogleDomain)
}
