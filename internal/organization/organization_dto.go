package organization

import "time"

type CreateOrganizationRequest struct {
	Name                string  `json:"name" binding:"required,max=200"`
	Slug                string  `json:"slug" binding:"required,max=100"`
	GoogleDomain        *string `json:"google_domain" binding:"omitempty,fqdn"`
	RequireGoogleDomain bool    `json:"require_google_domain"`
	CountryCode         string  `json:"country_code" binding:"omitempty,oneof=PL IE US"`
}

type UpdateSettingsRequest struct {
	Name                string  `json:"name" binding:"max=200"`
	Slug                string  `json:"slug" binding:"max=100"`
	CountryCode         string  `json:"country_code" binding:"omitempty,oneof=PL IE US"`
	Locale              string  `json:"locale" binding:"omitempty,oneof=pl en"`
	GoogleDomain        *string `json:"google_domain" binding:"omitempty,fqdn"`
	RequireGoogleDomain *bool   `json:"require_google_domain"`
	AdminID             *string `json:"admin_id" binding:"omitempty,uuid"`
}

type OrganizationResponse struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Slug                string    `json:"slug"`
	GoogleDomain        *string   `json:"google_domain,omitempty"`
	RequireGoogleDomain bool      `json:"require_google_domain"`
	CountryCode         string    `json:"country_code"`
	Locale              string    `json:"locale"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

type CreateOrganizationResponse struct {
	Success          bool                 `json:"success"`
	Organization     OrganizationResponse `json:"organization"`
	Message          string               `json:"message"`
	SeededLeaveTypes int                  `json:"seeded_leave_types"`
	SeededBalances   int64                `json:"seeded_balances"`
}
