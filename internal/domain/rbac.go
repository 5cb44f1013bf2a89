package domain

// EnforceRequest asks whether a role may perform action on resource inside an organization.
type EnforceRequest struct {
	Role           string `json:"role" binding:"required"`
	OrganizationID string `json:"organization_id" binding:"required"`
	Resource       string `json:"resource" binding:"required"`
	Action         string `json:"action" binding:"required"`
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}
