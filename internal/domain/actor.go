package domain

const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

// ValidRole reports whether r is one of the three organization roles.
func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// Identity is the authenticated caller before organization membership is known.
type Identity struct {
	UserID   string
	Email    string
	FullName string
}

// Actor is the authenticated caller resolved against its organization
// profile. Handlers build it once per request and pass it to services.
type Actor struct {
	UserID         string
	Email          string
	OrganizationID string
	Role           string
	TeamID         string
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanReview reports whether the role may approve or reject leave and manage rosters.
func (a Actor) CanReview() bool {
	return a.Role == RoleAdmin || a.Role == RoleManager
}

func (a Actor) Identity() Identity {
	return Identity{UserID: a.UserID, Email: a.Email}
}
