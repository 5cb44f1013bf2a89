package domain

import "fmt"

type ScopeKind int

const (
	ScopeOrganization ScopeKind = iota + 1
	ScopeTeam
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeOrganization:
		return "organization"
	case ScopeTeam:
		return "team"
	default:
		return fmt.Sprintf("ScopeKind(%d)", int(k))
	}
}

// Scope is the set of users a viewer may see: either a whole organization
// or a single team inside it. Construct it with OrganizationScope or TeamScope.
type Scope struct {
	kind           ScopeKind
	organizationID string
	teamID         string
}

func OrganizationScope(organizationID string) Scope {
	return Scope{kind: ScopeOrganization, organizationID: organizationID}
}

func TeamScope(organizationID, teamID string) Scope {
	return Scope{kind: ScopeTeam, organizationID: organizationID, teamID: teamID}
}

func (s Scope) Kind() ScopeKind        { return s.kind }
func (s Scope) OrganizationID() string { return s.organizationID }
func (s Scope) IsZero() bool           { return s.kind == 0 }

// TeamID is empty for organization scopes.
func (s Scope) TeamID() string { return s.teamID }

func (s Scope) String() string {
	switch s.kind {
	case ScopeOrganization:
		return "organization:" + s.organizationID
	case ScopeTeam:
		return "team:" + s.organizationID + "/" + s.teamID
	default:
		return "scope:invalid"
	}
}

// ScopeView is the JSON form of a Scope.
type ScopeView struct {
	Type           string `json:"type"`
	OrganizationID string `json:"organization_id"`
	TeamID         string `json:"team_id,omitempty"`
}

func (s Scope) View() ScopeView {
	return ScopeView{Type: s.kind.String(), OrganizationID: s.organizationID, TeamID: s.teamID}
}
