package rbac

import "github.com/techmajster/saas-leave-system/internal/domain"

// Resources and actions guarded at the route level.
const (
	ResourceProfile        = "profile"
	ResourceOrganization   = "organization"
	ResourceTeam           = "team"
	ResourceLeaveType      = "leave_type"
	ResourceLeaveRequest   = "leave_request"
	ResourceBalance        = "balance"
	ResourceReconciliation = "reconciliation"
	ResourceInvitation     = "invitation"
	ResourceNotification   = "notification"

	ActionRead          = "read"
	ActionCreate        = "create"
	ActionUpdate        = "update"
	ActionDelete        = "delete"
	ActionReview        = "review"
	ActionManage        = "manage"
	ActionManageMembers = "manage_members"
)

// DefaultPolicies lists the grants of each role before inheritance.
func DefaultPolicies() [][]string {
	return [][]string{
		{domain.RoleEmployee, ResourceProfile, ActionRead},
		{domain.RoleEmployee, ResourceTeam, ActionRead},
		{domain.RoleEmployee, ResourceLeaveType, ActionRead},
		{domain.RoleEmployee, ResourceLeaveRequest, ActionRead},
		{domain.RoleEmployee, ResourceLeaveRequest, ActionCreate},
		{domain.RoleEmployee, ResourceBalance, ActionRead},
		{domain.RoleEmployee, ResourceNotification, ActionRead},
		{domain.RoleEmployee, ResourceNotification, ActionUpdate},

		{domain.RoleManager, ResourceLeaveRequest, ActionReview},
		{domain.RoleManager, ResourceTeam, ActionManageMembers},
		{domain.RoleManager, ResourceInvitation, ActionRead},
		{domain.RoleManager, ResourceInvitation, ActionCreate},
		{domain.RoleManager, ResourceInvitation, ActionDelete},

		{domain.RoleAdmin, "*", "*"},
	}
}

// DefaultGroupings makes admin inherit manager and manager inherit employee.
func DefaultGroupings() [][]string {
	return [][]string{
		{domain.RoleAdmin, domain.RoleManager},
		{domain.RoleManager, domain.RoleEmployee},
	}
}
