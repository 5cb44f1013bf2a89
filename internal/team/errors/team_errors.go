package teamerrors

import (
	"net/http"

	"github.com/techmajster/saas-leave-system/internal/shared/apperror"
)

var (
	ErrTeamNotFound = apperror.New(
		apperror.CodeNotFound,
		"Team not found",
		http.StatusNotFound,
	)
	ErrMemberIDsRequired = apperror.New(
		apperror.CodeValidationError,
		"member_ids must be a non-empty array",
		http.StatusBadRequest,
	)
	ErrRosterForbidden = apperror.New(
		apperror.CodeForbidden,
		"You do not have permission to manage team members",
		http.StatusForbidden,
	)
	ErrNotTeamManager = apperror.New(
		apperror.CodeForbidden,
		"You can only manage members of teams you manage",
		http.StatusForbidden,
	)
	ErrAdminOnly = apperror.New(
		apperror.CodeForbidden,
		"Only admins can manage teams",
		http.StatusForbidden,
	)
	ErrManagerNotInOrganization = apperror.New(
		apperror.CodeInvalidInput,
		"Manager must be a member of the organization",
		http.StatusBadRequest,
	)
	ErrInvalidTeamID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid team id",
		http.StatusBadRequest,
	)
)
