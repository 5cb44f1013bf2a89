package invitationerrors

import (
	"net/http"

	"github.com/techmajster/saas-leave-system/internal/shared/apperror"
)

var (
	ErrInviteForbidden = apperror.New(
		apperror.CodeForbidden,
		"Only admins and managers can invite members",
		http.StatusForbidden,
	)
	ErrCannotInviteAdmin = apperror.New(
		apperror.CodeForbidden,
		"Managers cannot invite admins",
		http.StatusForbidden,
	)
	ErrInvalidRole = apperror.New(
		apperror.CodeValidationError,
		"Role must be admin, manager or employee",
		http.StatusBadRequest,
	)
	ErrTeamNotFound = apperror.New(
		apperror.CodeNotFound,
		"Team not found",
		http.StatusNotFound,
	)
	ErrTeamForbidden = apperror.New(
		apperror.CodeForbidden,
		"You can only invite members to teams you manage",
		http.StatusForbidden,
	)
	ErrEmailDomainNotAllowed = apperror.New(
		apperror.CodeInvalidInput,
		"Email domain is not allowed for this organization",
		http.StatusBadRequest,
	)
	ErrAlreadyMember = apperror.New(
		apperror.CodeConflict,
		"User is already a member of an organization",
		http.StatusConflict,
	)
	ErrPendingInvitationExists = apperror.New(
		apperror.CodeConflict,
		"There is already a pending invitation for this email",
		http.StatusConflict,
	)
	ErrInvitationNotFound = apperror.New(
		apperror.CodeNotFound,
		"Invitation not found",
		http.StatusNotFound,
	)
	ErrInvalidToken = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid invitation token",
		http.StatusBadRequest,
	)
	ErrInvitationNotPending = apperror.New(
		apperror.CodeInvalidState,
		"Invitation is no longer valid",
		http.StatusBadRequest,
	)
	ErrInvitationExpired = apperror.New(
		apperror.CodeInvalidState,
		"Invitation has expired",
		http.StatusBadRequest,
	)
	ErrEmailMismatch = apperror.New(
		apperror.CodeForbidden,
		"This invitation was sent to a different email address",
		http.StatusForbidden,
	)
	ErrRevokeForbidden = apperror.New(
		apperror.CodeForbidden,
		"You can only revoke invitations you sent",
		http.StatusForbidden,
	)
)
