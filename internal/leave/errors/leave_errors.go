package leaveerrors

import (
	"net/http"

	"github.com/techmajster/saas-leave-system/internal/shared/apperror"
)

var (
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrNoWorkingDays = apperror.New(
		apperror.CodeInvalidInput,
		"Selected dates contain no working days",
		http.StatusBadRequest,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"User not found in your organization",
		http.StatusNotFound,
	)
	ErrCannotCreateForUser = apperror.New(
		apperror.CodeForbidden,
		"You can only create leave requests for employees you manage",
		http.StatusForbidden,
	)
	ErrAutoApproveForbidden = apperror.New(
		apperror.CodeForbidden,
		"Only managers and admins can add approved absences",
		http.StatusForbidden,
	)
	ErrLeaveConflict = apperror.New(
		apperror.CodeConflict,
		"Employee already has leave planned in this period",
		http.StatusConflict,
	)
	ErrLeaveTypeUnavailable = apperror.New(
		apperror.CodeInvalidInput,
		"Leave type is not available",
		http.StatusBadRequest,
	)
	ErrLeaveRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"Leave request not found",
		http.StatusNotFound,
	)
	ErrInvalidAction = apperror.New(
		apperror.CodeInvalidInput,
		`Invalid action. Must be "approve" or "reject"`,
		http.StatusBadRequest,
	)
	ErrReviewForbidden = apperror.New(
		apperror.CodeForbidden,
		"You do not have permission to approve/reject leave requests",
		http.StatusForbidden,
	)
	ErrOtherOrganization = apperror.New(
		apperror.CodeForbidden,
		"You can only manage requests from your organization",
		http.StatusForbidden,
	)
	// ErrStatusConflict is returned with the action and current status
	// filled in; it maps to 400 to match the approval endpoint contract.
	ErrStatusConflict = apperror.New(
		apperror.CodeConflict,
		"Cannot %s request - status is already %s",
		http.StatusBadRequest,
	)
)

func StatusConflict(action, status string) *apperror.AppError {
	return ErrStatusConflict.Withf(ErrStatusConflict.Message, action, status)
}

func LeaveTypeUnavailable(reason string) *apperror.AppError {
	return ErrLeaveTypeUnavailable.Withf("Leave type is not available: %s", reason)
}
