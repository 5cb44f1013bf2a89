package balanceerrors

import (
	"net/http"

	"github.com/techmajster/saas-leave-system/internal/shared/apperror"
)

var (
	ErrBalanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"Leave balance not found",
		http.StatusNotFound,
	)
	ErrInsufficientBalance = apperror.New(
		apperror.CodeInvalidState,
		"Insufficient leave balance",
		http.StatusBadRequest,
	)
	ErrLeaveTypeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Leave type not found",
		http.StatusNotFound,
	)
	ErrReconciliationNotFound = apperror.New(
		apperror.CodeNotFound,
		"Reconciliation entry not found",
		http.StatusNotFound,
	)
	ErrAlreadyResolved = apperror.New(
		apperror.CodeInvalidState,
		"Reconciliation entry is already resolved",
		http.StatusBadRequest,
	)
	ErrAdminOnly = apperror.New(
		apperror.CodeForbidden,
		"Only admins can manage leave balances",
		http.StatusForbidden,
	)
	ErrCannotViewUser = apperror.New(
		apperror.CodeForbidden,
		"You can only view balances of yourself or members you manage",
		http.StatusForbidden,
	)
	ErrInvalidDays = apperror.New(
		apperror.CodeValidationError,
		"Days must be a non-negative number",
		http.StatusBadRequest,
	)
)
