package leavetypeerrors

import (
	"net/http"

	"github.com/techmajster/saas-leave-system/internal/shared/apperror"
)

var (
	ErrLeaveTypeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Leave type not found",
		http.StatusNotFound,
	)
	ErrLeaveTypeNameTaken = apperror.New(
		apperror.CodeConflict,
		"A leave type with this name already exists",
		http.StatusConflict,
	)
	ErrInvalidCategory = apperror.New(
		apperror.CodeValidationError,
		"Leave Category is invalid",
		http.StatusBadRequest,
	)
	ErrAdminOnly = apperror.New(
		apperror.CodeForbidden,
		"Only admins can manage leave types",
		http.StatusForbidden,
	)
	ErrCannotViewUser = apperror.New(
		apperror.CodeForbidden,
		"You can only view leave options for yourself or members you manage",
		http.StatusForbidden,
	)
)
