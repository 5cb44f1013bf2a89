package apperror

import (
	"fmt"
	"net/http"
)

var (
	ErrNotFound = New(
		CodeNotFound,
		"Resource not found",
		http.StatusNotFound,
	)

	ErrForbidden = New(
		CodeForbidden,
		"You do not have permission to access this resource",
		http.StatusForbidden,
	)

	ErrInternal = New(
		CodeInternalError,
		"An unexpected error occurred",
		http.StatusInternalServerError,
	)

	ErrUnauthorized = New(
		CodeUnauthorized,
		"Authentication is required",
		http.StatusUnauthorized,
	)

	ErrInvalidInput = New(
		CodeInvalidInput,
		"The provided input is invalid",
		http.StatusBadRequest,
	)

	ErrServiceUnavailable = New(
		CodeServiceUnavailable,
		"Service is temporarily unavailable",
		http.StatusServiceUnavailable,
	)
)

// RequiredField reports a missing request field, e.g. "Member Ids is required".
func RequiredField(field string) *AppError {
	err := New(CodeValidationError, fmt.Sprintf("%s is required", field), http.StatusBadRequest)
	err.Details = map[string]string{"field": field}
	return err
}

// InvalidField reports a request field that failed validation.
func InvalidField(field string) *AppError {
	err := New(CodeValidationError, fmt.Sprintf("%s is invalid", field), http.StatusBadRequest)
	err.Details = map[string]string{"field": field}
	return err
}
