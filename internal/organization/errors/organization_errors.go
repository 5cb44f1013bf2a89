package organizationerrors

import (
	"net/http"

	"github.com/techmajster/saas-leave-system/internal/shared/apperror"
)

var (
	ErrOrganizationNotFound = apperror.New(
		apperror.CodeNotFound,
		"Organization not found",
		http.StatusNotFound,
	)
	ErrSlugTaken = apperror.New(
		apperror.CodeConflict,
		"Slug already taken",
		http.StatusConflict,
	)
	ErrInvalidSlug = apperror.New(
		apperror.CodeValidationError,
		"Slug may only contain lowercase letters, digits and hyphens",
		http.StatusBadRequest,
	)
	ErrNameSlugRequired = apperror.New(
		apperror.CodeValidationError,
		"Name and slug are required",
		http.StatusBadRequest,
	)
	ErrAdminOnly = apperror.New(
		apperror.CodeForbidden,
		"Forbidden - Admin access required",
		http.StatusForbidden,
	)
	ErrProfileNotFound = apperror.New(
		apperror.CodeInvalidInput,
		"User profile not found. Please contact support.",
		http.StatusBadRequest,
	)
	ErrAlreadyMember = apperror.New(
		apperror.CodeConflict,
		"You already belong to an organization",
		http.StatusConflict,
	)
	ErrAdminNotFound = apperror.New(
		apperror.CodeInvalidInput,
		"Selected admin not found",
		http.StatusBadRequest,
	)
	ErrGoogleDomainRequired = apperror.New(
		apperror.CodeValidationError,
		"google_domain is required when require_google_domain is set",
		http.StatusBadRequest,
	)
)
