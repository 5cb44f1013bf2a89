package membershiperrors

import (
	"net/http"

	"github.com/techmajster/saas-leave-system/internal/shared/apperror"
)

var (
	ErrProfileNotFound = apperror.New(
		apperror.CodeNotFound,
		"User profile not found",
		http.StatusNotFound,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrInvalidScope = apperror.New(
		apperror.CodeInternalError,
		"invalid visibility scope",
		http.StatusInternalServerError,
	)
)
