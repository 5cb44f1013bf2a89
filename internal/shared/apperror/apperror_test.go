package apperror_test

import (
	"errors"
	"net/http"
	"reflect"
	"testing"

	"github.com/techmajster/saas-leave-system/internal/shared/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestToHTTP(t *testing.T) {
	t.Run("app error keeps code and message", func(t *testing.T) {
		err := apperror.New(apperror.CodeConflict, "slug already taken", http.StatusConflict)

		got := apperror.ToHTTP(err)

		assert.Equal(t, http.StatusConflict, got.Status)
		assert.Equal(t, apperror.CodeConflict, got.Code)
		assert.Equal(t, "slug already taken", got.Message)
	})

	t.Run("wrapped app error is found", func(t *testing.T) {
		base := apperror.New(apperror.CodeNotFound, "team not found", http.StatusNotFound)
		err := errors.Join(errors.New("lookup"), base)

		got := apperror.ToHTTP(err)

		assert.Equal(t, http.StatusNotFound, got.Status)
		assert.Equal(t, "team not found", got.Message)
	})

	t.Run("unknown error does not leak its text", func(t *testing.T) {
		got := apperror.ToHTTP(errors.New(`pq: relation "profiles" does not exist`))

		assert.Equal(t, http.StatusInternalServerError, got.Status)
		assert.Equal(t, apperror.CodeInternalError, got.Code)
		assert.NotContains(t, got.Message, "profiles")
		assert.Nil(t, got.Details)
	})

	t.Run("internal wrap hides cause", func(t *testing.T) {
		got := apperror.ToHTTP(apperror.Internal(errors.New("dial tcp 10.0.0.3:5432: refused")))

		assert.Equal(t, http.StatusInternalServerError, got.Status)
		assert.Equal(t, "An unexpected error occurred", got.Message)
	})
}

func TestAppError_Withf(t *testing.T) {
	base := apperror.New(apperror.CodeConflict, "status conflict", http.StatusBadRequest)

	got := base.Withf("Cannot %s request - status is already %s", "approve", "approved")

	assert.Equal(t, "Cannot approve request - status is already approved", got.Message)
	assert.Equal(t, apperror.CodeConflict, got.Code)
	assert.Equal(t, "status conflict", base.Message)
}

func TestMapValidationError(t *testing.T) {
	type payload struct {
		MemberIDs []string `json:"member_ids" validate:"required"`
		Email     string   `json:"email" validate:"email"`
	}
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string { return fld.Tag.Get("json") })

	t.Run("required field", func(t *testing.T) {
		err := v.Struct(payload{Email: "a@x.com"})

		got := apperror.MapValidationError(err)

		assert.Equal(t, apperror.CodeValidationError, got.Code)
		assert.Equal(t, "Member Ids is required", got.Message)
	})

	t.Run("invalid field", func(t *testing.T) {
		err := v.Struct(payload{MemberIDs: []string{"x"}, Email: "nope"})

		got := apperror.MapValidationError(err)

		assert.Equal(t, "Email is invalid", got.Message)
	})

	t.Run("non validation error", func(t *testing.T) {
		got := apperror.MapValidationError(errors.New("unexpected EOF"))

		assert.Equal(t, "Invalid input", got.Message)
		assert.Equal(t, http.StatusBadRequest, got.HTTPStatus)
	})
}
