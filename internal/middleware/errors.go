package middleware

import (
	"net/http"

	"github.com/techmajster/saas-leave-system/internal/shared/apperror"
	"github.com/techmajster/saas-leave-system/internal/shared/response"

	"github.com/gin-gonic/gin"
)

var (
	ErrTokenNotFound = apperror.New(apperror.CodeUnauthorized, "Token not found", http.StatusUnauthorized)
	ErrInvalidToken  = apperror.New("INVALID_TOKEN", "Invalid token", http.StatusUnauthorized)
	ErrTokenExpired  = apperror.New("TOKEN_EXPIRED", "Token has expired", http.StatusUnauthorized)
	ErrNoMembership  = apperror.New(apperror.CodeForbidden, "You are not a member of any organization", http.StatusForbidden)
	ErrInvalidCron   = apperror.New(apperror.CodeUnauthorized, "Invalid cron secret", http.StatusUnauthorized)
	ErrTooMany       = apperror.New(apperror.CodeTooManyRequests, "Too many requests", http.StatusTooManyRequests)
)

func abort(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Abort(c, httpErr.Status, httpErr.Code, httpErr.Message)
}
