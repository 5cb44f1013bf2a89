package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"
)

// CronSecret guards endpoints called by the external scheduler. An empty
// secret disables the endpoints entirely.
func CronSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader("X-Cron-Secret")
		if secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			abort(c, ErrInvalidCron)
			return
		}
		c.Next()
	}
}
