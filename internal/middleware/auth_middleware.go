package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/techmajster/saas-leave-system/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ctxUserID   = "user_id"
	ctxEmail    = "email"
	ctxFullName = "full_name"
	ctxActor    = "actor"
)

// AuthMiddleware verifies the bearer token issued by the hosted auth
// provider and stores the caller identity on the gin context.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}
		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}
		if tokenString == "" {
			abort(c, ErrTokenNotFound)
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abort(c, ErrTokenExpired)
				return
			}
			abort(c, ErrInvalidToken)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abort(c, ErrInvalidToken)
			return
		}

		userID, _ := claims["sub"].(string)
		if userID == "" {
			userID, _ = claims["user_id"].(string)
		}
		if userID == "" {
			abort(c, ErrInvalidToken)
			return
		}

		email, _ := claims["email"].(string)
		c.Set(ctxUserID, userID)
		c.Set(ctxEmail, strings.ToLower(email))
		c.Set(ctxFullName, fullNameFromClaims(claims))

		c.Next()
	}
}

func fullNameFromClaims(claims jwt.MapClaims) string {
	if meta, ok := claims["user_metadata"].(map[string]any); ok {
		if name, ok := meta["full_name"].(string); ok && name != "" {
			return name
		}
	}
	name, _ := claims["name"].(string)
	return name
}

// CurrentIdentity returns the identity stored by AuthMiddleware.
func CurrentIdentity(c *gin.Context) domain.Identity {
	return domain.Identity{
		UserID:   c.GetString(ctxUserID),
		Email:    c.GetString(ctxEmail),
		FullName: c.GetString(ctxFullName),
	}
}

// RoleMiddleware only lets through actors whose role is listed.
func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := CurrentActor(c)
		if !ok {
			abort(c, ErrNoMembership)
			return
		}

		for _, role := range allowedRoles {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		abort(c, errForbidden)
	}
}
