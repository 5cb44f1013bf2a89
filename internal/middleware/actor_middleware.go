package middleware

import (
	"context"

	"github.com/techmajster/saas-leave-system/internal/domain"
	"github.com/techmajster/saas-leave-system/internal/shared/apperror"
	"github.com/techmajster/saas-leave-system/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var errForbidden = apperror.ErrForbidden

// ActorResolver loads the organization profile of an authenticated user.
type ActorResolver interface {
	ResolveActor(ctx context.Context, userID string) (domain.Actor, error)
}

// ResolveActor runs after AuthMiddleware and stores the domain.Actor for the
// request. Callers without an organization are rejected.
func ResolveActor(resolver ActorResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := CurrentIdentity(c)
		if identity.UserID == "" {
			abort(c, ErrTokenNotFound)
			return
		}

		actor, err := resolver.ResolveActor(c.Request.Context(), identity.UserID)
		if err != nil {
			httpErr := apperror.ToHTTP(err)
			if httpErr.Status == 404 {
				abort(c, ErrNoMembership)
				return
			}
			abort(c, err)
			return
		}
		if actor.Email == "" {
			actor.Email = identity.Email
		}

		ctx := contextutil.WithOrganizationID(c.Request.Context(), actor.OrganizationID)
		reqLogger := contextutil.GetLogger(ctx, zap.L()).With(zap.String("organization_id", actor.OrganizationID))
		c.Request = c.Request.WithContext(contextutil.WithLogger(ctx, reqLogger))

		c.Set(ctxActor, actor)
		c.Next()
	}
}

// CurrentActor returns the actor stored by ResolveActor.
func CurrentActor(c *gin.Context) (domain.Actor, bool) {
	v, ok := c.Get(ctxActor)
	if !ok {
		return domain.Actor{}, false
	}
	actor, ok := v.(domain.Actor)
	return actor, ok
}

// SetActor is used by tests and by handlers that resolve the actor themselves.
func SetActor(c *gin.Context, actor domain.Actor) {
	c.Set(ctxActor, actor)
}
