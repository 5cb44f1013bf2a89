package middleware

import (
	"github.com/techmajster/saas-leave-system/internal/domain"
	"github.com/techmajster/saas-leave-system/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RBACService is satisfied by anything that can evaluate a domain.EnforceRequest.
type RBACService interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

// RBACAuthorize checks the actor's role against resource:action. It must run
// after ResolveActor.
func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := CurrentActor(c)
		if !ok {
			abort(c, ErrNoMembership)
			return
		}

		allowed, err := service.Enforce(domain.EnforceRequest{
			Role:           actor.Role,
			OrganizationID: actor.OrganizationID,
			Resource:       resource,
			Action:         action,
		})
		if err != nil {
			zap.L().Named("middleware.rbac").Error("rbac enforce failed",
				zap.String("resource", resource),
				zap.String("action", action),
				zap.Error(err),
			)
			abort(c, apperror.Internal(err))
			return
		}
		if !allowed {
			abort(c, errForbidden)
			return
		}
		c.Next()
	}
}
