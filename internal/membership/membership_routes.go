package membership

import (
	"github.com/techmajster/saas-leave-system/internal/middleware"
	"github.com/techmajster/saas-leave-system/internal/rbac"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes expects r to already run AuthMiddleware.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, resolveActor gin.HandlerFunc, rbacService rbac.Service) {
	r.GET("/me", handler.Me)
	r.GET("/me/scope", resolveActor, handler.Scope)
	r.GET("/members", resolveActor, middleware.RBACAuthorize(rbacService, rbac.ResourceProfile, rbac.ActionRead), handler.Members)
}
