package invitation

import (
	"github.com/techmajster/saas-leave-system/internal/middleware"
	"github.com/techmajster/saas-leave-system/internal/rbac"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes expects r to already run AuthMiddleware.
func RegisterRoutes(r *gin.RouterGroup, h *Handler, resolveActor gin.HandlerFunc, rbacService rbac.Service) {
	r.POST("/invitations/accept", h.Accept)

	invitations := r.Group("/invitations", resolveActor)
	{
		invitations.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourceInvitation, rbac.ActionRead), h.List)
		invitations.POST("", middleware.RBACAuthorize(rbacService, rbac.ResourceInvitation, rbac.ActionCreate), h.Create)
		invitations.DELETE("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceInvitation, rbac.ActionDelete), h.Revoke)
	}
}
