package team

import (
	"github.com/techmajster/saas-leave-system/internal/middleware"
	"github.com/techmajster/saas-leave-system/internal/rbac"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes expects r to already run AuthMiddleware and ResolveActor.
func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	teams := r.Group("/teams")
	{
		teams.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourceTeam, rbac.ActionRead), h.GetAll)
		teams.POST("", middleware.RBACAuthorize(rbacService, rbac.ResourceTeam, rbac.ActionCreate), h.Create)
		teams.GET("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceTeam, rbac.ActionRead), h.GetByID)
		teams.PUT("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceTeam, rbac.ActionUpdate), h.Update)
		teams.DELETE("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceTeam, rbac.ActionDelete), h.Delete)

		teams.GET("/:id/members", middleware.RBACAuthorize(rbacService, rbac.ResourceTeam, rbac.ActionRead), h.ListMembers)
		teams.POST("/:id/members", middleware.RBACAuthorize(rbacService, rbac.ResourceTeam, rbac.ActionManageMembers), h.AddMembers)
		teams.DELETE("/:id/members", middleware.RBACAuthorize(rbacService, rbac.ResourceTeam, rbac.ActionManageMembers), h.RemoveMembers)
	}
}
