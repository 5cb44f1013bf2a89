package organization

import (
	"github.com/techmajster/saas-leave-system/internal/middleware"
	"github.com/techmajster/saas-leave-system/internal/rbac"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes expects r to already run AuthMiddleware.
func RegisterRoutes(r *gin.RouterGroup, h *Handler, resolveActor gin.HandlerFunc, rbacService rbac.Service) {
	r.POST("/organizations", h.Create)

	settings := r.Group("/admin/settings/organization", resolveActor)
	{
		settings.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourceOrganization, rbac.ActionRead), h.GetSettings)
		settings.PUT("", middleware.RBACAuthorize(rbacService, rbac.ResourceOrganization, rbac.ActionUpdate), h.UpdateSettings)
	}
}
