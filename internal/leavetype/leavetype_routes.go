package leavetype

import (
	"github.com/techmajster/saas-leave-system/internal/middleware"
	"github.com/techmajster/saas-leave-system/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	types := r.Group("/leave-types")
	{
		types.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveType, rbac.ActionRead), h.GetAll)
		types.GET("/options", middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveType, rbac.ActionRead), h.Options)
		types.POST("", middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveType, rbac.ActionCreate), h.Create)
		types.PUT("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveType, rbac.ActionUpdate), h.Update)
	}
}
