package leave

import (
	"github.com/techmajster/saas-leave-system/internal/middleware"
	"github.com/techmajster/saas-leave-system/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	requests := r.Group("/leave-requests")
	{
		requests.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveRequest, rbac.ActionRead), h.List)
		requests.POST("", middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveRequest, rbac.ActionCreate), h.Create)
		requests.GET("/overlaps", middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveRequest, rbac.ActionRead), h.Overlaps)
		requests.GET("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveRequest, rbac.ActionRead), h.GetByID)
		// The action is validated before the role, so the role check lives in the service.
		requests.POST("/:id/approve", h.Review)
	}
}
