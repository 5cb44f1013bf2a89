package notification

import (
	"github.com/techmajster/saas-leave-system/internal/middleware"
	"github.com/techmajster/saas-leave-system/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	notifications := r.Group("/notifications")
	{
		notifications.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourceNotification, rbac.ActionRead), h.List)
		notifications.POST("/:id/read", middleware.RBACAuthorize(rbacService, rbac.ResourceNotification, rbac.ActionUpdate), h.MarkRead)
		notifications.GET("/preferences", middleware.RBACAuthorize(rbacService, rbac.ResourceNotification, rbac.ActionRead), h.GetPreferences)
		notifications.PUT("/preferences", middleware.RBACAuthorize(rbacService, rbac.ResourceNotification, rbac.ActionUpdate), h.UpdatePreferences)
	}
}

// RegisterCronRoutes mounts the scheduler endpoints. They carry no user
// identity and are guarded by the shared cron secret only.
func RegisterCronRoutes(r *gin.RouterGroup, h *Handler, cronSecret string) {
	cron := r.Group("/cron", middleware.CronSecret(cronSecret))
	{
		cron.POST("/pending-reminders", h.PendingReminders)
		cron.POST("/weekly-summary", h.WeeklySummary)
	}
}
