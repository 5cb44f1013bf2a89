package balance

import (
	"github.com/techmajster/saas-leave-system/internal/middleware"
	"github.com/techmajster/saas-leave-system/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	balances := r.Group("/balances")
	{
		balances.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourceBalance, rbac.ActionRead), h.GetBalances)
		balances.PUT("", middleware.RBACAuthorize(rbacService, rbac.ResourceBalance, rbac.ActionUpdate), h.UpsertEntitlement)
		balances.GET("/reconciliations", middleware.RBACAuthorize(rbacService, rbac.ResourceReconciliation, rbac.ActionRead), h.ListReconciliations)
		balances.POST("/reconciliations/:id/retry", middleware.RBACAuthorize(rbacService, rbac.ResourceReconciliation, rbac.ActionUpdate), h.RetryReconciliation)
	}
}
