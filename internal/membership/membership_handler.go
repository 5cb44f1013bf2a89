package membership

import (
	"net/http"

	"github.com/techmajster/saas-leave-system/internal/middleware"
	"github.com/techmajster/saas-leave-system/internal/shared/apperror"
	"github.com/techmajster/saas-leave-system/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("membership.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("membership.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("membership request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.Error(err),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// Me works for users that have not joined an organization yet.
func (h *Handler) Me(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)

	resp, err := h.service.GetProfile(c.Request.Context(), identity.UserID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Scope(c *gin.Context) {
	ctx := c.Request.Context()
	actor, _ := middleware.CurrentActor(c)

	scope, err := h.service.ResolveScope(ctx, actor.UserID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	ids, err := h.service.ExpandScope(ctx, scope)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, ScopeResponse{ScopeView: scope.View(), MemberCount: len(ids)}, nil)
}

func (h *Handler) Members(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)

	resp, err := h.service.ListMembers(c.Request.Context(), actor)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
