package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	audit := router.Group("/api/audit-logs", middleware.RequireOfficer())
	{
		audit.GET("", h.ListLogs)
		audit.GET("/users/:userId", h.ListUserLogs)
	}
}

func (h *AuditHandler) ListLogs(c *gin.Context) {
	p := pagination.Parse(c)
	logs, total, err := h.auditService.ListLogs(c.Request.Context(), c.Query("action"), p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, logs, total, p.Page, p.Limit))
}

func (h *AuditHandler) ListUserLogs(c *gin.Context) {
	p := pagination.Parse(c)
	logs, total, err := h.auditService.ListUserLogs(c.Request.Context(), c.Param("userId"), p.Page, p.Limit)
	if err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, logs, total, p.Page, p.Limit))
}
