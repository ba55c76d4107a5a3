package handler

import (
	"net/http"
	"strconv"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type ComplianceHandler struct {
	complianceService service.ComplianceService
}

func NewComplianceHandler(complianceService service.ComplianceService) *ComplianceHandler {
	return &ComplianceHandler{complianceService: complianceService}
}

func (h *ComplianceHandler) RegisterRoutes(router *gin.RouterGroup) {
	compliance := router.Group("/api/compliance")
	{
		compliance.POST("", middleware.RequireAuth(), h.CreateTask)
		compliance.GET("", middleware.RequireAuth(), h.ListTasks)
		compliance.GET("/upcoming", middleware.RequireAuth(), h.ListUpcoming)
		compliance.GET("/overdue", middleware.RequireAuth(), h.ListOverdue)
		compliance.GET("/:id", middleware.RequireAuth(), h.GetTask)
		compliance.PUT("/:id", middleware.RequireAuth(), h.UpdateTask)
		compliance.POST("/:id/complete", middleware.RequireAuth(), h.CompleteTask)
		compliance.DELETE("/:id", middleware.RequireAuth(), h.DeleteTask)
	}
}

// CreateTask records a new compliance obligation with a due date
func (h *ComplianceHandler) CreateTask(c *gin.Context) {
	var req service.CreateComplianceTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	task, err := h.complianceService.CreateTask(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, task))
}

func (h *ComplianceHandler) ListTasks(c *gin.Context) {
	tasks, err := h.complianceService.ListTasks(c.Request.Context(), middleware.UserID(c), c.Query("business_id"))
	if err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, tasks))
}

// ListUpcoming returns unfinished tasks due within the next N days (default 30)
func (h *ComplianceHandler) ListUpcoming(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	tasks, err := h.complianceService.ListUpcoming(c.Request.Context(), middleware.UserID(c), days)
	if err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, tasks))
}

func (h *ComplianceHandler) ListOverdue(c *gin.Context) {
	tasks, err := h.complianceService.ListOverdue(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, tasks))
}

func (h *ComplianceHandler) GetTask(c *gin.Context) {
	task, err := h.complianceService.GetTask(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, task))
}

func (h *ComplianceHandler) UpdateTask(c *gin.Context) {
	var req service.UpdateComplianceTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	task, err := h.complianceService.UpdateTask(c.Request.Context(), middleware.UserID(c), c.Param("id"), req)
	if err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, task))
}

// CompleteTask marks the task done and stamps the completion date
func (h *ComplianceHandler) CompleteTask(c *gin.Context) {
	task, err := h.complianceService.CompleteTask(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, task))
}

func (h *ComplianceHandler) DeleteTask(c *gin.Context) {
	if err := h.complianceService.DeleteTask(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}
