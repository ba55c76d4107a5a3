package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type IncomeHandler struct {
	incomeService service.IncomeService
}

func NewIncomeHandler(incomeService service.IncomeService) *IncomeHandler {
	return &IncomeHandler{incomeService: incomeService}
}

func (h *IncomeHandler) RegisterRoutes(router *gin.RouterGroup) {
	income := router.Group("/api/income", middleware.RequireAuth())
	{
		income.POST("", h.CreateIncome)
		income.GET("", h.ListIncome)
		income.GET("/summary", h.YearSummary)
		income.DELETE("/:id", h.DeleteIncome)
	}
}

// CreateIncome records a single income entry for the authenticated user
func (h *IncomeHandler) CreateIncome(c *gin.Context) {
	var req service.CreateIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	record, err := h.incomeService.CreateIncome(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, record))
}

func (h *IncomeHandler) ListIncome(c *gin.Context) {
	records, err := h.incomeService.ListIncome(c.Request.Context(), middleware.UserID(c), pagination.Year(c))
	if err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, records))
}

// YearSummary aggregates the year's income by source
func (h *IncomeHandler) YearSummary(c *gin.Context) {
	year := pagination.Year(c)
	if year == 0 {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "tax_year query parameter is required"))
		return
	}

	summary, err := h.incomeService.YearSummary(c.Request.Context(), middleware.UserID(c), year)
	if err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}

func (h *IncomeHandler) DeleteIncome(c *gin.Context) {
	if err := h.incomeService.DeleteIncome(c.Request.Context(), c.Param("id")); err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}
