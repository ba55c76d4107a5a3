package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CapitalHandler struct {
	capitalService service.CapitalService
}

func NewCapitalHandler(capitalService service.CapitalService) *CapitalHandler {
	return &CapitalHandler{capitalService: capitalService}
}

func (h *CapitalHandler) RegisterRoutes(router *gin.RouterGroup) {
	capital := router.Group("/api/capital", middleware.RequireRole(model.RoleBusinessOwner, model.RoleTaxOfficer, model.RoleAdmin))
	{
		capital.POST("/expenditures", h.RecordExpenditure)
		capital.GET("/expenditures/:id", h.GetExpenditure)
		capital.PUT("/expenditures/:id", h.UpdateExpenditure)
		capital.DELETE("/expenditures/:id", h.DeleteExpenditure)
		capital.GET("/businesses/:businessId/expenditures", h.ListExpenditures)
		capital.GET("/businesses/:businessId/credits", h.AvailableCredits)
		capital.POST("/businesses/:businessId/allocate", h.Allocate)
	}
}

type allocateRequest struct {
	TaxYear      int    `json:"tax_year" binding:"required"`
	TaxLiability string `json:"tax_liability" binding:"required"` // Decimal string
}

// RecordExpenditure registers a qualifying capital investment and its credit
func (h *CapitalHandler) RecordExpenditure(c *gin.Context) {
	var req service.RecordExpenditureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	exp, err := h.capitalService.RecordExpenditure(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, exp))
}

func (h *CapitalHandler) GetExpenditure(c *gin.Context) {
	exp, err := h.capitalService.GetExpenditure(c.Request.Context(), c.Param("id"))
	if err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, exp))
}

func (h *CapitalHandler) UpdateExpenditure(c *gin.Context) {
	var req service.UpdateExpenditureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	exp, err := h.capitalService.UpdateExpenditure(c.Request.Context(), middleware.UserID(c), c.Param("id"), req)
	if err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, exp))
}

func (h *CapitalHandler) DeleteExpenditure(c *gin.Context) {
	if err := h.capitalService.DeleteExpenditure(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}

func (h *CapitalHandler) ListExpenditures(c *gin.Context) {
	exps, err := h.capitalService.ListExpenditures(c.Request.Context(), c.Param("businessId"), pagination.Year(c))
	if err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, exps))
}

// AvailableCredits lists the unexpired, unused credits for a business
func (h *CapitalHandler) AvailableCredits(c *gin.Context) {
	year := pagination.Year(c)
	if year == 0 {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "tax_year query parameter is required"))
		return
	}

	credits, err := h.capitalService.AvailableCredits(c.Request.Context(), c.Param("businessId"), year)
	if err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, credits))
}

// Allocate applies available credits against a liability, oldest first
func (h *CapitalHandler) Allocate(c *gin.Context) {
	var req allocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	liability, err := decimal.NewFromString(req.TaxLiability)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid tax_liability: "+err.Error()))
		return
	}

	allocation, err := h.capitalService.Allocate(c.Request.Context(), middleware.UserID(c), c.Param("businessId"), req.TaxYear, liability)
	if err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, allocation))
}
