package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type TaxHandler struct {
	taxService service.TaxService
}

func NewTaxHandler(taxService service.TaxService) *TaxHandler {
	return &TaxHandler{taxService: taxService}
}

func (h *TaxHandler) RegisterRoutes(router *gin.RouterGroup) {
	tax := router.Group("/api/tax", middleware.RequireAuth())
	{
		tax.POST("/pit", h.ComputePIT)
		tax.POST("/cit", h.ComputeCIT)
		tax.POST("/cgt", h.ComputeCGT)
		tax.POST("/presumptive", h.ComputePresumptive)
		tax.POST("/vat", h.ComputeVAT)
		tax.GET("/history", h.History)
	}
}

// ComputePIT assesses personal income tax with reliefs
func (h *TaxHandler) ComputePIT(c *gin.Context) {
	var req service.ComputePITRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.taxService.ComputePIT(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// ComputeCIT assesses companies income tax including exemptions and the levy
func (h *TaxHandler) ComputeCIT(c *gin.Context) {
	var req service.ComputeCITRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.taxService.ComputeCIT(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// ComputeCGT assesses capital gains tax with disposal exemptions
func (h *TaxHandler) ComputeCGT(c *gin.Context) {
	var req service.ComputeCGTRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.taxService.ComputeCGT(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// ComputePresumptive assesses informal-sector presumptive tax
func (h *TaxHandler) ComputePresumptive(c *gin.Context) {
	var req service.ComputePresumptiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.taxService.ComputePresumptive(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// ComputeVAT computes VAT for a single transaction amount
func (h *TaxHandler) ComputeVAT(c *gin.Context) {
	var req service.ComputeVATRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.taxService.ComputeVAT(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// History lists the caller's persisted calculations
func (h *TaxHandler) History(c *gin.Context) {
	calcs, err := h.taxService.History(c.Request.Context(), middleware.UserID(c), c.Query("tax_type"), pagination.Year(c))
	if err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, calcs))
}
