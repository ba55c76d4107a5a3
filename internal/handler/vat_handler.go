package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type VATHandler struct {
	vatService service.VATService
}

func NewVATHandler(vatService service.VATService) *VATHandler {
	return &VATHandler{vatService: vatService}
}

func (h *VATHandler) RegisterRoutes(router *gin.RouterGroup) {
	vat := router.Group("/api/vat", middleware.RequireRole(model.RoleBusinessOwner, model.RoleTaxOfficer, model.RoleAdmin))
	{
		vat.POST("/records", h.CreateRecord)
		vat.GET("/businesses/:businessId/records", h.ListRecords)
		vat.GET("/businesses/:businessId/summary", h.QuarterlySummary)
		vat.DELETE("/records/:id", h.DeleteRecord)
	}
}

// CreateRecord stores one VAT-bearing transaction with the computed VAT
func (h *VATHandler) CreateRecord(c *gin.Context) {
	var req service.CreateVATRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	record, err := h.vatService.CreateRecord(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, record))
}

func (h *VATHandler) ListRecords(c *gin.Context) {
	records, err := h.vatService.ListRecords(c.Request.Context(), c.Param("businessId"), pagination.Year(c), pagination.Quarter(c))
	if err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, records))
}

// QuarterlySummary nets output VAT against input VAT for the quarter
func (h *VATHandler) QuarterlySummary(c *gin.Context) {
	year := pagination.Year(c)
	quarter := pagination.Quarter(c)
	if year == 0 || quarter == 0 {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "tax_year and quarter query parameters are required"))
		return
	}

	summary, err := h.vatService.QuarterlySummary(c.Request.Context(), c.Param("businessId"), year, quarter)
	if err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}

func (h *VATHandler) DeleteRecord(c *gin.Context) {
	if err := h.vatService.DeleteRecord(c.Request.Context(), c.Param("id")); err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}
