package handler

import (
	"net/http"
	"strconv"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type TaxConfigHandler struct {
	configService service.TaxConfigService
}

func NewTaxConfigHandler(configService service.TaxConfigService) *TaxConfigHandler {
	return &TaxConfigHandler{configService: configService}
}

func (h *TaxConfigHandler) RegisterRoutes(router *gin.RouterGroup) {
	configs := router.Group("/api/tax-configurations", middleware.RequireRole(model.RoleAdmin, model.RoleTaxOfficer))
	{
		configs.POST("", h.CreateConfig)
		configs.GET("", h.ListConfigs)
		configs.PUT("/:id", h.UpdateConfig)
		configs.DELETE("/:id", h.DeleteConfig)
		configs.POST("/seed/:year", h.SeedDefaults)
	}
}

// CreateConfig adds one law parameter row for a tax year
func (h *TaxConfigHandler) CreateConfig(c *gin.Context) {
	var req service.CreateTaxConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	cfg, err := h.configService.CreateConfig(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, cfg))
}

func (h *TaxConfigHandler) ListConfigs(c *gin.Context) {
	year := pagination.Year(c)
	if year == 0 {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "tax_year query parameter is required"))
		return
	}

	cfgs, err := h.configService.ListConfigs(c.Request.Context(), year)
	if err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, cfgs))
}

func (h *TaxConfigHandler) UpdateConfig(c *gin.Context) {
	var req service.UpdateTaxConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	cfg, err := h.configService.UpdateConfig(c.Request.Context(), middleware.UserID(c), c.Param("id"), req)
	if err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, cfg))
}

func (h *TaxConfigHandler) DeleteConfig(c *gin.Context) {
	if err := h.configService.DeleteConfig(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}

// SeedDefaults inserts the statutory parameter set for a year
func (h *TaxConfigHandler) SeedDefaults(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year <= 0 {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid year"))
		return
	}

	inserted, err := h.configService.SeedDefaults(c.Request.Context(), middleware.UserID(c), year)
	if err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"tax_year": year, "inserted": inserted}))
}
