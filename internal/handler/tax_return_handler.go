package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type TaxReturnHandler struct {
	returnService service.TaxReturnService
}

func NewTaxReturnHandler(returnService service.TaxReturnService) *TaxReturnHandler {
	return &TaxReturnHandler{returnService: returnService}
}

func (h *TaxReturnHandler) RegisterRoutes(router *gin.RouterGroup) {
	returns := router.Group("/api/tax-returns")
	{
		returns.POST("/generate", middleware.RequireAuth(), h.Generate)
		returns.GET("", middleware.RequireAuth(), h.ListReturns)
		returns.GET("/all", middleware.RequireOfficer(), h.ListAllReturns)
		returns.GET("/:id", middleware.RequireAuth(), h.GetReturn)
		returns.PUT("/:id", middleware.RequireAuth(), h.UpdateReturn)
		returns.POST("/:id/submit", middleware.RequireAuth(), h.SubmitReturn)
		returns.DELETE("/:id", middleware.RequireAuth(), h.DeleteReturn)
	}
}

// Generate assembles (or refreshes) the caller's draft return for a year
func (h *TaxReturnHandler) Generate(c *gin.Context) {
	var req service.GenerateReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	ret, err := h.returnService.Generate(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, ret))
}

func (h *TaxReturnHandler) ListReturns(c *gin.Context) {
	rets, err := h.returnService.ListReturns(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, rets))
}

func (h *TaxReturnHandler) ListAllReturns(c *gin.Context) {
	p := pagination.Parse(c)
	rets, total, err := h.returnService.ListAllReturns(c.Request.Context(), c.Query("status"), p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, rets, total, p.Page, p.Limit))
}

func (h *TaxReturnHandler) GetReturn(c *gin.Context) {
	ret, err := h.returnService.GetReturn(c.Request.Context(), c.Param("id"))
	if err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, ret))
}

func (h *TaxReturnHandler) UpdateReturn(c *gin.Context) {
	var req service.UpdateReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	ret, err := h.returnService.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), req)
	if err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, ret))
}

// SubmitReturn files the return and assigns its FIRS reference
func (h *TaxReturnHandler) SubmitReturn(c *gin.Context) {
	ret, err := h.returnService.Submit(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, ret))
}

func (h *TaxReturnHandler) DeleteReturn(c *gin.Context) {
	if err := h.returnService.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}
