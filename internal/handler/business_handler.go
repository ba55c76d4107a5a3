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

type BusinessHandler struct {
	businessService service.BusinessService
}

func NewBusinessHandler(businessService service.BusinessService) *BusinessHandler {
	return &BusinessHandler{businessService: businessService}
}

func (h *BusinessHandler) RegisterRoutes(router *gin.RouterGroup) {
	businesses := router.Group("/api/businesses")
	{
		businesses.POST("", middleware.RequireRole(model.RoleBusinessOwner, model.RoleAdmin), h.CreateBusiness)
		businesses.GET("", middleware.RequireOfficer(), h.ListBusinesses)
		businesses.GET("/mine", middleware.RequireAuth(), h.ListMine)
		businesses.GET("/:id", middleware.RequireAuth(), h.GetBusiness)
		businesses.PUT("/:id", middleware.RequireRole(model.RoleBusinessOwner, model.RoleAdmin), h.UpdateBusiness)
		businesses.DELETE("/:id", middleware.RequireRole(model.RoleAdmin), h.DeleteBusiness)
	}
}

// CreateBusiness registers a business under the authenticated owner
func (h *BusinessHandler) CreateBusiness(c *gin.Context) {
	var req service.CreateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	business, err := h.businessService.CreateBusiness(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, business))
}

func (h *BusinessHandler) ListBusinesses(c *gin.Context) {
	p := pagination.Parse(c)
	businesses, total, err := h.businessService.ListBusinesses(c.Request.Context(), p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, businesses, total, p.Page, p.Limit))
}

func (h *BusinessHandler) ListMine(c *gin.Context) {
	businesses, err := h.businessService.ListByOwner(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, businesses))
}

func (h *BusinessHandler) GetBusiness(c *gin.Context) {
	business, err := h.businessService.GetBusiness(c.Request.Context(), c.Param("id"))
	if err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, business))
}

func (h *BusinessHandler) UpdateBusiness(c *gin.Context) {
	var req service.UpdateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	business, err := h.businessService.UpdateBusiness(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, business))
}

func (h *BusinessHandler) DeleteBusiness(c *gin.Context) {
	if err := h.businessService.DeleteBusiness(c.Request.Context(), c.Param("id")); err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}
