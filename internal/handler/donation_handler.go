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

type DonationHandler struct {
	donationService service.DonationService
}

func NewDonationHandler(donationService service.DonationService) *DonationHandler {
	return &DonationHandler{donationService: donationService}
}

func (h *DonationHandler) RegisterRoutes(router *gin.RouterGroup) {
	donations := router.Group("/api/donations")
	{
		donations.POST("", middleware.RequireRole(model.RoleBusinessOwner, model.RoleAdmin), h.CreateDonation)
		donations.GET("/businesses/:businessId", middleware.RequireAuth(), h.ListDonations)
		donations.PUT("/:id/verify", middleware.RequireOfficer(), h.VerifyRecipient)
		donations.POST("/:id/claim", middleware.RequireRole(model.RoleBusinessOwner, model.RoleAdmin), h.ClaimDeduction)
		donations.DELETE("/:id", middleware.RequireRole(model.RoleBusinessOwner, model.RoleAdmin), h.DeleteDonation)
	}
}

type verifyRecipientRequest struct {
	Verified bool `json:"verified"`
}

// CreateDonation records a corporate donation pending recipient verification
func (h *DonationHandler) CreateDonation(c *gin.Context) {
	var req service.CreateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	donation, err := h.donationService.CreateDonation(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, donation))
}

func (h *DonationHandler) ListDonations(c *gin.Context) {
	donations, err := h.donationService.ListDonations(c.Request.Context(), c.Param("businessId"), pagination.Year(c))
	if err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, donations))
}

// VerifyRecipient flags the recipient as a verified deductible organization
func (h *DonationHandler) VerifyRecipient(c *gin.Context) {
	var req verifyRecipientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	donation, err := h.donationService.VerifyRecipient(c.Request.Context(), c.Param("id"), req.Verified)
	if err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, donation))
}

// ClaimDeduction marks the statutory deductible share as claimed
func (h *DonationHandler) ClaimDeduction(c *gin.Context) {
	donation, err := h.donationService.ClaimDeduction(c.Request.Context(), c.Param("id"))
	if err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, donation))
}

func (h *DonationHandler) DeleteDonation(c *gin.Context) {
	if err := h.donationService.DeleteDonation(c.Request.Context(), c.Param("id")); err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}
