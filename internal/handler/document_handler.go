package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type DocumentHandler struct {
	documentService service.DocumentService
}

func NewDocumentHandler(documentService service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

func (h *DocumentHandler) RegisterRoutes(router *gin.RouterGroup) {
	documents := router.Group("/api/documents")
	{
		documents.POST("", middleware.RequireAuth(), h.CreateDocument)
		documents.GET("", middleware.RequireAuth(), h.ListDocuments)
		documents.PUT("/:id/verify", middleware.RequireOfficer(), h.VerifyDocument)
		documents.DELETE("/:id", middleware.RequireAuth(), h.DeleteDocument)
	}
}

// CreateDocument stores metadata for an externally hosted evidence file
func (h *DocumentHandler) CreateDocument(c *gin.Context) {
	var req service.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	doc, err := h.documentService.CreateDocument(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, doc))
}

func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	docs, err := h.documentService.ListDocuments(c.Request.Context(), middleware.UserID(c), pagination.Year(c))
	if err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, docs))
}

// VerifyDocument lets an officer accept or reject an uploaded document
func (h *DocumentHandler) VerifyDocument(c *gin.Context) {
	var req service.VerifyDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	doc, err := h.documentService.VerifyDocument(c.Request.Context(), middleware.UserID(c), c.Param("id"), req)
	if err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, doc))
}

func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	if err := h.documentService.DeleteDocument(c.Request.Context(), c.Param("id")); err != nil {
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}
