package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperr"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateDocumentRequest struct {
	DocumentType string `json:"document_type" binding:"required"`
	FileName     string `json:"file_name" binding:"required"`
	FileURL      string `json:"file_url" binding:"required"`
	TaxYear      int    `json:"tax_year" binding:"required"`
	BusinessID   string `json:"business_id"`
	Description  string `json:"description"`
}

type VerifyDocumentRequest struct {
	Status string `json:"status" binding:"required,oneof=verified rejected"`
	Reason string `json:"reason"`
}

type DocumentResponse struct {
	ID           string  `json:"id"`
	UserID       *string `json:"user_id"`
	BusinessID   *string `json:"business_id"`
	DocumentType string  `json:"document_type"`
	FileName     string  `json:"file_name"`
	FileURL      string  `json:"file_url"`
	TaxYear      int     `json:"tax_year"`
	Status       string  `json:"status"`
	Description  string  `json:"description"`
	CreatedAt    string  `json:"created_at"`
}

// --- Interface ---

type DocumentService interface {
	CreateDocument(ctx context.Context, userID string, req CreateDocumentRequest) (DocumentResponse, error)
	VerifyDocument(ctx context.Context, officerID, documentID string, req VerifyDocumentRequest) (DocumentResponse, error)
	ListDocuments(ctx context.Context, userID string, taxYear int) ([]DocumentResponse, error)
	DeleteDocument(ctx context.Context, id string) error
}

type documentService struct {
	documentRepo repository.DocumentRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
}

func NewDocumentService(
	documentRepo repository.DocumentRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) DocumentService {
	return &documentService{
		documentRepo: documentRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
	}
}

// --- Implementation ---

func validDocumentType(docType string) bool {
	switch docType {
	case model.DocRentReceipt, model.DocLeaseAgreement, model.DocPensionCertificate,
		model.DocHealthPolicy, model.DocCapexInvoice, model.DocDonationReceipt,
		model.DocSeveranceAgreement, model.DocTerminationLetter, model.DocNGOExemptionCert,
		model.DocCACRegistration, model.DocBankStatement, model.DocIncomeStatement,
		model.DocPayslip, model.DocTaxClearanceCert, model.DocAgriculturalRegistry,
		model.DocOther:
		return true
	}
	return false
}

func (s *documentService) CreateDocument(ctx context.Context, userID string, req CreateDocumentRequest) (DocumentResponse, error) {
	user, err := uuid.Parse(userID)
	if err != nil {
		return DocumentResponse{}, fmt.Errorf("invalid user id: %w", err)
	}
	if !validDocumentType(req.DocumentType) {
		return DocumentResponse{}, fmt.Errorf("invalid document_type: %s", req.DocumentType)
	}

	doc := model.Document{
		UserID:       &user,
		DocumentType: req.DocumentType,
		FileName:     req.FileName,
		FileURL:      req.FileURL,
		TaxYear:      req.TaxYear,
		Status:       model.DocStatusPending,
		Description:  req.Description,
	}

	if req.BusinessID != "" {
		parsed, parseErr := uuid.Parse(req.BusinessID)
		if parseErr != nil {
			return DocumentResponse{}, fmt.Errorf("invalid business_id: %w", parseErr)
		}
		doc.BusinessID = &parsed
	}

	if err := s.documentRepo.Create(ctx, &doc); err != nil {
		return DocumentResponse{}, fmt.Errorf("failed to create document: %w", err)
	}

	return toDocumentResponse(doc), nil
}

func (s *documentService) VerifyDocument(ctx context.Context, officerID, documentID string, req VerifyDocumentRequest) (DocumentResponse, error) {
	docID, err := uuid.Parse(documentID)
	if err != nil {
		return DocumentResponse{}, fmt.Errorf("invalid document id: %w", err)
	}

	doc, err := s.documentRepo.GetByID(ctx, docID)
	if err != nil {
		return DocumentResponse{}, apperr.NotFound("document")
	}

	doc.Status = req.Status

	var officerUUID *uuid.UUID
	if parsed, parseErr := uuid.Parse(officerID); parseErr == nil {
		officerUUID = &parsed
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if updateErr := s.documentRepo.Update(txCtx, doc); updateErr != nil {
			return fmt.Errorf("failed to update document: %w", updateErr)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"document_type": doc.DocumentType,
			"status":        req.Status,
			"reason":        req.Reason,
		})
		audit := &model.AuditLog{
			UserID:     officerUUID,
			Action:     model.ActionVerifyDocument,
			EntityID:   doc.ID.String(),
			EntityName: doc.FileName,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})
	if err != nil {
		return DocumentResponse{}, err
	}

	return toDocumentResponse(*doc), nil
}

func (s *documentService) ListDocuments(ctx context.Context, userID string, taxYear int) ([]DocumentResponse, error) {
	user, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}
	docs, err := s.documentRepo.ListByUser(ctx, user, taxYear)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch documents: %w", err)
	}

	result := make([]DocumentResponse, 0, len(docs))
	for _, d := range docs {
		result = append(result, toDocumentResponse(d))
	}
	return result, nil
}

func (s *documentService) DeleteDocument(ctx context.Context, id string) error {
	docID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid document id: %w", err)
	}
	if _, err := s.documentRepo.GetByID(ctx, docID); err != nil {
		return apperr.NotFound("document")
	}
	return s.documentRepo.Delete(ctx, docID)
}

// --- Helpers ---

func toDocumentResponse(d model.Document) DocumentResponse {
	resp := DocumentResponse{
		ID:           d.ID.String(),
		DocumentType: d.DocumentType,
		FileName:     d.FileName,
		FileURL:      d.FileURL,
		TaxYear:      d.TaxYear,
		Status:       d.Status,
		Description:  d.Description,
		CreatedAt:    d.CreatedAt.Format(time.RFC3339),
	}
	if d.UserID != nil {
		id := d.UserID.String()
		resp.UserID = &id
	}
	if d.BusinessID != nil {
		id := d.BusinessID.String()
		resp.BusinessID = &id
	}
	return resp
}
