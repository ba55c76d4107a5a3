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
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateVATRecordRequest struct {
	BusinessID      string `json:"business_id" binding:"required"`
	Type            string `json:"type" binding:"required,oneof=INPUT OUTPUT"`
	BaseAmount      string `json:"base_amount" binding:"required"` // Decimal string
	IsZeroRated     bool   `json:"is_zero_rated"`
	TransactionDate string `json:"transaction_date" binding:"required"` // YYYY-MM-DD
	Description     string `json:"description"`
}

type VATRecordResponse struct {
	ID              string `json:"id"`
	BusinessID      string `json:"business_id"`
	Type            string `json:"type"`
	BaseAmount      string `json:"base_amount"`
	VATRate         string `json:"vat_rate"`
	VATAmount       string `json:"vat_amount"`
	TotalAmount     string `json:"total_amount"`
	IsZeroRated     bool   `json:"is_zero_rated"`
	TransactionDate string `json:"transaction_date"`
	Description     string `json:"description"`
	CreatedAt       string `json:"created_at"`
}

type VATSummaryResponse struct {
	BusinessID string `json:"business_id"`
	TaxYear    int    `json:"tax_year"`
	Quarter    int    `json:"quarter"`
	OutputVAT  string `json:"output_vat"`
	InputVAT   string `json:"input_vat"`
	NetVATDue  string `json:"net_vat_due"`
}

// --- Interface ---

type VATService interface {
	CreateRecord(ctx context.Context, userID string, req CreateVATRecordRequest) (VATRecordResponse, error)
	ListRecords(ctx context.Context, businessID string, taxYear, quarter int) ([]VATRecordResponse, error)
	QuarterlySummary(ctx context.Context, businessID string, taxYear, quarter int) (VATSummaryResponse, error)
	DeleteRecord(ctx context.Context, id string) error
}

type vatService struct {
	vatRepo       repository.VATRepository
	businessRepo  repository.BusinessRepository
	auditRepo     repository.AuditRepository
	txManager     repository.TransactionManager
	configService TaxConfigService
}

func NewVATService(
	vatRepo repository.VATRepository,
	businessRepo repository.BusinessRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	configService TaxConfigService,
) VATService {
	return &vatService{
		vatRepo:       vatRepo,
		businessRepo:  businessRepo,
		auditRepo:     auditRepo,
		txManager:     txManager,
		configService: configService,
	}
}

// --- Implementation ---

func (s *vatService) CreateRecord(ctx context.Context, userID string, req CreateVATRecordRequest) (VATRecordResponse, error) {
	businessID, err := uuid.Parse(req.BusinessID)
	if err != nil {
		return VATRecordResponse{}, fmt.Errorf("invalid business_id: %w", err)
	}
	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		return VATRecordResponse{}, apperr.NotFound("business")
	}
	if !business.VATRegistered {
		return VATRecordResponse{}, apperr.Conflict("business %s is not VAT registered", business.Name)
	}

	baseAmount, err := decimal.NewFromString(req.BaseAmount)
	if err != nil {
		return VATRecordResponse{}, fmt.Errorf("invalid base_amount: %w", err)
	}
	if baseAmount.LessThanOrEqual(decimal.Zero) {
		return VATRecordResponse{}, fmt.Errorf("base_amount must be greater than 0")
	}

	txDate, err := time.Parse("2006-01-02", req.TransactionDate)
	if err != nil {
		return VATRecordResponse{}, fmt.Errorf("invalid transaction_date: %w", err)
	}

	snap, err := s.configService.Snapshot(ctx, txDate.Year())
	if err != nil {
		return VATRecordResponse{}, err
	}

	vatRate := snap.VATStandardRate
	if req.IsZeroRated {
		vatRate = decimal.Zero
	}
	vatAmount := baseAmount.Mul(vatRate).Round(2)

	record := model.VATRecord{
		BusinessID:      businessID,
		Type:            req.Type,
		BaseAmount:      baseAmount,
		VATRate:         vatRate,
		VATAmount:       vatAmount,
		TotalAmount:     baseAmount.Add(vatAmount),
		IsZeroRated:     req.IsZeroRated,
		TransactionDate: txDate,
		Description:     req.Description,
	}

	var userUUID *uuid.UUID
	if parsed, parseErr := uuid.Parse(userID); parseErr == nil {
		userUUID = &parsed
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.vatRepo.Create(txCtx, &record); createErr != nil {
			return fmt.Errorf("failed to create VAT record: %w", createErr)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"type":        req.Type,
			"base_amount": req.BaseAmount,
			"vat_amount":  vatAmount.StringFixed(2),
		})
		audit := &model.AuditLog{
			UserID:     userUUID,
			Action:     model.ActionCreateVATRecord,
			EntityID:   record.ID.String(),
			EntityName: business.Name,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})
	if err != nil {
		return VATRecordResponse{}, err
	}

	return toVATRecordResponse(record), nil
}

func (s *vatService) ListRecords(ctx context.Context, businessID string, taxYear, quarter int) ([]VATRecordResponse, error) {
	business, err := uuid.Parse(businessID)
	if err != nil {
		return nil, fmt.Errorf("invalid business id: %w", err)
	}

	from, to := periodBounds(taxYear, quarter)
	records, err := s.vatRepo.ListByBusiness(ctx, business, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch VAT records: %w", err)
	}

	result := make([]VATRecordResponse, 0, len(records))
	for _, r := range records {
		result = append(result, toVATRecordResponse(r))
	}
	return result, nil
}

func (s *vatService) QuarterlySummary(ctx context.Context, businessID string, taxYear, quarter int) (VATSummaryResponse, error) {
	business, err := uuid.Parse(businessID)
	if err != nil {
		return VATSummaryResponse{}, fmt.Errorf("invalid business id: %w", err)
	}
	if quarter < 1 || quarter > 4 {
		return VATSummaryResponse{}, fmt.Errorf("quarter must be between 1 and 4")
	}

	from, to := periodBounds(taxYear, quarter)
	output, err := s.vatRepo.SumByType(ctx, business, model.VATOutput, from, to)
	if err != nil {
		return VATSummaryResponse{}, fmt.Errorf("failed to sum output VAT: %w", err)
	}
	input, err := s.vatRepo.SumByType(ctx, business, model.VATInput, from, to)
	if err != nil {
		return VATSummaryResponse{}, fmt.Errorf("failed to sum input VAT: %w", err)
	}

	return VATSummaryResponse{
		BusinessID: businessID,
		TaxYear:    taxYear,
		Quarter:    quarter,
		OutputVAT:  output.StringFixed(2),
		InputVAT:   input.StringFixed(2),
		NetVATDue:  output.Sub(input).StringFixed(2),
	}, nil
}

func (s *vatService) DeleteRecord(ctx context.Context, id string) error {
	recordID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid VAT record id: %w", err)
	}
	if _, err := s.vatRepo.GetByID(ctx, recordID); err != nil {
		return apperr.NotFound("VAT record")
	}
	return s.vatRepo.Delete(ctx, recordID)
}

// --- Helpers ---

// periodBounds returns [from, to) for a year or one of its quarters.
// quarter 0 means the whole year.
func periodBounds(taxYear, quarter int) (time.Time, time.Time) {
	if taxYear == 0 {
		return time.Time{}, time.Time{}
	}
	if quarter >= 1 && quarter <= 4 {
		from := time.Date(taxYear, time.Month((quarter-1)*3+1), 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(0, 3, 0)
	}
	from := time.Date(taxYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(1, 0, 0)
}

func toVATRecordResponse(r model.VATRecord) VATRecordResponse {
	return VATRecordResponse{
		ID:              r.ID.String(),
		BusinessID:      r.BusinessID.String(),
		Type:            r.Type,
		BaseAmount:      r.BaseAmount.StringFixed(2),
		VATRate:         r.VATRate.String(),
		VATAmount:       r.VATAmount.StringFixed(2),
		TotalAmount:     r.TotalAmount.StringFixed(2),
		IsZeroRated:     r.IsZeroRated,
		TransactionDate: r.TransactionDate.Format("2006-01-02"),
		Description:     r.Description,
		CreatedAt:       r.CreatedAt.Format(time.RFC3339),
	}
}
