package service

import (
	"context"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateIncomeRequest struct {
	Source      string `json:"source" binding:"required"`
	Amount      string `json:"amount" binding:"required"` // Decimal string
	TaxYear     int    `json:"tax_year" binding:"required"`
	IncomeDate  string `json:"income_date" binding:"required"` // YYYY-MM-DD
	BusinessID  string `json:"business_id"`
	Description string `json:"description"`
}

type IncomeResponse struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	BusinessID  *string `json:"business_id"`
	Source      string  `json:"source"`
	Amount      string  `json:"amount"`
	TaxYear     int     `json:"tax_year"`
	IncomeDate  string  `json:"income_date"`
	Description string  `json:"description"`
	CreatedAt   string  `json:"created_at"`
}

type IncomeSummaryResponse struct {
	TaxYear     int               `json:"tax_year"`
	TotalIncome string            `json:"total_income"`
	BySource    map[string]string `json:"by_source"`
	Entries     int               `json:"entries"`
}

// --- Interface ---

type IncomeService interface {
	CreateIncome(ctx context.Context, userID string, req CreateIncomeRequest) (IncomeResponse, error)
	ListIncome(ctx context.Context, userID string, taxYear int) ([]IncomeResponse, error)
	YearSummary(ctx context.Context, userID string, taxYear int) (IncomeSummaryResponse, error)
	DeleteIncome(ctx context.Context, id string) error
}

type incomeService struct {
	incomeRepo repository.IncomeRepository
}

func NewIncomeService(incomeRepo repository.IncomeRepository) IncomeService {
	return &incomeService{incomeRepo: incomeRepo}
}

// --- Implementation ---

func validIncomeSource(source string) bool {
	switch source {
	case model.IncomeSalary, model.IncomeFreelance, model.IncomeBusiness,
		model.IncomeInvestment, model.IncomeRental, model.IncomePension,
		model.IncomePrize, model.IncomeGrant, model.IncomeDigitalAsset,
		model.IncomeOther:
		return true
	}
	return false
}

func (s *incomeService) CreateIncome(ctx context.Context, userID string, req CreateIncomeRequest) (IncomeResponse, error) {
	user, err := uuid.Parse(userID)
	if err != nil {
		return IncomeResponse{}, fmt.Errorf("invalid user id: %w", err)
	}
	if !validIncomeSource(req.Source) {
		return IncomeResponse{}, fmt.Errorf("invalid income source: %s", req.Source)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return IncomeResponse{}, fmt.Errorf("invalid amount: %w", err)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return IncomeResponse{}, fmt.Errorf("amount must be greater than 0")
	}

	incomeDate, err := time.Parse("2006-01-02", req.IncomeDate)
	if err != nil {
		return IncomeResponse{}, fmt.Errorf("invalid income_date: %w", err)
	}

	record := model.IncomeRecord{
		UserID:      user,
		Source:      req.Source,
		Amount:      amount,
		TaxYear:     req.TaxYear,
		IncomeDate:  incomeDate,
		Description: req.Description,
	}

	if req.BusinessID != "" {
		parsed, parseErr := uuid.Parse(req.BusinessID)
		if parseErr != nil {
			return IncomeResponse{}, fmt.Errorf("invalid business_id: %w", parseErr)
		}
		record.BusinessID = &parsed
	}

	if err := s.incomeRepo.Create(ctx, &record); err != nil {
		return IncomeResponse{}, fmt.Errorf("failed to create income record: %w", err)
	}

	return toIncomeResponse(record), nil
}

func (s *incomeService) ListIncome(ctx context.Context, userID string, taxYear int) ([]IncomeResponse, error) {
	user, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}
	records, err := s.incomeRepo.ListByUser(ctx, user, taxYear)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch income records: %w", err)
	}

	result := make([]IncomeResponse, 0, len(records))
	for _, r := range records {
		result = append(result, toIncomeResponse(r))
	}
	return result, nil
}

func (s *incomeService) YearSummary(ctx context.Context, userID string, taxYear int) (IncomeSummaryResponse, error) {
	user, err := uuid.Parse(userID)
	if err != nil {
		return IncomeSummaryResponse{}, fmt.Errorf("invalid user id: %w", err)
	}

	records, err := s.incomeRepo.ListByUser(ctx, user, taxYear)
	if err != nil {
		return IncomeSummaryResponse{}, fmt.Errorf("failed to fetch income records: %w", err)
	}

	total := decimal.Zero
	bySource := make(map[string]decimal.Decimal)
	for _, r := range records {
		total = total.Add(r.Amount)
		bySource[r.Source] = bySource[r.Source].Add(r.Amount)
	}

	summary := IncomeSummaryResponse{
		TaxYear:     taxYear,
		TotalIncome: total.StringFixed(2),
		BySource:    make(map[string]string, len(bySource)),
		Entries:     len(records),
	}
	for source, amount := range bySource {
		summary.BySource[source] = amount.StringFixed(2)
	}
	return summary, nil
}

func (s *incomeService) DeleteIncome(ctx context.Context, id string) error {
	recordID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid income id: %w", err)
	}
	if _, err := s.incomeRepo.GetByID(ctx, recordID); err != nil {
		return apperr.NotFound("income record")
	}
	return s.incomeRepo.Delete(ctx, recordID)
}

// --- Helpers ---

func toIncomeResponse(r model.IncomeRecord) IncomeResponse {
	resp := IncomeResponse{
		ID:          r.ID.String(),
		UserID:      r.UserID.String(),
		Source:      r.Source,
		Amount:      r.Amount.StringFixed(2),
		TaxYear:     r.TaxYear,
		IncomeDate:  r.IncomeDate.Format("2006-01-02"),
		Description: r.Description,
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
	}
	if r.BusinessID != nil {
		id := r.BusinessID.String()
		resp.BusinessID = &id
	}
	return resp
}
