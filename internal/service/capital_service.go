package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/taxengine"
	"backend/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type RecordExpenditureRequest struct {
	BusinessID      string `json:"business_id" binding:"required"`
	Amount          string `json:"amount" binding:"required"` // Decimal string
	ExpenditureDate string `json:"expenditure_date" binding:"required"`
	TaxYear         int    `json:"tax_year" binding:"required"`
	Description     string `json:"description"`
	InvoiceURL      string `json:"invoice_url"`
	SupplierName    string `json:"supplier_name"`
	SupplierTIN     string `json:"supplier_tin"`
}

type UpdateExpenditureRequest struct {
	Amount       *string `json:"amount"`
	Description  string  `json:"description"`
	InvoiceURL   string  `json:"invoice_url"`
	SupplierName string  `json:"supplier_name"`
	SupplierTIN  string  `json:"supplier_tin"`
}

type ExpenditureResponse struct {
	ID              string `json:"id"`
	BusinessID      string `json:"business_id"`
	Amount          string `json:"amount"`
	ExpenditureDate string `json:"expenditure_date"`
	TaxYear         int    `json:"tax_year"`
	CreditEarned    string `json:"credit_earned"`
	CreditClaimed   string `json:"credit_claimed"`
	CreditRemaining string `json:"credit_remaining"`
	FullyUtilized   bool   `json:"fully_utilized"`
	ExpiryYear      int    `json:"expiry_year"`
	Description     string `json:"description"`
	CreatedAt       string `json:"created_at"`
}

type CreditUsage struct {
	CarryForwardID string `json:"carry_forward_id"`
	OriginYear     int    `json:"origin_year"`
	Applied        string `json:"applied"`
	RemainingAfter string `json:"remaining_after"`
}

type AllocationResponse struct {
	BusinessID     string        `json:"business_id"`
	TaxYear        int           `json:"tax_year"`
	TaxLiability   string        `json:"tax_liability"`
	CreditsApplied string        `json:"credits_applied"`
	RemainingTax   string        `json:"remaining_tax"`
	CreditsUsed    []CreditUsage `json:"credits_used"`
}

type AvailableCreditsResponse struct {
	BusinessID     string        `json:"business_id"`
	TaxYear        int           `json:"tax_year"`
	TotalAvailable string        `json:"total_available"`
	Entries        []CreditEntry `json:"entries"`
}

type CreditEntry struct {
	CarryForwardID string `json:"carry_forward_id"`
	OriginYear     int    `json:"origin_year"`
	Original       string `json:"original_amount"`
	Remaining      string `json:"remaining_amount"`
	ExpiryYear     int    `json:"expiry_year"`
}

// --- Interface ---

// CapitalService maintains the capital expenditure register and the
// multi-year tax credit carryforward ledger. Allocate is not internally
// synchronized: concurrent allocations for the same business must be
// serialized by the caller.
type CapitalService interface {
	RecordExpenditure(ctx context.Context, userID string, req RecordExpenditureRequest) (ExpenditureResponse, error)
	UpdateExpenditure(ctx context.Context, userID, id string, req UpdateExpenditureRequest) (ExpenditureResponse, error)
	DeleteExpenditure(ctx context.Context, userID, id string) error
	GetExpenditure(ctx context.Context, id string) (ExpenditureResponse, error)
	ListExpenditures(ctx context.Context, businessID string, taxYear int) ([]ExpenditureResponse, error)
	Allocate(ctx context.Context, userID, businessID string, taxYear int, taxLiability decimal.Decimal) (AllocationResponse, error)
	AvailableCredits(ctx context.Context, businessID string, taxYear int) (AvailableCreditsResponse, error)
}

type capitalService struct {
	capitalRepo  repository.CapitalRepository
	businessRepo repository.BusinessRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
	snapshot     func(ctx context.Context, taxYear int) (taxengine.Snapshot, error)
}

func NewCapitalService(
	capitalRepo repository.CapitalRepository,
	businessRepo repository.BusinessRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	snapshot func(ctx context.Context, taxYear int) (taxengine.Snapshot, error),
) CapitalService {
	return &capitalService{
		capitalRepo:  capitalRepo,
		businessRepo: businessRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
		snapshot:     snapshot,
	}
}

// --- Implementation ---

func (s *capitalService) RecordExpenditure(ctx context.Context, userID string, req RecordExpenditureRequest) (ExpenditureResponse, error) {
	businessID, err := uuid.Parse(req.BusinessID)
	if err != nil {
		return ExpenditureResponse{}, fmt.Errorf("invalid business_id: %w", err)
	}
	if _, err := s.businessRepo.GetByID(ctx, businessID); err != nil {
		return ExpenditureResponse{}, apperr.NotFound("business")
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return ExpenditureResponse{}, fmt.Errorf("invalid amount: %w", err)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return ExpenditureResponse{}, fmt.Errorf("amount must be greater than 0")
	}

	expDate, err := time.Parse("2006-01-02", req.ExpenditureDate)
	if err != nil {
		return ExpenditureResponse{}, fmt.Errorf("invalid expenditure_date: %w", err)
	}

	snap, err := s.snapshot(ctx, req.TaxYear)
	if err != nil {
		return ExpenditureResponse{}, fmt.Errorf("failed to load tax configuration: %w", err)
	}

	credit := amount.Mul(snap.CapitalCreditRate).Round(2)
	expiryYear := req.TaxYear + snap.CarryforwardYears

	exp := model.CapitalExpenditure{
		BusinessID:      businessID,
		Amount:          amount,
		ExpenditureDate: expDate,
		Description:     req.Description,
		InvoiceURL:      req.InvoiceURL,
		SupplierName:    req.SupplierName,
		SupplierTIN:     req.SupplierTIN,
		TaxYear:         req.TaxYear,
		CreditClaimed:   decimal.Zero,
		CreditRemaining: credit,
		ExpiryYear:      expiryYear,
	}

	var userUUID *uuid.UUID
	if parsed, parseErr := uuid.Parse(userID); parseErr == nil {
		userUUID = &parsed
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.capitalRepo.CreateExpenditure(txCtx, &exp); createErr != nil {
			return fmt.Errorf("failed to create expenditure: %w", createErr)
		}

		cf := &model.TaxCreditCarryForward{
			BusinessID:           businessID,
			CapitalExpenditureID: &exp.ID,
			OriginYear:           req.TaxYear,
			OriginalAmount:       credit,
			RemainingAmount:      credit,
			ExpiryYear:           expiryYear,
		}
		if createErr := s.capitalRepo.CreateCarryForward(txCtx, cf); createErr != nil {
			return fmt.Errorf("failed to create carryforward entry: %w", createErr)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"amount":        req.Amount,
			"tax_year":      req.TaxYear,
			"credit_earned": credit.StringFixed(2),
			"expiry_year":   expiryYear,
		})
		audit := &model.AuditLog{
			UserID:     userUUID,
			Action:     model.ActionRecordExpenditure,
			EntityID:   exp.ID.String(),
			EntityName: req.Description,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})
	if err != nil {
		return ExpenditureResponse{}, err
	}

	return toExpenditureResponse(exp, snap.CapitalCreditRate), nil
}

func (s *capitalService) UpdateExpenditure(ctx context.Context, userID, id string, req UpdateExpenditureRequest) (ExpenditureResponse, error) {
	expID, err := uuid.Parse(id)
	if err != nil {
		return ExpenditureResponse{}, fmt.Errorf("invalid expenditure id: %w", err)
	}
	exp, err := s.capitalRepo.GetExpenditureByID(ctx, expID)
	if err != nil {
		return ExpenditureResponse{}, apperr.NotFound("capital expenditure")
	}

	if exp.CreditClaimed.GreaterThan(decimal.Zero) && req.Amount != nil {
		return ExpenditureResponse{}, apperr.Conflict("cannot change amount: credit already claimed against this expenditure")
	}

	snap, err := s.snapshot(ctx, exp.TaxYear)
	if err != nil {
		return ExpenditureResponse{}, fmt.Errorf("failed to load tax configuration: %w", err)
	}

	recompute := false
	if req.Amount != nil {
		amount, parseErr := decimal.NewFromString(*req.Amount)
		if parseErr != nil {
			return ExpenditureResponse{}, fmt.Errorf("invalid amount: %w", parseErr)
		}
		if amount.LessThanOrEqual(decimal.Zero) {
			return ExpenditureResponse{}, fmt.Errorf("amount must be greater than 0")
		}
		exp.Amount = amount
		exp.CreditRemaining = amount.Mul(snap.CapitalCreditRate).Round(2)
		recompute = true
	}
	if req.Description != "" {
		exp.Description = req.Description
	}
	if req.InvoiceURL != "" {
		exp.InvoiceURL = req.InvoiceURL
	}
	if req.SupplierName != "" {
		exp.SupplierName = req.SupplierName
	}
	if req.SupplierTIN != "" {
		exp.SupplierTIN = req.SupplierTIN
	}

	var userUUID *uuid.UUID
	if parsed, parseErr := uuid.Parse(userID); parseErr == nil {
		userUUID = &parsed
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if updateErr := s.capitalRepo.UpdateExpenditure(txCtx, exp); updateErr != nil {
			return fmt.Errorf("failed to update expenditure: %w", updateErr)
		}

		if recompute {
			cf, cfErr := s.capitalRepo.GetCarryForwardByExpenditure(txCtx, exp.ID)
			if cfErr != nil {
				return fmt.Errorf("failed to load carryforward entry: %w", cfErr)
			}
			cf.OriginalAmount = exp.CreditRemaining
			cf.RemainingAmount = exp.CreditRemaining
			if updateErr := s.capitalRepo.UpdateCarryForward(txCtx, cf); updateErr != nil {
				return fmt.Errorf("failed to update carryforward entry: %w", updateErr)
			}
		}

		details, _ := json.Marshal(map[string]interface{}{
			"amount":      exp.Amount.StringFixed(2),
			"description": exp.Description,
		})
		audit := &model.AuditLog{
			UserID:     userUUID,
			Action:     model.ActionUpdateExpenditure,
			EntityID:   exp.ID.String(),
			EntityName: exp.Description,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})
	if err != nil {
		return ExpenditureResponse{}, err
	}

	return toExpenditureResponse(*exp, snap.CapitalCreditRate), nil
}

func (s *capitalService) DeleteExpenditure(ctx context.Context, userID, id string) error {
	expID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid expenditure id: %w", err)
	}
	exp, err := s.capitalRepo.GetExpenditureByID(ctx, expID)
	if err != nil {
		return apperr.NotFound("capital expenditure")
	}

	if exp.CreditClaimed.GreaterThan(decimal.Zero) {
		return apperr.Conflict("cannot delete expenditure: credit already claimed against it")
	}

	var userUUID *uuid.UUID
	if parsed, parseErr := uuid.Parse(userID); parseErr == nil {
		userUUID = &parsed
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		cf, cfErr := s.capitalRepo.GetCarryForwardByExpenditure(txCtx, exp.ID)
		if cfErr == nil {
			if deleteErr := s.capitalRepo.DeleteCarryForward(txCtx, cf.ID); deleteErr != nil {
				return fmt.Errorf("failed to delete carryforward entry: %w", deleteErr)
			}
		}
		if deleteErr := s.capitalRepo.DeleteExpenditure(txCtx, exp.ID); deleteErr != nil {
			return fmt.Errorf("failed to delete expenditure: %w", deleteErr)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"amount":   exp.Amount.StringFixed(2),
			"tax_year": exp.TaxYear,
		})
		audit := &model.AuditLog{
			UserID:     userUUID,
			Action:     model.ActionDeleteExpenditure,
			EntityID:   exp.ID.String(),
			EntityName: exp.Description,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})
}

func (s *capitalService) GetExpenditure(ctx context.Context, id string) (ExpenditureResponse, error) {
	expID, err := uuid.Parse(id)
	if err != nil {
		return ExpenditureResponse{}, fmt.Errorf("invalid expenditure id: %w", err)
	}
	exp, err := s.capitalRepo.GetExpenditureByID(ctx, expID)
	if err != nil {
		return ExpenditureResponse{}, apperr.NotFound("capital expenditure")
	}

	snap, err := s.snapshot(ctx, exp.TaxYear)
	if err != nil {
		return ExpenditureResponse{}, fmt.Errorf("failed to load tax configuration: %w", err)
	}
	return toExpenditureResponse(*exp, snap.CapitalCreditRate), nil
}

func (s *capitalService) ListExpenditures(ctx context.Context, businessID string, taxYear int) ([]ExpenditureResponse, error) {
	business, err := uuid.Parse(businessID)
	if err != nil {
		return nil, fmt.Errorf("invalid business id: %w", err)
	}
	exps, err := s.capitalRepo.ListExpendituresByBusiness(ctx, business, taxYear)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch expenditures: %w", err)
	}

	result := make([]ExpenditureResponse, 0, len(exps))
	for _, e := range exps {
		snap, snapErr := s.snapshot(ctx, e.TaxYear)
		if snapErr != nil {
			return nil, fmt.Errorf("failed to load tax configuration: %w", snapErr)
		}
		result = append(result, toExpenditureResponse(e, snap.CapitalCreditRate))
	}
	return result, nil
}

// Allocate applies available credits against a tax liability oldest origin
// year first. Expired entries are excluded at query time: an entry whose
// expiry year has passed relative to the allocation year stays in the
// ledger but contributes nothing.
func (s *capitalService) Allocate(ctx context.Context, userID, businessID string, taxYear int, taxLiability decimal.Decimal) (AllocationResponse, error) {
	business, err := uuid.Parse(businessID)
	if err != nil {
		return AllocationResponse{}, fmt.Errorf("invalid business id: %w", err)
	}
	if taxLiability.IsNegative() {
		return AllocationResponse{}, fmt.Errorf("tax liability cannot be negative")
	}

	var userUUID *uuid.UUID
	if parsed, parseErr := uuid.Parse(userID); parseErr == nil {
		userUUID = &parsed
	}

	resp := AllocationResponse{
		BusinessID:     businessID,
		TaxYear:        taxYear,
		TaxLiability:   taxLiability.StringFixed(2),
		CreditsUsed:    []CreditUsage{},
		CreditsApplied: "0.00",
		RemainingTax:   taxLiability.StringFixed(2),
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		entries, listErr := s.capitalRepo.ListOpenCarryForwards(txCtx, business)
		if listErr != nil {
			return fmt.Errorf("failed to fetch carryforward entries: %w", listErr)
		}

		remainingTax := taxLiability
		applied := decimal.Zero

		for i := range entries {
			if remainingTax.LessThanOrEqual(decimal.Zero) {
				break
			}
			entry := &entries[i]
			if entry.ExpiryYear < taxYear || entry.RemainingAmount.LessThanOrEqual(decimal.Zero) {
				continue
			}

			use := decimal.Min(entry.RemainingAmount, remainingTax)
			entry.RemainingAmount = entry.RemainingAmount.Sub(use)
			entry.LastAppliedYear = &taxYear
			if entry.RemainingAmount.LessThanOrEqual(decimal.Zero) {
				entry.FullyUtilized = true
			}
			if updateErr := s.capitalRepo.UpdateCarryForward(txCtx, entry); updateErr != nil {
				return fmt.Errorf("failed to update carryforward entry: %w", updateErr)
			}

			// Mirror the claim onto the source expenditure
			if entry.CapitalExpenditureID != nil {
				exp, expErr := s.capitalRepo.GetExpenditureByID(txCtx, *entry.CapitalExpenditureID)
				if expErr == nil {
					exp.CreditClaimed = exp.CreditClaimed.Add(use)
					exp.CreditRemaining = exp.CreditRemaining.Sub(use)
					exp.FullyUtilized = exp.CreditRemaining.LessThanOrEqual(decimal.Zero)
					if updateErr := s.capitalRepo.UpdateExpenditure(txCtx, exp); updateErr != nil {
						return fmt.Errorf("failed to update expenditure: %w", updateErr)
					}
				}
			}

			remainingTax = remainingTax.Sub(use)
			applied = applied.Add(use)
			resp.CreditsUsed = append(resp.CreditsUsed, CreditUsage{
				CarryForwardID: entry.ID.String(),
				OriginYear:     entry.OriginYear,
				Applied:        use.StringFixed(2),
				RemainingAfter: entry.RemainingAmount.StringFixed(2),
			})
		}

		resp.CreditsApplied = applied.StringFixed(2)
		resp.RemainingTax = remainingTax.StringFixed(2)

		details, _ := json.Marshal(map[string]interface{}{
			"tax_year":        taxYear,
			"tax_liability":   taxLiability.StringFixed(2),
			"credits_applied": applied.StringFixed(2),
			"remaining_tax":   remainingTax.StringFixed(2),
		})
		audit := &model.AuditLog{
			UserID:   userUUID,
			Action:   model.ActionAllocateCredits,
			EntityID: businessID,
			Details:  string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})
	if err != nil {
		return AllocationResponse{}, err
	}

	return resp, nil
}

func (s *capitalService) AvailableCredits(ctx context.Context, businessID string, taxYear int) (AvailableCreditsResponse, error) {
	business, err := uuid.Parse(businessID)
	if err != nil {
		return AvailableCreditsResponse{}, fmt.Errorf("invalid business id: %w", err)
	}

	entries, err := s.capitalRepo.ListOpenCarryForwards(ctx, business)
	if err != nil {
		return AvailableCreditsResponse{}, fmt.Errorf("failed to fetch carryforward entries: %w", err)
	}

	resp := AvailableCreditsResponse{
		BusinessID: businessID,
		TaxYear:    taxYear,
		Entries:    []CreditEntry{},
	}

	total := decimal.Zero
	for _, entry := range entries {
		if entry.ExpiryYear < taxYear || entry.RemainingAmount.LessThanOrEqual(decimal.Zero) {
			continue
		}
		total = total.Add(entry.RemainingAmount)
		resp.Entries = append(resp.Entries, CreditEntry{
			CarryForwardID: entry.ID.String(),
			OriginYear:     entry.OriginYear,
			Original:       entry.OriginalAmount.StringFixed(2),
			Remaining:      entry.RemainingAmount.StringFixed(2),
			ExpiryYear:     entry.ExpiryYear,
		})
	}
	resp.TotalAvailable = total.StringFixed(2)
	return resp, nil
}

// --- Helpers ---

func toExpenditureResponse(e model.CapitalExpenditure, creditRate decimal.Decimal) ExpenditureResponse {
	return ExpenditureResponse{
		ID:              e.ID.String(),
		BusinessID:      e.BusinessID.String(),
		Amount:          e.Amount.StringFixed(2),
		ExpenditureDate: e.ExpenditureDate.Format("2006-01-02"),
		TaxYear:         e.TaxYear,
		CreditEarned:    e.Amount.Mul(creditRate).Round(2).StringFixed(2),
		CreditClaimed:   e.CreditClaimed.StringFixed(2),
		CreditRemaining: e.CreditRemaining.StringFixed(2),
		FullyUtilized:   e.FullyUtilized,
		ExpiryYear:      e.ExpiryYear,
		Description:     e.Description,
		CreatedAt:       e.CreatedAt.Format(time.RFC3339),
	}
}
