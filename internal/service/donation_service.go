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

type CreateDonationRequest struct {
	BusinessID    string `json:"business_id" binding:"required"`
	RecipientName string `json:"recipient_name" binding:"required"`
	RecipientTIN  string `json:"recipient_tin"`
	Amount        string `json:"amount" binding:"required"` // Decimal string
	DonationDate  string `json:"donation_date" binding:"required"`
	TaxYear       int    `json:"tax_year" binding:"required"`
	ReceiptURL    string `json:"receipt_url"`
	Purpose       string `json:"purpose"`
}

type DonationResponse struct {
	ID                string `json:"id"`
	BusinessID        string `json:"business_id"`
	RecipientName     string `json:"recipient_name"`
	RecipientTIN      string `json:"recipient_tin"`
	RecipientVerified bool   `json:"recipient_verified"`
	Amount            string `json:"amount"`
	DeductibleAmount  string `json:"deductible_amount"`
	DeductionClaimed  string `json:"deduction_claimed"`
	DonationDate      string `json:"donation_date"`
	TaxYear           int    `json:"tax_year"`
	Purpose           string `json:"purpose"`
	CreatedAt         string `json:"created_at"`
}

// --- Interface ---

// DonationService tracks deductible corporate donations. A donation with a
// claimed deduction can no longer be changed or removed.
type DonationService interface {
	CreateDonation(ctx context.Context, userID string, req CreateDonationRequest) (DonationResponse, error)
	VerifyRecipient(ctx context.Context, id string, verified bool) (DonationResponse, error)
	ClaimDeduction(ctx context.Context, id string) (DonationResponse, error)
	ListDonations(ctx context.Context, businessID string, taxYear int) ([]DonationResponse, error)
	DeleteDonation(ctx context.Context, id string) error
}

type donationService struct {
	donationRepo  repository.DonationRepository
	businessRepo  repository.BusinessRepository
	auditRepo     repository.AuditRepository
	txManager     repository.TransactionManager
	configService TaxConfigService
}

func NewDonationService(
	donationRepo repository.DonationRepository,
	businessRepo repository.BusinessRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	configService TaxConfigService,
) DonationService {
	return &donationService{
		donationRepo:  donationRepo,
		businessRepo:  businessRepo,
		auditRepo:     auditRepo,
		txManager:     txManager,
		configService: configService,
	}
}

// --- Implementation ---

func (s *donationService) CreateDonation(ctx context.Context, userID string, req CreateDonationRequest) (DonationResponse, error) {
	businessID, err := uuid.Parse(req.BusinessID)
	if err != nil {
		return DonationResponse{}, fmt.Errorf("invalid business_id: %w", err)
	}
	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		return DonationResponse{}, apperr.NotFound("business")
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return DonationResponse{}, fmt.Errorf("invalid amount: %w", err)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return DonationResponse{}, fmt.Errorf("amount must be greater than 0")
	}

	donationDate, err := time.Parse("2006-01-02", req.DonationDate)
	if err != nil {
		return DonationResponse{}, fmt.Errorf("invalid donation_date: %w", err)
	}

	donation := model.CorporateDonation{
		BusinessID:    businessID,
		RecipientName: req.RecipientName,
		RecipientTIN:  req.RecipientTIN,
		Amount:        amount,
		DonationDate:  donationDate,
		TaxYear:       req.TaxYear,
		ReceiptURL:    req.ReceiptURL,
		Purpose:       req.Purpose,
	}

	var userUUID *uuid.UUID
	if parsed, parseErr := uuid.Parse(userID); parseErr == nil {
		userUUID = &parsed
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.donationRepo.Create(txCtx, &donation); createErr != nil {
			return fmt.Errorf("failed to create donation: %w", createErr)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"recipient": req.RecipientName,
			"amount":    req.Amount,
			"tax_year":  req.TaxYear,
		})
		audit := &model.AuditLog{
			UserID:     userUUID,
			Action:     model.ActionRecordDonation,
			EntityID:   donation.ID.String(),
			EntityName: business.Name,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})
	if err != nil {
		return DonationResponse{}, err
	}

	return s.toDonationResponse(ctx, donation)
}

func (s *donationService) VerifyRecipient(ctx context.Context, id string, verified bool) (DonationResponse, error) {
	donationID, err := uuid.Parse(id)
	if err != nil {
		return DonationResponse{}, fmt.Errorf("invalid donation id: %w", err)
	}
	donation, err := s.donationRepo.GetByID(ctx, donationID)
	if err != nil {
		return DonationResponse{}, apperr.NotFound("donation")
	}

	donation.RecipientVerified = verified
	if err := s.donationRepo.Update(ctx, donation); err != nil {
		return DonationResponse{}, fmt.Errorf("failed to update donation: %w", err)
	}
	return s.toDonationResponse(ctx, *donation)
}

// ClaimDeduction marks the statutory deductible share of a verified
// donation as claimed.
func (s *donationService) ClaimDeduction(ctx context.Context, id string) (DonationResponse, error) {
	donationID, err := uuid.Parse(id)
	if err != nil {
		return DonationResponse{}, fmt.Errorf("invalid donation id: %w", err)
	}
	donation, err := s.donationRepo.GetByID(ctx, donationID)
	if err != nil {
		return DonationResponse{}, apperr.NotFound("donation")
	}
	if !donation.RecipientVerified {
		return DonationResponse{}, apperr.Conflict("cannot claim deduction: recipient is not verified")
	}
	if donation.DeductionClaimed.GreaterThan(decimal.Zero) {
		return DonationResponse{}, apperr.Conflict("deduction has already been claimed for this donation")
	}

	snap, err := s.configService.Snapshot(ctx, donation.TaxYear)
	if err != nil {
		return DonationResponse{}, err
	}

	donation.DeductionClaimed = donation.Amount.Mul(snap.DonationDeductionRate).Round(2)
	if err := s.donationRepo.Update(ctx, donation); err != nil {
		return DonationResponse{}, fmt.Errorf("failed to update donation: %w", err)
	}
	return s.toDonationResponse(ctx, *donation)
}

func (s *donationService) ListDonations(ctx context.Context, businessID string, taxYear int) ([]DonationResponse, error) {
	business, err := uuid.Parse(businessID)
	if err != nil {
		return nil, fmt.Errorf("invalid business id: %w", err)
	}
	donations, err := s.donationRepo.ListByBusiness(ctx, business, taxYear)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch donations: %w", err)
	}

	result := make([]DonationResponse, 0, len(donations))
	for _, d := range donations {
		resp, respErr := s.toDonationResponse(ctx, d)
		if respErr != nil {
			return nil, respErr
		}
		result = append(result, resp)
	}
	return result, nil
}

func (s *donationService) DeleteDonation(ctx context.Context, id string) error {
	donationID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid donation id: %w", err)
	}
	donation, err := s.donationRepo.GetByID(ctx, donationID)
	if err != nil {
		return apperr.NotFound("donation")
	}
	if donation.DeductionClaimed.GreaterThan(decimal.Zero) {
		return apperr.Conflict("cannot delete donation: deduction already claimed")
	}
	return s.donationRepo.Delete(ctx, donation.ID)
}

// --- Helpers ---

func (s *donationService) toDonationResponse(ctx context.Context, d model.CorporateDonation) (DonationResponse, error) {
	snap, err := s.configService.Snapshot(ctx, d.TaxYear)
	if err != nil {
		return DonationResponse{}, err
	}

	deductible := decimal.Zero
	if d.RecipientVerified {
		deductible = d.Amount.Mul(snap.DonationDeductionRate).Round(2)
	}

	return DonationResponse{
		ID:                d.ID.String(),
		BusinessID:        d.BusinessID.String(),
		RecipientName:     d.RecipientName,
		RecipientTIN:      d.RecipientTIN,
		RecipientVerified: d.RecipientVerified,
		Amount:            d.Amount.StringFixed(2),
		DeductibleAmount:  deductible.StringFixed(2),
		DeductionClaimed:  d.DeductionClaimed.StringFixed(2),
		DonationDate:      d.DonationDate.Format("2006-01-02"),
		TaxYear:           d.TaxYear,
		Purpose:           d.Purpose,
		CreatedAt:         d.CreatedAt.Format(time.RFC3339),
	}, nil
}
