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

type ComputePITRequest struct {
	TaxYear             int    `json:"tax_year" binding:"required"`
	GrossIncome         string `json:"gross_income" binding:"required"` // Decimal string
	RentPaid            string `json:"rent_paid"`
	PensionContribution string `json:"pension_contribution"`
	HealthInsurance     string `json:"health_insurance"`
	LandlordName        string `json:"landlord_name"`
	LandlordTIN         string `json:"landlord_tin"`
	LandlordAddress     string `json:"landlord_address"`
	PensionProviderName string `json:"pension_provider_name"`
	PensionPolicyNumber string `json:"pension_policy_number"`
	HealthProviderName  string `json:"health_provider_name"`
	HealthPolicyNumber  string `json:"health_policy_number"`
}

type ComputeCITRequest struct {
	TaxYear           int    `json:"tax_year" binding:"required"`
	BusinessID        string `json:"business_id"`
	BusinessName      string `json:"business_name"`
	AnnualTurnover    string `json:"annual_turnover" binding:"required"`
	AssetValue        string `json:"asset_value"`
	AssessableProfits string `json:"assessable_profits"`
	BusinessType      string `json:"business_type"`
	TaxExemptStatus   bool   `json:"tax_exempt_status"`
	IsAgricultural    bool   `json:"is_agricultural"`
	AgriStartDate     string `json:"agricultural_start_date"` // YYYY-MM-DD
}

type ComputeCGTRequest struct {
	TaxYear            int    `json:"tax_year" binding:"required"`
	Proceeds           string `json:"proceeds" binding:"required"`
	CostBasis          string `json:"cost_basis" binding:"required"`
	IsCompany          bool   `json:"is_company"`
	IsPrivateResidence bool   `json:"is_private_residence"`
	IsPersonalVehicle  bool   `json:"is_personal_vehicle"`
	VehicleCount       int    `json:"vehicle_count"`
	IsLossOfOffice     bool   `json:"is_loss_of_office"`
	SeveranceAmount    string `json:"severance_amount"`
	TerminationDate    string `json:"termination_date"`
	EmployerName       string `json:"employer_name"`
	TerminationReason  string `json:"termination_reason"`
	YearsOfService     int    `json:"years_of_service"`
}

type ComputePresumptiveRequest struct {
	TaxYear           int    `json:"tax_year" binding:"required"`
	ActivityType      string `json:"activity_type" binding:"required"`
	EstimatedTurnover string `json:"estimated_turnover" binding:"required"`
	EmployeeCount     int    `json:"employee_count"`
	Location          string `json:"location"`
}

type ComputeVATRequest struct {
	TaxYear     int    `json:"tax_year" binding:"required"`
	BaseAmount  string `json:"base_amount" binding:"required"`
	IsZeroRated bool   `json:"is_zero_rated"`
}

type TaxCalculationResponse struct {
	ID            string           `json:"id,omitempty"`
	TaxType       string           `json:"tax_type"`
	TaxYear       int              `json:"tax_year"`
	GrossIncome   string           `json:"gross_income"`
	Deductions    string           `json:"deductions"`
	TaxableIncome string           `json:"taxable_income"`
	TaxLiability  string           `json:"tax_liability"`
	NetIncome     string           `json:"net_income"`
	Result        taxengine.Result `json:"result"`
	CreatedAt     string           `json:"created_at,omitempty"`
}

type CalculationHistoryItem struct {
	ID            string `json:"id"`
	TaxType       string `json:"tax_type"`
	TaxYear       int    `json:"tax_year"`
	GrossIncome   string `json:"gross_income"`
	TaxableIncome string `json:"taxable_income"`
	TaxLiability  string `json:"tax_liability"`
	Breakdown     string `json:"breakdown"`
	CreatedAt     string `json:"created_at"`
}

// --- Interface ---

// TaxService runs the engine against a year's configuration snapshot and
// persists each computation so past assessments can be reproduced.
type TaxService interface {
	ComputePIT(ctx context.Context, userID string, req ComputePITRequest) (TaxCalculationResponse, error)
	ComputeCIT(ctx context.Context, userID string, req ComputeCITRequest) (TaxCalculationResponse, error)
	ComputeCGT(ctx context.Context, userID string, req ComputeCGTRequest) (TaxCalculationResponse, error)
	ComputePresumptive(ctx context.Context, userID string, req ComputePresumptiveRequest) (TaxCalculationResponse, error)
	ComputeVAT(ctx context.Context, userID string, req ComputeVATRequest) (TaxCalculationResponse, error)
	History(ctx context.Context, userID, taxType string, taxYear int) ([]CalculationHistoryItem, error)
}

type taxService struct {
	calcRepo      repository.TaxCalculationRepository
	auditRepo     repository.AuditRepository
	txManager     repository.TransactionManager
	configService TaxConfigService
}

func NewTaxService(
	calcRepo repository.TaxCalculationRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	configService TaxConfigService,
) TaxService {
	return &taxService{
		calcRepo:      calcRepo,
		auditRepo:     auditRepo,
		txManager:     txManager,
		configService: configService,
	}
}

// --- Implementation ---

func (s *taxService) ComputePIT(ctx context.Context, userID string, req ComputePITRequest) (TaxCalculationResponse, error) {
	in := taxengine.PITInput{
		LandlordName:        req.LandlordName,
		LandlordTIN:         req.LandlordTIN,
		LandlordAddress:     req.LandlordAddress,
		PensionProviderName: req.PensionProviderName,
		PensionPolicyNumber: req.PensionPolicyNumber,
		HealthProviderName:  req.HealthProviderName,
		HealthPolicyNumber:  req.HealthPolicyNumber,
	}

	var err error
	if in.GrossIncome, err = parseAmount("gross_income", req.GrossIncome, true); err != nil {
		return TaxCalculationResponse{}, err
	}
	if in.RentPaid, err = parseAmount("rent_paid", req.RentPaid, false); err != nil {
		return TaxCalculationResponse{}, err
	}
	if in.PensionContribution, err = parseAmount("pension_contribution", req.PensionContribution, false); err != nil {
		return TaxCalculationResponse{}, err
	}
	if in.HealthInsurance, err = parseAmount("health_insurance", req.HealthInsurance, false); err != nil {
		return TaxCalculationResponse{}, err
	}

	snap, err := s.configService.Snapshot(ctx, req.TaxYear)
	if err != nil {
		return TaxCalculationResponse{}, err
	}

	result, err := taxengine.ComputePIT(in, snap)
	if err != nil {
		return TaxCalculationResponse{}, err
	}

	return s.persist(ctx, userID, "", req.TaxYear, result)
}

func (s *taxService) ComputeCIT(ctx context.Context, userID string, req ComputeCITRequest) (TaxCalculationResponse, error) {
	in := taxengine.CITInput{
		BusinessName:    req.BusinessName,
		BusinessType:    req.BusinessType,
		TaxExemptStatus: req.TaxExemptStatus,
		IsAgricultural:  req.IsAgricultural,
	}

	var err error
	if in.AnnualTurnover, err = parseAmount("annual_turnover", req.AnnualTurnover, true); err != nil {
		return TaxCalculationResponse{}, err
	}
	if in.AssetValue, err = parseAmount("asset_value", req.AssetValue, false); err != nil {
		return TaxCalculationResponse{}, err
	}
	if in.AssessableProfits, err = parseAmount("assessable_profits", req.AssessableProfits, false); err != nil {
		return TaxCalculationResponse{}, err
	}
	if req.AgriStartDate != "" {
		start, parseErr := time.Parse("2006-01-02", req.AgriStartDate)
		if parseErr != nil {
			return TaxCalculationResponse{}, fmt.Errorf("invalid agricultural_start_date: %w", parseErr)
		}
		in.AgriStartDate = &start
	}

	snap, err := s.configService.Snapshot(ctx, req.TaxYear)
	if err != nil {
		return TaxCalculationResponse{}, err
	}

	result, err := taxengine.ComputeCIT(in, snap)
	if err != nil {
		return TaxCalculationResponse{}, err
	}

	return s.persist(ctx, userID, req.BusinessID, req.TaxYear, result)
}

func (s *taxService) ComputeCGT(ctx context.Context, userID string, req ComputeCGTRequest) (TaxCalculationResponse, error) {
	in := taxengine.CGTInput{
		IsCompany:          req.IsCompany,
		IsPrivateResidence: req.IsPrivateResidence,
		IsPersonalVehicle:  req.IsPersonalVehicle,
		VehicleCount:       req.VehicleCount,
		IsLossOfOffice:     req.IsLossOfOffice,
		EmployerName:       req.EmployerName,
		TerminationReason:  req.TerminationReason,
		YearsOfService:     req.YearsOfService,
	}

	var err error
	if in.Proceeds, err = parseAmount("proceeds", req.Proceeds, true); err != nil {
		return TaxCalculationResponse{}, err
	}
	if in.CostBasis, err = parseAmount("cost_basis", req.CostBasis, false); err != nil {
		return TaxCalculationResponse{}, err
	}
	if in.SeveranceAmount, err = parseAmount("severance_amount", req.SeveranceAmount, false); err != nil {
		return TaxCalculationResponse{}, err
	}
	if req.TerminationDate != "" {
		td, parseErr := time.Parse("2006-01-02", req.TerminationDate)
		if parseErr != nil {
			return TaxCalculationResponse{}, fmt.Errorf("invalid termination_date: %w", parseErr)
		}
		in.TerminationDate = &td
	}

	snap, err := s.configService.Snapshot(ctx, req.TaxYear)
	if err != nil {
		return TaxCalculationResponse{}, err
	}

	result, err := taxengine.ComputeCGT(in, snap)
	if err != nil {
		return TaxCalculationResponse{}, err
	}

	return s.persist(ctx, userID, "", req.TaxYear, result)
}

func (s *taxService) ComputePresumptive(ctx context.Context, userID string, req ComputePresumptiveRequest) (TaxCalculationResponse, error) {
	in := taxengine.PresumptiveInput{
		ActivityType:  req.ActivityType,
		EmployeeCount: req.EmployeeCount,
		Location:      req.Location,
	}

	var err error
	if in.EstimatedTurnover, err = parseAmount("estimated_turnover", req.EstimatedTurnover, true); err != nil {
		return TaxCalculationResponse{}, err
	}

	snap, err := s.configService.Snapshot(ctx, req.TaxYear)
	if err != nil {
		return TaxCalculationResponse{}, err
	}

	result, err := taxengine.ComputePresumptive(in, snap)
	if err != nil {
		return TaxCalculationResponse{}, err
	}

	return s.persist(ctx, userID, "", req.TaxYear, result)
}

func (s *taxService) ComputeVAT(ctx context.Context, userID string, req ComputeVATRequest) (TaxCalculationResponse, error) {
	in := taxengine.VATInput{IsZeroRated: req.IsZeroRated}

	var err error
	if in.BaseAmount, err = parseAmount("base_amount", req.BaseAmount, true); err != nil {
		return TaxCalculationResponse{}, err
	}

	snap, err := s.configService.Snapshot(ctx, req.TaxYear)
	if err != nil {
		return TaxCalculationResponse{}, err
	}

	result, err := taxengine.ComputeVAT(in, snap)
	if err != nil {
		return TaxCalculationResponse{}, err
	}

	return s.persist(ctx, userID, "", req.TaxYear, result)
}

func (s *taxService) History(ctx context.Context, userID, taxType string, taxYear int) ([]CalculationHistoryItem, error) {
	user, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}
	calcs, err := s.calcRepo.ListByUser(ctx, user, taxType, taxYear)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch calculation history: %w", err)
	}

	result := make([]CalculationHistoryItem, 0, len(calcs))
	for _, c := range calcs {
		result = append(result, CalculationHistoryItem{
			ID:            c.ID.String(),
			TaxType:       c.TaxType,
			TaxYear:       c.TaxYear,
			GrossIncome:   c.GrossIncome.StringFixed(2),
			TaxableIncome: c.TaxableIncome.StringFixed(2),
			TaxLiability:  c.TaxLiability.StringFixed(2),
			Breakdown:     c.Breakdown,
			CreatedAt:     c.CreatedAt.Format(time.RFC3339),
		})
	}
	return result, nil
}

// --- Helpers ---

// persist stores the engine result with its breakdown and writes an audit
// entry, inside one transaction.
func (s *taxService) persist(ctx context.Context, userID, businessID string, taxYear int, result taxengine.Result) (TaxCalculationResponse, error) {
	var userUUID *uuid.UUID
	if parsed, parseErr := uuid.Parse(userID); parseErr == nil {
		userUUID = &parsed
	}
	var businessUUID *uuid.UUID
	if businessID != "" {
		parsed, parseErr := uuid.Parse(businessID)
		if parseErr != nil {
			return TaxCalculationResponse{}, fmt.Errorf("invalid business_id: %w", parseErr)
		}
		businessUUID = &parsed
	}

	breakdown, _ := json.Marshal(result.Breakdown)

	calc := model.TaxCalculation{
		UserID:          userUUID,
		BusinessID:      businessUUID,
		TaxType:         result.TaxType,
		TaxYear:         taxYear,
		GrossIncome:     result.GrossIncome,
		Deductions:      result.Deductions,
		RentRelief:      result.Reliefs.RentRelief,
		PensionRelief:   result.Reliefs.PensionContribution,
		HealthRelief:    result.Reliefs.HealthInsurance,
		TaxableIncome:   result.TaxableIncome,
		TaxLiability:    result.TaxLiability,
		Breakdown:       string(breakdown),
		CalculationDate: time.Now(),
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.calcRepo.Create(txCtx, &calc); createErr != nil {
			return fmt.Errorf("failed to persist calculation: %w", createErr)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"tax_type":      result.TaxType,
			"tax_year":      taxYear,
			"tax_liability": result.TaxLiability.StringFixed(2),
		})
		audit := &model.AuditLog{
			UserID:     userUUID,
			Action:     model.ActionComputeTax,
			EntityID:   calc.ID.String(),
			EntityName: result.TaxType,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})
	if err != nil {
		return TaxCalculationResponse{}, err
	}

	return TaxCalculationResponse{
		ID:            calc.ID.String(),
		TaxType:       result.TaxType,
		TaxYear:       taxYear,
		GrossIncome:   result.GrossIncome.StringFixed(2),
		Deductions:    result.Deductions.StringFixed(2),
		TaxableIncome: result.TaxableIncome.StringFixed(2),
		TaxLiability:  result.TaxLiability.StringFixed(2),
		NetIncome:     result.NetIncome.StringFixed(2),
		Result:        result,
		CreatedAt:     calc.CreatedAt.Format(time.RFC3339),
	}, nil
}

// parseAmount parses a decimal request field; required fields must be
// present, optional empty fields default to zero. Validation of signs and
// ranges belongs to the engine.
func parseAmount(field, value string, required bool) (d decimal.Decimal, err error) {
	if value == "" {
		if required {
			return decimal.Zero, &apperr.ValidationError{Errors: []apperr.FieldError{{Field: field, Message: field + " is required"}}}
		}
		return decimal.Zero, nil
	}
	d, err = decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %w", field, err)
	}
	return d, nil
}
