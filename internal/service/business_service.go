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

type CreateBusinessRequest struct {
	Name               string `json:"name" binding:"required"`
	RegistrationNumber string `json:"registration_number"`
	TIN                string `json:"tin"`
	Sector             string `json:"sector" binding:"required"`
	BusinessType       string `json:"business_type"`
	AnnualTurnover     string `json:"annual_turnover"` // Decimal string
	AssetValue         string `json:"asset_value"`
	VATRegistered      bool   `json:"vat_registered"`
	IsAgricultural     bool   `json:"is_agricultural"`
	AgriStartDate      string `json:"agricultural_start_date"` // YYYY-MM-DD
	Address            string `json:"address"`
	State              string `json:"state"`
}

type UpdateBusinessRequest struct {
	Name           string  `json:"name"`
	TIN            string  `json:"tin"`
	Sector         string  `json:"sector"`
	BusinessType   string  `json:"business_type"`
	AnnualTurnover *string `json:"annual_turnover"`
	AssetValue     *string `json:"asset_value"`
	VATRegistered  *bool   `json:"vat_registered"`
	Address        string  `json:"address"`
	State          string  `json:"state"`
}

type BusinessResponse struct {
	ID                 string  `json:"id"`
	OwnerID            string  `json:"owner_id"`
	Name               string  `json:"name"`
	RegistrationNumber string  `json:"registration_number"`
	TIN                string  `json:"tin"`
	TINVerified        bool    `json:"tin_verified"`
	Sector             string  `json:"sector"`
	Size               string  `json:"size"`
	BusinessType       string  `json:"business_type"`
	AnnualTurnover     string  `json:"annual_turnover"`
	AssetValue         string  `json:"asset_value"`
	VATRegistered      bool    `json:"vat_registered"`
	TaxExemptStatus    bool    `json:"tax_exempt_status"`
	IsAgricultural     bool    `json:"is_agricultural"`
	AgriStartDate      *string `json:"agricultural_start_date"`
	Address            string  `json:"address"`
	State              string  `json:"state"`
	CreatedAt          string  `json:"created_at"`
}

// --- Interface ---

type BusinessService interface {
	CreateBusiness(ctx context.Context, ownerID string, req CreateBusinessRequest) (BusinessResponse, error)
	UpdateBusiness(ctx context.Context, id string, req UpdateBusinessRequest) (BusinessResponse, error)
	GetBusiness(ctx context.Context, id string) (BusinessResponse, error)
	ListByOwner(ctx context.Context, ownerID string) ([]BusinessResponse, error)
	ListBusinesses(ctx context.Context, page, limit int) ([]BusinessResponse, int64, error)
	DeleteBusiness(ctx context.Context, id string) error
}

type businessService struct {
	businessRepo repository.BusinessRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
}

func NewBusinessService(
	businessRepo repository.BusinessRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) BusinessService {
	return &businessService{
		businessRepo: businessRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
	}
}

// --- Implementation ---

func validSector(sector string) bool {
	switch sector {
	case model.SectorAgriculture, model.SectorManufacturing, model.SectorRetail,
		model.SectorServices, model.SectorTechnology, model.SectorHealthcare,
		model.SectorEducation, model.SectorConstruction, model.SectorHospitality,
		model.SectorTransport, model.SectorFinance, model.SectorOther:
		return true
	}
	return false
}

// classifySize maps annual turnover to the statutory size band.
func classifySize(turnover decimal.Decimal) string {
	switch {
	case turnover.LessThan(decimal.NewFromInt(25_000_000)):
		return model.SizeMicro
	case turnover.LessThan(decimal.NewFromInt(100_000_000)):
		return model.SizeSmall
	case turnover.LessThan(decimal.NewFromInt(1_000_000_000)):
		return model.SizeMedium
	default:
		return model.SizeLarge
	}
}

func isExemptBusinessType(businessType string) bool {
	switch businessType {
	case "ngo", "charity", "religious", "educational":
		return true
	}
	return false
}

func (s *businessService) CreateBusiness(ctx context.Context, ownerID string, req CreateBusinessRequest) (BusinessResponse, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return BusinessResponse{}, fmt.Errorf("invalid owner id: %w", err)
	}
	if !validSector(req.Sector) {
		return BusinessResponse{}, fmt.Errorf("invalid sector: %s", req.Sector)
	}

	turnover := decimal.Zero
	if req.AnnualTurnover != "" {
		turnover, err = decimal.NewFromString(req.AnnualTurnover)
		if err != nil {
			return BusinessResponse{}, fmt.Errorf("invalid annual_turnover: %w", err)
		}
		if turnover.IsNegative() {
			return BusinessResponse{}, fmt.Errorf("annual_turnover cannot be negative")
		}
	}

	assets := decimal.Zero
	if req.AssetValue != "" {
		assets, err = decimal.NewFromString(req.AssetValue)
		if err != nil {
			return BusinessResponse{}, fmt.Errorf("invalid asset_value: %w", err)
		}
		if assets.IsNegative() {
			return BusinessResponse{}, fmt.Errorf("asset_value cannot be negative")
		}
	}

	business := model.Business{
		OwnerID:            owner,
		Name:               req.Name,
		RegistrationNumber: req.RegistrationNumber,
		TIN:                req.TIN,
		Sector:             req.Sector,
		Size:               classifySize(turnover),
		BusinessType:       req.BusinessType,
		AnnualTurnover:     turnover,
		AssetValue:         assets,
		VATRegistered:      req.VATRegistered,
		TaxExemptStatus:    isExemptBusinessType(req.BusinessType),
		IsAgricultural:     req.IsAgricultural || req.Sector == model.SectorAgriculture,
		Address:            req.Address,
		State:              req.State,
	}

	if req.AgriStartDate != "" {
		start, parseErr := time.Parse("2006-01-02", req.AgriStartDate)
		if parseErr != nil {
			return BusinessResponse{}, fmt.Errorf("invalid agricultural_start_date: %w", parseErr)
		}
		business.AgriStartDate = &start
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.businessRepo.Create(txCtx, &business); createErr != nil {
			return fmt.Errorf("failed to create business: %w", createErr)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"name":            req.Name,
			"sector":          req.Sector,
			"business_type":   req.BusinessType,
			"annual_turnover": req.AnnualTurnover,
			"vat_registered":  req.VATRegistered,
		})
		audit := &model.AuditLog{
			UserID:     &owner,
			Action:     model.ActionCreateBusiness,
			EntityID:   business.ID.String(),
			EntityName: business.Name,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})
	if err != nil {
		return BusinessResponse{}, err
	}

	return toBusinessResponse(business), nil
}

func (s *businessService) UpdateBusiness(ctx context.Context, id string, req UpdateBusinessRequest) (BusinessResponse, error) {
	businessID, err := uuid.Parse(id)
	if err != nil {
		return BusinessResponse{}, fmt.Errorf("invalid business id: %w", err)
	}
	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		return BusinessResponse{}, apperr.NotFound("business")
	}

	if req.Name != "" {
		business.Name = req.Name
	}
	if req.TIN != "" && req.TIN != business.TIN {
		business.TIN = req.TIN
		business.TINVerified = false
	}
	if req.Sector != "" {
		if !validSector(req.Sector) {
			return BusinessResponse{}, fmt.Errorf("invalid sector: %s", req.Sector)
		}
		business.Sector = req.Sector
	}
	if req.BusinessType != "" {
		business.BusinessType = req.BusinessType
		business.TaxExemptStatus = isExemptBusinessType(req.BusinessType)
	}
	if req.AnnualTurnover != nil {
		turnover, parseErr := decimal.NewFromString(*req.AnnualTurnover)
		if parseErr != nil {
			return BusinessResponse{}, fmt.Errorf("invalid annual_turnover: %w", parseErr)
		}
		if turnover.IsNegative() {
			return BusinessResponse{}, fmt.Errorf("annual_turnover cannot be negative")
		}
		business.AnnualTurnover = turnover
		business.Size = classifySize(turnover)
	}
	if req.AssetValue != nil {
		assets, parseErr := decimal.NewFromString(*req.AssetValue)
		if parseErr != nil {
			return BusinessResponse{}, fmt.Errorf("invalid asset_value: %w", parseErr)
		}
		if assets.IsNegative() {
			return BusinessResponse{}, fmt.Errorf("asset_value cannot be negative")
		}
		business.AssetValue = assets
	}
	if req.VATRegistered != nil {
		business.VATRegistered = *req.VATRegistered
	}
	if req.Address != "" {
		business.Address = req.Address
	}
	if req.State != "" {
		business.State = req.State
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if updateErr := s.businessRepo.Update(txCtx, business); updateErr != nil {
			return fmt.Errorf("failed to update business: %w", updateErr)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"name":   business.Name,
			"sector": business.Sector,
			"size":   business.Size,
		})
		audit := &model.AuditLog{
			UserID:     &business.OwnerID,
			Action:     model.ActionUpdateBusiness,
			EntityID:   business.ID.String(),
			EntityName: business.Name,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})
	if err != nil {
		return BusinessResponse{}, err
	}

	return toBusinessResponse(*business), nil
}

func (s *businessService) GetBusiness(ctx context.Context, id string) (BusinessResponse, error) {
	businessID, err := uuid.Parse(id)
	if err != nil {
		return BusinessResponse{}, fmt.Errorf("invalid business id: %w", err)
	}
	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		return BusinessResponse{}, apperr.NotFound("business")
	}
	return toBusinessResponse(*business), nil
}

func (s *businessService) ListByOwner(ctx context.Context, ownerID string) ([]BusinessResponse, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, fmt.Errorf("invalid owner id: %w", err)
	}
	businesses, err := s.businessRepo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch businesses: %w", err)
	}
	result := make([]BusinessResponse, 0, len(businesses))
	for _, b := range businesses {
		result = append(result, toBusinessResponse(b))
	}
	return result, nil
}

func (s *businessService) ListBusinesses(ctx context.Context, page, limit int) ([]BusinessResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	businesses, total, err := s.businessRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch businesses: %w", err)
	}

	result := make([]BusinessResponse, 0, len(businesses))
	for _, b := range businesses {
		result = append(result, toBusinessResponse(b))
	}
	return result, total, nil
}

func (s *businessService) DeleteBusiness(ctx context.Context, id string) error {
	businessID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid business id: %w", err)
	}
	if _, err := s.businessRepo.GetByID(ctx, businessID); err != nil {
		return apperr.NotFound("business")
	}
	return s.businessRepo.Delete(ctx, businessID)
}

// --- Helpers ---

func toBusinessResponse(b model.Business) BusinessResponse {
	resp := BusinessResponse{
		ID:                 b.ID.String(),
		OwnerID:            b.OwnerID.String(),
		Name:               b.Name,
		RegistrationNumber: b.RegistrationNumber,
		TIN:                b.TIN,
		TINVerified:        b.TINVerified,
		Sector:             b.Sector,
		Size:               b.Size,
		BusinessType:       b.BusinessType,
		AnnualTurnover:     b.AnnualTurnover.StringFixed(2),
		AssetValue:         b.AssetValue.StringFixed(2),
		VATRegistered:      b.VATRegistered,
		TaxExemptStatus:    b.TaxExemptStatus,
		IsAgricultural:     b.IsAgricultural,
		Address:            b.Address,
		State:              b.State,
		CreatedAt:          b.CreatedAt.Format(time.RFC3339),
	}
	if b.AgriStartDate != nil {
		d := b.AgriStartDate.Format("2006-01-02")
		resp.AgriStartDate = &d
	}
	return resp
}
