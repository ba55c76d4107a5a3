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

type CreateTaxConfigRequest struct {
	TaxYear     int    `json:"tax_year" binding:"required"`
	ConfigKey   string `json:"config_key" binding:"required"`
	ConfigValue string `json:"config_value" binding:"required"`
	ValueType   string `json:"value_type" binding:"required,oneof=number string boolean json"`
	Description string `json:"description"`
}

type UpdateTaxConfigRequest struct {
	ConfigValue string `json:"config_value"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

type TaxConfigResponse struct {
	ID          string `json:"id"`
	TaxYear     int    `json:"tax_year"`
	ConfigKey   string `json:"config_key"`
	ConfigValue string `json:"config_value"`
	ValueType   string `json:"value_type"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
	UpdatedAt   string `json:"updated_at"`
}

// --- Interface ---

// TaxConfigService is the versioned store of tax law parameters. Snapshot
// materializes a year's parameters for the engine; keys missing from the
// store fall back to the compiled statutory defaults.
type TaxConfigService interface {
	CreateConfig(ctx context.Context, userID string, req CreateTaxConfigRequest) (TaxConfigResponse, error)
	UpdateConfig(ctx context.Context, userID, id string, req UpdateTaxConfigRequest) (TaxConfigResponse, error)
	DeleteConfig(ctx context.Context, userID, id string) error
	ListConfigs(ctx context.Context, taxYear int) ([]TaxConfigResponse, error)
	SeedDefaults(ctx context.Context, userID string, taxYear int) (int, error)
	Snapshot(ctx context.Context, taxYear int) (taxengine.Snapshot, error)
}

type taxConfigService struct {
	configRepo repository.TaxConfigRepository
	auditRepo  repository.AuditRepository
	txManager  repository.TransactionManager
}

func NewTaxConfigService(
	configRepo repository.TaxConfigRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) TaxConfigService {
	return &taxConfigService{
		configRepo: configRepo,
		auditRepo:  auditRepo,
		txManager:  txManager,
	}
}

// --- Implementation ---

func (s *taxConfigService) CreateConfig(ctx context.Context, userID string, req CreateTaxConfigRequest) (TaxConfigResponse, error) {
	if _, err := s.configRepo.GetByYearAndKey(ctx, req.TaxYear, req.ConfigKey); err == nil {
		return TaxConfigResponse{}, apperr.Conflict("config key %s already exists for year %d", req.ConfigKey, req.TaxYear)
	}

	if err := validateConfigValue(req.ConfigValue, req.ValueType); err != nil {
		return TaxConfigResponse{}, err
	}

	cfg := model.TaxConfiguration{
		TaxYear:     req.TaxYear,
		ConfigKey:   req.ConfigKey,
		ConfigValue: req.ConfigValue,
		ValueType:   req.ValueType,
		Description: req.Description,
		IsActive:    true,
	}

	err := s.withAudit(ctx, userID, model.ActionCreateTaxConfig, &cfg, func(txCtx context.Context) error {
		return s.configRepo.Create(txCtx, &cfg)
	})
	if err != nil {
		return TaxConfigResponse{}, err
	}

	return toTaxConfigResponse(cfg), nil
}

func (s *taxConfigService) UpdateConfig(ctx context.Context, userID, id string, req UpdateTaxConfigRequest) (TaxConfigResponse, error) {
	cfgID, err := uuid.Parse(id)
	if err != nil {
		return TaxConfigResponse{}, fmt.Errorf("invalid config id: %w", err)
	}
	cfg, err := s.configRepo.GetByID(ctx, cfgID)
	if err != nil {
		return TaxConfigResponse{}, apperr.NotFound("tax configuration")
	}

	if req.ConfigValue != "" {
		if err := validateConfigValue(req.ConfigValue, cfg.ValueType); err != nil {
			return TaxConfigResponse{}, err
		}
		cfg.ConfigValue = req.ConfigValue
	}
	if req.Description != "" {
		cfg.Description = req.Description
	}
	if req.IsActive != nil {
		cfg.IsActive = *req.IsActive
	}

	err = s.withAudit(ctx, userID, model.ActionUpdateTaxConfig, cfg, func(txCtx context.Context) error {
		return s.configRepo.Update(txCtx, cfg)
	})
	if err != nil {
		return TaxConfigResponse{}, err
	}

	return toTaxConfigResponse(*cfg), nil
}

func (s *taxConfigService) DeleteConfig(ctx context.Context, userID, id string) error {
	cfgID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid config id: %w", err)
	}
	cfg, err := s.configRepo.GetByID(ctx, cfgID)
	if err != nil {
		return apperr.NotFound("tax configuration")
	}

	return s.withAudit(ctx, userID, model.ActionDeleteTaxConfig, cfg, func(txCtx context.Context) error {
		return s.configRepo.Delete(txCtx, cfg.ID)
	})
}

func (s *taxConfigService) ListConfigs(ctx context.Context, taxYear int) ([]TaxConfigResponse, error) {
	cfgs, err := s.configRepo.ListByYear(ctx, taxYear)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tax configurations: %w", err)
	}
	result := make([]TaxConfigResponse, 0, len(cfgs))
	for _, c := range cfgs {
		result = append(result, toTaxConfigResponse(c))
	}
	return result, nil
}

// SeedDefaults inserts the statutory parameter set for a year. Keys that
// already exist are left untouched; returns the number of rows inserted.
func (s *taxConfigService) SeedDefaults(ctx context.Context, userID string, taxYear int) (int, error) {
	defaults := defaultConfigRows(taxYear)

	var userUUID *uuid.UUID
	if parsed, parseErr := uuid.Parse(userID); parseErr == nil {
		userUUID = &parsed
	}

	inserted := 0
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		for i := range defaults {
			row := &defaults[i]
			if _, getErr := s.configRepo.GetByYearAndKey(txCtx, taxYear, row.ConfigKey); getErr == nil {
				continue
			}
			if createErr := s.configRepo.Create(txCtx, row); createErr != nil {
				return fmt.Errorf("failed to seed config %s: %w", row.ConfigKey, createErr)
			}
			inserted++
		}

		details, _ := json.Marshal(map[string]interface{}{
			"tax_year": taxYear,
			"inserted": inserted,
		})
		audit := &model.AuditLog{
			UserID:   userUUID,
			Action:   model.ActionSeedTaxConfig,
			EntityID: fmt.Sprintf("%d", taxYear),
			Details:  string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// Snapshot builds the engine parameter set for a year from stored rows,
// starting from the compiled statutory defaults so partial overrides work.
func (s *taxConfigService) Snapshot(ctx context.Context, taxYear int) (taxengine.Snapshot, error) {
	snap := taxengine.DefaultSnapshot(taxYear)

	rows, err := s.configRepo.ListByYear(ctx, taxYear)
	if err != nil {
		return taxengine.Snapshot{}, fmt.Errorf("failed to fetch tax configurations: %w", err)
	}

	for _, row := range rows {
		if !row.IsActive {
			continue
		}
		if err := applyConfigRow(&snap, row); err != nil {
			return taxengine.Snapshot{}, fmt.Errorf("invalid config %s for year %d: %w", row.ConfigKey, taxYear, err)
		}
	}

	return snap, nil
}

// --- Helpers ---

func (s *taxConfigService) withAudit(ctx context.Context, userID, action string, cfg *model.TaxConfiguration, op func(txCtx context.Context) error) error {
	var userUUID *uuid.UUID
	if parsed, parseErr := uuid.Parse(userID); parseErr == nil {
		userUUID = &parsed
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if opErr := op(txCtx); opErr != nil {
			return fmt.Errorf("tax configuration operation failed: %w", opErr)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"tax_year":     cfg.TaxYear,
			"config_key":   cfg.ConfigKey,
			"config_value": cfg.ConfigValue,
		})
		audit := &model.AuditLog{
			UserID:     userUUID,
			Action:     action,
			EntityID:   cfg.ID.String(),
			EntityName: cfg.ConfigKey,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})
}

func validateConfigValue(value, valueType string) error {
	switch valueType {
	case model.ConfigNumber:
		if _, err := decimal.NewFromString(value); err != nil {
			return fmt.Errorf("config_value is not a valid number: %w", err)
		}
	case model.ConfigBoolean:
		if value != "true" && value != "false" {
			return fmt.Errorf("config_value must be true or false")
		}
	case model.ConfigJSON:
		if !json.Valid([]byte(value)) {
			return fmt.Errorf("config_value is not valid JSON")
		}
	case model.ConfigString:
		// any string is fine
	default:
		return fmt.Errorf("unknown value_type: %s", valueType)
	}
	return nil
}

type bracketRow struct {
	Lower string  `json:"lower"`
	Upper *string `json:"upper"`
	Rate  string  `json:"rate"`
}

func applyConfigRow(snap *taxengine.Snapshot, row model.TaxConfiguration) error {
	num := func() (decimal.Decimal, error) { return decimal.NewFromString(row.ConfigValue) }

	switch row.ConfigKey {
	case "pit_brackets":
		var rows []bracketRow
		if err := json.Unmarshal([]byte(row.ConfigValue), &rows); err != nil {
			return err
		}
		brackets := make([]taxengine.Bracket, 0, len(rows))
		for _, r := range rows {
			lower, err := decimal.NewFromString(r.Lower)
			if err != nil {
				return err
			}
			b := taxengine.Bracket{Lower: lower}
			if r.Upper != nil {
				upper, upperErr := decimal.NewFromString(*r.Upper)
				if upperErr != nil {
					return upperErr
				}
				b.Upper = &upper
			}
			b.Rate, err = decimal.NewFromString(r.Rate)
			if err != nil {
				return err
			}
			brackets = append(brackets, b)
		}
		snap.PITBrackets = brackets
	case "tax_free_threshold":
		v, err := num()
		if err != nil {
			return err
		}
		snap.TaxFreeThreshold = v
	case "rent_relief_cap":
		v, err := num()
		if err != nil {
			return err
		}
		snap.RentReliefCap = v
	case "rent_relief_rate":
		v, err := num()
		if err != nil {
			return err
		}
		snap.RentReliefRate = v
	case "sme_turnover_threshold":
		v, err := num()
		if err != nil {
			return err
		}
		snap.SMETurnoverThreshold = v
	case "sme_asset_threshold":
		v, err := num()
		if err != nil {
			return err
		}
		snap.SMEAssetThreshold = v
	case "large_company_threshold":
		v, err := num()
		if err != nil {
			return err
		}
		snap.LargeCompanyThreshold = v
	case "cit_standard_rate":
		v, err := num()
		if err != nil {
			return err
		}
		snap.CITStandardRate = v
	case "development_levy_rate":
		v, err := num()
		if err != nil {
			return err
		}
		snap.DevelopmentLevyRate = v
	case "minimum_effective_tax_rate":
		v, err := num()
		if err != nil {
			return err
		}
		snap.MinimumEffectiveTaxRate = v
	case "assessable_profit_ratio":
		v, err := num()
		if err != nil {
			return err
		}
		snap.AssessableProfitRatio = v
	case "cgt_proceeds_exemption_cap":
		v, err := num()
		if err != nil {
			return err
		}
		snap.CGTProceedsExemptionCap = v
	case "cgt_gain_exemption_cap":
		v, err := num()
		if err != nil {
			return err
		}
		snap.CGTGainExemptionCap = v
	case "cgt_company_rate":
		v, err := num()
		if err != nil {
			return err
		}
		snap.CGTCompanyRate = v
	case "severance_exemption_cap":
		v, err := num()
		if err != nil {
			return err
		}
		snap.SeveranceExemptionCap = v
	case "vat_standard_rate":
		v, err := num()
		if err != nil {
			return err
		}
		snap.VATStandardRate = v
	case "presumptive_rates":
		rates := make(map[string]string)
		if err := json.Unmarshal([]byte(row.ConfigValue), &rates); err != nil {
			return err
		}
		parsed := make(map[string]decimal.Decimal, len(rates))
		for activity, rate := range rates {
			v, err := decimal.NewFromString(rate)
			if err != nil {
				return err
			}
			parsed[activity] = v
		}
		snap.PresumptiveRates = parsed
	case "presumptive_min_turnover":
		v, err := num()
		if err != nil {
			return err
		}
		snap.PresumptiveMinTurnover = v
	case "capital_credit_rate":
		v, err := num()
		if err != nil {
			return err
		}
		snap.CapitalCreditRate = v
	case "carryforward_years":
		v, err := num()
		if err != nil {
			return err
		}
		snap.CarryforwardYears = int(v.IntPart())
	case "donation_deduction_rate":
		v, err := num()
		if err != nil {
			return err
		}
		snap.DonationDeductionRate = v
	}
	// Unknown keys are kept in the store but do not affect the engine.
	return nil
}

func defaultConfigRows(taxYear int) []model.TaxConfiguration {
	snap := taxengine.DefaultSnapshot(taxYear)

	brackets := make([]bracketRow, 0, len(snap.PITBrackets))
	for _, b := range snap.PITBrackets {
		r := bracketRow{Lower: b.Lower.String(), Rate: b.Rate.String()}
		if b.Upper != nil {
			u := b.Upper.String()
			r.Upper = &u
		}
		brackets = append(brackets, r)
	}
	bracketsJSON, _ := json.Marshal(brackets)

	rates := make(map[string]string, len(snap.PresumptiveRates))
	for activity, rate := range snap.PresumptiveRates {
		rates[activity] = rate.String()
	}
	ratesJSON, _ := json.Marshal(rates)

	row := func(key, value, valueType, desc string) model.TaxConfiguration {
		return model.TaxConfiguration{
			TaxYear:     taxYear,
			ConfigKey:   key,
			ConfigValue: value,
			ValueType:   valueType,
			Description: desc,
			IsActive:    true,
		}
	}

	return []model.TaxConfiguration{
		row("pit_brackets", string(bracketsJSON), model.ConfigJSON, "Progressive personal income tax bands"),
		row("tax_free_threshold", snap.TaxFreeThreshold.String(), model.ConfigNumber, "Annual income below which no PIT applies"),
		row("rent_relief_cap", snap.RentReliefCap.String(), model.ConfigNumber, "Maximum annual rent relief"),
		row("rent_relief_rate", snap.RentReliefRate.String(), model.ConfigNumber, "Rent relief as a fraction of annual rent"),
		row("sme_turnover_threshold", snap.SMETurnoverThreshold.String(), model.ConfigNumber, "Small company CIT exemption turnover ceiling"),
		row("sme_asset_threshold", snap.SMEAssetThreshold.String(), model.ConfigNumber, "Small company CIT exemption asset ceiling"),
		row("large_company_threshold", snap.LargeCompanyThreshold.String(), model.ConfigNumber, "Turnover at which the minimum effective tax rate applies"),
		row("cit_standard_rate", snap.CITStandardRate.String(), model.ConfigNumber, "Standard companies income tax rate"),
		row("development_levy_rate", snap.DevelopmentLevyRate.String(), model.ConfigNumber, "Development levy on assessable profits"),
		row("minimum_effective_tax_rate", snap.MinimumEffectiveTaxRate.String(), model.ConfigNumber, "Minimum effective tax rate for large companies"),
		row("assessable_profit_ratio", snap.AssessableProfitRatio.String(), model.ConfigNumber, "Assessable profit estimate as a fraction of turnover"),
		row("cgt_proceeds_exemption_cap", snap.CGTProceedsExemptionCap.String(), model.ConfigNumber, "CGT exemption: proceeds ceiling"),
		row("cgt_gain_exemption_cap", snap.CGTGainExemptionCap.String(), model.ConfigNumber, "CGT exemption: gain ceiling"),
		row("cgt_company_rate", snap.CGTCompanyRate.String(), model.ConfigNumber, "Flat CGT rate for companies"),
		row("severance_exemption_cap", snap.SeveranceExemptionCap.String(), model.ConfigNumber, "Loss-of-office compensation exemption ceiling"),
		row("vat_standard_rate", snap.VATStandardRate.String(), model.ConfigNumber, "Standard VAT rate"),
		row("presumptive_rates", string(ratesJSON), model.ConfigJSON, "Presumptive tax rates by informal sector activity"),
		row("presumptive_min_turnover", snap.PresumptiveMinTurnover.String(), model.ConfigNumber, "Turnover below which presumptive tax is zero"),
		row("capital_credit_rate", snap.CapitalCreditRate.String(), model.ConfigNumber, "Tax credit earned per naira of qualifying capital expenditure"),
		row("carryforward_years", fmt.Sprintf("%d", snap.CarryforwardYears), model.ConfigNumber, "Years before an unused capital credit expires"),
		row("donation_deduction_rate", snap.DonationDeductionRate.String(), model.ConfigNumber, "Deductible fraction of verified corporate donations"),
	}
}

func toTaxConfigResponse(c model.TaxConfiguration) TaxConfigResponse {
	return TaxConfigResponse{
		ID:          c.ID.String(),
		TaxYear:     c.TaxYear,
		ConfigKey:   c.ConfigKey,
		ConfigValue: c.ConfigValue,
		ValueType:   c.ValueType,
		Description: c.Description,
		IsActive:    c.IsActive,
		UpdatedAt:   c.UpdatedAt.Format(time.RFC3339),
	}
}
