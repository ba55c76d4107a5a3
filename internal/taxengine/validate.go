package taxengine

import (
	"fmt"
	"time"

	"backend/pkg/apperr"

	"github.com/shopspring/decimal"
)

// validator accumulates field-level errors and warnings across one pass so
// the caller sees every problem at once instead of one at a time.
type validator struct {
	errors   []apperr.FieldError
	warnings []apperr.FieldError
}

func (v *validator) failf(field, format string, args ...interface{}) {
	v.errors = append(v.errors, apperr.FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (v *validator) warnf(field, format string, args ...interface{}) {
	v.warnings = append(v.warnings, apperr.FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// result returns a ValidationError when any hard failure accumulated,
// otherwise nil plus whatever warnings were raised.
func (v *validator) result() (*apperr.ValidationError, []apperr.FieldError) {
	if len(v.errors) > 0 {
		return &apperr.ValidationError{Errors: v.errors, Warnings: v.warnings}, nil
	}
	return nil, v.warnings
}

// ValidatePIT applies the cross-field rules gating a PIT computation.
// Returns nil and the accumulated warnings on success.
func ValidatePIT(in PITInput, snap Snapshot) (*apperr.ValidationError, []apperr.FieldError) {
	v := &validator{}

	if in.GrossIncome.IsNegative() {
		v.failf("gross_income", "gross income cannot be negative")
	}
	if in.RentPaid.IsNegative() {
		v.failf("rent_paid", "rent paid cannot be negative")
	}
	if in.PensionContribution.IsNegative() {
		v.failf("pension_contribution", "pension contribution cannot be negative")
	}
	if in.HealthInsurance.IsNegative() {
		v.failf("health_insurance", "health insurance cannot be negative")
	}

	if in.RentPaid.GreaterThan(in.GrossIncome) {
		v.failf("rent_paid", "rent paid cannot exceed gross income")
	}

	claimed := in.RentPaid.Add(in.PensionContribution).Add(in.HealthInsurance)
	if claimed.GreaterThan(in.GrossIncome) {
		v.failf("deductions", "total claimed deductions (%s) cannot exceed gross income (%s)",
			claimed.StringFixed(2), in.GrossIncome.StringFixed(2))
	}

	if in.PensionContribution.GreaterThan(in.GrossIncome.Mul(snap.PensionWarningRatio)) && in.PensionContribution.IsPositive() {
		v.warnf("pension_contribution", "pension contribution exceeds %s%% of gross income, additional documentation may be required",
			percent(snap.PensionWarningRatio))
	}

	if in.RentPaid.IsPositive() {
		if blank(in.LandlordName) {
			v.failf("landlord_name", "landlord name is required when claiming rent relief")
		}
		if blank(in.LandlordAddress) {
			v.failf("landlord_address", "landlord address is required when claiming rent relief")
		}
		if blank(in.LandlordTIN) {
			v.warnf("landlord_tin", "landlord TIN is recommended for rent relief claims")
		}
	}

	if in.PensionContribution.IsPositive() {
		if blank(in.PensionProviderName) {
			v.failf("pension_provider_name", "pension provider name is required when claiming pension deduction")
		}
		if blank(in.PensionPolicyNumber) {
			v.warnf("pension_policy_number", "pension policy number is recommended for pension deduction claims")
		}
	}

	if in.HealthInsurance.IsPositive() {
		if blank(in.HealthProviderName) {
			v.failf("health_provider_name", "health insurance provider name is required when claiming health insurance deduction")
		}
		if blank(in.HealthPolicyNumber) {
			v.warnf("health_policy_number", "health insurance policy number is recommended for health insurance claims")
		}
	}

	return v.result()
}

// ValidateCIT applies the cross-field rules gating a CIT computation.
func ValidateCIT(in CITInput, snap Snapshot) (*apperr.ValidationError, []apperr.FieldError) {
	v := &validator{}

	if blank(in.BusinessName) {
		v.failf("business_name", "business name is required")
	}
	if in.AnnualTurnover.IsNegative() {
		v.failf("annual_turnover", "annual turnover cannot be negative")
	}
	if in.AssetValue.IsNegative() {
		v.failf("asset_value", "asset value cannot be negative")
	}
	if in.AssessableProfits.IsNegative() {
		v.failf("assessable_profits", "assessable profits cannot be negative")
	}

	if in.AssetValue.GreaterThan(in.AnnualTurnover.Mul(decimal.NewFromInt(10))) && in.AssetValue.IsPositive() {
		v.warnf("asset_value", "asset value is more than 10x annual turnover, please verify")
	}

	if in.IsAgricultural {
		if in.AgriStartDate == nil {
			v.failf("agricultural_start_date", "start date is required for agricultural businesses")
		} else {
			if in.AgriStartDate.After(time.Now()) {
				v.failf("agricultural_start_date", "start date cannot be in the future")
			}
			if snap.TaxYear-in.AgriStartDate.Year() > snap.AgriMaxLookbackYears {
				v.failf("agricultural_start_date", "start date is more than %d years ago", snap.AgriMaxLookbackYears)
			}
		}
	}

	if isExemptOrgType(in.BusinessType) && !in.TaxExemptStatus {
		v.warnf("tax_exempt_status", "exempt organization type selected but tax-exempt status is not confirmed")
	}
	if in.TaxExemptStatus && blank(in.BusinessType) {
		v.failf("business_type", "business type is required when claiming tax-exempt status")
	}

	return v.result()
}

// ValidateCGT applies the cross-field rules gating a CGT computation.
func ValidateCGT(in CGTInput, snap Snapshot) (*apperr.ValidationError, []apperr.FieldError) {
	v := &validator{}

	if in.Proceeds.IsNegative() {
		v.failf("proceeds", "proceeds cannot be negative")
	}
	if in.CostBasis.IsNegative() {
		v.failf("cost_basis", "cost basis cannot be negative")
	}
	if in.CostBasis.GreaterThan(in.Proceeds) {
		v.warnf("cost_basis", "cost basis exceeds proceeds, the transaction is a capital loss with no tax due")
	}

	if in.IsPrivateResidence && in.IsPersonalVehicle {
		v.failf("is_personal_vehicle", "asset cannot be both a private residence and a personal vehicle")
	}
	if in.IsPersonalVehicle && in.VehicleCount < 1 {
		v.failf("vehicle_count", "vehicle count is required when claiming personal vehicle exemption")
	}
	if in.VehicleCount > 2 {
		v.warnf("vehicle_count", "only the first 2 personal vehicles are exempt")
	}

	if in.IsLossOfOffice {
		if !in.SeveranceAmount.IsPositive() {
			v.failf("severance_amount", "severance amount is required when claiming loss-of-office exemption")
		}
		if in.SeveranceAmount.GreaterThan(snap.SeveranceExemptionCap) {
			v.warnf("severance_amount", "severance amount exceeds the %s exemption cap, the excess is taxable",
				snap.SeveranceExemptionCap.StringFixed(0))
		}
		if in.TerminationDate == nil {
			v.failf("termination_date", "termination date is required when claiming loss-of-office exemption")
		} else if in.TerminationDate.After(time.Now()) {
			v.failf("termination_date", "termination date cannot be in the future")
		}
		if blank(in.EmployerName) {
			v.failf("employer_name", "employer name is required when claiming loss-of-office exemption")
		}
		if blank(in.TerminationReason) {
			v.warnf("termination_reason", "termination reason is recommended for loss-of-office claims")
		}
		if in.YearsOfService < 0 {
			v.failf("years_of_service", "years of service cannot be negative")
		}
		if in.YearsOfService > 50 {
			v.warnf("years_of_service", "years of service exceeds 50, please verify")
		}
	}

	return v.result()
}

// ValidatePresumptive applies the cross-field rules gating a presumptive
// tax assessment.
func ValidatePresumptive(in PresumptiveInput, snap Snapshot) (*apperr.ValidationError, []apperr.FieldError) {
	v := &validator{}

	if blank(in.ActivityType) {
		v.failf("activity_type", "activity type is required")
	}
	if in.EstimatedTurnover.IsNegative() {
		v.failf("estimated_turnover", "estimated turnover cannot be negative")
	}
	if in.EstimatedTurnover.GreaterThan(snap.PresumptiveCITCeiling) {
		v.warnf("estimated_turnover", "turnover exceeds %s, the business likely belongs in the standard CIT regime",
			snap.PresumptiveCITCeiling.StringFixed(0))
	}
	if in.EmployeeCount < 0 {
		v.failf("employee_count", "employee count cannot be negative")
	}
	if in.EmployeeCount > 10 {
		v.warnf("employee_count", "employee count exceeds 10, the business may not qualify for presumptive assessment")
	}

	return v.result()
}

// ValidateVAT applies the rules gating a VAT computation.
func ValidateVAT(in VATInput) (*apperr.ValidationError, []apperr.FieldError) {
	v := &validator{}
	if in.BaseAmount.IsNegative() {
		v.failf("base_amount", "base amount cannot be negative")
	}
	return v.result()
}

func isExemptOrgType(businessType string) bool {
	switch businessType {
	case "ngo", "charity", "religious", "educational":
		return true
	}
	return false
}
