package taxengine

import (
	"testing"

	"backend/pkg/apperr"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputePIT(t *testing.T) {
	snap := DefaultSnapshot(2026)

	tcs := []struct {
		name          string
		input         PITInput
		wantTaxable   string
		wantLiability string
		wantRent      string
	}{
		{
			name: "rent relief capped at 20 percent of rent",
			input: PITInput{
				GrossIncome:     d(5_000_000),
				RentPaid:        d(1_200_000),
				LandlordName:    "A. Bello",
				LandlordAddress: "14 Marina Rd, Lagos",
				LandlordTIN:     "TIN-0042",
			},
			wantRent:      "240000",
			wantTaxable:   "4760000",
			wantLiability: "646800",
		},
		{
			name:          "income inside tax-free band owes nothing",
			input:         PITInput{GrossIncome: d(600_000)},
			wantRent:      "0",
			wantTaxable:   "600000",
			wantLiability: "0",
		},
		{
			name: "rent relief hits the absolute cap",
			input: PITInput{
				GrossIncome:     d(10_000_000),
				RentPaid:        d(4_000_000),
				LandlordName:    "B. Okafor",
				LandlordAddress: "3 Airport Rd, Abuja",
				LandlordTIN:     "TIN-0099",
			},
			// 20% of 4M is 800k, capped at 500k
			wantRent:      "500000",
			wantTaxable:   "9500000",
			wantLiability: "1500000",
		},
		{
			name: "pension and health stack with rent relief",
			input: PITInput{
				GrossIncome:         d(5_000_000),
				RentPaid:            d(1_000_000),
				PensionContribution: d(300_000),
				HealthInsurance:     d(100_000),
				LandlordName:        "C. Adamu",
				LandlordAddress:     "7 Bompai Rd, Kano",
				LandlordTIN:         "TIN-0100",
				PensionProviderName: "Stanbic Pensions",
				PensionPolicyNumber: "SP-1",
				HealthProviderName:  "AXA Mansard",
				HealthPolicyNumber:  "AX-1",
			},
			// deductions 200k + 300k + 100k = 600k
			wantRent:      "200000",
			wantTaxable:   "4400000",
			wantLiability: "582000",
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			res, err := ComputePIT(tc.input, snap)
			require.NoError(t, err)

			assert.Equal(t, TaxTypePIT, res.TaxType)
			assert.True(t, res.Reliefs.RentRelief.Equal(decimal.RequireFromString(tc.wantRent)),
				"rent relief = %s, want %s", res.Reliefs.RentRelief, tc.wantRent)
			assert.True(t, res.TaxableIncome.Equal(decimal.RequireFromString(tc.wantTaxable)),
				"taxable = %s, want %s", res.TaxableIncome, tc.wantTaxable)
			assert.True(t, res.TaxLiability.Equal(decimal.RequireFromString(tc.wantLiability)),
				"liability = %s, want %s", res.TaxLiability, tc.wantLiability)
			assert.True(t, res.NetIncome.Equal(res.GrossIncome.Sub(res.TaxLiability)))
		})
	}
}

func TestComputePITDeductionsClampTaxableAtZero(t *testing.T) {
	snap := DefaultSnapshot(2026)

	res, err := ComputePIT(PITInput{
		GrossIncome:         d(1_000_000),
		PensionContribution: d(1_000_000),
		PensionProviderName: "ARM Pensions",
		PensionPolicyNumber: "ARM-7",
	}, snap)
	require.NoError(t, err)

	assert.True(t, res.TaxableIncome.IsZero())
	assert.True(t, res.TaxLiability.IsZero())
	assert.True(t, res.Breakdown.EffectiveRate.IsZero())
}

func TestComputePITEffectiveAndMarginalRates(t *testing.T) {
	snap := DefaultSnapshot(2026)

	res, err := ComputePIT(PITInput{GrossIncome: d(5_000_000)}, snap)
	require.NoError(t, err)

	// 5M taxable: last bracket touched is 3M-12M at 18%
	assert.True(t, res.Breakdown.MarginalRate.Equal(d(18)))
	assert.False(t, res.Breakdown.EffectiveRate.IsZero())
	assert.True(t, res.Breakdown.EffectiveRate.LessThan(res.Breakdown.MarginalRate))
	assert.Len(t, res.Breakdown.Slabs, 3)
}

func TestComputePITValidationFailures(t *testing.T) {
	snap := DefaultSnapshot(2026)

	tcs := []struct {
		name      string
		input     PITInput
		wantField string
	}{
		{
			name:      "negative gross income",
			input:     PITInput{GrossIncome: d(-1)},
			wantField: "gross_income",
		},
		{
			name: "rent relief without landlord details",
			input: PITInput{
				GrossIncome: d(5_000_000),
				RentPaid:    d(1_000_000),
			},
			wantField: "landlord_name",
		},
		{
			name: "pension without provider",
			input: PITInput{
				GrossIncome:         d(5_000_000),
				PensionContribution: d(200_000),
			},
			wantField: "pension_provider_name",
		},
		{
			name: "deductions exceed gross income",
			input: PITInput{
				GrossIncome:         d(1_000_000),
				PensionContribution: d(900_000),
				HealthInsurance:     d(200_000),
				PensionProviderName: "ARM Pensions",
				HealthProviderName:  "AXA Mansard",
			},
			wantField: "deductions",
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ComputePIT(tc.input, snap)
			require.Error(t, err)

			ve, ok := apperr.IsValidation(err)
			require.True(t, ok, "expected a validation error, got %v", err)

			fields := make([]string, 0, len(ve.Errors))
			for _, fe := range ve.Errors {
				fields = append(fields, fe.Field)
			}
			assert.Contains(t, fields, tc.wantField)
		})
	}
}

func TestComputePITMissingTINWarnsButPasses(t *testing.T) {
	snap := DefaultSnapshot(2026)

	res, err := ComputePIT(PITInput{
		GrossIncome:     d(5_000_000),
		RentPaid:        d(1_000_000),
		LandlordName:    "D. Eze",
		LandlordAddress: "2 Aba Rd, Port Harcourt",
	}, snap)
	require.NoError(t, err)

	require.NotEmpty(t, res.Warnings)
	assert.Equal(t, "landlord_tin", res.Warnings[0].Field)
}
