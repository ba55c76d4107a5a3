package taxengine

import (
	"testing"

	"backend/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeCGTExemptions(t *testing.T) {
	snap := DefaultSnapshot(2026)

	tcs := []struct {
		name       string
		input      CGTInput
		wantReason string
	}{
		{
			name: "small transaction below both thresholds",
			input: CGTInput{
				Proceeds:  d(100_000_000),
				CostBasis: d(95_000_000),
			},
			wantReason: "Small transaction",
		},
		{
			name: "private residence",
			input: CGTInput{
				Proceeds:           d(400_000_000),
				CostBasis:          d(100_000_000),
				IsPrivateResidence: true,
			},
			wantReason: "Private residence",
		},
		{
			name: "personal vehicles up to two",
			input: CGTInput{
				Proceeds:          d(200_000_000),
				CostBasis:         d(20_000_000),
				IsPersonalVehicle: true,
				VehicleCount:      2,
			},
			wantReason: "Personal vehicle",
		},
		{
			name: "loss of office under the severance cap",
			input: CGTInput{
				Proceeds:        d(40_000_000),
				CostBasis:       d(0),
				IsLossOfOffice:  true,
				SeveranceAmount: d(40_000_000),
				TerminationDate: date(2025, 11, 30),
				EmployerName:    "First Bank",
			},
			wantReason: "Loss-of-office",
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			res, err := ComputeCGT(tc.input, snap)
			require.NoError(t, err)

			assert.True(t, res.Breakdown.IsExempt)
			assert.True(t, res.TaxLiability.IsZero())
			assert.Contains(t, res.Breakdown.ExemptionReason, tc.wantReason)
		})
	}
}

func TestComputeCGTCompanyFlatRate(t *testing.T) {
	snap := DefaultSnapshot(2026)

	res, err := ComputeCGT(CGTInput{
		Proceeds:  d(300_000_000),
		CostBasis: d(200_000_000),
		IsCompany: true,
	}, snap)
	require.NoError(t, err)

	// gain 100M at the 30% company rate
	assert.False(t, res.Breakdown.IsExempt)
	assert.True(t, res.TaxLiability.Equal(d(30_000_000)), "liability = %s", res.TaxLiability)
	require.NotNil(t, res.Breakdown.CapitalGain)
	assert.True(t, res.Breakdown.CapitalGain.Equal(d(100_000_000)))
	assert.True(t, res.Breakdown.IsCompany)
}

func TestComputeCGTIndividualUsesProgressiveBrackets(t *testing.T) {
	snap := DefaultSnapshot(2026)

	res, err := ComputeCGT(CGTInput{
		Proceeds:  d(200_000_000),
		CostBasis: d(195_240_000),
	}, snap)
	require.NoError(t, err)

	// gain 4,760,000 through the PIT table with no reliefs: 646,800
	assert.Equal(t, TaxTypeCGT, res.TaxType)
	assert.True(t, res.TaxLiability.Equal(d(646_800)), "liability = %s", res.TaxLiability)
	assert.NotEmpty(t, res.Breakdown.Slabs)
}

func TestComputeCGTCapitalLoss(t *testing.T) {
	snap := DefaultSnapshot(2026)

	res, err := ComputeCGT(CGTInput{
		Proceeds:  d(180_000_000),
		CostBasis: d(190_000_000),
		IsCompany: true,
	}, snap)
	require.NoError(t, err)

	assert.True(t, res.TaxLiability.IsZero())
	assert.True(t, res.TaxableIncome.IsNegative())
	assert.NotEmpty(t, res.Warnings)
}

func TestComputeCGTValidationFailures(t *testing.T) {
	snap := DefaultSnapshot(2026)

	tcs := []struct {
		name      string
		input     CGTInput
		wantField string
	}{
		{
			name: "residence and vehicle flags conflict",
			input: CGTInput{
				Proceeds:           d(10_000_000),
				IsPrivateResidence: true,
				IsPersonalVehicle:  true,
				VehicleCount:       1,
			},
			wantField: "is_personal_vehicle",
		},
		{
			name: "vehicle exemption without a count",
			input: CGTInput{
				Proceeds:          d(10_000_000),
				IsPersonalVehicle: true,
			},
			wantField: "vehicle_count",
		},
		{
			name: "loss of office without severance details",
			input: CGTInput{
				Proceeds:       d(10_000_000),
				IsLossOfOffice: true,
			},
			wantField: "severance_amount",
		},
		{
			name: "loss of office with future termination date",
			input: CGTInput{
				Proceeds:        d(10_000_000),
				IsLossOfOffice:  true,
				SeveranceAmount: d(10_000_000),
				TerminationDate: date(2200, 1, 1),
				EmployerName:    "Zenith Bank",
			},
			wantField: "termination_date",
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ComputeCGT(tc.input, snap)
			require.Error(t, err)

			ve, ok := apperr.IsValidation(err)
			require.True(t, ok)
			fields := make([]string, 0, len(ve.Errors))
			for _, fe := range ve.Errors {
				fields = append(fields, fe.Field)
			}
			assert.Contains(t, fields, tc.wantField)
		})
	}
}
