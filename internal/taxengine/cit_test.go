package taxengine

import (
	"testing"
	"time"

	"backend/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y, m, day int) *time.Time {
	t := time.Date(y, time.Month(m), day, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestComputeCITSmallCompany(t *testing.T) {
	snap := DefaultSnapshot(2026)

	res, err := ComputeCIT(CITInput{
		BusinessName:   "Unity Traders Ltd",
		AnnualTurnover: d(80_000_000),
		AssetValue:     d(150_000_000),
	}, snap)
	require.NoError(t, err)

	assert.True(t, res.TaxLiability.IsZero())
	assert.True(t, res.Breakdown.IsSmallCompany)
	assert.False(t, res.Breakdown.IsLargeCompany)
	require.NotNil(t, res.Breakdown.DevelopmentLevy)
	assert.True(t, res.Breakdown.DevelopmentLevy.IsZero())
}

func TestComputeCITStandardRateWithLevy(t *testing.T) {
	snap := DefaultSnapshot(2026)

	res, err := ComputeCIT(CITInput{
		BusinessName:      "Kano Mills Plc",
		AnnualTurnover:    d(200_000_000),
		AssetValue:        d(300_000_000),
		AssessableProfits: d(20_000_000),
	}, snap)
	require.NoError(t, err)

	// 30% of 20M, plus 4% levy reported separately
	assert.True(t, res.TaxLiability.Equal(d(6_000_000)), "liability = %s", res.TaxLiability)
	require.NotNil(t, res.Breakdown.DevelopmentLevy)
	assert.True(t, res.Breakdown.DevelopmentLevy.Equal(d(800_000)))
	require.NotNil(t, res.Breakdown.TotalTaxBurden)
	assert.True(t, res.Breakdown.TotalTaxBurden.Equal(d(6_800_000)))
}

func TestComputeCITAssessableProfitsDefaultToTurnoverRatio(t *testing.T) {
	snap := DefaultSnapshot(2026)

	res, err := ComputeCIT(CITInput{
		BusinessName:   "Delta Services Ltd",
		AnnualTurnover: d(500_000_000),
		AssetValue:     d(400_000_000),
	}, snap)
	require.NoError(t, err)

	// assessable defaults to 10% of turnover
	assert.True(t, res.TaxableIncome.Equal(d(50_000_000)))
	assert.True(t, res.TaxLiability.Equal(d(15_000_000)))
}

func TestComputeCITExemptOrganization(t *testing.T) {
	snap := DefaultSnapshot(2026)

	res, err := ComputeCIT(CITInput{
		BusinessName:    "Hope Foundation",
		AnnualTurnover:  d(300_000_000),
		AssetValue:      d(100_000_000),
		BusinessType:    "ngo",
		TaxExemptStatus: true,
	}, snap)
	require.NoError(t, err)

	assert.True(t, res.TaxLiability.IsZero())
	assert.True(t, res.Breakdown.IsExempt)
	assert.Contains(t, res.Breakdown.ExemptionReason, "Exempt organization")
}

func TestComputeCITExemptTypeWithoutStatusIsNotExempt(t *testing.T) {
	snap := DefaultSnapshot(2026)

	res, err := ComputeCIT(CITInput{
		BusinessName:      "Bright Schools Ltd",
		AnnualTurnover:    d(300_000_000),
		AssetValue:        d(300_000_000),
		AssessableProfits: d(30_000_000),
		BusinessType:      "educational",
	}, snap)
	require.NoError(t, err)

	assert.False(t, res.Breakdown.IsExempt)
	assert.False(t, res.TaxLiability.IsZero())
	assert.NotEmpty(t, res.Warnings) // unconfirmed exemption raises a warning
}

func TestComputeCITAgriculturalHoliday(t *testing.T) {
	snap := DefaultSnapshot(2026)

	tcs := []struct {
		name       string
		start      *time.Time
		wantExempt bool
	}{
		{"third year of operation", date(2023, 6, 1), true},
		{"final holiday year", date(2022, 1, 1), true},
		{"holiday just expired", date(2021, 1, 1), false},
		{"mid-year start still counts by calendar year", date(2021, 12, 31), false},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			res, err := ComputeCIT(CITInput{
				BusinessName:      "Green Farms Ltd",
				AnnualTurnover:    d(400_000_000),
				AssetValue:        d(500_000_000),
				AssessableProfits: d(40_000_000),
				IsAgricultural:    true,
				AgriStartDate:     tc.start,
			}, snap)
			require.NoError(t, err)

			assert.Equal(t, tc.wantExempt, res.Breakdown.IsExempt)
			if tc.wantExempt {
				assert.True(t, res.TaxLiability.IsZero())
				assert.Contains(t, res.Breakdown.ExemptionReason, "Agricultural tax holiday")
			}
		})
	}
}

func TestComputeCITMinimumEffectiveRateFloor(t *testing.T) {
	// Lower the statutory rate below the floor so the floor binds.
	snap := DefaultSnapshot(2026)
	snap.CITStandardRate = rate("0.10")

	res, err := ComputeCIT(CITInput{
		BusinessName:      "Continental Energy Plc",
		AnnualTurnover:    d(25_000_000_000),
		AssetValue:        d(40_000_000_000),
		AssessableProfits: d(2_000_000_000),
	}, snap)
	require.NoError(t, err)

	assert.True(t, res.Breakdown.IsLargeCompany)
	// floor: 15% of 2B = 300M beats 10% standard = 200M
	assert.True(t, res.TaxLiability.Equal(d(300_000_000)), "liability = %s", res.TaxLiability)
}

func TestComputeCITValidationFailures(t *testing.T) {
	snap := DefaultSnapshot(2026)

	tcs := []struct {
		name      string
		input     CITInput
		wantField string
	}{
		{
			name:      "missing business name",
			input:     CITInput{AnnualTurnover: d(1_000_000)},
			wantField: "business_name",
		},
		{
			name: "negative turnover",
			input: CITInput{
				BusinessName:   "X Ltd",
				AnnualTurnover: d(-5),
			},
			wantField: "annual_turnover",
		},
		{
			name: "agricultural without start date",
			input: CITInput{
				BusinessName:   "Y Farms",
				AnnualTurnover: d(1_000_000),
				IsAgricultural: true,
			},
			wantField: "agricultural_start_date",
		},
		{
			name: "agricultural start date in the future",
			input: CITInput{
				BusinessName:   "Z Farms",
				AnnualTurnover: d(1_000_000),
				IsAgricultural: true,
				AgriStartDate:  date(2200, 1, 1),
			},
			wantField: "agricultural_start_date",
		},
		{
			name: "exempt status without business type",
			input: CITInput{
				BusinessName:    "Q Ltd",
				AnnualTurnover:  d(1_000_000),
				TaxExemptStatus: true,
			},
			wantField: "business_type",
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ComputeCIT(tc.input, snap)
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
