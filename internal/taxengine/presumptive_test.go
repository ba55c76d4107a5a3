package taxengine

import (
	"testing"

	"backend/pkg/apperr"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputePresumptive(t *testing.T) {
	snap := DefaultSnapshot(2026)

	tcs := []struct {
		name          string
		input         PresumptiveInput
		wantLiability string
		wantBelow     bool
	}{
		{
			name: "street vendor at 1 percent",
			input: PresumptiveInput{
				ActivityType:      "street_vendor",
				EstimatedTurnover: d(2_000_000),
			},
			wantLiability: "20000",
		},
		{
			name: "artisan at 1.5 percent",
			input: PresumptiveInput{
				ActivityType:      "artisan",
				EstimatedTurnover: d(3_000_000),
			},
			wantLiability: "45000",
		},
		{
			name: "unknown activity falls back to the default rate",
			input: PresumptiveInput{
				ActivityType:      "fisherman",
				EstimatedTurnover: d(2_000_000),
			},
			wantLiability: "40000",
		},
		{
			name: "turnover below the minimum threshold owes nothing",
			input: PresumptiveInput{
				ActivityType:      "small_trader",
				EstimatedTurnover: d(700_000),
			},
			wantLiability: "0",
			wantBelow:     true,
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			res, err := ComputePresumptive(tc.input, snap)
			require.NoError(t, err)

			assert.Equal(t, TaxTypePresumptive, res.TaxType)
			assert.True(t, res.TaxLiability.Equal(decimal.RequireFromString(tc.wantLiability)),
				"liability = %s, want %s", res.TaxLiability, tc.wantLiability)
			assert.True(t, res.Breakdown.IsPresumptive)
			assert.Equal(t, tc.wantBelow, res.Breakdown.BelowThreshold)
		})
	}
}

func TestComputePresumptiveHighTurnoverWarns(t *testing.T) {
	snap := DefaultSnapshot(2026)

	res, err := ComputePresumptive(PresumptiveInput{
		ActivityType:      "small_trader",
		EstimatedTurnover: d(150_000_000),
	}, snap)
	require.NoError(t, err)

	require.NotEmpty(t, res.Warnings)
	assert.Equal(t, "estimated_turnover", res.Warnings[0].Field)
}

func TestComputePresumptiveMissingActivityFails(t *testing.T) {
	snap := DefaultSnapshot(2026)

	_, err := ComputePresumptive(PresumptiveInput{EstimatedTurnover: d(2_000_000)}, snap)
	require.Error(t, err)

	ve, ok := apperr.IsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "activity_type", ve.Errors[0].Field)
}
