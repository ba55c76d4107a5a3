package service

import (
	"context"
	"errors"
	"testing"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperr"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newConfigTestEnv(t *testing.T) (TaxConfigService, *gorm.DB, model.User) {
	t.Helper()
	db := newTestDB(t)
	admin := seedUser(t, db, model.RoleAdmin)
	svc := NewTaxConfigService(
		repository.NewTaxConfigRepository(db),
		repository.NewAuditRepository(db),
		repository.NewTransactionManager(db),
	)
	return svc, db, admin
}

func TestSnapshotFallsBackToDefaults(t *testing.T) {
	svc, _, _ := newConfigTestEnv(t)

	snap, err := svc.Snapshot(context.Background(), 2026)
	require.NoError(t, err)

	assert.Equal(t, 2026, snap.TaxYear)
	assert.True(t, snap.TaxFreeThreshold.Equal(decimal.NewFromInt(800_000)))
	assert.True(t, snap.CapitalCreditRate.Equal(decimal.RequireFromString("0.05")))
	assert.Equal(t, 5, snap.CarryforwardYears)
}

func TestSnapshotAppliesStoredOverrides(t *testing.T) {
	svc, _, admin := newConfigTestEnv(t)
	ctx := context.Background()

	_, err := svc.CreateConfig(ctx, admin.ID.String(), CreateTaxConfigRequest{
		TaxYear:     2027,
		ConfigKey:   "vat_standard_rate",
		ConfigValue: "0.10",
		ValueType:   model.ConfigNumber,
	})
	require.NoError(t, err)

	inactive, err := svc.CreateConfig(ctx, admin.ID.String(), CreateTaxConfigRequest{
		TaxYear:     2027,
		ConfigKey:   "tax_free_threshold",
		ConfigValue: "1000000",
		ValueType:   model.ConfigNumber,
	})
	require.NoError(t, err)
	off := false
	_, err = svc.UpdateConfig(ctx, admin.ID.String(), inactive.ID, UpdateTaxConfigRequest{IsActive: &off})
	require.NoError(t, err)

	snap, err := svc.Snapshot(ctx, 2027)
	require.NoError(t, err)

	// Active override wins, inactive one is ignored
	assert.True(t, snap.VATStandardRate.Equal(decimal.RequireFromString("0.10")))
	assert.True(t, snap.TaxFreeThreshold.Equal(decimal.NewFromInt(800_000)))

	// Another year is untouched
	other, err := svc.Snapshot(ctx, 2026)
	require.NoError(t, err)
	assert.True(t, other.VATStandardRate.Equal(decimal.RequireFromString("0.075")))
}

func TestSnapshotOverridesBrackets(t *testing.T) {
	svc, _, admin := newConfigTestEnv(t)
	ctx := context.Background()

	_, err := svc.CreateConfig(ctx, admin.ID.String(), CreateTaxConfigRequest{
		TaxYear:     2027,
		ConfigKey:   "pit_brackets",
		ConfigValue: `[{"lower":"0","upper":"1000000","rate":"0"},{"lower":"1000000","upper":null,"rate":"20"}]`,
		ValueType:   model.ConfigJSON,
	})
	require.NoError(t, err)

	snap, err := svc.Snapshot(ctx, 2027)
	require.NoError(t, err)

	require.Len(t, snap.PITBrackets, 2)
	assert.True(t, snap.PITBrackets[1].Rate.Equal(decimal.NewFromInt(20)))
	assert.Nil(t, snap.PITBrackets[1].Upper)
}

func TestCreateConfigRejectsDuplicatesAndBadValues(t *testing.T) {
	svc, _, admin := newConfigTestEnv(t)
	ctx := context.Background()

	_, err := svc.CreateConfig(ctx, admin.ID.String(), CreateTaxConfigRequest{
		TaxYear:     2026,
		ConfigKey:   "vat_standard_rate",
		ConfigValue: "0.075",
		ValueType:   model.ConfigNumber,
	})
	require.NoError(t, err)

	_, err = svc.CreateConfig(ctx, admin.ID.String(), CreateTaxConfigRequest{
		TaxYear:     2026,
		ConfigKey:   "vat_standard_rate",
		ConfigValue: "0.08",
		ValueType:   model.ConfigNumber,
	})
	assert.True(t, errors.Is(err, apperr.ErrConflict))

	_, err = svc.CreateConfig(ctx, admin.ID.String(), CreateTaxConfigRequest{
		TaxYear:     2026,
		ConfigKey:   "cit_standard_rate",
		ConfigValue: "thirty percent",
		ValueType:   model.ConfigNumber,
	})
	require.Error(t, err)

	_, err = svc.CreateConfig(ctx, admin.ID.String(), CreateTaxConfigRequest{
		TaxYear:     2026,
		ConfigKey:   "presumptive_rates",
		ConfigValue: "{not json",
		ValueType:   model.ConfigJSON,
	})
	require.Error(t, err)
}

func TestSeedDefaultsIsIdempotent(t *testing.T) {
	svc, db, admin := newConfigTestEnv(t)
	ctx := context.Background()

	inserted, err := svc.SeedDefaults(ctx, admin.ID.String(), 2026)
	require.NoError(t, err)
	assert.Equal(t, 21, inserted)

	// Second run inserts nothing
	inserted, err = svc.SeedDefaults(ctx, admin.ID.String(), 2026)
	require.NoError(t, err)
	assert.Zero(t, inserted)

	// Manual overrides survive reseeding
	cfgs, err := svc.ListConfigs(ctx, 2026)
	require.NoError(t, err)
	assert.Len(t, cfgs, 21)

	var row model.TaxConfiguration
	require.NoError(t, db.Where("tax_year = ? AND config_key = ?", 2026, "vat_standard_rate").First(&row).Error)
	row.ConfigValue = "0.125"
	require.NoError(t, db.Save(&row).Error)

	_, err = svc.SeedDefaults(ctx, admin.ID.String(), 2026)
	require.NoError(t, err)

	snap, err := svc.Snapshot(ctx, 2026)
	require.NoError(t, err)
	assert.True(t, snap.VATStandardRate.Equal(decimal.RequireFromString("0.125")))
}

func TestSeededSnapshotMatchesDefaults(t *testing.T) {
	svc, _, admin := newConfigTestEnv(t)
	ctx := context.Background()

	_, err := svc.SeedDefaults(ctx, admin.ID.String(), 2026)
	require.NoError(t, err)

	snap, err := svc.Snapshot(ctx, 2026)
	require.NoError(t, err)

	// Round-tripping the statutory defaults through the store changes nothing
	assert.True(t, snap.TaxFreeThreshold.Equal(decimal.NewFromInt(800_000)))
	assert.True(t, snap.CITStandardRate.Equal(decimal.RequireFromString("0.30")))
	assert.Equal(t, 5, snap.CarryforwardYears)
	assert.Len(t, snap.PITBrackets, 6)
	require.NotEmpty(t, snap.PresumptiveRates)
}
