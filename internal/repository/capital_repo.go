package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CapitalRepository interface {
	CreateExpenditure(ctx context.Context, exp *model.CapitalExpenditure) error
	UpdateExpenditure(ctx context.Context, exp *model.CapitalExpenditure) error
	DeleteExpenditure(ctx context.Context, id uuid.UUID) error
	GetExpenditureByID(ctx context.Context, id uuid.UUID) (*model.CapitalExpenditure, error)
	ListExpendituresByBusiness(ctx context.Context, businessID uuid.UUID, taxYear int) ([]model.CapitalExpenditure, error)

	CreateCarryForward(ctx context.Context, cf *model.TaxCreditCarryForward) error
	UpdateCarryForward(ctx context.Context, cf *model.TaxCreditCarryForward) error
	DeleteCarryForward(ctx context.Context, id uuid.UUID) error
	GetCarryForwardByExpenditure(ctx context.Context, expenditureID uuid.UUID) (*model.TaxCreditCarryForward, error)
	ListOpenCarryForwards(ctx context.Context, businessID uuid.UUID) ([]model.TaxCreditCarryForward, error)
}

type capitalRepository struct {
	db *gorm.DB
}

func NewCapitalRepository(db *gorm.DB) CapitalRepository {
	return &capitalRepository{db: db}
}

func (r *capitalRepository) CreateExpenditure(ctx context.Context, exp *model.CapitalExpenditure) error {
	return GetDB(ctx, r.db).Create(exp).Error
}

func (r *capitalRepository) UpdateExpenditure(ctx context.Context, exp *model.CapitalExpenditure) error {
	return GetDB(ctx, r.db).Save(exp).Error
}

func (r *capitalRepository) DeleteExpenditure(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.CapitalExpenditure{}).Error
}

func (r *capitalRepository) GetExpenditureByID(ctx context.Context, id uuid.UUID) (*model.CapitalExpenditure, error) {
	var exp model.CapitalExpenditure
	if err := GetDB(ctx, r.db).First(&exp, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &exp, nil
}

func (r *capitalRepository) ListExpendituresByBusiness(ctx context.Context, businessID uuid.UUID, taxYear int) ([]model.CapitalExpenditure, error) {
	var exps []model.CapitalExpenditure
	db := GetDB(ctx, r.db).Where("business_id = ?", businessID)
	if taxYear > 0 {
		db = db.Where("tax_year = ?", taxYear)
	}
	if err := db.Order("tax_year asc, created_at asc").Find(&exps).Error; err != nil {
		return nil, err
	}
	return exps, nil
}

func (r *capitalRepository) CreateCarryForward(ctx context.Context, cf *model.TaxCreditCarryForward) error {
	return GetDB(ctx, r.db).Create(cf).Error
}

func (r *capitalRepository) UpdateCarryForward(ctx context.Context, cf *model.TaxCreditCarryForward) error {
	return GetDB(ctx, r.db).Save(cf).Error
}

func (r *capitalRepository) DeleteCarryForward(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.TaxCreditCarryForward{}).Error
}

func (r *capitalRepository) GetCarryForwardByExpenditure(ctx context.Context, expenditureID uuid.UUID) (*model.TaxCreditCarryForward, error) {
	var cf model.TaxCreditCarryForward
	if err := GetDB(ctx, r.db).First(&cf, "capital_expenditure_id = ?", expenditureID).Error; err != nil {
		return nil, err
	}
	return &cf, nil
}

// ListOpenCarryForwards returns carry-forward entries that still have credit
// left, oldest origin year first. Expired entries are filtered by the caller
// against the year being assessed.
func (r *capitalRepository) ListOpenCarryForwards(ctx context.Context, businessID uuid.UUID) ([]model.TaxCreditCarryForward, error) {
	var cfs []model.TaxCreditCarryForward
	err := GetDB(ctx, r.db).
		Where("business_id = ? AND fully_utilized = ?", businessID, false).
		Order("origin_year asc, created_at asc").
		Find(&cfs).Error
	if err != nil {
		return nil, err
	}
	return cfs, nil
}
