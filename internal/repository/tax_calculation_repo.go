package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaxCalculationRepository interface {
	Create(ctx context.Context, calc *model.TaxCalculation) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.TaxCalculation, error)
	ListByUser(ctx context.Context, userID uuid.UUID, taxType string, taxYear int) ([]model.TaxCalculation, error)
	LatestByUserAndType(ctx context.Context, userID uuid.UUID, taxType string, taxYear int) (*model.TaxCalculation, error)
}

type taxCalculationRepository struct {
	db *gorm.DB
}

func NewTaxCalculationRepository(db *gorm.DB) TaxCalculationRepository {
	return &taxCalculationRepository{db: db}
}

func (r *taxCalculationRepository) Create(ctx context.Context, calc *model.TaxCalculation) error {
	return GetDB(ctx, r.db).Create(calc).Error
}

func (r *taxCalculationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.TaxCalculation{}).Error
}

func (r *taxCalculationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.TaxCalculation, error) {
	var calc model.TaxCalculation
	if err := GetDB(ctx, r.db).First(&calc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &calc, nil
}

func (r *taxCalculationRepository) ListByUser(ctx context.Context, userID uuid.UUID, taxType string, taxYear int) ([]model.TaxCalculation, error) {
	var calcs []model.TaxCalculation
	db := GetDB(ctx, r.db).Where("user_id = ?", userID)
	if taxType != "" {
		db = db.Where("tax_type = ?", taxType)
	}
	if taxYear > 0 {
		db = db.Where("tax_year = ?", taxYear)
	}
	if err := db.Order("created_at desc").Find(&calcs).Error; err != nil {
		return nil, err
	}
	return calcs, nil
}

func (r *taxCalculationRepository) LatestByUserAndType(ctx context.Context, userID uuid.UUID, taxType string, taxYear int) (*model.TaxCalculation, error) {
	var calc model.TaxCalculation
	err := GetDB(ctx, r.db).
		Where("user_id = ? AND tax_type = ? AND tax_year = ?", userID, taxType, taxYear).
		Order("created_at desc").
		First(&calc).Error
	if err != nil {
		return nil, err
	}
	return &calc, nil
}
