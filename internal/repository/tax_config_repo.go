package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaxConfigRepository interface {
	Create(ctx context.Context, cfg *model.TaxConfiguration) error
	Update(ctx context.Context, cfg *model.TaxConfiguration) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.TaxConfiguration, error)
	GetByYearAndKey(ctx context.Context, taxYear int, key string) (*model.TaxConfiguration, error)
	ListByYear(ctx context.Context, taxYear int) ([]model.TaxConfiguration, error)
	CountByYear(ctx context.Context, taxYear int) (int64, error)
}

type taxConfigRepository struct {
	db *gorm.DB
}

func NewTaxConfigRepository(db *gorm.DB) TaxConfigRepository {
	return &taxConfigRepository{db: db}
}

func (r *taxConfigRepository) Create(ctx context.Context, cfg *model.TaxConfiguration) error {
	return GetDB(ctx, r.db).Create(cfg).Error
}

func (r *taxConfigRepository) Update(ctx context.Context, cfg *model.TaxConfiguration) error {
	return GetDB(ctx, r.db).Save(cfg).Error
}

func (r *taxConfigRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.TaxConfiguration{}).Error
}

func (r *taxConfigRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.TaxConfiguration, error) {
	var cfg model.TaxConfiguration
	if err := GetDB(ctx, r.db).First(&cfg, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *taxConfigRepository) GetByYearAndKey(ctx context.Context, taxYear int, key string) (*model.TaxConfiguration, error) {
	var cfg model.TaxConfiguration
	if err := GetDB(ctx, r.db).First(&cfg, "tax_year = ? AND config_key = ?", taxYear, key).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *taxConfigRepository) ListByYear(ctx context.Context, taxYear int) ([]model.TaxConfiguration, error) {
	var cfgs []model.TaxConfiguration
	if err := GetDB(ctx, r.db).Where("tax_year = ?", taxYear).Order("config_key asc").Find(&cfgs).Error; err != nil {
		return nil, err
	}
	return cfgs, nil
}

func (r *taxConfigRepository) CountByYear(ctx context.Context, taxYear int) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.TaxConfiguration{}).Where("tax_year = ?", taxYear).Count(&count).Error
	return count, err
}
