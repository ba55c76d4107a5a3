package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaxReturnRepository interface {
	Create(ctx context.Context, ret *model.TaxReturn) error
	Update(ctx context.Context, ret *model.TaxReturn) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.TaxReturn, error)
	GetByUserAndYear(ctx context.Context, userID uuid.UUID, businessID *uuid.UUID, taxYear int, taxType string) (*model.TaxReturn, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.TaxReturn, error)
	List(ctx context.Context, status string, page, limit int) ([]model.TaxReturn, int64, error)
}

type taxReturnRepository struct {
	db *gorm.DB
}

func NewTaxReturnRepository(db *gorm.DB) TaxReturnRepository {
	return &taxReturnRepository{db: db}
}

func (r *taxReturnRepository) Create(ctx context.Context, ret *model.TaxReturn) error {
	return GetDB(ctx, r.db).Create(ret).Error
}

func (r *taxReturnRepository) Update(ctx context.Context, ret *model.TaxReturn) error {
	return GetDB(ctx, r.db).Save(ret).Error
}

func (r *taxReturnRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.TaxReturn{}).Error
}

func (r *taxReturnRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.TaxReturn, error) {
	var ret model.TaxReturn
	if err := GetDB(ctx, r.db).First(&ret, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &ret, nil
}

// GetByUserAndYear looks up the single return keyed by
// (user, business, tax year, tax type). Personal returns carry no business,
// so a nil businessID matches only rows with a NULL business_id.
func (r *taxReturnRepository) GetByUserAndYear(ctx context.Context, userID uuid.UUID, businessID *uuid.UUID, taxYear int, taxType string) (*model.TaxReturn, error) {
	var ret model.TaxReturn
	db := GetDB(ctx, r.db).Where("user_id = ? AND tax_year = ? AND tax_type = ?", userID, taxYear, taxType)
	if businessID != nil {
		db = db.Where("business_id = ?", *businessID)
	} else {
		db = db.Where("business_id IS NULL")
	}
	if err := db.First(&ret).Error; err != nil {
		return nil, err
	}
	return &ret, nil
}

func (r *taxReturnRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.TaxReturn, error) {
	var rets []model.TaxReturn
	if err := GetDB(ctx, r.db).Where("user_id = ?", userID).Order("tax_year desc").Find(&rets).Error; err != nil {
		return nil, err
	}
	return rets, nil
}

func (r *taxReturnRepository) List(ctx context.Context, status string, page, limit int) ([]model.TaxReturn, int64, error) {
	var rets []model.TaxReturn
	var total int64

	db := GetDB(ctx, r.db).Model(&model.TaxReturn{})
	if status != "" {
		db = db.Where("status = ?", status)
	}
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&rets).Error; err != nil {
		return nil, 0, err
	}

	return rets, total, nil
}
