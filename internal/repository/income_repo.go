package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type IncomeRepository interface {
	Create(ctx context.Context, record *model.IncomeRecord) error
	Update(ctx context.Context, record *model.IncomeRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.IncomeRecord, error)
	ListByUser(ctx context.Context, userID uuid.UUID, taxYear int) ([]model.IncomeRecord, error)
	SumByUserAndYear(ctx context.Context, userID uuid.UUID, taxYear int) (decimal.Decimal, error)
}

type incomeRepository struct {
	db *gorm.DB
}

func NewIncomeRepository(db *gorm.DB) IncomeRepository {
	return &incomeRepository{db: db}
}

func (r *incomeRepository) Create(ctx context.Context, record *model.IncomeRecord) error {
	return GetDB(ctx, r.db).Create(record).Error
}

func (r *incomeRepository) Update(ctx context.Context, record *model.IncomeRecord) error {
	return GetDB(ctx, r.db).Save(record).Error
}

func (r *incomeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.IncomeRecord{}).Error
}

func (r *incomeRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.IncomeRecord, error) {
	var record model.IncomeRecord
	if err := GetDB(ctx, r.db).First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *incomeRepository) ListByUser(ctx context.Context, userID uuid.UUID, taxYear int) ([]model.IncomeRecord, error) {
	var records []model.IncomeRecord
	db := GetDB(ctx, r.db).Where("user_id = ?", userID)
	if taxYear > 0 {
		db = db.Where("tax_year = ?", taxYear)
	}
	if err := db.Order("created_at desc").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *incomeRepository) SumByUserAndYear(ctx context.Context, userID uuid.UUID, taxYear int) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := GetDB(ctx, r.db).Model(&model.IncomeRecord{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND tax_year = ?", userID, taxYear).
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}
