package repository

import (
	"context"
	"time"

	"backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VATRepository interface {
	Create(ctx context.Context, record *model.VATRecord) error
	Update(ctx context.Context, record *model.VATRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.VATRecord, error)
	ListByBusiness(ctx context.Context, businessID uuid.UUID, from, to time.Time) ([]model.VATRecord, error)
	SumByType(ctx context.Context, businessID uuid.UUID, vatType string, from, to time.Time) (decimal.Decimal, error)
}

type vatRepository struct {
	db *gorm.DB
}

func NewVATRepository(db *gorm.DB) VATRepository {
	return &vatRepository{db: db}
}

func (r *vatRepository) Create(ctx context.Context, record *model.VATRecord) error {
	return GetDB(ctx, r.db).Create(record).Error
}

func (r *vatRepository) Update(ctx context.Context, record *model.VATRecord) error {
	return GetDB(ctx, r.db).Save(record).Error
}

func (r *vatRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.VATRecord{}).Error
}

func (r *vatRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.VATRecord, error) {
	var record model.VATRecord
	if err := GetDB(ctx, r.db).First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *vatRepository) ListByBusiness(ctx context.Context, businessID uuid.UUID, from, to time.Time) ([]model.VATRecord, error) {
	var records []model.VATRecord
	db := GetDB(ctx, r.db).Where("business_id = ?", businessID)
	if !from.IsZero() {
		db = db.Where("transaction_date >= ?", from)
	}
	if !to.IsZero() {
		db = db.Where("transaction_date < ?", to)
	}
	if err := db.Order("transaction_date desc").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *vatRepository) SumByType(ctx context.Context, businessID uuid.UUID, vatType string, from, to time.Time) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := GetDB(ctx, r.db).Model(&model.VATRecord{}).
		Select("COALESCE(SUM(vat_amount), 0)").
		Where("business_id = ? AND type = ? AND transaction_date >= ? AND transaction_date < ?", businessID, vatType, from, to).
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}
