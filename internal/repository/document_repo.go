package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc *model.Document) error
	Update(ctx context.Context, doc *model.Document) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Document, error)
	ListByUser(ctx context.Context, userID uuid.UUID, taxYear int) ([]model.Document, error)
	ListByUserAndTypes(ctx context.Context, userID uuid.UUID, taxYear int, docTypes []string) ([]model.Document, error)
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, doc *model.Document) error {
	return GetDB(ctx, r.db).Create(doc).Error
}

func (r *documentRepository) Update(ctx context.Context, doc *model.Document) error {
	return GetDB(ctx, r.db).Save(doc).Error
}

func (r *documentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Document{}).Error
}

func (r *documentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	var doc model.Document
	if err := GetDB(ctx, r.db).First(&doc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepository) ListByUser(ctx context.Context, userID uuid.UUID, taxYear int) ([]model.Document, error) {
	var docs []model.Document
	db := GetDB(ctx, r.db).Where("user_id = ?", userID)
	if taxYear > 0 {
		db = db.Where("tax_year = ?", taxYear)
	}
	if err := db.Order("created_at desc").Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *documentRepository) ListByUserAndTypes(ctx context.Context, userID uuid.UUID, taxYear int, docTypes []string) ([]model.Document, error) {
	var docs []model.Document
	err := GetDB(ctx, r.db).
		Where("user_id = ? AND tax_year = ? AND document_type IN ?", userID, taxYear, docTypes).
		Find(&docs).Error
	if err != nil {
		return nil, err
	}
	return docs, nil
}
