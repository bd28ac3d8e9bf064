package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"propertyhub/internal/model"
)

type PropertyRepository struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

func (r *PropertyRepository) CreateEnquiry(enquiry *model.PropertyEnquiry) error {
	if err := r.db.Create(enquiry).Error; err != nil {
		return fmt.Errorf("create property enquiry failed: %w", err)
	}
	return nil
}

func (r *PropertyRepository) GetEnquiryByID(id uint) (*model.PropertyEnquiry, error) {
	var enquiry model.PropertyEnquiry
	if err := r.db.First(&enquiry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get property enquiry failed: %w", err)
	}
	return &enquiry, nil
}

func (r *PropertyRepository) CreateDocument(doc *model.PropertyDocument) error {
	if err := r.db.Create(doc).Error; err != nil {
		return fmt.Errorf("create property document failed: %w", err)
	}
	return nil
}

func (r *PropertyRepository) ListDocumentsByEnquiryID(enquiryID uint) ([]model.PropertyDocument, error) {
	var docs []model.PropertyDocument
	if err := r.db.Where("enquiry_id = ?", enquiryID).
		Order("created_at ASC").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("list property documents failed: %w", err)
	}
	return docs, nil
}
