package repository

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"propertyhub/internal/model"
)

type ResourceRepository struct {
	db *gorm.DB
}

func NewResourceRepository(db *gorm.DB) *ResourceRepository {
	return &ResourceRepository{db: db}
}

func (r *ResourceRepository) Create(resource *model.Resource) error {
	if err := r.db.Create(resource).Error; err != nil {
		return fmt.Errorf("create resource failed: %w", err)
	}
	return nil
}

func (r *ResourceRepository) GetByID(id uuid.UUID) (*model.Resource, error) {
	var resource model.Resource
	if err := r.db.First(&resource, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get resource failed: %w", err)
	}
	return &resource, nil
}

func (r *ResourceRepository) List(limit int) ([]model.Resource, error) {
	if limit <= 0 {
		limit = 50
	}
	var list []model.Resource
	if err := r.db.Order("created_at DESC").Limit(limit).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list resources failed: %w", err)
	}
	return list, nil
}

// UpdateChunkCount records how many chunks survived ingestion. This is the
// only mutation resources ever see; chunk rows themselves are append-only.
func (r *ResourceRepository) UpdateChunkCount(id uuid.UUID, count int) error {
	if err := r.db.Model(&model.Resource{}).Where("id = ?", id).
		Update("chunk_count", count).Error; err != nil {
		return fmt.Errorf("update resource chunk count failed: %w", err)
	}
	return nil
}
