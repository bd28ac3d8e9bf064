package repository

import (
	"fmt"

	"gorm.io/gorm"

	"propertyhub/internal/model"
)

type SubmissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

func (r *SubmissionRepository) Create(submission *model.EligibilitySubmission) error {
	if err := r.db.Create(submission).Error; err != nil {
		return fmt.Errorf("create eligibility submission failed: %w", err)
	}
	return nil
}
