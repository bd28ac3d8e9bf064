package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"propertyhub/internal/model"
)

type ListingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

// ListingFilter narrows the marketplace search. Zero values mean "any".
type ListingFilter struct {
	Make         string
	Model        string
	FuelType     string
	Transmission string
	MinPrice     int64
	MaxPrice     int64
	MaxMileage   int
	MinYear      int
	IncludeSold  bool
	Limit        int
	Offset       int
}

func (r *ListingRepository) Create(listing *model.Listing) error {
	if err := r.db.Create(listing).Error; err != nil {
		return fmt.Errorf("create listing failed: %w", err)
	}
	return nil
}

func (r *ListingRepository) GetByID(id uint) (*model.Listing, error) {
	var listing model.Listing
	if err := r.db.First(&listing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get listing failed: %w", err)
	}
	return &listing, nil
}

func (r *ListingRepository) List(filter ListingFilter) ([]model.Listing, int64, error) {
	q := r.db.Model(&model.Listing{})
	if !filter.IncludeSold {
		q = q.Where("sold = ?", false)
	}
	if filter.Make != "" {
		q = q.Where("make = ?", filter.Make)
	}
	if filter.Model != "" {
		q = q.Where("model = ?", filter.Model)
	}
	if filter.FuelType != "" {
		q = q.Where("fuel_type = ?", filter.FuelType)
	}
	if filter.Transmission != "" {
		q = q.Where("transmission = ?", filter.Transmission)
	}
	if filter.MinPrice > 0 {
		q = q.Where("price_pence >= ?", filter.MinPrice)
	}
	if filter.MaxPrice > 0 {
		q = q.Where("price_pence <= ?", filter.MaxPrice)
	}
	if filter.MaxMileage > 0 {
		q = q.Where("mileage <= ?", filter.MaxMileage)
	}
	if filter.MinYear > 0 {
		q = q.Where("year >= ?", filter.MinYear)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count listings failed: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var listings []model.Listing
	if err := q.Order("created_at DESC").Limit(limit).Offset(filter.Offset).
		Find(&listings).Error; err != nil {
		return nil, 0, fmt.Errorf("list listings failed: %w", err)
	}
	return listings, total, nil
}
