package model

import "time"

// Listing is one vehicle advertised on the marketplace.
type Listing struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Make         string    `gorm:"size:64;not null;index" json:"make"`
	Model        string    `gorm:"size:64;not null;index" json:"model"`
	Year         int       `gorm:"not null" json:"year"`
	PricePence   int64     `gorm:"not null;index" json:"price_pence"`
	Mileage      int       `gorm:"not null" json:"mileage"`
	FuelType     string    `gorm:"size:32;not null;index" json:"fuel_type"`
	Transmission string    `gorm:"size:32;not null" json:"transmission"`
	BodyType     string    `gorm:"size:32" json:"body_type"`
	Description  string    `gorm:"type:text" json:"description"`
	ImageURL     string    `gorm:"size:512" json:"image_url"`
	Sold         bool      `gorm:"not null;default:false;index" json:"sold"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
