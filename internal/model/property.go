package model

import "time"

// PropertyEnquiry is one submission of the multi-step property intake wizard.
type PropertyEnquiry struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"index" json:"user_id"` // 0 = anonymous
	Postcode      string    `gorm:"size:16;not null;index" json:"postcode"`
	AddressLine   string    `gorm:"size:256" json:"address_line"`
	PropertyType  string    `gorm:"size:64" json:"property_type"`
	Bedrooms      int       `json:"bedrooms"`
	TenureType    string    `gorm:"size:64" json:"tenure_type"`
	EstimateValue int64     `json:"estimate_value"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PropertyDocument is an uploaded supporting document, stored base64-encoded
// the same way the wizard caches it client-side before submission.
type PropertyDocument struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	EnquiryID   uint      `gorm:"not null;index" json:"enquiry_id"`
	FileName    string    `gorm:"size:256;not null" json:"file_name"`
	ContentType string    `gorm:"size:128;not null" json:"content_type"`
	SizeBytes   int64     `gorm:"not null" json:"size_bytes"`
	DataBase64  string    `gorm:"type:text;not null" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}
