package models

import "time"

// PromoCode is immutable after creation apart from the IsActive toggle.
type PromoCode struct {
	BaseModel
	Code          string       `gorm:"uniqueIndex;not null"`
	DiscountType  DiscountType `gorm:"type:varchar(20);not null"`
	DiscountValue float64      `gorm:"not null"`
	IsActive      bool         `gorm:"default:true"`
	ExpiresAt     *time.Time
}
