package models

// Product is admin-managed reference data describing a purchasable plan.
type Product struct {
	BaseModel
	Name        string  `gorm:"not null"`
	Description string  `gorm:"type:text"`
	Price       float64 `gorm:"not null"`
	Unit        string  `gorm:"not null"` // billing cycle: "monthly", "yearly"
	SKU         string  `gorm:"uniqueIndex;default:null"`
}
