package models

import (
	"time"

	"gorm.io/datatypes"
)

// Content is a saved generation in the user's library.
type Content struct {
	BaseModel
	UserID           string         `gorm:"type:uuid;index"`
	Title            string         `gorm:"not null"`
	Body             string         `gorm:"type:text;not null"`
	Platform         string         `gorm:"not null"`
	ContentType      string         `gorm:"not null"`
	Hashtags         datatypes.JSON `gorm:"type:jsonb"`
	TargetAudience   string
	GenerationPrompt string        `gorm:"type:text"`
	Status           ContentStatus `gorm:"type:varchar(20);default:'draft'"`
	ScheduledDate    *time.Time
}
