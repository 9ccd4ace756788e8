package models

import (
	"time"

	"gorm.io/datatypes"
)

type User struct {
	BaseModel
	Email        string   `gorm:"uniqueIndex;not null"`
	PasswordHash string   `gorm:"not null"`
	FirstName    string   `gorm:"not null"`
	LastName     string   `gorm:"not null"`
	Role         UserRole `gorm:"type:varchar(20);default:'manager'"`

	// Brand profile used to build generation prompts
	Industry                string         `gorm:"default:''"`
	CoreMessage             string         `gorm:"type:text;default:''"`
	BrandVoiceTone          string         `gorm:"default:'professional'"`
	WritingStyleDescription string         `gorm:"type:text;default:''"`
	MonthlyContentGoal      int            `gorm:"default:0"`
	TargetAudiences         datatypes.JSON `gorm:"type:jsonb"`
	ContentPillars          datatypes.JSON `gorm:"type:jsonb"`
	GoalsPrimaryGoal        string         `gorm:"default:''"`
	PreferredPlatforms      datatypes.JSON `gorm:"type:jsonb"`

	// Entitlement ledger. Mutated only through EntitlementService.
	FreeGenerationsLeft     int                `gorm:"not null;default:5"`
	HasUnlimitedGenerations bool               `gorm:"not null;default:false"`
	SubscriptionStatus      SubscriptionStatus `gorm:"type:varchar(20);default:''"`
	SubscriptionProvider    string
	SubscriptionID          string
	SubscriptionStartDate   *time.Time
	SubscriptionEndDate     *time.Time

	ProductID   *string `gorm:"type:uuid"`
	PromoCodeID *string `gorm:"type:uuid"`

	// Relations
	Product   *Product   `gorm:"foreignKey:ProductID"`
	PromoCode *PromoCode `gorm:"foreignKey:PromoCodeID"`
	Contents  []Content  `gorm:"foreignKey:UserID"`
}

// IsEntitled reports whether the quota gate would allow a generation right now.
func (u *User) IsEntitled() bool {
	return u.HasUnlimitedGenerations || u.FreeGenerationsLeft > 0
}
