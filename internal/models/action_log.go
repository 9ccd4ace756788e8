package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Action type constants recorded in the action log.
const (
	ActionGenerateContent = "generate_content"
	ActionGetIdeas        = "get_ideas"
	ActionChatWithAgent   = "chat_with_agent"
	ActionUserRegister    = "user_register"
	ActionUserLogin       = "user_login"
)

// ActionLog is an append-only record of user-facing events. Writes are
// fire-and-forget: a failed insert must never fail the primary operation.
type ActionLog struct {
	ID        string         `gorm:"type:uuid;primaryKey"`
	UserID    string         `gorm:"type:uuid;not null;index"`
	Action    string         `gorm:"not null;index"`
	Details   datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"index"`

	User *User `gorm:"foreignKey:UserID"`
}

func (l *ActionLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// AuditLog is an append-only record of admin mutations.
type AuditLog struct {
	ID        string         `gorm:"type:uuid;primaryKey"`
	UserID    string         `gorm:"type:uuid;not null;index"`
	Action    string         `gorm:"not null;index"`
	TargetID  string
	Details   datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"index"`

	User *User `gorm:"foreignKey:UserID"`
}

func (l *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
