package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	FrameDefault     = "default"
	FrameFirstReport = "first_report"
	FrameHelper      = "helper"
	FrameResolver    = "resolver"
)

type Profile struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DisplayName  string    `gorm:"size:100;not null" json:"display_name"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	AvatarURL    *string   `gorm:"type:text" json:"avatar_url,omitempty"`
	Points       int       `gorm:"default:0;not null" json:"points"`
	IsAdmin      bool      `gorm:"default:false" json:"is_admin"`
	IsBanned     bool      `gorm:"default:false" json:"is_banned"`
	ActiveFrame  string    `gorm:"size:50;default:'default';not null" json:"active_frame"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID, err = uuid.NewV7()
	}
	return
}

const (
	BadgeFirstReport = "first_report"
	BadgeHelper      = "helper"
	BadgeResolver    = "resolver"
)

// Badge rows are written only by the gamification engine and never mutated.
type Badge struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	BadgeType string    `gorm:"size:50;primaryKey" json:"badge_type"`
	EarnedAt  time.Time `gorm:"autoCreateTime" json:"earned_at"`
}

func (Badge) TableName() string {
	return "user_badges"
}
