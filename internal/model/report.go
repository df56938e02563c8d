package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CategoryInfrastructure = "infrastructure"
	CategorySafety         = "safety"
	CategoryCleanliness    = "cleanliness"
	CategoryEnvironment    = "environment"
	CategoryOther          = "other"
)

const (
	StatusOpen         = "open"
	StatusAcknowledged = "acknowledged"
	StatusInProgress   = "in_progress"
	StatusClosed       = "closed"
)

type Report struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CreatorID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"creator_id"`
	Creator        Profile    `gorm:"foreignKey:CreatorID;constraint:OnDelete:CASCADE" json:"creator,omitempty"`
	Title          string     `gorm:"size:50;not null" json:"title"`
	Description    string     `gorm:"size:300;not null" json:"description"`
	Category       string     `gorm:"size:50;not null;index" json:"category"`
	Severity       string     `gorm:"size:20;default:'Medium'" json:"severity"`
	Status         string     `gorm:"size:50;default:'open';not null" json:"status"`
	PhotoURL       *string    `gorm:"type:text" json:"photo_url,omitempty"`
	LocationText   *string    `gorm:"size:255" json:"location_text,omitempty"`
	Latitude       *float64   `json:"latitude,omitempty"`
	Longitude      *float64   `json:"longitude,omitempty"`
	IsHidden       bool       `gorm:"default:false" json:"is_hidden"`
	CommentsLocked bool       `gorm:"default:false" json:"comments_locked"`
	DuplicateOf    *uuid.UUID `gorm:"type:uuid" json:"duplicate_of,omitempty"` // parent-pointer forest, never a cycle
	CreatedAt      time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (r *Report) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID, err = uuid.NewV7()
	}
	return
}

// statusRank orders the lifecycle so normal transitions only move forward.
var statusRank = map[string]int{
	StatusOpen:         0,
	StatusAcknowledged: 1,
	StatusInProgress:   2,
	StatusClosed:       3,
}

// CanTransitionTo reports whether a non-admin status change is allowed.
func (r *Report) CanTransitionTo(next string) bool {
	cur, ok := statusRank[r.Status]
	if !ok {
		return false
	}
	nxt, ok := statusRank[next]
	if !ok {
		return false
	}
	return nxt > cur
}

func ValidCategory(c string) bool {
	switch c {
	case CategoryInfrastructure, CategorySafety, CategoryCleanliness, CategoryEnvironment, CategoryOther:
		return true
	}
	return false
}

func ValidStatus(s string) bool {
	_, ok := statusRank[s]
	return ok
}
