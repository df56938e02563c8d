package model

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"` // recipient
	ActorID    uuid.UUID `gorm:"type:uuid;not null" json:"actor_id"`      // who triggered it
	EntityID   uuid.UUID `gorm:"type:uuid;not null" json:"entity_id"`     // report, comment or user id
	EntityType string    `gorm:"type:varchar(50);not null" json:"entity_type"` // 'report', 'comment', 'badge'
	Type       string    `gorm:"type:varchar(50);not null" json:"type"`        // 'new_comment', 'status_change', 'new_follower', 'badge_earned'
	Message    string    `gorm:"type:text" json:"message"`
	IsRead     bool      `gorm:"default:false" json:"is_read"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`

	User  *Profile `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Actor *Profile `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
}
