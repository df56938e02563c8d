package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	FlagContentReport  = "report"
	FlagContentComment = "comment"

	FlagStatusPending   = "pending"
	FlagStatusReviewed  = "reviewed"
	FlagStatusDismissed = "dismissed"
)

type Flag struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ContentType string    `gorm:"size:20;not null" json:"content_type"`
	ContentID   uuid.UUID `gorm:"type:uuid;not null" json:"content_id"`
	ReporterID  uuid.UUID `gorm:"type:uuid;not null" json:"reporter_id"`
	Reporter    Profile   `gorm:"foreignKey:ReporterID;constraint:OnDelete:CASCADE" json:"reporter,omitempty"`
	Reason      string    `gorm:"type:text;not null" json:"reason"`
	Status      string    `gorm:"size:20;default:'pending';not null" json:"status"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (f *Flag) BeforeCreate(tx *gorm.DB) (err error) {
	if f.ID == uuid.Nil {
		f.ID, err = uuid.NewV7()
	}
	return
}
