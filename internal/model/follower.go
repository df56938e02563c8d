package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Follower struct {
	ReportID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"report_id"`
	Report    Report    `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE" json:"-"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type ReportView struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ReportID uuid.UUID `gorm:"type:uuid;not null;index" json:"report_id"`
	Report   Report    `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE" json:"-"`
	UserID   uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	Viewer   Profile   `gorm:"foreignKey:UserID" json:"viewer,omitempty"`
	ViewedAt time.Time `gorm:"autoCreateTime" json:"viewed_at"`
}

func (v *ReportView) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == uuid.Nil {
		v.ID, err = uuid.NewV7()
	}
	return
}
