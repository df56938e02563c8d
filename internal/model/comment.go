package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CommentTypeComment    = "comment"
	CommentTypeProgress   = "progress"
	CommentTypeConfirmFix = "confirm_fix"
)

type Comment struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ReportID    uuid.UUID `gorm:"type:uuid;not null;index" json:"report_id"`
	Report      Report    `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE" json:"report,omitempty"`
	AuthorID    uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	Author      Profile   `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	CommentType string    `gorm:"size:50;default:'comment';not null" json:"comment_type"`
	ImageURL    *string   `gorm:"type:text" json:"image_url,omitempty"`
	IsHidden    bool      `gorm:"default:false" json:"is_hidden"`
	// Flipped exactly once when the comment collects its third verification,
	// guarding the author's verified_fix bonus against double awards.
	VerifiedFixAwarded bool      `gorm:"default:false" json:"-"`
	CreatedAt          time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID, err = uuid.NewV7()
	}
	return
}

func ValidCommentType(t string) bool {
	switch t {
	case CommentTypeComment, CommentTypeProgress, CommentTypeConfirmFix:
		return true
	}
	return false
}

// Verification records one user's endorsement of a confirm_fix comment.
// The composite key keeps it to one endorsement per user per comment.
type Verification struct {
	CommentID uuid.UUID `gorm:"type:uuid;primaryKey" json:"comment_id"`
	Comment   Comment   `gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE" json:"-"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Verification) TableName() string {
	return "comment_verifications"
}
