package dto

import "time"

type CreateCommentRequest struct {
	Content     string `json:"content" form:"content" binding:"required"`
	CommentType string `json:"comment_type" form:"comment_type" binding:"omitempty,oneof=comment progress confirm_fix"`
}

type CommentResponse struct {
	ID                string         `json:"id"`
	ReportID          string         `json:"report_id"`
	Content           string         `json:"content"`
	CommentType       string         `json:"comment_type"`
	ImageURL          *string        `json:"image_url"`
	Author            AuthorResponse `json:"author"`
	VerificationCount int64          `json:"verification_count"`
	UserVerified      bool           `json:"user_verified"`
	CreatedAt         time.Time      `json:"created_at"`
}
