package dto

import "time"

type RegisterRequest struct {
	DisplayName string `json:"display_name" form:"display_name" binding:"required,min=2,max=100"`
	Email       string `json:"email" form:"email" binding:"required,email"`
	Password    string `json:"password" form:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresIn   int64           `json:"expires_in"`
	Profile     ProfileResponse `json:"profile"`
}

type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name" form:"display_name" binding:"omitempty,min=2,max=100"`
}

type SetFrameRequest struct {
	Frame string `json:"frame" binding:"required,oneof=default first_report helper resolver"`
}

type BadgeResponse struct {
	BadgeType string    `json:"badge_type"`
	EarnedAt  time.Time `json:"earned_at"`
}

type ProfileResponse struct {
	ID          string          `json:"id"`
	DisplayName string          `json:"display_name"`
	AvatarURL   *string         `json:"avatar_url"`
	Points      int             `json:"points"`
	IsAdmin     bool            `json:"is_admin"`
	ActiveFrame string          `json:"active_frame"`
	Badges      []BadgeResponse `json:"badges"`
	CreatedAt   time.Time       `json:"created_at"`
}

type ActivityEntry struct {
	ReportID    string    `json:"report_id"`
	ReportTitle string    `json:"report_title"`
	CommentID   string    `json:"comment_id"`
	CommentType string    `json:"comment_type"`
	Excerpt     string    `json:"excerpt"`
	Author      string    `json:"author"`
	CreatedAt   time.Time `json:"created_at"`
}
