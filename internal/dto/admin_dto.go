package dto

import "time"

type AdminUserResponse struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	Points      int       `json:"points"`
	IsAdmin     bool      `json:"is_admin"`
	IsBanned    bool      `json:"is_banned"`
	CreatedAt   time.Time `json:"created_at"`
}

type MarkDuplicateRequest struct {
	OriginalID string `json:"original_id" binding:"required,uuid"`
}

type CreateFlagRequest struct {
	ContentType string `json:"content_type" binding:"required,oneof=report comment"`
	ContentID   string `json:"content_id" binding:"required,uuid"`
	Reason      string `json:"reason" binding:"required,max=500"`
}

type ResolveFlagRequest struct {
	Status string `json:"status" binding:"required,oneof=reviewed dismissed"`
}
