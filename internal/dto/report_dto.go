package dto

import "time"

type CreateReportRequest struct {
	Title        string   `json:"title" form:"title" binding:"required,min=5,max=50"`
	Description  string   `json:"description" form:"description" binding:"required,max=300"`
	Category     string   `json:"category" form:"category" binding:"required,oneof=infrastructure safety cleanliness environment other"`
	Severity     string   `json:"severity" form:"severity" binding:"omitempty,oneof=Low Medium High"`
	LocationText *string  `json:"location_text" form:"location_text"`
	Latitude     *float64 `json:"latitude" form:"latitude"`
	Longitude    *float64 `json:"longitude" form:"longitude"`
}

type UpdateReportRequest struct {
	Title        *string  `json:"title" binding:"omitempty,min=5,max=50"`
	Description  *string  `json:"description" binding:"omitempty,max=300"`
	Severity     *string  `json:"severity" binding:"omitempty,oneof=Low Medium High"`
	LocationText *string  `json:"location_text"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
}

type ReportFilter struct {
	Category string `form:"category" binding:"omitempty,oneof=infrastructure safety cleanliness environment other"`
	Status   string `form:"status" binding:"omitempty,oneof=open acknowledged in_progress closed"`
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=50"`
}

type ReportResponse struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Category       string         `json:"category"`
	Severity       string         `json:"severity"`
	Status         string         `json:"status"`
	PhotoURL       *string        `json:"photo_url"`
	LocationText   *string        `json:"location_text"`
	Latitude       *float64       `json:"latitude"`
	Longitude      *float64       `json:"longitude"`
	CommentsLocked bool           `json:"comments_locked"`
	DuplicateOf    *string        `json:"duplicate_of"`
	Creator        AuthorResponse `json:"creator"`
	CommentCount   int64          `json:"comment_count"`
	FollowerCount  int64          `json:"follower_count"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

type PaginatedReportResponse struct {
	Data []ReportResponse `json:"data"`
	Meta PaginationMeta   `json:"meta"`
}

// DuplicateCheckRequest is the pre-submit probe the create form sends while
// the user types. Callers are expected to debounce (the UI uses 800 ms).
type DuplicateCheckRequest struct {
	Title     string   `form:"title" binding:"required"`
	Category  string   `form:"category" binding:"required"`
	Latitude  *float64 `form:"latitude"`
	Longitude *float64 `form:"longitude"`
}

type DuplicateMatch struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Status   string `json:"status"`
	Category string `json:"category"`
}

type MapReportResponse struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Category  string  `json:"category"`
	Status    string  `json:"status"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type SetStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=open acknowledged in_progress closed"`
}
