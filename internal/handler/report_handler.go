package handler

import (
	"fmt"
	"net/http"

	"github.com/danishsenju/fixmyhood/internal/dto"
	"github.com/danishsenju/fixmyhood/internal/service"
	"github.com/danishsenju/fixmyhood/pkg/response"
	"github.com/danishsenju/fixmyhood/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReportHandler struct {
	reportService    service.ReportService
	duplicateService service.DuplicateService
	followerService  service.FollowerService
}

func NewReportHandler(
	reportService service.ReportService,
	duplicateService service.DuplicateService,
	followerService service.FollowerService,
) *ReportHandler {
	return &ReportHandler{
		reportService:    reportService,
		duplicateService: duplicateService,
		followerService:  followerService,
	}
}

func (h *ReportHandler) CreateReport(c *gin.Context) {
	var req dto.CreateReportRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var photoFile *service.PhotoFile
	if photo := readUpload(c, "photo"); photo != nil {
		photoFile = &service.PhotoFile{Reader: photo.Reader, FileName: photo.FileName}
		defer photo.Close()
	}

	resp, err := h.reportService.CreateReport(c.Request.Context(), userID, req, photoFile)
	if err != nil {
		if rateLimitErr, ok := err.(*service.RateLimitError); ok {
			c.Header("Retry-After", fmt.Sprintf("%.0f", rateLimitErr.RetryAfter.Seconds()))
			c.JSON(http.StatusTooManyRequests, gin.H{"error": rateLimitErr.Message})
			return
		}
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// CheckDuplicates backs the pre-submit probe on the create form. It is
// advisory and always answers 200 with a (possibly empty) match list.
func (h *ReportHandler) CheckDuplicates(c *gin.Context) {
	var req dto.DuplicateCheckRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	matches := h.duplicateService.FindPotentialDuplicates(c.Request.Context(), service.DuplicateQuery{
		Title:     req.Title,
		Category:  req.Category,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})

	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

func (h *ReportHandler) GetFeed(c *gin.Context) {
	var filter dto.ReportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	resp, err := h.reportService.GetFeed(c.Request.Context(), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ReportHandler) GetReport(c *gin.Context) {
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
		return
	}

	// Viewer is optional here; the feed detail page works logged out.
	viewerID, _ := response.GetUserID(c)

	resp, err := h.reportService.GetReport(c.Request.Context(), reportID, viewerID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ReportHandler) GetMapReports(c *gin.Context) {
	resp, err := h.reportService.GetMapReports(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (h *ReportHandler) UpdateReport(c *gin.Context) {
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
		return
	}

	var req dto.UpdateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	resp, err := h.reportService.UpdateReport(c.Request.Context(), userID, reportID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ReportHandler) DeleteReport(c *gin.Context) {
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.reportService.DeleteReport(c.Request.Context(), userID, reportID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "report deleted successfully"})
}

func (h *ReportHandler) CloseReport(c *gin.Context) {
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.reportService.CloseReport(c.Request.Context(), userID, reportID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "report closed"})
}

func (h *ReportHandler) FollowReport(c *gin.Context) {
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.followerService.Follow(c.Request.Context(), userID, reportID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "following report"})
}

func (h *ReportHandler) UnfollowReport(c *gin.Context) {
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.followerService.Unfollow(c.Request.Context(), userID, reportID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "unfollowed report"})
}
