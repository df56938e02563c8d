package handler

import (
	"net/http"
	"strconv"

	"github.com/danishsenju/fixmyhood/internal/dto"
	"github.com/danishsenju/fixmyhood/internal/service"
	"github.com/danishsenju/fixmyhood/pkg/response"
	"github.com/danishsenju/fixmyhood/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AdminHandler struct {
	adminService  service.AdminService
	reportService service.ReportService
	flagService   service.FlagService
}

func NewAdminHandler(
	adminService service.AdminService,
	reportService service.ReportService,
	flagService service.FlagService,
) *AdminHandler {
	return &AdminHandler{
		adminService:  adminService,
		reportService: reportService,
		flagService:   flagService,
	}
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	return page, limit
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, limit := pageParams(c)

	users, meta, err := h.adminService.ListUsers(c.Request.Context(), page, limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": users, "meta": meta})
}

func (h *AdminHandler) BanUser(c *gin.Context) {
	h.setBanned(c, true)
}

func (h *AdminHandler) UnbanUser(c *gin.Context) {
	h.setBanned(c, false)
}

func (h *AdminHandler) setBanned(c *gin.Context, banned bool) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	actorID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.adminService.SetBanned(c.Request.Context(), actorID, userID, banned); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "user updated"})
}

func (h *AdminHandler) PromoteUser(c *gin.Context) {
	h.setAdmin(c, true)
}

func (h *AdminHandler) DemoteUser(c *gin.Context) {
	h.setAdmin(c, false)
}

func (h *AdminHandler) setAdmin(c *gin.Context, admin bool) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	actorID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.adminService.SetAdmin(c.Request.Context(), actorID, userID, admin); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "user updated"})
}

func (h *AdminHandler) ListReports(c *gin.Context) {
	page, limit := pageParams(c)

	resp, err := h.adminService.ListReports(c.Request.Context(), page, limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) HideReport(c *gin.Context) {
	h.setReportHidden(c, true)
}

func (h *AdminHandler) UnhideReport(c *gin.Context) {
	h.setReportHidden(c, false)
}

func (h *AdminHandler) setReportHidden(c *gin.Context, hidden bool) {
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
		return
	}

	if err := h.adminService.SetReportHidden(c.Request.Context(), reportID, hidden); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "report updated"})
}

func (h *AdminHandler) HideComment(c *gin.Context) {
	h.setCommentHidden(c, true)
}

func (h *AdminHandler) UnhideComment(c *gin.Context) {
	h.setCommentHidden(c, false)
}

func (h *AdminHandler) setCommentHidden(c *gin.Context, hidden bool) {
	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment id"})
		return
	}

	if err := h.adminService.SetCommentHidden(c.Request.Context(), commentID, hidden); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "comment updated"})
}

func (h *AdminHandler) LockComments(c *gin.Context) {
	h.setCommentsLocked(c, true)
}

func (h *AdminHandler) UnlockComments(c *gin.Context) {
	h.setCommentsLocked(c, false)
}

func (h *AdminHandler) setCommentsLocked(c *gin.Context, locked bool) {
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
		return
	}

	if err := h.adminService.SetCommentsLocked(c.Request.Context(), reportID, locked); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "report updated"})
}

func (h *AdminHandler) SetStatus(c *gin.Context) {
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
		return
	}

	var req dto.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	if err := h.adminService.SetStatus(c.Request.Context(), reportID, req.Status); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "status updated"})
}

func (h *AdminHandler) MarkDuplicate(c *gin.Context) {
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
		return
	}

	var req dto.MarkDuplicateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	originalID, err := uuid.Parse(req.OriginalID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid original id"})
		return
	}

	if err := h.reportService.MarkDuplicate(c.Request.Context(), reportID, originalID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "report marked as duplicate"})
}

func (h *AdminHandler) UnmarkDuplicate(c *gin.Context) {
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
		return
	}

	if err := h.reportService.UnmarkDuplicate(c.Request.Context(), reportID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "duplicate mark removed"})
}

func (h *AdminHandler) ListFlags(c *gin.Context) {
	page, limit := pageParams(c)
	status := c.DefaultQuery("status", "pending")

	flags, meta, err := h.flagService.ListFlags(c.Request.Context(), status, page, limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": flags, "meta": meta})
}

func (h *AdminHandler) ResolveFlag(c *gin.Context) {
	flagID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid flag id"})
		return
	}

	var req dto.ResolveFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	if err := h.flagService.ResolveFlag(c.Request.Context(), flagID, req.Status); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "flag resolved"})
}
