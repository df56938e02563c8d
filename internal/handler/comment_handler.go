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

type CommentHandler struct {
	commentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

func (h *CommentHandler) CreateComment(c *gin.Context) {
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var imageFile *service.PhotoFile
	if image := readUpload(c, "image"); image != nil {
		imageFile = &service.PhotoFile{Reader: image.Reader, FileName: image.FileName}
		defer image.Close()
	}

	resp, err := h.commentService.CreateComment(c.Request.Context(), userID, reportID, req, imageFile)
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

func (h *CommentHandler) GetComments(c *gin.Context) {
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
		return
	}

	// Anonymous viewers see comments without verification state.
	viewerID, _ := response.GetUserID(c)

	resp, err := h.commentService.GetComments(c.Request.Context(), reportID, viewerID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (h *CommentHandler) VerifyFix(c *gin.Context) {
	commentID, err := uuid.Parse(c.Param("comment_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment id"})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.commentService.VerifyFix(c.Request.Context(), userID, commentID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "fix verified"})
}
