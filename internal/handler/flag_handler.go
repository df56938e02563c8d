package handler

import (
	"net/http"

	"github.com/danishsenju/fixmyhood/internal/dto"
	"github.com/danishsenju/fixmyhood/internal/service"
	"github.com/danishsenju/fixmyhood/pkg/response"
	"github.com/danishsenju/fixmyhood/pkg/validator"
	"github.com/gin-gonic/gin"
)

type FlagHandler struct {
	flagService service.FlagService
}

func NewFlagHandler(flagService service.FlagService) *FlagHandler {
	return &FlagHandler{flagService: flagService}
}

func (h *FlagHandler) CreateFlag(c *gin.Context) {
	var req dto.CreateFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.flagService.CreateFlag(c.Request.Context(), userID, req); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "content flagged for review"})
}
