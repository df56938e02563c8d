package handler

import (
	"net/http"

	"github.com/danishsenju/fixmyhood/internal/dto"
	"github.com/danishsenju/fixmyhood/internal/service"
	"github.com/danishsenju/fixmyhood/pkg/response"
	"github.com/danishsenju/fixmyhood/pkg/validator"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	avatar := readUpload(c, "avatar")
	var avatarFile *service.AvatarFile
	if avatar != nil {
		avatarFile = &service.AvatarFile{Reader: avatar.Reader, FileName: avatar.FileName}
		defer avatar.Close()
	}

	resp, err := h.authService.Register(c.Request.Context(), req, avatarFile)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
