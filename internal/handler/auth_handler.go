package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tabi-ops/tabi-api/internal/models"
	appErrors "github.com/tabi-ops/tabi-api/pkg/errors"
	"github.com/tabi-ops/tabi-api/pkg/response"
)

type authService interface {
	Login(ctx context.Context, matricula, password string) (*models.LoginResponse, error)
}

// AuthHandler wires authentication to HTTP endpoints.
type AuthHandler struct {
	service authService
}

func NewAuthHandler(service authService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Login godoc
// @Summary Authenticate a roster member
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Credentials"
// @Success 200 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	resp, err := h.service.Login(c.Request.Context(), req.Matricula, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}
