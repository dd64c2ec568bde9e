package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tabi-ops/tabi-api/pkg/response"
)

// AdminHandler exposes demo-environment administration.
type AdminHandler struct {
	reset func(ctx context.Context, actor string) error
}

// NewAdminHandler takes the reset operation as a closure so the handler
// stays ignorant of seeding details.
func NewAdminHandler(reset func(ctx context.Context, actor string) error) *AdminHandler {
	return &AdminHandler{reset: reset}
}

// Reset godoc
// @Summary Wipe all state and reseed demo data
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/reset [post]
func (h *AdminHandler) Reset(c *gin.Context) {
	if err := h.reset(c.Request.Context(), actorMatricula(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"reset": true}, nil)
}
