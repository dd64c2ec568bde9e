package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tabi-ops/tabi-api/internal/models"
	"github.com/tabi-ops/tabi-api/pkg/response"
)

type auditService interface {
	List(limit int) []models.LogEntry
}

// AuditHandler exposes the audit trail.
type AuditHandler struct {
	service auditService
}

func NewAuditHandler(service auditService) *AuditHandler {
	return &AuditHandler{service: service}
}

// List godoc
// @Summary List audit entries, newest first
// @Tags Audit
// @Produce json
// @Param limit query int false "Maximum entries (default 100)"
// @Success 200 {object} response.Envelope
// @Router /audit [get]
func (h *AuditHandler) List(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	response.JSON(c, http.StatusOK, h.service.List(limit), nil)
}
