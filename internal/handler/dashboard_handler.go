package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tabi-ops/tabi-api/internal/dto"
	"github.com/tabi-ops/tabi-api/internal/models"
	appErrors "github.com/tabi-ops/tabi-api/pkg/errors"
	"github.com/tabi-ops/tabi-api/pkg/response"
)

type dashboardService interface {
	Aggregate(filter models.RecordFilter) *dto.DashboardResponse
	FeedRealized(realized map[string]int)
}

// DashboardHandler wires the aggregate views to HTTP endpoints.
type DashboardHandler struct {
	service dashboardService
}

func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Aggregate godoc
// @Summary Planned vs assigned load by segment, day and period
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Aggregate(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Aggregate(recordFilterFromQuery(c)), nil)
}

// FeedRealized godoc
// @Summary Ingest realized minutes per segment
// @Tags Dashboard
// @Accept json
// @Success 204
// @Router /dashboard/realized [post]
func (h *DashboardHandler) FeedRealized(c *gin.Context) {
	var req dto.RealizedFeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	h.service.FeedRealized(req.Realized)
	response.NoContent(c)
}
