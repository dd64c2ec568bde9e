package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tabi-ops/tabi-api/internal/dto"
	"github.com/tabi-ops/tabi-api/internal/models"
	appErrors "github.com/tabi-ops/tabi-api/pkg/errors"
	"github.com/tabi-ops/tabi-api/pkg/response"
)

type recordService interface {
	Create(ctx context.Context, req dto.CreateRecordRequest, actor string) ([]models.ScheduleRecord, error)
	Update(ctx context.Context, id string, req dto.UpdateRecordRequest, actor string) (*models.ScheduleRecord, error)
	Delete(ctx context.Context, id, actor string) error
	PublishDrafts(ctx context.Context, actor string) (int, error)
	Get(id string) (*models.ScheduleRecord, error)
	List(filter models.RecordFilter) []models.ScheduleRecord
}

// RecordHandler wires the record lifecycle to HTTP endpoints.
type RecordHandler struct {
	service recordService
}

func NewRecordHandler(service recordService) *RecordHandler {
	return &RecordHandler{service: service}
}

// List godoc
// @Summary List schedule records
// @Tags Records
// @Produce json
// @Param start query string false "Start date (YYYY-MM-DD)"
// @Param end query string false "End date (YYYY-MM-DD)"
// @Param segment query string false "Segment"
// @Param operation query string false "Operation"
// @Param interval query string false "Interval start (HH:MM)"
// @Param hc_min query int false "Minimum requested headcount"
// @Param status query string false "Workflow status"
// @Param include_expired query bool false "Include expired records"
// @Success 200 {object} response.Envelope
// @Router /records [get]
func (h *RecordHandler) List(c *gin.Context) {
	records := h.service.List(recordFilterFromQuery(c))
	response.JSON(c, http.StatusOK, records, nil)
}

// Get godoc
// @Summary Fetch one record
// @Tags Records
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} response.Envelope
// @Router /records/{id} [get]
func (h *RecordHandler) Get(c *gin.Context) {
	rec, err := h.service.Get(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rec, nil)
}

// Create godoc
// @Summary Create draft records, one per interval
// @Tags Records
// @Accept json
// @Produce json
// @Param payload body dto.CreateRecordRequest true "Record data"
// @Success 201 {object} response.Envelope
// @Router /records [post]
func (h *RecordHandler) Create(c *gin.Context) {
	var req dto.CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}

	created, err := h.service.Create(c.Request.Context(), req, actorMatricula(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// Update godoc
// @Summary Edit a record
// @Tags Records
// @Accept json
// @Produce json
// @Param id path string true "Record ID"
// @Param payload body dto.UpdateRecordRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /records/{id} [put]
func (h *RecordHandler) Update(c *gin.Context) {
	var req dto.UpdateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}

	updated, err := h.service.Update(c.Request.Context(), c.Param("id"), req, actorMatricula(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updated, nil)
}

// Delete godoc
// @Summary Remove a record and its assignments
// @Tags Records
// @Param id path string true "Record ID"
// @Success 204
// @Router /records/{id} [delete]
func (h *RecordHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), actorMatricula(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Publish godoc
// @Summary Publish every draft record
// @Tags Records
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /records/publish [post]
func (h *RecordHandler) Publish(c *gin.Context) {
	count, err := h.service.PublishDrafts(c.Request.Context(), actorMatricula(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"published": count}, nil)
}
