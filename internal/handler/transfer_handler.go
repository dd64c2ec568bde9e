package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tabi-ops/tabi-api/internal/dto"
	"github.com/tabi-ops/tabi-api/internal/models"
	appErrors "github.com/tabi-ops/tabi-api/pkg/errors"
	"github.com/tabi-ops/tabi-api/pkg/response"
)

type transferService interface {
	Template() ([]byte, error)
	ParseImport(r io.Reader, actor string) (*dto.ImportPreview, error)
	Pending() *dto.ImportPreview
	DiscardImport()
	ConfirmImport(ctx context.Context, actor string) (*dto.ImportResult, error)
	ExportCSV(ctx context.Context, filter models.RecordFilter, actor string) ([]byte, error)
	ExportPDF(ctx context.Context, filter models.RecordFilter, actor string) ([]byte, error)
}

// TransferHandler wires CSV import/export to HTTP endpoints.
type TransferHandler struct {
	service transferService
}

func NewTransferHandler(service transferService) *TransferHandler {
	return &TransferHandler{service: service}
}

// Template godoc
// @Summary Download the import template
// @Tags Transfer
// @Produce text/csv
// @Success 200
// @Router /transfer/template [get]
func (h *TransferHandler) Template(c *gin.Context) {
	raw, err := h.service.Template()
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="tabi_template.csv"`)
	c.Data(http.StatusOK, "text/csv", raw)
}

// ImportParse godoc
// @Summary Upload a CSV for preview
// @Tags Transfer
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV upload"
// @Success 200 {object} response.Envelope
// @Router /transfer/import [post]
func (h *TransferHandler) ImportParse(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file upload is required"))
		return
	}
	defer file.Close()

	preview, err := h.service.ParseImport(file, actorMatricula(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, preview, nil)
}

// ImportPending godoc
// @Summary Show the unconfirmed import buffer
// @Tags Transfer
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /transfer/import [get]
func (h *TransferHandler) ImportPending(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Pending(), nil)
}

// ImportConfirm godoc
// @Summary Confirm the previewed import
// @Tags Transfer
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /transfer/import/confirm [post]
func (h *TransferHandler) ImportConfirm(c *gin.Context) {
	result, err := h.service.ConfirmImport(c.Request.Context(), actorMatricula(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// ImportDiscard godoc
// @Summary Discard the previewed import
// @Tags Transfer
// @Success 204
// @Router /transfer/import [delete]
func (h *TransferHandler) ImportDiscard(c *gin.Context) {
	h.service.DiscardImport()
	response.NoContent(c)
}

// ExportCSV godoc
// @Summary Export filtered records as CSV
// @Tags Transfer
// @Produce text/csv
// @Success 200
// @Router /transfer/export/csv [get]
func (h *TransferHandler) ExportCSV(c *gin.Context) {
	raw, err := h.service.ExportCSV(c.Request.Context(), recordFilterFromQuery(c), actorMatricula(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="tabi_programacao.csv"`)
	c.Data(http.StatusOK, "text/csv", raw)
}

// ExportPDF godoc
// @Summary Export filtered records as PDF
// @Tags Transfer
// @Produce application/pdf
// @Success 200
// @Router /transfer/export/pdf [get]
func (h *TransferHandler) ExportPDF(c *gin.Context) {
	raw, err := h.service.ExportPDF(c.Request.Context(), recordFilterFromQuery(c), actorMatricula(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="tabi_programacao.pdf"`)
	c.Data(http.StatusOK, "application/pdf", raw)
}
