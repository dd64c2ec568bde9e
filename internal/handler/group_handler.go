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

type groupingService interface {
	Groups(filter models.RecordFilter) []*models.Group
}

type validationService interface {
	ValidateGroups(ctx context.Context, req dto.ValidateGroupsRequest, actor string) (*dto.ValidateGroupsResult, error)
}

type allocationService interface {
	Simulate(ctx context.Context, key, actor string) (*dto.SimulateResult, error)
	Allocate(ctx context.Context, req dto.AllocateRequest, actor string) (*dto.AllocateResult, error)
	AssignmentsForRecord(recordID string) ([]models.AssignmentEvent, error)
	EditAssignment(ctx context.Context, recordID, assignmentID string, minutes int, actor string) error
	RemoveAssignment(ctx context.Context, recordID, assignmentID, actor string) error
}

// GroupHandler wires the grouping, validation and allocation workflows to
// HTTP endpoints.
type GroupHandler struct {
	grouping   groupingService
	validation validationService
	allocation allocationService
}

func NewGroupHandler(grouping groupingService, validation validationService, allocation allocationService) *GroupHandler {
	return &GroupHandler{grouping: grouping, validation: validation, allocation: allocation}
}

// List godoc
// @Summary List record groups with validation stamps
// @Tags Groups
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /groups [get]
func (h *GroupHandler) List(c *gin.Context) {
	groups := h.grouping.Groups(recordFilterFromQuery(c))
	response.JSON(c, http.StatusOK, groups, nil)
}

// Validate godoc
// @Summary Validate one or more groups
// @Tags Groups
// @Accept json
// @Produce json
// @Param payload body dto.ValidateGroupsRequest true "Groups and signatures"
// @Success 200 {object} response.Envelope
// @Router /groups/validate [post]
func (h *GroupHandler) Validate(c *gin.Context) {
	var req dto.ValidateGroupsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}

	result, err := h.validation.ValidateGroups(c.Request.Context(), req, actorMatricula(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Simulate godoc
// @Summary Generate demo assignments for a group
// @Tags Groups
// @Accept json
// @Produce json
// @Param payload body dto.SimulateRequest true "Group key"
// @Success 200 {object} response.Envelope
// @Router /groups/simulate [post]
func (h *GroupHandler) Simulate(c *gin.Context) {
	var req dto.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}

	result, err := h.allocation.Simulate(c.Request.Context(), req.Key, actorMatricula(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Allocate godoc
// @Summary Distribute collaborator time over a group
// @Tags Groups
// @Accept json
// @Produce json
// @Param payload body dto.AllocateRequest true "Allocation request"
// @Success 200 {object} response.Envelope
// @Router /groups/allocate [post]
func (h *GroupHandler) Allocate(c *gin.Context) {
	var req dto.AllocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}

	result, err := h.allocation.Allocate(c.Request.Context(), req, actorMatricula(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Assignments godoc
// @Summary List a record's assignments
// @Tags Assignments
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} response.Envelope
// @Router /records/{id}/assignments [get]
func (h *GroupHandler) Assignments(c *gin.Context) {
	events, err := h.allocation.AssignmentsForRecord(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events, nil)
}

// EditAssignment godoc
// @Summary Change an assignment's minutes
// @Tags Assignments
// @Accept json
// @Param id path string true "Record ID"
// @Param assignmentId path string true "Assignment ID"
// @Param payload body dto.EditAssignmentRequest true "New minutes"
// @Success 200 {object} response.Envelope
// @Router /records/{id}/assignments/{assignmentId} [put]
func (h *GroupHandler) EditAssignment(c *gin.Context) {
	var req dto.EditAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}

	err := h.allocation.EditAssignment(c.Request.Context(), c.Param("id"), c.Param("assignmentId"), req.Minutes, actorMatricula(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"minutes": req.Minutes}, nil)
}

// RemoveAssignment godoc
// @Summary Remove an assignment
// @Tags Assignments
// @Param id path string true "Record ID"
// @Param assignmentId path string true "Assignment ID"
// @Success 204
// @Router /records/{id}/assignments/{assignmentId} [delete]
func (h *GroupHandler) RemoveAssignment(c *gin.Context) {
	err := h.allocation.RemoveAssignment(c.Request.Context(), c.Param("id"), c.Param("assignmentId"), actorMatricula(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
