package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/tabi-ops/tabi-api/internal/dto"
	"github.com/tabi-ops/tabi-api/internal/models"
	appErrors "github.com/tabi-ops/tabi-api/pkg/errors"
	"github.com/tabi-ops/tabi-api/pkg/response"
)

type rosterService interface {
	List(filter models.RosterFilter) []models.Collaborator
	Get(matricula string) (*models.Collaborator, error)
	AddSupervisor(ctx context.Context, req dto.AddSupervisorRequest, passwordHash, actor string) (*models.Collaborator, error)
}

// RosterHandler wires the organizational roster to HTTP endpoints. New
// supervisors receive the configured default password.
type RosterHandler struct {
	service         rosterService
	defaultPassword string
}

func NewRosterHandler(service rosterService, defaultPassword string) *RosterHandler {
	return &RosterHandler{service: service, defaultPassword: defaultPassword}
}

// List godoc
// @Summary List roster members
// @Tags Roster
// @Produce json
// @Param role query string false "Role"
// @Param gerente query string false "Gerente matricula"
// @Param coordenador query string false "Coordenador matricula"
// @Param supervisor query string false "Supervisor matricula"
// @Param q query string false "Name or matricula search"
// @Success 200 {object} response.Envelope
// @Router /roster [get]
func (h *RosterHandler) List(c *gin.Context) {
	filter := models.RosterFilter{
		Role:          models.Role(strings.TrimSpace(c.Query("role"))),
		GerenteID:     strings.TrimSpace(c.Query("gerente")),
		CoordenadorID: strings.TrimSpace(c.Query("coordenador")),
		SupervisorID:  strings.TrimSpace(c.Query("supervisor")),
		Search:        strings.TrimSpace(c.Query("q")),
	}
	response.JSON(c, http.StatusOK, h.service.List(filter), nil)
}

// Get godoc
// @Summary Fetch one roster member
// @Tags Roster
// @Produce json
// @Param matricula path string true "Matricula"
// @Success 200 {object} response.Envelope
// @Router /roster/{matricula} [get]
func (h *RosterHandler) Get(c *gin.Context) {
	member, err := h.service.Get(c.Param("matricula"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, member, nil)
}

// AddSupervisor godoc
// @Summary Enroll a new supervisor
// @Tags Roster
// @Accept json
// @Produce json
// @Param payload body dto.AddSupervisorRequest true "Supervisor data"
// @Success 201 {object} response.Envelope
// @Router /roster/supervisors [post]
func (h *RosterHandler) AddSupervisor(c *gin.Context) {
	var req dto.AddSupervisorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(h.defaultPassword), bcrypt.DefaultCost)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "password hash failed"))
		return
	}

	created, err := h.service.AddSupervisor(c.Request.Context(), req, string(hash), actorMatricula(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}
