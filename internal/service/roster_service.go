package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/tabi-ops/tabi-api/internal/dto"
	"github.com/tabi-ops/tabi-api/internal/models"
	"github.com/tabi-ops/tabi-api/internal/store"
	appErrors "github.com/tabi-ops/tabi-api/pkg/errors"
)

// RosterService reads and grows the organizational tree.
type RosterService struct {
	store  *store.Store
	logger *zap.Logger
}

func NewRosterService(st *store.Store, logger *zap.Logger) *RosterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterService{store: st, logger: logger}
}

// List returns roster members matching the filter, sorted by name.
// Password hashes never leave the store.
func (s *RosterService) List(filter models.RosterFilter) []models.Collaborator {
	out := []models.Collaborator{}
	s.store.View(func(st *store.State) {
		for _, c := range st.Collaborators {
			if filter.Role != "" && c.Role != filter.Role {
				continue
			}
			if filter.GerenteID != "" && c.GerenteID != filter.GerenteID {
				continue
			}
			if filter.CoordenadorID != "" && c.CoordenadorID != filter.CoordenadorID {
				continue
			}
			if filter.SupervisorID != "" && c.SupervisorID != filter.SupervisorID {
				continue
			}
			if filter.Search != "" {
				needle := strings.ToLower(filter.Search)
				if !strings.Contains(strings.ToLower(c.Nome), needle) &&
					!strings.Contains(c.Matricula, filter.Search) {
					continue
				}
			}
			copied := *c
			copied.PasswordHash = ""
			out = append(out, copied)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Nome < out[j].Nome })
	return out
}

// Get returns one roster member without the password hash.
func (s *RosterService) Get(matricula string) (*models.Collaborator, error) {
	var found *models.Collaborator
	s.store.View(func(st *store.State) {
		if c := st.CollaboratorByMatricula(matricula); c != nil {
			copied := *c
			copied.PasswordHash = ""
			found = &copied
		}
	})
	if found == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "collaborator not found")
	}
	return found, nil
}

// AddSupervisor enrolls a supervisor under an existing gerente/coordenador
// pair with a freshly generated matricula.
func (s *RosterService) AddSupervisor(ctx context.Context, req dto.AddSupervisorRequest, passwordHash, actor string) (*models.Collaborator, error) {
	var created models.Collaborator
	err := s.store.Update(ctx, func(st *store.State) error {
		gerente := st.CollaboratorByMatricula(req.GerenteID)
		if gerente == nil || gerente.Role != models.RoleGerente {
			return appErrors.Clone(appErrors.ErrValidation,
				fmt.Sprintf("%s is not a gerente", req.GerenteID))
		}
		coordenador := st.CollaboratorByMatricula(req.CoordenadorID)
		if coordenador == nil || coordenador.Role != models.RoleCoordenador {
			return appErrors.Clone(appErrors.ErrValidation,
				fmt.Sprintf("%s is not a coordenador", req.CoordenadorID))
		}
		if coordenador.GerenteID != gerente.Matricula {
			return appErrors.Clone(appErrors.ErrValidation,
				"coordenador does not report to that gerente")
		}

		used := map[string]struct{}{}
		for _, c := range st.Collaborators {
			used[c.Matricula] = struct{}{}
		}

		member := &models.Collaborator{
			Matricula:     store.GenerateMatricula(used),
			Nome:          strings.TrimSpace(req.Nome),
			Role:          models.RoleSupervisor,
			GerenteID:     gerente.Matricula,
			CoordenadorID: coordenador.Matricula,
			PasswordHash:  passwordHash,
		}
		st.Collaborators = append(st.Collaborators, member)

		created = *member
		created.PasswordHash = ""
		appendLog(st, actor, models.AuditActionRosterAdd,
			fmt.Sprintf("supervisor %s (%s) added under %s/%s",
				member.Nome, member.Matricula, gerente.Matricula, coordenador.Matricula))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}
