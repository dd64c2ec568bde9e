package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tabi-ops/tabi-api/internal/dto"
	"github.com/tabi-ops/tabi-api/internal/models"
	"github.com/tabi-ops/tabi-api/internal/store"
	appErrors "github.com/tabi-ops/tabi-api/pkg/errors"
)

// ValidationService stamps groups with a supervisor roster and an approver.
// A validation always covers whole groups; every request is checked in full
// before any record changes status.
type ValidationService struct {
	store  *store.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewValidationService(st *store.Store, logger *zap.Logger) *ValidationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ValidationService{store: st, logger: logger, now: time.Now}
}

// ValidateGroups moves every PENDING or PUBLISHED record of the named groups
// to VALIDATED and records one shared stamp per group. Either every group
// validates or none does.
func (s *ValidationService) ValidateGroups(ctx context.Context, req dto.ValidateGroupsRequest, actor string) (*dto.ValidateGroupsResult, error) {
	result := &dto.ValidateGroupsResult{}
	err := s.store.Update(ctx, func(st *store.State) error {
		aprovador := st.CollaboratorByMatricula(req.Aprovador)
		if aprovador == nil {
			return appErrors.Clone(appErrors.ErrNotFound,
				fmt.Sprintf("aprovador %s is not on the roster", req.Aprovador))
		}
		if aprovador.Role != models.RoleGerente && aprovador.Role != models.RoleCoordenador {
			return appErrors.Clone(appErrors.ErrValidation,
				"aprovador must be a gerente or coordenador")
		}
		for _, matricula := range req.Supervisors {
			member := st.CollaboratorByMatricula(matricula)
			if member == nil {
				return appErrors.Clone(appErrors.ErrNotFound,
					fmt.Sprintf("supervisor %s is not on the roster", matricula))
			}
			if member.Role != models.RoleSupervisor {
				return appErrors.Clone(appErrors.ErrValidation,
					fmt.Sprintf("%s is not a supervisor", matricula))
			}
		}

		// Check every group before touching any record.
		now := s.now()
		eligible := map[string][]*models.ScheduleRecord{}
		for _, key := range req.Keys {
			members := groupMembers(st, key, now)
			if len(members) == 0 {
				return appErrors.Clone(appErrors.ErrNotFound,
					fmt.Sprintf("group %s has no active records", key))
			}
			var pending []*models.ScheduleRecord
			for _, rec := range members {
				switch rec.Status {
				case models.StatusPending, models.StatusPublished:
					pending = append(pending, rec)
				case models.StatusValidated, models.StatusAssigned:
					// Already past this stage; the stamp below refreshes.
				default:
					return appErrors.Clone(appErrors.ErrInvalidTransition,
						fmt.Sprintf("record %s is %s and cannot be validated", rec.ID, rec.Status))
				}
			}
			eligible[key] = pending
		}

		stampTime := now.UTC()
		for _, key := range req.Keys {
			for _, rec := range eligible[key] {
				rec.Status = models.StatusValidated
				rec.ValidationKey = key
				result.Records++
			}
			st.Validations[key] = &models.GroupValidation{
				Key:         key,
				ValidatedAt: stampTime,
				ValidatedBy: actor,
				Supervisors: append([]string(nil), req.Supervisors...),
				Aprovador:   req.Aprovador,
			}
			result.Groups++
		}

		appendLog(st, actor, models.AuditActionValidateGroup,
			fmt.Sprintf("%d group(s) validated, aprovador %s", result.Groups, req.Aprovador))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Validation returns the stamp for a group, or nil when none exists.
func (s *ValidationService) Validation(key string) *models.GroupValidation {
	var stamp *models.GroupValidation
	s.store.View(func(st *store.State) {
		if v, ok := st.Validations[key]; ok {
			copied := *v
			stamp = &copied
		}
	})
	return stamp
}
