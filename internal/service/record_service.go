package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tabi-ops/tabi-api/internal/dto"
	"github.com/tabi-ops/tabi-api/internal/models"
	"github.com/tabi-ops/tabi-api/internal/store"
	appErrors "github.com/tabi-ops/tabi-api/pkg/errors"
)

// RecordService owns the record lifecycle: create, edit, publish, remove,
// and the filtered read views the planning screens consume.
type RecordService struct {
	store          *store.Store
	logger         *zap.Logger
	minutesPerUnit int

	now   func() time.Time
	newID func() string
}

func NewRecordService(st *store.Store, logger *zap.Logger, minutesPerUnit int) *RecordService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if minutesPerUnit <= 0 {
		minutesPerUnit = 10
	}
	return &RecordService{
		store:          st,
		logger:         logger,
		minutesPerUnit: minutesPerUnit,
		now:            time.Now,
		newID:          uuid.NewString,
	}
}

// Create builds one DRAFT record per selected interval. The overtime budget
// is derived from the requested headcount.
func (s *RecordService) Create(ctx context.Context, req dto.CreateRecordRequest, actor string) ([]models.ScheduleRecord, error) {
	endDate := req.EndDate
	if endDate == "" {
		endDate = req.StartDate
	}
	if endDate < req.StartDate {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_date is before start_date")
	}

	var created []models.ScheduleRecord
	err := s.store.Update(ctx, func(st *store.State) error {
		now := s.now().UTC()
		for _, interval := range req.Intervals {
			normalized := normalizeInterval(interval)
			if timeToMinutes(normalized) < 0 {
				return appErrors.Clone(appErrors.ErrValidation,
					fmt.Sprintf("invalid interval: %s", interval))
			}
			rec := &models.ScheduleRecord{
				ID:            s.newID(),
				StartDate:     req.StartDate,
				EndDate:       endDate,
				DMM:           req.DMM,
				Segment:       req.Segment,
				Operation:     req.Operation,
				IntervalStart: normalized,
				HCRequested:   req.HC,
				HEMinutes:     req.HC * s.minutesPerUnit,
				Motivo:        req.Motivo,
				Status:        models.StatusDraft,
				CreatedAt:     now,
				CreatedBy:     actor,
			}
			st.Records = append(st.Records, rec)
			created = append(created, *rec)
		}
		appendLog(st, actor, models.AuditActionRecordCreate,
			fmt.Sprintf("%d record(s) created for %s / %s", len(created), req.Segment, req.Operation))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update edits a record in place. Shrinking the budget below what is
// already assigned is rejected.
func (s *RecordService) Update(ctx context.Context, id string, req dto.UpdateRecordRequest, actor string) (*models.ScheduleRecord, error) {
	var updated models.ScheduleRecord
	err := s.store.Update(ctx, func(st *store.State) error {
		rec := st.RecordByID(id)
		if rec == nil {
			return appErrors.Clone(appErrors.ErrNotFound, "record not found")
		}

		if req.StartDate != "" {
			rec.StartDate = req.StartDate
		}
		if req.EndDate != "" {
			rec.EndDate = req.EndDate
		}
		if rec.EndDate < rec.StartDate {
			return appErrors.Clone(appErrors.ErrValidation, "end_date is before start_date")
		}
		if req.DMM != "" {
			rec.DMM = req.DMM
		}
		if req.Segment != "" {
			rec.Segment = req.Segment
		}
		if req.Operation != "" {
			rec.Operation = req.Operation
		}
		if req.IntervalStart != "" {
			normalized := normalizeInterval(req.IntervalStart)
			if timeToMinutes(normalized) < 0 {
				return appErrors.Clone(appErrors.ErrValidation,
					fmt.Sprintf("invalid interval: %s", req.IntervalStart))
			}
			rec.IntervalStart = normalized
		}
		if req.HC > 0 {
			budget := req.HC * s.minutesPerUnit
			if budget < rec.AssignedHEMinutes {
				return appErrors.Clone(appErrors.ErrValidation,
					fmt.Sprintf("budget %d minute(s) is below the %d already assigned", budget, rec.AssignedHEMinutes))
			}
			rec.HCRequested = req.HC
			rec.HEMinutes = budget
		}
		if req.Motivo != "" {
			rec.Motivo = req.Motivo
		}

		updated = *rec
		appendLog(st, actor, models.AuditActionRecordUpdate,
			fmt.Sprintf("record %s updated", id))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a record and its assignment ledger.
func (s *RecordService) Delete(ctx context.Context, id, actor string) error {
	return s.store.Update(ctx, func(st *store.State) error {
		idx := -1
		for i, r := range st.Records {
			if r.ID == id {
				idx = i
				break
			}
		}
		if idx == -1 {
			return appErrors.Clone(appErrors.ErrNotFound, "record not found")
		}

		st.Records = append(st.Records[:idx], st.Records[idx+1:]...)
		delete(st.Assignments, id)
		appendLog(st, actor, models.AuditActionRecordRemove,
			fmt.Sprintf("record %s removed", id))
		return nil
	})
}

// PublishDrafts flips every DRAFT record to PUBLISHED and returns the count.
func (s *RecordService) PublishDrafts(ctx context.Context, actor string) (int, error) {
	published := 0
	err := s.store.Update(ctx, func(st *store.State) error {
		now := s.now().UTC()
		for _, rec := range st.Records {
			if rec.Status != models.StatusDraft {
				continue
			}
			rec.Status = models.StatusPublished
			rec.PublishedAt = &now
			published++
		}
		if published == 0 {
			return appErrors.Clone(appErrors.ErrValidation, "no draft records to publish")
		}
		appendLog(st, actor, models.AuditActionPublish,
			fmt.Sprintf("%d record(s) published", published))
		return nil
	})
	if err != nil {
		return 0, err
	}
	return published, nil
}

// Get returns one record with its expiry derived.
func (s *RecordService) Get(id string) (*models.ScheduleRecord, error) {
	var found *models.ScheduleRecord
	now := s.now()
	s.store.View(func(st *store.State) {
		if rec := st.RecordByID(id); rec != nil {
			found = deriveExpiry(rec, now)
		}
	})
	if found == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "record not found")
	}
	return found, nil
}

// List returns filtered record copies. Expired records are excluded unless
// the filter asks for them, in which case they carry the derived status.
func (s *RecordService) List(filter models.RecordFilter) []models.ScheduleRecord {
	out := []models.ScheduleRecord{}
	now := s.now()
	s.store.View(func(st *store.State) {
		for _, rec := range st.Records {
			derived := deriveExpiry(rec, now)
			if !matches(derived, filter) {
				continue
			}
			out = append(out, *derived)
		}
	})
	return out
}

// Groups partitions the filtered records and attaches validation stamps.
// Drafts never appear in the validation view.
func (s *RecordService) Groups(filter models.RecordFilter) []*models.Group {
	now := s.now()
	var groups []*models.Group
	s.store.View(func(st *store.State) {
		var visible []*models.ScheduleRecord
		for _, rec := range st.Records {
			if rec.Status == models.StatusDraft {
				continue
			}
			derived := deriveExpiry(rec, now)
			if !matches(derived, filter) {
				continue
			}
			visible = append(visible, derived)
		}
		groups = GroupRecords(visible)
		for _, g := range groups {
			if v, ok := st.Validations[g.Key]; ok {
				stamp := *v
				g.Validation = &stamp
			}
		}
	})
	return groups
}

func deriveExpiry(rec *models.ScheduleRecord, now time.Time) *models.ScheduleRecord {
	copied := *rec
	if isExpired(rec, now) {
		copied.Status = models.StatusExpired
	}
	return &copied
}

func matches(rec *models.ScheduleRecord, f models.RecordFilter) bool {
	if rec.Status == models.StatusExpired && !f.IncludeExpired {
		return false
	}
	if f.Start != "" && rec.EndDate < f.Start {
		return false
	}
	if f.End != "" && rec.StartDate > f.End {
		return false
	}
	if f.Interval != "" && normalizeTime(rec.IntervalStart) != normalizeTime(f.Interval) {
		return false
	}
	if f.Segment != "" && rec.Segment != f.Segment {
		return false
	}
	if f.Operation != "" && rec.Operation != f.Operation {
		return false
	}
	if f.HCMin != nil && rec.HCRequested < *f.HCMin {
		return false
	}
	if f.Status != "" && rec.Status != f.Status {
		return false
	}
	return true
}

// normalizeInterval canonicalizes user input to HH:MM:SS.
func normalizeInterval(t string) string {
	normalized := normalizeTime(t)
	if len(normalized) == 5 {
		return normalized + ":00"
	}
	return normalized
}
