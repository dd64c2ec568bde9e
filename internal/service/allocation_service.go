package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tabi-ops/tabi-api/internal/dto"
	"github.com/tabi-ops/tabi-api/internal/models"
	"github.com/tabi-ops/tabi-api/internal/store"
	appErrors "github.com/tabi-ops/tabi-api/pkg/errors"
)

// Period is a named daytime bucket; records are bucketed by interval start,
// half-open [Start, End).
type Period struct {
	ID       string
	Label    string
	StartMin int
	EndMin   int
}

// DefaultPeriods are the three operating windows of the demo day.
var DefaultPeriods = []Period{
	{ID: "manha", Label: "MANHÃ (07:00–12:00)", StartMin: 7 * 60, EndMin: 12 * 60},
	{ID: "tarde", Label: "TARDE (13:00–17:00)", StartMin: 13 * 60, EndMin: 17 * 60},
	{ID: "noite", Label: "NOITE (18:00–22:00)", StartMin: 18 * 60, EndMin: 22 * 60},
}

func periodByID(id string) (Period, bool) {
	for _, p := range DefaultPeriods {
		if p.ID == id {
			return p, true
		}
	}
	return Period{}, false
}

// AllocationService distributes overtime minutes across records. It owns the
// round-robin cursors of the simulation mode; cursor state advances only
// under the store's writer lock.
type AllocationService struct {
	store          *store.Store
	logger         *zap.Logger
	chunkCap       int
	minutesPerUnit int

	opCursor  int
	supCursor int
	plnCursor int

	now   func() time.Time
	newID func() string
}

// NewAllocationService constructs the engine with the configured caps.
func NewAllocationService(st *store.Store, logger *zap.Logger, chunkCap, minutesPerUnit int) *AllocationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if chunkCap <= 0 {
		chunkCap = 105
	}
	if minutesPerUnit <= 0 {
		minutesPerUnit = 10
	}
	return &AllocationService{
		store:          st,
		logger:         logger,
		chunkCap:       chunkCap,
		minutesPerUnit: minutesPerUnit,
		now:            time.Now,
		newID:          uuid.NewString,
	}
}

// Simulate carves demo assignments for every record of the group that still
// has remaining capacity. Chunks are min(remaining, cap) minutes and rotate
// over the operator, supervisor and planner rosters independently. Commits
// incrementally; returns the number of chunks created (zero when nothing had
// capacity).
func (s *AllocationService) Simulate(ctx context.Context, key, actor string) (*dto.SimulateResult, error) {
	result := &dto.SimulateResult{}
	err := s.store.Update(ctx, func(st *store.State) error {
		members := groupMembers(st, key, s.now())
		if len(members) == 0 {
			return appErrors.Clone(appErrors.ErrNotFound, "group has no active records")
		}

		operators := rosterByRole(st, models.RoleColaborador)
		supervisors := rosterByRole(st, models.RoleSupervisor)
		planners := rosterByRole(st, models.RoleCoordenador)

		for _, rec := range members {
			for rec.RemainingMinutes() > 0 {
				chunk := rec.RemainingMinutes()
				if chunk > s.chunkCap {
					chunk = s.chunkCap
				}

				event := models.AssignmentEvent{
					ID:        s.newID(),
					Minutes:   chunk,
					Interval:  rec.IntervalStart,
					CreatedAt: s.now().UTC(),
				}
				if op := pick(operators, s.opCursor); op != nil {
					event.ToMatricula = op.Matricula
					event.ToName = op.Nome
				}
				if sup := pick(supervisors, s.supCursor); sup != nil {
					event.SupervisorMatricula = sup.Matricula
				}
				if pln := pick(planners, s.plnCursor); pln != nil {
					event.ByMatricula = pln.Matricula
					event.ByName = pln.Nome
				}

				st.Assignments[rec.ID] = append(st.Assignments[rec.ID], event)
				applyMinutes(rec, chunk, s.minutesPerUnit)
				rec.Status = models.StatusAssigned

				s.opCursor++
				s.supCursor++
				s.plnCursor++
				result.Chunks++
			}
		}

		if result.Chunks > 0 {
			appendLog(st, actor, models.AuditActionSimulate,
				fmt.Sprintf("%d assignment chunk(s) simulated for group %s", result.Chunks, key))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// stagedChunk is one planned (collaborator, record) grant, held back until
// every period of the request has been proven feasible.
type stagedChunk struct {
	record    *models.ScheduleRecord
	matricula string
	nome      string
	units     int
}

// Allocate spreads each collaborator's requested time over the selected
// periods of a group. The whole request is staged first and committed only
// if every period passes its capacity check: either every unit is placed or
// nothing is.
func (s *AllocationService) Allocate(ctx context.Context, req dto.AllocateRequest, actor string) (*dto.AllocateResult, error) {
	result := &dto.AllocateResult{MinutesBy: map[string]int{}}

	err := s.store.Update(ctx, func(st *store.State) error {
		shares, err := s.resolveShares(st, req.Collaborators)
		if err != nil {
			return err
		}

		members := groupMembers(st, req.Key, s.now())
		if len(members) == 0 {
			return appErrors.Clone(appErrors.ErrNotFound, "group has no active records")
		}

		// Staging walks a scratch copy of each record's remaining units
		// so a failing later period leaves earlier ones untouched.
		remaining := map[string]int{}
		for _, rec := range members {
			remaining[rec.ID] = rec.RemainingUnits()
		}

		var staged []stagedChunk
		for _, pid := range req.Periods {
			period, ok := periodByID(pid)
			if !ok {
				return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown period: %s", pid))
			}

			var inPeriod []*models.ScheduleRecord
			available := 0
			for _, rec := range members {
				mins := timeToMinutes(rec.IntervalStart)
				if mins >= period.StartMin && mins < period.EndMin {
					inPeriod = append(inPeriod, rec)
					available += remaining[rec.ID]
				}
			}

			exact := make([]float64, len(shares))
			for i, share := range shares {
				exact[i] = share.exactUnits
			}
			wanted := roundedTotal(exact)
			if wanted > available {
				return appErrors.Clone(appErrors.ErrInsufficientCapacity,
					fmt.Sprintf("period %s: %d unit(s) requested, %d available (short %d unit(s) of %d minutes)",
						period.ID, wanted, available, wanted-available, s.minutesPerUnit))
			}

			units := apportionUnits(exact)
			for i, share := range shares {
				left := units[i]
				for _, rec := range inPeriod {
					if left == 0 {
						break
					}
					take := remaining[rec.ID]
					if take == 0 {
						continue
					}
					if take > left {
						take = left
					}
					staged = append(staged, stagedChunk{
						record:    rec,
						matricula: share.matricula,
						nome:      share.nome,
						units:     take,
					})
					remaining[rec.ID] -= take
					left -= take
				}
				if left > 0 {
					// The pre-check above guarantees capacity; reaching
					// here means the check and the walk disagree.
					s.logger.Error("allocation walk exhausted capacity after pre-check",
						zap.String("period", period.ID),
						zap.String("matricula", share.matricula),
						zap.Int("units_left", left))
					return appErrors.Clone(appErrors.ErrConsistency,
						fmt.Sprintf("capacity exhausted allocating %s in period %s", share.matricula, period.ID))
				}
			}
		}

		// Commit. No check below this line may fail.
		now := s.now().UTC()
		touched := map[string]bool{}
		for _, chunk := range staged {
			minutes := chunk.units * s.minutesPerUnit
			st.Assignments[chunk.record.ID] = append(st.Assignments[chunk.record.ID], models.AssignmentEvent{
				ID:          s.newID(),
				ByMatricula: actor,
				ToMatricula: chunk.matricula,
				ToName:      chunk.nome,
				Minutes:     minutes,
				Interval:    chunk.record.IntervalStart,
				CreatedAt:   now,
			})
			applyMinutes(chunk.record, minutes, s.minutesPerUnit)
			chunk.record.Status = models.StatusAssigned
			touched[chunk.record.ID] = true
			result.Assignments++
			result.MinutesBy[chunk.matricula] += minutes
		}
		for id := range touched {
			result.Records = append(result.Records, id)
		}

		appendLog(st, actor, models.AuditActionAllocate,
			fmt.Sprintf("%d assignment(s) created for group %s", result.Assignments, req.Key))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AssignmentsForRecord returns a copy of the record's assignment list,
// oldest first.
func (s *AllocationService) AssignmentsForRecord(recordID string) ([]models.AssignmentEvent, error) {
	var events []models.AssignmentEvent
	var found bool
	s.store.View(func(st *store.State) {
		if st.RecordByID(recordID) == nil {
			return
		}
		found = true
		events = append(events, st.Assignments[recordID]...)
	})
	if !found {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "record not found")
	}
	return events, nil
}

// EditAssignment replaces an assignment's minutes, re-validated against the
// record's budget minus its other assignments.
func (s *AllocationService) EditAssignment(ctx context.Context, recordID, assignmentID string, minutes int, actor string) error {
	if minutes <= 0 {
		return appErrors.Clone(appErrors.ErrValidation, "minutes must be greater than zero")
	}
	if minutes%5 != 0 {
		return appErrors.Clone(appErrors.ErrValidation, "minutes must be a multiple of 5")
	}
	if minutes > s.chunkCap {
		return appErrors.Clone(appErrors.ErrChunkCapExceeded,
			fmt.Sprintf("maximum per assignment is %d minutes", s.chunkCap))
	}
	return s.store.Update(ctx, func(st *store.State) error {
		rec := st.RecordByID(recordID)
		if rec == nil {
			return appErrors.Clone(appErrors.ErrNotFound, "record not found")
		}
		events := st.Assignments[recordID]
		idx := -1
		other := 0
		for i, ev := range events {
			if ev.ID == assignmentID {
				idx = i
				continue
			}
			other += ev.Minutes
		}
		if idx == -1 {
			return appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		if ceiling := rec.HEMinutes - other; minutes > ceiling {
			return appErrors.Clone(appErrors.ErrInsufficientCapacity,
				fmt.Sprintf("maximum available is %d minute(s)", ceiling))
		}

		events[idx].Minutes = minutes
		recomputeTotals(rec, events, s.minutesPerUnit)
		appendLog(st, actor, models.AuditActionEditHE,
			fmt.Sprintf("assignment %s on record %s set to %d minute(s)", assignmentID, recordID, minutes))
		return nil
	})
}

// RemoveAssignment deletes an assignment. Removing the last one rolls the
// record back to PUBLISHED with zeroed totals.
func (s *AllocationService) RemoveAssignment(ctx context.Context, recordID, assignmentID, actor string) error {
	return s.store.Update(ctx, func(st *store.State) error {
		rec := st.RecordByID(recordID)
		if rec == nil {
			return appErrors.Clone(appErrors.ErrNotFound, "record not found")
		}
		events := st.Assignments[recordID]
		idx := -1
		for i, ev := range events {
			if ev.ID == assignmentID {
				idx = i
				break
			}
		}
		if idx == -1 {
			return appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}

		events = append(events[:idx], events[idx+1:]...)
		if len(events) == 0 {
			delete(st.Assignments, recordID)
			rec.Status = models.StatusPublished
			rec.AssignedHEMinutes = 0
			rec.AssignedHC = 0
		} else {
			st.Assignments[recordID] = events
			recomputeTotals(rec, events, s.minutesPerUnit)
		}

		appendLog(st, actor, models.AuditActionRemoveHE,
			fmt.Sprintf("assignment %s removed from record %s", assignmentID, recordID))
		return nil
	})
}

// share is a collaborator request converted to real-valued units.
type share struct {
	matricula  string
	nome       string
	exactUnits float64
}

func (s *AllocationService) resolveShares(st *store.State, reqs []dto.CollaboratorShare) ([]share, error) {
	shares := make([]share, 0, len(reqs))
	for _, r := range reqs {
		total := r.Hours*60 + r.Minutes
		if total <= 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation,
				fmt.Sprintf("collaborator %s: time must be greater than zero", r.Matricula))
		}
		if total%5 != 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation,
				fmt.Sprintf("collaborator %s: minutes must be a multiple of 5", r.Matricula))
		}
		if total > s.chunkCap {
			return nil, appErrors.Clone(appErrors.ErrChunkCapExceeded,
				fmt.Sprintf("collaborator %s: maximum is %d minutes (1h45)", r.Matricula, s.chunkCap))
		}
		member := st.CollaboratorByMatricula(r.Matricula)
		if member == nil {
			return nil, appErrors.Clone(appErrors.ErrNotFound,
				fmt.Sprintf("matricula %s is not on the roster", r.Matricula))
		}
		exact := float64(total) / float64(s.minutesPerUnit)
		// The cap is not a whole number of units; the trailing half unit of
		// a request at the cap rounds down, never up past the cap.
		if capUnits := float64(s.chunkCap / s.minutesPerUnit); exact > capUnits {
			exact = capUnits
		}
		shares = append(shares, share{
			matricula:  member.Matricula,
			nome:       member.Nome,
			exactUnits: exact,
		})
	}
	return shares, nil
}

// apportionUnits turns real-valued unit requests into integers that sum to
// the rounded request total: everyone gets their floor, then the leftover
// whole units go to the largest fractional remainders first.
func apportionUnits(exact []float64) []int {
	units := make([]int, len(exact))
	fracs := make([]float64, len(exact))
	sumFloor := 0
	for i, e := range exact {
		flo := int(math.Floor(e))
		units[i] = flo
		fracs[i] = e - float64(flo)
		sumFloor += flo
	}

	residual := roundedTotal(exact) - sumFloor
	for residual > 0 {
		best := -1
		for i, f := range fracs {
			if best == -1 || f > fracs[best] {
				best = i
			}
		}
		units[best]++
		fracs[best] = -1
		residual--
	}
	return units
}

func roundedTotal(exact []float64) int {
	sum := 0.0
	for _, e := range exact {
		sum += e
	}
	return int(math.Round(sum))
}

func rosterByRole(st *store.State, role models.Role) []*models.Collaborator {
	var out []*models.Collaborator
	for _, c := range st.Collaborators {
		if c.Role == role {
			out = append(out, c)
		}
	}
	return out
}

func pick(roster []*models.Collaborator, cursor int) *models.Collaborator {
	if len(roster) == 0 {
		return nil
	}
	return roster[cursor%len(roster)]
}

// applyMinutes adds granted minutes to a record's running totals, clamped to
// the requested budget.
func applyMinutes(rec *models.ScheduleRecord, minutes, minutesPerUnit int) {
	rec.AssignedHEMinutes += minutes
	if rec.AssignedHEMinutes > rec.HEMinutes {
		rec.AssignedHEMinutes = rec.HEMinutes
	}
	rec.AssignedHC = rec.AssignedHEMinutes / minutesPerUnit
	if rec.AssignedHC > rec.HCRequested {
		rec.AssignedHC = rec.HCRequested
	}
}

func recomputeTotals(rec *models.ScheduleRecord, events []models.AssignmentEvent, minutesPerUnit int) {
	total := 0
	for _, ev := range events {
		total += ev.Minutes
	}
	if total > rec.HEMinutes {
		total = rec.HEMinutes
	}
	rec.AssignedHEMinutes = total
	rec.AssignedHC = total / minutesPerUnit
	if rec.AssignedHC > rec.HCRequested {
		rec.AssignedHC = rec.HCRequested
	}
}
