package service

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tabi-ops/tabi-api/internal/dto"
	"github.com/tabi-ops/tabi-api/internal/models"
	"github.com/tabi-ops/tabi-api/internal/store"
)

// DashboardService aggregates planned versus assigned load by segment, day
// and period. Realized minutes arrive from an external time-tracking feed
// and live only in memory.
type DashboardService struct {
	store  *store.Store
	logger *zap.Logger

	mu       sync.RWMutex
	realized map[string]int

	now func() time.Time
}

func NewDashboardService(st *store.Store, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		store:    st,
		logger:   logger,
		realized: map[string]int{},
		now:      time.Now,
	}
}

// FeedRealized replaces the realized-minutes figures for the given segments.
func (s *DashboardService) FeedRealized(realized map[string]int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for segment, minutes := range realized {
		s.realized[segment] = minutes
	}
}

// Aggregate builds the dashboard over the filtered records. Distributed
// counts published-or-later budgets; assigned counts committed minutes.
func (s *DashboardService) Aggregate(filter models.RecordFilter) *dto.DashboardResponse {
	resp := &dto.DashboardResponse{
		Segments: []dto.SegmentLoad{},
		Days:     []dto.DailyLoad{},
		Periods:  []dto.PeriodLoad{},
	}

	segments := map[string]*dto.SegmentLoad{}
	days := map[string]*dto.DailyLoad{}
	periods := map[string]*dto.PeriodLoad{}
	for _, p := range DefaultPeriods {
		periods[p.ID] = &dto.PeriodLoad{Period: p.ID, Label: p.Label}
	}

	now := s.now()
	s.store.View(func(st *store.State) {
		for _, rec := range st.Records {
			derived := deriveExpiry(rec, now)
			if !matches(derived, filter) {
				continue
			}

			seg, ok := segments[derived.Segment]
			if !ok {
				seg = &dto.SegmentLoad{Segment: derived.Segment}
				segments[derived.Segment] = seg
			}
			seg.PlannedMinutes += derived.HEMinutes
			if derived.Status != models.StatusDraft {
				seg.DistributedMinutes += derived.HEMinutes
			}
			seg.AssignedMinutes += derived.AssignedHEMinutes

			day, ok := days[derived.StartDate]
			if !ok {
				day = &dto.DailyLoad{Date: derived.StartDate}
				days[derived.StartDate] = day
			}
			day.PlannedMinutes += derived.HEMinutes
			day.AssignedMinutes += derived.AssignedHEMinutes

			mins := timeToMinutes(derived.IntervalStart)
			for _, p := range DefaultPeriods {
				if mins >= p.StartMin && mins < p.EndMin {
					periods[p.ID].PlannedMinutes += derived.HEMinutes
					periods[p.ID].AssignedMinutes += derived.AssignedHEMinutes
					break
				}
			}
		}
	})

	s.mu.RLock()
	for name, seg := range segments {
		seg.RealizedMinutes = s.realized[name]
	}
	s.mu.RUnlock()

	for _, seg := range segments {
		resp.Segments = append(resp.Segments, *seg)
	}
	sort.Slice(resp.Segments, func(i, j int) bool {
		return resp.Segments[i].Segment < resp.Segments[j].Segment
	})

	for _, day := range days {
		resp.Days = append(resp.Days, *day)
	}
	sort.Slice(resp.Days, func(i, j int) bool {
		return resp.Days[i].Date < resp.Days[j].Date
	})

	for _, p := range DefaultPeriods {
		resp.Periods = append(resp.Periods, *periods[p.ID])
	}
	return resp
}
