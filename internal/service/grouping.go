package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tabi-ops/tabi-api/internal/models"
	"github.com/tabi-ops/tabi-api/internal/store"
)

// GroupKey joins the grouping fields with an unescaped pipe, matching the
// persisted validation keys. A segment or operation containing '|' would
// collide; the labels are controlled classification strings, so the join is
// kept as-is rather than escaped.
func GroupKey(r *models.ScheduleRecord) string {
	return fmt.Sprintf("%s|%s|%s|%s", r.StartDate, r.EndDate, r.Segment, r.Operation)
}

// GroupRecords partitions records into one group per distinct
// (date range, segment, operation) key, preserving first-seen order.
// Totals are sums over the member list.
func GroupRecords(records []*models.ScheduleRecord) []*models.Group {
	index := map[string]*models.Group{}
	var order []string

	for _, r := range records {
		key := GroupKey(r)
		g, ok := index[key]
		if !ok {
			g = &models.Group{
				Key:       key,
				StartDate: r.StartDate,
				EndDate:   r.EndDate,
				Segment:   r.Segment,
				Operation: r.Operation,
			}
			index[key] = g
			order = append(order, key)
		}
		g.Records = append(g.Records, r)
		g.TotalHEMinutes += r.HEMinutes
		g.TotalHCRequested += r.HCRequested
		g.AssignedHEMinutes += r.AssignedHEMinutes
		g.AssignedHC += r.AssignedHC
	}

	groups := make([]*models.Group, 0, len(order))
	for _, key := range order {
		groups = append(groups, index[key])
	}
	return groups
}

// groupMembers returns the non-expired records of a group, ordered by
// interval start. This is the fixed walk order of the allocation engine.
func groupMembers(st *store.State, key string, now time.Time) []*models.ScheduleRecord {
	var members []*models.ScheduleRecord
	for _, r := range st.Records {
		if GroupKey(r) != key || isExpired(r, now) {
			continue
		}
		members = append(members, r)
	}
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].IntervalStart < members[j].IntervalStart
	})
	return members
}

// isExpired reports whether the record's end date is before today. Derived
// only, never stored.
func isExpired(r *models.ScheduleRecord, now time.Time) bool {
	if r.EndDate == "" {
		return false
	}
	end, err := time.ParseInLocation("2006-01-02", r.EndDate, now.Location())
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return end.Before(today)
}

// normalizeTime accepts "7:0", "07:00" or "07:00:00" and returns "HH:MM".
func normalizeTime(t string) string {
	s := strings.TrimSpace(t)
	if s == "" {
		return ""
	}
	parts := strings.Split(s, ":")
	for i, p := range parts {
		if len(p) < 2 {
			parts[i] = "0" + p
		}
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return parts[0] + ":" + parts[1]
}

// timeToMinutes converts "HH:MM[:SS]" to minute-of-day; malformed input
// yields -1.
func timeToMinutes(t string) int {
	var hh, mm int
	normalized := normalizeTime(t)
	if normalized == "" {
		return -1
	}
	if _, err := fmt.Sscanf(normalized, "%d:%d", &hh, &mm); err != nil {
		return -1
	}
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return -1
	}
	return hh*60 + mm
}
