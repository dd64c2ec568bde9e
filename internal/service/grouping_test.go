package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabi-ops/tabi-api/internal/models"
)

func TestGroupKeyComposition(t *testing.T) {
	rec := testRecord("r1", "09:00:00", 4, 40)
	key := GroupKey(rec)
	assert.Equal(t, today()+"|"+today()+"|CONTROLE FRONT MOC|VIVO", key)
}

func TestGroupRecordsPartition(t *testing.T) {
	a1 := testRecord("a1", "09:00:00", 4, 40)
	a2 := testRecord("a2", "10:00:00", 2, 20)
	b1 := testRecord("b1", "09:00:00", 3, 30)
	b1.Operation = "TIM"

	groups := GroupRecords([]*models.ScheduleRecord{a1, b1, a2})
	require.Len(t, groups, 2)

	// First-seen order.
	assert.Equal(t, GroupKey(a1), groups[0].Key)
	assert.Equal(t, GroupKey(b1), groups[1].Key)

	// Every record lands in exactly one group.
	total := 0
	for _, g := range groups {
		total += len(g.Records)
	}
	assert.Equal(t, 3, total)

	assert.Equal(t, 60, groups[0].TotalHEMinutes)
	assert.Equal(t, 6, groups[0].TotalHCRequested)
	assert.Equal(t, 30, groups[1].TotalHEMinutes)
}

func TestNormalizeTime(t *testing.T) {
	assert.Equal(t, "07:00", normalizeTime("7:0"))
	assert.Equal(t, "07:00", normalizeTime("07:00:00"))
	assert.Equal(t, "19:30", normalizeTime(" 19:30 "))
	assert.Equal(t, "", normalizeTime(""))
}

func TestTimeToMinutes(t *testing.T) {
	assert.Equal(t, 9*60, timeToMinutes("09:00:00"))
	assert.Equal(t, 19*60+30, timeToMinutes("19:30"))
	assert.Equal(t, -1, timeToMinutes("banana"))
	assert.Equal(t, -1, timeToMinutes("25:00"))
}

func TestIsExpired(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	rec := testRecord("r1", "09:00:00", 1, 10)
	rec.EndDate = "2026-03-09"
	assert.True(t, isExpired(rec, now))

	rec.EndDate = "2026-03-10"
	assert.False(t, isExpired(rec, now))

	rec.EndDate = "not-a-date"
	assert.False(t, isExpired(rec, now))
}
