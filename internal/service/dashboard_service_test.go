package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabi-ops/tabi-api/internal/models"
	"github.com/tabi-ops/tabi-api/internal/store"
	"github.com/tabi-ops/tabi-api/pkg/kv"
)

func TestDashboardAggregates(t *testing.T) {
	morning := testRecord("r1", "09:00:00", 6, 60)
	morning.AssignedHEMinutes = 30
	evening := testRecord("r2", "19:00:00", 4, 40)
	evening.Segment = "LABS"
	draft := testRecord("r3", "10:00:00", 2, 20)
	draft.Status = models.StatusDraft

	st := store.New(kv.NewMemory(), nil)
	require.NoError(t, st.Load(context.Background()))
	require.NoError(t, st.Update(context.Background(), func(state *store.State) error {
		state.Records = []*models.ScheduleRecord{morning, evening, draft}
		return nil
	}))

	svc := NewDashboardService(st, nil)
	svc.FeedRealized(map[string]int{"LABS": 25})

	resp := svc.Aggregate(models.RecordFilter{})

	require.Len(t, resp.Segments, 2)
	front := resp.Segments[0]
	labs := resp.Segments[1]

	assert.Equal(t, "CONTROLE FRONT MOC", front.Segment)
	assert.Equal(t, 80, front.PlannedMinutes)
	assert.Equal(t, 60, front.DistributedMinutes)
	assert.Equal(t, 30, front.AssignedMinutes)
	assert.Zero(t, front.RealizedMinutes)

	assert.Equal(t, 40, labs.PlannedMinutes)
	assert.Equal(t, 25, labs.RealizedMinutes)

	require.Len(t, resp.Days, 1)
	assert.Equal(t, 120, resp.Days[0].PlannedMinutes)
	assert.Equal(t, 30, resp.Days[0].AssignedMinutes)

	require.Len(t, resp.Periods, 3)
	byID := map[string]int{}
	for _, p := range resp.Periods {
		byID[p.Period] = p.PlannedMinutes
	}
	assert.Equal(t, 80, byID["manha"])
	assert.Equal(t, 0, byID["tarde"])
	assert.Equal(t, 40, byID["noite"])
}
