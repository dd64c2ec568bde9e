package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabi-ops/tabi-api/internal/dto"
	"github.com/tabi-ops/tabi-api/internal/models"
	"github.com/tabi-ops/tabi-api/internal/store"
	appErrors "github.com/tabi-ops/tabi-api/pkg/errors"
	"github.com/tabi-ops/tabi-api/pkg/kv"
)

func today() string {
	return time.Now().Format("2006-01-02")
}

func testRecord(id, interval string, hc, heMinutes int) *models.ScheduleRecord {
	return &models.ScheduleRecord{
		ID:            id,
		StartDate:     today(),
		EndDate:       today(),
		Segment:       "CONTROLE FRONT MOC",
		Operation:     "VIVO",
		IntervalStart: interval,
		HCRequested:   hc,
		HEMinutes:     heMinutes,
		Status:        models.StatusPublished,
		CreatedAt:     time.Now().UTC(),
	}
}

func testRoster() []*models.Collaborator {
	return []*models.Collaborator{
		{Matricula: "100001", Nome: "Gerente Um", Role: models.RoleGerente},
		{Matricula: "200001", Nome: "Coordenador Um", Role: models.RoleCoordenador},
		{Matricula: "300001", Nome: "Supervisor Um", Role: models.RoleSupervisor},
		{Matricula: "400001", Nome: "Operador Um", Role: models.RoleColaborador},
		{Matricula: "400002", Nome: "Operador Dois", Role: models.RoleColaborador},
	}
}

func newAllocFixture(t *testing.T, records ...*models.ScheduleRecord) (*AllocationService, *store.Store) {
	t.Helper()
	st := store.New(kv.NewMemory(), nil)
	require.NoError(t, st.Load(context.Background()))

	err := st.Update(context.Background(), func(state *store.State) error {
		state.Records = records
		state.Collaborators = testRoster()
		return nil
	})
	require.NoError(t, err)

	return NewAllocationService(st, nil, 105, 10), st
}

func groupKeyOf(rec *models.ScheduleRecord) string {
	return GroupKey(rec)
}

func TestSimulateSingleChunk(t *testing.T) {
	rec := testRecord("r1", "09:00:00", 4, 40)
	svc, st := newAllocFixture(t, rec)

	result, err := svc.Simulate(context.Background(), groupKeyOf(rec), "100001")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Chunks)

	st.View(func(state *store.State) {
		got := state.RecordByID("r1")
		assert.Equal(t, models.StatusAssigned, got.Status)
		assert.Equal(t, 40, got.AssignedHEMinutes)
		assert.Equal(t, 4, got.AssignedHC)

		events := state.Assignments["r1"]
		require.Len(t, events, 1)
		assert.Equal(t, 40, events[0].Minutes)
		assert.Equal(t, "400001", events[0].ToMatricula)
	})
}

func TestSimulateChunkCap(t *testing.T) {
	rec := testRecord("r1", "09:00:00", 30, 300)
	svc, st := newAllocFixture(t, rec)

	result, err := svc.Simulate(context.Background(), groupKeyOf(rec), "100001")
	require.NoError(t, err)
	assert.Equal(t, 3, result.Chunks)

	st.View(func(state *store.State) {
		events := state.Assignments["r1"]
		require.Len(t, events, 3)
		total := 0
		for _, ev := range events {
			assert.LessOrEqual(t, ev.Minutes, 105)
			total += ev.Minutes
		}
		assert.Equal(t, 300, total)

		// Operators rotate chunk by chunk.
		assert.Equal(t, "400001", events[0].ToMatricula)
		assert.Equal(t, "400002", events[1].ToMatricula)
		assert.Equal(t, "400001", events[2].ToMatricula)
	})
}

func TestSimulateNothingRemaining(t *testing.T) {
	rec := testRecord("r1", "09:00:00", 4, 40)
	rec.AssignedHEMinutes = 40
	rec.AssignedHC = 4
	svc, _ := newAllocFixture(t, rec)

	result, err := svc.Simulate(context.Background(), groupKeyOf(rec), "100001")
	require.NoError(t, err)
	assert.Zero(t, result.Chunks)
}

func TestAllocateSpansRecords(t *testing.T) {
	recA := testRecord("ra", "09:00:00", 5, 50)
	recB := testRecord("rb", "10:00:00", 4, 40)
	svc, st := newAllocFixture(t, recA, recB)

	result, err := svc.Allocate(context.Background(), dto.AllocateRequest{
		Key:     groupKeyOf(recA),
		Periods: []string{"manha"},
		Collaborators: []dto.CollaboratorShare{
			{Matricula: "400001", Hours: 1, Minutes: 0},
			{Matricula: "400002", Hours: 0, Minutes: 30},
		},
	}, "300001")
	require.NoError(t, err)

	assert.Equal(t, 60, result.MinutesBy["400001"])
	assert.Equal(t, 30, result.MinutesBy["400002"])

	st.View(func(state *store.State) {
		// First collaborator drains the earlier interval, then spills over.
		eventsA := state.Assignments["ra"]
		require.Len(t, eventsA, 1)
		assert.Equal(t, "400001", eventsA[0].ToMatricula)
		assert.Equal(t, 50, eventsA[0].Minutes)

		eventsB := state.Assignments["rb"]
		require.Len(t, eventsB, 2)
		assert.Equal(t, "400001", eventsB[0].ToMatricula)
		assert.Equal(t, 10, eventsB[0].Minutes)
		assert.Equal(t, "400002", eventsB[1].ToMatricula)
		assert.Equal(t, 30, eventsB[1].Minutes)

		for _, id := range []string{"ra", "rb"} {
			rec := state.RecordByID(id)
			assert.Equal(t, models.StatusAssigned, rec.Status)
			assert.Equal(t, rec.HEMinutes, rec.AssignedHEMinutes)
		}
	})
}

func TestAllocateInsufficientCapacityLeavesStateUntouched(t *testing.T) {
	recA := testRecord("ra", "09:00:00", 5, 50)
	recB := testRecord("rb", "10:00:00", 3, 30)
	svc, st := newAllocFixture(t, recA, recB)

	_, err := svc.Allocate(context.Background(), dto.AllocateRequest{
		Key:     groupKeyOf(recA),
		Periods: []string{"manha"},
		Collaborators: []dto.CollaboratorShare{
			{Matricula: "400001", Hours: 1, Minutes: 30},
		},
	}, "300001")
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInsufficientCapacity.Code, appErr.Code)

	st.View(func(state *store.State) {
		assert.Empty(t, state.Assignments)
		for _, id := range []string{"ra", "rb"} {
			rec := state.RecordByID(id)
			assert.Equal(t, models.StatusPublished, rec.Status)
			assert.Zero(t, rec.AssignedHEMinutes)
			assert.Zero(t, rec.AssignedHC)
		}
	})
}

func TestAllocateSecondPeriodFailureRollsBackFirst(t *testing.T) {
	morning := testRecord("ra", "09:00:00", 6, 60)
	evening := testRecord("rb", "19:00:00", 2, 20)
	svc, st := newAllocFixture(t, morning, evening)

	// 30 minutes fit the morning but not the 20-minute evening record.
	_, err := svc.Allocate(context.Background(), dto.AllocateRequest{
		Key:     groupKeyOf(morning),
		Periods: []string{"manha", "noite"},
		Collaborators: []dto.CollaboratorShare{
			{Matricula: "400001", Hours: 0, Minutes: 30},
		},
	}, "300001")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInsufficientCapacity.Code, appErrors.FromError(err).Code)

	st.View(func(state *store.State) {
		assert.Empty(t, state.Assignments)
		assert.Zero(t, state.RecordByID("ra").AssignedHEMinutes)
	})
}

func TestAllocateChunkCap(t *testing.T) {
	rec := testRecord("ra", "09:00:00", 20, 200)
	svc, _ := newAllocFixture(t, rec)

	_, err := svc.Allocate(context.Background(), dto.AllocateRequest{
		Key:     groupKeyOf(rec),
		Periods: []string{"manha"},
		Collaborators: []dto.CollaboratorShare{
			{Matricula: "400001", Hours: 2, Minutes: 0},
		},
	}, "300001")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrChunkCapExceeded.Code, appErrors.FromError(err).Code)
}

func TestAllocateAtChunkCapStaysWithinCap(t *testing.T) {
	rec := testRecord("ra", "09:00:00", 20, 200)
	svc, st := newAllocFixture(t, rec)

	// 1h45 is exactly the cap; the half unit rounds down, never to 110.
	result, err := svc.Allocate(context.Background(), dto.AllocateRequest{
		Key:     groupKeyOf(rec),
		Periods: []string{"manha"},
		Collaborators: []dto.CollaboratorShare{
			{Matricula: "400001", Hours: 1, Minutes: 45},
		},
	}, "300001")
	require.NoError(t, err)
	assert.Equal(t, 100, result.MinutesBy["400001"])

	st.View(func(state *store.State) {
		events := state.Assignments["ra"]
		require.NotEmpty(t, events)
		for _, ev := range events {
			assert.LessOrEqual(t, ev.Minutes, 105)
		}
	})
}

func TestAllocateGranularity(t *testing.T) {
	rec := testRecord("ra", "09:00:00", 10, 100)
	svc, _ := newAllocFixture(t, rec)

	_, err := svc.Allocate(context.Background(), dto.AllocateRequest{
		Key:     groupKeyOf(rec),
		Periods: []string{"manha"},
		Collaborators: []dto.CollaboratorShare{
			{Matricula: "400001", Hours: 0, Minutes: 17},
		},
	}, "300001")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAllocateUnknownMatricula(t *testing.T) {
	rec := testRecord("ra", "09:00:00", 10, 100)
	svc, _ := newAllocFixture(t, rec)

	_, err := svc.Allocate(context.Background(), dto.AllocateRequest{
		Key:     groupKeyOf(rec),
		Periods: []string{"manha"},
		Collaborators: []dto.CollaboratorShare{
			{Matricula: "999999", Hours: 0, Minutes: 30},
		},
	}, "300001")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestApportionUnitsConservation(t *testing.T) {
	cases := [][]float64{
		{1.5, 1.5, 2},
		{0.5, 0.5, 0.5, 0.5},
		{3.25, 1.75},
		{2, 2, 2},
		{0.5},
		{1.5, 2.5, 3.5, 0.5},
	}
	for _, exact := range cases {
		t.Run(fmt.Sprintf("%v", exact), func(t *testing.T) {
			units := apportionUnits(exact)
			require.Len(t, units, len(exact))

			sum := 0
			for i, u := range units {
				// Nobody drifts more than one unit from their exact share.
				assert.LessOrEqual(t, float64(u), exact[i]+1)
				assert.GreaterOrEqual(t, float64(u)+1, exact[i])
				sum += u
			}
			assert.Equal(t, roundedTotal(exact), sum)
		})
	}
}

func TestApportionResidualFavorsLargestRemainder(t *testing.T) {
	units := apportionUnits([]float64{1.2, 1.7, 1.1})
	// 4 total units: the 0.7 remainder wins the single residual unit.
	assert.Equal(t, []int{1, 2, 1}, units)
}

func TestEditAssignmentCeiling(t *testing.T) {
	rec := testRecord("ra", "09:00:00", 6, 60)
	svc, st := newAllocFixture(t, rec)

	_, err := svc.Allocate(context.Background(), dto.AllocateRequest{
		Key:     groupKeyOf(rec),
		Periods: []string{"manha"},
		Collaborators: []dto.CollaboratorShare{
			{Matricula: "400001", Hours: 0, Minutes: 30},
			{Matricula: "400002", Hours: 0, Minutes: 20},
		},
	}, "300001")
	require.NoError(t, err)

	var firstID string
	st.View(func(state *store.State) {
		firstID = state.Assignments["ra"][0].ID
	})

	// 60 budget minus the other 20-minute assignment caps the edit at 40.
	err = svc.EditAssignment(context.Background(), "ra", firstID, 45, "300001")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInsufficientCapacity.Code, appErrors.FromError(err).Code)

	require.NoError(t, svc.EditAssignment(context.Background(), "ra", firstID, 40, "300001"))
	st.View(func(state *store.State) {
		got := state.RecordByID("ra")
		assert.Equal(t, 60, got.AssignedHEMinutes)
		assert.Equal(t, 6, got.AssignedHC)
	})
}

func TestEditAssignmentGranularity(t *testing.T) {
	rec := testRecord("ra", "09:00:00", 6, 60)
	svc, st := newAllocFixture(t, rec)

	_, err := svc.Allocate(context.Background(), dto.AllocateRequest{
		Key:     groupKeyOf(rec),
		Periods: []string{"manha"},
		Collaborators: []dto.CollaboratorShare{
			{Matricula: "400001", Hours: 0, Minutes: 30},
		},
	}, "300001")
	require.NoError(t, err)

	var id string
	st.View(func(state *store.State) {
		id = state.Assignments["ra"][0].ID
	})

	for _, minutes := range []int{0, 17} {
		err = svc.EditAssignment(context.Background(), "ra", id, minutes, "300001")
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	}

	st.View(func(state *store.State) {
		assert.Equal(t, 30, state.Assignments["ra"][0].Minutes)
	})
}

func TestRemoveLastAssignmentRollsBackStatus(t *testing.T) {
	rec := testRecord("ra", "09:00:00", 3, 30)
	svc, st := newAllocFixture(t, rec)

	_, err := svc.Allocate(context.Background(), dto.AllocateRequest{
		Key:     groupKeyOf(rec),
		Periods: []string{"manha"},
		Collaborators: []dto.CollaboratorShare{
			{Matricula: "400001", Hours: 0, Minutes: 30},
		},
	}, "300001")
	require.NoError(t, err)

	var assignmentID string
	st.View(func(state *store.State) {
		require.Len(t, state.Assignments["ra"], 1)
		assignmentID = state.Assignments["ra"][0].ID
	})

	require.NoError(t, svc.RemoveAssignment(context.Background(), "ra", assignmentID, "300001"))

	st.View(func(state *store.State) {
		assert.NotContains(t, state.Assignments, "ra")
		got := state.RecordByID("ra")
		assert.Equal(t, models.StatusPublished, got.Status)
		assert.Zero(t, got.AssignedHEMinutes)
		assert.Zero(t, got.AssignedHC)
	})
}

func TestRemoveAssignmentKeepsOthers(t *testing.T) {
	rec := testRecord("ra", "09:00:00", 6, 60)
	svc, st := newAllocFixture(t, rec)

	_, err := svc.Allocate(context.Background(), dto.AllocateRequest{
		Key:     groupKeyOf(rec),
		Periods: []string{"manha"},
		Collaborators: []dto.CollaboratorShare{
			{Matricula: "400001", Hours: 0, Minutes: 30},
			{Matricula: "400002", Hours: 0, Minutes: 20},
		},
	}, "300001")
	require.NoError(t, err)

	var firstID string
	st.View(func(state *store.State) {
		firstID = state.Assignments["ra"][0].ID
	})

	require.NoError(t, svc.RemoveAssignment(context.Background(), "ra", firstID, "300001"))

	st.View(func(state *store.State) {
		require.Len(t, state.Assignments["ra"], 1)
		got := state.RecordByID("ra")
		assert.Equal(t, models.StatusAssigned, got.Status)
		assert.Equal(t, 20, got.AssignedHEMinutes)
		assert.Equal(t, 2, got.AssignedHC)
	})
}
