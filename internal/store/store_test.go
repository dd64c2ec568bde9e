package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabi-ops/tabi-api/internal/models"
	"github.com/tabi-ops/tabi-api/pkg/kv"
)

func TestLoadToleratesMissingKeys(t *testing.T) {
	s := New(kv.NewMemory(), nil)
	require.NoError(t, s.Load(context.Background()))

	s.View(func(st *State) {
		assert.Empty(t, st.Records)
		assert.NotNil(t, st.Validations)
		assert.NotNil(t, st.Assignments)
	})
}

func TestLoadToleratesMalformedBlob(t *testing.T) {
	backend := kv.NewMemory()
	ctx := context.Background()
	require.NoError(t, backend.Set(ctx, kv.KeyRecords, []byte(`{not json`)))
	require.NoError(t, backend.Set(ctx, kv.KeyLogs, []byte(`[{"action":"Seed","user":"system"}]`)))

	s := New(backend, nil)
	require.NoError(t, s.Load(ctx))

	s.View(func(st *State) {
		assert.Empty(t, st.Records)
		require.Len(t, st.Logs, 1)
		assert.Equal(t, "Seed", st.Logs[0].Action)
	})
}

func TestUpdatePersistsAndReloads(t *testing.T) {
	backend := kv.NewMemory()
	ctx := context.Background()

	s := New(backend, nil)
	require.NoError(t, s.Load(ctx))
	require.NoError(t, s.Update(ctx, func(st *State) error {
		st.Records = append(st.Records, &models.ScheduleRecord{ID: "r1", Segment: "LABS LAB"})
		st.Validations["k"] = &models.GroupValidation{Key: "k", ValidatedBy: "ana"}
		return nil
	}))

	reloaded := New(backend, nil)
	require.NoError(t, reloaded.Load(ctx))
	reloaded.View(func(st *State) {
		require.Len(t, st.Records, 1)
		assert.Equal(t, "LABS LAB", st.Records[0].Segment)
		require.Contains(t, st.Validations, "k")
		assert.Equal(t, "ana", st.Validations["k"].ValidatedBy)
	})
}

func TestUpdateErrorSkipsPersist(t *testing.T) {
	backend := kv.NewMemory()
	ctx := context.Background()

	s := New(backend, nil)
	require.NoError(t, s.Load(ctx))
	err := s.Update(ctx, func(st *State) error {
		st.Records = append(st.Records, &models.ScheduleRecord{ID: "r1"})
		return errors.New("boom")
	})
	require.Error(t, err)

	_, getErr := backend.Get(ctx, kv.KeyRecords)
	assert.ErrorIs(t, getErr, kv.ErrKeyNotFound)
}

type failingBackend struct{ kv.Memory }

func (f *failingBackend) Set(context.Context, string, []byte) error {
	return errors.New("disk full")
}

func TestUpdateSurvivesPersistFailure(t *testing.T) {
	s := New(&failingBackend{}, nil)
	ctx := context.Background()
	require.NoError(t, s.Load(ctx))

	require.NoError(t, s.Update(ctx, func(st *State) error {
		st.Records = append(st.Records, &models.ScheduleRecord{ID: "r1"})
		return nil
	}))

	// the in-memory session keeps working
	s.View(func(st *State) {
		require.Len(t, st.Records, 1)
	})
}

func TestGenerateMatriculaAvoidsBatchCollisions(t *testing.T) {
	used := map[string]struct{}{}
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		m := GenerateMatricula(used)
		require.Len(t, m, 6)
		require.False(t, seen[m], "matricula %s issued twice", m)
		seen[m] = true
	}
}

func TestSeedStateHierarchyIsConsistent(t *testing.T) {
	st := SeedState("hash")

	byMat := map[string]*models.Collaborator{}
	for _, c := range st.Collaborators {
		byMat[c.Matricula] = c
	}

	for _, c := range st.Collaborators {
		if c.Role != models.RoleColaborador {
			continue
		}
		sup := byMat[c.SupervisorID]
		require.NotNil(t, sup, "collaborator %s has dangling supervisor", c.Matricula)
		assert.Equal(t, models.RoleSupervisor, sup.Role)
		assert.Equal(t, sup.CoordenadorID, c.CoordenadorID)
		assert.Equal(t, sup.GerenteID, c.GerenteID)
		assert.Empty(t, c.PasswordHash)
	}

	for _, r := range st.Records {
		assert.Equal(t, r.HCRequested*10, r.HEMinutes)
		assert.Equal(t, models.StatusPublished, r.Status)
	}
}
