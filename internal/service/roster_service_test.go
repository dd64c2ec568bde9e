package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabi-ops/tabi-api/internal/dto"
	"github.com/tabi-ops/tabi-api/internal/models"
	"github.com/tabi-ops/tabi-api/internal/store"
	"github.com/tabi-ops/tabi-api/pkg/kv"
)

func newRosterFixture(t *testing.T) (*RosterService, *store.Store) {
	t.Helper()
	st := store.New(kv.NewMemory(), nil)
	require.NoError(t, st.Load(context.Background()))
	require.NoError(t, st.Update(context.Background(), func(state *store.State) error {
		roster := testRoster()
		roster[1].GerenteID = "100001"
		roster[2].GerenteID = "100001"
		roster[2].CoordenadorID = "200001"
		roster[0].PasswordHash = "x"
		state.Collaborators = roster
		return nil
	}))
	return NewRosterService(st, nil), st
}

func TestRosterListFiltersAndHidesHashes(t *testing.T) {
	svc, _ := newRosterFixture(t)

	all := svc.List(models.RosterFilter{})
	assert.Len(t, all, 5)
	for _, c := range all {
		assert.Empty(t, c.PasswordHash)
	}

	supervisors := svc.List(models.RosterFilter{Role: models.RoleSupervisor})
	require.Len(t, supervisors, 1)
	assert.Equal(t, "300001", supervisors[0].Matricula)

	underGerente := svc.List(models.RosterFilter{GerenteID: "100001"})
	assert.Len(t, underGerente, 2)

	byName := svc.List(models.RosterFilter{Search: "operador"})
	assert.Len(t, byName, 2)
}

func TestAddSupervisor(t *testing.T) {
	svc, st := newRosterFixture(t)

	created, err := svc.AddSupervisor(context.Background(), dto.AddSupervisorRequest{
		Nome:          "Supervisor Novo",
		GerenteID:     "100001",
		CoordenadorID: "200001",
	}, "hash", "100001")
	require.NoError(t, err)

	assert.Len(t, created.Matricula, 6)
	assert.Equal(t, models.RoleSupervisor, created.Role)
	assert.Equal(t, "100001", created.GerenteID)
	assert.Empty(t, created.PasswordHash)

	st.View(func(state *store.State) {
		stored := state.CollaboratorByMatricula(created.Matricula)
		require.NotNil(t, stored)
		assert.Equal(t, "hash", stored.PasswordHash)
	})
}

func TestAddSupervisorRejectsMismatchedChain(t *testing.T) {
	svc, _ := newRosterFixture(t)

	_, err := svc.AddSupervisor(context.Background(), dto.AddSupervisorRequest{
		Nome:          "Supervisor Novo",
		GerenteID:     "300001",
		CoordenadorID: "200001",
	}, "hash", "100001")
	require.Error(t, err)
}
