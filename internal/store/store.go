// Package store owns the mutable application state. All mutation happens
// under a single writer lock, preserving the interleaving-free guarantee the
// original single-threaded design relied on.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/tabi-ops/tabi-api/internal/models"
	"github.com/tabi-ops/tabi-api/pkg/kv"
)

// State is the complete persisted dataset. Assignments live in a map keyed
// by record id, mirroring the persisted layout; records carry only running
// totals.
type State struct {
	Records       []*models.ScheduleRecord
	Validations   map[string]*models.GroupValidation
	Assignments   map[string][]models.AssignmentEvent
	Logs          []models.LogEntry
	Collaborators []*models.Collaborator
}

func newState() *State {
	return &State{
		Records:     []*models.ScheduleRecord{},
		Validations: map[string]*models.GroupValidation{},
		Assignments: map[string][]models.AssignmentEvent{},
		Logs:        []models.LogEntry{},
	}
}

// RecordByID returns the record or nil.
func (st *State) RecordByID(id string) *models.ScheduleRecord {
	for _, r := range st.Records {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// CollaboratorByMatricula returns the roster member or nil.
func (st *State) CollaboratorByMatricula(matricula string) *models.Collaborator {
	for _, c := range st.Collaborators {
		if c.Matricula == matricula {
			return c
		}
	}
	return nil
}

// Store guards the state and round-trips it through a kv backend.
type Store struct {
	mu      sync.Mutex
	state   *State
	backend kv.Backend
	logger  *zap.Logger
}

// New builds an empty store over the given backend.
func New(backend kv.Backend, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{state: newState(), backend: backend, logger: logger}
}

// Load reads every state blob, substituting empty defaults for missing or
// malformed keys.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := newState()
	loadKey(ctx, s, kv.KeyRecords, &st.Records)
	loadKey(ctx, s, kv.KeyValidations, &st.Validations)
	loadKey(ctx, s, kv.KeyAssignments, &st.Assignments)
	loadKey(ctx, s, kv.KeyLogs, &st.Logs)
	loadKey(ctx, s, kv.KeyCollaborators, &st.Collaborators)

	if st.Validations == nil {
		st.Validations = map[string]*models.GroupValidation{}
	}
	if st.Assignments == nil {
		st.Assignments = map[string][]models.AssignmentEvent{}
	}

	s.state = st
	return nil
}

func loadKey[T any](ctx context.Context, s *Store, key string, dst *T) {
	blob, err := s.backend.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, kv.ErrKeyNotFound) {
			s.logger.Warn("state read failed, using empty default",
				zap.String("key", key), zap.Error(err))
		}
		return
	}
	if err := json.Unmarshal(blob, dst); err != nil {
		s.logger.Warn("state blob malformed, using empty default",
			zap.String("key", key), zap.Error(err))
	}
}

// Update runs fn under the writer lock and persists afterwards. A persist
// failure is logged and swallowed: the session continues on the in-memory
// state, per the storage error policy.
func (s *Store) Update(ctx context.Context, fn func(st *State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(s.state); err != nil {
		return err
	}
	s.persistLocked(ctx)
	return nil
}

// View runs fn under the lock without persisting. fn must not retain
// references past its return.
func (s *Store) View(fn func(st *State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.state)
}

// Reset clears every persisted key and replaces the state. Used by the demo
// reset operation.
func (s *Store) Reset(ctx context.Context, next *State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range kv.Keys() {
		if err := s.backend.Delete(ctx, key); err != nil {
			s.logger.Warn("state delete failed", zap.String("key", key), zap.Error(err))
		}
	}
	if next == nil {
		next = newState()
	}
	s.state = next
	s.persistLocked(ctx)
}

func (s *Store) persistLocked(ctx context.Context) {
	persistKey(ctx, s, kv.KeyRecords, s.state.Records)
	persistKey(ctx, s, kv.KeyValidations, s.state.Validations)
	persistKey(ctx, s, kv.KeyAssignments, s.state.Assignments)
	persistKey(ctx, s, kv.KeyLogs, s.state.Logs)
	persistKey(ctx, s, kv.KeyCollaborators, s.state.Collaborators)
}

func persistKey(ctx context.Context, s *Store, key string, value any) {
	blob, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("state marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.backend.Set(ctx, key, blob); err != nil {
		s.logger.Warn("state write failed, continuing in memory",
			zap.String("key", key), zap.Error(err))
	}
}
