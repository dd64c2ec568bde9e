// Package kv persists the application state as JSON blobs under fixed keys.
// Every backend stores the same five blobs; swapping backends never changes
// the serialized layout.
package kv

import (
	"context"
	"errors"
	"sync"
)

// State blob keys. The version suffix is the only schema versioning the
// layout carries.
const (
	KeyRecords       = "tabi_records_v3"
	KeyValidations   = "tabi_validations_v3"
	KeyAssignments   = "tabi_assignments_v3"
	KeyLogs          = "tabi_logs_v3"
	KeyCollaborators = "tabi_collabs_v1"
)

// Keys lists every state blob key in persist order.
func Keys() []string {
	return []string{KeyRecords, KeyValidations, KeyAssignments, KeyLogs, KeyCollaborators}
}

// ErrKeyNotFound is returned by Get when the key has never been written.
var ErrKeyNotFound = errors.New("kv: key not found")

// Backend is a key → JSON blob store.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Memory is an in-process Backend used by tests and the demo default.
type Memory struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{blobs: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	blob, ok := m.blobs[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	out := make([]byte, len(blob))
	copy(out, blob)
	return out, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	m.blobs[key] = stored
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, key)
	return nil
}
