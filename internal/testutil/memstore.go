// Package testutil provides in-memory fakes shared by package tests.
package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/shxlzz/To-Do-List/domain"
	"github.com/shxlzz/To-Do-List/repository"
)

// ErrInjected is returned by MemStore while FailWrites is set.
var ErrInjected = errors.New("injected storage failure")

// MemStore is an in-memory repository.KVStore with failure injection.
type MemStore struct {
	mu     sync.Mutex
	values map[string][]byte
	writes int

	// FailWrites makes Put and Delete return ErrInjected.
	FailWrites bool
	// FailPing makes Ping return ErrInjected.
	FailPing bool
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{values: make(map[string][]byte)}
}

func (m *MemStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemStore) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return ErrInjected
	}
	m.values[key] = append([]byte(nil), value...)
	m.writes++
	return nil
}

func (m *MemStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return ErrInjected
	}
	delete(m.values, key)
	m.writes++
	return nil
}

func (m *MemStore) Ping(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailPing {
		return ErrInjected
	}
	return nil
}

func (m *MemStore) Close() error {
	return nil
}

// SetFailWrites toggles write failures.
func (m *MemStore) SetFailWrites(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FailWrites = fail
}

// Writes reports how many successful Put/Delete calls were made.
func (m *MemStore) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// Raw returns the stored bytes for key.
func (m *MemStore) Raw(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return string(v), ok
}

// SetRaw stores bytes for key without counting a write.
func (m *MemStore) SetRaw(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = []byte(value)
}

// Directory decodes the persisted account directory.
func (m *MemStore) Directory() (domain.Directory, error) {
	raw, _ := m.Raw(repository.KeyAccounts)
	return domain.DecodeDirectory([]byte(raw))
}

var _ repository.KVStore = (*MemStore)(nil)
