package favorites

import (
	"context"
	"sync"
)

// MemoryPersister keeps the encoded record in memory. Failures can be
// injected to exercise the degraded path.
type MemoryPersister struct {
	mu      sync.Mutex
	data    []byte
	loadErr error
	saveErr error
	saves   int
}

// NewMemoryPersister creates an empty in-memory persister.
func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{}
}

// NewMemoryPersisterWith creates a persister preloaded with data.
func NewMemoryPersisterWith(data []byte) *MemoryPersister {
	return &MemoryPersister{data: append([]byte(nil), data...)}
}

// Load implements Persister.
func (m *MemoryPersister) Load(_ context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.data == nil {
		return nil, nil
	}
	return append([]byte(nil), m.data...), nil
}

// Save implements Persister.
func (m *MemoryPersister) Save(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data = append([]byte(nil), data...)
	return nil
}

// FailLoads makes subsequent loads return err.
func (m *MemoryPersister) FailLoads(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

// FailSaves makes subsequent saves return err. Nil restores normal saves.
func (m *MemoryPersister) FailSaves(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

// Data returns a copy of the stored bytes.
func (m *MemoryPersister) Data() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.data...)
}

// Saves returns how many saves were attempted.
func (m *MemoryPersister) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
