package kvstore

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Memory is a process-local store.
type Memory struct {
	mu   sync.RWMutex
	data map[uuid.UUID]map[string]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[uuid.UUID]map[string]string)}
}

func (m *Memory) Get(_ context.Context, userID uuid.UUID, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[userID][key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, userID uuid.UUID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kv, ok := m.data[userID]
	if !ok {
		kv = make(map[string]string)
		m.data[userID] = kv
	}
	kv[key] = value
	return nil
}

func (m *Memory) Remove(_ context.Context, userID uuid.UUID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data[userID], key)
	return nil
}

func (m *Memory) Clear(_ context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, userID)
	return nil
}
