package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jwebster45206/food-guardian/pkg/session"
)

// MemoryStorage keeps sessions in process memory. Values are stored as JSON
// so callers never share state with the store.
type MemoryStorage struct {
	mu        sync.RWMutex
	sessions  map[uuid.UUID][]byte
	pingError error
}

// Ensure MemoryStorage implements Storage interface
var _ Storage = (*MemoryStorage)(nil)

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		sessions: make(map[uuid.UUID][]byte),
	}
}

// SetPingError configures Ping to fail with err; nil restores success.
func (m *MemoryStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

func (m *MemoryStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MemoryStorage) Close() error {
	return nil
}

func (m *MemoryStorage) SaveSession(ctx context.Context, st *session.State) error {
	if st == nil {
		return errors.New("session state cannot be nil")
	}
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[st.ID] = data
	return nil
}

func (m *MemoryStorage) LoadSession(ctx context.Context, id uuid.UUID) (*session.State, error) {
	m.mu.RLock()
	data, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	var st session.State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &st, nil
}

func (m *MemoryStorage) DeleteSession(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}
