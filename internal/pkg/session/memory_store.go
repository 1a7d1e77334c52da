// internal/pkg/session/memory_store.go
package session

import (
	"context"
	"sync"

	"storefront/internal/domain/auth"
)

// MemoryStore keeps the session for the lifetime of the process.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
	user  *auth.User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) SetSession(_ context.Context, token string, user *auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.user = user.Clone()
	return nil
}

func (m *MemoryStore) Token(_ context.Context) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, m.token != ""
}

func (m *MemoryStore) User(_ context.Context) (*auth.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil, false
	}
	return m.user.Clone(), true
}

func (m *MemoryStore) ClearSession(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.user = nil
	return nil
}
