package collection

import (
	"context"
	"sync"

	"github.com/CodeMaverick-143/Project-Manager/internal/projects/cache"
)

// Manager hands out one Collection per owner. The first request for an owner
// performs the initial load; later requests reuse the same container so all
// views of that owner share a single list state.
type Manager struct {
	store cache.Store

	mu    sync.Mutex
	byUID map[string]*Collection
}

func NewManager(store cache.Store) *Manager {
	return &Manager{
		store: store,
		byUID: make(map[string]*Collection),
	}
}

// For returns the owner's collection, loading it on first use.
func (m *Manager) For(ctx context.Context, ownerID string) (*Collection, error) {
	m.mu.Lock()
	c, ok := m.byUID[ownerID]
	if !ok {
		c = New(ownerID, m.store)
		m.byUID[ownerID] = c
	}
	m.mu.Unlock()

	if !ok {
		if err := c.Refresh(ctx); err != nil {
			m.mu.Lock()
			delete(m.byUID, ownerID)
			m.mu.Unlock()
			return nil, err
		}
	}
	return c, nil
}

// Evict drops the owner's collection, e.g. after sign-out.
func (m *Manager) Evict(ownerID string) {
	m.mu.Lock()
	delete(m.byUID, ownerID)
	m.mu.Unlock()
}
