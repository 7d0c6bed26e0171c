package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"dealdesk/api-service/internal/api"
	"dealdesk/api-service/internal/model"
)

// MemoryStore is an in-process Store. Err, when set, fails every call.
type MemoryStore struct {
	mu    sync.Mutex
	items []model.Notification
	Err   error
}

// Insert implements Store.
func (m *MemoryStore) Insert(_ context.Context, n *model.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	n.ID = uuid.NewString()
	n.CreatedAt = time.Now().UTC()
	m.items = append(m.items, *n)
	return nil
}

// List implements Store.
func (m *MemoryStore) List(_ context.Context, tenantID string, unreadOnly bool) ([]model.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]model.Notification, 0)
	for i := len(m.items) - 1; i >= 0; i-- {
		n := m.items[i]
		if n.TenantID != tenantID || (unreadOnly && n.IsRead) {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

// MarkRead implements Store.
func (m *MemoryStore) MarkRead(_ context.Context, tenantID, id string) (*model.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for i := range m.items {
		if m.items[i].ID == id && m.items[i].TenantID == tenantID {
			m.items[i].IsRead = true
			n := m.items[i]
			return &n, nil
		}
	}
	return nil, fmt.Errorf("notification %s: %w", id, api.ErrNotFound)
}

// All returns every stored notification in insertion order.
func (m *MemoryStore) All() []model.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Notification(nil), m.items...)
}
