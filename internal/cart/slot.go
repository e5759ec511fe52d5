package cart

import (
	"context"
	"errors"
	"sync"

	"stash-backend/internal/domain"
)

// ErrNoSnapshot indicates no prior snapshot exists for the session.
var ErrNoSnapshot = errors.New("no cart snapshot")

// Slot is a per-session durable slot holding the full cart collection.
type Slot interface {
	Load(ctx context.Context, sessionID string) ([]domain.CartItem, error)
	Save(ctx context.Context, sessionID string, items []domain.CartItem) error
	Clear(ctx context.Context, sessionID string) error
}

// MemorySlot keeps snapshots in process memory. Used in tests and as a
// fallback when no Redis is configured.
type MemorySlot struct {
	mu    sync.Mutex
	carts map[string][]domain.CartItem
}

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{carts: make(map[string][]domain.CartItem)}
}

func (m *MemorySlot) Load(_ context.Context, sessionID string) ([]domain.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items, ok := m.carts[sessionID]
	if !ok {
		return nil, ErrNoSnapshot
	}
	out := make([]domain.CartItem, len(items))
	copy(out, items)
	return out, nil
}

func (m *MemorySlot) Save(_ context.Context, sessionID string, items []domain.CartItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]domain.CartItem, len(items))
	copy(stored, items)
	m.carts[sessionID] = stored
	return nil
}

func (m *MemorySlot) Clear(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, sessionID)
	return nil
}
