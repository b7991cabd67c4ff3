package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/kosynka/storefront/internal/cart"
	"github.com/kosynka/storefront/internal/coupon"
	"github.com/kosynka/storefront/internal/repository"
)

// Manager hands out one cart store per shopper session. A store is created
// on first use, loading its durable state, and reused for the lifetime of
// the process; the store itself remains the single owner of its state.
type Manager struct {
	mu     sync.Mutex
	stores map[string]*cart.Store

	repo      repository.CartRepository
	validator coupon.Validator
	logger    *slog.Logger
}

// NewManager creates a session manager over the given cart dependencies.
func NewManager(repo repository.CartRepository, validator coupon.Validator, logger *slog.Logger) *Manager {
	return &Manager{
		stores:    make(map[string]*cart.Store),
		repo:      repo,
		validator: validator,
		logger:    logger,
	}
}

// Store returns the cart store for the session, creating it if needed.
func (m *Manager) Store(ctx context.Context, sessionID string) *cart.Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.stores[sessionID]; ok {
		return s
	}

	s := cart.NewStore(ctx, sessionID, m.repo, m.validator, m.logger)
	m.stores[sessionID] = s

	m.logger.DebugContext(ctx, "cart session opened",
		slog.String("session_id", sessionID),
	)

	return s
}

// Evict drops the cached store for a session. Durable state is untouched;
// the next access reloads it.
func (m *Manager) Evict(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stores, sessionID)
}

// Len returns the number of cached session stores.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stores)
}
