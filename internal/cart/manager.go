package cart

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"shopfront/internal/repository"
)

// Manager hands out one cart Session per anonymous session identity,
// so every request from the same device works against the same
// in-memory state and cached cart id.
type Manager struct {
	repo   repository.CartRepository
	logger zerolog.Logger

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

// NewManager creates a session manager over the given cart repository.
func NewManager(repo repository.CartRepository, logger zerolog.Logger) *Manager {
	return &Manager{
		repo:     repo,
		logger:   logger,
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Session returns the cart session for the given identity, creating it
// on first use.
func (m *Manager) Session(sessionID uuid.UUID) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sess, ok := m.sessions[sessionID]; ok {
		return sess
	}

	sess := NewSession(sessionID, m.repo, m.logger)
	m.sessions[sessionID] = sess
	return sess
}

// Evict drops the in-memory session, typically after its identity
// expired. The persisted cart is untouched; a future session for the
// same identity rebuilds state via Refresh.
func (m *Manager) Evict(sessionID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
}
