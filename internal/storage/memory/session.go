package memory

import (
	"context"
	"sync"

	"github.com/mboulet/authcore/internal/models"
	"github.com/mboulet/authcore/internal/storage"
)

// SessionStore is a mutex-guarded map of refresh sessions, for tests and
// single-node development. Consumption is delete-on-use.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]models.RefreshSession
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]models.RefreshSession),
	}
}

func (m *SessionStore) CreateSession(_ context.Context, session models.RefreshSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[session.TokenValue] = session
	return nil
}

func (m *SessionStore) FindSessionByToken(_ context.Context, tokenValue string) (*models.RefreshSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[tokenValue]
	if !ok {
		return nil, storage.ErrSessionNotFound
	}
	return &session, nil
}

func (m *SessionStore) RotateSession(_ context.Context, oldTokenValue string, next models.RefreshSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[oldTokenValue]; !ok {
		return storage.ErrSessionNotFound
	}
	delete(m.sessions, oldTokenValue)
	m.sessions[next.TokenValue] = next
	return nil
}

func (m *SessionStore) DeleteSession(_ context.Context, tokenValue string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, tokenValue)
	return nil
}

func (m *SessionStore) DeleteAllUserSessions(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for token, session := range m.sessions {
		if session.UserID == userID {
			delete(m.sessions, token)
		}
	}
	return nil
}
