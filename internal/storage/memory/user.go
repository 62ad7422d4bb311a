package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/mboulet/authcore/internal/models"
	"github.com/mboulet/authcore/internal/storage"
)

// UserStore is an in-memory user repository for tests and single-node
// development. Email uniqueness is case-insensitive, like the SQL schema.
type UserStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]models.User
	roles  map[int64]map[int64]struct{}
}

func NewUserStore() *UserStore {
	return &UserStore{
		nextID: 1,
		users:  make(map[int64]models.User),
		roles:  make(map[int64]map[int64]struct{}),
	}
}

func (m *UserStore) CreateUser(_ context.Context, username, email, passwordHash string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return nil, storage.ErrDuplicateEmail
		}
	}

	now := time.Now()
	user := models.User{
		ID:           m.nextID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.users[user.ID] = user
	m.nextID++

	return &user, nil
}

func (m *UserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			user := u
			return &user, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (m *UserStore) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return &user, nil
}

func (m *UserStore) GetRoles(_ context.Context, userID int64) ([]models.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var roles []models.Role
	for roleID := range m.roles[userID] {
		roles = append(roles, models.Role{ID: roleID})
	}
	return roles, nil
}

func (m *UserStore) AssignRole(_ context.Context, userID, roleID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.roles[userID] == nil {
		m.roles[userID] = make(map[int64]struct{})
	}
	m.roles[userID][roleID] = struct{}{}
	return nil
}

func (m *UserStore) RemoveRole(_ context.Context, userID, roleID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.roles[userID], roleID)
	return nil
}
