package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/AchilleasB/campus-hub/campus-service/internal/core/domain"
	"github.com/AchilleasB/campus-hub/campus-service/internal/core/ports"
)

// MockUserRepository implements ports.UserRepository in memory.
type MockUserRepository struct {
	mu sync.RWMutex

	users map[string]domain.User // by id

	// Call tracking
	FindByEmailCalls    []string
	CreateCalls         []domain.User
	UpdatePasswordCalls []string

	// Error injection. CreateErrors is consumed one entry per Create call.
	FindByEmailError    error
	FindByIDError       error
	CreateErrors        []error
	UpdatePasswordError error
	ListError           error
	CountError          error
}

var _ ports.UserRepository = (*MockUserRepository)(nil)

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]domain.User)}
}

// SeedUser adds a user for test setup.
func (m *MockUserRepository) SeedUser(user domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.FindByEmailCalls = append(m.FindByEmailCalls, email)

	if m.FindByEmailError != nil {
		return nil, m.FindByEmailError
	}
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.FindByIDError != nil {
		return nil, m.FindByIDError
	}
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (m *MockUserRepository) Create(ctx context.Context, user domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateCalls = append(m.CreateCalls, user)

	if len(m.CreateErrors) > 0 {
		err := m.CreateErrors[0]
		m.CreateErrors = m.CreateErrors[1:]
		if err != nil {
			return err
		}
	}

	if _, ok := m.users[user.ID]; ok {
		return domain.ErrDuplicateKey
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id, password string, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpdatePasswordCalls = append(m.UpdatePasswordCalls, id)

	if m.UpdatePasswordError != nil {
		return m.UpdatePasswordError
	}
	u, ok := m.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.Password = password
	u.UpdatedAt = updatedAt
	m.users[id] = u
	return nil
}

func (m *MockUserRepository) List(ctx context.Context) ([]domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.ListError != nil {
		return nil, m.ListError
	}
	out := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockUserRepository) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.CountError != nil {
		return 0, m.CountError
	}
	return len(m.users), nil
}

// Password returns the stored password of id, for assertions.
func (m *MockUserRepository) Password(id string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.users[id].Password
}
