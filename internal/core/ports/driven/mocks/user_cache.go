package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/identity-core/internal/core/domain"
	"github.com/custodia-labs/identity-core/internal/core/ports/driven"
)

// Ensure MockUserCache implements UserCache
var _ driven.UserCache = (*MockUserCache)(nil)

// MockUserCache is an in-memory UserCache for testing.
// It counts hits and misses so decorator tests can assert cache behavior.
type MockUserCache struct {
	mu      sync.RWMutex
	byID    map[string]*domain.User
	byEmail map[string]*domain.User
	list    []*domain.User
	hasList bool

	Hits   int
	Misses int
}

// NewMockUserCache creates a new MockUserCache
func NewMockUserCache() *MockUserCache {
	return &MockUserCache{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (m *MockUserCache) GetUser(ctx context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.byID[id]
	if !ok {
		m.Misses++
		return nil, domain.ErrNotFound
	}
	m.Hits++
	return user, nil
}

func (m *MockUserCache) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.byEmail[email]
	if !ok {
		m.Misses++
		return nil, domain.ErrNotFound
	}
	m.Hits++
	return user, nil
}

func (m *MockUserCache) SetUser(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[user.ID] = user
	m.byEmail[user.Email] = user
	return nil
}

func (m *MockUserCache) GetList(ctx context.Context) ([]*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.hasList {
		m.Misses++
		return nil, domain.ErrNotFound
	}
	m.Hits++
	return m.list, nil
}

func (m *MockUserCache) SetList(ctx context.Context, users []*domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.list = users
	m.hasList = true
	return nil
}

func (m *MockUserCache) InvalidateUser(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, user.ID)
	delete(m.byEmail, user.Email)
	return nil
}

func (m *MockUserCache) InvalidateList(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.list = nil
	m.hasList = false
	return nil
}
