package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/identity-core/internal/core/domain"
	"github.com/custodia-labs/identity-core/internal/core/ports/driven"
)

// Ensure MockUserStore implements UserStore
var _ driven.UserStore = (*MockUserStore)(nil)

// MockUserStore is a mock implementation of UserStore for testing.
// It enforces email uniqueness like the real store does.
type MockUserStore struct {
	mu      sync.RWMutex
	users   map[string]*domain.User
	byEmail map[string]*domain.User

	// Entries collects audit entries written through SaveWithAudit/Delete
	Entries []*domain.AuditEntry

	// SaveErr, when set, is returned by Save and SaveWithAudit
	SaveErr error
}

// NewMockUserStore creates a new MockUserStore
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		users:   make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (m *MockUserStore) Save(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.save(user)
}

func (m *MockUserStore) SaveWithAudit(ctx context.Context, user *domain.User, entry *domain.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.save(user); err != nil {
		return err
	}
	m.Entries = append(m.Entries, entry)
	return nil
}

func (m *MockUserStore) save(user *domain.User) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	if existing, ok := m.byEmail[user.Email]; ok && existing.ID != user.ID {
		return domain.ErrAlreadyExists
	}
	if prev, ok := m.users[user.ID]; ok && prev.Email != user.Email {
		delete(m.byEmail, prev.Email)
	}
	m.users[user.ID] = user
	m.byEmail[user.Email] = user
	return nil
}

func (m *MockUserStore) Get(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	// Return a copy, like the real store scans a fresh row. Callers
	// mutating the result must not reach stored state without Save.
	copied := *user
	return &copied, nil
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *MockUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.byEmail[email]
	return ok, nil
}

func (m *MockUserStore) List(ctx context.Context) ([]*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.User
	for _, user := range m.users {
		copied := *user
		result = append(result, &copied)
	}
	return result, nil
}

func (m *MockUserStore) Delete(ctx context.Context, id string, entry *domain.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(m.byEmail, user.Email)
	delete(m.users, id)
	m.Entries = append(m.Entries, entry)
	return nil
}

// Count returns the number of stored users
func (m *MockUserStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users)
}
