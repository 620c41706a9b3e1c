package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/identity-core/internal/core/ports/driven"
)

// Ensure MockLock implements DistributedLock
var _ driven.DistributedLock = (*MockLock)(nil)

// MockLock is an in-memory DistributedLock for testing
type MockLock struct {
	mu    sync.Mutex
	held  map[string]bool
	Fails bool // when set, Acquire always returns false
}

// NewMockLock creates a new MockLock
func NewMockLock() *MockLock {
	return &MockLock{held: make(map[string]bool)}
}

func (m *MockLock) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fails || m.held[name] {
		return false, nil
	}
	m.held[name] = true
	return true, nil
}

func (m *MockLock) Release(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.held, name)
	return nil
}
