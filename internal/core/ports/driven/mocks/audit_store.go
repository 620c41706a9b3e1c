package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/identity-core/internal/core/domain"
	"github.com/custodia-labs/identity-core/internal/core/ports/driven"
)

// Ensure MockAuditStore implements AuditStore
var _ driven.AuditStore = (*MockAuditStore)(nil)

// MockAuditStore is an in-memory AuditStore for testing
type MockAuditStore struct {
	mu      sync.RWMutex
	entries []*domain.AuditEntry

	// RecordErr, when set, is returned by Record
	RecordErr error
}

// NewMockAuditStore creates a new MockAuditStore
func NewMockAuditStore() *MockAuditStore {
	return &MockAuditStore{}
}

func (m *MockAuditStore) Record(ctx context.Context, entry *domain.AuditEntry) error {
	if m.RecordErr != nil {
		return m.RecordErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MockAuditStore) ListByUser(ctx context.Context, userID string) ([]*domain.AuditEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.AuditEntry
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].UserID == userID {
			result = append(result, m.entries[i])
		}
	}
	return result, nil
}

func (m *MockAuditStore) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []*domain.AuditEntry
	removed := 0
	for _, e := range m.entries {
		if e.CreatedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	m.entries = kept
	return removed, nil
}

// Entries returns a snapshot of recorded entries
func (m *MockAuditStore) Entries() []*domain.AuditEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.AuditEntry, len(m.entries))
	copy(out, m.entries)
	return out
}
