package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/identity-core/internal/core/domain"
)

// AuditStore handles audit trail persistence (PostgreSQL)
type AuditStore interface {
	// Record writes one audit entry
	Record(ctx context.Context, entry *domain.AuditEntry) error

	// ListByUser retrieves audit entries for a user, newest first
	ListByUser(ctx context.Context, userID string) ([]*domain.AuditEntry, error)

	// PurgeOlderThan deletes entries created before the cutoff.
	// Returns the number of rows removed.
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}
