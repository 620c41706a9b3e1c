package driven

import (
	"context"

	"github.com/custodia-labs/identity-core/internal/core/domain"
)

// UserStore handles user persistence (PostgreSQL)
type UserStore interface {
	// Save creates or updates a user. A concurrent insert with a duplicate
	// email surfaces as domain.ErrAlreadyExists.
	Save(ctx context.Context, user *domain.User) error

	// SaveWithAudit persists a user mutation and its audit entry in one
	// transaction: both are written or neither is.
	SaveWithAudit(ctx context.Context, user *domain.User, entry *domain.AuditEntry) error

	// Get retrieves a user by ID
	Get(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// ExistsByEmail reports whether a user with the email is registered
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// List retrieves all users
	List(ctx context.Context) ([]*domain.User, error)

	// Delete deletes a user, recording the audit entry in the same transaction
	Delete(ctx context.Context, id string, entry *domain.AuditEntry) error
}
