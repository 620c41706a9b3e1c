package driving

import (
	"context"

	"github.com/custodia-labs/identity-core/internal/core/domain"
)

// UpdateUserRequest represents a request to update a user
type UpdateUserRequest struct {
	FirstName *string      `json:"first_name,omitempty"`
	LastName  *string      `json:"last_name,omitempty"`
	Email     *string      `json:"email,omitempty"`
	Role      *domain.Role `json:"role,omitempty"`
}

// UserService manages user accounts. Reads may be served from cache;
// mutations write an audit entry in the same transaction as the change.
type UserService interface {
	// Get retrieves a user by ID
	Get(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// List retrieves all users
	List(ctx context.Context) ([]*domain.User, error)

	// Update updates a user (admin only). Changing the email to one that
	// is already registered fails with domain.ErrAlreadyExists.
	Update(ctx context.Context, id string, req UpdateUserRequest) (*domain.User, error)

	// Delete deletes a user (admin only)
	Delete(ctx context.Context, id string) error

	// AuditTrail retrieves the audit entries for a user, newest first
	AuditTrail(ctx context.Context, userID string) ([]*domain.AuditEntry, error)
}
