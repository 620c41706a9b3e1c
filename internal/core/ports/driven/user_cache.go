package driven

import (
	"context"

	"github.com/custodia-labs/identity-core/internal/core/domain"
)

// UserCache is the read cache in front of the user store (Redis).
// Misses return domain.ErrNotFound; callers treat any cache error as a
// miss and fall through to the store.
type UserCache interface {
	// GetUser retrieves a cached user by ID
	GetUser(ctx context.Context, id string) (*domain.User, error)

	// GetUserByEmail retrieves a cached user by email
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// SetUser caches a user under both its ID and email keys
	SetUser(ctx context.Context, user *domain.User) error

	// GetList retrieves the cached full user list
	GetList(ctx context.Context) ([]*domain.User, error)

	// SetList caches the full user list
	SetList(ctx context.Context, users []*domain.User) error

	// InvalidateUser drops the ID and email keys for a user
	InvalidateUser(ctx context.Context, user *domain.User) error

	// InvalidateList drops the cached user list
	InvalidateList(ctx context.Context) error
}
