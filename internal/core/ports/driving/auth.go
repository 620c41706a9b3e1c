package driving

import (
	"context"

	"github.com/custodia-labs/identity-core/internal/core/domain"
)

// AuthService handles registration, login and request-time authorization.
// It is the only component allowed to mint tokens tied to real identities.
type AuthService interface {
	// Register creates a new USER-role account and returns its first token.
	// Fails with domain.ErrAlreadyExists if the email is taken.
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error)

	// RegisterAdmin creates an ADMIN-role account. Callers MUST gate this
	// behind an ADMIN authorization check at the request boundary.
	RegisterAdmin(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error)

	// Login verifies credentials and issues a token. Unknown email and
	// wrong password both fail with the same domain.ErrInvalidCredentials.
	Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error)

	// Authorize verifies a bearer token, re-fetches the user record so the
	// current role is honored, and checks it against the required role.
	// Missing, invalid or expired tokens and vanished records fail with
	// domain.ErrUnauthorized; an insufficient role with domain.ErrForbidden.
	// An empty required role admits any authenticated principal.
	Authorize(ctx context.Context, token string, required domain.Role) (*domain.AuthContext, error)
}
