package driven

import "time"

// AuthAdapter handles authentication cryptographic operations.
// This does NOT handle storage - use UserStore for persistence.
type AuthAdapter interface {
	// Password operations
	HashPassword(password string) (string, error)
	VerifyPassword(password, hash string) bool

	// IssueToken creates a signed token for the subject with optional
	// extra claims. Fails with domain.ErrInvalidSubject for an empty subject.
	IssueToken(subject string, extra map[string]any) (string, error)

	// ExtractSubject parses and verifies a token, returning its subject.
	// Fails with domain.ErrTokenMalformed, domain.ErrTokenInvalid or
	// domain.ErrTokenExpired. Never panics on hostile input.
	ExtractSubject(token string) (string, error)

	// VerifyToken reports whether the token is authentic, unexpired and
	// issued for the expected subject.
	VerifyToken(token, expectedSubject string) bool

	// TokenTTL returns the configured token lifetime.
	TokenTTL() time.Duration
}
