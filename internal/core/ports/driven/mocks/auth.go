package mocks

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/custodia-labs/identity-core/internal/core/domain"
	"github.com/custodia-labs/identity-core/internal/core/ports/driven"
)

// Ensure MockAuthAdapter implements AuthAdapter
var _ driven.AuthAdapter = (*MockAuthAdapter)(nil)

// MockAuthAdapter is a mock implementation of AuthAdapter for testing.
// It uses plain text password comparison and base64-encoded JSON for tokens.
// NOT secure - only for testing.
type MockAuthAdapter struct {
	// TTL defaults to 24h when zero
	TTL time.Duration

	// Now allows tests to control the clock; defaults to time.Now
	Now func() time.Time
}

// NewMockAuthAdapter creates a new MockAuthAdapter
func NewMockAuthAdapter() *MockAuthAdapter {
	return &MockAuthAdapter{}
}

// HashPassword returns the password as-is (for testing only)
func (m *MockAuthAdapter) HashPassword(password string) (string, error) {
	return password, nil
}

// VerifyPassword compares password with hash directly (for testing only)
func (m *MockAuthAdapter) VerifyPassword(password, hash string) bool {
	return password == hash
}

// IssueToken creates a base64-encoded JSON token
func (m *MockAuthAdapter) IssueToken(subject string, extra map[string]any) (string, error) {
	if subject == "" {
		return "", domain.ErrInvalidSubject
	}
	now := m.now()
	claims := domain.TokenClaims{
		Subject:   subject,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(m.TokenTTL()).Unix(),
		Extra:     extra,
	}
	data, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// ExtractSubject decodes a base64-encoded JSON token and returns its subject
func (m *MockAuthAdapter) ExtractSubject(token string) (string, error) {
	claims, err := m.parse(token)
	if err != nil {
		return "", err
	}
	if m.now().Unix() >= claims.ExpiresAt {
		return "", domain.ErrTokenExpired
	}
	return claims.Subject, nil
}

// VerifyToken checks subject and expiry on a decoded token
func (m *MockAuthAdapter) VerifyToken(token, expectedSubject string) bool {
	subject, err := m.ExtractSubject(token)
	return err == nil && subject == expectedSubject
}

// TokenTTL returns the configured lifetime
func (m *MockAuthAdapter) TokenTTL() time.Duration {
	if m.TTL == 0 {
		return 24 * time.Hour
	}
	return m.TTL
}

func (m *MockAuthAdapter) parse(token string) (*domain.TokenClaims, error) {
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, domain.ErrTokenMalformed
	}
	var claims domain.TokenClaims
	if err := json.Unmarshal(data, &claims); err != nil {
		return nil, domain.ErrTokenMalformed
	}
	return &claims, nil
}

func (m *MockAuthAdapter) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}
