package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/custodia-labs/identity-core/internal/core/domain"
	"github.com/custodia-labs/identity-core/internal/core/ports/driven"
)

// Ensure Adapter implements AuthAdapter
var _ driven.AuthAdapter = (*Adapter)(nil)

// DefaultTokenTTL is the token lifetime used when none is configured
const DefaultTokenTTL = 24 * time.Hour

// Adapter handles authentication operations using bcrypt and HS256 JWTs.
// It is the sole holder of the signing key, which is read once at
// construction and immutable for the process lifetime. Rotating the key
// invalidates all outstanding tokens.
type Adapter struct {
	signingKey []byte
	tokenTTL   time.Duration
	bcryptCost int
}

// NewAdapter creates a new auth adapter. The secret is a base64-encoded
// key (standard encoding, >= 256 bits recommended); ttl <= 0 falls back
// to DefaultTokenTTL.
func NewAdapter(secretBase64 string, ttl time.Duration) (*Adapter, error) {
	return NewAdapterWithCost(secretBase64, ttl, bcrypt.DefaultCost)
}

// NewAdapterWithCost creates a new auth adapter with a custom bcrypt cost.
// Tests use a low cost to keep hashing fast.
func NewAdapterWithCost(secretBase64 string, ttl time.Duration, bcryptCost int) (*Adapter, error) {
	key, err := base64.StdEncoding.DecodeString(secretBase64)
	if err != nil {
		return nil, fmt.Errorf("decode signing secret: %w", err)
	}
	if len(key) == 0 {
		return nil, errors.New("signing secret is empty")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Adapter{
		signingKey: key,
		tokenTTL:   ttl,
		bcryptCost: bcryptCost,
	}, nil
}

// HashPassword generates a bcrypt hash from a plaintext password
func (a *Adapter) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword checks if a password matches a bcrypt hash
func (a *Adapter) VerifyPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// IssueToken creates a signed HS256 JWT for the subject. The claim set
// carries sub, iat and exp plus the extra claims; extras can not shadow
// the registered claims.
func (a *Adapter) IssueToken(subject string, extra map[string]any) (string, error) {
	if subject == "" {
		return "", domain.ErrInvalidSubject
	}

	now := time.Now()
	claims := jwt.MapClaims{}
	for k, v := range extra {
		claims[k] = v
	}
	claims["sub"] = subject
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(a.tokenTTL).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.signingKey)
}

// ExtractSubject parses and verifies a token and returns its subject.
// Verification fails closed: any parse, signature or expiry problem maps
// to a domain error and malformed input never panics.
func (a *Adapter) ExtractSubject(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.signingKey, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", domain.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", domain.ErrTokenInvalid
		case errors.Is(err, jwt.ErrTokenMalformed):
			return "", domain.ErrTokenMalformed
		default:
			return "", domain.ErrTokenInvalid
		}
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", domain.ErrTokenInvalid
	}
	return subject, nil
}

// VerifyToken reports whether the token is authentic, unexpired and
// issued for the expected subject
func (a *Adapter) VerifyToken(tokenString, expectedSubject string) bool {
	subject, err := a.ExtractSubject(tokenString)
	return err == nil && subject == expectedSubject
}

// TokenTTL returns the configured token lifetime
func (a *Adapter) TokenTTL() time.Duration {
	return a.tokenTTL
}
