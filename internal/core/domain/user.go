package domain

import "time"

// Role defines user permission level
type Role string

const (
	RoleAdmin Role = "ADMIN" // Full access, can manage users
	RoleUser  Role = "USER"  // Standard access
)

// Valid reports whether the role is one of the enumerated values.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Satisfies reports whether a holder of this role meets the required role.
// ADMIN satisfies every requirement; USER satisfies only USER.
// An empty required role means any authenticated principal.
func (r Role) Satisfies(required Role) bool {
	if required == "" {
		return r.Valid()
	}
	if r == RoleAdmin {
		return true
	}
	return r == required
}

// User represents a registered principal
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserSummary provides a safe view of user data (no password hash)
type UserSummary struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      Role   `json:"role"`
}

// ToSummary converts a User to UserSummary
func (u *User) ToSummary() *UserSummary {
	return &UserSummary{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
	}
}

// IsAdmin checks if the user has admin privileges
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
