package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestUserToSummary(t *testing.T) {
	now := time.Now()
	user := &User{
		ID:           "user-123",
		Email:        "test@example.com",
		PasswordHash: "secret-hash",
		FirstName:    "Test",
		LastName:     "User",
		Role:         RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	summary := user.ToSummary()

	if summary.ID != user.ID {
		t.Errorf("expected ID %s, got %s", user.ID, summary.ID)
	}
	if summary.Email != user.Email {
		t.Errorf("expected Email %s, got %s", user.Email, summary.Email)
	}
	if summary.FirstName != user.FirstName {
		t.Errorf("expected FirstName %s, got %s", user.FirstName, summary.FirstName)
	}
	if summary.Role != user.Role {
		t.Errorf("expected Role %s, got %s", user.Role, summary.Role)
	}
}

func TestUserPasswordHashNeverSerialized(t *testing.T) {
	user := &User{
		ID:           "user-123",
		Email:        "test@example.com",
		PasswordHash: "bcrypt-hash-value",
		Role:         RoleUser,
	}

	data, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("failed to marshal user: %v", err)
	}

	if strings.Contains(string(data), "bcrypt-hash-value") {
		t.Error("password hash leaked into JSON output")
	}
}

func TestRoleValid(t *testing.T) {
	tests := []struct {
		role     Role
		expected bool
	}{
		{RoleAdmin, true},
		{RoleUser, true},
		{Role(""), false},
		{Role("SUPERUSER"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			if tt.role.Valid() != tt.expected {
				t.Errorf("expected Valid() = %v for role %q", tt.expected, tt.role)
			}
		})
	}
}

func TestRoleSatisfies(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		required Role
		expected bool
	}{
		{"admin meets admin", RoleAdmin, RoleAdmin, true},
		{"admin meets user", RoleAdmin, RoleUser, true},
		{"admin meets any", RoleAdmin, "", true},
		{"user meets user", RoleUser, RoleUser, true},
		{"user meets any", RoleUser, "", true},
		{"user fails admin", RoleUser, RoleAdmin, false},
		{"invalid role fails any", Role("bogus"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.role.Satisfies(tt.required) != tt.expected {
				t.Errorf("expected %v for role %q satisfying %q", tt.expected, tt.role, tt.required)
			}
		})
	}
}

func TestUserIsAdmin(t *testing.T) {
	tests := []struct {
		role     Role
		expected bool
	}{
		{RoleAdmin, true},
		{RoleUser, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			user := &User{Role: tt.role}
			if user.IsAdmin() != tt.expected {
				t.Errorf("expected IsAdmin() = %v for role %s", tt.expected, tt.role)
			}
		})
	}
}
