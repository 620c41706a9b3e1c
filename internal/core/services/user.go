package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/identity-core/internal/core/domain"
	"github.com/custodia-labs/identity-core/internal/core/ports/driven"
	"github.com/custodia-labs/identity-core/internal/core/ports/driving"
)

// Ensure userService implements UserService
var _ driving.UserService = (*userService)(nil)

// userService implements the UserService interface
type userService struct {
	userStore  driven.UserStore
	auditStore driven.AuditStore
}

// NewUserService creates a new UserService
func NewUserService(userStore driven.UserStore, auditStore driven.AuditStore) driving.UserService {
	return &userService{
		userStore:  userStore,
		auditStore: auditStore,
	}
}

// Get retrieves a user by ID
func (s *userService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.userStore.Get(ctx, id)
}

// GetByEmail retrieves a user by email
func (s *userService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.userStore.GetByEmail(ctx, normalizeEmail(email))
}

// List retrieves all users
func (s *userService) List(ctx context.Context) ([]*domain.User, error) {
	return s.userStore.List(ctx)
}

// Update updates a user. The mutation and its audit entry are written in
// one transaction; if either fails, neither is persisted.
func (s *userService) Update(ctx context.Context, id string, req driving.UpdateUserRequest) (*domain.User, error) {
	user, err := s.userStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	old := *user

	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email == "" {
			return nil, domain.ErrInvalidInput
		}
		if email != user.Email {
			exists, err := s.userStore.ExistsByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, fmt.Errorf("email %s: %w", email, domain.ErrAlreadyExists)
			}
			user.Email = email
		}
	}
	if req.Role != nil {
		if !req.Role.Valid() {
			return nil, domain.ErrInvalidInput
		}
		user.Role = *req.Role
	}
	user.UpdatedAt = time.Now()

	entry := &domain.AuditEntry{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Action:    domain.AuditActionUserUpdated,
		OldValue:  describeUser(&old),
		NewValue:  describeUser(user),
		CreatedAt: time.Now(),
	}

	if err := s.userStore.SaveWithAudit(ctx, user, entry); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, fmt.Errorf("email %s: %w", user.Email, domain.ErrAlreadyExists)
		}
		return nil, err
	}

	return user, nil
}

// Delete deletes a user, recording the deletion in the same transaction
func (s *userService) Delete(ctx context.Context, id string) error {
	user, err := s.userStore.Get(ctx, id)
	if err != nil {
		return err
	}

	entry := &domain.AuditEntry{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Action:    domain.AuditActionUserDeleted,
		OldValue:  describeUser(user),
		CreatedAt: time.Now(),
	}

	return s.userStore.Delete(ctx, id, entry)
}

// AuditTrail retrieves the audit entries for a user
func (s *userService) AuditTrail(ctx context.Context, userID string) ([]*domain.AuditEntry, error) {
	if _, err := s.userStore.Get(ctx, userID); err != nil {
		return nil, err
	}
	return s.auditStore.ListByUser(ctx, userID)
}

func describeUser(u *domain.User) string {
	return fmt.Sprintf("email=%s first_name=%s last_name=%s role=%s", u.Email, u.FirstName, u.LastName, u.Role)
}
