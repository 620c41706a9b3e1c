package services

import (
	"context"
	"log/slog"

	"github.com/custodia-labs/identity-core/internal/core/domain"
	"github.com/custodia-labs/identity-core/internal/core/ports/driven"
	"github.com/custodia-labs/identity-core/internal/core/ports/driving"
)

// Ensure cachedUserService implements UserService
var _ driving.UserService = (*cachedUserService)(nil)

// cachedUserService decorates a UserService with cache-aside reads and
// write-through invalidation. The cache is never authoritative: any cache
// error degrades to the wrapped service, and mutations invalidate before
// returning so the next read repopulates from the store.
type cachedUserService struct {
	inner  driving.UserService
	cache  driven.UserCache
	logger *slog.Logger
}

// NewCachedUserService wraps a UserService with a read cache
func NewCachedUserService(inner driving.UserService, cache driven.UserCache, logger *slog.Logger) driving.UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &cachedUserService{
		inner:  inner,
		cache:  cache,
		logger: logger,
	}
}

// Get serves from cache when possible, populating it on a miss
func (s *cachedUserService) Get(ctx context.Context, id string) (*domain.User, error) {
	if user, err := s.cache.GetUser(ctx, id); err == nil {
		return user, nil
	}

	user, err := s.inner.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetUser(ctx, user); err != nil {
		s.logger.Warn("failed to cache user", "id", id, "error", err)
	}
	return user, nil
}

// GetByEmail serves from cache when possible, populating it on a miss
func (s *cachedUserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if user, err := s.cache.GetUserByEmail(ctx, email); err == nil {
		return user, nil
	}

	user, err := s.inner.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetUser(ctx, user); err != nil {
		s.logger.Warn("failed to cache user", "email", email, "error", err)
	}
	return user, nil
}

// List serves the full list from cache when possible
func (s *cachedUserService) List(ctx context.Context) ([]*domain.User, error) {
	if users, err := s.cache.GetList(ctx); err == nil {
		return users, nil
	}

	users, err := s.inner.List(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetList(ctx, users); err != nil {
		s.logger.Warn("failed to cache user list", "error", err)
	}
	return users, nil
}

// Update updates through the inner service and invalidates the stale keys.
// The old email key must go too, so the pre-update record is fetched first.
func (s *cachedUserService) Update(ctx context.Context, id string, req driving.UpdateUserRequest) (*domain.User, error) {
	old, err := s.inner.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	user, err := s.inner.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, old)
	if err := s.cache.SetUser(ctx, user); err != nil {
		s.logger.Warn("failed to cache updated user", "id", id, "error", err)
	}
	return user, nil
}

// Delete deletes through the inner service and drops every key that
// could still serve the deleted user
func (s *cachedUserService) Delete(ctx context.Context, id string) error {
	user, err := s.inner.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.inner.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, user)
	return nil
}

// AuditTrail is never cached; trails must reflect writes immediately
func (s *cachedUserService) AuditTrail(ctx context.Context, userID string) ([]*domain.AuditEntry, error) {
	return s.inner.AuditTrail(ctx, userID)
}

func (s *cachedUserService) invalidate(ctx context.Context, user *domain.User) {
	if err := s.cache.InvalidateUser(ctx, user); err != nil {
		s.logger.Warn("failed to invalidate cached user", "id", user.ID, "error", err)
	}
	if err := s.cache.InvalidateList(ctx); err != nil {
		s.logger.Warn("failed to invalidate cached user list", "error", err)
	}
}
