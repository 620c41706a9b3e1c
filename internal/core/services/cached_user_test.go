package services

import (
	"context"
	"testing"

	"github.com/custodia-labs/identity-core/internal/core/domain"
	"github.com/custodia-labs/identity-core/internal/core/ports/driven/mocks"
	"github.com/custodia-labs/identity-core/internal/core/ports/driving"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCachedUserService() (*mocks.MockUserStore, *mocks.MockUserCache, driving.UserService) {
	userStore := mocks.NewMockUserStore()
	auditStore := mocks.NewMockAuditStore()
	cache := mocks.NewMockUserCache()
	inner := NewUserService(userStore, auditStore)
	svc := NewCachedUserService(inner, cache, nil)
	return userStore, cache, svc
}

func TestCachedUserService_GetPopulatesCache(t *testing.T) {
	userStore, cache, svc := newTestCachedUserService()
	seedUser(t, userStore, "user-1", "a@example.com", domain.RoleUser)
	ctx := context.Background()

	// First read misses and populates
	_, err := svc.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Misses)

	// Second read is served from cache
	_, err = svc.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Hits)
}

func TestCachedUserService_GetByEmailPopulatesBothKeys(t *testing.T) {
	userStore, cache, svc := newTestCachedUserService()
	seedUser(t, userStore, "user-1", "a@example.com", domain.RoleUser)
	ctx := context.Background()

	_, err := svc.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)

	// An email read also warms the ID key
	_, err = svc.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Hits, "ID key should be warm after email read")
}

func TestCachedUserService_ListCached(t *testing.T) {
	userStore, cache, svc := newTestCachedUserService()
	seedUser(t, userStore, "user-1", "a@example.com", domain.RoleUser)
	seedUser(t, userStore, "user-2", "b@example.com", domain.RoleUser)
	ctx := context.Background()

	users, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)

	_, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Hits, "second list read should hit the cache")
}

func TestCachedUserService_UpdateInvalidatesStaleKeys(t *testing.T) {
	userStore, cache, svc := newTestCachedUserService()
	seedUser(t, userStore, "user-1", "a@example.com", domain.RoleUser)
	ctx := context.Background()

	// Warm email key and list
	_, err := svc.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	_, err = svc.List(ctx)
	require.NoError(t, err)

	newEmail := "renamed@example.com"
	_, err = svc.Update(ctx, "user-1", driving.UpdateUserRequest{Email: &newEmail})
	require.NoError(t, err)

	// The old email key must not serve the renamed user
	_, err = cache.GetUserByEmail(ctx, "a@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound, "stale email key survived update")

	// The list key must be dropped too
	_, err = cache.GetList(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound, "stale list key survived update")

	// The updated record is cached under its new identity
	user, err := cache.GetUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, newEmail, user.Email)
}

func TestCachedUserService_DeleteInvalidates(t *testing.T) {
	userStore, cache, svc := newTestCachedUserService()
	seedUser(t, userStore, "user-1", "a@example.com", domain.RoleUser)
	ctx := context.Background()

	_, err := svc.Get(ctx, "user-1")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "user-1"))

	_, err = cache.GetUser(ctx, "user-1")
	assert.ErrorIs(t, err, domain.ErrNotFound, "deleted user still served from cache")

	_, err = svc.Get(ctx, "user-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
