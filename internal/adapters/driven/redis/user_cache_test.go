package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/identity-core/internal/core/domain"
)

func testUser(id, email string) *domain.User {
	now := time.Now().Truncate(time.Second)
	return &domain.User{
		ID:           id,
		Email:        email,
		PasswordHash: "$2a$10$hash",
		FirstName:    "John",
		LastName:     "Doe",
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUserCache_SetAndGet(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	cache := NewUserCache(client, time.Minute)
	ctx := context.Background()
	user := testUser("user-1", "john@example.com")

	if err := cache.SetUser(ctx, user); err != nil {
		t.Fatalf("failed to set user: %v", err)
	}

	got, err := cache.GetUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("failed to get user: %v", err)
	}
	if got.Email != user.Email || got.ID != user.ID {
		t.Errorf("cached user mismatch: got %+v", got)
	}

	// Same record must be reachable by email
	byEmail, err := cache.GetUserByEmail(ctx, "john@example.com")
	if err != nil {
		t.Fatalf("failed to get user by email: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Errorf("expected user-1, got %s", byEmail.ID)
	}
}

func TestUserCache_GetMiss(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	cache := NewUserCache(client, time.Minute)
	ctx := context.Background()

	if _, err := cache.GetUser(ctx, "nonexistent"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := cache.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUserCache_InvalidateUser(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	cache := NewUserCache(client, time.Minute)
	ctx := context.Background()
	user := testUser("user-1", "john@example.com")

	if err := cache.SetUser(ctx, user); err != nil {
		t.Fatalf("failed to set user: %v", err)
	}
	if err := cache.InvalidateUser(ctx, user); err != nil {
		t.Fatalf("failed to invalidate user: %v", err)
	}

	if _, err := cache.GetUser(ctx, "user-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ID key to be dropped, got %v", err)
	}
	if _, err := cache.GetUserByEmail(ctx, "john@example.com"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected email key to be dropped, got %v", err)
	}
}

func TestUserCache_List(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	cache := NewUserCache(client, time.Minute)
	ctx := context.Background()

	if _, err := cache.GetList(ctx); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected miss on empty cache, got %v", err)
	}

	users := []*domain.User{
		testUser("user-1", "john@example.com"),
		testUser("user-2", "jane@example.com"),
	}
	if err := cache.SetList(ctx, users); err != nil {
		t.Fatalf("failed to set list: %v", err)
	}

	got, err := cache.GetList(ctx)
	if err != nil {
		t.Fatalf("failed to get list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 users, got %d", len(got))
	}
	if got[0].ID != "user-1" || got[1].ID != "user-2" {
		t.Errorf("list order not preserved: %s, %s", got[0].ID, got[1].ID)
	}

	if err := cache.InvalidateList(ctx); err != nil {
		t.Fatalf("failed to invalidate list: %v", err)
	}
	if _, err := cache.GetList(ctx); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected miss after invalidation, got %v", err)
	}
}

func TestUserCache_EntriesExpire(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	cache := NewUserCache(client, time.Minute)
	ctx := context.Background()

	if err := cache.SetUser(ctx, testUser("user-1", "john@example.com")); err != nil {
		t.Fatalf("failed to set user: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := cache.GetUser(ctx, "user-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected entry to expire, got %v", err)
	}
}
