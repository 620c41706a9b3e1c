package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/identity-core/internal/core/domain"
	"github.com/custodia-labs/identity-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.UserCache = (*UserCache)(nil)

const (
	// Key prefixes for Redis
	userIDPrefix    = "user:id:"
	userEmailPrefix = "user:email:"
	userListKey     = "users:all"
)

// DefaultCacheTTL bounds staleness when an invalidation is missed
const DefaultCacheTTL = 5 * time.Minute

// UserCache implements driven.UserCache using Redis.
// Entries carry a TTL so a missed invalidation heals on its own.
type UserCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewUserCache creates a new Redis-backed UserCache
func NewUserCache(client *redis.Client, ttl time.Duration) *UserCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &UserCache{client: client, ttl: ttl}
}

// GetUser retrieves a cached user by ID
func (c *UserCache) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return c.getUser(ctx, userIDPrefix+id)
}

// GetUserByEmail retrieves a cached user by email
func (c *UserCache) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return c.getUser(ctx, userEmailPrefix+email)
}

func (c *UserCache) getUser(ctx context.Context, key string) (*domain.User, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached user: %w", err)
	}

	var user domain.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached user: %w", err)
	}

	return &user, nil
}

// SetUser caches a user under both its ID and email keys
func (c *UserCache) SetUser(ctx context.Context, user *domain.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	pipe := c.client.Pipeline()
	pipe.Set(ctx, userIDPrefix+user.ID, data, c.ttl)
	pipe.Set(ctx, userEmailPrefix+user.Email, data, c.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cache user: %w", err)
	}
	return nil
}

// GetList retrieves the cached full user list
func (c *UserCache) GetList(ctx context.Context) ([]*domain.User, error) {
	data, err := c.client.Get(ctx, userListKey).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached user list: %w", err)
	}

	var users []*domain.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached user list: %w", err)
	}

	return users, nil
}

// SetList caches the full user list
func (c *UserCache) SetList(ctx context.Context, users []*domain.User) error {
	data, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("failed to marshal user list: %w", err)
	}

	if err := c.client.Set(ctx, userListKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache user list: %w", err)
	}
	return nil
}

// InvalidateUser drops the ID and email keys for a user
func (c *UserCache) InvalidateUser(ctx context.Context, user *domain.User) error {
	err := c.client.Del(ctx, userIDPrefix+user.ID, userEmailPrefix+user.Email).Err()
	if err != nil {
		return fmt.Errorf("failed to invalidate user: %w", err)
	}
	return nil
}

// InvalidateList drops the cached user list
func (c *UserCache) InvalidateList(ctx context.Context) error {
	if err := c.client.Del(ctx, userListKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate user list: %w", err)
	}
	return nil
}

// Ping checks if the Redis backend is healthy
func (c *UserCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
