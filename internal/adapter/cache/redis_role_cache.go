package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"bazaarbondhu/internal/domain/entity"
	"bazaarbondhu/internal/domain/repository"
	redisclient "bazaarbondhu/internal/infrastructure/redis"
)

const roleKeyPrefix = "bazaarbondhu:role:"

type RedisRoleCache struct {
	client *redisclient.Client
}

func NewRedisRoleCache(client *redisclient.Client) repository.RoleCache {
	return &RedisRoleCache{client: client}
}

func roleKey(email string) string {
	return roleKeyPrefix + strings.ToLower(email)
}

// Get returns ErrCacheMiss for absent keys and for values that are no longer
// a valid role.
func (c *RedisRoleCache) Get(ctx context.Context, email string) (entity.Role, error) {
	result, err := c.client.Client().Get(ctx, roleKey(email)).Result()
	if err == redis.Nil {
		return "", repository.ErrCacheMiss
	}
	if err != nil {
		return "", fmt.Errorf("failed to get from cache: %w", err)
	}

	role, err := entity.ParseRole(result)
	if err != nil {
		return "", repository.ErrCacheMiss
	}
	return role, nil
}

func (c *RedisRoleCache) Set(ctx context.Context, email string, role entity.Role, ttl time.Duration) error {
	if err := c.client.Client().Set(ctx, roleKey(email), string(role), ttl).Err(); err != nil {
		return fmt.Errorf("failed to set in cache: %w", err)
	}
	return nil
}

func (c *RedisRoleCache) Delete(ctx context.Context, email string) error {
	if err := c.client.Client().Del(ctx, roleKey(email)).Err(); err != nil {
		return fmt.Errorf("failed to delete from cache: %w", err)
	}
	return nil
}
