package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "ministry:permissions:"

// RedisPermissionCache shares permission entries between API instances.
type RedisPermissionCache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewRedisPermissionCache(client redis.UniversalClient, ttl time.Duration) *RedisPermissionCache {
	return &RedisPermissionCache{client: client, prefix: defaultRedisPrefix, ttl: ttl}
}

func (c *RedisPermissionCache) key(role string) string {
	return c.prefix + role
}

func (c *RedisPermissionCache) Get(ctx context.Context, role string) ([]*models.RolePermission, bool, error) {
	raw, err := c.client.Get(ctx, c.key(role)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", role, err)
	}

	var rows []*models.RolePermission
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, false, fmt.Errorf("decode cached permissions: %w", err)
	}
	return rows, true, nil
}

func (c *RedisPermissionCache) Set(ctx context.Context, role string, rows []*models.RolePermission) error {
	raw, err := json.Marshal(rows)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(role), raw, c.ttl).Err()
}

func (c *RedisPermissionCache) Clear(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.prefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("redis scan: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis del: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
