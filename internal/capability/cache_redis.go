package capability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "priorauth:capability:"

// RedisHandleCache shares resolved endpoint handles across service instances.
type RedisHandleCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisHandleCache(client *redis.Client, ttl time.Duration) *RedisHandleCache {
	return &RedisHandleCache{client: client, ttl: ttl}
}

func (c *RedisHandleCache) Get(ctx context.Context, capability string) (string, error) {
	endpoint, err := c.client.Get(ctx, redisKeyPrefix+capability).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get capability handle: %w", err)
	}
	return endpoint, nil
}

func (c *RedisHandleCache) Set(ctx context.Context, capability, endpoint string) error {
	if err := c.client.Set(ctx, redisKeyPrefix+capability, endpoint, c.ttl).Err(); err != nil {
		return fmt.Errorf("set capability handle: %w", err)
	}
	return nil
}
