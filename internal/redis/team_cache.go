package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const teamListKey = "teams:full_info"

// TeamListCache caches the aggregate full-info team listing under a single
// key, invalidated whenever an assignment or team mutation changes it.
type TeamListCache struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewTeamListCache(client *goredis.Client, ttlSeconds int) *TeamListCache {
	return &TeamListCache{
		client: client,
		ttl:    time.Duration(ttlSeconds) * time.Second,
	}
}

func (c *TeamListCache) Get(ctx context.Context, dest any) (bool, error) {
	bytes, err := c.client.Get(ctx, teamListKey).Bytes()
	if err == goredis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get %s: %w", teamListKey, err)
	}
	if err := json.Unmarshal(bytes, dest); err != nil {
		return false, fmt.Errorf("unmarshal %s: %w", teamListKey, err)
	}
	return true, nil
}

func (c *TeamListCache) Set(ctx context.Context, v any) error {
	bytes, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", teamListKey, err)
	}
	return c.client.Set(ctx, teamListKey, bytes, c.ttl).Err()
}

func (c *TeamListCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, teamListKey).Err()
}
