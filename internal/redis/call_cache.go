package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// CallCache holds the per-call read-through entries: the full-info projection
// and the accepted-call-by-team lookup. Mutations never update entries in
// place; they delete the affected keys and let the next read repopulate.
type CallCache struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewCallCache(client *goredis.Client, ttlSeconds int) *CallCache {
	return &CallCache{
		client: client,
		ttl:    time.Duration(ttlSeconds) * time.Second,
	}
}

func (c *CallCache) GetFullInfo(ctx context.Context, callID uuid.UUID, dest any) (bool, error) {
	return c.get(ctx, callFullInfoKey(callID), dest)
}

func (c *CallCache) SetFullInfo(ctx context.Context, callID uuid.UUID, v any) error {
	return c.set(ctx, callFullInfoKey(callID), v)
}

func (c *CallCache) InvalidateFullInfo(ctx context.Context, callID uuid.UUID) error {
	return c.client.Del(ctx, callFullInfoKey(callID)).Err()
}

func (c *CallCache) GetByTeam(ctx context.Context, teamID uuid.UUID, dest any) (bool, error) {
	return c.get(ctx, callByTeamKey(teamID), dest)
}

func (c *CallCache) SetByTeam(ctx context.Context, teamID uuid.UUID, v any) error {
	return c.set(ctx, callByTeamKey(teamID), v)
}

func (c *CallCache) InvalidateByTeam(ctx context.Context, teamID uuid.UUID) error {
	return c.client.Del(ctx, callByTeamKey(teamID)).Err()
}

func (c *CallCache) get(ctx context.Context, key string, dest any) (bool, error) {
	bytes, err := c.client.Get(ctx, key).Bytes()
	if err == goredis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal(bytes, dest); err != nil {
		return false, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return true, nil
}

func (c *CallCache) set(ctx context.Context, key string, v any) error {
	bytes, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return c.client.Set(ctx, key, bytes, c.ttl).Err()
}

func callFullInfoKey(callID uuid.UUID) string {
	return fmt.Sprintf("call:full_info:%s", callID)
}

func callByTeamKey(teamID uuid.UUID) string {
	return fmt.Sprintf("call:by_team:%s", teamID)
}
