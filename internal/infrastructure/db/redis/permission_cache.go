package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fieldserve/fieldservice-system/internal/api/metrics"
	"github.com/fieldserve/fieldservice-system/internal/core/domain"
)

const permissionTTL = 5 * time.Minute

// PermissionCache caches per-user permission sets in Redis.
// Key format: perms:<user_id>, value is the JSON-encoded set.
type PermissionCache struct {
	client *redis.Client
}

// NewPermissionCache creates a PermissionCache wrapping the given Redis client.
func NewPermissionCache(client *redis.Client) *PermissionCache {
	return &PermissionCache{client: client}
}

// Get returns the cached permission set and whether it was present.
func (p *PermissionCache) Get(ctx context.Context, userID string) (domain.PermissionSet, bool, error) {
	raw, err := p.client.Get(ctx, p.key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.PermissionCacheTotal.WithLabelValues("miss").Inc()
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("permission cache get: %w", err)
	}

	var set domain.PermissionSet
	if err := json.Unmarshal(raw, &set); err != nil {
		// Corrupt entry: treat as a miss so the store refreshes it.
		metrics.PermissionCacheTotal.WithLabelValues("miss").Inc()
		return nil, false, nil
	}

	metrics.PermissionCacheTotal.WithLabelValues("hit").Inc()
	return set, true, nil
}

// Set stores the permission set (expires after permissionTTL).
func (p *PermissionCache) Set(ctx context.Context, userID string, perms domain.PermissionSet) error {
	raw, err := json.Marshal(perms)
	if err != nil {
		return fmt.Errorf("permission cache encode: %w", err)
	}
	return p.client.Set(ctx, p.key(userID), raw, permissionTTL).Err()
}

// Invalidate drops the cached set, forcing the next read through the store.
func (p *PermissionCache) Invalidate(ctx context.Context, userID string) error {
	return p.client.Del(ctx, p.key(userID)).Err()
}

func (p *PermissionCache) key(userID string) string {
	return "perms:" + userID
}
