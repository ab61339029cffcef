package cache

import (
	"context"
	"time"

	"github.com/workhub/workhub/internal/model"
)

const (
	// grantCachePrefix is the Redis key prefix for cached grant roles.
	grantCachePrefix = "grant:role:"
	// grantCacheTTL is the time-to-live for cached grant roles.
	grantCacheTTL = 30 * time.Second
)

func grantKey(userID, workspaceID string) string {
	return grantCachePrefix + userID + ":" + workspaceID
}

// GetGrantRole retrieves the cached role a user holds on a workspace.
// Returns ("", false) on a miss; cache errors are treated as misses so
// Redis being unavailable never blocks authorization.
func (c *Cache) GetGrantRole(ctx context.Context, userID, workspaceID string) (model.Role, bool) {
	val, err := c.client.Get(ctx, grantKey(userID, workspaceID)).Result()
	if err != nil {
		return "", false
	}

	role := model.Role(val)
	if !role.IsValid() {
		// Corrupted cache entry - treat as miss
		return "", false
	}

	return role, true
}

// SetGrantRole caches the role a user holds on a workspace.
func (c *Cache) SetGrantRole(ctx context.Context, userID, workspaceID string, role model.Role) error {
	return c.client.Set(ctx, grantKey(userID, workspaceID), string(role), grantCacheTTL).Err()
}

// DeleteGrantRole removes a cached grant role.
// Used when a grant changes or is revoked.
func (c *Cache) DeleteGrantRole(ctx context.Context, userID, workspaceID string) error {
	return c.client.Del(ctx, grantKey(userID, workspaceID)).Err()
}
