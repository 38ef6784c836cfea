package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/task-service/internal/domain"
	"github.com/spec-kit/task-service/internal/persistence"
)

const (
	userListCacheKey   = "users:all"
	userCacheKeyPrefix = "users:id:"
)

// UserCache keeps public user projections in Redis as JSON. It is strictly
// best-effort: any cache failure degrades to the repository with a
// warn-level log.
type UserCache struct {
	redis  *persistence.Redis
	ttl    time.Duration
	logger *zap.Logger
}

// NewUserCache constructs the cache. A nil Redis handle disables it.
func NewUserCache(redis *persistence.Redis, ttl time.Duration, logger *zap.Logger) *UserCache {
	return &UserCache{redis: redis, ttl: ttl, logger: logger}
}

// GetList returns the cached directory listing, if present.
func (c *UserCache) GetList(ctx context.Context) ([]domain.PublicUser, bool) {
	if !c.enabled() {
		return nil, false
	}
	raw, err := c.redis.Client.Get(ctx, userListCacheKey).Bytes()
	if err != nil {
		return nil, false
	}
	var users []domain.PublicUser
	if err := json.Unmarshal(raw, &users); err != nil {
		c.logger.Warn("corrupt user list cache entry", zap.Error(err))
		return nil, false
	}
	return users, true
}

// SetList stores the directory listing.
func (c *UserCache) SetList(ctx context.Context, users []domain.PublicUser) {
	if !c.enabled() {
		return
	}
	raw, err := json.Marshal(users)
	if err != nil {
		return
	}
	if err := c.redis.Client.Set(ctx, userListCacheKey, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("failed to cache user list", zap.Error(err))
	}
}

// GetUser returns a cached public projection, if present.
func (c *UserCache) GetUser(ctx context.Context, id string) (*domain.PublicUser, bool) {
	if !c.enabled() {
		return nil, false
	}
	raw, err := c.redis.Client.Get(ctx, userCacheKeyPrefix+id).Bytes()
	if err != nil {
		return nil, false
	}
	var user domain.PublicUser
	if err := json.Unmarshal(raw, &user); err != nil {
		c.logger.Warn("corrupt user cache entry", zap.Error(err))
		return nil, false
	}
	return &user, true
}

// SetUser stores a public projection.
func (c *UserCache) SetUser(ctx context.Context, user domain.PublicUser) {
	if !c.enabled() {
		return
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return
	}
	if err := c.redis.Client.Set(ctx, userCacheKeyPrefix+user.ID, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("failed to cache user", zap.Error(err))
	}
}

// Invalidate drops the directory listing and any given per-id entries.
func (c *UserCache) Invalidate(ctx context.Context, ids ...string) {
	if !c.enabled() {
		return
	}
	keys := make([]string, 0, len(ids)+1)
	keys = append(keys, userListCacheKey)
	for _, id := range ids {
		keys = append(keys, userCacheKeyPrefix+id)
	}
	if err := c.redis.Client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("failed to invalidate user cache", zap.Error(err))
	}
}

func (c *UserCache) enabled() bool {
	return c != nil && c.redis != nil && c.redis.Client != nil
}
