package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
)

const DefaultUserTTL = 10 * time.Minute

// UserCache keeps public user profiles in redis under user:profile:<id>.
type UserCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewUserCache(rdb *redis.Client, ttl time.Duration) *UserCache {
	if ttl <= 0 {
		ttl = DefaultUserTTL
	}
	return &UserCache{rdb: rdb, ttl: ttl}
}

func userKey(id string) string { return "user:profile:" + id }

// Get returns nil, nil on a miss.
func (c *UserCache) Get(ctx context.Context, id string) (*entity.PublicUser, error) {
	var u entity.PublicUser
	ok, err := helpers.RedisGetJSON(ctx, c.rdb, userKey(id), &u)
	if err != nil || !ok {
		return nil, err
	}
	return &u, nil
}

func (c *UserCache) Set(ctx context.Context, u entity.PublicUser) error {
	return helpers.RedisSetJSON(ctx, c.rdb, userKey(u.ID), u, c.ttl)
}
