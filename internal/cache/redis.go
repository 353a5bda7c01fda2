package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// LikedMeTTL bounds how stale a cached "who liked me" counter may get before
// the next read falls back to the database.
const LikedMeTTL = time.Hour

type RedisCache struct {
	Client *redis.Client
}

func New(addr, password string) *RedisCache {
	opts := &redis.Options{Addr: addr}
	if password != "" {
		opts.Password = password
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func likedMeKey(userID int64) string {
	return fmt.Sprintf("dating:likedme:%d", userID)
}

// GetLikedMeCount returns the cached counter for a user. The second return
// value is false on a cache miss.
func (c *RedisCache) GetLikedMeCount(ctx context.Context, userID int64) (int64, bool, error) {
	val, err := c.Client.Get(ctx, likedMeKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, nil
	}
	// counter read means the user is active; keep it warm
	_ = c.Client.Expire(ctx, likedMeKey(userID), LikedMeTTL).Err()
	return n, true, nil
}

func (c *RedisCache) SetLikedMeCount(ctx context.Context, userID, count int64) error {
	return c.Client.Set(ctx, likedMeKey(userID), count, LikedMeTTL).Err()
}

// BumpLikedMeCount adjusts an existing counter after a like (+1) or a
// like-withdrawn pass (-1). A missing key is left missing so the next read
// repopulates from the database.
func (c *RedisCache) BumpLikedMeCount(ctx context.Context, userID int64, delta int64) {
	key := likedMeKey(userID)
	exists, err := c.Client.Exists(ctx, key).Result()
	if err != nil || exists == 0 {
		return
	}
	_ = c.Client.IncrBy(ctx, key, delta).Err()
	_ = c.Client.Expire(ctx, key, LikedMeTTL).Err()
}

func (c *RedisCache) InvalidateLikedMeCount(ctx context.Context, userID int64) {
	_ = c.Client.Del(ctx, likedMeKey(userID)).Err()
}
