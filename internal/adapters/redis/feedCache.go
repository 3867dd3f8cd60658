package redis

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	totalKey = "feed:total"
	totalTTL = time.Minute
)

// FeedCacheRedis caches the table-wide post count so feed reads between
// uploads skip the COUNT query. Uploads delete the key, the TTL covers
// writers outside this process.
type FeedCacheRedis struct {
	Client *redis.Client
}

func NewFeedCacheRedis(client *redis.Client) *FeedCacheRedis {
	return &FeedCacheRedis{Client: client}
}

func (r *FeedCacheRedis) GetTotal(ctx context.Context) (int64, bool, error) {
	total, err := r.Client.Get(ctx, totalKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return total, true, nil
}

func (r *FeedCacheRedis) SetTotal(ctx context.Context, total int64) error {
	return r.Client.Set(ctx, totalKey, total, totalTTL).Err()
}

func (r *FeedCacheRedis) Invalidate(ctx context.Context) error {
	return r.Client.Del(ctx, totalKey).Err()
}
