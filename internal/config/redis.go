package config

import (
	"context"

	"github.com/go-redis/redis/v8"
)

// OpenRedis connects to Redis and verifies the connection with a ping.
// Returns nil without error when no Redis address is configured; the feed
// cache is optional.
func OpenRedis(ctx context.Context, cfg *Config) (*redis.Client, error) {
	if cfg.RedisAddr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
