package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisCommands is the slice of the client the store uses.
type redisCommands interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	PExpire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	PTTL(ctx context.Context, key string) *redis.DurationCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisStore shares one budget across service instances. Counter and expiry
// live in Redis, so eviction is the server's TTL handling.
type RedisStore struct {
	client redisCommands
	prefix string
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "ratelimit"}
}

func (s *RedisStore) Increment(ctx context.Context, identifier string, window time.Duration) (int, time.Time, error) {
	key := fmt.Sprintf("%s:%s:%d", s.prefix, identifier, window.Milliseconds())

	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("rate limit incr: %w", err)
	}

	if count == 1 {
		if err := s.client.PExpire(ctx, key, window).Err(); err != nil {
			return 0, time.Time{}, fmt.Errorf("rate limit expire: %w", err)
		}
		return 1, time.Now().Add(window), nil
	}

	ttl, err := s.client.PTTL(ctx, key).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("rate limit ttl: %w", err)
	}
	if ttl < 0 {
		// The key lost its expiry (a failed PExpire, a flush): left alone
		// it would accumulate forever and throttle this identifier
		// permanently. Restart the window instead.
		if err := s.client.Set(ctx, key, 1, window).Err(); err != nil {
			return 0, time.Time{}, fmt.Errorf("rate limit window repair: %w", err)
		}
		return 1, time.Now().Add(window), nil
	}

	return int(count), time.Now().Add(ttl), nil
}
