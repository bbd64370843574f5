package bucket

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"tokenguard/internal/ratelimit/models"
)

// RedisStore counts requests in fixed windows shared by every replica. Each
// window is one key that expires with the window.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

func (s *RedisStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error) {
	return s.AllowN(ctx, key, 1, limit, window)
}

// AllowN adds cost to the current window and gives it back when the window
// would overflow, so rejected requests do not consume budget.
func (s *RedisStore) AllowN(ctx context.Context, key string, cost int, limit int, window time.Duration) (*models.RateLimitResult, error) {
	now := s.now()
	start := now.Truncate(window)
	resetAt := start.Add(window)
	windowKey := key + ":" + strconv.FormatInt(start.Unix(), 10)

	pipe := s.client.TxPipeline()
	incr := pipe.IncrBy(ctx, windowKey, int64(cost))
	pipe.Expire(ctx, windowKey, resetAt.Sub(now)+time.Second)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("rate limit incr: %w", err)
	}
	count := int(incr.Val())
	if count > limit {
		if err := s.client.DecrBy(ctx, windowKey, int64(cost)).Err(); err != nil {
			return nil, fmt.Errorf("rate limit rollback: %w", err)
		}
		return models.Denied(limit, resetAt, now), nil
	}
	return &models.RateLimitResult{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - count,
		ResetAt:   resetAt,
	}, nil
}

// Reset clears every window recorded for key.
func (s *RedisStore) Reset(ctx context.Context, key string) error {
	iter := s.client.Scan(ctx, 0, key+":*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("rate limit reset: %w", err)
		}
	}
	return iter.Err()
}
