package ratelimit

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// fixedWindowScript mirrors MemoryLimiter: the first hit creates the counter
// with a TTL of one window, hits at the limit are refused without counting.
// INCR keeps the TTL set by the first hit.
var fixedWindowScript = redis.NewScript(`
local current = redis.call('GET', KEYS[1])
if not current then
  redis.call('SET', KEYS[1], 1, 'PX', ARGV[1])
  return 0
end
if tonumber(current) >= tonumber(ARGV[2]) then
  return 1
end
redis.call('INCR', KEYS[1])
return 0
`)

// RedisLimiter shares fixed window counters between instances through Redis
type RedisLimiter struct {
	client *redis.Client
	prefix string
	window Window
}

// NewRedisLimiter creates a limiter whose keys are namespaced by prefix,
// so several endpoints can share one Redis database.
func NewRedisLimiter(client *redis.Client, prefix string, w Window) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		prefix: prefix,
		window: w,
	}
}

func (l *RedisLimiter) IsLimited(ctx context.Context, key string) (bool, error) {
	res, err := fixedWindowScript.Run(ctx, l.client,
		[]string{l.redisKey(key)},
		l.window.Length.Milliseconds(),
		l.window.Limit,
	).Int()
	if err != nil {
		return false, fmt.Errorf("redis rate limit check failed: %w", err)
	}
	return res == 1, nil
}

func (l *RedisLimiter) Reset(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, l.redisKey(key)).Err(); err != nil {
		return fmt.Errorf("redis rate limit reset failed: %w", err)
	}
	return nil
}

func (l *RedisLimiter) redisKey(key string) string {
	return fmt.Sprintf("ratelimit:%s:%s", l.prefix, key)
}
