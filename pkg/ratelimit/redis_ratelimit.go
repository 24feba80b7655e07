package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// INCR 후 첫 요청에만 만료 설정. 남은 TTL(ms)을 같이 돌려준다.
var fixedWindowScript = redis.NewScript(`
	local count = redis.call('INCR', KEYS[1])
	if count == 1 then
		redis.call('PEXPIRE', KEYS[1], ARGV[1])
	end
	local ttl = redis.call('PTTL', KEYS[1])
	return {count, ttl}
`)

// RedisRateLimiter Redis 기반 분산 고정 윈도우 Rate Limiter
type RedisRateLimiter struct {
	client    redis.Cmdable
	keyPrefix string
	limit     int
	window    time.Duration
}

func NewRedisRateLimiter(client redis.Cmdable, keyPrefix string, limit int, window time.Duration) *RedisRateLimiter {
	if keyPrefix == "" {
		keyPrefix = "ratelimit:"
	}
	if limit <= 0 {
		limit = 60
	}
	if window <= 0 {
		window = time.Minute
	}

	return &RedisRateLimiter{
		client:    client,
		keyPrefix: keyPrefix,
		limit:     limit,
		window:    window,
	}
}

// Allow 요청 허용 여부와 남은 횟수
func (r *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, *RateLimitInfo, error) {
	result, err := fixedWindowScript.Run(ctx, r.client, []string{r.keyPrefix + key}, r.window.Milliseconds()).Int64Slice()
	if err != nil {
		return false, nil, fmt.Errorf("redis script execution failed: %w", err)
	}
	if len(result) < 2 {
		return false, nil, fmt.Errorf("invalid script result")
	}

	count, ttl := result[0], result[1]
	if ttl < 0 {
		ttl = r.window.Milliseconds()
	}

	info := newInfo(r.limit, count, time.Now().Add(time.Duration(ttl)*time.Millisecond))
	return count <= int64(r.limit), info, nil
}

// Reset 특정 키의 Rate Limit 초기화
func (r *RedisRateLimiter) Reset(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to reset rate limit: %w", err)
	}
	return nil
}
