package distributed

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// RedisCounter 여러 인스턴스가 공유하는 원자적 카운터 (INCR)
type RedisCounter struct {
	client redis.Cmdable
	key    string
}

func NewRedisCounter(client redis.Cmdable, key string) *RedisCounter {
	return &RedisCounter{client: client, key: key}
}

// Incr 1 증가 후 새 값 반환
func (c *RedisCounter) Incr(ctx context.Context) (int64, error) {
	v, err := c.client.Incr(ctx, c.key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to incr %s: %w", c.key, err)
	}
	return v, nil
}

// Get 현재 값 (키가 없으면 0)
func (c *RedisCounter) Get(ctx context.Context) (int64, error) {
	s, err := c.client.Get(ctx, c.key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get %s: %w", c.key, err)
	}
	return strconv.ParseInt(s, 10, 64)
}
