package distributed

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrLockNotAcquired = errors.New("lock not acquired")
	ErrLockNotHeld     = errors.New("lock not held")
)

// 자신이 획득한 락만 해제
var releaseScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`)

// RedisLock Redis 기반 분산 락
type RedisLock struct {
	client redis.Cmdable
	key    string
	token  string
}

// RedisLockManager Redis 분산 락 관리자
type RedisLockManager struct {
	client redis.Cmdable
	prefix string
}

// NewRedisLockManager Redis Lock Manager 생성
func NewRedisLockManager(client redis.Cmdable) *RedisLockManager {
	return &RedisLockManager{
		client: client,
		prefix: "lock:",
	}
}

// Acquire SET NX로 락 획득. 이미 잡혀 있으면 ErrLockNotAcquired
func (m *RedisLockManager) Acquire(ctx context.Context, name string, ttl time.Duration) (*RedisLock, error) {
	token := uuid.New().String()
	key := m.prefix + name

	ok, err := m.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLockNotAcquired
	}

	return &RedisLock{client: m.client, key: key, token: token}, nil
}

// Release 락 해제
func (l *RedisLock) Release(ctx context.Context) error {
	result, err := releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Int()
	if err != nil {
		return err
	}
	if result == 0 {
		return ErrLockNotHeld
	}
	return nil
}
