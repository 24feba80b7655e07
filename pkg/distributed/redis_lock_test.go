package distributed

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLock_AcquireAndRelease(t *testing.T) {
	client := setupRedisClient(t)
	manager := NewRedisLockManager(client)
	ctx := context.Background()

	lock, err := manager.Acquire(ctx, "rejudge:1", 5*time.Second)
	require.NoError(t, err)

	// 이미 잡힌 락
	_, err = manager.Acquire(ctx, "rejudge:1", 5*time.Second)
	assert.ErrorIs(t, err, ErrLockNotAcquired)

	require.NoError(t, lock.Release(ctx))

	// 해제 후 재획득 가능
	lock, err = manager.Acquire(ctx, "rejudge:1", 5*time.Second)
	require.NoError(t, err)
	require.NoError(t, lock.Release(ctx))

	// 두 번 해제
	assert.ErrorIs(t, lock.Release(ctx), ErrLockNotHeld)
}

func TestRedisLock_ConcurrentAcquire(t *testing.T) {
	client := setupRedisClient(t)
	manager := NewRedisLockManager(client)
	ctx := context.Background()

	var acquired int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := manager.Acquire(ctx, "rejudge:2", 5*time.Second); err == nil {
				atomic.AddInt32(&acquired, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), acquired)
}

func TestRedisCounter_ConcurrentIncr(t *testing.T) {
	client := setupRedisClient(t)
	counter := NewRedisCounter(client, "judge_queue_length")
	ctx := context.Background()

	v, err := counter.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), v)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := counter.Incr(ctx)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	v, err = counter.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(50), v)
}
