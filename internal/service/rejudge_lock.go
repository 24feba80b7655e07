package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yankaics/OnlineJudge/pkg/distributed"
	"github.com/yankaics/OnlineJudge/pkg/logger"
)

// RejudgeLocker 같은 제출의 재채점이 동시에 두 번 큐에 들어가지 않도록 막는다
type RejudgeLocker interface {
	Lock(ctx context.Context, submissionID int64) (release func(), err error)
}

type redisRejudgeLocker struct {
	manager *distributed.RedisLockManager
	ttl     time.Duration
}

// NewRedisRejudgeLocker ttl은 디스패치 타임아웃보다 길어야 한다
func NewRedisRejudgeLocker(manager *distributed.RedisLockManager, ttl time.Duration) RejudgeLocker {
	return &redisRejudgeLocker{manager: manager, ttl: ttl}
}

func (l *redisRejudgeLocker) Lock(ctx context.Context, submissionID int64) (func(), error) {
	lock, err := l.manager.Acquire(ctx, fmt.Sprintf("rejudge:%d", submissionID), l.ttl)
	if errors.Is(err, distributed.ErrLockNotAcquired) {
		return nil, ErrRejudgeInProgress
	}
	if err != nil {
		return nil, fmt.Errorf("failed to acquire rejudge lock: %w", err)
	}

	return func() {
		// 요청 ctx가 끝났어도 해제는 시도
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := lock.Release(ctx); err != nil {
			logger.Warn("Failed to release rejudge lock", "submissionId", submissionID, "error", err)
		}
	}, nil
}
