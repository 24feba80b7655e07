package judge

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// 큐 우선순위: 새 제출이 재채점보다 먼저 처리된다
const (
	PriorityRejudge = 0
	PrioritySubmit  = 10
)

// Job judge worker에 전달되는 작업 설명
type Job struct {
	SubmissionID int64  `json:"submission_id"`
	TimeLimit    int    `json:"time_limit"`
	MemoryLimit  int    `json:"memory_limit"`
	TestCaseID   string `json:"test_case_id"`
}

// TaskQueue 외부 비동기 실행 큐 (발행만 담당)
type TaskQueue interface {
	Submit(ctx context.Context, job Job, priority int) error
}

// Counter 큐 깊이 카운터
type Counter interface {
	Incr(ctx context.Context) (int64, error)
}

type Dispatcher struct {
	queue   TaskQueue
	counter Counter
	timeout time.Duration
	logger  *zap.SugaredLogger
}

func NewDispatcher(queue TaskQueue, counter Counter, timeout time.Duration, logger *zap.SugaredLogger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Dispatcher{
		queue:   queue,
		counter: counter,
		timeout: timeout,
		logger:  logger,
	}
}

// Dispatch 작업을 큐에 넘기고 성공 시에만 카운터를 1 올린다.
// 카운터 갱신 실패는 작업이 이미 전달된 뒤이므로 로그만 남긴다.
func (d *Dispatcher) Dispatch(ctx context.Context, job Job, priority int) error {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	if err := d.queue.Submit(ctx, job, priority); err != nil {
		return fmt.Errorf("failed to submit judge job: %w", err)
	}

	depth, err := d.counter.Incr(ctx)
	if err != nil {
		d.logger.Warnw("Failed to increment judge queue length",
			"submissionId", job.SubmissionID,
			"error", err)
		return nil
	}

	d.logger.Debugw("Judge job dispatched",
		"submissionId", job.SubmissionID,
		"priority", priority,
		"queueLength", depth)

	return nil
}
