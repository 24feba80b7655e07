package judge

import (
	"context"

	"github.com/yankaics/OnlineJudge/pkg/broker"
	"github.com/yankaics/OnlineJudge/pkg/distributed"
)

// RedisTaskQueue Redis sorted set 큐로 작업 전달
type RedisTaskQueue struct {
	queue *distributed.RedisQueue
}

func NewRedisTaskQueue(queue *distributed.RedisQueue) *RedisTaskQueue {
	return &RedisTaskQueue{queue: queue}
}

func (q *RedisTaskQueue) Submit(ctx context.Context, job Job, priority int) error {
	_, err := q.queue.Enqueue(ctx, job, priority)
	return err
}

// NATSTaskQueue NATS subject로 작업 발행 (우선순위는 worker 쪽에서 무시됨)
type NATSTaskQueue struct {
	publisher *broker.Publisher
}

func NewNATSTaskQueue(publisher *broker.Publisher) *NATSTaskQueue {
	return &NATSTaskQueue{publisher: publisher}
}

func (q *NATSTaskQueue) Submit(ctx context.Context, job Job, _ int) error {
	return q.publisher.Publish(ctx, job)
}
