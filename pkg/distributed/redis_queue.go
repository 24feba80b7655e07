package distributed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrQueueFull = errors.New("queue is full")

// QueueItem Redis Queue의 아이템
type QueueItem struct {
	ID        string          `json:"id"`
	Payload   json.RawMessage `json:"payload"`
	Priority  int             `json:"priority"` // 높을수록 우선순위 높음
	CreatedAt time.Time       `json:"created_at"`
}

// RedisQueue Redis Sorted Set 기반 우선순위 큐 (생산자 측)
// 같은 우선순위 안에서는 먼저 들어온 아이템이 먼저 나간다.
type RedisQueue struct {
	client   redis.Cmdable
	queueKey string
	maxSize  int // 0 = 무제한
}

// NewRedisQueue Redis Queue 생성
func NewRedisQueue(client redis.Cmdable, queueName string, maxSize int) *RedisQueue {
	return &RedisQueue{
		client:   client,
		queueKey: fmt.Sprintf("queue:%s", queueName),
		maxSize:  maxSize,
	}
}

// 크기 확인과 추가를 원자적으로 처리
var enqueueScript = redis.NewScript(`
	local max_size = tonumber(ARGV[1])
	if max_size > 0 and redis.call('ZCARD', KEYS[1]) >= max_size then
		return 0
	end
	redis.call('ZADD', KEYS[1], ARGV[2], ARGV[3])
	return 1
`)

// score 계산: 우선순위가 높을수록, 같으면 먼저 들어올수록 작은 값 (ZPOPMIN 소비자 기준)
func score(priority int, at time.Time) float64 {
	return float64(-priority)*1e13 + float64(at.UnixMilli())
}

// Enqueue 페이로드를 큐에 추가하고 아이템 ID 반환
func (q *RedisQueue) Enqueue(ctx context.Context, payload interface{}, priority int) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	item := QueueItem{
		ID:        uuid.New().String(),
		Payload:   raw,
		Priority:  priority,
		CreatedAt: time.Now(),
	}

	data, err := json.Marshal(item)
	if err != nil {
		return "", fmt.Errorf("failed to marshal item: %w", err)
	}

	added, err := enqueueScript.Run(ctx, q.client, []string{q.queueKey},
		q.maxSize, score(priority, item.CreatedAt), data).Int()
	if err != nil {
		return "", fmt.Errorf("failed to enqueue: %w", err)
	}
	if added == 0 {
		return "", ErrQueueFull
	}

	return item.ID, nil
}

// Size 큐 크기 조회
func (q *RedisQueue) Size(ctx context.Context) (int64, error) {
	return q.client.ZCard(ctx, q.queueKey).Result()
}
