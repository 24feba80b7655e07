package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter 고정 윈도우 요청 제한
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, *RateLimitInfo, error)
}

// RateLimitInfo Rate Limit 상세 정보
type RateLimitInfo struct {
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	ResetTime time.Time `json:"reset_time"`
}

func newInfo(limit int, count int64, reset time.Time) *RateLimitInfo {
	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return &RateLimitInfo{Limit: limit, Remaining: remaining, ResetTime: reset}
}

type window struct {
	count int64
	reset time.Time
}

// MemoryLimiter 단일 인스턴스용 (Redis 없이 로컬 실행, 테스트)
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	period  time.Duration
	now     func() time.Time
}

func NewMemoryLimiter(limit int, period time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
		now:     time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, *RateLimitInfo, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.evict(now)

	w, ok := l.windows[key]
	if !ok {
		w = &window{reset: now.Add(l.period)}
		l.windows[key] = w
	}
	w.count++

	return w.count <= int64(l.limit), newInfo(l.limit, w.count, w.reset), nil
}

// evict 만료된 윈도우 정리
func (l *MemoryLimiter) evict(now time.Time) {
	for key, w := range l.windows {
		if !now.Before(w.reset) {
			delete(l.windows, key)
		}
	}
}

// Reset 특정 키 초기화
func (l *MemoryLimiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key)
}
