package service

import (
	"context"
	"time"

	"github.com/spec-kit/idea-portal/internal/persistence"
)

// GenerationLimiter decides whether a student may request another generated idea.
type GenerationLimiter interface {
	Allow(ctx context.Context, studentID string) (bool, error)
}

// WindowCounter counts hits on a key within a fixed window.
type WindowCounter interface {
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RedisGenerationLimiter allows limit generations per student per window.
type RedisGenerationLimiter struct {
	counter WindowCounter
	limit   int64
	window  time.Duration
}

// NewRedisGenerationLimiter returns nil when limit is not positive, disabling limiting.
func NewRedisGenerationLimiter(counter WindowCounter, limit int, window time.Duration) *RedisGenerationLimiter {
	if limit <= 0 || counter == nil {
		return nil
	}
	return &RedisGenerationLimiter{counter: counter, limit: int64(limit), window: window}
}

// Allow counts the attempt and reports whether it is within the limit. A nil limiter
// allows everything.
func (l *RedisGenerationLimiter) Allow(ctx context.Context, studentID string) (bool, error) {
	if l == nil {
		return true, nil
	}
	count, err := l.counter.IncrWindow(ctx, "ideas:generate:"+studentID, l.window)
	if err != nil {
		return false, err
	}
	return count <= l.limit, nil
}

var (
	_ GenerationLimiter = (*RedisGenerationLimiter)(nil)
	_ WindowCounter     = (*persistence.Redis)(nil)
)
