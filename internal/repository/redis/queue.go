package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dtroode/cride-server/internal/model"
)

const (
	keyPending = "notifications:pending"
	keyFailed  = "notifications:failed"
)

// redisAPI is the subset of *redis.Client the queue relies on.
type redisAPI interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	BRPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
}

var _ model.NotificationQueue = (*NotificationQueue)(nil)

// NotificationQueue is a FIFO of verification emails backed by Redis lists.
type NotificationQueue struct {
	rdb redisAPI
}

func NewNotificationQueue(rdb redisAPI) *NotificationQueue {
	return &NotificationQueue{rdb: rdb}
}

func (q *NotificationQueue) Push(ctx context.Context, n model.PendingNotification) error {
	if err := q.push(ctx, keyPending, n); err != nil {
		return fmt.Errorf("failed to enqueue notification: %w", err)
	}
	return nil
}

func (q *NotificationQueue) DeadLetter(ctx context.Context, n model.PendingNotification) error {
	if err := q.push(ctx, keyFailed, n); err != nil {
		return fmt.Errorf("failed to dead-letter notification: %w", err)
	}
	return nil
}

func (q *NotificationQueue) push(ctx context.Context, key string, n model.PendingNotification) error {
	b, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return q.rdb.LPush(ctx, key, b).Err()
}

// Pop waits up to wait for the oldest pending notification.
func (q *NotificationQueue) Pop(ctx context.Context, wait time.Duration) (model.PendingNotification, error) {
	res, err := q.rdb.BRPop(ctx, wait, keyPending).Result()
	if errors.Is(err, redis.Nil) {
		return model.PendingNotification{}, model.ErrNotFound
	}
	if err != nil {
		return model.PendingNotification{}, fmt.Errorf("failed to pop notification: %w", err)
	}
	// BRPOP replies with [key, value].
	if len(res) != 2 {
		return model.PendingNotification{}, fmt.Errorf("unexpected pop reply of %d elements", len(res))
	}

	var n model.PendingNotification
	if err := json.Unmarshal([]byte(res[1]), &n); err != nil {
		return model.PendingNotification{}, fmt.Errorf("failed to decode notification: %w", err)
	}
	return n, nil
}
