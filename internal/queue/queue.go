// Package queue carries sync requests from the API and scheduler to the worker
// over a Redis list.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKey is the Redis list sync tasks are pushed to.
const DefaultKey = "jobnest:sync:queue"

// Task is one queued sync request.
type Task struct {
	UserID     string    `json:"user_id"`
	Attempt    int       `json:"attempt"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// Queue pushes tasks with LPUSH; workers pop with BRPOP, so the list is FIFO.
type Queue struct {
	rdb *redis.Client
	key string
	now func() time.Time
}

// New creates a Queue on key. An empty key uses DefaultKey.
func New(rdb *redis.Client, key string) *Queue {
	if key == "" {
		key = DefaultKey
	}
	return &Queue{rdb: rdb, key: key, now: time.Now}
}

// Enqueue schedules a sync for userID.
func (q *Queue) Enqueue(ctx context.Context, userID string) error {
	return q.push(ctx, Task{UserID: userID, Attempt: 1, EnqueuedAt: q.now().UTC()})
}

func (q *Queue) push(ctx context.Context, task Task) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to encode task: %w", err)
	}
	if err := q.rdb.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("failed to enqueue sync for %s: %w", task.UserID, err)
	}
	return nil
}

// pop waits up to timeout for a task payload. It returns redis.Nil on timeout.
func (q *Queue) pop(ctx context.Context, timeout time.Duration) (string, error) {
	res, err := q.rdb.BRPop(ctx, timeout, q.key).Result()
	if err != nil {
		return "", err
	}
	// BRPOP replies with [key, value].
	return res[1], nil
}

// Len returns the number of pending tasks.
func (q *Queue) Len(ctx context.Context) (int64, error) {
	return q.rdb.LLen(ctx, q.key).Result()
}
