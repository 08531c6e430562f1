package queue

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQueue(t *testing.T) (*Queue, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return New(rdb, "test:sync"), mr
}

type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, userID)
	return len(r.calls)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func runWorker(t *testing.T, w *Worker) context.CancelFunc {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return cancel
}

func TestEnqueue_WritesTask(t *testing.T) {
	q, mr := newTestQueue(t)
	fixed := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	q.now = func() time.Time { return fixed }

	require.NoError(t, q.Enqueue(context.Background(), "user-1"))

	items, err := mr.List("test:sync")
	require.NoError(t, err)
	require.Len(t, items, 1)

	var task Task
	require.NoError(t, json.Unmarshal([]byte(items[0]), &task))
	assert.Equal(t, Task{UserID: "user-1", Attempt: 1, EnqueuedAt: fixed}, task)

	n, err := q.Len(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestWorker_ProcessesInOrder(t *testing.T) {
	q, _ := newTestQueue(t)
	rec := &recorder{}
	w := NewWorker(q, func(ctx context.Context, userID string) error {
		rec.add(userID)
		return nil
	}, WorkerConfig{PollTimeout: time.Second})

	ctx := context.Background()
	require.NoError(t, q.Enqueue(ctx, "a"))
	require.NoError(t, q.Enqueue(ctx, "b"))
	runWorker(t, w)

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 2 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, rec.snapshot())
}

func TestWorker_RetriesUpToMaxAttempts(t *testing.T) {
	q, _ := newTestQueue(t)
	rec := &recorder{}
	w := NewWorker(q, func(ctx context.Context, userID string) error {
		rec.add(userID)
		return errors.New("database unavailable")
	}, WorkerConfig{MaxAttempts: 3, RequeueDelay: 10 * time.Millisecond, PollTimeout: time.Second})

	require.NoError(t, q.Enqueue(context.Background(), "flaky"))
	runWorker(t, w)

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 3 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.Len(t, rec.snapshot(), 3)

	n, err := q.Len(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestWorker_SucceedsAfterRetry(t *testing.T) {
	q, _ := newTestQueue(t)
	rec := &recorder{}
	w := NewWorker(q, func(ctx context.Context, userID string) error {
		if rec.add(userID) == 1 {
			return errors.New("transient")
		}
		return nil
	}, WorkerConfig{MaxAttempts: 3, RequeueDelay: 10 * time.Millisecond, PollTimeout: time.Second})

	require.NoError(t, q.Enqueue(context.Background(), "u"))
	runWorker(t, w)

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 2 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.Len(t, rec.snapshot(), 2)
}

func TestWorker_DropsMalformedTasks(t *testing.T) {
	q, mr := newTestQueue(t)
	rec := &recorder{}
	w := NewWorker(q, func(ctx context.Context, userID string) error {
		rec.add(userID)
		return nil
	}, WorkerConfig{PollTimeout: time.Second})

	_, err := mr.Lpush("test:sync", "not json")
	require.NoError(t, err)
	_, err = mr.Lpush("test:sync", `{"attempt":1}`)
	require.NoError(t, err)
	require.NoError(t, q.Enqueue(context.Background(), "valid"))
	runWorker(t, w)

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"valid"}, rec.snapshot())
}
