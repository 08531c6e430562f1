package queue

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/timmy/jobnest/internal/logger"
)

// Handler processes one sync request.
type Handler func(ctx context.Context, userID string) error

// WorkerConfig holds retry settings.
type WorkerConfig struct {
	MaxAttempts  int
	RequeueDelay time.Duration
	PollTimeout  time.Duration
}

const (
	defaultMaxAttempts = 3
	defaultPollTimeout = 5 * time.Second
	errorBackoff       = time.Second
)

// Worker consumes the queue one task at a time. A failed task is pushed
// back after RequeueDelay until MaxAttempts is reached.
type Worker struct {
	queue        *Queue
	handler      Handler
	maxAttempts  int
	requeueDelay time.Duration
	pollTimeout  time.Duration

	pending sync.WaitGroup
}

// NewWorker creates a Worker.
func NewWorker(q *Queue, handler Handler, cfg WorkerConfig) *Worker {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = defaultPollTimeout
	}
	return &Worker{
		queue:        q,
		handler:      handler,
		maxAttempts:  cfg.MaxAttempts,
		requeueDelay: cfg.RequeueDelay,
		pollTimeout:  cfg.PollTimeout,
	}
}

// Run blocks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	ctx = logger.SetComponent(ctx, "sync-worker")
	logger.CtxInfo(ctx, "Worker started, max_attempts=%d", w.maxAttempts)

	for {
		if ctx.Err() != nil {
			w.pending.Wait()
			logger.CtxInfo(ctx, "Worker stopped")
			return nil
		}

		payload, err := w.queue.pop(ctx, w.pollTimeout)
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			logger.CtxWarn(ctx, "Failed to pop task: %v", err)
			select {
			case <-ctx.Done():
			case <-time.After(errorBackoff):
			}
			continue
		}

		w.process(ctx, payload)
	}
}

func (w *Worker) process(ctx context.Context, payload string) {
	var task Task
	if err := json.Unmarshal([]byte(payload), &task); err != nil || task.UserID == "" {
		logger.FromContext(ctx).WithField("payload", payload).Error("Dropping malformed task")
		return
	}
	if task.Attempt < 1 {
		task.Attempt = 1
	}

	ctx = logger.SetUserID(ctx, task.UserID)
	start := time.Now()
	err := w.handler(ctx, task.UserID)
	entry := logger.With(logger.Fields{logger.FieldAttempt: task.Attempt}).
		WithDuration(time.Since(start).Milliseconds())
	if err == nil {
		entry.Info(ctx, "Sync task done")
		return
	}

	if task.Attempt >= w.maxAttempts {
		entry.With(logger.Fields{"error": err.Error()}).Error(ctx, "Sync task failed, giving up")
		return
	}
	entry.With(logger.Fields{"error": err.Error()}).Warn(ctx, "Sync task failed, requeueing")

	task.Attempt++
	w.pending.Add(1)
	go func() {
		defer w.pending.Done()
		if w.requeueDelay > 0 {
			timer := time.NewTimer(w.requeueDelay)
			defer timer.Stop()
			// On shutdown the task goes back immediately so it is not lost.
			select {
			case <-ctx.Done():
			case <-timer.C:
			}
		}
		if err := w.queue.push(context.WithoutCancel(ctx), task); err != nil {
			logger.CtxError(ctx, "Failed to requeue task for attempt %d: %v", task.Attempt, err)
		}
	}()
}
