// Package scheduler periodically enqueues syncs for users who opted in.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/timmy/jobnest/internal/logger"
)

// DefaultSpec runs the sync every six hours.
const DefaultSpec = "@every 6h"

// UserLister lists the users that want periodic syncs.
type UserLister interface {
	ListAutoSync(ctx context.Context) ([]string, error)
}

// Enqueuer schedules a sync for one user.
type Enqueuer interface {
	Enqueue(ctx context.Context, userID string) error
}

// Scheduler wraps robfig/cron and fans one tick out into per-user tasks.
type Scheduler struct {
	cron       *cron.Cron
	users      UserLister
	queue      Enqueuer
	spec       string
	runOnStart bool
}

// New creates a Scheduler. An empty spec uses DefaultSpec.
func New(users UserLister, queue Enqueuer, spec string, runOnStart bool) *Scheduler {
	if spec == "" {
		spec = DefaultSpec
	}
	cronLog := cron.PrintfLogger(logger.GetDefault().WithField(logger.FieldComponent, "cron"))
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cronLog),
			cron.WithChain(cron.SkipIfStillRunning(cronLog)),
		),
		users:      users,
		queue:      queue,
		spec:       spec,
		runOnStart: runOnStart,
	}
}

// Start registers the tick and starts the cron loop.
func (s *Scheduler) Start(ctx context.Context) error {
	ctx = logger.SetComponent(ctx, "scheduler")
	if _, err := s.cron.AddFunc(s.spec, func() {
		s.tick(ctx)
	}); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", s.spec, err)
	}

	s.cron.Start()
	logger.CtxInfo(ctx, "Scheduler started, spec=%s", s.spec)

	if s.runOnStart {
		go s.tick(ctx)
	}
	return nil
}

// Stop halts the cron loop and waits for a running tick.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) tick(ctx context.Context) {
	n, err := s.Tick(ctx)
	if err != nil {
		logger.CtxError(ctx, "Scheduled sync failed: %v", err)
		return
	}
	logger.With(nil).WithCount(n).Info(ctx, "Scheduled syncs enqueued")
}

// Tick enqueues one sync per auto-sync user and returns how many were queued.
// A failed enqueue is logged and does not stop the others.
func (s *Scheduler) Tick(ctx context.Context) (int, error) {
	ids, err := s.users.ListAutoSync(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list auto-sync users: %w", err)
	}

	queued := 0
	for _, id := range ids {
		if err := s.queue.Enqueue(ctx, id); err != nil {
			logger.FromContext(ctx).WithError(err).WithField(logger.FieldUserID, id).Warn("Failed to enqueue sync")
			continue
		}
		queued++
	}
	return queued, nil
}
