package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"github.com/timmy/jobnest/internal/bootstrap"
	"github.com/timmy/jobnest/internal/config"
	"github.com/timmy/jobnest/internal/logger"
	"github.com/timmy/jobnest/internal/queue"
	"github.com/timmy/jobnest/internal/scheduler"
)

func main() {
	appLogger := logger.NewFromEnv(nil)
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	configPath := flag.String("config", "", "Path to config file")
	noSchedule := flag.Bool("no-schedule", false, "Consume the queue without scheduling periodic syncs")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}
	if !cfg.Redis.Enabled {
		appLogger.Fatal("The worker requires redis.enabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, appLogger)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize application")
	}
	defer app.Close()

	if !*noSchedule {
		sched := scheduler.New(app.Users, app.Queue, cfg.Sync.Schedule, cfg.Sync.RunOnStart)
		if err := sched.Start(ctx); err != nil {
			appLogger.WithError(err).Fatal("Failed to start scheduler")
		}
		defer sched.Stop()
	}

	worker := queue.NewWorker(app.Queue, app.Sync.RunSync, queue.WorkerConfig{
		MaxAttempts:  cfg.Sync.MaxAttempts,
		RequeueDelay: cfg.Sync.RequeueDelay,
	})

	appLogger.WithFields(logger.Fields{
		"queue":        cfg.Sync.QueueKey,
		"max_attempts": cfg.Sync.MaxAttempts,
		"schedule":     cfg.Sync.Schedule,
	}).Info("Starting sync worker")

	if err := worker.Run(ctx); err != nil {
		appLogger.WithError(err).Error("Worker stopped with error")
	}
	appLogger.Info("Worker exited")
}
