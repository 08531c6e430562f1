// Package bootstrap wires configuration into the stores, provider clients and
// services shared by every command.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/timmy/jobnest/internal/config"
	"github.com/timmy/jobnest/internal/domain"
	"github.com/timmy/jobnest/internal/logger"
	"github.com/timmy/jobnest/internal/queue"
	"github.com/timmy/jobnest/internal/repository"
	"github.com/timmy/jobnest/internal/service"
	"github.com/timmy/jobnest/internal/source"
	"github.com/timmy/jobnest/internal/source/arbeitnow"
	"github.com/timmy/jobnest/internal/source/jsearch"
	"github.com/timmy/jobnest/internal/source/remotive"
	"github.com/timmy/jobnest/internal/storage"
	"gorm.io/gorm"
)

// App holds the long-lived dependencies of a process.
type App struct {
	Config  *config.Config
	Logger  *logger.Logger
	DB      *gorm.DB
	Users   *repository.UserRepository
	Sources *repository.SourceRepository
	Jobs    *repository.JobRepository
	Logs    *repository.SyncLogRepository
	Archive storage.ObjectStorage
	Sync    *service.SyncService

	// Redis and Queue are nil unless redis.enabled is set.
	Redis *redis.Client
	Queue *queue.Queue
}

type bucketEnsurer interface {
	EnsureBucket(ctx context.Context) error
}

// New opens the database, seeds the provider registry and builds the sync service.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:  cfg,
		Logger:  log,
		DB:      db,
		Users:   repository.NewUserRepository(db),
		Sources: repository.NewSourceRepository(db),
		Jobs:    repository.NewJobRepository(db),
		Logs:    repository.NewSyncLogRepository(db),
	}

	if err := app.Sources.Ensure(ctx, SourceSeeds(cfg)); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to seed sources: %w", err)
	}

	archive, err := storage.NewStorage(&cfg.Storage)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	app.Archive = archive
	if b, ok := archive.(bucketEnsurer); ok {
		if err := b.EnsureBucket(ctx); err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to ensure storage bucket: %w", err)
		}
	}

	// A nil interface keeps the service from archiving.
	var rawArchive service.RawArchive
	if archive != nil {
		rawArchive = archive
	}

	app.Sync = service.NewSyncService(
		app.Users,
		app.Sources,
		app.Jobs,
		app.Logs,
		BuildClients(cfg),
		rawArchive,
		log,
		&service.SyncConfig{
			AllowedSources: cfg.Sync.AllowedSources,
			Country:        cfg.Sources.JSearch.Country,
		},
	)

	if cfg.Redis.Enabled {
		rdb, err := queue.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.Redis = rdb
		app.Queue = queue.New(rdb, cfg.Sync.QueueKey)
	}

	return app, nil
}

// Close releases the database and Redis connections.
func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.WithError(err).Warn("Failed to close redis")
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

// SourceSeeds describes every known provider with its configured enable flag.
func SourceSeeds(cfg *config.Config) []domain.JobSource {
	return []domain.JobSource{
		{ID: arbeitnow.SourceID, Name: arbeitnow.SourceName, BaseURL: cfg.Sources.Arbeitnow.BaseURL, IsEnabled: cfg.Sources.Arbeitnow.Enabled},
		{ID: jsearch.SourceID, Name: jsearch.SourceName, BaseURL: cfg.Sources.JSearch.BaseURL, IsEnabled: cfg.Sources.JSearch.Enabled},
		{ID: remotive.SourceID, Name: remotive.SourceName, BaseURL: cfg.Sources.Remotive.BaseURL, IsEnabled: cfg.Sources.Remotive.Enabled},
	}
}

// BuildClients creates a client for every provider enabled in configuration.
func BuildClients(cfg *config.Config) []source.Client {
	httpCfg := func(p config.ProviderConfig) source.HTTPConfig {
		return source.HTTPConfig{
			BaseURL:    p.BaseURL,
			Timeout:    cfg.Sync.Timeout,
			RetryCount: cfg.Sync.RetryCount,
			RetryWait:  cfg.Sync.RetryWait,
		}
	}

	var clients []source.Client
	if p := cfg.Sources.Arbeitnow; p.Enabled {
		clients = append(clients, arbeitnow.NewClient(httpCfg(p)))
	}
	if p := cfg.Sources.Remotive; p.Enabled {
		clients = append(clients, remotive.NewClient(httpCfg(p), p.Limit))
	}
	if p := cfg.Sources.JSearch; p.Enabled {
		clients = append(clients, jsearch.NewClient(jsearch.Config{
			HTTP:    httpCfg(p),
			APIKey:  p.APIKey,
			APIHost: p.APIHost,
			Country: p.Country,
		}))
	}
	return clients
}
